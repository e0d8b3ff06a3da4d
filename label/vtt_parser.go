package label

import (
	"regexp"
	"strings"
)

var (
	vttTimestampRe = regexp.MustCompile(
		`(\d{2}):(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2})\.(\d{3})`,
	)
	vttShortTimestampRe = regexp.MustCompile(
		`(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(\d{2}):(\d{2})\.(\d{3})`,
	)
)

func parseVTT(lines []string, o *readOptions, s *Set) error {
	r := newLineReader(lines, FormatVTT, o.path)
	r.tier = subtitleTierName
	t := NewIntervalTier(subtitleTierName)

	var current *cue
	flush := func() error {
		if current == nil || len(current.text) == 0 {
			current = nil
			return nil
		}
		l, err := NewInterval(strings.Join(current.text, "\n"), current.t1, current.t2)
		if err != nil {
			return r.fail("end time >= start time", "", err)
		}
		current = nil
		return t.Add(l)
	}
	// skipBlock drops a NOTE or STYLE block up to the next blank line.
	skipBlock := func() {
		for {
			line, ok := r.next()
			if !ok || strings.TrimSpace(line) == "" {
				return
			}
		}
	}

	headerParsed := false
	for {
		line, ok := r.next()
		if !ok {
			break
		}
		trimmed := strings.TrimSpace(line)

		if !headerParsed {
			if strings.HasPrefix(trimmed, "WEBVTT") {
				headerParsed = true
				continue
			}
			if trimmed != "" {
				return r.fail("WEBVTT", line, nil)
			}
			continue
		}

		if strings.HasPrefix(trimmed, "NOTE") || strings.HasPrefix(trimmed, "STYLE") {
			skipBlock()
			continue
		}

		if trimmed == "" {
			if err := flush(); err != nil {
				return err
			}
			continue
		}

		if m := vttTimestampRe.FindStringSubmatch(line); len(m) == 9 {
			if err := flush(); err != nil {
				return err
			}
			current = &cue{
				t1:    clockSeconds(m[1], m[2], m[3], m[4]),
				t2:    clockSeconds(m[5], m[6], m[7], m[8]),
				timed: true,
			}
			continue
		}

		if m := vttShortTimestampRe.FindStringSubmatch(line); len(m) == 7 {
			if err := flush(); err != nil {
				return err
			}
			current = &cue{
				t1:    clockSeconds("00", m[1], m[2], m[3]),
				t2:    clockSeconds("00", m[4], m[5], m[6]),
				timed: true,
			}
			continue
		}

		// anything else before a timestamp is a cue identifier
		if current != nil {
			current.text = append(current.text, line)
		}
	}
	if !headerParsed {
		return r.eof("WEBVTT")
	}
	if err := flush(); err != nil {
		return err
	}

	return s.Add(t)
}
