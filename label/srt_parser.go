package label

import (
	"regexp"
	"strconv"
	"strings"
)

// subtitleTierName names the single tier produced by the SRT and VTT readers.
const subtitleTierName = "subtitle"

var srtTimestampRe = regexp.MustCompile(
	`(\d{2}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2}),(\d{3})`,
)

type cue struct {
	t1, t2 float64
	timed  bool
	text   []string
}

func parseSRT(lines []string, o *readOptions, s *Set) error {
	r := newLineReader(lines, FormatSRT, o.path)
	r.tier = subtitleTierName
	t := NewIntervalTier(subtitleTierName)

	var current *cue
	flush := func() error {
		if current == nil || !current.timed || len(current.text) == 0 {
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

	for {
		line, ok := r.next()
		if !ok {
			break
		}

		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return err
			}
			continue
		}

		if current == nil {
			if _, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
				current = &cue{}
				continue
			}
		}

		if current != nil && !current.timed {
			matches := srtTimestampRe.FindStringSubmatch(line)
			if len(matches) != 9 {
				return r.fail("hh:mm:ss,mmm --> hh:mm:ss,mmm", line, nil)
			}
			current.t1 = clockSeconds(matches[1], matches[2], matches[3], matches[4])
			current.t2 = clockSeconds(matches[5], matches[6], matches[7], matches[8])
			current.timed = true
			continue
		}

		if current != nil {
			current.text = append(current.text, line)
		}
	}
	if err := flush(); err != nil {
		return err
	}

	return s.Add(t)
}

// clockSeconds converts regex captured clock fields to seconds. The fields
// are all digit runs, so conversion cannot fail.
func clockSeconds(hours, minutes, seconds, millis string) float64 {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	sec, _ := strconv.Atoi(seconds)
	ms, _ := strconv.Atoi(millis)
	total := int64(h)*3600000 + int64(m)*60000 + int64(sec)*1000 + int64(ms)
	return float64(total) / 1000
}
