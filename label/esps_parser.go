package label

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	defaultESPSSeparator = ";"
	// waves+ default label color
	defaultESPSColor = "121"
)

var (
	espsSeparatorRe = regexp.MustCompile(`separator\s+(\S+)`)
	espsEndHeadRe   = regexp.MustCompile(`^#`)
	espsEmptyLineRe = regexp.MustCompile(`^\s*(#.*)?$`)
)

// parseESPS reads an ESPS/waves+ label file. Each body line carries the
// end time of an interval; the start is the previous line's time. The
// content splits on the separator into one tier per field position.
// The nfields header is not trusted: tiers are created as new field
// positions appear.
func parseESPS(lines []string, o *readOptions, s *Set) error {
	r := newLineReader(lines, FormatESPS, o.path)

	sep := defaultESPSSeparator
	for {
		line, ok := r.next()
		if !ok {
			return r.eof("header terminator '#'")
		}
		if m := espsSeparatorRe.FindStringSubmatch(line); m != nil {
			sep = m[1]
		}
		if espsEndHeadRe.MatchString(line) {
			break
		}
	}
	if o.hasSeparator {
		sep = o.separator
	}

	var tiers []Tier
	prev := 0.0
	for {
		line, ok := r.next()
		if !ok {
			break
		}
		if espsEmptyLineRe.MatchString(line) {
			continue
		}
		parts := splitWhitespaceN(line, 3)
		if len(parts) < 2 {
			return r.fail("<time> <color> <content>", line, nil)
		}
		t2, err := parseTime(parts[0])
		if err != nil {
			return r.fail("<time> <color> <content>", line, err)
		}
		content := ""
		if len(parts) == 3 {
			content = parts[2]
		}

		for idx, val := range strings.Split(content, sep) {
			if idx >= len(tiers) {
				t := NewIntervalTier("")
				tiers = append(tiers, t)
				if err := s.Add(t); err != nil {
					return err
				}
			}
			l, err := NewInterval(val, prev, t2)
			if err != nil {
				return r.fail("times in ascending order", line, err)
			}
			l.AppData = parts[1]
			if err := tiers[idx].Add(l); err != nil {
				return r.fail("label within tier", line, err)
			}
		}
		prev = t2
	}
	return nil
}

// splitWhitespaceN splits s on runs of whitespace into at most n fields.
// The last field keeps its inner whitespace but not trailing whitespace.
func splitWhitespaceN(s string, n int) []string {
	s = strings.TrimSpace(s)
	var parts []string
	for s != "" && len(parts) < n-1 {
		i := strings.IndexFunc(s, unicode.IsSpace)
		if i < 0 {
			break
		}
		parts = append(parts, s[:i])
		s = strings.TrimLeftFunc(s[i:], unicode.IsSpace)
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
