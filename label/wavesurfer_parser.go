package label

import "strings"

// parseWavesurfer reads "t1 t2 text" lines into one unnamed interval tier.
func parseWavesurfer(lines []string, o *readOptions, s *Set) error {
	r := newLineReader(lines, FormatWavesurfer, o.path)
	t := NewIntervalTier("")
	for {
		line, ok := r.next()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := splitWhitespaceN(line, 3)
		if len(parts) < 2 {
			return r.fail("<t1> <t2> <text>", line, nil)
		}
		text := ""
		if len(parts) == 3 {
			text = parts[2]
		}
		l, err := ParseLabel(text, parts[0], parts[1])
		if err != nil {
			return r.fail("<t1> <t2> <text>", line, err)
		}
		if err := t.Add(l); err != nil {
			return r.fail("label within tier", line, err)
		}
	}
	return s.Add(t)
}
