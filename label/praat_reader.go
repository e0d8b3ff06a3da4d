package label

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	praatIntervalClass = "IntervalTier"
	praatPointClass    = "TextTier"
)

var (
	praatFileTypeRe    = regexp.MustCompile(`^File type = "ooTextFile"`)
	praatObjectClassRe = regexp.MustCompile(`^Object class = "TextGrid"`)

	// the fourth header line tells the layouts apart
	praatLongHeaderRe  = regexp.MustCompile(`^\s*xmin = -?[\d.]`)
	praatShortHeaderRe = regexp.MustCompile(`^\s*-?[\d.]`)

	praatXminRe      = regexp.MustCompile(`^\s*xmin = (\S+)`)
	praatXmaxRe      = regexp.MustCompile(`^\s*xmax = (\S+)`)
	praatTiersRe     = regexp.MustCompile(`^\s*tiers\? <(exists|absent)>`)
	praatSizeRe      = regexp.MustCompile(`^\s*size = (\d+)`)
	praatItemListRe  = regexp.MustCompile(`^\s*item \[\]:`)
	praatItemRe      = regexp.MustCompile(`^\s*item \[(\d+)\]:`)
	praatClassRe     = regexp.MustCompile(`^\s*class = "([^"]*)"`)
	praatNameRe      = regexp.MustCompile(`^\s*name = (".*)$`)
	praatTierSizeRe  = regexp.MustCompile(`^\s*(intervals|points): size = (\d+)`)
	praatElementRe   = regexp.MustCompile(`^\s*(intervals|points) \[(\d+)\]:`)
	praatPointTimeRe = regexp.MustCompile(`^\s*(?:number|time) = (\S+)`)
	praatTextRe      = regexp.MustCompile(`^\s*(?:text|mark) = (".*)$`)
	praatExistsRe    = regexp.MustCompile(`^\s*<(exists|absent)>`)
)

func parsePraat(lines []string, o *readOptions, s *Set) error {
	if len(lines) < 4 {
		r := newLineReader(lines, FormatPraat, o.path)
		r.pos = len(lines)
		return r.eof("TextGrid header")
	}
	switch fourth := lines[3]; {
	case praatLongHeaderRe.MatchString(fourth):
		return parsePraatLong(newLineReader(lines, FormatPraatLong, o.path), s)
	case praatShortHeaderRe.MatchString(fourth):
		return parsePraatShort(newLineReader(lines, FormatPraatShort, o.path), s)
	default:
		return &ParseError{
			Format:   FormatPraat,
			Path:     o.path,
			Line:     4,
			Expected: `"xmin = <number>" (long) or "<number>" (short)`,
			Got:      strings.TrimSpace(fourth),
		}
	}
}

func readPraatFileHeader(r *lineReader) error {
	line, ok := r.next()
	if !ok {
		return r.eof(`File type = "ooTextFile"`)
	}
	if !praatFileTypeRe.MatchString(line) {
		return r.fail(`File type = "ooTextFile"`, line, nil)
	}
	line, ok = r.next()
	if !ok {
		return r.eof(`Object class = "TextGrid"`)
	}
	if !praatObjectClassRe.MatchString(line) {
		return r.fail(`Object class = "TextGrid"`, line, nil)
	}
	return nil
}

// expect reads the next non-blank line and matches it against re.
func (r *lineReader) expect(re *regexp.Regexp, expected string) ([]string, error) {
	line, ok := r.nextNonBlank()
	if !ok {
		return nil, r.eof(expected)
	}
	m := re.FindStringSubmatch(line)
	if m == nil {
		return nil, r.fail(expected, line, nil)
	}
	return m, nil
}

func (r *lineReader) expectTime(re *regexp.Regexp, expected string) (float64, error) {
	m, err := r.expect(re, expected)
	if err != nil {
		return 0, err
	}
	v, err := parseTime(m[1])
	if err != nil {
		return 0, r.fail(expected, m[0], err)
	}
	return v, nil
}

func (r *lineReader) expectCount(re *regexp.Regexp, group int, expected string) (int, error) {
	m, err := r.expect(re, expected)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(m[group])
	if err != nil {
		return 0, r.fail(expected, m[0], err)
	}
	return n, nil
}

func parsePraatLong(r *lineReader, s *Set) error {
	if err := readPraatFileHeader(r); err != nil {
		return err
	}
	if _, err := r.expectTime(praatXminRe, "xmin = <number>"); err != nil {
		return err
	}
	if _, err := r.expectTime(praatXmaxRe, "xmax = <number>"); err != nil {
		return err
	}
	m, err := r.expect(praatTiersRe, "tiers? <exists>")
	if err != nil {
		return err
	}
	if m[1] == "absent" {
		return nil
	}
	numTiers, err := r.expectCount(praatSizeRe, 1, "size = <count>")
	if err != nil {
		return err
	}
	if _, err := r.expect(praatItemListRe, "item []:"); err != nil {
		return err
	}

	for i := 0; i < numTiers; i++ {
		r.tier = ""
		if _, err := r.expect(praatItemRe, fmt.Sprintf("item [%d]:", i+1)); err != nil {
			return err
		}
		t, n, err := readPraatLongTierHeader(r)
		if err != nil {
			return err
		}
		for j := 0; j < n; j++ {
			l, err := readPraatLongLabel(r, t.Kind())
			if err != nil {
				return err
			}
			if err := t.Add(l); err != nil {
				return r.fail("label within tier", l.String(), err)
			}
		}
		if err := s.Add(t); err != nil {
			return err
		}
	}
	return nil
}

// readPraatLongTierHeader reads class, name, xmin, xmax and size.
func readPraatLongTierHeader(r *lineReader) (Tier, int, error) {
	m, err := r.expect(praatClassRe, `class = "IntervalTier"|"TextTier"`)
	if err != nil {
		return nil, 0, err
	}
	kind, err := praatKind(m[1])
	if err != nil {
		return nil, 0, r.fail(`class = "IntervalTier"|"TextTier"`, m[0], err)
	}

	m, err = r.expect(praatNameRe, `name = "<text>"`)
	if err != nil {
		return nil, 0, err
	}
	name, err := readPraatString(r, m[1])
	if err != nil {
		return nil, 0, err
	}
	r.tier = name

	start, err := r.expectTime(praatXminRe, "xmin = <number>")
	if err != nil {
		return nil, 0, err
	}
	end, err := r.expectTime(praatXmaxRe, "xmax = <number>")
	if err != nil {
		return nil, 0, err
	}
	n, err := r.expectCount(praatTierSizeRe, 2, "intervals|points: size = <count>")
	if err != nil {
		return nil, 0, err
	}
	return NewTier(kind, name, WithBounds(start, end), WithCapacity(n)), n, nil
}

func readPraatLongLabel(r *lineReader, kind Kind) (*Label, error) {
	element := "intervals"
	if kind == KindPoint {
		element = "points"
	}
	m, err := r.expect(praatElementRe, element+" [<n>]:")
	if err != nil {
		return nil, err
	}
	if m[1] != element {
		return nil, r.fail(element+" [<n>]:", m[0], nil)
	}

	var l *Label
	if kind == KindInterval {
		t1, err := r.expectTime(praatXminRe, "xmin = <number>")
		if err != nil {
			return nil, err
		}
		t2, err := r.expectTime(praatXmaxRe, "xmax = <number>")
		if err != nil {
			return nil, err
		}
		if l, err = NewInterval("", t1, t2); err != nil {
			return nil, r.fail("xmax >= xmin", "", err)
		}
	} else {
		t1, err := r.expectTime(praatPointTimeRe, "number = <number>")
		if err != nil {
			return nil, err
		}
		if l, err = NewPoint("", t1); err != nil {
			return nil, r.fail("number = <number>", "", err)
		}
	}

	m, err = r.expect(praatTextRe, `text|mark = "<text>"`)
	if err != nil {
		return nil, err
	}
	if l.Text, err = readPraatString(r, m[1]); err != nil {
		return nil, err
	}
	return l, nil
}

func parsePraatShort(r *lineReader, s *Set) error {
	if err := readPraatFileHeader(r); err != nil {
		return err
	}
	if _, err := r.expectNumber("<xmin>"); err != nil {
		return err
	}
	if _, err := r.expectNumber("<xmax>"); err != nil {
		return err
	}
	m, err := r.expect(praatExistsRe, "<exists>")
	if err != nil {
		return err
	}
	if m[1] == "absent" {
		return nil
	}
	numTiers, err := r.expectInt("<tier count>")
	if err != nil {
		return err
	}

	for i := 0; i < numTiers; i++ {
		r.tier = ""
		class, err := r.expectString(`"IntervalTier"|"TextTier"`)
		if err != nil {
			return err
		}
		kind, err := praatKind(class)
		if err != nil {
			return r.fail(`"IntervalTier"|"TextTier"`, class, err)
		}
		name, err := r.expectString(`"<tier name>"`)
		if err != nil {
			return err
		}
		r.tier = name
		start, err := r.expectNumber("<tier xmin>")
		if err != nil {
			return err
		}
		end, err := r.expectNumber("<tier xmax>")
		if err != nil {
			return err
		}
		n, err := r.expectInt("<label count>")
		if err != nil {
			return err
		}

		t := NewTier(kind, name, WithBounds(start, end), WithCapacity(n))
		for j := 0; j < n; j++ {
			l, err := readPraatShortLabel(r, kind)
			if err != nil {
				return err
			}
			if err := t.Add(l); err != nil {
				return r.fail("label within tier", l.String(), err)
			}
		}
		if err := s.Add(t); err != nil {
			return err
		}
	}
	return nil
}

func readPraatShortLabel(r *lineReader, kind Kind) (*Label, error) {
	t1, err := r.expectNumber("<label time>")
	if err != nil {
		return nil, err
	}
	var l *Label
	if kind == KindInterval {
		t2, err := r.expectNumber("<label end time>")
		if err != nil {
			return nil, err
		}
		if l, err = NewInterval("", t1, t2); err != nil {
			return nil, r.fail("end time >= start time", "", err)
		}
	} else {
		l, _ = NewPoint("", t1)
	}
	if l.Text, err = r.expectString(`"<label text>"`); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *lineReader) expectNumber(expected string) (float64, error) {
	line, ok := r.nextNonBlank()
	if !ok {
		return 0, r.eof(expected)
	}
	v, err := parseTime(line)
	if err != nil {
		return 0, r.fail(expected, line, err)
	}
	return v, nil
}

func (r *lineReader) expectInt(expected string) (int, error) {
	line, ok := r.nextNonBlank()
	if !ok {
		return 0, r.eof(expected)
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, r.fail(expected, line, err)
	}
	return n, nil
}

func (r *lineReader) expectString(expected string) (string, error) {
	line, ok := r.nextNonBlank()
	if !ok {
		return "", r.eof(expected)
	}
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, `"`) {
		return "", r.fail(expected, line, nil)
	}
	return readPraatString(r, trimmed)
}

// readPraatString decodes a Praat string literal starting at the opening
// quote of first. Doubled quotes stand for one quote; the literal may run
// over several physical lines until an unpaired quote closes it.
func readPraatString(r *lineReader, first string) (string, error) {
	var sb strings.Builder
	rest := first[1:]
	for {
		for i := 0; i < len(rest); i++ {
			if rest[i] != '"' {
				sb.WriteByte(rest[i])
				continue
			}
			if i+1 < len(rest) && rest[i+1] == '"' {
				sb.WriteByte('"')
				i++
				continue
			}
			return sb.String(), nil
		}
		line, ok := r.next()
		if !ok {
			return "", r.eof("closing quote")
		}
		sb.WriteByte('\n')
		rest = line
	}
}

func praatKind(class string) (Kind, error) {
	switch class {
	case praatIntervalClass:
		return KindInterval, nil
	case praatPointClass:
		return KindPoint, nil
	default:
		return 0, fmt.Errorf("unknown tier class %q", class)
	}
}
