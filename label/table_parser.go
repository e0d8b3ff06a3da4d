package label

import (
	"fmt"
	"slices"
	"strings"
)

// parseTable reads delimiter separated rows. Every column other than the
// time columns becomes a tier named after it. With a t2 column the tiers
// hold intervals, otherwise points.
func parseTable(lines []string, o *readOptions, s *Set) error {
	r := newLineReader(lines, FormatTable, o.path)
	opt := o.table
	sep := opt.sep
	if sep == "" {
		sep = "\t"
	}

	for i := 0; i < opt.skipLines; i++ {
		if _, ok := r.next(); !ok {
			return r.eof(fmt.Sprintf("%d lines to skip", opt.skipLines))
		}
	}

	fields := slices.Clone(opt.fields)
	if len(fields) == 0 {
		line, ok := r.next()
		if !ok {
			return r.eof("header row")
		}
		fields = strings.Split(line, sep)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	t1idx := -1
	if !opt.generated {
		t1idx = slices.Index(fields, opt.t1Col)
		if t1idx < 0 {
			return r.fail(
				fmt.Sprintf("column %q in header", opt.t1Col),
				strings.Join(fields, sep),
				ErrNotFound,
			)
		}
	}
	t2idx := slices.Index(fields, opt.t2Col)
	if t2idx == t1idx {
		t2idx = -1
	}
	kind := KindPoint
	if t2idx >= 0 {
		kind = KindInterval
	}

	var (
		tiers   []Tier
		columns []int
	)
	for i, f := range fields {
		if i == t1idx || i == t2idx {
			continue
		}
		tiers = append(tiers, NewTier(kind, f))
		columns = append(columns, i)
	}

	var (
		row        int
		seen       bool
		start, end float64
	)
	for {
		line, ok := r.next()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		vals := strings.Split(line, sep)

		t1 := opt.t1Start + float64(row)*opt.t1Step
		if t1idx >= 0 {
			if t1idx >= len(vals) {
				return r.fail(fmt.Sprintf("value for column %q", opt.t1Col), line, nil)
			}
			v, err := parseTime(vals[t1idx])
			if err != nil {
				return r.fail(fmt.Sprintf("time in column %q", opt.t1Col), line, err)
			}
			t1 = v
		}
		t2 := t1
		if t2idx >= 0 {
			if t2idx >= len(vals) {
				return r.fail(fmt.Sprintf("value for column %q", opt.t2Col), line, nil)
			}
			v, err := parseTime(vals[t2idx])
			if err != nil {
				return r.fail(fmt.Sprintf("time in column %q", opt.t2Col), line, err)
			}
			t2 = v
		}

		for ti, col := range columns {
			if col >= len(vals) {
				break
			}
			var (
				l   *Label
				err error
			)
			if kind == KindInterval {
				l, err = NewInterval(vals[col], t1, t2)
			} else {
				l, err = NewPoint(vals[col], t1)
			}
			if err != nil {
				return r.fail("t2 >= t1", line, err)
			}
			if err := tiers[ti].Add(l); err != nil {
				return r.fail("label within tier", line, err)
			}
		}

		if !seen {
			start, end, seen = t1, t2, true
		}
		start = min(start, t1)
		end = max(end, t2)
		row++
	}

	for _, t := range tiers {
		if seen {
			if err := t.SetBounds(start, end); err != nil {
				return r.fail("consistent time values", "", err)
			}
		}
		if err := s.Add(t); err != nil {
			return err
		}
	}
	return nil
}
