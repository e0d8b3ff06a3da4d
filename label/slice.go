package label

import (
	"fmt"
	"iter"
	"regexp"
)

// SliceOption adjusts a time slice query.
type SliceOption func(*sliceOptions)

type sliceOptions struct {
	tol    float64
	ltol   float64
	rtol   float64
	lexcl  bool
	rexcl  bool
	lstrip bool
	rstrip bool
}

// WithTolerance widens both sides of the window by tol.
func WithTolerance(tol float64) SliceOption {
	return func(o *sliceOptions) { o.tol = tol }
}

// WithLeftTolerance widens the left side in addition to WithTolerance.
func WithLeftTolerance(tol float64) SliceOption {
	return func(o *sliceOptions) { o.ltol = tol }
}

// WithRightTolerance widens the right side in addition to WithTolerance.
func WithRightTolerance(tol float64) SliceOption {
	return func(o *sliceOptions) { o.rtol = tol }
}

// ExcludeLeft drops labels that only touch the left edge of the window.
func ExcludeLeft() SliceOption {
	return func(o *sliceOptions) { o.lexcl = true }
}

// ExcludeRight drops labels that only touch the right edge of the window.
func ExcludeRight() SliceOption {
	return func(o *sliceOptions) { o.rexcl = true }
}

// StripLeft drops the first interval of the result when it starts before
// the window. Point tiers ignore it.
func StripLeft() SliceOption {
	return func(o *sliceOptions) { o.lstrip = true }
}

// StripRight drops the last interval of the result when it ends after the
// window. Point tiers ignore it.
func StripRight() SliceOption {
	return func(o *sliceOptions) { o.rstrip = true }
}

func buildSliceOptions(opts []SliceOption) sliceOptions {
	var o sliceOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// TSlice returns, in time order, the labels overlapping
// [t1-tol-ltol, t2+tol+rtol]. Interval labels overlap when t2 >= left and
// t1 <= right; point labels when left <= t1 <= right. ExcludeLeft and
// ExcludeRight make the respective comparison strict.
func (t *tier) TSlice(t1, t2 float64, opts ...SliceOption) []*Label {
	o := buildSliceOptions(opts)
	left := t1 - o.tol - o.ltol
	right := t2 + o.tol + o.rtol
	return t.slice(left, right, o)
}

// TSliceAt looks for the single label at time tm. It returns nil when
// nothing matches and ErrAmbiguousMatch when more than one label does.
func (t *tier) TSliceAt(tm float64, opts ...SliceOption) (*Label, error) {
	o := buildSliceOptions(opts)
	left := tm - o.tol - o.ltol
	right := tm + o.tol + o.rtol
	found := t.slice(left, right, o)
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf(
			"%w: found %d labels in tier %q while looking for one at %v",
			ErrAmbiguousMatch,
			len(found),
			t.name,
			tm,
		)
	}
}

func (t *tier) slice(left, right float64, o sliceOptions) []*Label {
	var out []*Label
	for _, l := range t.labels {
		if o.rexcl && l.t1 >= right || !o.rexcl && l.t1 > right {
			// sorted by t1, nothing later can start inside the window
			break
		}
		end := l.End()
		if o.lexcl && end <= left || !o.lexcl && end < left {
			continue
		}
		out = append(out, l)
	}

	if t.kind == KindInterval && len(out) > 0 {
		if o.lstrip && out[0].t1 < left {
			out = out[1:]
		}
		if o.rstrip && len(out) > 0 && out[len(out)-1].t2 > right {
			out = out[:len(out)-1]
		}
	}
	return out
}

// Range restricts Search to a time window.
type Range struct {
	T1, T2  float64
	Options []SliceOption
}

// Match pairs a label with the submatches of the pattern in its text.
type Match struct {
	Label    *Label
	Submatch []string
}

// Search returns the labels whose text matches re, optionally restricted
// to a time range.
func (t *tier) Search(re *regexp.Regexp, r *Range) []*Label {
	var out []*Label
	for _, l := range t.candidates(r) {
		if re.MatchString(l.Text) {
			out = append(out, l)
		}
	}
	return out
}

// SearchMatches is Search returning the match details with each label.
func (t *tier) SearchMatches(re *regexp.Regexp, r *Range) []Match {
	var out []Match
	for _, l := range t.candidates(r) {
		if m := re.FindStringSubmatch(l.Text); m != nil {
			out = append(out, Match{Label: l, Submatch: m})
		}
	}
	return out
}

func (t *tier) candidates(r *Range) []*Label {
	if r == nil {
		return t.labels
	}
	return t.TSlice(r.T1, r.T2, r.Options...)
}

// Record is the flat view of a label handed to tabular consumers.
type Record struct {
	Tier     string
	T1       float64
	T2       float64
	HasT2    bool
	Text     string
	Duration float64
	Center   float64
}

// Records streams the tier's labels as records in stored order.
func (t *tier) Records() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, l := range t.labels {
			if !yield(l.record(t.name)) {
				return
			}
		}
	}
}

func (l *Label) record(tierName string) Record {
	t2, ok := l.T2()
	return Record{
		Tier:     tierName,
		T1:       l.t1,
		T2:       t2,
		HasT2:    ok,
		Text:     l.Text,
		Duration: l.Duration(),
		Center:   l.Center(),
	}
}
