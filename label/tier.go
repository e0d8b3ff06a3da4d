package label

import (
	"fmt"
	"iter"
	"regexp"
	"slices"
	"sort"
)

// Kind distinguishes point tiers from interval tiers.
type Kind int

const (
	KindPoint Kind = iota
	KindInterval
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindInterval:
		return "interval"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Method selects how LabelAt resolves a time to a label.
type Method string

const (
	// Closest picks the point nearest in time, or for interval tiers the
	// last interval starting at or before the time.
	Closest Method = "closest"
)

// Tier is an ordered, time-indexed collection of labels.
type Tier interface {
	Name() string
	SetName(name string)
	Kind() Kind
	Start() float64
	End() float64
	SetBounds(start, end float64) error
	Meta() map[string]string

	Len() int
	At(i int) *Label
	Labels() []*Label
	All() iter.Seq2[int, *Label]
	Records() iter.Seq[Record]

	Add(l *Label) error
	Remove(l *Label) error
	RemoveEqual(l *Label) error
	Contains(l *Label) bool
	Find(l *Label) *Label
	Index(l *Label) int

	LabelAt(t float64, method Method) (*Label, error)
	Next(l *Label, skip int) (*Label, error)
	Prev(l *Label, skip int) (*Label, error)
	Search(re *regexp.Regexp, r *Range) []*Label
	SearchMatches(re *regexp.Regexp, r *Range) []Match
	TSlice(t1, t2 float64, opts ...SliceOption) []*Label
	TSliceAt(t float64, opts ...SliceOption) (*Label, error)

	ScaleBy(factor float64) error
	ShiftBy(offset float64) error

	base() *tier
}

// PointTier holds labels anchored at single timepoints.
type PointTier struct {
	tier
}

// IntervalTier holds labels spanning [t1, t2].
type IntervalTier struct {
	tier
}

var (
	_ Tier = (*PointTier)(nil)
	_ Tier = (*IntervalTier)(nil)
)

// TierOption configures a new tier.
type TierOption func(*tierOptions)

type tierOptions struct {
	start    float64
	end      float64
	capacity int
	meta     map[string]string
}

// WithBounds sets the tier's start and end times. Labels added later still
// extend the bounds when they fall outside.
func WithBounds(start, end float64) TierOption {
	return func(o *tierOptions) {
		o.start = start
		o.end = end
	}
}

// WithCapacity preallocates room for n labels.
func WithCapacity(n int) TierOption {
	return func(o *tierOptions) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithMeta attaches format specific tier attributes.
func WithMeta(meta map[string]string) TierOption {
	return func(o *tierOptions) {
		o.meta = meta
	}
}

func NewPointTier(name string, opts ...TierOption) *PointTier {
	return &PointTier{tier: newTier(KindPoint, name, opts)}
}

func NewIntervalTier(name string, opts ...TierOption) *IntervalTier {
	return &IntervalTier{tier: newTier(KindInterval, name, opts)}
}

// NewTier creates an empty tier of the given kind.
func NewTier(kind Kind, name string, opts ...TierOption) Tier {
	if kind == KindInterval {
		return NewIntervalTier(name, opts...)
	}
	return NewPointTier(name, opts...)
}

func newTier(kind Kind, name string, opts []TierOption) tier {
	o := tierOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.end < o.start {
		o.end = o.start
	}
	if o.meta == nil {
		o.meta = make(map[string]string)
	}
	return tier{
		kind:   kind,
		name:   name,
		start:  o.start,
		end:    o.end,
		labels: make([]*Label, 0, o.capacity),
		times:  make([]float64, 0, o.capacity),
		meta:   o.meta,
	}
}

// tier implements both variants; behavior that differs switches on kind.
// times mirrors labels[i].t1 for binary search.
type tier struct {
	kind   Kind
	name   string
	start  float64
	end    float64
	labels []*Label
	times  []float64
	meta   map[string]string

	// set is the Set holding this tier, if any.
	set *Set
}

func (t *tier) base() *tier { return t }

func (t *tier) Name() string            { return t.name }
func (t *tier) SetName(name string)     { t.name = name }
func (t *tier) Kind() Kind              { return t.kind }
func (t *tier) Start() float64          { return t.start }
func (t *tier) End() float64            { return t.end }
func (t *tier) Meta() map[string]string { return t.meta }
func (t *tier) Len() int                { return len(t.labels) }

// SetBounds replaces the tier extent. The new extent must still cover
// every label.
func (t *tier) SetBounds(start, end float64) error {
	if !finite(start) || !finite(end) || end < start {
		return fmt.Errorf(
			"%w: bounds [%v, %v]",
			ErrInvalidTimeValue,
			start,
			end,
		)
	}
	if len(t.labels) > 0 {
		if start > t.labels[0].t1 || end < t.maxEnd() {
			return fmt.Errorf(
				"%w: bounds [%v, %v] do not cover labels of tier %q",
				ErrInvalidTimeValue,
				start,
				end,
				t.name,
			)
		}
	}
	t.start = start
	t.end = end
	return nil
}

func (t *tier) maxEnd() float64 {
	m := t.start
	for _, l := range t.labels {
		if e := l.End(); e > m {
			m = e
		}
	}
	return m
}

// At returns the label at position i; negative i counts from the end.
// Out of range positions return nil.
func (t *tier) At(i int) *Label {
	if i < 0 {
		i += len(t.labels)
	}
	if i < 0 || i >= len(t.labels) {
		return nil
	}
	return t.labels[i]
}

func (t *tier) Labels() []*Label {
	return slices.Clone(t.labels)
}

func (t *tier) All() iter.Seq2[int, *Label] {
	return func(yield func(int, *Label) bool) {
		for i, l := range t.labels {
			if !yield(i, l) {
				return
			}
		}
	}
}

// Add inserts l after any labels with the same or an earlier t1 and extends
// the tier bounds to cover it. Adding a label that is already a member is a
// no-op. A label belongs to at most one tier; adding one that another tier
// holds fails with ErrAlreadyOwned until it is removed from that tier.
func (t *tier) Add(l *Label) error {
	if l == nil {
		return fmt.Errorf("%w: nil label", ErrInvalidTimeValue)
	}
	switch {
	case t.kind == KindInterval && l.IsPoint():
		return fmt.Errorf(
			"%w: interval tier %q requires t2 (label %q at %v)",
			ErrInvalidTimeValue,
			t.name,
			l.Text,
			l.t1,
		)
	case t.kind == KindPoint && !l.IsPoint():
		return fmt.Errorf(
			"%w: point tier %q cannot hold interval label %q",
			ErrInvalidTimeValue,
			t.name,
			l.Text,
		)
	}
	switch l.owner {
	case t:
		return nil
	case nil:
	default:
		return fmt.Errorf(
			"%w: label %q belongs to tier %q",
			ErrAlreadyOwned,
			l.Text,
			l.owner.name,
		)
	}

	idx := sort.Search(len(t.times), func(i int) bool {
		return t.times[i] > l.t1
	})
	t.labels = slices.Insert(t.labels, idx, l)
	t.times = slices.Insert(t.times, idx, l.t1)
	l.owner = t

	if l.t1 < t.start {
		t.start = l.t1
	}
	if e := l.End(); e > t.end {
		t.end = e
	}
	return nil
}

// Remove deletes l by identity.
func (t *tier) Remove(l *Label) error {
	idx := t.Index(l)
	if idx < 0 {
		return fmt.Errorf("%w: label not in tier %q", ErrNotFound, t.name)
	}
	t.removeAt(idx)
	return nil
}

// RemoveEqual deletes the first label with the same times and text as l.
func (t *tier) RemoveEqual(l *Label) error {
	for i, c := range t.labels {
		if c.Equal(l) {
			t.removeAt(i)
			return nil
		}
	}
	return fmt.Errorf("%w: no matching label in tier %q", ErrNotFound, t.name)
}

func (t *tier) removeAt(idx int) {
	t.labels[idx].owner = nil
	t.labels = slices.Delete(t.labels, idx, idx+1)
	t.times = slices.Delete(t.times, idx, idx+1)
}

func (t *tier) Contains(l *Label) bool {
	return t.Index(l) >= 0
}

// Find returns the first stored label structurally equal to l.
func (t *tier) Find(l *Label) *Label {
	for _, c := range t.labels {
		if c.Equal(l) {
			return c
		}
	}
	return nil
}

// Index returns the position of l (by identity), or -1.
func (t *tier) Index(l *Label) int {
	if l == nil || l.owner != t {
		return -1
	}
	i := sort.SearchFloat64s(t.times, l.t1)
	for ; i < len(t.times) && t.times[i] == l.t1; i++ {
		if t.labels[i] == l {
			return i
		}
	}
	return -1
}

// LabelAt returns the label at time tm.
//
// Point tiers return the label whose t1 is nearest tm; ties go to the
// earlier label. Interval tiers return the last label whose t1 <= tm, so a
// time on a shared boundary belongs to the later interval. Times before the
// first interval resolve to the first label and times after the last
// interval to the last label. An empty tier yields ErrNotFound.
func (t *tier) LabelAt(tm float64, method Method) (*Label, error) {
	if method != Closest && method != "" {
		return nil, fmt.Errorf("unsupported lookup method %q", method)
	}
	n := len(t.times)
	if n == 0 {
		return nil, fmt.Errorf("%w: tier %q is empty", ErrNotFound, t.name)
	}

	if t.kind == KindInterval {
		idx := sort.Search(n, func(i int) bool { return t.times[i] > tm }) - 1
		if idx < 0 {
			idx = 0
		}
		return t.labels[idx], nil
	}

	i := sort.SearchFloat64s(t.times, tm)
	best := i
	switch {
	case i == n:
		best = n - 1
	case i > 0 && tm-t.times[i-1] <= t.times[i]-tm:
		best = i - 1
	}
	for best > 0 && t.times[best-1] == t.times[best] {
		best--
	}
	return t.labels[best], nil
}

// Next returns the label skip+1 positions after l, or nil past the end.
func (t *tier) Next(l *Label, skip int) (*Label, error) {
	return t.step(l, skip+1)
}

// Prev returns the label skip+1 positions before l, or nil past the start.
func (t *tier) Prev(l *Label, skip int) (*Label, error) {
	return t.step(l, -(skip + 1))
}

func (t *tier) step(l *Label, delta int) (*Label, error) {
	idx := t.Index(l)
	if idx < 0 {
		return nil, fmt.Errorf("%w: label not in tier %q", ErrNotFound, t.name)
	}
	j := idx + delta
	if j < 0 || j >= len(t.labels) {
		return nil, nil
	}
	return t.labels[j], nil
}

// ScaleBy multiplies every time in the tier, including its bounds.
func (t *tier) ScaleBy(factor float64) error {
	if !finite(factor) || factor <= 0 {
		return fmt.Errorf(
			"%w: scale factor %v must be positive",
			ErrInvalidTimeValue,
			factor,
		)
	}
	for i, l := range t.labels {
		l.scale(factor)
		t.times[i] = l.t1
	}
	t.start *= factor
	t.end *= factor
	return nil
}

// ShiftBy adds offset to every time in the tier, including its bounds.
func (t *tier) ShiftBy(offset float64) error {
	if !finite(offset) {
		return fmt.Errorf("%w: shift %v", ErrInvalidTimeValue, offset)
	}
	for i, l := range t.labels {
		l.shift(offset)
		t.times[i] = l.t1
	}
	t.start += offset
	t.end += offset
	return nil
}

// Equal reports whether two labels carry the same times and text.
func (l *Label) Equal(o *Label) bool {
	if l == nil || o == nil {
		return l == o
	}
	return l.t1 == o.t1 &&
		l.hasT2 == o.hasT2 &&
		(!l.hasT2 || l.t2 == o.t2) &&
		l.Text == o.Text
}
