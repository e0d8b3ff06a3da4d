package label

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// Set is one annotation document: an ordered list of tiers. Tier order is
// preserved through read, edit and write. Names need not be unique; lookup
// by name returns the first match.
type Set struct {
	tiers []Tier

	// Warnings collects non-fatal conditions found while reading.
	Warnings []Warning
}

func NewSet() *Set {
	return &Set{}
}

// TierID identifies a tier by position or by name.
type TierID struct {
	index  int
	name   string
	byName bool
}

// ByIndex refers to the tier at position i; negative i counts from the end.
func ByIndex(i int) TierID {
	return TierID{index: i}
}

// ByName refers to the first tier called name.
func ByName(name string) TierID {
	return TierID{name: name, byName: true}
}

func (id TierID) String() string {
	if id.byName {
		return fmt.Sprintf("name %q", id.name)
	}
	return fmt.Sprintf("index %d", id.index)
}

func (s *Set) Len() int {
	return len(s.tiers)
}

// Tiers returns the tiers in document order.
func (s *Set) Tiers() []Tier {
	return slices.Clone(s.tiers)
}

// Names returns the tier names in document order.
func (s *Set) Names() []string {
	names := make([]string, len(s.tiers))
	for i, t := range s.tiers {
		names[i] = t.Name()
	}
	return names
}

// Add appends a tier. A tier belongs to at most one set and appears in it
// once; adding a tier that a set already holds fails with ErrAlreadyOwned.
func (s *Set) Add(t Tier) error {
	if err := s.claim(t); err != nil {
		return err
	}
	s.tiers = append(s.tiers, t)
	return nil
}

// Insert places a tier at position i (0 <= i <= Len()).
func (s *Set) Insert(i int, t Tier) error {
	if i < 0 || i > len(s.tiers) {
		return fmt.Errorf(
			"%w: insert position %d out of range (0-%d)",
			ErrNotFound,
			i,
			len(s.tiers),
		)
	}
	if err := s.claim(t); err != nil {
		return err
	}
	s.tiers = slices.Insert(s.tiers, i, t)
	return nil
}

func (s *Set) claim(t Tier) error {
	if t == nil {
		return fmt.Errorf("cannot add a nil tier")
	}
	b := t.base()
	if b.set != nil {
		return fmt.Errorf("%w: tier %q is already in a set", ErrAlreadyOwned, b.name)
	}
	b.set = s
	return nil
}

func (s *Set) removeAt(idx int) {
	s.tiers[idx].base().set = nil
	s.tiers = slices.Delete(s.tiers, idx, idx+1)
}

// Remove deletes the tier identified by id.
func (s *Set) Remove(id TierID) error {
	idx, err := s.find(id)
	if err != nil {
		return err
	}
	s.removeAt(idx)
	return nil
}

// RemoveTier deletes t by identity.
func (s *Set) RemoveTier(t Tier) error {
	idx := slices.Index(s.tiers, t)
	if idx < 0 {
		return fmt.Errorf("%w: tier %q not in set", ErrNotFound, t.Name())
	}
	s.removeAt(idx)
	return nil
}

// Tier returns the stored tier identified by id.
func (s *Set) Tier(id TierID) (Tier, error) {
	idx, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return s.tiers[idx], nil
}

func (s *Set) find(id TierID) (int, error) {
	if id.byName {
		for i, t := range s.tiers {
			if t.Name() == id.name {
				return i, nil
			}
		}
		return -1, fmt.Errorf("%w: no tier with %s", ErrNotFound, id)
	}
	i := id.index
	if i < 0 {
		i += len(s.tiers)
	}
	if i < 0 || i >= len(s.tiers) {
		return -1, fmt.Errorf("%w: no tier with %s", ErrNotFound, id)
	}
	return i, nil
}

// Shift chooses which edge of an interval a point corresponds to when a
// tier is cast to the other kind.
type Shift int

const (
	// ShiftLeft ties the point to the interval's left edge (t1).
	ShiftLeft Shift = iota
	// ShiftRight ties the point to the interval's right edge (t2).
	ShiftRight
)

// Cast returns the tier identified by id as a tier of the requested kind.
//
// When the kinds match the stored tier is returned. Otherwise a new,
// independent tier is built:
//
//   - interval to point: ShiftLeft places each point at t1, ShiftRight at t2.
//   - point to interval: ShiftLeft makes each point the left edge of an
//     interval ending at the next point (the last ends at the tier end);
//     ShiftRight makes it the right edge of an interval starting at the
//     previous point (the first starts at the tier start).
func (s *Set) Cast(id TierID, kind Kind, shift Shift) (Tier, error) {
	src, err := s.Tier(id)
	if err != nil {
		return nil, err
	}
	if src.Kind() == kind {
		return src, nil
	}
	return castTier(src, kind, shift)
}

func castTier(src Tier, kind Kind, shift Shift) (Tier, error) {
	labels := src.Labels()
	meta := make(map[string]string, len(src.Meta()))
	for k, v := range src.Meta() {
		meta[k] = v
	}
	dst := NewTier(kind, src.Name(),
		WithBounds(src.Start(), src.End()),
		WithCapacity(len(labels)),
		WithMeta(meta),
	)

	for i, l := range labels {
		var (
			c   *Label
			err error
		)
		if kind == KindPoint {
			at := l.t1
			if shift == ShiftRight {
				at = l.t2
			}
			c, err = NewPoint(l.Text, at)
		} else {
			t1, t2 := l.t1, src.End()
			if shift == ShiftLeft {
				if i+1 < len(labels) {
					t2 = labels[i+1].t1
				}
			} else {
				t1, t2 = src.Start(), l.t1
				if i > 0 {
					t1 = labels[i-1].t1
				}
			}
			c, err = NewInterval(l.Text, t1, t2)
		}
		if err != nil {
			return nil, fmt.Errorf("cast tier %q label %d: %w", src.Name(), i, err)
		}
		c.AppData = l.AppData
		if err := dst.Add(c); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// Snapshot holds one label per tier for a given time.
type Snapshot struct {
	// Labels is ordered like the set's tiers; nil entries mark empty tiers.
	Labels []*Label
	// ByName is keyed by tier name. It is nil unless every name is
	// non-empty, unique and free of whitespace.
	ByName map[string]*Label
}

// LabelsAt returns each tier's label at time tm.
func (s *Set) LabelsAt(tm float64, method Method) (*Snapshot, error) {
	snap := &Snapshot{Labels: make([]*Label, len(s.tiers))}
	for i, t := range s.tiers {
		if t.Len() == 0 {
			continue
		}
		l, err := t.LabelAt(tm, method)
		if err != nil {
			return nil, err
		}
		snap.Labels[i] = l
	}
	if keyableNames(s.Names()) {
		snap.ByName = make(map[string]*Label, len(s.tiers))
		for i, t := range s.tiers {
			snap.ByName[t.Name()] = snap.Labels[i]
		}
	}
	return snap, nil
}

func keyableNames(names []string) bool {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" || seen[n] || strings.IndexFunc(n, unicode.IsSpace) >= 0 {
			return false
		}
		seen[n] = true
	}
	return true
}

// ScaleBy multiplies all times in all tiers by factor.
func (s *Set) ScaleBy(factor float64) error {
	for _, t := range s.tiers {
		if err := t.ScaleBy(factor); err != nil {
			return err
		}
	}
	return nil
}

// ShiftBy adds offset to all times in all tiers.
func (s *Set) ShiftBy(offset float64) error {
	for _, t := range s.tiers {
		if err := t.ShiftBy(offset); err != nil {
			return err
		}
	}
	return nil
}

// Start returns the earliest tier start, or 0 for an empty set.
func (s *Set) Start() float64 {
	if len(s.tiers) == 0 {
		return 0
	}
	m := s.tiers[0].Start()
	for _, t := range s.tiers[1:] {
		m = min(m, t.Start())
	}
	return m
}

// End returns the latest tier end, or 0 for an empty set.
func (s *Set) End() float64 {
	if len(s.tiers) == 0 {
		return 0
	}
	m := s.tiers[0].End()
	for _, t := range s.tiers[1:] {
		m = max(m, t.End())
	}
	return m
}

func (s *Set) warn(stage, format string, args ...any) {
	s.Warnings = append(s.Warnings, Warning{
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
	})
}
