// Package label reads, represents and writes time-aligned annotations:
// text labels anchored to timepoints or intervals on a shared timeline,
// as produced by Praat, ELAN, ESPS, Wavesurfer and tabular tools.
//
// A Set holds an ordered list of tiers. Each tier keeps its labels sorted
// by start time and answers time-indexed queries:
//
//	set, err := label.ReadPraat("utterance.TextGrid")
//	if err != nil {
//		return err
//	}
//	words, err := set.Tier(label.ByName("word"))
//	if err != nil {
//		return err
//	}
//	lab, err := words.LabelAt(1.25, label.Closest)
//
// Times are seconds expressed as float64.
package label

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Label is a text annotation anchored at one timepoint (a point label) or
// spanning two (an interval label).
//
// Times are fixed at construction. Once a label belongs to a tier only the
// tier's bulk ScaleBy/ShiftBy rewrite them.
type Label struct {
	t1    float64
	t2    float64
	hasT2 bool

	Text string
	// AppData carries format specific side data, e.g. the ESPS color field.
	AppData any

	owner *tier
}

// NewPoint creates a label anchored at t1.
func NewPoint(text string, t1 float64) (*Label, error) {
	if !finite(t1) {
		return nil, fmt.Errorf("%w: t1 %v is not finite", ErrInvalidTimeValue, t1)
	}
	return &Label{t1: t1, Text: text}, nil
}

// NewInterval creates a label spanning [t1, t2].
func NewInterval(text string, t1, t2 float64) (*Label, error) {
	if !finite(t1) {
		return nil, fmt.Errorf("%w: t1 %v is not finite", ErrInvalidTimeValue, t1)
	}
	if !finite(t2) {
		return nil, fmt.Errorf("%w: t2 %v is not finite", ErrInvalidTimeValue, t2)
	}
	if t2 < t1 {
		return nil, fmt.Errorf(
			"%w: t2 %v is before t1 %v",
			ErrInvalidTimeValue,
			t2,
			t1,
		)
	}
	return &Label{t1: t1, t2: t2, hasT2: true, Text: text}, nil
}

// ParseLabel builds a label from textual times as found in label files.
// An empty t2 yields a point label.
func ParseLabel(text, t1, t2 string) (*Label, error) {
	v1, err := parseTime(t1)
	if err != nil {
		return nil, fmt.Errorf("t1: %w", err)
	}
	if strings.TrimSpace(t2) == "" {
		return NewPoint(text, v1)
	}
	v2, err := parseTime(t2)
	if err != nil {
		return nil, fmt.Errorf("t2: %w", err)
	}
	return NewInterval(text, v1, v2)
}

func parseTime(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: missing time", ErrInvalidTimeValue)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidTimeValue, s)
	}
	if !finite(v) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrInvalidTimeValue, s)
	}
	return v, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// T1 returns the first (possibly only) timepoint.
func (l *Label) T1() float64 {
	return l.t1
}

// T2 returns the second timepoint and whether the label has one.
func (l *Label) T2() (float64, bool) {
	return l.t2, l.hasT2
}

func (l *Label) IsPoint() bool {
	return !l.hasT2
}

// End returns t2 for interval labels and t1 for point labels.
func (l *Label) End() float64 {
	if l.hasT2 {
		return l.t2
	}
	return l.t1
}

// Duration returns t2-t1, or NaN for a point label.
func (l *Label) Duration() float64 {
	if !l.hasT2 {
		return math.NaN()
	}
	return l.t2 - l.t1
}

// Center returns the interval midpoint, or t1 for a point label.
func (l *Label) Center() float64 {
	if !l.hasT2 {
		return l.t1
	}
	return (l.t1 + l.t2) / 2
}

// Scaled returns a copy of the label with both times multiplied by factor.
func (l *Label) Scaled(factor float64) *Label {
	c := *l
	c.owner = nil
	c.scale(factor)
	return &c
}

// Shifted returns a copy of the label with offset added to both times.
func (l *Label) Shifted(offset float64) *Label {
	c := *l
	c.owner = nil
	c.shift(offset)
	return &c
}

func (l *Label) scale(factor float64) {
	l.t1 *= factor
	if l.hasT2 {
		l.t2 *= factor
	}
}

func (l *Label) shift(offset float64) {
	l.t1 += offset
	if l.hasT2 {
		l.t2 += offset
	}
}

func (l *Label) String() string {
	if l.hasT2 {
		return fmt.Sprintf("Label(t1=%.4f, t2=%.4f, text=%q)", l.t1, l.t2, l.Text)
	}
	return fmt.Sprintf("Label(t1=%.4f, text=%q)", l.t1, l.Text)
}
