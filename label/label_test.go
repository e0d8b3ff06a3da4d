package label

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func mustInterval(t *testing.T, text string, t1, t2 float64) *Label {
	t.Helper()
	l, err := NewInterval(text, t1, t2)
	if err != nil {
		t.Fatalf("NewInterval(%q, %v, %v): %v", text, t1, t2, err)
	}
	return l
}

func mustPoint(t *testing.T, text string, t1 float64) *Label {
	t.Helper()
	l, err := NewPoint(text, t1)
	if err != nil {
		t.Fatalf("NewPoint(%q, %v): %v", text, t1, err)
	}
	return l
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func texts(labels []*Label) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = l.Text
	}
	return out
}

func TestNewLabelValidation(t *testing.T) {
	tests := []struct {
		name    string
		t1, t2  float64
		point   bool
		wantErr bool
	}{
		{"interval", 1, 2, false, false},
		{"zero duration", 1, 1, false, false},
		{"t2 before t1", 2, 1, false, true},
		{"nan t1", math.NaN(), 1, false, true},
		{"inf t2", 0, math.Inf(1), false, true},
		{"point", 1.5, 0, true, false},
		{"nan point", math.NaN(), 0, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.point {
				_, err = NewPoint("x", tt.t1)
			} else {
				_, err = NewInterval("x", tt.t1, tt.t2)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimeValue) {
					t.Errorf("expected ErrInvalidTimeValue, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseLabel(t *testing.T) {
	l, err := ParseLabel("a", "0.5", "")
	if err != nil {
		t.Fatalf("ParseLabel: %v", err)
	}
	if !l.IsPoint() || l.T1() != 0.5 {
		t.Errorf("expected point at 0.5, got %v", l)
	}

	l, err = ParseLabel("b", " 1 ", "2.25")
	if err != nil {
		t.Fatalf("ParseLabel: %v", err)
	}
	if t2, ok := l.T2(); !ok || t2 != 2.25 || l.T1() != 1 {
		t.Errorf("expected interval [1, 2.25], got %v", l)
	}

	for _, bad := range [][2]string{{"", ""}, {"abc", ""}, {"1", "x"}, {"2", "1"}, {"NaN", ""}} {
		if _, err := ParseLabel("c", bad[0], bad[1]); !errors.Is(err, ErrInvalidTimeValue) {
			t.Errorf("ParseLabel(%q, %q): expected ErrInvalidTimeValue, got %v", bad[0], bad[1], err)
		}
	}
}

func TestLabelDerivedValues(t *testing.T) {
	l := mustInterval(t, "a", 1, 2)
	if l.Duration() != 1 {
		t.Errorf("expected duration 1, got %v", l.Duration())
	}
	if l.Center() != 1.5 {
		t.Errorf("expected center 1.5, got %v", l.Center())
	}
	if l.End() != 2 {
		t.Errorf("expected end 2, got %v", l.End())
	}

	p := mustPoint(t, "p", 3)
	if !math.IsNaN(p.Duration()) {
		t.Errorf("expected NaN duration for point, got %v", p.Duration())
	}
	if p.Center() != 3 || p.End() != 3 {
		t.Errorf("expected center and end 3, got %v and %v", p.Center(), p.End())
	}
	if _, ok := p.T2(); ok {
		t.Error("expected point label to have no t2")
	}
}

func TestLabelScaledShifted(t *testing.T) {
	l := mustInterval(t, "a", 1, 2)

	s := l.Scaled(2).Shifted(1)
	if s.T1() != 3 {
		t.Errorf("expected t1 3, got %v", s.T1())
	}
	if t2, _ := s.T2(); t2 != 5 {
		t.Errorf("expected t2 5, got %v", t2)
	}
	if l.T1() != 1 {
		t.Errorf("Scaled/Shifted modified the original: %v", l)
	}

	p := mustPoint(t, "p", 2).Shifted(-0.5)
	if p.T1() != 1.5 || !p.IsPoint() {
		t.Errorf("expected point at 1.5, got %v", p)
	}
}

func TestLabelEqual(t *testing.T) {
	a := mustInterval(t, "a", 1, 2)
	b := mustInterval(t, "a", 1, 2)
	if !a.Equal(b) {
		t.Error("expected structurally equal labels")
	}
	if a.Equal(mustInterval(t, "b", 1, 2)) {
		t.Error("labels with different text must differ")
	}
	if a.Equal(mustPoint(t, "a", 1)) {
		t.Error("point and interval must differ")
	}
}
