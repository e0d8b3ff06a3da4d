package label

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sequentialTier(t *testing.T) (*IntervalTier, []*Label) {
	t.Helper()
	tier := NewIntervalTier("word")
	labels := []*Label{
		mustInterval(t, "first", 1, 2),
		mustInterval(t, "second", 2, 3),
		mustInterval(t, "third", 3, 4),
	}
	for _, l := range labels {
		if err := tier.Add(l); err != nil {
			t.Fatalf("Add(%v): %v", l, err)
		}
	}
	return tier, labels
}

func TestTierAddKeepsOrder(t *testing.T) {
	tier := NewPointTier("events")
	for _, l := range []*Label{
		mustPoint(t, "c", 3),
		mustPoint(t, "a", 1),
		mustPoint(t, "d", 4),
		mustPoint(t, "b1", 2),
		mustPoint(t, "b2", 2),
		mustPoint(t, "a0", 0.5),
	} {
		if err := tier.Add(l); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	want := []string{"a0", "a", "b1", "b2", "c", "d"}
	if diff := cmp.Diff(want, texts(tier.Labels())); diff != "" {
		t.Errorf("label order mismatch (-want +got):\n%s", diff)
	}
	for i := 1; i < tier.Len(); i++ {
		if tier.At(i-1).T1() > tier.At(i).T1() {
			t.Fatalf("labels not sorted at %d", i)
		}
	}
}

func TestTierAddMemberIsNoop(t *testing.T) {
	tier, labels := sequentialTier(t)
	if err := tier.Add(labels[1]); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if tier.Len() != 3 {
		t.Errorf("expected 3 labels, got %d", tier.Len())
	}
}

func TestTierLabelBelongsToOneTier(t *testing.T) {
	a, labels := sequentialTier(t)
	first := labels[0]

	b := NewIntervalTier("other")
	_ = b.Add(mustInterval(t, "late", 2, 3))
	if err := b.Add(first); !errors.Is(err, ErrAlreadyOwned) {
		t.Fatalf("expected ErrAlreadyOwned, got %v", err)
	}
	if b.Len() != 1 || b.Contains(first) {
		t.Errorf("rejected label was stored: %v", texts(b.Labels()))
	}

	// shifting the owner leaves the other tier's index intact
	if err := a.ShiftBy(5); err != nil {
		t.Fatal(err)
	}
	next, err := a.Next(first, 0)
	if err != nil || next != labels[1] {
		t.Errorf("Next after shift: got %v, %v", next, err)
	}
	if late, err := b.LabelAt(2.5, Closest); err != nil || late.Text != "late" {
		t.Errorf("LabelAt on other tier: got %v, %v", late, err)
	}

	if err := a.Remove(first); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := b.Add(first); err != nil {
		t.Fatalf("Add after Remove: %v", err)
	}
	if b.Index(first) < 0 || a.Contains(first) {
		t.Error("expected the label to move to the other tier")
	}

	// copies start unowned
	if err := b.Add(labels[1].Shifted(-5)); err != nil {
		t.Errorf("Add of a shifted copy: %v", err)
	}
	if err := a.RemoveEqual(labels[2]); err != nil {
		t.Fatal(err)
	}
	if err := b.Add(labels[2]); err != nil {
		t.Errorf("Add after RemoveEqual: %v", err)
	}
}

func TestTierAddRejectsWrongKind(t *testing.T) {
	it := NewIntervalTier("i")
	if err := it.Add(mustPoint(t, "p", 1)); !errors.Is(err, ErrInvalidTimeValue) {
		t.Errorf("interval tier: expected ErrInvalidTimeValue, got %v", err)
	}
	pt := NewPointTier("p")
	if err := pt.Add(mustInterval(t, "i", 1, 2)); !errors.Is(err, ErrInvalidTimeValue) {
		t.Errorf("point tier: expected ErrInvalidTimeValue, got %v", err)
	}
}

func TestTierBounds(t *testing.T) {
	tier := NewIntervalTier("word")
	if tier.Start() != 0 || tier.End() != 0 {
		t.Errorf("expected default bounds [0, 0], got [%v, %v]", tier.Start(), tier.End())
	}

	_ = tier.Add(mustInterval(t, "a", 1, 2.5))
	if tier.Start() != 0 || tier.End() != 2.5 {
		t.Errorf("expected bounds [0, 2.5], got [%v, %v]", tier.Start(), tier.End())
	}

	_ = tier.Add(mustInterval(t, "pre", -1, 0))
	if tier.Start() != -1 {
		t.Errorf("expected start -1, got %v", tier.Start())
	}

	pt := NewPointTier("p", WithBounds(0, 10))
	_ = pt.Add(mustPoint(t, "x", 12))
	if pt.End() != 12 {
		t.Errorf("expected point tier end 12, got %v", pt.End())
	}

	if err := tier.SetBounds(0, 2); !errors.Is(err, ErrInvalidTimeValue) {
		t.Errorf("SetBounds not covering labels: expected ErrInvalidTimeValue, got %v", err)
	}
	if err := tier.SetBounds(-2, 5); err != nil {
		t.Errorf("SetBounds: %v", err)
	}
}

func TestTierRemove(t *testing.T) {
	tier, labels := sequentialTier(t)

	if err := tier.Remove(labels[2]); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if tier.Len() != 2 {
		t.Errorf("expected 2 labels, got %d", tier.Len())
	}
	if tier.End() != 4 {
		t.Errorf("Remove must not shrink end, got %v", tier.End())
	}
	if tier.Contains(labels[2]) {
		t.Error("removed label still reported as member")
	}

	// a structurally equal copy is not the member
	if err := tier.Remove(mustInterval(t, "first", 1, 2)); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for non-member, got %v", err)
	}
	if err := tier.RemoveEqual(mustInterval(t, "first", 1, 2)); err != nil {
		t.Errorf("RemoveEqual: %v", err)
	}
	if diff := cmp.Diff([]string{"second"}, texts(tier.Labels())); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestTierFindAndIndex(t *testing.T) {
	tier, labels := sequentialTier(t)
	if got := tier.Find(mustInterval(t, "second", 2, 3)); got != labels[1] {
		t.Errorf("Find returned %v, want stored label", got)
	}
	if got := tier.Index(labels[2]); got != 2 {
		t.Errorf("expected index 2, got %d", got)
	}
	if got := tier.At(-1); got != labels[2] {
		t.Errorf("At(-1) returned %v", got)
	}
	if got := tier.At(3); got != nil {
		t.Errorf("At(3) expected nil, got %v", got)
	}
}

func TestIntervalLabelAt(t *testing.T) {
	tier, _ := sequentialTier(t)

	tests := []struct {
		time float64
		want string
	}{
		{2.5, "second"},
		{1, "first"},
		{2, "second"}, // shared boundary belongs to the later interval
		{3.999, "third"},
		{0.5, "first"}, // before the first label
		{10, "third"},  // after the last label
	}
	for _, tt := range tests {
		got, err := tier.LabelAt(tt.time, Closest)
		if err != nil {
			t.Fatalf("LabelAt(%v): %v", tt.time, err)
		}
		if got.Text != tt.want {
			t.Errorf("LabelAt(%v): expected %q, got %q", tt.time, tt.want, got.Text)
		}
	}

	if _, err := NewIntervalTier("empty").LabelAt(1, Closest); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty tier: expected ErrNotFound, got %v", err)
	}
}

func TestPointLabelAt(t *testing.T) {
	tier := NewPointTier("events")
	for _, l := range []*Label{
		mustPoint(t, "one", 1),
		mustPoint(t, "two-a", 2),
		mustPoint(t, "two-b", 2),
		mustPoint(t, "four", 4),
	} {
		_ = tier.Add(l)
	}

	tests := []struct {
		time float64
		want string
	}{
		{0, "one"},
		{1.4, "one"},
		{1.6, "two-a"},
		{2, "two-a"},
		{3, "two-a"}, // tie between 2 and 4 goes to the earlier label
		{3.1, "four"},
		{100, "four"},
	}
	for _, tt := range tests {
		got, err := tier.LabelAt(tt.time, Closest)
		if err != nil {
			t.Fatalf("LabelAt(%v): %v", tt.time, err)
		}
		if got.Text != tt.want {
			t.Errorf("LabelAt(%v): expected %q, got %q", tt.time, tt.want, got.Text)
		}
	}
}

func TestTierNextPrev(t *testing.T) {
	tier, labels := sequentialTier(t)

	check := func(name string, got *Label, err error, want string) {
		t.Helper()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if want == "" {
			if got != nil {
				t.Errorf("%s: expected nil, got %v", name, got)
			}
			return
		}
		if got == nil || got.Text != want {
			t.Errorf("%s: expected %q, got %v", name, want, got)
		}
	}

	got, err := tier.Next(labels[0], 0)
	check("Next(first)", got, err, "second")
	got, err = tier.Next(labels[0], 1)
	check("Next(first, 1)", got, err, "third")
	got, err = tier.Prev(labels[2], 0)
	check("Prev(third)", got, err, "second")
	got, err = tier.Next(labels[2], 0)
	check("Next(third)", got, err, "")
	got, err = tier.Prev(labels[0], 0)
	check("Prev(first)", got, err, "")

	if _, err := tier.Next(mustInterval(t, "x", 1, 2), 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for non-member, got %v", err)
	}
}

func TestTierScaleShift(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		tier, _ := sequentialTier(t)
		before := times(tier)
		if err := tier.ScaleBy(1); err != nil {
			t.Fatal(err)
		}
		if err := tier.ShiftBy(0); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(before, times(tier)); diff != "" {
			t.Errorf("times changed (-want +got):\n%s", diff)
		}
	})

	t.Run("scale then shift", func(t *testing.T) {
		tier, _ := sequentialTier(t)
		if err := tier.ScaleBy(2); err != nil {
			t.Fatal(err)
		}
		if err := tier.ShiftBy(1); err != nil {
			t.Fatal(err)
		}
		want := [][2]float64{{3, 5}, {5, 7}, {7, 9}}
		if diff := cmp.Diff(want, times(tier)); diff != "" {
			t.Errorf("times mismatch (-want +got):\n%s", diff)
		}
		if tier.Start() != 1 || tier.End() != 9 {
			t.Errorf("expected bounds [1, 9], got [%v, %v]", tier.Start(), tier.End())
		}
		// the time index follows the labels
		got, err := tier.LabelAt(5.5, Closest)
		if err != nil || got.Text != "second" {
			t.Errorf("LabelAt after transform: got %v, %v", got, err)
		}
	})

	t.Run("invalid factor", func(t *testing.T) {
		tier, _ := sequentialTier(t)
		for _, f := range []float64{0, -1} {
			if err := tier.ScaleBy(f); !errors.Is(err, ErrInvalidTimeValue) {
				t.Errorf("ScaleBy(%v): expected ErrInvalidTimeValue, got %v", f, err)
			}
		}
	})
}

func times(tier Tier) [][2]float64 {
	var out [][2]float64
	for _, l := range tier.All() {
		out = append(out, [2]float64{l.T1(), l.End()})
	}
	return out
}

func TestTierRecords(t *testing.T) {
	tier, _ := sequentialTier(t)
	var got []Record
	for r := range tier.Records() {
		got = append(got, r)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	want := Record{Tier: "word", T1: 2, T2: 3, HasT2: true, Text: "second", Duration: 1, Center: 2.5}
	if diff := cmp.Diff(want, got[1]); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}
