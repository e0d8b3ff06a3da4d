package label

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const espsFixture = `signal words
type 0
color 121
separator ;
nfields 2
#
    1.000000  121 black;noun
    1.500000  121 cat;noun
    2.250000  122 sat;verb
`

func TestParseESPS(t *testing.T) {
	s, err := Parse(strings.NewReader(espsFixture), FormatESPS)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 tiers, got %d", s.Len())
	}

	words, _ := s.Tier(ByIndex(0))
	if words.Name() != "" {
		t.Errorf("expected unnamed tier, got %q", words.Name())
	}
	if diff := cmp.Diff([]string{"black", "cat", "sat"}, texts(words.Labels())); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}
	// each line ends an interval started by the previous one
	want := [][2]float64{{0, 1}, {1, 1.5}, {1.5, 2.25}}
	if diff := cmp.Diff(want, times(words)); diff != "" {
		t.Errorf("times mismatch (-want +got):\n%s", diff)
	}
	if words.At(2).AppData != "122" {
		t.Errorf("expected color in AppData, got %v", words.At(2).AppData)
	}

	pos, _ := s.Tier(ByIndex(1))
	if diff := cmp.Diff([]string{"noun", "noun", "verb"}, texts(pos.Labels())); diff != "" {
		t.Errorf("second field mismatch (-want +got):\n%s", diff)
	}
}

func TestESPSSingleLabel(t *testing.T) {
	in := "#\n1.0 121 black\n1.5 121\n"
	s, err := Parse(strings.NewReader(in), FormatESPS)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tier, _ := s.Tier(ByIndex(0))
	if tier.Len() != 2 {
		t.Fatalf("expected 2 labels, got %d", tier.Len())
	}
	second := tier.At(1)
	if second.Text != "" || second.T1() != 1 || second.End() != 1.5 {
		t.Errorf("expected empty label [1, 1.5], got %v", second)
	}
}

func TestESPSSeparator(t *testing.T) {
	in := "separator |\n#\n0.5 121 a|b\n"

	s, err := Parse(strings.NewReader(in), FormatESPS)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("header separator: expected 2 tiers, got %d", s.Len())
	}

	s, err = Parse(strings.NewReader(in), FormatESPS, WithSeparator(","))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tier, _ := s.Tier(ByIndex(0))
	if s.Len() != 1 || tier.At(0).Text != "a|b" {
		t.Errorf("WithSeparator should override the header, got %d tiers", s.Len())
	}
}

func TestESPSErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		cause   error
	}{
		{"missing header end", "separator ;\nnfields 1\n", io.ErrUnexpectedEOF},
		{"bad time", "#\nsoon 121 a\n", nil},
		{"time only", "#\n1.0\n", nil},
		{"times out of order", "#\n2.0 121 a\n1.0 121 b\n", ErrInvalidTimeValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.content), FormatESPS)
			if !errors.Is(err, ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("expected cause %v, got %v", tt.cause, err)
			}
		})
	}
}

func TestESPSWriteRoundTrip(t *testing.T) {
	s, err := Parse(strings.NewReader(espsFixture), FormatESPS)
	if err != nil {
		t.Fatal(err)
	}
	out, err := s.Format(FormatESPS)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	want := "separator ;\nnfields 2\n#\n" +
		"1.000000 121 black;noun\n" +
		"1.500000 121 cat;noun\n" +
		"2.250000 122 sat;verb\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	again, err := Parse(strings.NewReader(out), FormatESPS)
	if err != nil {
		t.Fatalf("Parse output: %v", err)
	}
	first, _ := s.Tier(ByIndex(0))
	second, _ := again.Tier(ByIndex(0))
	if diff := cmp.Diff(times(first), times(second)); diff != "" {
		t.Errorf("round trip times mismatch (-want +got):\n%s", diff)
	}
}

func TestESPSWriterRequiresAlignedTiers(t *testing.T) {
	s := NewSet()
	a := NewIntervalTier("a")
	_ = a.Add(mustInterval(t, "x", 0, 1))
	b := NewIntervalTier("b")
	_ = b.Add(mustInterval(t, "y", 0, 2))
	_ = s.Add(a)
	_ = s.Add(b)

	if _, err := s.Format(FormatESPS); err == nil {
		t.Error("expected an error for misaligned tiers")
	}
}

func TestParseWavesurfer(t *testing.T) {
	in := "0.0 0.25 h\n0.25 0.5 e\n\n0.5 0.9 long label text\n0.9 1.2\n"
	s, err := Parse(strings.NewReader(in), FormatWavesurfer)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tier, _ := s.Tier(ByIndex(0))
	if diff := cmp.Diff([]string{"h", "e", "long label text", ""}, texts(tier.Labels())); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}
	if tier.End() != 1.2 {
		t.Errorf("expected end 1.2, got %v", tier.End())
	}

	out, err := s.Format(FormatWavesurfer)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "0.000000 0.250000 h\n") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := Parse(strings.NewReader("0.5\n"), FormatWavesurfer); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
	if _, err := Parse(strings.NewReader("1 0.5 x\n"), FormatWavesurfer); !errors.Is(err, ErrInvalidTimeValue) {
		t.Errorf("expected ErrInvalidTimeValue, got %v", err)
	}
}
