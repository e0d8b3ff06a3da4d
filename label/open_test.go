package label

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSRTFile(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:04,000
Hello, world!

2
00:00:05,500 --> 00:00:08,200
This is a test.
With multiple lines.

3
00:00:10,000 --> 00:00:12,500
Final subtitle.
`
	srtPath := writeFile(t, "test.srt", content)

	s, err := Open(srtPath)
	if err != nil {
		t.Fatalf("failed to open SRT file: %v", err)
	}

	tier, err := s.Tier(ByName("subtitle"))
	if err != nil {
		t.Fatalf("expected a subtitle tier: %v", err)
	}
	if tier.Len() != 3 {
		t.Fatalf("expected 3 labels, got %d", tier.Len())
	}

	first := tier.At(0)
	if first.T1() != 1 || first.End() != 4 {
		t.Errorf("label 0: expected [1, 4], got [%v, %v]", first.T1(), first.End())
	}
	if first.Text != "Hello, world!" {
		t.Errorf("label 0: expected 'Hello, world!', got %q", first.Text)
	}

	expectedText := "This is a test.\nWith multiple lines."
	if tier.At(1).Text != expectedText {
		t.Errorf("label 1: expected %q, got %q", expectedText, tier.At(1).Text)
	}
	if tier.At(1).T1() != 5.5 {
		t.Errorf("label 1: expected start 5.5, got %v", tier.At(1).T1())
	}
}

func TestParseVTTFile(t *testing.T) {
	content := `WEBVTT

NOTE this block
is ignored

1
00:00:01.000 --> 00:00:04.000
Hello, world!

2
00:00:05.500 --> 00:00:08.200
This is a test.
With multiple lines.

00:10.000 --> 00:12.500
No cue identifier.
`
	vttPath := writeFile(t, "test.vtt", content)

	s, err := Open(vttPath)
	if err != nil {
		t.Fatalf("failed to open VTT file: %v", err)
	}

	tier, _ := s.Tier(ByIndex(0))
	if tier.Len() != 3 {
		t.Fatalf("expected 3 labels, got %d", tier.Len())
	}
	if tier.At(0).T1() != 1 {
		t.Errorf("label 0: expected start 1, got %v", tier.At(0).T1())
	}
	if tier.At(2).Text != "No cue identifier." {
		t.Errorf("label 2: expected 'No cue identifier.', got %q", tier.At(2).Text)
	}
	if tier.At(2).End() != 12.5 {
		t.Errorf("label 2: expected end 12.5, got %v", tier.At(2).End())
	}
}

func TestSubtitleParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		format  Format
	}{
		{"srt bad timestamp", "1\n00:00:01 --> 00:00:02\ntext\n", FormatSRT},
		{"srt end before start", "1\n00:00:04,000 --> 00:00:01,000\ntext\n", FormatSRT},
		{"vtt missing header", "00:00:01.000 --> 00:00:02.000\ntext\n", FormatVTT},
		{"vtt empty", "", FormatVTT},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.content), tt.format)
			if !errors.Is(err, ErrParse) {
				t.Errorf("expected ErrParse, got %v", err)
			}
		})
	}
}

func TestOpenUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "test.docx", "test")

	_, err := Open(path)
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got: %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := ReadPraat(filepath.Join(t.TempDir(), "missing.TextGrid"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestParseErrorCarriesPath(t *testing.T) {
	path := writeFile(t, "broken.lab", "0.5\n")
	_, err := ReadWavesurfer(path)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Path != path || pe.Line != 1 {
		t.Errorf("expected %s line 1, got %s line %d", path, pe.Path, pe.Line)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("expected path in message, got %q", err.Error())
	}
}

func TestFormatFromExtension(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.TextGrid", FormatPraat},
		{"a.textgrid", FormatPraat},
		{"dir/a.eaf", FormatEAF},
		{"a.words", FormatESPS},
		{"a.lab", FormatWavesurfer},
		{"a.tsv", FormatTable},
		{"a.srt", FormatSRT},
		{"a.vtt", FormatVTT},
	}
	for _, tt := range tests {
		got, err := FormatFromExtension(tt.path)
		if err != nil {
			t.Errorf("FormatFromExtension(%q): %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatFromExtension(%q): expected %s, got %s", tt.path, tt.want, got)
		}
	}
	if _, err := FormatFromExtension("a.wav"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"praat", FormatPraat},
		{"praat-long", FormatPraatLong},
		{"Praat_Short", FormatPraatShort},
		{" eaf ", FormatEAF},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q): expected %s, got %s (%v)", tt.in, tt.want, got, err)
		}
	}
	if _, err := ParseFormat("textgrid"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
