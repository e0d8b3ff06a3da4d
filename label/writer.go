package label

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Writer serializes a Set in one format.
type Writer interface {
	Format(s *Set) (string, error)
	Write(s *Set, path string) error
}

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

// Wavesurfer label format: "t1 t2 text" per line
type WavesurferWriter struct{}

// ESPS label format
type ESPSWriter struct {
	Separator string
	Color     string
}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatPraatLong, FormatPraat:
		return &PraatLongWriter{}, nil
	case FormatPraatShort:
		return &PraatShortWriter{}, nil
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	case FormatWavesurfer:
		return &WavesurferWriter{}, nil
	case FormatESPS:
		return &ESPSWriter{
			Separator: defaultESPSSeparator,
			Color:     defaultESPSColor,
		}, nil
	default:
		return nil, fmt.Errorf("%w: cannot write %s", ErrUnsupportedFormat, format)
	}
}

// Format renders the set as a string in the given format.
func (s *Set) Format(format Format) (string, error) {
	w, err := NewWriter(format)
	if err != nil {
		return "", err
	}
	return w.Format(s)
}

// WriteFile writes the set to path in the given format, creating parent
// directories as needed.
func (s *Set) WriteFile(path string, format Format) error {
	w, err := NewWriter(format)
	if err != nil {
		return err
	}
	return w.Write(s, path)
}

func writeFormatted(w Writer, s *Set, path string) error {
	content, err := w.Format(s)
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// firstIntervalTier picks the tier that single-tier formats serialize.
func (s *Set) firstIntervalTier() (Tier, error) {
	for _, t := range s.tiers {
		if t.Kind() == KindInterval {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: no interval tier in set", ErrNotFound)
}

func (w *SRTWriter) Format(s *Set) (string, error) {
	t, err := s.firstIntervalTier()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i, l := range t.All() {
		t2, _ := l.T2()

		// index (1-based)
		fmt.Fprintf(&sb, "%d\n", i+1)

		// timestamps: 00:00:00,000 --> 00:00:00,000
		fmt.Fprintf(&sb, "%s --> %s\n",
			formatSRTTime(l.T1()),
			formatSRTTime(t2))

		sb.WriteString(l.Text)
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

func (w *SRTWriter) Write(s *Set, path string) error {
	return writeFormatted(w, s, path)
}

func (w *VTTWriter) Format(s *Set) (string, error) {
	t, err := s.firstIntervalTier()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")

	for i, l := range t.All() {
		t2, _ := l.T2()

		// optional cue identifier
		fmt.Fprintf(&sb, "%d\n", i+1)

		// timestamps: 00:00:00.000 --> 00:00:00.000
		fmt.Fprintf(&sb, "%s --> %s\n",
			formatVTTTime(l.T1()),
			formatVTTTime(t2))

		sb.WriteString(l.Text)
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

func (w *VTTWriter) Write(s *Set, path string) error {
	return writeFormatted(w, s, path)
}

func (w *WavesurferWriter) Format(s *Set) (string, error) {
	t, err := s.firstIntervalTier()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, l := range t.All() {
		t2, _ := l.T2()
		fmt.Fprintf(&sb, "%.6f %.6f %s\n", l.T1(), t2, l.Text)
	}
	return sb.String(), nil
}

func (w *WavesurferWriter) Write(s *Set, path string) error {
	return writeFormatted(w, s, path)
}

// Format writes the interval tiers of s as parallel ESPS fields. Every
// tier must share the same label end times, as produced by the ESPS reader.
func (w *ESPSWriter) Format(s *Set) (string, error) {
	var tiers []Tier
	for _, t := range s.tiers {
		if t.Kind() == KindInterval {
			tiers = append(tiers, t)
		}
	}
	if len(tiers) == 0 {
		return "", fmt.Errorf("%w: no interval tier in set", ErrNotFound)
	}

	sep := w.Separator
	if sep == "" {
		sep = defaultESPSSeparator
	}
	color := w.Color
	if color == "" {
		color = defaultESPSColor
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "separator %s\n", sep)
	fmt.Fprintf(&sb, "nfields %d\n", len(tiers))
	sb.WriteString("#\n")

	first := tiers[0]
	for i, l := range first.All() {
		t2, _ := l.T2()
		fields := []string{l.Text}
		for _, other := range tiers[1:] {
			ol := other.At(i)
			if ol == nil {
				break
			}
			if ot2, _ := ol.T2(); ot2 != t2 {
				return "", fmt.Errorf(
					"tier %q label %d ends at %v, tier %q at %v: fields must align",
					first.Name(),
					i,
					t2,
					other.Name(),
					ot2,
				)
			}
			fields = append(fields, ol.Text)
		}
		labelColor := color
		if c, ok := l.AppData.(string); ok && c != "" {
			labelColor = c
		}
		fmt.Fprintf(&sb, "%.6f %s %s\n", t2, labelColor, strings.Join(fields, sep))
	}
	return sb.String(), nil
}

func (w *ESPSWriter) Write(s *Set, path string) error {
	return writeFormatted(w, s, path)
}

func formatSRTTime(seconds float64) string {
	h, m, sec, ms := splitClock(seconds)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, sec, ms)
}

func formatVTTTime(seconds float64) string {
	h, m, sec, ms := splitClock(seconds)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, sec, ms)
}

func splitClock(seconds float64) (h, m, s, ms int64) {
	total := int64(math.Round(seconds * 1000))
	if total < 0 {
		total = 0
	}
	ms = total % 1000
	s = (total / 1000) % 60
	m = (total / 60000) % 60
	h = total / 3600000
	return h, m, s, ms
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// Extension returns the conventional file extension for a format.
func (f Format) Extension() string {
	switch f {
	case FormatPraat, FormatPraatLong, FormatPraatShort:
		return ".TextGrid"
	case FormatEAF:
		return ".eaf"
	case FormatESPS:
		return ".esps"
	case FormatWavesurfer:
		return ".lab"
	case FormatTable:
		return ".tsv"
	case FormatSRT:
		return ".srt"
	case FormatVTT:
		return ".vtt"
	default:
		return ".TextGrid"
	}
}
