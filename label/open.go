package label

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format names a label file format.
type Format string

const (
	// FormatPraat reads either Praat text layout, detected from the header.
	FormatPraat      Format = "praat"
	FormatPraatLong  Format = "praat_long"
	FormatPraatShort Format = "praat_short"
	FormatEAF        Format = "eaf"
	FormatESPS       Format = "esps"
	FormatWavesurfer Format = "wavesurfer"
	FormatTable      Format = "table"
	FormatSRT        Format = "srt"
	FormatVTT        Format = "vtt"
)

// Formats lists every format accepted by Read.
func Formats() []Format {
	return []Format{
		FormatPraat,
		FormatPraatLong,
		FormatPraatShort,
		FormatEAF,
		FormatESPS,
		FormatWavesurfer,
		FormatTable,
		FormatSRT,
		FormatVTT,
	}
}

// ParseFormat validates a user supplied format name. Dashes are accepted in
// place of underscores ("praat-long").
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_"))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// FormatFromExtension guesses the format of path from its extension.
func FormatFromExtension(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".textgrid":
		return FormatPraat, nil
	case ".eaf":
		return FormatEAF, nil
	case ".esps", ".words", ".phones":
		return FormatESPS, nil
	case ".lab":
		return FormatWavesurfer, nil
	case ".tsv", ".table", ".txt":
		return FormatTable, nil
	case ".srt":
		return FormatSRT, nil
	case ".vtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
	}
}

// Open reads path using the format implied by its extension.
func Open(path string, opts ...ReadOption) (*Set, error) {
	format, err := FormatFromExtension(path)
	if err != nil {
		return nil, err
	}
	return Read(path, format, opts...)
}

// Read parses the file at path as format.
func Read(path string, format Format, opts ...ReadOption) (*Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file: %w", format, err)
	}
	defer func() {
		_ = file.Close()
	}()

	opts = append([]ReadOption{withPath(path)}, opts...)
	return Parse(file, format, opts...)
}

// Parse reads a document of the given format from r.
func Parse(r io.Reader, format Format, opts ...ReadOption) (*Set, error) {
	o := buildReadOptions(opts)
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %s input: %w", format, err)
	}

	s := NewSet()
	if format == FormatEAF {
		if err := parseEAF(data, o, s); err != nil {
			return nil, err
		}
		return s, nil
	}

	text, err := decodeText(data, o.encoding, s)
	if err != nil {
		return nil, err
	}
	lines := splitLines(text)

	switch format {
	case FormatPraat:
		err = parsePraat(lines, o, s)
	case FormatPraatLong:
		err = parsePraatLong(newLineReader(lines, FormatPraatLong, o.path), s)
	case FormatPraatShort:
		err = parsePraatShort(newLineReader(lines, FormatPraatShort, o.path), s)
	case FormatESPS:
		err = parseESPS(lines, o, s)
	case FormatWavesurfer:
		err = parseWavesurfer(lines, o, s)
	case FormatTable:
		err = parseTable(lines, o, s)
	case FormatSRT:
		err = parseSRT(lines, o, s)
	case FormatVTT:
		err = parseVTT(lines, o, s)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func withPath(path string) ReadOption {
	return func(o *readOptions) {
		o.path = path
	}
}

// ReadPraat reads a Praat TextGrid, detecting the long or short layout.
func ReadPraat(path string, opts ...ReadOption) (*Set, error) {
	return Read(path, FormatPraat, opts...)
}

func ReadPraatLong(path string, opts ...ReadOption) (*Set, error) {
	return Read(path, FormatPraatLong, opts...)
}

func ReadPraatShort(path string, opts ...ReadOption) (*Set, error) {
	return Read(path, FormatPraatShort, opts...)
}

// ReadEAF reads an ELAN annotation document.
func ReadEAF(path string, opts ...ReadOption) (*Set, error) {
	return Read(path, FormatEAF, opts...)
}

func ReadESPS(path string, opts ...ReadOption) (*Set, error) {
	return Read(path, FormatESPS, opts...)
}

func ReadWavesurfer(path string, opts ...ReadOption) (*Set, error) {
	return Read(path, FormatWavesurfer, opts...)
}

// ReadTable reads delimiter separated rows; see the table ReadOptions.
func ReadTable(path string, opts ...ReadOption) (*Set, error) {
	return Read(path, FormatTable, opts...)
}

func ReadSRT(path string, opts ...ReadOption) (*Set, error) {
	return Read(path, FormatSRT, opts...)
}

func ReadVTT(path string, opts ...ReadOption) (*Set, error) {
	return Read(path, FormatVTT, opts...)
}

// lineReader walks decoded lines and builds positioned parse errors.
type lineReader struct {
	lines  []string
	pos    int // index of the next line
	format Format
	path   string
	tier   string
}

func newLineReader(lines []string, format Format, path string) *lineReader {
	return &lineReader{lines: lines, format: format, path: path}
}

// next returns the next raw line.
func (r *lineReader) next() (string, bool) {
	if r.pos >= len(r.lines) {
		return "", false
	}
	line := r.lines[r.pos]
	r.pos++
	return line, true
}

// nextNonBlank skips empty lines.
func (r *lineReader) nextNonBlank() (string, bool) {
	for {
		line, ok := r.next()
		if !ok {
			return "", false
		}
		if strings.TrimSpace(line) != "" {
			return line, true
		}
	}
}

func (r *lineReader) fail(expected, got string, err error) *ParseError {
	return &ParseError{
		Format:   r.format,
		Path:     r.path,
		Line:     r.pos,
		Tier:     r.tier,
		Expected: expected,
		Got:      strings.TrimSpace(got),
		Err:      err,
	}
}

func (r *lineReader) eof(expected string) *ParseError {
	return r.fail(expected, "", io.ErrUnexpectedEOF)
}
