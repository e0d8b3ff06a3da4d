package label

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	EncodingUTF8    = "utf-8"
	EncodingUTF16LE = "utf-16le"
	EncodingUTF16BE = "utf-16be"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding sniffs the byte-order mark at the start of data and
// returns the encoding name and BOM length. Without a BOM it reports UTF-8
// (plain ASCII is a subset) and a zero length.
func DetectEncoding(data []byte) (string, int) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return EncodingUTF8, len(bomUTF8)
	case bytes.HasPrefix(data, bomUTF16LE):
		return EncodingUTF16LE, len(bomUTF16LE)
	case bytes.HasPrefix(data, bomUTF16BE):
		return EncodingUTF16BE, len(bomUTF16BE)
	default:
		return EncodingUTF8, 0
	}
}

// canonicalEncoding folds common spellings ("UTF8", "utf_16_le", "ascii")
// onto the names used by DetectEncoding.
func canonicalEncoding(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	switch n {
	case "", "utf8", "utf-8", "ascii", "us-ascii":
		return EncodingUTF8
	case "utf-16-le", "utf16le", "utf-16le":
		return EncodingUTF16LE
	case "utf-16-be", "utf16be", "utf-16be":
		return EncodingUTF16BE
	default:
		return n
	}
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch canonicalEncoding(name) {
	case EncodingUTF8:
		return unicode.UTF8, nil
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

// decodeText turns raw file bytes into a string. A BOM always decides the
// encoding; when it contradicts the requested one a warning is recorded
// on s.
func decodeText(data []byte, requested string, s *Set) (string, error) {
	detected, bomLen := DetectEncoding(data)
	name := detected
	if requested != "" {
		if bomLen > 0 && canonicalEncoding(requested) != detected {
			s.warn(
				"encoding",
				"byte-order mark indicates %s, overriding requested encoding %s",
				detected,
				requested,
			)
		} else if bomLen == 0 {
			name = requested
		}
	}

	enc, err := lookupEncoding(name)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(data[bomLen:])
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	return string(out), nil
}

// charsetReader adapts lookupEncoding for encoding/xml.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := lookupEncoding(charset)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}

// splitLines splits decoded text on newlines, dropping carriage returns and
// the empty element after a trailing newline.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
