package label

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidTimeValue  = errors.New("invalid time value")
	ErrNotFound          = errors.New("not found")
	ErrAmbiguousMatch    = errors.New("ambiguous match")
	ErrParse             = errors.New("parse error")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrAlreadyOwned      = errors.New("already owned")
)

// ParseError is returned when an input file does not follow the grammar of
// its format. It matches ErrParse with errors.Is and unwraps to the cause.
type ParseError struct {
	Format   Format
	Path     string
	Line     int    // 1-based, 0 when not line oriented
	Tier     string // tier being read, if any
	Expected string // pattern or token the reader was looking for
	Got      string
	Err      error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	sb.WriteString(string(e.Format))
	sb.WriteString(" parse error")
	if e.Line > 0 {
		fmt.Fprintf(&sb, " at line %d", e.Line)
	}
	if e.Tier != "" {
		fmt.Fprintf(&sb, " in tier %q", e.Tier)
	}
	if e.Expected != "" {
		fmt.Fprintf(&sb, ": expected %s", e.Expected)
		if e.Got != "" {
			fmt.Fprintf(&sb, ", got %q", e.Got)
		}
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FileError ties an aggregation failure to the input that caused it.
type FileError struct {
	Path  string
	Index int
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s (file %d): %v", e.Path, e.Index, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Warning represents a non-fatal condition noticed while reading a file.
type Warning struct {
	// Stage where the warning occurred, e.g. "encoding"
	Stage   string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
