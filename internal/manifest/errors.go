package manifest

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error checking via errors.Is().
var (
	// ErrRead indicates the manifest file could not be read.
	ErrRead = errors.New("read error")

	// ErrParse indicates the manifest is not well-formed JSON.
	ErrParse = errors.New("parse error")
)

// ReadError represents a failure to read the manifest from disk.
// Matches both ErrRead and the underlying error (e.g. fs.ErrNotExist).
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("unable to read %q: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() []error { return []error{ErrRead, e.Err} }

// ParseError represents a failure to decode the manifest JSON.
// Offset is the byte offset of the failure when the decoder reports one.
type ParseError struct {
	Path   string
	Offset int64
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Msg
	if msg == "" {
		msg = ErrParse.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("unable to parse %q: %s", e.Path, msg)
	}
	return fmt.Sprintf("%s: %s", ErrParse.Error(), msg)
}

func (e *ParseError) Unwrap() error { return ErrParse }
