package schema

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Load when the input path does not exist.
var ErrNotFound = errors.New("schema: file not found")

// FormatError reports a malformed or unsupported schematic file. Loading
// never returns a partial document alongside one.
type FormatError struct {
	Path string
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("schema: %s: %s", e.Path, e.Msg)
	}
	return fmt.Sprintf("schema: %s", e.Msg)
}

// ReferenceError reports an at, tox or toy directive naming a symbol or
// pin that has not been placed yet.
type ReferenceError struct {
	Ref string
	Pin string
}

func (e *ReferenceError) Error() string {
	if e.Pin != "" {
		return fmt.Sprintf("schema: no pin %q on symbol %q", e.Pin, e.Ref)
	}
	return fmt.Sprintf("schema: symbol %q not placed", e.Ref)
}

// DuplicateRefError reports a second symbol placed with an already used
// reference.
type DuplicateRefError struct {
	Ref string
}

func (e *DuplicateRefError) Error() string {
	return fmt.Sprintf("schema: reference %q already placed", e.Ref)
}

// ValueError reports an invalid directive argument, such as a mirror
// axis other than "x" or "y".
type ValueError struct {
	Arg   string
	Value string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("schema: invalid %s %q", e.Arg, e.Value)
}
