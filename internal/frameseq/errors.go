package frameseq

import (
	"errors"
	"fmt"
	"strconv"
)

// Error kinds reported through ErrorKind and Diagnostic.Kind.
const (
	KindNotationParse     = "notation_parse"
	KindWidthOverflow     = "width_overflow"
	KindInconsistentGroup = "inconsistent_group"
)

var (
	// ErrNotation matches every *NotationError via errors.Is.
	ErrNotation = errors.New("invalid sequence notation")
	// ErrWidthOverflow matches every *WidthOverflowError via errors.Is.
	ErrWidthOverflow = errors.New("frame number exceeds padding width")
)

// NotationError reports a malformed bracket notation.
type NotationError struct {
	Notation string
	Reason   string
}

func (e *NotationError) Error() string {
	return fmt.Sprintf("parse notation %q: %s", e.Notation, e.Reason)
}

func (e *NotationError) Is(target error) bool { return target == ErrNotation }

// ErrorKind classifies the error for callers that map errors to statuses.
func (e *NotationError) ErrorKind() string { return KindNotationParse }

// WidthOverflowError reports a frame number that does not fit the padding
// width established for its sequence.
type WidthOverflowError struct {
	Frame int
	Width int
}

func (e *WidthOverflowError) Error() string {
	return "frame " + strconv.Itoa(e.Frame) + " does not fit padding width " + strconv.Itoa(e.Width)
}

func (e *WidthOverflowError) Is(target error) bool { return target == ErrWidthOverflow }

func (e *WidthOverflowError) ErrorKind() string { return KindWidthOverflow }

// Diagnostic is a non-fatal anomaly found while analysing a directory.
type Diagnostic struct {
	Kind    string `json:"kind"`
	Dir     string `json:"directory"`
	Pattern string `json:"pattern"`
	Frame   int    `json:"frame"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	return d.Kind + ": " + d.Message
}
