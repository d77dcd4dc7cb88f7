package frameseq

import (
	"strconv"
	"strings"
)

// Notation is the structural form of `stem[first-last]ext`.
type Notation struct {
	Stem  string
	Ext   string
	First int
	Last  int
	// Width is the number of digits in each frame field.
	Width int
}

// Key returns the pattern key the notation describes.
func (n Notation) Key() PatternKey {
	return PatternKey{Stem: n.Stem, Width: n.Width, Ext: n.Ext}
}

// String encodes n, falling back to an empty string when it cannot be
// represented. Use Encode to see the error.
func (n Notation) String() string {
	s, err := Encode(n)
	if err != nil {
		return ""
	}
	return s
}

// Encode renders n as `stem[first-last]ext` with both frames padded to
// n.Width. A frame that needs more digits than the width is a
// *WidthOverflowError; it is never truncated. A stem containing '[' or an
// extension containing a bracket is a *NotationError, since Decode could not
// read the result back.
func Encode(n Notation) (string, error) {
	if strings.ContainsRune(n.Stem, '[') {
		return "", &NotationError{Notation: n.Stem + "[...]" + n.Ext, Reason: "stem contains '['"}
	}
	if strings.ContainsAny(n.Ext, "[]") {
		return "", &NotationError{Notation: n.Stem + "[...]" + n.Ext, Reason: "extension contains a bracket"}
	}
	first, err := padFrame(n.First, n.Width)
	if err != nil {
		return "", err
	}
	last, err := padFrame(n.Last, n.Width)
	if err != nil {
		return "", err
	}
	if len(first) != len(last) {
		// Only reachable with Width 0, where the fields would decode to
		// different widths.
		return "", &WidthOverflowError{Frame: n.Last, Width: len(first)}
	}

	var b strings.Builder
	b.Grow(len(n.Stem) + len(first) + len(last) + len(n.Ext) + 3)
	b.WriteString(n.Stem)
	b.WriteByte('[')
	b.WriteString(first)
	b.WriteByte('-')
	b.WriteString(last)
	b.WriteByte(']')
	b.WriteString(n.Ext)
	return b.String(), nil
}

// EncodeRun renders a contiguous run using the padding width of its key.
func EncodeRun(r Run) (string, error) {
	return Encode(Notation{
		Stem:  r.Key.Stem,
		Ext:   r.Key.Ext,
		First: r.First,
		Last:  r.Last,
		Width: r.Key.Width,
	})
}

// Decode parses `stem[first-last]ext`. The stem may not contain '[', both
// frame fields must be non-empty decimal runs of equal length, the extension
// must start with '.', and first may not exceed last. Failures are returned
// as *NotationError.
func Decode(s string) (Notation, error) {
	fail := func(reason string) (Notation, error) {
		return Notation{}, &NotationError{Notation: s, Reason: reason}
	}

	open := strings.IndexByte(s, '[')
	if open < 0 {
		return fail("missing '['")
	}
	closeIdx := strings.IndexByte(s[open+1:], ']')
	if closeIdx < 0 {
		return fail("missing ']'")
	}
	closeIdx += open + 1

	stem := s[:open]
	interior := s[open+1 : closeIdx]
	ext := s[closeIdx+1:]

	if strings.ContainsAny(interior, "[") || strings.ContainsAny(ext, "[]") {
		return fail("unexpected extra bracket")
	}
	if ext == "" || ext[0] != '.' || len(ext) == 1 {
		return fail("extension must start with '.'")
	}

	firstDigits, lastDigits, ok := strings.Cut(interior, "-")
	if !ok {
		return fail("frame range must be first-last")
	}
	if !isDigits(firstDigits) || !isDigits(lastDigits) {
		return fail("frame fields must be non-empty decimal digits")
	}
	if len(firstDigits) != len(lastDigits) {
		return fail("frame fields differ in width")
	}

	first, err := strconv.Atoi(firstDigits)
	if err != nil {
		return fail("first frame out of range")
	}
	last, err := strconv.Atoi(lastDigits)
	if err != nil {
		return fail("last frame out of range")
	}
	if first > last {
		return fail("first frame is after last frame")
	}

	return Notation{
		Stem:  stem,
		Ext:   ext,
		First: first,
		Last:  last,
		Width: len(firstDigits),
	}, nil
}
