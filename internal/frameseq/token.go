package frameseq

import (
	"strconv"
	"strings"
)

// Token is the trailing frame number found in a filename.
type Token struct {
	// Stem is the filename with the digits and extension removed ("shot2_").
	Stem string
	// Digits is the frame number exactly as written, leading zeros included.
	Digits string
	// Ext is the extension including the leading dot (".dpx").
	Ext string
	// Frame is the numeric value of Digits.
	Frame int
}

// Width reports the padding width of the token.
func (t Token) Width() int { return len(t.Digits) }

// Key returns the pattern key for the sequence this token belongs to.
func (t Token) Key() PatternKey {
	return PatternKey{Stem: t.Stem, Width: t.Width(), Ext: t.Ext}
}

// ExtractToken splits name (a bare filename, no directory) into stem, frame
// digits and extension. It reports false when the name has no extension or
// no digits directly in front of the extension; such files are plain files,
// not sequence members.
//
// Digit runs too long to fit in an int are also reported as false.
func ExtractToken(name string) (Token, bool) {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 || dot == len(name)-1 {
		return Token{}, false
	}
	base, ext := name[:dot], name[dot:]

	start := len(base)
	for start > 0 && isDigit(base[start-1]) {
		start--
	}
	if start == len(base) {
		return Token{}, false
	}
	digits := base[start:]

	frame, err := strconv.Atoi(digits)
	if err != nil {
		return Token{}, false
	}
	return Token{
		Stem:   base[:start],
		Digits: digits,
		Ext:    ext,
		Frame:  frame,
	}, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
