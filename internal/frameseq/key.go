package frameseq

import (
	"strconv"
	"strings"
)

// PatternKey identifies a candidate sequence. Two files belong to the same
// sequence only when stem, padding width and extension all match exactly;
// "shot_007.dpx" and "shot_7.dpx" are different sequences.
//
// The key is a comparable struct so it can be used directly as a map key.
type PatternKey struct {
	Stem  string
	Width int
	Ext   string
}

// Pattern renders the key as a printf-style template such as
// "shot_%07d.dpx". Width 0 renders as "%d". Literal percent signs in the
// stem or extension are escaped so the template stays usable with fmt.
func (k PatternKey) Pattern() string {
	verb := "%d"
	if k.Width > 0 {
		verb = "%0" + strconv.Itoa(k.Width) + "d"
	}
	return escapePercent(k.Stem) + verb + escapePercent(k.Ext)
}

// FileName builds the filename for frame. It does not go through fmt, so
// stems containing format verbs are reproduced verbatim.
func (k PatternKey) FileName(frame int) (string, error) {
	digits, err := padFrame(frame, k.Width)
	if err != nil {
		return "", err
	}
	return k.Stem + digits + k.Ext, nil
}

func (k PatternKey) String() string {
	return k.Pattern()
}

func (k PatternKey) less(o PatternKey) bool {
	if k.Stem != o.Stem {
		return k.Stem < o.Stem
	}
	if k.Ext != o.Ext {
		return k.Ext < o.Ext
	}
	return k.Width < o.Width
}

// padFrame left-pads frame with zeros to width. A frame whose decimal form is
// longer than width cannot be represented and yields a *WidthOverflowError.
func padFrame(frame, width int) (string, error) {
	if frame < 0 {
		return "", &WidthOverflowError{Frame: frame, Width: width}
	}
	s := strconv.Itoa(frame)
	if width <= 0 {
		return s, nil
	}
	if len(s) > width {
		return "", &WidthOverflowError{Frame: frame, Width: width}
	}
	if len(s) == width {
		return s, nil
	}
	return strings.Repeat("0", width-len(s)) + s, nil
}

func escapePercent(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}
