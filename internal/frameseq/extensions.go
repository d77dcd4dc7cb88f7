package frameseq

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultExtensions lists the single-frame image formats indexed when the
// caller does not supply its own set.
var DefaultExtensions = []string{".dpx", ".tif", ".cin", ".exr", ".ari"}

// ExtensionSet matches filename extensions case-insensitively. Entries may be
// given with or without the leading dot.
//
// Matching only decides whether a file enters the engine; grouping keys keep
// the literal extension, so "a.0001.DPX" and "a.0002.dpx" never share a key.
type ExtensionSet struct {
	folded map[string]struct{}
}

// NewExtensionSet builds a set from exts. An empty argument list yields the
// default extensions.
func NewExtensionSet(exts ...string) ExtensionSet {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	set := ExtensionSet{folded: make(map[string]struct{}, len(exts))}
	fold := cases.Fold()
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		if ext == "" || ext == "." {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set.folded[fold.String(ext)] = struct{}{}
	}
	return set
}

// Match reports whether name carries one of the set's extensions.
func (s ExtensionSet) Match(name string) bool {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return false
	}
	// Caser values are stateful; one per call keeps the set safe for
	// concurrent use.
	_, ok := s.folded[cases.Fold().String(name[dot:])]
	return ok
}

// Len reports the number of distinct extensions.
func (s ExtensionSet) Len() int { return len(s.folded) }

// List returns the folded extensions in sorted order.
func (s ExtensionSet) List() []string {
	out := make([]string, 0, len(s.folded))
	for ext := range s.folded {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
