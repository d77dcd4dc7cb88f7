package scanner

import (
	"path/filepath"
	"strings"
)

// excludeSet matches directories by base name ("proxies"), by path relative
// to the scan root ("shots/old"), or by absolute path.
type excludeSet struct {
	names    map[string]struct{}
	relPaths map[string]struct{}
	absPaths map[string]struct{}
}

func newExcludeSet(patterns []string) excludeSet {
	set := excludeSet{
		names:    map[string]struct{}{},
		relPaths: map[string]struct{}{},
		absPaths: map[string]struct{}{},
	}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = filepath.Clean(filepath.FromSlash(p))
		switch {
		case filepath.IsAbs(p):
			set.absPaths[p] = struct{}{}
		case strings.ContainsRune(p, filepath.Separator):
			set.relPaths[p] = struct{}{}
		default:
			set.names[p] = struct{}{}
		}
	}
	return set
}

func (s excludeSet) match(root, path string) bool {
	if _, ok := s.names[filepath.Base(path)]; ok {
		return true
	}
	if _, ok := s.absPaths[path]; ok {
		return true
	}
	if len(s.relPaths) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	_, ok := s.relPaths[rel]
	return ok
}
