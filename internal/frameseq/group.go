package frameseq

import (
	"path/filepath"
	"sort"
)

// Entry is one file from a directory listing.
type Entry struct {
	Name string
	Size int64
}

// FrameFile is a listing entry that carries a frame token.
type FrameFile struct {
	Name   string
	Dir    string
	Frame  int
	Digits int
	Size   int64
}

// PlainFile is a file emitted outside any sequence: either it had no frame
// token, or its run was too short to form a sequence.
type PlainFile struct {
	Name string
	Dir  string
	Size int64
}

// Path joins the file's directory and name.
func (p PlainFile) Path() string {
	return filepath.Join(p.Dir, p.Name)
}

// Group holds every file of one directory that shares a pattern key, sorted
// by frame number. Files with equal frame numbers keep their listing order.
type Group struct {
	Key     PatternKey
	Dir     string
	Members []FrameFile
}

// GroupEntries buckets the qualifying entries of one directory by pattern
// key. Entries whose extension is not in exts are skipped entirely; entries
// without a frame token are returned as plain files in listing order.
// Groups are returned sorted by key so output never depends on map order.
func GroupEntries(dir string, entries []Entry, exts ExtensionSet) (groups []Group, plain []PlainFile, skipped int) {
	index := make(map[PatternKey]int, 16)

	for _, e := range entries {
		if !exts.Match(e.Name) {
			skipped++
			continue
		}
		tok, ok := ExtractToken(e.Name)
		if !ok {
			plain = append(plain, PlainFile{Name: e.Name, Dir: dir, Size: e.Size})
			continue
		}

		member := FrameFile{
			Name:   e.Name,
			Dir:    dir,
			Frame:  tok.Frame,
			Digits: tok.Width(),
			Size:   e.Size,
		}
		key := tok.Key()
		if idx, ok := index[key]; ok {
			groups[idx].Members = append(groups[idx].Members, member)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, Group{Key: key, Dir: dir, Members: []FrameFile{member}})
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Key.less(groups[j].Key) })
	for i := range groups {
		members := groups[i].Members
		sort.SliceStable(members, func(a, b int) bool { return members[a].Frame < members[b].Frame })
	}
	return groups, plain, skipped
}
