package frameseq

import (
	"fmt"
	"path/filepath"
	"sort"
)

// DefaultMinFrames is the shortest run encoded as a sequence.
const DefaultMinFrames = 2

// Options tunes Index.
type Options struct {
	// Extensions selects the files that enter the engine. The zero value
	// means DefaultExtensions.
	Extensions ExtensionSet
	// MinFrames is the shortest run reported as a sequence; shorter runs are
	// emitted as plain files. Values below 2 mean 2.
	MinFrames int
}

// EncodedSequence is one contiguous run rendered as notation.
type EncodedSequence struct {
	Stem string
	Ext  string
	// First and Last are the padded frame fields, as they appear in Notation.
	First      string
	Last       string
	Notation   string
	Pattern    string
	Dir        string
	FullPath   string
	FirstFrame int
	LastFrame  int
	Width      int
	Frames     int
	TotalSize  int64
}

// Sequence decodes the notation back into an accessor rooted at Dir.
func (e EncodedSequence) Sequence() (*Sequence, error) {
	return NewSequence(e.Dir, e.Notation)
}

// Stats aggregates one listing.
type Stats struct {
	Sequences     int   `json:"sequences"`
	PlainFiles    int   `json:"plain_files"`
	Frames        int   `json:"frames"`
	SequenceBytes int64 `json:"sequence_bytes"`
	PlainBytes    int64 `json:"plain_bytes"`
	Skipped       int   `json:"skipped"`
	Gaps          int   `json:"gaps"`
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Sequences += o.Sequences
	s.PlainFiles += o.PlainFiles
	s.Frames += o.Frames
	s.SequenceBytes += o.SequenceBytes
	s.PlainBytes += o.PlainBytes
	s.Skipped += o.Skipped
	s.Gaps += o.Gaps
}

// Listing is the analysed content of one directory.
type Listing struct {
	Dir         string
	Sequences   []EncodedSequence
	PlainFiles  []PlainFile
	Gaps        []Gap
	Diagnostics []Diagnostic
	// Errors holds per-run encode failures. A failing run is reported here
	// and its frames are emitted as plain files; siblings are unaffected.
	Errors []error
	Stats  Stats
}

// Index runs one directory listing through grouping, run splitting and
// encoding. The result depends only on the multiset of entries: groups are
// ordered by key, runs by frame, and plain files by name.
func Index(dir string, entries []Entry, opts Options) Listing {
	exts := opts.Extensions
	if exts.Len() == 0 {
		exts = NewExtensionSet()
	}
	minFrames := opts.MinFrames
	if minFrames < DefaultMinFrames {
		minFrames = DefaultMinFrames
	}

	groups, plain, skipped := GroupEntries(dir, entries, exts)
	listing := Listing{Dir: dir, PlainFiles: plain}
	listing.Stats.Skipped = skipped

	for _, g := range groups {
		runs, gaps, diags := SplitRuns(g)
		listing.Gaps = append(listing.Gaps, gaps...)
		listing.Diagnostics = append(listing.Diagnostics, diags...)

		for _, run := range runs {
			if run.Len() < minFrames || run.Singleton() {
				listing.PlainFiles = appendMembers(listing.PlainFiles, run.Members)
				continue
			}
			seq, err := encodeRun(run)
			if err != nil {
				listing.Errors = append(listing.Errors,
					fmt.Errorf("encode %s frames %d-%d in %s: %w", run.Key.Pattern(), run.First, run.Last, dir, err))
				listing.PlainFiles = appendMembers(listing.PlainFiles, run.Members)
				continue
			}
			listing.Sequences = append(listing.Sequences, seq)
		}
	}

	sort.SliceStable(listing.PlainFiles, func(i, j int) bool {
		a, b := listing.PlainFiles[i], listing.PlainFiles[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Size < b.Size
	})

	for _, seq := range listing.Sequences {
		listing.Stats.Sequences++
		listing.Stats.Frames += seq.Frames
		listing.Stats.SequenceBytes += seq.TotalSize
	}
	for _, p := range listing.PlainFiles {
		listing.Stats.PlainFiles++
		listing.Stats.PlainBytes += p.Size
	}
	listing.Stats.Gaps = len(listing.Gaps)
	return listing
}

func encodeRun(run Run) (EncodedSequence, error) {
	notation, err := EncodeRun(run)
	if err != nil {
		return EncodedSequence{}, err
	}
	first, err := padFrame(run.First, run.Key.Width)
	if err != nil {
		return EncodedSequence{}, err
	}
	last, err := padFrame(run.Last, run.Key.Width)
	if err != nil {
		return EncodedSequence{}, err
	}
	return EncodedSequence{
		Stem:       run.Key.Stem,
		Ext:        run.Key.Ext,
		First:      first,
		Last:       last,
		Notation:   notation,
		Pattern:    run.Key.Pattern(),
		Dir:        run.Dir,
		FullPath:   filepath.Join(run.Dir, notation),
		FirstFrame: run.First,
		LastFrame:  run.Last,
		Width:      run.Key.Width,
		Frames:     run.Len(),
		TotalSize:  run.TotalSize,
	}, nil
}

func appendMembers(dst []PlainFile, members []FrameFile) []PlainFile {
	for _, m := range members {
		dst = append(dst, PlainFile{Name: m.Name, Dir: m.Dir, Size: m.Size})
	}
	return dst
}
