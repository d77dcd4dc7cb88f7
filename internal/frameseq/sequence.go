package frameseq

import (
	"iter"
	"path/filepath"
)

// Sequence exposes the frames described by one notation string rooted at a
// directory. It is read-only and performs no filesystem access; whether the
// files exist is never checked.
type Sequence struct {
	dir string
	n   Notation
	key PatternKey
}

// NewSequence decodes notation and binds it to dir.
func NewSequence(dir, notation string) (*Sequence, error) {
	n, err := Decode(notation)
	if err != nil {
		return nil, err
	}
	return newSequence(dir, n), nil
}

// ParseSequencePath decodes a full path such as
// "/scans/reel1/shot_[0010-0019].dpx", splitting off the directory.
func ParseSequencePath(path string) (*Sequence, error) {
	dir, base := filepath.Split(path)
	if dir != "" {
		dir = filepath.Clean(dir)
	}
	return NewSequence(dir, base)
}

// SequenceFromNotation binds an already decoded notation to dir. The
// notation must be encodable and ordered.
func SequenceFromNotation(dir string, n Notation) (*Sequence, error) {
	encoded, err := Encode(n)
	if err != nil {
		return nil, err
	}
	if n.First > n.Last {
		return nil, &NotationError{Notation: encoded, Reason: "first frame is after last frame"}
	}
	return newSequence(dir, n), nil
}

func newSequence(dir string, n Notation) *Sequence {
	return &Sequence{dir: dir, n: n, key: n.Key()}
}

// Notation returns the decoded fields.
func (s *Sequence) Notation() Notation { return s.n }

// Pattern returns the printf-style file template, e.g. "shot_%04d.dpx".
func (s *Sequence) Pattern() string { return s.key.Pattern() }

// Path returns the directory containing the frames.
func (s *Sequence) Path() string { return s.dir }

// FirstFrame returns the first frame number.
func (s *Sequence) FirstFrame() int { return s.n.First }

// LastFrame returns the last frame number.
func (s *Sequence) LastFrame() int { return s.n.Last }

// MiddleFrame returns Last - TotalFiles/2, which favours the earlier of the
// two central frames when the count is even.
func (s *Sequence) MiddleFrame() int { return s.n.Last - s.TotalFiles()/2 }

// TotalFiles returns the number of frames in the range.
func (s *Sequence) TotalFiles() int { return s.n.Last - s.n.First + 1 }

// ValidateFrame reports whether frame lies within [FirstFrame, LastFrame].
func (s *Sequence) ValidateFrame(frame int) bool {
	return frame >= s.n.First && frame <= s.n.Last
}

// FileName returns the filename of frame, which need not be in range.
func (s *Sequence) FileName(frame int) (string, error) {
	return s.key.FileName(frame)
}

// FirstFile returns the filename of the first frame.
func (s *Sequence) FirstFile() string { return s.mustName(s.n.First) }

// LastFile returns the filename of the last frame.
func (s *Sequence) LastFile() string { return s.mustName(s.n.Last) }

// MiddleFile returns the filename of the middle frame.
func (s *Sequence) MiddleFile() string { return s.mustName(s.MiddleFrame()) }

// FirstFileWithPath returns the first frame joined with the directory.
func (s *Sequence) FirstFileWithPath() string { return s.join(s.FirstFile()) }

// LastFileWithPath returns the last frame joined with the directory.
func (s *Sequence) LastFileWithPath() string { return s.join(s.LastFile()) }

// MiddleFileWithPath returns the middle frame joined with the directory.
func (s *Sequence) MiddleFileWithPath() string { return s.join(s.MiddleFile()) }

// Frames yields every frame number from first to last. The sequence is lazy
// and can be ranged over any number of times. It stops on last rather than
// past it, so a range ending at math.MaxInt terminates.
func (s *Sequence) Frames() iter.Seq[int] {
	first, last := s.n.First, s.n.Last
	return func(yield func(int) bool) {
		for f := first; ; f++ {
			if !yield(f) || f == last {
				return
			}
		}
	}
}

// Files yields every filename in frame order.
func (s *Sequence) Files() iter.Seq[string] {
	return func(yield func(string) bool) {
		for f := range s.Frames() {
			if !yield(s.mustName(f)) {
				return
			}
		}
	}
}

// FilesWithPath yields every filename joined with the directory.
func (s *Sequence) FilesWithPath() iter.Seq[string] {
	return func(yield func(string) bool) {
		for name := range s.Files() {
			if !yield(s.join(name)) {
				return
			}
		}
	}
}

// AllFrames materializes Frames.
func (s *Sequence) AllFrames() []int {
	out := make([]int, 0, s.TotalFiles())
	for f := range s.Frames() {
		out = append(out, f)
	}
	return out
}

// AllFiles materializes Files.
func (s *Sequence) AllFiles() []string {
	out := make([]string, 0, s.TotalFiles())
	for name := range s.Files() {
		out = append(out, name)
	}
	return out
}

// AllFilesWithPath materializes FilesWithPath.
func (s *Sequence) AllFilesWithPath() []string {
	out := make([]string, 0, s.TotalFiles())
	for p := range s.FilesWithPath() {
		out = append(out, p)
	}
	return out
}

func (s *Sequence) String() string {
	return s.join(s.n.String())
}

// mustName formats an in-range frame. Decode guarantees both bounds have
// exactly Width digits, so every frame between them fits.
func (s *Sequence) mustName(frame int) string {
	name, err := s.key.FileName(frame)
	if err != nil {
		panic(err)
	}
	return name
}

func (s *Sequence) join(name string) string {
	if s.dir == "" {
		return name
	}
	return filepath.Join(s.dir, name)
}
