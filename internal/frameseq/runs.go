package frameseq

import "fmt"

// Run is a maximal contiguous stretch of frames within one group.
// Its members cover exactly the interval [First, Last].
type Run struct {
	Key PatternKey
	Dir string
	// Index numbers the runs of a group in discovery order. It is for
	// diagnostics only and never appears in notation.
	Index     int
	First     int
	Last      int
	Members   []FrameFile
	TotalSize int64
}

// Len reports the number of frames in the run.
func (r Run) Len() int { return len(r.Members) }

// Singleton reports whether the run holds a single frame.
func (r Run) Singleton() bool { return r.First == r.Last }

// Gap is a missing frame range between two runs of the same group.
type Gap struct {
	Key  PatternKey
	Dir  string
	From int
	To   int
}

// Frames reports how many frames are missing.
func (g Gap) Frames() int { return g.To - g.From + 1 }

// SplitRuns cuts a sorted group into contiguous runs. A frame that is not the
// expected successor closes the current run: a higher frame is a gap, and a
// frame at or below the previous one is a duplicate, reported as an
// inconsistent-group diagnostic. Either way the frame opens a new run, so
// the run sizes always add up to the member count.
func SplitRuns(g Group) (runs []Run, gaps []Gap, diags []Diagnostic) {
	if len(g.Members) == 0 {
		return nil, nil, nil
	}

	start := 0
	closeRun := func(end int) {
		members := g.Members[start:end]
		run := Run{
			Key:     g.Key,
			Dir:     g.Dir,
			Index:   len(runs),
			First:   members[0].Frame,
			Last:    members[len(members)-1].Frame,
			Members: members,
		}
		for _, m := range members {
			run.TotalSize += m.Size
		}
		runs = append(runs, run)
	}

	expected := g.Members[0].Frame + 1
	for i := 1; i < len(g.Members); i++ {
		frame := g.Members[i].Frame
		if frame == expected {
			expected++
			continue
		}

		prev := g.Members[i-1].Frame
		if frame <= prev {
			diags = append(diags, Diagnostic{
				Kind:    KindInconsistentGroup,
				Dir:     g.Dir,
				Pattern: g.Key.Pattern(),
				Frame:   frame,
				Message: fmt.Sprintf("frame %d listed more than once for %s", frame, g.Key.Pattern()),
			})
		} else {
			gaps = append(gaps, Gap{Key: g.Key, Dir: g.Dir, From: prev + 1, To: frame - 1})
		}

		closeRun(i)
		start = i
		expected = frame + 1
	}
	closeRun(len(g.Members))
	return runs, gaps, diags
}
