package frameseq_test

import (
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"testing"

	"seqindex/internal/frameseq"
)

func TestSequenceAccessors(t *testing.T) {
	dir := filepath.Join("/scans", "reel1")
	seq, err := frameseq.NewSequence(dir, "shot_[0010-0019].dpx")
	if err != nil {
		t.Fatalf("NewSequence: %v", err)
	}

	if seq.Pattern() != "shot_%04d.dpx" {
		t.Fatalf("Pattern = %q", seq.Pattern())
	}
	if seq.Path() != dir {
		t.Fatalf("Path = %q", seq.Path())
	}
	if seq.TotalFiles() != 10 {
		t.Fatalf("TotalFiles = %d", seq.TotalFiles())
	}
	if seq.FirstFrame() != 10 || seq.LastFrame() != 19 || seq.MiddleFrame() != 14 {
		t.Fatalf("frames = %d/%d/%d", seq.FirstFrame(), seq.MiddleFrame(), seq.LastFrame())
	}
	if seq.FirstFile() != "shot_0010.dpx" || seq.LastFile() != "shot_0019.dpx" || seq.MiddleFile() != "shot_0014.dpx" {
		t.Fatalf("files = %s/%s/%s", seq.FirstFile(), seq.MiddleFile(), seq.LastFile())
	}
	if seq.MiddleFileWithPath() != filepath.Join(dir, "shot_0014.dpx") {
		t.Fatalf("MiddleFileWithPath = %q", seq.MiddleFileWithPath())
	}
	if seq.FirstFileWithPath() != filepath.Join(dir, "shot_0010.dpx") || seq.LastFileWithPath() != filepath.Join(dir, "shot_0019.dpx") {
		t.Fatal("unexpected first/last paths")
	}
	if seq.ValidateFrame(9) || !seq.ValidateFrame(15) || !seq.ValidateFrame(10) || !seq.ValidateFrame(19) || seq.ValidateFrame(20) {
		t.Fatal("ValidateFrame bounds are wrong")
	}
}

func TestSequenceMiddleOddCount(t *testing.T) {
	seq, err := frameseq.NewSequence("", "s[1-5].exr")
	if err != nil {
		t.Fatalf("NewSequence: %v", err)
	}
	if seq.MiddleFrame() != 3 || seq.MiddleFile() != "s3.exr" {
		t.Fatalf("middle = %d %q", seq.MiddleFrame(), seq.MiddleFile())
	}
}

func TestSequenceIterationIsRestartable(t *testing.T) {
	seq, err := frameseq.NewSequence("/d", "a.[098-101].tif")
	if err != nil {
		t.Fatalf("NewSequence: %v", err)
	}

	want := []int{98, 99, 100, 101}
	for i := 0; i < 2; i++ {
		if got := slices.Collect(seq.Frames()); !slices.Equal(got, want) {
			t.Fatalf("pass %d: frames = %v", i, got)
		}
	}
	if got := seq.AllFrames(); !slices.Equal(got, want) {
		t.Fatalf("AllFrames = %v", got)
	}

	files := seq.AllFiles()
	if !slices.Equal(files, []string{"a.098.tif", "a.099.tif", "a.100.tif", "a.101.tif"}) {
		t.Fatalf("AllFiles = %v", files)
	}
	paths := seq.AllFilesWithPath()
	if len(paths) != 4 || paths[3] != filepath.Join("/d", "a.101.tif") {
		t.Fatalf("AllFilesWithPath = %v", paths)
	}

	var first []string
	for name := range seq.Files() {
		first = append(first, name)
		if len(first) == 2 {
			break
		}
	}
	if len(first) != 2 {
		t.Fatalf("early break yielded %v", first)
	}
}

func TestSequenceFramesStopAtMaxInt(t *testing.T) {
	last := strconv.Itoa(math.MaxInt)
	first := strconv.Itoa(math.MaxInt - 1)
	seq, err := frameseq.NewSequence("", "x["+first+"-"+last+"].dpx")
	if err != nil {
		t.Fatalf("NewSequence: %v", err)
	}

	var got []int
	for f := range seq.Frames() {
		got = append(got, f)
		if len(got) > seq.TotalFiles() {
			t.Fatalf("iterated past the range: %v", got)
		}
	}
	if !slices.Equal(got, []int{math.MaxInt - 1, math.MaxInt}) {
		t.Fatalf("frames = %v", got)
	}
	if files := seq.AllFiles(); len(files) != 2 || files[1] != "x"+last+".dpx" {
		t.Fatalf("AllFiles = %v", files)
	}
}

func TestParseSequencePath(t *testing.T) {
	full := filepath.Join("/scans", "reel1", "shot_[0010-0019].dpx")
	seq, err := frameseq.ParseSequencePath(full)
	if err != nil {
		t.Fatalf("ParseSequencePath: %v", err)
	}
	if seq.Path() != filepath.Join("/scans", "reel1") {
		t.Fatalf("Path = %q", seq.Path())
	}
	if seq.String() != full {
		t.Fatalf("String = %q", seq.String())
	}

	if _, err := frameseq.ParseSequencePath("/scans/shot_0010.dpx"); err == nil {
		t.Fatal("expected error for a plain file path")
	}
}

func TestSequenceFromNotationValidates(t *testing.T) {
	if _, err := frameseq.SequenceFromNotation("", frameseq.Notation{Stem: "s", Ext: ".dpx", First: 5, Last: 2, Width: 1}); err == nil {
		t.Fatal("expected error for reversed range")
	}
	if _, err := frameseq.SequenceFromNotation("", frameseq.Notation{Stem: "s", Ext: ".dpx", First: 5, Last: 200, Width: 2}); err == nil {
		t.Fatal("expected error for overflowing width")
	}
	seq, err := frameseq.SequenceFromNotation("", frameseq.Notation{Stem: "s", Ext: ".dpx", First: 5, Last: 9, Width: 0})
	if err != nil {
		t.Fatalf("SequenceFromNotation: %v", err)
	}
	if seq.Pattern() != "s%d.dpx" || seq.LastFile() != "s9.dpx" {
		t.Fatalf("unexpected unpadded sequence: %s %s", seq.Pattern(), seq.LastFile())
	}
}
