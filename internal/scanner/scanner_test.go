package scanner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"seqindex/internal/scanner"
	"seqindex/internal/testsupport"
)

func TestScanRecursiveSortsDirectories(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFrames(t, filepath.Join(root, "b_shot"), "plate.", 4, ".dpx", 10, testsupport.FrameRange(1, 5)...)
	testsupport.WriteFrames(t, filepath.Join(root, "a_shot"), "bg_", 3, ".exr", 20, 7, 8, 9)
	testsupport.WriteFile(t, filepath.Join(root, "notes.txt"), 5)

	cfg := testsupport.NewConfig(t, testsupport.WithWorkers(4))
	res := testsupport.MustScan(t, cfg, root)

	if len(res.Directories) != 3 {
		t.Fatalf("expected 3 directories, got %d", len(res.Directories))
	}
	wantDirs := []string{root, filepath.Join(root, "a_shot"), filepath.Join(root, "b_shot")}
	for i, want := range wantDirs {
		if got := res.Directories[i].Dir; got != want {
			t.Fatalf("directory %d = %q, want %q", i, got, want)
		}
	}

	seqs := res.Sequences()
	if len(seqs) != 2 {
		t.Fatalf("expected 2 sequences, got %d", len(seqs))
	}
	if seqs[0].Notation != "bg_[007-009].exr" || seqs[1].Notation != "plate.[0001-0005].dpx" {
		t.Fatalf("unexpected notations: %q, %q", seqs[0].Notation, seqs[1].Notation)
	}

	totals := res.Totals()
	if totals.Frames != 8 || totals.SequenceBytes != 5*10+3*20 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
	// notes.txt does not match the extension set and bypasses indexing.
	if totals.PlainFiles != 0 || totals.Skipped != 1 {
		t.Fatalf("expected notes.txt skipped, got %+v", totals)
	}
}

func TestScanNonRecursive(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFrames(t, root, "top", 2, ".tif", 1, 1, 2)
	testsupport.WriteFrames(t, filepath.Join(root, "nested"), "deep", 2, ".tif", 1, 1, 2)

	cfg := testsupport.NewConfig(t, testsupport.WithRecursive(false))
	res := testsupport.MustScan(t, cfg, root)

	if len(res.Directories) != 1 || res.Directories[0].Dir != root {
		t.Fatalf("expected only root directory, got %+v", res.Directories)
	}
}

func TestScanExcludeDirs(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFrames(t, filepath.Join(root, "shots", "keep"), "a", 2, ".dpx", 1, 1, 2)
	testsupport.WriteFrames(t, filepath.Join(root, "shots", "old"), "b", 2, ".dpx", 1, 1, 2)
	testsupport.WriteFrames(t, filepath.Join(root, "proxies"), "c", 2, ".dpx", 1, 1, 2)

	res, err := scanner.Scan(context.Background(), []string{root}, scanner.Options{
		Recursive:   true,
		ExcludeDirs: []string{"proxies", "shots/old"},
	})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	for _, seq := range res.Sequences() {
		if seq.Stem != "a" {
			t.Fatalf("excluded directory was indexed: %s", seq.FullPath)
		}
	}
	if got := len(res.Sequences()); got != 1 {
		t.Fatalf("expected 1 sequence, got %d", got)
	}
}

func TestScanOverlappingRootsListsOnce(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	testsupport.WriteFrames(t, sub, "x", 3, ".cin", 1, 1, 2, 3)

	res, err := scanner.Scan(context.Background(), []string{root, sub}, scanner.Options{Recursive: true})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if got := len(res.Sequences()); got != 1 {
		t.Fatalf("expected sub listed once, got %d sequences", got)
	}
	if len(res.Roots) != 2 {
		t.Fatalf("expected 2 roots, got %v", res.Roots)
	}
}

func TestScanDeterministicAcrossWorkerCounts(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"s1", "s2", "s3", "s4"} {
		testsupport.WriteFrames(t, filepath.Join(root, dir), "f", 4, ".dpx", 3, 1, 2, 3, 5, 6)
	}

	serial, err := scanner.Scan(context.Background(), []string{root}, scanner.Options{Recursive: true, Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := scanner.Scan(context.Background(), []string{root}, scanner.Options{Recursive: true, Workers: 8})
	if err != nil {
		t.Fatal(err)
	}

	a, b := serial.Sequences(), parallel.Sequences()
	if len(a) != len(b) || len(a) != 8 {
		t.Fatalf("sequence counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].FullPath != b[i].FullPath {
			t.Fatalf("order differs at %d: %s vs %s", i, a[i].FullPath, b[i].FullPath)
		}
	}
}

func TestScanErrors(t *testing.T) {
	if _, err := scanner.Scan(context.Background(), nil, scanner.Options{}); !errors.Is(err, scanner.ErrNoRoots) {
		t.Fatalf("expected ErrNoRoots, got %v", err)
	}

	file := filepath.Join(t.TempDir(), "frame.0001.dpx")
	testsupport.WriteFile(t, file, 1)
	if _, err := scanner.Scan(context.Background(), []string{file}, scanner.Options{}); err == nil {
		t.Fatal("expected error for non-directory root")
	}

	if _, err := scanner.Scan(context.Background(), []string{filepath.Join(t.TempDir(), "missing")}, scanner.Options{}); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestScanCanceled(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFrames(t, root, "f", 2, ".dpx", 1, 1, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := scanner.Scan(ctx, []string{root}, scanner.Options{Recursive: true}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestScanRecordsUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	testsupport.WriteFrames(t, locked, "f", 2, ".dpx", 1, 1, 2)
	testsupport.WriteFrames(t, root, "g", 2, ".dpx", 1, 1, 2)
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	res, err := scanner.Scan(context.Background(), []string{root}, scanner.Options{Recursive: true})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(res.Failures) != 1 || res.Failures[0].Dir != locked {
		t.Fatalf("expected failure for %s, got %+v", locked, res.Failures)
	}
	if got := len(res.Sequences()); got != 1 {
		t.Fatalf("expected readable sibling indexed, got %d sequences", got)
	}
}

func TestScanMinFramesDemotesShortRuns(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFrames(t, root, "shot_", 4, ".dpx", 1, testsupport.FrameRange(10, 12)...)

	res, err := scanner.Scan(context.Background(), []string{root}, scanner.Options{MinFrames: 4})
	if err != nil {
		t.Fatal(err)
	}
	listing := res.Directories[0]
	if len(listing.Sequences) != 0 || len(listing.PlainFiles) != 3 {
		t.Fatalf("expected short run demoted to plain files, got %+v", listing)
	}
}
