package index_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"seqindex/internal/frameseq"
	"seqindex/internal/index"
	"seqindex/internal/scanner"
	"seqindex/internal/testsupport"
)

func fixtureResult(t *testing.T) (*scanner.Result, string) {
	t.Helper()
	root := t.TempDir()
	testsupport.WriteFrames(t, filepath.Join(root, "sh010"), "plate.", 4, ".dpx", 100, 1, 2, 3, 5, 6)
	testsupport.WriteFrames(t, filepath.Join(root, "sh020"), "bg_", 3, ".EXR", 10, 1, 2)
	testsupport.WriteFrames(t, filepath.Join(root, "sh020"), "lonely", 2, ".tif", 7, 4)
	cfg := testsupport.NewConfig(t)
	return testsupport.MustScan(t, cfg, root), root
}

func TestSaveRunRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	res, root := fixtureResult(t)

	run := testsupport.MustSaveRun(t, store, res)
	if run.ID == "" || len(run.ShortID()) != 8 {
		t.Fatalf("expected uuid run id, got %q", run.ID)
	}
	if run.Sequences != 3 || run.PlainFiles != 1 || run.Frames != 7 {
		t.Fatalf("unexpected run counts: %+v", run)
	}
	if run.TotalBytes != 5*100+2*10+7 {
		t.Fatalf("unexpected total bytes: %d", run.TotalBytes)
	}

	ctx := context.Background()
	fetched, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if fetched == nil || fetched.ID != run.ID || len(fetched.Roots) != 1 || fetched.Roots[0] != root {
		t.Fatalf("unexpected fetched run: %+v", fetched)
	}
	if !fetched.StartedAt.Equal(run.StartedAt) {
		t.Fatalf("started_at mismatch: %v vs %v", fetched.StartedAt, run.StartedAt)
	}

	seqs, err := store.Sequences(ctx, run.ID, index.Filter{})
	if err != nil {
		t.Fatalf("Sequences: %v", err)
	}
	want := []string{"plate.[0001-0003].dpx", "plate.[0005-0006].dpx", "bg_[001-002].EXR"}
	if len(seqs) != len(want) {
		t.Fatalf("expected %d sequences, got %d", len(want), len(seqs))
	}
	for i, notation := range want {
		if seqs[i].Notation != notation {
			t.Fatalf("sequence %d = %q, want %q", i, seqs[i].Notation, notation)
		}
	}

	seq, err := seqs[0].Sequence()
	if err != nil {
		t.Fatalf("decode stored sequence: %v", err)
	}
	if seq.MiddleFile() != "plate.0002.dpx" || seq.Path() != filepath.Join(root, "sh010") {
		t.Fatalf("unexpected decoded sequence: %s in %s", seq.MiddleFile(), seq.Path())
	}

	plain, err := store.PlainFiles(ctx, run.ID)
	if err != nil {
		t.Fatalf("PlainFiles: %v", err)
	}
	if len(plain) != 1 || plain[0].Name != "lonely04.tif" || plain[0].SizeBytes != 7 {
		t.Fatalf("unexpected plain files: %+v", plain)
	}
}

func TestSequencesFilter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	res, root := fixtureResult(t)
	run := testsupport.MustSaveRun(t, store, res)
	ctx := context.Background()

	cases := []struct {
		name   string
		filter index.Filter
		want   int
	}{
		{"all", index.Filter{}, 3},
		{"dir prefix", index.Filter{DirPrefix: filepath.Join(root, "sh010")}, 2},
		{"dir prefix is not a string prefix", index.Filter{DirPrefix: filepath.Join(root, "sh01")}, 0},
		{"ext without dot", index.Filter{Ext: "exr"}, 1},
		{"ext with dot", index.Filter{Ext: ".DPX"}, 2},
		{"contains", index.Filter{Contains: "0005"}, 1},
		{"limit", index.Filter{Limit: 1}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seqs, err := store.Sequences(ctx, run.ID, tc.filter)
			if err != nil {
				t.Fatalf("Sequences: %v", err)
			}
			if len(seqs) != tc.want {
				t.Fatalf("got %d sequences, want %d", len(seqs), tc.want)
			}
		})
	}
}

func TestDiagnosticsStored(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	dir := "/scans/sh030"
	listing := frameseq.Index(dir, []frameseq.Entry{
		{Name: "f.0001.dpx", Size: 1},
		{Name: "f.0002.dpx", Size: 1},
		{Name: "f.0002.dpx", Size: 2},
	}, frameseq.Options{})
	now := time.Now()
	run := testsupport.MustSaveRun(t, store, &scanner.Result{
		Roots:       []string{dir},
		StartedAt:   now,
		FinishedAt:  now,
		Directories: []frameseq.Listing{listing},
	})

	diags, err := store.Diagnostics(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("Diagnostics: %v", err)
	}
	if len(diags) != 1 || diags[0].Kind != frameseq.KindInconsistentGroup || diags[0].Frame != 2 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
}

func TestLatestAndListRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	latest, err := store.LatestRun(ctx)
	if err != nil || latest != nil {
		t.Fatalf("expected no runs, got %+v, %v", latest, err)
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i := range 3 {
		started := base.Add(time.Duration(i) * time.Second)
		run := testsupport.MustSaveRun(t, store, &scanner.Result{
			Roots: []string{"/scans"}, StartedAt: started, FinishedAt: started,
		})
		ids = append(ids, run.ID)
	}

	latest, err = store.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if latest == nil || latest.ID != ids[2] {
		t.Fatalf("expected newest run %s, got %+v", ids[2], latest)
	}

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 || runs[0].ID != ids[2] || runs[2].ID != ids[0] {
		t.Fatalf("unexpected run order: %+v", runs)
	}

	byPrefix, err := store.GetRun(ctx, ids[1][:13])
	if err != nil {
		t.Fatalf("GetRun by prefix: %v", err)
	}
	if byPrefix == nil || byPrefix.ID != ids[1] {
		t.Fatalf("expected prefix lookup to find %s, got %+v", ids[1], byPrefix)
	}

	missing, err := store.GetRun(ctx, "ffffffff-0000")
	if err != nil || missing != nil {
		t.Fatalf("expected no match, got %+v, %v", missing, err)
	}
}

func TestGetRunAmbiguousPrefix(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	now := time.Now()
	for range 20 {
		testsupport.MustSaveRun(t, store, &scanner.Result{StartedAt: now, FinishedAt: now})
	}

	// With 20 random UUIDs at least two share a first hex digit.
	counts := map[byte]int{}
	runs, err := store.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	var shared string
	for _, run := range runs {
		counts[run.ID[0]]++
		if counts[run.ID[0]] == 2 {
			shared = run.ID[:1]
		}
	}
	if _, err := store.GetRun(context.Background(), shared); !errors.Is(err, index.ErrAmbiguousRun) {
		t.Fatalf("expected ErrAmbiguousRun for prefix %q, got %v", shared, err)
	}
}

func TestPruneRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	res, _ := fixtureResult(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i := range 4 {
		res.StartedAt = base.Add(time.Duration(i) * time.Minute)
		ids = append(ids, testsupport.MustSaveRun(t, store, res).ID)
	}

	removed, err := store.PruneRuns(ctx, 0)
	if err != nil || removed != 0 {
		t.Fatalf("keep=0 should keep everything, removed %d, err %v", removed, err)
	}

	removed, err = store.PruneRuns(ctx, 2)
	if err != nil {
		t.Fatalf("PruneRuns: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 runs removed, got %d", removed)
	}

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != ids[3] || runs[1].ID != ids[2] {
		t.Fatalf("unexpected remaining runs: %+v", runs)
	}
	seqs, err := store.Sequences(ctx, ids[0], index.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 0 {
		t.Fatalf("expected pruned run sequences removed, got %d", len(seqs))
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	store.Close()

	db, err := sql.Open("sqlite", cfg.IndexPath())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	if _, err := index.Open(cfg.IndexPath()); !errors.Is(err, index.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
