package testsupport

import (
	"context"
	"testing"

	"seqindex/internal/config"
	"seqindex/internal/index"
	"seqindex/internal/scanner"
)

// MustOpenStore opens the index store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *index.Store {
	t.Helper()

	store, err := index.Open(cfg.IndexPath())
	if err != nil {
		t.Fatalf("index.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustScan scans roots with the scan settings from cfg.
func MustScan(t testing.TB, cfg *config.Config, roots ...string) *scanner.Result {
	t.Helper()

	res, err := scanner.Scan(context.Background(), roots, scanner.OptionsFromConfig(cfg, nil))
	if err != nil {
		t.Fatalf("scanner.Scan: %v", err)
	}
	return res
}

// MustSaveRun stores res and returns the saved run.
func MustSaveRun(t testing.TB, store *index.Store, res *scanner.Result) *index.Run {
	t.Helper()

	run, err := store.SaveRun(context.Background(), res)
	if err != nil {
		t.Fatalf("store.SaveRun: %v", err)
	}
	return run
}
