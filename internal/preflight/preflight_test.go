package preflight

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"seqindex/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}

func TestRunAll_DefaultConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), cfg)
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
		if !r.Passed {
			t.Fatalf("check %s failed: %s", r.Name, r.Detail)
		}
	}
	got := strings.Join(names, ",")
	if got != "State directory,Export directory,Index database" {
		t.Fatalf("unexpected checks: %s", got)
	}
	if Failed(results) {
		t.Fatal("Failed reported true for passing results")
	}
}

func TestRunAll_IndexDisabledAndLogFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Index.Enabled = false
	cfg.Logging.File = true

	results := RunAll(context.Background(), cfg)
	for _, r := range results {
		if r.Name == "Index database" {
			t.Fatal("index check should be skipped when disabled")
		}
	}
	// Directories were never created, so the state and log checks fail.
	if !Failed(results) {
		t.Fatalf("expected failures for missing directories: %+v", results)
	}
}

func TestCheckIndex_SchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	store.Close()

	db, err := sql.Open("sqlite", cfg.IndexPath())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 0"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	result := CheckIndex(context.Background(), cfg.IndexPath())
	if result.Passed || !strings.Contains(result.Detail, "schema version mismatch") {
		t.Fatalf("expected schema mismatch failure, got %+v", result)
	}
}
