package index_test

import (
	"errors"
	"testing"

	"seqindex/internal/index"
	"seqindex/internal/testsupport"
)

func TestAcquireLockIsExclusive(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	first, err := index.AcquireLock(cfg.LockPath())
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}

	if _, err := index.AcquireLock(cfg.LockPath()); !errors.Is(err, index.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	second, err := index.AcquireLock(cfg.LockPath())
	if err != nil {
		t.Fatalf("AcquireLock after release: %v", err)
	}
	_ = second.Release()

	var nilLock *index.Lock
	if err := nilLock.Release(); err != nil {
		t.Fatalf("nil Release: %v", err)
	}
}
