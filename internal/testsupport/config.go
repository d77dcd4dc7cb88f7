package testsupport

import (
	"path/filepath"
	"testing"

	"seqindex/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ExportDir = filepath.Join(base, "exports")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithExtensions replaces the qualifying extensions.
func WithExtensions(exts ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.Extensions = append([]string(nil), exts...)
	}
}

// WithWorkers sets the scan worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.Workers = n
	}
}

// WithMinFrames sets the shortest run reported as a sequence.
func WithMinFrames(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.MinFrames = n
	}
}

// WithRecursive toggles recursive scanning.
func WithRecursive(recursive bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.Recursive = recursive
	}
}

// WithRetainRuns sets how many runs the index keeps.
func WithRetainRuns(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Index.RetainRuns = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
