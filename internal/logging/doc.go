// Package logging assembles structured slog loggers and formatting helpers used
// across seqindex.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing (including size-rotated log files), and exposes attribute helpers
// so scanner and index code tag log lines with the same keys. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components
// emit data with the same shape as the rest of the system.
package logging
