// Package export renders indexed sequences and plain files as CSV, JSON, or
// YAML. Rows come either from a fresh scan or from a stored index run; file
// output is written atomically.
package export
