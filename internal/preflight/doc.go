// Package preflight provides readiness checks for the filesystem paths and
// index database seqindex depends on.
//
// The CLI "config validate" command runs them and reports each result; a
// failing check makes the command exit non-zero so scripts can gate scans on
// a healthy setup.
package preflight
