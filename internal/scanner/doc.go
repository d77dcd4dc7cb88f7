// Package scanner walks one or more root directories and runs every visited
// directory through frameseq.Index.
//
// Directories are listed with explicit paths; the process working directory
// is never changed. Each directory is independent, so listings are processed
// by a bounded worker pool and the results are returned sorted by directory
// path regardless of completion order. Unreadable subdirectories are
// recorded as failures and the walk continues; an unreadable root fails the
// scan.
package scanner
