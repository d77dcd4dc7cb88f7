// Package frameseq discovers numbered frame sequences in a directory listing
// and encodes them in the compact bracket notation `name[first-last].ext`.
//
// The pipeline is a chain of pure stages: ExtractToken pulls the trailing
// frame number out of a filename, PatternKey identifies the candidate
// sequence a file belongs to, GroupEntries buckets a listing by key,
// SplitRuns cuts each group into maximal contiguous runs, and Encode renders
// a run as notation. Index wires the stages together for one directory.
//
// Sequence is the decode side: it wraps a notation string plus a base
// directory and answers questions about the frames it describes without
// touching the filesystem.
//
// Nothing in this package performs I/O or holds shared state, so separate
// directories may be indexed concurrently by the caller.
package frameseq
