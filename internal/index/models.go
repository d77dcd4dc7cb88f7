package index

import (
	"time"

	"seqindex/internal/frameseq"
)

// Run summarizes one saved scan.
type Run struct {
	ID          string    `json:"id" yaml:"id"`
	Roots       []string  `json:"roots" yaml:"roots"`
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt  time.Time `json:"finished_at" yaml:"finished_at"`
	Directories int       `json:"directories" yaml:"directories"`
	Sequences   int       `json:"sequences" yaml:"sequences"`
	PlainFiles  int       `json:"plain_files" yaml:"plain_files"`
	Frames      int       `json:"frames" yaml:"frames"`
	TotalBytes  int64     `json:"total_bytes" yaml:"total_bytes"`
	Failures    int       `json:"failures" yaml:"failures"`
}

// ShortID returns the first block of the run UUID.
func (r Run) ShortID() string {
	if len(r.ID) >= 8 {
		return r.ID[:8]
	}
	return r.ID
}

// SequenceRecord is a stored encoded sequence.
type SequenceRecord struct {
	RunID      string
	Directory  string
	Notation   string
	Stem       string
	Ext        string
	Pattern    string
	FirstFrame int
	LastFrame  int
	Width      int
	Frames     int
	SizeBytes  int64
}

// Sequence decodes the stored notation into an accessor rooted at Directory.
func (r SequenceRecord) Sequence() (*frameseq.Sequence, error) {
	return frameseq.NewSequence(r.Directory, r.Notation)
}

// PlainFileRecord is a stored file that did not join any sequence.
type PlainFileRecord struct {
	RunID     string
	Directory string
	Name      string
	SizeBytes int64
}

// DiagnosticRecord is a stored non-fatal finding from a scan.
type DiagnosticRecord struct {
	RunID     string
	Kind      string
	Directory string
	Pattern   string
	Frame     int
	Message   string
}

// Filter narrows Sequences queries. Zero values match everything.
type Filter struct {
	// DirPrefix matches the directory itself and everything below it.
	DirPrefix string
	// Ext matches case-insensitively, with or without the leading dot.
	Ext string
	// Contains matches a substring of the notation.
	Contains string
	Limit    int
}
