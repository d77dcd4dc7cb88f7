package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"seqindex/internal/fileutil"
	"seqindex/internal/frameseq"
	"seqindex/internal/index"
	"seqindex/internal/scanner"
)

// Format names an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Row kinds.
const (
	KindSequence = "sequence"
	KindFile     = "file"
)

var csvHeader = []string{"kind", "directory", "notation", "pattern", "first", "last", "frames", "size_bytes", "path"}

// Row is one exported sequence or plain file.
type Row struct {
	Kind      string `json:"kind" yaml:"kind"`
	Directory string `json:"directory" yaml:"directory"`
	// Notation holds the bracket notation for sequences and the file name
	// for plain files.
	Notation  string `json:"notation" yaml:"notation"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	First     string `json:"first,omitempty" yaml:"first,omitempty"`
	Last      string `json:"last,omitempty" yaml:"last,omitempty"`
	Frames    int    `json:"frames,omitempty" yaml:"frames,omitempty"`
	SizeBytes int64  `json:"size_bytes" yaml:"size_bytes"`
	Path      string `json:"path" yaml:"path"`
}

func (r Row) empty() bool {
	return r == Row{}
}

func (r Row) record() []string {
	frames := ""
	if r.Kind == KindSequence {
		frames = strconv.Itoa(r.Frames)
	}
	return []string{
		r.Kind, r.Directory, r.Notation, r.Pattern, r.First, r.Last,
		frames, strconv.FormatInt(r.SizeBytes, 10), r.Path,
	}
}

// ParseFormat accepts csv, json, yaml, and yml in any case.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want csv, json, or yaml)", value)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer export format from %q", path)
	}
	return ParseFormat(ext)
}

// SequenceRow converts an encoded sequence.
func SequenceRow(seq frameseq.EncodedSequence) Row {
	return Row{
		Kind:      KindSequence,
		Directory: seq.Dir,
		Notation:  seq.Notation,
		Pattern:   seq.Pattern,
		First:     seq.First,
		Last:      seq.Last,
		Frames:    seq.Frames,
		SizeBytes: seq.TotalSize,
		Path:      seq.FullPath,
	}
}

// FileRow converts a plain file.
func FileRow(file frameseq.PlainFile) Row {
	return Row{
		Kind:      KindFile,
		Directory: file.Dir,
		Notation:  file.Name,
		SizeBytes: file.Size,
		Path:      file.Path(),
	}
}

// RowsFromResult lists every sequence then every plain file, per directory
// in scan order.
func RowsFromResult(res *scanner.Result) []Row {
	if res == nil {
		return nil
	}
	var rows []Row
	for _, listing := range res.Directories {
		for _, seq := range listing.Sequences {
			rows = append(rows, SequenceRow(seq))
		}
		for _, file := range listing.PlainFiles {
			rows = append(rows, FileRow(file))
		}
	}
	return rows
}

// RowsFromRecords converts stored index records. Sequences come first.
func RowsFromRecords(seqs []index.SequenceRecord, files []index.PlainFileRecord) []Row {
	rows := make([]Row, 0, len(seqs)+len(files))
	for _, rec := range seqs {
		rows = append(rows, Row{
			Kind:      KindSequence,
			Directory: rec.Directory,
			Notation:  rec.Notation,
			Pattern:   rec.Pattern,
			First:     fmt.Sprintf("%0*d", rec.Width, rec.FirstFrame),
			Last:      fmt.Sprintf("%0*d", rec.Width, rec.LastFrame),
			Frames:    rec.Frames,
			SizeBytes: rec.SizeBytes,
			Path:      filepath.Join(rec.Directory, rec.Notation),
		})
	}
	for _, rec := range files {
		rows = append(rows, FileRow(frameseq.PlainFile{Name: rec.Name, Dir: rec.Directory, Size: rec.SizeBytes}))
	}
	return rows
}

// Write encodes rows to w. CSV output starts with a header row and skips
// rows that carry no values.
func Write(w io.Writer, format Format, rows []Row) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, rows)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if rows == nil {
			rows = []Row{}
		}
		return enc.Encode(rows)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if rows == nil {
			rows = []Row{}
		}
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func writeCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if row.empty() {
			continue
		}
		if err := cw.Write(row.record()); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes rows to path atomically.
func WriteFile(path string, format Format, rows []Row) error {
	return fileutil.WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		return Write(w, format, rows)
	})
}
