package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Sequences returns the sequences of a run ordered by directory then notation.
func (s *Store) Sequences(ctx context.Context, runID string, filter Filter) ([]SequenceRecord, error) {
	var (
		clauses = []string{"run_id = ?"}
		args    = []any{runID}
	)
	if prefix := strings.TrimRight(strings.TrimSpace(filter.DirPrefix), "/"); prefix != "" {
		clauses = append(clauses, "(directory = ? OR substr(directory, 1, ?) = ?)")
		args = append(args, prefix, len(prefix)+1, prefix+"/")
	}
	if ext := strings.TrimSpace(filter.Ext); ext != "" {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		clauses = append(clauses, "lower(ext) = lower(?)")
		args = append(args, ext)
	}
	if filter.Contains != "" {
		clauses = append(clauses, "instr(notation, ?) > 0")
		args = append(args, filter.Contains)
	}

	query := `SELECT run_id, directory, notation, stem, ext, pattern,
            first_frame, last_frame, width, frames, size_bytes
        FROM sequences WHERE ` + strings.Join(clauses, " AND ") + `
        ORDER BY directory, notation`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sequences: %w", err)
	}
	defer rows.Close()

	var out []SequenceRecord
	for rows.Next() {
		var rec SequenceRecord
		if err := rows.Scan(
			&rec.RunID, &rec.Directory, &rec.Notation, &rec.Stem, &rec.Ext, &rec.Pattern,
			&rec.FirstFrame, &rec.LastFrame, &rec.Width, &rec.Frames, &rec.SizeBytes,
		); err != nil {
			return nil, fmt.Errorf("scan sequence: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PlainFiles returns the plain files of a run ordered by directory then name.
func (s *Store) PlainFiles(ctx context.Context, runID string) ([]PlainFileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, directory, name, size_bytes FROM plain_files
        WHERE run_id = ? ORDER BY directory, name, size_bytes`, runID)
	if err != nil {
		return nil, fmt.Errorf("query plain files: %w", err)
	}
	defer rows.Close()

	var out []PlainFileRecord
	for rows.Next() {
		var rec PlainFileRecord
		if err := rows.Scan(&rec.RunID, &rec.Directory, &rec.Name, &rec.SizeBytes); err != nil {
			return nil, fmt.Errorf("scan plain file: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Diagnostics returns the non-fatal findings recorded for a run.
func (s *Store) Diagnostics(ctx context.Context, runID string) ([]DiagnosticRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, kind, directory, pattern, frame, message FROM diagnostics
        WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query diagnostics: %w", err)
	}
	defer rows.Close()

	var out []DiagnosticRecord
	for rows.Next() {
		var (
			rec     DiagnosticRecord
			pattern sql.NullString
			frame   sql.NullInt64
		)
		if err := rows.Scan(&rec.RunID, &rec.Kind, &rec.Directory, &pattern, &frame, &rec.Message); err != nil {
			return nil, fmt.Errorf("scan diagnostic: %w", err)
		}
		rec.Pattern = pattern.String
		rec.Frame = int(frame.Int64)
		out = append(out, rec)
	}
	return out, rows.Err()
}
