package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"seqindex/internal/frameseq"
	"seqindex/internal/scanner"
)

// ErrAmbiguousRun is returned when a run ID prefix matches several runs.
var ErrAmbiguousRun = errors.New("ambiguous run id")

const runColumns = `id, roots_json, started_at, finished_at, directories,
        sequences, plain_files, frames, total_bytes, failures`

// SaveRun stores a scan result as a new run and returns its summary.
func (s *Store) SaveRun(ctx context.Context, res *scanner.Result) (*Run, error) {
	if res == nil {
		return nil, errors.New("save run: nil result")
	}
	totals := res.Totals()
	run := &Run{
		ID:          uuid.NewString(),
		Roots:       append([]string(nil), res.Roots...),
		StartedAt:   res.StartedAt.UTC(),
		FinishedAt:  res.FinishedAt.UTC(),
		Directories: len(res.Directories),
		Sequences:   totals.Sequences,
		PlainFiles:  totals.PlainFiles,
		Frames:      totals.Frames,
		TotalBytes:  totals.SequenceBytes + totals.PlainBytes,
		Failures:    len(res.Failures),
	}
	rootsJSON, err := json.Marshal(run.Roots)
	if err != nil {
		return nil, fmt.Errorf("marshal roots: %w", err)
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scan_runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, string(rootsJSON), formatTime(run.StartedAt), formatTime(run.FinishedAt),
			run.Directories, run.Sequences, run.PlainFiles, run.Frames, run.TotalBytes, run.Failures,
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		for _, listing := range res.Directories {
			if err := insertListing(ctx, tx, run.ID, listing); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

func insertListing(ctx context.Context, tx *sql.Tx, runID string, listing frameseq.Listing) error {
	for _, seq := range listing.Sequences {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sequences (
                run_id, directory, notation, stem, ext, pattern,
                first_frame, last_frame, width, frames, size_bytes
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, seq.Dir, seq.Notation, seq.Stem, seq.Ext, seq.Pattern,
			seq.FirstFrame, seq.LastFrame, seq.Width, seq.Frames, seq.TotalSize,
		); err != nil {
			return fmt.Errorf("insert sequence %s: %w", seq.Notation, err)
		}
	}
	for _, plain := range listing.PlainFiles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO plain_files (run_id, directory, name, size_bytes) VALUES (?, ?, ?, ?)`,
			runID, plain.Dir, plain.Name, plain.Size,
		); err != nil {
			return fmt.Errorf("insert plain file %s: %w", plain.Name, err)
		}
	}
	for _, diag := range listing.Diagnostics {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO diagnostics (run_id, kind, directory, pattern, frame, message) VALUES (?, ?, ?, ?, ?, ?)`,
			runID, diag.Kind, diag.Dir, diag.Pattern, diag.Frame, diag.Message,
		); err != nil {
			return fmt.Errorf("insert diagnostic: %w", err)
		}
	}
	return nil
}

// LatestRun returns the most recently started run, or nil when none exist.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	runs, err := s.ListRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// GetRun fetches a run by full ID or unique ID prefix. It returns nil when
// nothing matches.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("run id is empty")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM scan_runs WHERE id = ? OR substr(id, 1, ?) = ? ORDER BY id LIMIT 2`,
		id, len(id), id,
	)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		if run.ID == id {
			return &run, nil
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return &found[0], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousRun, id)
	}
}

// ListRuns returns runs newest first. A limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM scan_runs ORDER BY started_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// PruneRuns deletes all but the newest keep runs and returns how many were
// removed. keep <= 0 keeps everything.
func (s *Store) PruneRuns(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	const stale = `SELECT id FROM scan_runs ORDER BY started_at DESC, id DESC LIMIT -1 OFFSET ?`

	var removed int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"sequences", "plain_files", "diagnostics"} {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM `+table+` WHERE run_id IN (`+stale+`)`, keep,
			); err != nil {
				return fmt.Errorf("prune %s: %w", table, err)
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM scan_runs WHERE id IN (`+stale+`)`, keep)
		if err != nil {
			return fmt.Errorf("prune runs: %w", err)
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return int(removed), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run        Run
		rootsJSON  string
		startedAt  string
		finishedAt string
	)
	if err := row.Scan(
		&run.ID, &rootsJSON, &startedAt, &finishedAt, &run.Directories,
		&run.Sequences, &run.PlainFiles, &run.Frames, &run.TotalBytes, &run.Failures,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if err := json.Unmarshal([]byte(rootsJSON), &run.Roots); err != nil {
		return Run{}, fmt.Errorf("decode roots for run %s: %w", run.ID, err)
	}
	var err error
	if run.StartedAt, err = parseTimeString(startedAt); err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = parseTimeString(finishedAt); err != nil {
		return Run{}, fmt.Errorf("parse finished_at: %w", err)
	}
	return run, nil
}
