package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"seqindex/internal/config"
	"seqindex/internal/frameseq"
	"seqindex/internal/logging"
)

// ErrNoRoots is returned when Scan is called without any root directory.
var ErrNoRoots = errors.New("no scan roots")

// Options controls a scan.
type Options struct {
	Extensions  frameseq.ExtensionSet
	Recursive   bool
	ExcludeDirs []string
	// Workers bounds how many directories are indexed concurrently.
	Workers   int
	MinFrames int
	Logger    *slog.Logger
}

// OptionsFromConfig maps the [scan] config section onto scan options.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		Extensions:  frameseq.NewExtensionSet(cfg.Scan.Extensions...),
		Recursive:   cfg.Scan.Recursive,
		ExcludeDirs: cfg.Scan.ExcludeDirs,
		Workers:     cfg.Scan.Workers,
		MinFrames:   cfg.Scan.MinFrames,
		Logger:      logger,
	}
}

// Failure records a directory that could not be listed.
type Failure struct {
	Dir string
	Err error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Dir, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Result is the outcome of one scan.
type Result struct {
	Roots       []string
	StartedAt   time.Time
	FinishedAt  time.Time
	Directories []frameseq.Listing
	Failures    []Failure
}

// Totals sums the statistics of every listed directory.
func (r *Result) Totals() frameseq.Stats {
	var total frameseq.Stats
	if r == nil {
		return total
	}
	for _, listing := range r.Directories {
		total.Add(listing.Stats)
	}
	return total
}

// Sequences returns every encoded sequence in directory order.
func (r *Result) Sequences() []frameseq.EncodedSequence {
	if r == nil {
		return nil
	}
	var out []frameseq.EncodedSequence
	for _, listing := range r.Directories {
		out = append(out, listing.Sequences...)
	}
	return out
}

// Scan indexes every directory under roots.
func Scan(ctx context.Context, roots []string, opts Options) (*Result, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}
	logger := logging.NewComponentLogger(opts.Logger, "scanner")
	workers := max(opts.Workers, 1)

	result := &Result{StartedAt: time.Now().UTC()}
	excludes := newExcludeSet(opts.ExcludeDirs)

	seen := make(map[string]struct{})
	var dirs []string
	for _, root := range roots {
		clean, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve root %q: %w", root, err)
		}
		info, err := os.Stat(clean)
		if err != nil {
			return nil, fmt.Errorf("stat root: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("root %s is not a directory", clean)
		}
		result.Roots = append(result.Roots, clean)

		found, failures, err := collectDirs(ctx, clean, opts.Recursive, excludes)
		if err != nil {
			return nil, err
		}
		result.Failures = append(result.Failures, failures...)
		for _, dir := range found {
			if _, ok := seen[dir]; ok {
				continue
			}
			seen[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}
	slices.Sort(dirs)

	logger.Debug("scan started",
		logging.Int("roots", len(result.Roots)),
		logging.Int("directories", len(dirs)),
		logging.Int("workers", workers),
	)

	indexOpts := frameseq.Options{Extensions: opts.Extensions, MinFrames: opts.MinFrames}
	listings := make([]*frameseq.Listing, len(dirs))
	readErrs := make([]error, len(dirs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, dir := range dirs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries, err := readEntries(dir)
			if err != nil {
				readErrs[i] = err
				return nil
			}
			listing := frameseq.Index(dir, entries, indexOpts)
			listings[i] = &listing
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, dir := range dirs {
		if readErrs[i] != nil {
			result.Failures = append(result.Failures, Failure{Dir: dir, Err: readErrs[i]})
			continue
		}
		if listings[i] == nil {
			continue
		}
		reportListing(logger, *listings[i])
		result.Directories = append(result.Directories, *listings[i])
	}
	slices.SortFunc(result.Failures, func(a, b Failure) int { return strings.Compare(a.Dir, b.Dir) })
	for _, failure := range result.Failures {
		logging.WarnWithContext(logger, "directory skipped", "read_dir_failed",
			logging.String(logging.FieldDir, failure.Dir),
			logging.Error(failure.Err),
			logging.String(logging.FieldErrorHint, "check directory permissions"),
			logging.String(logging.FieldImpact, "files in this directory are not indexed"),
		)
	}

	result.FinishedAt = time.Now().UTC()
	totals := result.Totals()
	logger.Info("scan complete",
		logging.Int("directories", len(result.Directories)),
		logging.Int("sequences", totals.Sequences),
		logging.Int("plain_files", totals.PlainFiles),
		logging.Int("failures", len(result.Failures)),
		logging.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)),
	)
	return result, nil
}

func reportListing(logger *slog.Logger, listing frameseq.Listing) {
	for _, diag := range listing.Diagnostics {
		logging.WarnWithContext(logger, "duplicate frame in sequence group", "duplicate_frame",
			logging.String(logging.FieldDir, diag.Dir),
			logging.String("pattern", diag.Pattern),
			logging.Int("frame", diag.Frame),
			logging.String(logging.FieldErrorHint, "remove or rename the duplicate file"),
			logging.String(logging.FieldImpact, "sequence split at the duplicate frame"),
		)
	}
	for _, err := range listing.Errors {
		logging.WarnWithContext(logger, "sequence not encoded", "encode_failed",
			logging.String(logging.FieldDir, listing.Dir),
			logging.Error(err),
			logging.String(logging.FieldImpact, "frames listed as plain files"),
		)
	}
	for _, gap := range listing.Gaps {
		logger.Debug("gap in sequence",
			logging.String(logging.FieldDir, gap.Dir),
			logging.String("pattern", gap.Key.Pattern()),
			logging.Int("from", gap.From),
			logging.Int("to", gap.To),
		)
	}
	logger.Debug("directory indexed",
		logging.String(logging.FieldDir, listing.Dir),
		logging.Int("sequences", listing.Stats.Sequences),
		logging.Int("plain_files", listing.Stats.PlainFiles),
	)
}

func collectDirs(ctx context.Context, root string, recursive bool, excludes excludeSet) ([]string, []Failure, error) {
	if !recursive {
		return []string{root}, nil, nil
	}

	var dirs []string
	var failures []Failure
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return fmt.Errorf("walk root %s: %w", root, walkErr)
			}
			// The directory itself was already collected; its listing
			// failure is reported when the worker reads it.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			failures = append(failures, Failure{Dir: filepath.Dir(path), Err: walkErr})
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && excludes.match(root, path) {
			return fs.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return dirs, failures, nil
}

func readEntries(dir string) ([]frameseq.Entry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	entries := make([]frameseq.Entry, 0, len(items))
	for _, item := range items {
		info, err := entryInfo(dir, item)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		entries = append(entries, frameseq.Entry{Name: item.Name(), Size: info.Size()})
	}
	return entries, nil
}

// entryInfo follows symlinks so linked frames are indexed like regular files.
func entryInfo(dir string, item fs.DirEntry) (fs.FileInfo, error) {
	if item.Type()&fs.ModeSymlink != 0 {
		return os.Stat(filepath.Join(dir, item.Name()))
	}
	return item.Info()
}
