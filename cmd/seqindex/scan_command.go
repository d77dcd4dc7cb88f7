package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"seqindex/internal/config"
	"seqindex/internal/frameseq"
	"seqindex/internal/index"
	"seqindex/internal/logging"
	"seqindex/internal/scanner"
)

type scanFlags struct {
	noRecursive bool
	workers     int
	minFrames   int
	extensions  []string
	excludes    []string
	noSave      bool
	jsonOutput  bool
	showFiles   bool
	showGaps    bool
	showStats   bool
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noRecursive, "no-recursive", false, "Only index the given directories, not their subdirectories")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "Directories indexed concurrently (default from config)")
	cmd.Flags().IntVar(&f.minFrames, "min-frames", 0, "Shortest run reported as a sequence (default from config)")
	cmd.Flags().StringSliceVarP(&f.extensions, "ext", "e", nil, "Frame extensions to consider (repeatable; default from config)")
	cmd.Flags().StringSliceVar(&f.excludes, "exclude", nil, "Directory names or root-relative paths to skip (repeatable)")
}

// options merges flag overrides onto the configured scan settings.
func (f *scanFlags) options(cmd *cobra.Command, cfg *config.Config) scanner.Options {
	opts := scanner.OptionsFromConfig(cfg, nil)
	if f.noRecursive {
		opts.Recursive = false
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = f.workers
	}
	if cmd.Flags().Changed("min-frames") {
		opts.MinFrames = f.minFrames
	}
	if len(f.extensions) > 0 {
		opts.Extensions = frameseq.NewExtensionSet(f.extensions...)
	}
	opts.ExcludeDirs = append(append([]string(nil), opts.ExcludeDirs...), f.excludes...)
	return opts
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "scan [directory...]",
		Short: "Find frame sequences and record them in the index",
		Long: `Scan walks each directory (the current directory by default), groups numbered
frames into contiguous sequences, and prints them in bracket notation such as
shot_[0010-0019].dpx. Results are saved to the index unless --no-save is given
or the index is disabled in the configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.minFrames != 0 && flags.minFrames < frameseq.DefaultMinFrames {
				return fmt.Errorf("--min-frames must be at least %d", frameseq.DefaultMinFrames)
			}
			res, run, err := runScan(cmd, ctx, &flags, args)
			if err != nil {
				return err
			}
			if flags.jsonOutput {
				return writeJSON(cmd, scanJSON(res, run))
			}
			printScanResult(cmd.OutOrStdout(), res, run, flags)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.noSave, "no-save", false, "Do not record this scan in the index")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Print results as JSON")
	cmd.Flags().BoolVar(&flags.showFiles, "files", false, "Also list files that are not part of a sequence")
	cmd.Flags().BoolVar(&flags.showGaps, "gaps", false, "Report missing frame ranges")
	cmd.Flags().BoolVar(&flags.showStats, "stats", false, "Print per-directory statistics")
	return cmd
}

func runScan(cmd *cobra.Command, ctx *commandContext, flags *scanFlags, args []string) (*scanner.Result, *index.Run, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}
	opts := flags.options(cmd, cfg)
	opts.Logger = logger

	res, err := scanner.Scan(commandCtx(cmd), roots, opts)
	if err != nil {
		return nil, nil, err
	}
	if flags.noSave || !cfg.Index.Enabled {
		return res, nil, nil
	}

	var run *index.Run
	err = ctx.withWriteStore(func(cfg *config.Config, store *index.Store) error {
		saved, err := store.SaveRun(commandCtx(cmd), res)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		run = saved
		pruned, err := store.PruneRuns(commandCtx(cmd), cfg.Index.RetainRuns)
		if err != nil {
			return fmt.Errorf("prune runs: %w", err)
		}
		logger.Debug("scan run saved",
			logging.String(logging.FieldRunID, saved.ID),
			logging.Int("pruned", pruned),
		)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return res, run, nil
}

func commandCtx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

type scanOutput struct {
	RunID       string                    `json:"run_id,omitempty"`
	Roots       []string                  `json:"roots"`
	Sequences   []sequenceJSON            `json:"sequences"`
	PlainFiles  []plainFileJSON           `json:"plain_files"`
	Gaps        []gapJSON                 `json:"gaps,omitempty"`
	Diagnostics []frameseq.Diagnostic     `json:"diagnostics,omitempty"`
	Failures    []failureJSON             `json:"failures,omitempty"`
	Totals      frameseq.Stats            `json:"totals"`
	Directories map[string]frameseq.Stats `json:"directories"`
}

type sequenceJSON struct {
	Directory string `json:"directory"`
	Notation  string `json:"notation"`
	Pattern   string `json:"pattern"`
	First     int    `json:"first"`
	Last      int    `json:"last"`
	Frames    int    `json:"frames"`
	SizeBytes int64  `json:"size_bytes"`
}

type plainFileJSON struct {
	Directory string `json:"directory"`
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
}

type gapJSON struct {
	Directory string `json:"directory"`
	Pattern   string `json:"pattern"`
	From      int    `json:"from"`
	To        int    `json:"to"`
}

type failureJSON struct {
	Directory string `json:"directory"`
	Error     string `json:"error"`
}

func scanJSON(res *scanner.Result, run *index.Run) scanOutput {
	out := scanOutput{
		Roots:       res.Roots,
		Sequences:   []sequenceJSON{},
		PlainFiles:  []plainFileJSON{},
		Totals:      res.Totals(),
		Directories: make(map[string]frameseq.Stats, len(res.Directories)),
	}
	if run != nil {
		out.RunID = run.ID
	}
	for _, listing := range res.Directories {
		out.Directories[listing.Dir] = listing.Stats
		for _, seq := range listing.Sequences {
			out.Sequences = append(out.Sequences, sequenceJSON{
				Directory: seq.Dir,
				Notation:  seq.Notation,
				Pattern:   seq.Pattern,
				First:     seq.FirstFrame,
				Last:      seq.LastFrame,
				Frames:    seq.Frames,
				SizeBytes: seq.TotalSize,
			})
		}
		for _, file := range listing.PlainFiles {
			out.PlainFiles = append(out.PlainFiles, plainFileJSON{Directory: file.Dir, Name: file.Name, SizeBytes: file.Size})
		}
		for _, gap := range listing.Gaps {
			out.Gaps = append(out.Gaps, gapJSON{Directory: gap.Dir, Pattern: gap.Key.Pattern(), From: gap.From, To: gap.To})
		}
		out.Diagnostics = append(out.Diagnostics, listing.Diagnostics...)
	}
	for _, failure := range res.Failures {
		out.Failures = append(out.Failures, failureJSON{Directory: failure.Dir, Error: failure.Err.Error()})
	}
	return out
}

func printScanResult(w io.Writer, res *scanner.Result, run *index.Run, flags scanFlags) {
	colorize := shouldColorize(w)

	var rows [][]string
	for _, seq := range res.Sequences() {
		rows = append(rows, []string{seq.Dir, seq.Notation, formatCount(seq.Frames), formatBytes(seq.TotalSize)})
	}
	if len(rows) > 0 {
		fmt.Fprintln(w, renderTable(
			[]string{"Directory", "Sequence", "Frames", "Size"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
			colorize,
		))
	} else {
		fmt.Fprintln(w, "No sequences found")
	}

	if flags.showFiles {
		var fileRows [][]string
		for _, listing := range res.Directories {
			for _, file := range listing.PlainFiles {
				fileRows = append(fileRows, []string{file.Dir, file.Name, formatBytes(file.Size)})
			}
		}
		if len(fileRows) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, renderSectionHeader("Files", colorize))
			fmt.Fprintln(w, renderTable([]string{"Directory", "File", "Size"}, fileRows,
				[]columnAlignment{alignLeft, alignLeft, alignRight}, colorize))
		}
	}

	if flags.showGaps {
		var gapRows [][]string
		for _, listing := range res.Directories {
			for _, gap := range listing.Gaps {
				gapRows = append(gapRows, []string{gap.Dir, gap.Key.Pattern(), formatFrameSpan(gap.From, gap.To), formatCount(gap.Frames())})
			}
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, renderSectionHeader("Gaps", colorize))
		if len(gapRows) == 0 {
			fmt.Fprintln(w, "No gaps")
		} else {
			fmt.Fprintln(w, renderTable([]string{"Directory", "Pattern", "Missing", "Frames"}, gapRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}, colorize))
		}
	}

	if flags.showStats {
		var statRows [][]string
		for _, listing := range res.Directories {
			s := listing.Stats
			statRows = append(statRows, []string{
				listing.Dir,
				formatCount(s.Sequences),
				formatCount(s.PlainFiles),
				formatCount(s.Frames),
				formatBytes(s.SequenceBytes + s.PlainBytes),
			})
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, renderSectionHeader("Directories", colorize))
		fmt.Fprintln(w, renderTable([]string{"Directory", "Sequences", "Files", "Frames", "Size"}, statRows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight}, colorize))
	}

	totals := res.Totals()
	var diagnostics int
	for _, listing := range res.Directories {
		diagnostics += len(listing.Diagnostics)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, renderSectionHeader("Summary", colorize))
	fmt.Fprintln(w, renderStatusLine("Directories", statusInfo, formatCount(len(res.Directories)), colorize))
	fmt.Fprintln(w, renderStatusLine("Sequences", statusOK,
		fmt.Sprintf("%s (%s frames, %s)", formatCount(totals.Sequences), formatCount(totals.Frames), formatBytes(totals.SequenceBytes)), colorize))
	fmt.Fprintln(w, renderStatusLine("Files", statusInfo,
		fmt.Sprintf("%s (%s)", formatCount(totals.PlainFiles), formatBytes(totals.PlainBytes)), colorize))
	if totals.Gaps > 0 {
		fmt.Fprintln(w, renderStatusLine("Gaps", statusWarn, formatCount(totals.Gaps), colorize))
	}
	if diagnostics > 0 {
		fmt.Fprintln(w, renderStatusLine("Duplicates", statusWarn, formatCount(diagnostics), colorize))
	}
	if len(res.Failures) > 0 {
		fmt.Fprintln(w, renderStatusLine("Unreadable", statusError, formatCount(len(res.Failures)), colorize))
	}
	if run != nil {
		fmt.Fprintln(w, renderStatusLine("Run", statusInfo, run.ID, colorize))
	}
}

func formatFrameSpan(from, to int) string {
	if from == to {
		return strconv.Itoa(from)
	}
	return strconv.Itoa(from) + "-" + strconv.Itoa(to)
}
