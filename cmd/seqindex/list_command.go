package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"seqindex/internal/config"
	"seqindex/internal/index"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		runID      string
		dir        string
		ext        string
		contains   string
		limit      int
		showFiles  bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sequences stored in the index",
		Long:  "List shows the sequences of the latest scan run, or of the run given with --run.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *index.Store) error {
				run, err := resolveRun(commandCtx(cmd), store, runID)
				if err != nil {
					return err
				}

				filter := index.Filter{Ext: ext, Contains: contains, Limit: limit}
				if strings.TrimSpace(dir) != "" {
					abs, err := filepath.Abs(dir)
					if err != nil {
						return fmt.Errorf("resolve directory: %w", err)
					}
					filter.DirPrefix = abs
				}
				seqs, err := store.Sequences(commandCtx(cmd), run.ID, filter)
				if err != nil {
					return err
				}
				var files []index.PlainFileRecord
				if showFiles {
					if files, err = store.PlainFiles(commandCtx(cmd), run.ID); err != nil {
						return err
					}
				}

				if jsonOutput {
					return writeJSON(cmd, listJSON(run, seqs, files))
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintf(out, "Run %s (%s)\n", run.ShortID(), formatTimestamp(run.StartedAt))
				if len(seqs) == 0 {
					fmt.Fprintln(out, "No matching sequences")
				} else {
					rows := make([][]string, 0, len(seqs))
					for _, seq := range seqs {
						rows = append(rows, []string{seq.Directory, seq.Notation, formatCount(seq.Frames), formatBytes(seq.SizeBytes)})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"Directory", "Sequence", "Frames", "Size"},
						rows,
						[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
						colorize,
					))
				}
				if showFiles && len(files) > 0 {
					rows := make([][]string, 0, len(files))
					for _, file := range files {
						rows = append(rows, []string{file.Directory, file.Name, formatBytes(file.SizeBytes)})
					}
					fmt.Fprintln(out, renderSectionHeader("Files", colorize))
					fmt.Fprintln(out, renderTable([]string{"Directory", "File", "Size"}, rows,
						[]columnAlignment{alignLeft, alignLeft, alignRight}, colorize))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run ID or unique prefix (default: latest run)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Only sequences in this directory or below it")
	cmd.Flags().StringVar(&ext, "ext", "", "Only sequences with this extension")
	cmd.Flags().StringVar(&contains, "contains", "", "Only sequences whose notation contains this text")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of sequences to list")
	cmd.Flags().BoolVar(&showFiles, "files", false, "Also list files that are not part of a sequence")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	return cmd
}

// resolveRun returns the named run, or the latest one when id is empty.
func resolveRun(ctx context.Context, store *index.Store, id string) (*index.Run, error) {
	if strings.TrimSpace(id) != "" {
		run, err := store.GetRun(ctx, id)
		if err != nil {
			return nil, err
		}
		if run == nil {
			return nil, fmt.Errorf("run %q not found", id)
		}
		return run, nil
	}
	run, err := store.LatestRun(ctx)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("index is empty; run `seqindex scan` first")
	}
	return run, nil
}

type listOutput struct {
	Run        index.Run       `json:"run"`
	Sequences  []sequenceJSON  `json:"sequences"`
	PlainFiles []plainFileJSON `json:"plain_files,omitempty"`
}

func listJSON(run *index.Run, seqs []index.SequenceRecord, files []index.PlainFileRecord) listOutput {
	out := listOutput{Run: *run, Sequences: make([]sequenceJSON, 0, len(seqs))}
	for _, seq := range seqs {
		out.Sequences = append(out.Sequences, sequenceJSON{
			Directory: seq.Directory,
			Notation:  seq.Notation,
			Pattern:   seq.Pattern,
			First:     seq.FirstFrame,
			Last:      seq.LastFrame,
			Frames:    seq.Frames,
			SizeBytes: seq.SizeBytes,
		})
	}
	for _, file := range files {
		out.PlainFiles = append(out.PlainFiles, plainFileJSON{Directory: file.Directory, Name: file.Name, SizeBytes: file.SizeBytes})
	}
	return out
}
