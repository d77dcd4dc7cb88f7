package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"seqindex/internal/config"
	"seqindex/internal/index"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List and maintain stored scan runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *index.Store) error {
				runs, err := store.ListRuns(commandCtx(cmd), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					if runs == nil {
						runs = []index.Run{}
					}
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No scan runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.ShortID(),
						formatTimestamp(run.StartedAt),
						formatAge(run.StartedAt),
						formatCount(run.Directories),
						formatCount(run.Sequences),
						formatCount(run.PlainFiles),
						formatCount(run.Frames),
						formatBytes(run.TotalBytes),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Run", "Started", "Age", "Dirs", "Sequences", "Files", "Frames", "Size"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
					shouldColorize(out),
				))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of runs to list")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print runs as JSON")

	cmd.AddCommand(newRunsShowCommand(ctx))
	cmd.AddCommand(newRunsPruneCommand(ctx))
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show a run summary and its diagnostics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			if len(args) == 1 {
				id = args[0]
			}
			return ctx.withStore(func(_ *config.Config, store *index.Store) error {
				run, err := resolveRun(commandCtx(cmd), store, id)
				if err != nil {
					return err
				}
				diags, err := store.Diagnostics(commandCtx(cmd), run.ID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintln(out, renderStatusLine("Run", statusInfo, run.ID, colorize))
				for _, root := range run.Roots {
					fmt.Fprintln(out, renderStatusLine("Root", statusInfo, root, colorize))
				}
				fmt.Fprintln(out, renderStatusLine("Started", statusInfo, formatTimestamp(run.StartedAt), colorize))
				fmt.Fprintln(out, renderStatusLine("Duration", statusInfo, run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String(), colorize))
				fmt.Fprintln(out, renderStatusLine("Directories", statusInfo, formatCount(run.Directories), colorize))
				fmt.Fprintln(out, renderStatusLine("Sequences", statusOK, formatCount(run.Sequences), colorize))
				fmt.Fprintln(out, renderStatusLine("Files", statusInfo, formatCount(run.PlainFiles), colorize))
				fmt.Fprintln(out, renderStatusLine("Size", statusInfo, formatBytes(run.TotalBytes), colorize))
				if run.Failures > 0 {
					fmt.Fprintln(out, renderStatusLine("Unreadable", statusError, formatCount(run.Failures), colorize))
				}
				for _, diag := range diags {
					fmt.Fprintln(out, renderStatusLine("Duplicate", statusWarn, fmt.Sprintf("%s: %s", diag.Directory, diag.Message), colorize))
				}
				return nil
			})
		},
	}
}

func newRunsPruneCommand(ctx *commandContext) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWriteStore(func(cfg *config.Config, store *index.Store) error {
				n := cfg.Index.RetainRuns
				if cmd.Flags().Changed("keep") {
					n = keep
				}
				if n <= 0 {
					return fmt.Errorf("--keep must be at least 1")
				}
				removed, err := store.PruneRuns(commandCtx(cmd), n)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s runs\n", formatCount(removed))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 0, "Number of runs to keep (default: index.retain_runs)")
	return cmd
}
