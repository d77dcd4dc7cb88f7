package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"seqindex/internal/config"
	"seqindex/internal/export"
	"seqindex/internal/index"
	"seqindex/internal/scanner"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		flags     scanFlags
		format    string
		output    string
		fromIndex bool
		runID     string
	)

	cmd := &cobra.Command{
		Use:   "export [directory...]",
		Short: "Write sequences and files as CSV, JSON, or YAML",
		Long: `Export scans the given directories (the current directory by default) and writes
one row per sequence or plain file. With --from-index or --run the rows come
from a stored run instead and nothing is scanned.

A bare --output file name is placed in the configured export directory; "-" or
no --output writes to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			target, err := resolveExportTarget(cfg, output)
			if err != nil {
				return err
			}
			outFormat, err := resolveExportFormat(format, target)
			if err != nil {
				return err
			}

			var rows []export.Row
			if fromIndex || strings.TrimSpace(runID) != "" {
				if len(args) > 0 {
					return fmt.Errorf("directories cannot be combined with --from-index or --run")
				}
				err = ctx.withStore(func(_ *config.Config, store *index.Store) error {
					run, err := resolveRun(commandCtx(cmd), store, runID)
					if err != nil {
						return err
					}
					seqs, err := store.Sequences(commandCtx(cmd), run.ID, index.Filter{})
					if err != nil {
						return err
					}
					files, err := store.PlainFiles(commandCtx(cmd), run.ID)
					if err != nil {
						return err
					}
					rows = export.RowsFromRecords(seqs, files)
					return nil
				})
			} else {
				rows, err = scanRows(cmd, ctx, &flags, args)
			}
			if err != nil {
				return err
			}

			if target == "" {
				return export.Write(cmd.OutOrStdout(), outFormat, rows)
			}
			if err := export.WriteFile(target, outFormat, rows); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s rows to %s\n", formatCount(len(rows)), target)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: csv, json, or yaml (default: from --output extension, else csv)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (default: stdout)")
	cmd.Flags().BoolVar(&fromIndex, "from-index", false, "Export the latest stored run instead of scanning")
	cmd.Flags().StringVar(&runID, "run", "", "Export this stored run instead of scanning")
	return cmd
}

func scanRows(cmd *cobra.Command, ctx *commandContext, flags *scanFlags, args []string) ([]export.Row, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, err
	}
	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}
	opts := flags.options(cmd, cfg)
	opts.Logger = logger
	res, err := scanner.Scan(commandCtx(cmd), roots, opts)
	if err != nil {
		return nil, err
	}
	return export.RowsFromResult(res), nil
}

func resolveExportTarget(cfg *config.Config, output string) (string, error) {
	output = strings.TrimSpace(output)
	if output == "" || output == "-" {
		return "", nil
	}
	if !strings.ContainsRune(output, filepath.Separator) && cfg.Paths.ExportDir != "" {
		return filepath.Join(cfg.Paths.ExportDir, output), nil
	}
	expanded, err := config.ExpandPath(output)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	return expanded, nil
}

func resolveExportFormat(flag, target string) (export.Format, error) {
	if strings.TrimSpace(flag) != "" {
		return export.ParseFormat(flag)
	}
	if target != "" && filepath.Ext(target) != "" {
		return export.FormatFromPath(target)
	}
	return export.FormatCSV, nil
}
