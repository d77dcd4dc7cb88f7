package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"seqindex/internal/frameseq"
)

func newShowCommand() *cobra.Command {
	var (
		dir        string
		listFiles  bool
		frame      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "show <notation|path>",
		Short: "Decode a sequence notation",
		Long: `Show decodes a bracket notation such as shot_[0010-0019].dpx, optionally with
a directory prefix, and prints its pattern, frame range and file names. Nothing
is read from disk.`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := decodeArg(args[0], dir)
			if err != nil {
				return err
			}
			checkFrame := cmd.Flags().Changed("frame")

			if jsonOutput {
				out := showJSON(seq, listFiles)
				if checkFrame {
					valid := seq.ValidateFrame(frame)
					out.Frame = &frameCheckJSON{Frame: frame, Valid: valid}
					if valid {
						out.Frame.File, _ = seq.FileName(frame)
					}
				}
				return writeJSON(cmd, out)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderStatusLine("Notation", statusInfo, seq.Notation().String(), colorize))
			fmt.Fprintln(out, renderStatusLine("Pattern", statusInfo, seq.Pattern(), colorize))
			fmt.Fprintln(out, renderStatusLine("Directory", statusInfo, valueOrDash(seq.Path()), colorize))
			fmt.Fprintln(out, renderStatusLine("First", statusInfo, seq.FirstFileWithPath(), colorize))
			fmt.Fprintln(out, renderStatusLine("Middle", statusInfo, seq.MiddleFileWithPath(), colorize))
			fmt.Fprintln(out, renderStatusLine("Last", statusInfo, seq.LastFileWithPath(), colorize))
			fmt.Fprintln(out, renderStatusLine("Frames", statusInfo, formatCount(seq.TotalFiles()), colorize))

			if listFiles {
				fmt.Fprintln(out, renderSectionHeader("Files", colorize))
				for path := range seq.FilesWithPath() {
					fmt.Fprintln(out, path)
				}
			}

			if checkFrame {
				if !seq.ValidateFrame(frame) {
					fmt.Fprintln(out, renderStatusLine("Check", statusError,
						fmt.Sprintf("frame %d outside %d-%d", frame, seq.FirstFrame(), seq.LastFrame()), colorize))
					return fmt.Errorf("frame %d is not part of %s", frame, seq.Notation())
				}
				name, err := seq.FileName(frame)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderStatusLine("Check", statusOK, fmt.Sprintf("frame %d is %s", frame, name), colorize))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory the notation lives in (default: taken from the argument)")
	cmd.Flags().BoolVar(&listFiles, "files", false, "List every file name in the sequence")
	cmd.Flags().IntVar(&frame, "frame", 0, "Check whether this frame belongs to the sequence")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	return cmd
}

func decodeArg(arg, dir string) (*frameseq.Sequence, error) {
	if strings.TrimSpace(dir) != "" {
		return frameseq.NewSequence(dir, arg)
	}
	return frameseq.ParseSequencePath(arg)
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

type frameCheckJSON struct {
	Frame int    `json:"frame"`
	Valid bool   `json:"valid"`
	File  string `json:"file,omitempty"`
}

type showOutput struct {
	Notation   string          `json:"notation"`
	Pattern    string          `json:"pattern"`
	Directory  string          `json:"directory"`
	FirstFrame int             `json:"first_frame"`
	LastFrame  int             `json:"last_frame"`
	Middle     int             `json:"middle_frame"`
	TotalFiles int             `json:"total_files"`
	FirstFile  string          `json:"first_file"`
	MiddleFile string          `json:"middle_file"`
	LastFile   string          `json:"last_file"`
	Files      []string        `json:"files,omitempty"`
	Frame      *frameCheckJSON `json:"frame_check,omitempty"`
}

func showJSON(seq *frameseq.Sequence, withFiles bool) showOutput {
	out := showOutput{
		Notation:   seq.Notation().String(),
		Pattern:    seq.Pattern(),
		Directory:  seq.Path(),
		FirstFrame: seq.FirstFrame(),
		LastFrame:  seq.LastFrame(),
		Middle:     seq.MiddleFrame(),
		TotalFiles: seq.TotalFiles(),
		FirstFile:  seq.FirstFileWithPath(),
		MiddleFile: seq.MiddleFileWithPath(),
		LastFile:   seq.LastFileWithPath(),
	}
	if withFiles {
		out.Files = seq.AllFilesWithPath()
	}
	return out
}
