package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"csub/internal/config"
	"csub/internal/extraction"
	"csub/internal/language"
	"csub/internal/preflight"
	"csub/internal/selection"
	"csub/internal/tracks"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var trackFlags []int
	var extractAll bool
	var format string

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract subtitle tracks from a media file",
		Long: `Extract one or more subtitle tracks into standalone files.

Tracks are chosen with --track (repeatable) or --all. When neither is given and
stdin is a terminal, the available tracks are listed and a selection is read
interactively. Jobs run one at a time in the order the tracks are listed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source := args[0]
			if check := preflight.CheckSourceFile(source); !check.Passed {
				return errors.New(check.Detail)
			}

			sess, closeSession, err := ctx.openSession(true)
			if err != nil {
				return err
			}
			defer closeSession()

			descriptors, err := sess.Probe(cmd.Context(), source)
			if err != nil {
				return err
			}
			items := selection.Items(tracks.Subtitles(descriptors), language.Default())
			if len(items) == 0 {
				return fmt.Errorf("no subtitle tracks found in %s", source)
			}

			chosen, err := chooseItems(cmd, items, trackFlags, extractAll)
			if err != nil {
				return err
			}

			folder := resolveOutputDir(outputDir, cfg, source)
			if check := preflight.CheckOutputDirectory("Output directory", folder); !check.Passed {
				return errors.New(check.Detail)
			}
			if err := os.MkdirAll(folder, 0o755); err != nil {
				return fmt.Errorf("create output directory %q: %w", folder, err)
			}

			if strings.TrimSpace(format) == "" {
				format = cfg.Extraction.Format
			}
			batch, err := extraction.BuildBatch(source, folder, chosen, strings.ToLower(strings.TrimSpace(format)))
			if err != nil {
				return err
			}

			events, err := sess.Extract(cmd.Context(), batch)
			if err != nil {
				return err
			}
			summary := printEvents(cmd.OutOrStdout(), events, source)
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d subtitle track(s) failed", summary.Failed, summary.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Folder for extracted files (default: output_dir, else the source folder)")
	cmd.Flags().IntSliceVarP(&trackFlags, "track", "t", nil, "Stream index to extract (repeatable)")
	cmd.Flags().BoolVar(&extractAll, "all", false, "Extract every subtitle track")
	cmd.Flags().StringVar(&format, "format", "", "Output format: srt, ass, vtt, or auto")
	return cmd
}

func chooseItems(cmd *cobra.Command, items []selection.Item, trackFlags []int, extractAll bool) ([]selection.Item, error) {
	switch {
	case extractAll && len(trackFlags) > 0:
		return nil, errors.New("--all and --track cannot be combined")
	case extractAll:
		return items, nil
	case len(trackFlags) > 0:
		return checkedItems(items, trackFlags)
	case isInteractive(cmd.InOrStdin()):
		indexes, err := promptForTracks(cmd.InOrStdin(), cmd.OutOrStdout(), items)
		if err != nil {
			return nil, err
		}
		return checkedItems(items, indexes)
	default:
		return nil, errors.New("no tracks selected; pass --track N or --all")
	}
}

func checkedItems(items []selection.Item, indexes []int) ([]selection.Item, error) {
	chosen, missing := selection.Checked(items, indexes)
	if len(missing) > 0 {
		parts := make([]string, 0, len(missing))
		for _, idx := range missing {
			parts = append(parts, fmt.Sprintf("#%d", idx))
		}
		return nil, fmt.Errorf("not a subtitle track: %s", strings.Join(parts, ", "))
	}
	if len(chosen) == 0 {
		return nil, errors.New("no tracks selected")
	}
	return chosen, nil
}

func resolveOutputDir(flagValue string, cfg *config.Config, source string) string {
	if dir := strings.TrimSpace(flagValue); dir != "" {
		if expanded, err := config.ExpandPath(dir); err == nil {
			return expanded
		}
		return dir
	}
	if cfg != nil && strings.TrimSpace(cfg.Paths.OutputDir) != "" {
		return cfg.Paths.OutputDir
	}
	if abs, err := filepath.Abs(source); err == nil {
		return filepath.Dir(abs)
	}
	return filepath.Dir(source)
}

func printEvents(out io.Writer, events <-chan extraction.Event, source string) extraction.Summary {
	colorize := shouldColorize(out)
	var summary extraction.Summary
	for event := range events {
		switch event.Kind {
		case extraction.BatchStarted:
			fmt.Fprintf(out, "Extracting %d subtitle track(s) from %s\n", event.Total, source)
		case extraction.JobStarted:
			fmt.Fprintf(out, "[%d/%d] %s -> %s\n", event.Position+1, event.Total, event.Job.Label, event.Job.OutputPath)
		case extraction.JobFinished:
			fmt.Fprintln(out, describeOutcome(event.Outcome, colorize))
		case extraction.BatchFinished:
			summary = event.Summary
		}
	}
	fmt.Fprintf(out, "Extraction complete: %d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	return summary
}

func describeOutcome(outcome extraction.Outcome, colorize bool) string {
	if outcome.Succeeded() {
		return colorizeText(fmt.Sprintf("      ok (%s)", formatDuration(outcome.Duration)), ansiGreen, colorize)
	}
	line := fmt.Sprintf("      FAILED (%s, exit %d)", outcome.Kind, outcome.ExitCode)
	if detail := lastLine(outcome.Stderr); detail != "" {
		line += ": " + detail
	} else if outcome.Err != nil {
		line += ": " + outcome.Err.Error()
	}
	return colorizeText(line, ansiRed, colorize)
}

func lastLine(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
