package main

import (
	"fmt"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"csub/internal/config"
	"csub/internal/history"
	"csub/internal/preflight"
	"csub/internal/textutil"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration, tool availability, and extraction state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)

			if asJSON {
				return writeJSON(cmd, map[string]any{
					"config_path": ctx.configPath,
					"checks":      results,
					"extracting":  extractionLocked(cfg),
				})
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			lines := renderSectionHeader("Configuration", colorize)
			lines = append(lines,
				renderStatusLine("Config", statusInfo, ctx.configPath, colorize),
				renderStatusLine("Format", statusInfo, cfg.Extraction.Format, colorize),
				renderStatusLine("Log file", statusInfo, cfg.LogPath(), colorize),
			)

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Checks", colorize)...)
			for _, result := range results {
				kind := textutil.Ternary(result.Passed, statusOK, statusError)
				lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Extraction", colorize)...)
			if extractionLocked(cfg) {
				lines = append(lines, renderStatusLine("Session", statusWarn, "Extraction in progress", colorize))
			} else {
				lines = append(lines, renderStatusLine("Session", statusOK, "Idle", colorize))
			}
			lines = append(lines, historyStatusLine(cmd, cfg, colorize))

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// extractionLocked reports whether another process holds the extraction lock.
func extractionLocked(cfg *config.Config) bool {
	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return false
	}
	if ok {
		_ = lock.Unlock()
		return false
	}
	return true
}

func historyStatusLine(cmd *cobra.Command, cfg *config.Config, colorize bool) string {
	if !cfg.History.Enabled {
		return renderStatusLine("History", statusInfo, "Disabled", colorize)
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return renderStatusLine("History", statusError, err.Error(), colorize)
	}
	defer store.Close()

	batches, err := store.List(cmd.Context(), 1)
	if err != nil {
		return renderStatusLine("History", statusError, err.Error(), colorize)
	}
	if len(batches) == 0 {
		return renderStatusLine("History", statusInfo, "No batches recorded", colorize)
	}
	last := batches[0]
	return renderStatusLine("History", statusOK,
		fmt.Sprintf("Last batch %s: %d succeeded, %d failed (%s)", formatTimestamp(last.StartedAt), last.Succeeded, last.Failed, last.Status),
		colorize)
}
