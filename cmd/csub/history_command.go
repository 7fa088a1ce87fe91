package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"csub/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history [batch-id]",
		Short: "Show recent extraction batches, or the jobs of one batch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return errors.New("history is disabled (set history.enabled = true)")
			}
			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			if len(args) == 1 {
				return showBatchJobs(cmd, store, strings.TrimSpace(args[0]), asJSON)
			}

			batches, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				if batches == nil {
					batches = []history.BatchRecord{}
				}
				return writeJSON(cmd, batches)
			}

			out := cmd.OutOrStdout()
			if len(batches) == 0 {
				fmt.Fprintln(out, "No extraction history")
				return nil
			}
			rows := make([][]string, 0, len(batches))
			for _, b := range batches {
				rows = append(rows, []string{
					b.ID,
					formatTimestamp(b.StartedAt),
					filepath.Base(b.SourceFile),
					b.Status,
					fmt.Sprintf("%d/%d", b.Succeeded, b.Total),
					strconv.Itoa(b.Failed),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Batch", "Started", "Source", "Status", "Succeeded", "Failed"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of batches to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func showBatchJobs(cmd *cobra.Command, store *history.Store, batchID string, asJSON bool) error {
	jobs, err := store.Jobs(cmd.Context(), batchID)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("batch %s not found", batchID)
	}
	if asJSON {
		return writeJSON(cmd, jobs)
	}

	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		exit := "-"
		if job.ExitCode != nil {
			exit = strconv.Itoa(*job.ExitCode)
		}
		rows = append(rows, []string{
			strconv.Itoa(job.Position + 1),
			strconv.Itoa(job.TrackIndex),
			job.Label,
			job.Status,
			exit,
			job.OutputPath,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"#", "Track", "Label", "Status", "Exit", "Output"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	))
	return nil
}
