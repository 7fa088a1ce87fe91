package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"csub/internal/language"
	"csub/internal/selection"
	"csub/internal/tracks"
)

type trackView struct {
	Index        int             `json:"index"`
	Kind         string          `json:"kind"`
	LanguageCode string          `json:"language_code"`
	Language     string          `json:"language"`
	Title        *string         `json:"title"`
	Codec        string          `json:"codec"`
	Label        selection.Label `json:"label"`
}

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var showAll bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "probe <file>",
		Short: "List the subtitle tracks of a media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeSession, err := ctx.openSession(false)
			if err != nil {
				return err
			}
			defer closeSession()

			descriptors, err := sess.Probe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !showAll {
				descriptors = tracks.Subtitles(descriptors)
			}
			views := buildTrackViews(descriptors)

			if asJSON {
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintf(out, "No subtitle tracks found in %s\n", args[0])
				return nil
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{
					strconv.Itoa(v.Index),
					v.Kind,
					v.Language,
					v.Codec,
					string(v.Label),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Index", "Kind", "Language", "Codec", "Label"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showAll, "all", false, "Include audio, video, and other non-subtitle streams")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func buildTrackViews(descriptors []tracks.TrackDescriptor) []trackView {
	resolver := language.Default()
	items := selection.Items(descriptors, resolver)
	views := make([]trackView, 0, len(items))
	for _, item := range items {
		d := item.Track
		view := trackView{
			Index:        d.Index,
			Kind:         d.Kind,
			LanguageCode: d.LanguageCode,
			Language:     resolver.Resolve(d.LanguageCode),
			Codec:        d.Codec,
			Label:        item.Label,
		}
		if d.HasTitle {
			title := d.Title
			view.Title = &title
		}
		views = append(views, view)
	}
	return views
}
