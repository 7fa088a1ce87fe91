package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"csub/internal/language"
	"csub/internal/textutil"
)

type languageView struct {
	Code string `json:"code"`
	Name string `json:"name"`
	ISO1 string `json:"iso639_1,omitempty"`
}

func newLangCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "lang <code>...",
		Short:       "Resolve language codes to display names",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := language.Default()
			views := make([]languageView, 0, len(args))
			for _, code := range args {
				views = append(views, languageView{
					Code: code,
					Name: resolver.Resolve(code),
					ISO1: language.ToISO2(code),
				})
			}
			if asJSON {
				return writeJSON(cmd, views)
			}

			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{v.Code, v.Name, textutil.Ternary(v.ISO1 != "", v.ISO1, "-")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Code", "Name", "ISO 639-1"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
