package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/drugnet/pkg/catalog"
)

func drugsCmd(a *app) *cobra.Command {
	var (
		fuzzy  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "drugs [query]",
		Short: "List drugs, optionally filtered by name or mechanism",
		Example: "  drugnet drugs\n" +
			"  drugnet drugs mtor\n" +
			"  drugnet drugs --fuzzy imtnb",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			src, err := openSource(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd.Context(), cfg)
			defer cancel()

			all, err := src.Drugs(ctx)
			if err != nil {
				return err
			}
			cat, err := catalog.New(all)
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			drugs := cat.Search(query)
			if fuzzy && query != "" {
				drugs = cat.Fuzzy(query, 0)
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if drugs == nil {
					drugs = []catalog.Drug{}
				}
				return enc.Encode(drugs)
			}

			title := fmt.Sprintf("%d drugs", len(drugs))
			if query != "" {
				title = fmt.Sprintf("%d drugs matching %q", len(drugs), query)
			}
			banner(w, title)
			rows := make([][]string, len(drugs))
			for i, d := range drugs {
				rows[i] = []string{d.ID, d.Name, d.Mechanism, d.CellLine, fmt.Sprint(d.SamplesAggregated)}
			}
			table(w, []string{"ID", "Drug", "Mechanism", "Cell line", "Samples"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "rank names by fuzzy match instead of substring")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
