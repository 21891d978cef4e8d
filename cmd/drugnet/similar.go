package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/drugnet/pkg/catalog"
	"github.com/dd0wney/drugnet/pkg/visualization"
)

func similarCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "similar <drug>",
		Short:   "List the drugs most similar to one drug",
		Example: "  drugnet similar imatinib\n  drugnet similar drug_004 --threshold 0.9",
		Args:    cobra.ExactArgs(1),
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

			drugs, err := src.Drugs(ctx)
			if err != nil {
				return err
			}
			d, ok := lookupDrug(drugs, args[0])
			if !ok {
				return fmt.Errorf("unknown drug %q", args[0])
			}
			similar, err := src.Similar(ctx, d.ID, cfg.Data.Threshold, limit)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			banner(w, fmt.Sprintf("similar to %s (%s)", info.Sprint(d.Name), d.ID))
			if len(similar) == 0 {
				subtle.Fprintf(w, "  no drugs at or above %.0f%%\n", cfg.Data.Threshold*100)
				return nil
			}
			rows := make([][]string, len(similar))
			for i, s := range similar {
				rows[i] = []string{
					fmt.Sprint(i + 1),
					s.Drug.Name,
					s.Drug.ID,
					visualization.FormatSimilarity(s.Similarity),
					meter(s.Similarity, 20),
				}
			}
			table(w, []string{"#", "Drug", "ID", "Similarity", ""}, rows)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results, 0 for all")
	return cmd
}

// meter draws similarity as a bar of width cells.
func meter(similarity float64, width int) string {
	n := int(similarity*float64(width) + 0.5)
	n = max(0, min(width, n))
	return strings.Repeat("█", n) + strings.Repeat("░", width-n)
}

// lookupDrug resolves an id, a name or a unique name prefix.
func lookupDrug(drugs []catalog.Drug, ref string) (catalog.Drug, bool) {
	cat, err := catalog.New(drugs)
	if err != nil {
		return catalog.Drug{}, false
	}
	return cat.Lookup(ref)
}
