package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/dd0wney/drugnet/pkg/api"
	"github.com/dd0wney/drugnet/pkg/datasource"
	"github.com/dd0wney/drugnet/pkg/graph"
)

type degree struct {
	id, name string
	n        int
}

func statsCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		top    int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show network statistics at the current threshold",
		Args:  cobra.NoArgs,
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
			ds, err := datasource.Load(ctx, src, cfg.Data.Threshold)
			if err != nil {
				return err
			}

			st := ds.Snapshot.Stats()
			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(api.StatsResponse{
					Stats:              st,
					ThresholdLabel:     st.ThresholdLabel(),
					AvgSimilarityLabel: st.AvgSimilarityLabel(),
				})
			}

			banner(w, "network statistics")
			fmt.Fprintf(w, "  Source:          %s\n", info.Sprint(src.Name()))
			fmt.Fprintf(w, "  Drugs:           %s\n", info.Sprint(st.Nodes))
			fmt.Fprintf(w, "  Connections:     %s\n", info.Sprint(st.Edges))
			fmt.Fprintf(w, "  Threshold:       %s\n", info.Sprint(st.ThresholdLabel()))
			fmt.Fprintf(w, "  Avg similarity:  %s\n", info.Sprint(st.AvgSimilarityLabel()))

			if !st.HasEdges() || top <= 0 {
				return nil
			}
			fmt.Fprintln(w)
			subtle.Fprintln(w, "  Most connected")
			var rows [][]string
			for _, d := range mostConnected(ds.Snapshot, top) {
				rows = append(rows, []string{d.name, d.id, fmt.Sprint(d.n)})
			}
			table(w, []string{"Drug", "ID", "Links"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	cmd.Flags().IntVar(&top, "top", 5, "list the N most connected drugs")
	return cmd
}

// mostConnected ranks drugs by edge count, ties by id. Isolated drugs are
// left out.
func mostConnected(s *graph.Snapshot, n int) []degree {
	var out []degree
	for _, node := range s.Nodes() {
		if d := len(s.EdgesOf(node.ID)); d > 0 {
			out = append(out, degree{id: node.ID, name: node.Label(), n: d})
		}
	}
	slices.SortFunc(out, func(a, b degree) int {
		if c := cmp.Compare(b.n, a.n); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
