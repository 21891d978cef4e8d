package visualization

import (
	"cmp"
	"math"
	"slices"

	"github.com/dd0wney/drugnet/pkg/graph"
)

// focal pins the focus at the canvas center and rings its direct neighbours
// around it. Neighbours are ordered by descending similarity (ties by id) and
// spread evenly from 12 o'clock; their distance shrinks as similarity grows.
// Nodes without an edge to the focus are left out entirely.
func (e *LayoutEngine) focal(s *graph.Snapshot, focusID string) *Layout {
	center := e.config.Center()
	neighbors := collectNeighbors(s, focusID)

	layout := &Layout{
		Mode:       ModeFocal,
		Focus:      focusID,
		Center:     center,
		Positions:  make(map[string]Position, len(neighbors)+1),
		Neighbors:  make([]Neighbor, 0, len(neighbors)),
		similarity: make(map[string]float64, len(neighbors)),
	}
	layout.Positions[focusID] = center

	k := float64(len(neighbors))
	span := e.config.MaxRadius - e.config.MinRadius
	for i, n := range neighbors {
		n.Angle = 2*math.Pi*float64(i)/k - math.Pi/2
		n.Distance = e.config.MinRadius + (1-clamp01(n.Similarity))*span

		layout.Positions[n.ID] = polar(center, n.Distance, n.Angle)
		layout.Neighbors = append(layout.Neighbors, n)
		layout.similarity[n.ID] = n.Similarity
	}

	return layout
}

// collectNeighbors gathers the nodes sharing an edge with focusID, from either
// endpoint. A pair listed more than once keeps its highest similarity. Ids
// missing from the snapshot cannot be placed and are skipped.
func collectNeighbors(s *graph.Snapshot, focusID string) []Neighbor {
	best := make(map[string]float64)
	for _, e := range s.EdgesOf(focusID) {
		other, _ := e.Other(focusID)
		if other == focusID || !s.Has(other) {
			continue
		}
		if prev, seen := best[other]; !seen || e.Similarity > prev {
			best[other] = e.Similarity
		}
	}

	out := make([]Neighbor, 0, len(best))
	for id, sim := range best {
		out = append(out, Neighbor{ID: id, Similarity: sim})
	}
	slices.SortFunc(out, func(a, b Neighbor) int {
		if c := cmp.Compare(b.Similarity, a.Similarity); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
