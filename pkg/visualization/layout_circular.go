package visualization

import (
	"math"

	"github.com/dd0wney/drugnet/pkg/graph"
)

// overview places every node on one circle. A node's angle comes from its
// index in the snapshot, so the arrangement is stable across re-renders and
// threshold changes.
func (e *LayoutEngine) overview(s *graph.Snapshot) *Layout {
	nodes := s.Nodes()
	center := e.config.Center()

	layout := &Layout{
		Mode:      ModeOverview,
		Center:    center,
		Positions: make(map[string]Position, len(nodes)),
	}
	if len(nodes) == 0 {
		return layout
	}

	angleStep := 2 * math.Pi / float64(len(nodes))
	for i, n := range nodes {
		layout.Positions[n.ID] = polar(center, e.config.Radius, float64(i)*angleStep)
	}

	return layout
}
