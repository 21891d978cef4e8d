package render

import "github.com/dd0wney/drugnet/pkg/visualization"

// MinHitRadius keeps small nodes clickable on coarse displays.
const MinHitRadius = 12.0

// HitTest returns the topmost node whose circle contains p. p is in model
// space, so the result does not depend on the current pan or zoom.
func (s *Scene) HitTest(p visualization.Position) (string, bool) {
	return s.HitTestRadius(p, 0)
}

// HitTestRadius is HitTest with extra slack around every node, in model
// units. The terminal back end uses it to cover a whole character cell.
func (s *Scene) HitTestRadius(p visualization.Position, slack float64) (string, bool) {
	for i := len(s.Nodes) - 1; i >= 0; i-- {
		n := s.Nodes[i]
		r := max(n.Style.Radius, MinHitRadius) + slack
		if visualization.Distance(n.Position, p) <= r {
			return n.ID, true
		}
	}
	return "", false
}
