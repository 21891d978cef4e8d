// Package render turns a layout and its encoding into drawable scenes and
// draws them as SVG or as a character grid for the terminal dashboard.
package render

import (
	"github.com/dd0wney/drugnet/pkg/graph"
	"github.com/dd0wney/drugnet/pkg/visualization"
)

// NodeView is one drawable node.
type NodeView struct {
	ID       string                  `json:"id"`
	Label    string                  `json:"label"`
	Position visualization.Position  `json:"position"`
	Style    visualization.NodeStyle `json:"style"`

	// Similarity to the focus; only set for neighbours in focal mode
	Similarity    float64 `json:"similarity,omitempty"`
	HasSimilarity bool    `json:"has_similarity,omitempty"`
}

// EdgeView is one drawable edge with resolved endpoints.
type EdgeView struct {
	Edge  graph.Edge              `json:"edge"`
	From  visualization.Position  `json:"from"`
	To    visualization.Position  `json:"to"`
	Style visualization.EdgeStyle `json:"style"`
}

// Scene is everything needed to draw one frame, in model space. Edges are
// drawn first and nodes on top, in slice order.
type Scene struct {
	Width   float64               `json:"width"`
	Height  float64               `json:"height"`
	Mode    visualization.Mode    `json:"mode"`
	Focus   string                `json:"focus,omitempty"`
	Hover   string                `json:"hover,omitempty"`
	Palette visualization.Palette `json:"-"`
	Nodes   []NodeView            `json:"nodes"`
	Edges   []EdgeView            `json:"edges"`
}

// Node returns the view for id.
func (s *Scene) Node(id string) (NodeView, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeView{}, false
}

// BuildScene combines a snapshot with its layout and encoding. The effective
// focus is the layout's, so an unknown focus already fell back to overview.
// Edges whose endpoints are not both placed are dropped.
func BuildScene(s *graph.Snapshot, layout *visualization.Layout, hover string, enc *visualization.Encoder) *Scene {
	if s == nil {
		s = graph.Empty()
	}
	scene := &Scene{
		Width:   layout.Center.X * 2,
		Height:  layout.Center.Y * 2,
		Mode:    layout.Mode,
		Focus:   layout.Focus,
		Palette: enc.Palette(),
	}
	if layout.Visible(hover) {
		scene.Hover = hover
	}

	for _, e := range s.Edges() {
		from, okFrom := layout.Position(e.Source)
		to, okTo := layout.Position(e.Target)
		if !okFrom || !okTo {
			continue
		}
		scene.Edges = append(scene.Edges, EdgeView{
			Edge:  e,
			From:  from,
			To:    to,
			Style: enc.EncodeEdge(e, layout.Focus),
		})
	}

	for _, n := range s.Nodes() {
		pos, ok := layout.Position(n.ID)
		if !ok {
			continue
		}
		sim, isNeighbor := layout.Similarity(n.ID)
		style := enc.EncodeNode(n.ID, layout.Focus, scene.Hover, sim, isNeighbor)
		if style.Hidden {
			continue
		}
		scene.Nodes = append(scene.Nodes, NodeView{
			ID:            n.ID,
			Label:         n.Label(),
			Position:      pos,
			Style:         style,
			Similarity:    sim,
			HasSimilarity: isNeighbor,
		})
	}

	return scene
}
