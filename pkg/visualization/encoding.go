package visualization

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dd0wney/drugnet/pkg/graph"
)

// Encoder turns similarity-derived attributes into drawing styles. It only
// decides how things look; where they go is the layout engine's business.
type Encoder struct {
	palette Palette
	low     colorful.Color
	high    colorful.Color
}

// NewEncoder creates an encoder. Unparseable colours fall back to the default
// palette entry.
func NewEncoder(p Palette) *Encoder {
	def := DefaultPalette()
	p.Background = validHex(p.Background, def.Background)
	p.Node = validHex(p.Node, def.Node)
	p.Selected = validHex(p.Selected, def.Selected)
	p.Hover = validHex(p.Hover, def.Hover)
	p.NeighborLow = validHex(p.NeighborLow, def.NeighborLow)
	p.NeighborHigh = validHex(p.NeighborHigh, def.NeighborHigh)
	p.Edge = validHex(p.Edge, def.Edge)
	p.ActiveEdge = validHex(p.ActiveEdge, def.ActiveEdge)
	p.Label = validHex(p.Label, def.Label)

	low, _ := colorful.Hex(p.NeighborLow)
	high, _ := colorful.Hex(p.NeighborHigh)
	return &Encoder{palette: p, low: low, high: high}
}

// Palette returns the effective palette.
func (e *Encoder) Palette() Palette {
	return e.palette
}

// EncodeNode styles node id given the current focus and hover. similarity is
// the node's similarity to the focus and is only meaningful when neighbor is
// true.
func (e *Encoder) EncodeNode(id, focus, hover string, similarity float64, neighbor bool) NodeStyle {
	switch {
	case focus != "" && id == focus:
		return NodeStyle{Radius: FocusRadius, Fill: e.palette.Selected, Opacity: 1, Glow: true}
	case focus != "" && !neighbor:
		return NodeStyle{Fill: e.palette.Node, Hidden: true}
	case hover != "" && id == hover:
		return NodeStyle{Radius: HoverRadius, Fill: e.palette.Hover, Opacity: 1, Glow: true}
	case focus == "":
		return NodeStyle{Radius: OverviewRadius, Fill: e.palette.Node, Opacity: 1}
	}

	s := clamp01(similarity)
	return NodeStyle{
		Radius:  NeighborMinRadius + s*(NeighborMaxRadius-NeighborMinRadius),
		Fill:    e.low.BlendLab(e.high, s).Clamped().Hex(),
		Opacity: 0.7 + 0.3*s,
	}
}

// EncodeEdge styles an edge. Width and opacity grow with similarity; edges
// touching the focus are emphasised and the rest are dimmed while a focus
// exists.
func (e *Encoder) EncodeEdge(edge graph.Edge, focus string) EdgeStyle {
	s := clamp01(edge.Similarity)
	style := EdgeStyle{
		Width:   0.5 + 3*s,
		Stroke:  e.palette.Edge,
		Opacity: 0.25 + 0.5*s,
	}
	if focus == "" {
		return style
	}
	if edge.Touches(focus) {
		style.Width++
		style.Opacity = math.Min(1, style.Opacity+0.25)
		style.Stroke = e.palette.ActiveEdge
		style.Active = true
		return style
	}
	style.Opacity *= 0.3
	return style
}

// FormatSimilarity renders the "N% similar" badge text.
func FormatSimilarity(similarity float64) string {
	return fmt.Sprintf("%.0f%% similar", clamp01(similarity)*100)
}

func validHex(s, fallback string) string {
	if _, err := colorful.Hex(s); err != nil {
		return fallback
	}
	return s
}
