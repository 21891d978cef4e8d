package visualization

// Palette holds the hex colours used by the encoder. Empty fields take the
// defaults from DefaultPalette.
type Palette struct {
	Background   string `yaml:"background" toml:"background"`
	Node         string `yaml:"node" toml:"node"`
	Selected     string `yaml:"selected" toml:"selected"`
	Hover        string `yaml:"hover" toml:"hover"`
	NeighborLow  string `yaml:"neighbor_low" toml:"neighbor_low"`
	NeighborHigh string `yaml:"neighbor_high" toml:"neighbor_high"`
	Edge         string `yaml:"edge" toml:"edge"`
	ActiveEdge   string `yaml:"active_edge" toml:"active_edge"`
	Label        string `yaml:"label" toml:"label"`
}

// DefaultPalette is the dark dashboard theme.
func DefaultPalette() Palette {
	return Palette{
		Background:   "#0b1120",
		Node:         "#38bdf8",
		Selected:     "#f472b6",
		Hover:        "#facc15",
		NeighborLow:  "#1e3a8a",
		NeighborHigh: "#93c5fd",
		Edge:         "#64748b",
		ActiveEdge:   "#22d3ee",
		Label:        "#e2e8f0",
	}
}

// Node radii in canvas units. Focus > hover > strongest neighbour.
const (
	FocusRadius       = 24.0
	HoverRadius       = 22.0
	OverviewRadius    = 20.0
	NeighborMinRadius = 12.0
	NeighborMaxRadius = 20.0
)

// NodeStyle is how one node is drawn.
type NodeStyle struct {
	Radius  float64 `json:"radius"`
	Fill    string  `json:"fill"`
	Opacity float64 `json:"opacity"`
	Glow    bool    `json:"glow,omitempty"`   // focus and hovered node
	Hidden  bool    `json:"hidden,omitempty"` // outside the focal neighbourhood
}

// EdgeStyle is how one edge is drawn.
type EdgeStyle struct {
	Width   float64 `json:"width"`
	Stroke  string  `json:"stroke"`
	Opacity float64 `json:"opacity"`
	Active  bool    `json:"active,omitempty"`
}
