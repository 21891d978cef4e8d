package visualization

import (
	"fmt"
	"slices"
)

// Position is a point in model (canvas) space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Position) Add(q Position) Position {
	return Position{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector from q to p.
func (p Position) Sub(q Position) Position {
	return Position{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
}

// Layout defaults, in canvas units.
const (
	DefaultWidth     = 800.0
	DefaultHeight    = 700.0
	DefaultRadius    = 300.0
	DefaultMinRadius = 80.0
	DefaultMaxRadius = 280.0
)

// LayoutConfig configures the canvas geometry. Zero fields take the defaults.
type LayoutConfig struct {
	Width     float64 // Canvas width
	Height    float64 // Canvas height
	Radius    float64 // Overview circle radius
	MinRadius float64 // Focal distance at similarity 1
	MaxRadius float64 // Focal distance at similarity 0
}

// Center returns the fixed canvas center every layout is arranged around.
func (c LayoutConfig) Center() Position {
	return Position{X: c.Width / 2, Y: c.Height / 2}
}

func (c LayoutConfig) withDefaults() LayoutConfig {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Radius <= 0 {
		c.Radius = DefaultRadius
	}
	if c.MinRadius <= 0 {
		c.MinRadius = DefaultMinRadius
	}
	if c.MaxRadius <= 0 {
		c.MaxRadius = DefaultMaxRadius
	}
	if c.MaxRadius < c.MinRadius {
		c.MinRadius, c.MaxRadius = c.MaxRadius, c.MinRadius
	}
	return c
}

// Mode selects between the overview circle and the focus-centred radial layout.
type Mode int

const (
	ModeOverview Mode = iota
	ModeFocal
)

func (m Mode) String() string {
	switch m {
	case ModeOverview:
		return "overview"
	case ModeFocal:
		return "focal"
	default:
		return "unknown"
	}
}

// Neighbor is a node joined to the focus, in placement order.
type Neighbor struct {
	ID         string  `json:"id"`
	Similarity float64 `json:"similarity"`
	Angle      float64 `json:"angle"`
	Distance   float64 `json:"distance"`
}

// Layout is the output of one layout computation. The set of ids in
// Positions is the renderable node set.
type Layout struct {
	Mode      Mode                `json:"mode"`
	Focus     string              `json:"focus,omitempty"`
	Center    Position            `json:"center"`
	Positions map[string]Position `json:"positions"`
	Neighbors []Neighbor          `json:"neighbors,omitempty"`

	similarity map[string]float64
}

// Position returns where id was placed.
func (l *Layout) Position(id string) (Position, bool) {
	p, ok := l.Positions[id]
	return p, ok
}

// Visible reports whether id is part of the renderable set.
func (l *Layout) Visible(id string) bool {
	_, ok := l.Positions[id]
	return ok
}

// Similarity returns the similarity of id to the focus. Only neighbours in
// focal mode have one.
func (l *Layout) Similarity(id string) (float64, bool) {
	s, ok := l.similarity[id]
	return s, ok
}

// Len returns the number of placed nodes.
func (l *Layout) Len() int {
	return len(l.Positions)
}

// VisibleIDs returns the placed ids in sorted order.
func (l *Layout) VisibleIDs() []string {
	ids := make([]string, 0, len(l.Positions))
	for id := range l.Positions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
