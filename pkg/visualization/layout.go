package visualization

import (
	"github.com/dd0wney/drugnet/pkg/graph"
)

// LayoutEngine maps a snapshot and an optional focus to node positions.
// Compute is pure: the same inputs always yield the same positions.
type LayoutEngine struct {
	config LayoutConfig
}

// NewLayoutEngine creates a layout engine for the given canvas geometry.
func NewLayoutEngine(config LayoutConfig) *LayoutEngine {
	return &LayoutEngine{config: config.withDefaults()}
}

// Config returns the effective configuration, defaults applied.
func (e *LayoutEngine) Config() LayoutConfig {
	return e.config
}

// Compute lays out s. An empty focus, or one that is not a node of s, yields
// the overview circle.
func (e *LayoutEngine) Compute(s *graph.Snapshot, focusID string) *Layout {
	if s == nil {
		s = graph.Empty()
	}
	if focusID != "" && s.Has(focusID) {
		return e.focal(s, focusID)
	}
	return e.overview(s)
}
