// Package graph holds the immutable similarity-graph snapshot the
// visualization pipeline consumes.
package graph

import (
	"errors"
	"fmt"
	"maps"
)

var (
	ErrEmptyNodeID   = errors.New("graph: node id is empty")
	ErrDuplicateNode = errors.New("graph: duplicate node id")
)

// Node is a drug in the similarity network. Positions are not stored here;
// they belong to the layout computed for a given focus.
type Node struct {
	ID       string            `json:"id"`
	Name     string            `json:"drug"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// clone returns n with its own copy of Metadata.
func (n Node) clone() Node {
	n.Metadata = maps.Clone(n.Metadata)
	return n
}

// Label returns the display name, falling back to the id.
func (n Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Edge is an undirected similarity link. (A,B) and (B,A) are the same edge.
type Edge struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Similarity float64 `json:"similarity"`
}

// EdgeKey identifies an undirected pair independent of endpoint order.
type EdgeKey struct {
	A, B string
}

// Key returns the order-independent identity of the edge.
func (e Edge) Key() EdgeKey {
	if e.Source <= e.Target {
		return EdgeKey{A: e.Source, B: e.Target}
	}
	return EdgeKey{A: e.Target, B: e.Source}
}

// Touches reports whether id is one of the endpoints.
func (e Edge) Touches(id string) bool {
	return id != "" && (e.Source == id || e.Target == id)
}

// Other returns the endpoint opposite id.
func (e Edge) Other(id string) (string, bool) {
	switch id {
	case e.Source:
		return e.Target, true
	case e.Target:
		return e.Source, true
	default:
		return "", false
	}
}

// Stats summarises a snapshot for the stats bar.
type Stats struct {
	Nodes         int     `json:"nodes"`
	Edges         int     `json:"edges"`
	Threshold     float64 `json:"threshold"`
	AvgSimilarity float64 `json:"avg_similarity"`
}

// HasEdges reports whether AvgSimilarity is meaningful.
func (s Stats) HasEdges() bool {
	return s.Edges > 0
}

// ThresholdLabel renders the threshold as the stats bar shows it, e.g. "≥70%".
func (s Stats) ThresholdLabel() string {
	return fmt.Sprintf("≥%.0f%%", s.Threshold*100)
}

// AvgSimilarityLabel renders the mean similarity as a whole percentage, or
// "N/A" for an edgeless snapshot.
func (s Stats) AvgSimilarityLabel() string {
	if !s.HasEdges() {
		return "N/A"
	}
	return fmt.Sprintf("%.0f%%", s.AvgSimilarity*100)
}
