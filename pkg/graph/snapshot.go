package graph

import (
	"fmt"
	"slices"
)

// Snapshot is an immutable set of nodes and edges for one similarity
// threshold. A new threshold or a new data load produces a new Snapshot; an
// existing one is never modified.
type Snapshot struct {
	threshold float64
	nodes     []Node
	edges     []Edge
	index     map[string]int
}

// NewSnapshot validates the node list and normalises the edge list.
//
// Node ids must be non-empty and unique. Self-loops and repeated undirected
// pairs are dropped (the first occurrence wins). Edges that reference unknown
// nodes are kept: dropping them is the renderer's job.
func NewSnapshot(threshold float64, nodes []Node, edges []Edge) (*Snapshot, error) {
	s := &Snapshot{
		threshold: threshold,
		nodes:     make([]Node, 0, len(nodes)),
		edges:     make([]Edge, 0, len(edges)),
		index:     make(map[string]int, len(nodes)),
	}

	for _, n := range nodes {
		if n.ID == "" {
			return nil, ErrEmptyNodeID
		}
		if _, dup := s.index[n.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
		}
		s.index[n.ID] = len(s.nodes)
		s.nodes = append(s.nodes, n.clone())
	}

	seen := make(map[EdgeKey]struct{}, len(edges))
	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}
		key := e.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		s.edges = append(s.edges, e)
	}

	return s, nil
}

// Empty returns a snapshot with no nodes.
func Empty() *Snapshot {
	s, _ := NewSnapshot(0, nil, nil)
	return s
}

func (s *Snapshot) Threshold() float64 {
	return s.threshold
}

// Len returns the node count.
func (s *Snapshot) Len() int {
	return len(s.nodes)
}

// Nodes returns a copy of the nodes in stable snapshot order.
func (s *Snapshot) Nodes() []Node {
	out := make([]Node, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = n.clone()
	}
	return out
}

// Edges returns a copy of the normalised edge list.
func (s *Snapshot) Edges() []Edge {
	return slices.Clone(s.edges)
}

// Node looks up a node by id.
func (s *Snapshot) Node(id string) (Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i].clone(), true
}

// Index returns the stable position of id in the node list.
func (s *Snapshot) Index(id string) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

func (s *Snapshot) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// EdgesOf returns the edges touching id, from either side.
func (s *Snapshot) EdgesOf(id string) []Edge {
	var out []Edge
	for _, e := range s.edges {
		if e.Touches(id) {
			out = append(out, e)
		}
	}
	return out
}

// Stats computes the counters shown in the stats bar.
func (s *Snapshot) Stats() Stats {
	st := Stats{
		Nodes:     len(s.nodes),
		Edges:     len(s.edges),
		Threshold: s.threshold,
	}
	if len(s.edges) > 0 {
		var sum float64
		for _, e := range s.edges {
			sum += e.Similarity
		}
		st.AvgSimilarity = sum / float64(len(s.edges))
	}
	return st
}
