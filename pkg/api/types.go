package api

import (
	"github.com/dd0wney/drugnet/pkg/catalog"
	"github.com/dd0wney/drugnet/pkg/datasource"
	"github.com/dd0wney/drugnet/pkg/graph"
	"github.com/dd0wney/drugnet/pkg/validation"
)

// Query defaults and bounds, matching the original service.
const (
	DefaultDrugsLimit   = 100
	DefaultSimilarLimit = 20
	DefaultNetworkLimit = 50
	DefaultThreshold    = 0.7
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// NetworkResponse is the /api/network body. Links is always present.
type NetworkResponse struct {
	Nodes []validation.NodePayload `json:"nodes"`
	Links []validation.LinkPayload `json:"links"`
}

// StatsResponse is the /api/stats body.
type StatsResponse struct {
	graph.Stats
	ThresholdLabel     string `json:"threshold_label"`
	AvgSimilarityLabel string `json:"avg_similarity_label"`
}

func drugPayload(d catalog.Drug) validation.NodePayload {
	return validation.NodePayload{
		ID:                d.ID,
		Drug:              d.Name,
		CellLine:          d.CellLine,
		Mechanism:         d.Mechanism,
		SamplesAggregated: d.SamplesAggregated,
		PubChemURL:        d.PubChemURL(),
	}
}

func similarityPayloads(in []datasource.Similarity) []validation.SimilarityPayload {
	out := make([]validation.SimilarityPayload, len(in))
	for i, s := range in {
		out[i] = validation.SimilarityPayload{Drug: drugPayload(s.Drug), Similarity: s.Similarity}
	}
	return out
}

// networkResponse keeps the first limit nodes and the links between them.
func networkResponse(s *graph.Snapshot, limit int) NetworkResponse {
	nodes := s.Nodes()
	if limit > 0 && len(nodes) > limit {
		nodes = nodes[:limit]
	}

	kept := make(map[string]struct{}, len(nodes))
	resp := NetworkResponse{
		Nodes: make([]validation.NodePayload, len(nodes)),
		Links: []validation.LinkPayload{},
	}
	for i, n := range nodes {
		kept[n.ID] = struct{}{}
		resp.Nodes[i] = drugPayload(catalog.FromNode(n))
	}
	for _, e := range s.Edges() {
		_, src := kept[e.Source]
		_, dst := kept[e.Target]
		if src && dst {
			resp.Links = append(resp.Links, validation.LinkPayload{Source: e.Source, Target: e.Target, Similarity: e.Similarity})
		}
	}
	return resp
}
