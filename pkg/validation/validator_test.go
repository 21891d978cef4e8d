package validation

import (
	"strings"
	"testing"
)

func TestValidateNode(t *testing.T) {
	tests := []struct {
		name    string
		node    *NodePayload
		wantErr string
	}{
		{"valid", &NodePayload{ID: "drug_001", Drug: "Imatinib", SamplesAggregated: 450}, ""},
		{"missing id", &NodePayload{Drug: "Imatinib"}, "ID: field is required"},
		{"negative samples", &NodePayload{ID: "x", SamplesAggregated: -1}, "SamplesAggregated: must be at least 0"},
		{"nil", nil, "cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNode(tt.node)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateNode() = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateNode() = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNetwork(t *testing.T) {
	valid := &NetworkPayload{
		Nodes: []NodePayload{{ID: "a"}, {ID: "b"}},
		Links: []LinkPayload{{Source: "a", Target: "b", Similarity: 0.8}},
	}
	if err := ValidateNetwork(valid); err != nil {
		t.Fatalf("ValidateNetwork() = %v", err)
	}

	outOfRange := &NetworkPayload{
		Nodes: []NodePayload{{ID: "a"}, {ID: "b"}},
		Edges: []LinkPayload{{Source: "a", Target: "b", Similarity: 1.3}},
	}
	err := ValidateNetwork(outOfRange)
	if err == nil || !strings.Contains(err.Error(), "Similarity: must not exceed 1") {
		t.Errorf("ValidateNetwork() = %v", err)
	}

	missingTarget := &NetworkPayload{Links: []LinkPayload{{Source: "a", Similarity: 0.5}}}
	if err := ValidateNetwork(missingTarget); err == nil || !strings.Contains(err.Error(), "Target") {
		t.Errorf("ValidateNetwork() = %v", err)
	}

	dup := &NetworkPayload{Nodes: []NodePayload{{ID: "a"}, {ID: "a"}}}
	if err := ValidateNetwork(dup); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("ValidateNetwork() = %v", err)
	}

	if err := ValidateNetwork(nil); err == nil {
		t.Error("Expected error for nil payload")
	}
}

func TestNetworkPayload_AllLinks(t *testing.T) {
	links := &NetworkPayload{Links: []LinkPayload{{Source: "a", Target: "b"}}}
	if len(links.AllLinks()) != 1 {
		t.Error("links not returned")
	}
	edges := &NetworkPayload{Edges: []LinkPayload{{Source: "a", Target: "b"}, {Source: "b", Target: "c"}}}
	if len(edges.AllLinks()) != 2 {
		t.Error("edges not returned")
	}
}

func TestValidateSimilarities(t *testing.T) {
	ok := []SimilarityPayload{{Drug: NodePayload{ID: "a"}, Similarity: 0.9}}
	if err := ValidateSimilarities(ok); err != nil {
		t.Errorf("ValidateSimilarities() = %v", err)
	}

	bad := []SimilarityPayload{ok[0], {Drug: NodePayload{}, Similarity: 0.5}}
	err := ValidateSimilarities(bad)
	if err == nil || !strings.HasPrefix(err.Error(), "similar[1]") {
		t.Errorf("ValidateSimilarities() = %v", err)
	}
}

func TestValidateThreshold(t *testing.T) {
	for _, v := range []float64{0, 0.55, 1} {
		if err := ValidateThreshold(v); err != nil {
			t.Errorf("ValidateThreshold(%v) = %v", v, err)
		}
	}
	for _, v := range []float64{-0.1, 1.01} {
		if err := ValidateThreshold(v); err == nil {
			t.Errorf("ValidateThreshold(%v) should fail", v)
		}
	}
}

func TestValidateLimit(t *testing.T) {
	if err := ValidateLimit(20, MaxSimilarLimit); err != nil {
		t.Errorf("ValidateLimit() = %v", err)
	}
	if err := ValidateLimit(0, MaxSimilarLimit); err == nil {
		t.Error("Expected error for zero limit")
	}
	if err := ValidateLimit(MaxNetworkLimit+1, MaxNetworkLimit); err == nil {
		t.Error("Expected error above maximum")
	}
}
