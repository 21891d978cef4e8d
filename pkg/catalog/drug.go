// Package catalog keeps drug metadata and answers the dashboard's search box.
package catalog

import (
	"net/url"
	"strconv"

	"github.com/dd0wney/drugnet/pkg/graph"
)

// Drug is the metadata record for one compound.
type Drug struct {
	ID                string `json:"id" yaml:"id" validate:"required"`
	Name              string `json:"drug" yaml:"drug" validate:"required"`
	CellLine          string `json:"cell_line" yaml:"cell_line"`
	Mechanism         string `json:"mechanism,omitempty" yaml:"mechanism,omitempty"`
	SamplesAggregated int    `json:"samples_aggregated" yaml:"samples_aggregated" validate:"gte=0"`
}

const pubChemCompoundURL = "https://pubchem.ncbi.nlm.nih.gov/compound/"

// PubChemURL links to the compound page for the drug's name, or "" when the
// drug has no name.
func (d Drug) PubChemURL() string {
	if d.Name == "" {
		return ""
	}
	return pubChemCompoundURL + url.PathEscape(d.Name)
}

// Metadata keys copied onto graph nodes.
const (
	MetaCellLine  = "cell_line"
	MetaMechanism = "mechanism"
	MetaSamples   = "samples_aggregated"
)

// Node converts the drug into a graph node.
func (d Drug) Node() graph.Node {
	meta := map[string]string{
		MetaSamples: strconv.Itoa(d.SamplesAggregated),
	}
	if d.CellLine != "" {
		meta[MetaCellLine] = d.CellLine
	}
	if d.Mechanism != "" {
		meta[MetaMechanism] = d.Mechanism
	}
	return graph.Node{ID: d.ID, Name: d.Name, Metadata: meta}
}

// FromNode recovers a Drug from a node built by Drug.Node or decoded from the
// network endpoint.
func FromNode(n graph.Node) Drug {
	d := Drug{
		ID:        n.ID,
		Name:      n.Name,
		CellLine:  n.Metadata[MetaCellLine],
		Mechanism: n.Metadata[MetaMechanism],
	}
	if v, err := strconv.Atoi(n.Metadata[MetaSamples]); err == nil {
		d.SamplesAggregated = v
	}
	return d
}
