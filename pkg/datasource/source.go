// Package datasource produces drug catalogs and similarity snapshots from a
// static dataset, a remote REST service or a file of embedding vectors.
package datasource

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/dd0wney/drugnet/pkg/catalog"
	"github.com/dd0wney/drugnet/pkg/graph"
)

var (
	ErrNotFound      = errors.New("datasource: drug not found")
	ErrUnknownSource = errors.New("datasource: unknown source")
)

// Source kinds accepted by Open.
const (
	KindMock       = "mock"
	KindHTTP       = "http"
	KindEmbeddings = "embeddings"
)

// Similarity is one entry of a similar-drugs list.
type Similarity struct {
	Drug       catalog.Drug `json:"drug"`
	Similarity float64      `json:"similarity"`
}

// Source is anything that can answer the dashboard's four queries.
type Source interface {
	// Name identifies the source in logs and metrics
	Name() string
	Drugs(ctx context.Context) ([]catalog.Drug, error)
	Drug(ctx context.Context, id string) (catalog.Drug, error)
	// Network returns every drug plus the pairs with similarity >= threshold
	Network(ctx context.Context, threshold float64) (*graph.Snapshot, error)
	// Similar lists drugs with similarity >= threshold to id, most similar
	// first. limit <= 0 means no limit.
	Similar(ctx context.Context, id string, threshold float64, limit int) ([]Similarity, error)
}

// pair is one precomputed similarity.
type pair struct {
	id         string
	similarity float64
}

// row is the similarity list of one drug, in dataset order.
type row struct {
	id      string
	targets []pair
}

// buildNetwork turns a similarity table into a snapshot. Pairs below
// threshold are skipped; the snapshot keeps the first occurrence of each
// undirected pair.
func buildNetwork(drugs []catalog.Drug, rows []row, threshold float64) (*graph.Snapshot, error) {
	nodes := make([]graph.Node, len(drugs))
	for i, d := range drugs {
		nodes[i] = d.Node()
	}

	var edges []graph.Edge
	for _, r := range rows {
		for _, t := range r.targets {
			if t.similarity < threshold {
				continue
			}
			edges = append(edges, graph.Edge{Source: r.id, Target: t.id, Similarity: t.similarity})
		}
	}
	return graph.NewSnapshot(threshold, nodes, edges)
}

// rankSimilar filters targets by threshold, sorts them most similar first
// (ties by id) and applies limit.
func rankSimilar(targets []pair, threshold float64, limit int, lookup func(string) (catalog.Drug, bool)) []Similarity {
	out := make([]Similarity, 0, len(targets))
	for _, t := range targets {
		if t.similarity < threshold {
			continue
		}
		d, ok := lookup(t.id)
		if !ok {
			continue
		}
		out = append(out, Similarity{Drug: d, Similarity: t.similarity})
	}
	slices.SortFunc(out, func(a, b Similarity) int {
		if c := cmp.Compare(b.Similarity, a.Similarity); c != 0 {
			return c
		}
		return cmp.Compare(a.Drug.ID, b.Drug.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
