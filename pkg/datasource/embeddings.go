package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gonum.org/v1/gonum/blas/gonum"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/drugnet/pkg/catalog"
	"github.com/dd0wney/drugnet/pkg/graph"
	"github.com/dd0wney/drugnet/pkg/parallel"
)

var (
	ErrDimensionMismatch = errors.New("datasource: embedding dimensions differ")
	ErrZeroVector        = errors.New("datasource: embedding has zero norm")
)

var blasEngine = gonum.Implementation{}

// EmbeddedDrug is a drug plus its response-signature vector.
type EmbeddedDrug struct {
	catalog.Drug `yaml:",inline"`
	Embedding    []float64 `json:"embedding" yaml:"embedding"`
}

// embeddingFile is the on-disk layout: {"drugs": [...]}.
type embeddingFile struct {
	Drugs []EmbeddedDrug `json:"drugs" yaml:"drugs"`
}

// Embeddings derives similarities as the cosine of drug embedding vectors.
// Negative cosines are reported as 0.
type Embeddings struct {
	drugs []catalog.Drug
	index map[string]int
	rows  []row
}

// LoadEmbeddings reads a JSON or YAML embedding file.
func LoadEmbeddings(ctx context.Context, path string) (*Embeddings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("datasource: read embeddings: %w", err)
	}

	var file embeddingFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	default:
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("datasource: parse embeddings %s: %w", path, err)
	}
	return NewEmbeddings(ctx, file.Drugs)
}

// NewEmbeddings precomputes all pairwise similarities. The fill stops early
// when ctx is cancelled.
func NewEmbeddings(ctx context.Context, drugs []EmbeddedDrug) (*Embeddings, error) {
	e := &Embeddings{
		drugs: make([]catalog.Drug, len(drugs)),
		index: make(map[string]int, len(drugs)),
		rows:  make([]row, len(drugs)),
	}

	vectors := make([][]float64, len(drugs))
	for i, d := range drugs {
		if d.ID == "" {
			return nil, fmt.Errorf("datasource: embeddings[%d]: %w", i, graph.ErrEmptyNodeID)
		}
		if _, dup := e.index[d.ID]; dup {
			return nil, fmt.Errorf("datasource: embeddings: %w: %s", graph.ErrDuplicateNode, d.ID)
		}
		if len(d.Embedding) != len(drugs[0].Embedding) {
			return nil, fmt.Errorf("%w: %s has %d, want %d", ErrDimensionMismatch, d.ID, len(d.Embedding), len(drugs[0].Embedding))
		}
		v, err := normalize(d.Embedding)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, d.ID)
		}
		e.index[d.ID] = i
		e.drugs[i] = d.Drug
		vectors[i] = v
	}

	// rows are independent, so each worker fills its own slots
	err := parallel.ForEach(ctx, len(vectors), runtime.GOMAXPROCS(0), func(i int) {
		r := row{id: e.drugs[i].ID, targets: make([]pair, 0, len(vectors)-1)}
		for j := range vectors {
			if i == j {
				continue
			}
			r.targets = append(r.targets, pair{id: e.drugs[j].ID, similarity: cosine(vectors[i], vectors[j])})
		}
		e.rows[i] = r
	})
	if err != nil {
		return nil, fmt.Errorf("datasource: similarity matrix: %w", err)
	}
	return e, nil
}

// normalize returns a unit-length copy of v.
func normalize(v []float64) ([]float64, error) {
	n := len(v)
	if n == 0 {
		return nil, ErrZeroVector
	}
	norm := blasEngine.Dnrm2(n, v, 1)
	if norm == 0 {
		return nil, ErrZeroVector
	}
	out := append([]float64(nil), v...)
	blasEngine.Dscal(n, 1/norm, out, 1)
	return out, nil
}

// cosine of two unit vectors, clamped to [0, 1].
func cosine(a, b []float64) float64 {
	dot := blasEngine.Ddot(len(a), a, 1, b, 1)
	switch {
	case dot < 0:
		return 0
	case dot > 1:
		return 1
	default:
		return dot
	}
}

func (e *Embeddings) Name() string { return KindEmbeddings }

func (e *Embeddings) Drugs(ctx context.Context) ([]catalog.Drug, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]catalog.Drug(nil), e.drugs...), nil
}

func (e *Embeddings) Drug(ctx context.Context, id string) (catalog.Drug, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Drug{}, err
	}
	d, ok := e.lookup(id)
	if !ok {
		return catalog.Drug{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return d, nil
}

func (e *Embeddings) Network(ctx context.Context, threshold float64) (*graph.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return buildNetwork(e.drugs, e.rows, threshold)
}

func (e *Embeddings) Similar(ctx context.Context, id string, threshold float64, limit int) ([]Similarity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i, ok := e.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rankSimilar(e.rows[i].targets, threshold, limit, e.lookup), nil
}

func (e *Embeddings) lookup(id string) (catalog.Drug, bool) {
	i, ok := e.index[id]
	if !ok {
		return catalog.Drug{}, false
	}
	return e.drugs[i], true
}
