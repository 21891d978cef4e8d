package datasource

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/dd0wney/drugnet/pkg/catalog"
	"github.com/dd0wney/drugnet/pkg/graph"
)

// Dataset is everything the explorer needs for one threshold.
type Dataset struct {
	Catalog  *catalog.Catalog
	Snapshot *graph.Snapshot
}

// Load fetches the catalog and the network concurrently. The first failure
// cancels the other request.
func Load(ctx context.Context, src Source, threshold float64) (*Dataset, error) {
	var (
		drugs    []catalog.Drug
		snapshot *graph.Snapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		drugs, err = src.Drugs(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snapshot, err = src.Network(gctx, threshold)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Name(), err)
	}

	cat, err := catalog.New(drugs)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	return &Dataset{Catalog: cat, Snapshot: snapshot}, nil
}

// OpenOptions selects and parameterises a Source.
type OpenOptions struct {
	Kind   string
	URL    string
	Path   string
	Client *http.Client
}

// Open builds the Source named by opts.Kind. An empty kind means the
// built-in dataset. Cancelling ctx aborts an embeddings load.
func Open(ctx context.Context, opts OpenOptions) (Source, error) {
	switch opts.Kind {
	case "", KindMock:
		return NewMock(), nil
	case KindHTTP:
		return NewHTTP(opts.URL, opts.Client)
	case KindEmbeddings:
		return LoadEmbeddings(ctx, opts.Path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, opts.Kind)
	}
}
