package datasource

import (
	"context"
	"time"

	"github.com/dd0wney/drugnet/pkg/catalog"
	"github.com/dd0wney/drugnet/pkg/graph"
	"github.com/dd0wney/drugnet/pkg/logging"
)

// LoadRecorder receives load outcomes. *metrics.Registry satisfies it.
type LoadRecorder interface {
	RecordSnapshotLoad(source, status string, duration time.Duration, nodes, edges int)
	SetCatalogSize(n int)
}

// Instrumented wraps a Source with logging and load metrics.
type Instrumented struct {
	Source
	logger   logging.Logger
	recorder LoadRecorder
}

// Instrument wraps src. Either logger or recorder may be nil.
func Instrument(src Source, logger logging.Logger, recorder LoadRecorder) *Instrumented {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Instrumented{
		Source:   src,
		logger:   logger.With(logging.Component("datasource"), logging.Source(src.Name())),
		recorder: recorder,
	}
}

func (s *Instrumented) Drugs(ctx context.Context) ([]catalog.Drug, error) {
	timer := logging.StartTimer(s.logger, "load catalog")
	drugs, err := s.Source.Drugs(ctx)
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	timer.End(logging.Count(len(drugs)))
	if s.recorder != nil {
		s.recorder.SetCatalogSize(len(drugs))
	}
	return drugs, nil
}

func (s *Instrumented) Network(ctx context.Context, threshold float64) (*graph.Snapshot, error) {
	start := time.Now()
	timer := logging.StartTimer(s.logger, "load network", logging.Threshold(threshold))
	snapshot, err := s.Source.Network(ctx, threshold)
	if err != nil {
		timer.EndError(err)
		if s.recorder != nil {
			s.recorder.RecordSnapshotLoad(s.Name(), "error", time.Since(start), 0, 0)
		}
		return nil, err
	}

	stats := snapshot.Stats()
	timer.End(logging.Int("nodes", stats.Nodes), logging.Int("edges", stats.Edges))
	if s.recorder != nil {
		s.recorder.RecordSnapshotLoad(s.Name(), "success", time.Since(start), stats.Nodes, stats.Edges)
	}
	return snapshot, nil
}

func (s *Instrumented) Similar(ctx context.Context, id string, threshold float64, limit int) ([]Similarity, error) {
	out, err := s.Source.Similar(ctx, id, threshold, limit)
	if err != nil {
		s.logger.Warn("similar query failed", logging.NodeID(id), logging.Threshold(threshold), logging.Error(err))
		return nil, err
	}
	s.logger.Debug("similar query", logging.NodeID(id), logging.Threshold(threshold), logging.Count(len(out)))
	return out, nil
}
