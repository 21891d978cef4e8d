package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initDataMetrics() {
	r.SnapshotLoadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "drugnet_snapshot_loads_total",
			Help: "Total number of network snapshot loads",
		},
		[]string{"source", "status"},
	)

	r.SnapshotLoadDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drugnet_snapshot_load_duration_seconds",
			Help:    "Network snapshot load time in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	r.SnapshotNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "drugnet_snapshot_nodes",
			Help: "Nodes in the most recently loaded snapshot",
		},
	)

	r.SnapshotEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "drugnet_snapshot_edges",
			Help: "Edges in the most recently loaded snapshot",
		},
	)

	r.CatalogDrugs = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "drugnet_catalog_drugs",
			Help: "Drugs in the metadata catalog",
		},
	)
}
