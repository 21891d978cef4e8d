package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initVisualizationMetrics() {
	r.LayoutDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drugnet_layout_duration_seconds",
			Help:    "Layout computation time in seconds",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		},
		[]string{"mode"},
	)

	r.LayoutsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "drugnet_layouts_total",
			Help: "Total number of layout computations",
		},
		[]string{"mode"},
	)

	r.SceneNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "drugnet_scene_nodes",
			Help: "Nodes in the current scene",
		},
	)

	r.SceneEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "drugnet_scene_edges",
			Help: "Edges in the current scene",
		},
	)

	r.FocusChangesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "drugnet_focus_changes_total",
			Help: "Total number of focus changes",
		},
		[]string{"to"},
	)

	r.ViewportScale = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "drugnet_viewport_scale",
			Help: "Current viewport zoom factor",
		},
	)
}
