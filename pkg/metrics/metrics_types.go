package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Visualization Metrics
	LayoutDuration    *prometheus.HistogramVec
	LayoutsTotal      *prometheus.CounterVec
	SceneNodes        prometheus.Gauge
	SceneEdges        prometheus.Gauge
	FocusChangesTotal *prometheus.CounterVec
	ViewportScale     prometheus.Gauge

	// Data Metrics
	SnapshotLoadsTotal   *prometheus.CounterVec
	SnapshotLoadDuration *prometheus.HistogramVec
	SnapshotNodes        prometheus.Gauge
	SnapshotEdges        prometheus.Gauge
	CatalogDrugs         prometheus.Gauge

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry  *prometheus.Registry
	startTime time.Time
	mu        sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry:  reg,
		startTime: time.Now(),
	}

	r.initHTTPMetrics()
	r.initVisualizationMetrics()
	r.initDataMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
// System gauges are refreshed on every scrape.
func (r *Registry) Handler() http.Handler {
	inner := promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.UpdateSystemMetrics()
		inner.ServeHTTP(w, req)
	})
}
