package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Path labels are mux patterns such as /api/drugs/{id}, never raw URLs, so
// the label sets stay bounded.
func (r *Registry) initHTTPMetrics() {
	factory := promauto.With(r.registry)
	labels := []string{"method", "path", "status"}

	r.HTTPRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "drugnet_http_requests_total",
		Help: "API requests served, by route pattern and status code",
	}, labels)

	// JSON lookups answer in microseconds, renders of a large network can
	// take a second
	r.HTTPRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "drugnet_http_request_duration_seconds",
		Help:    "API request latency by route pattern",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, labels)

	r.HTTPRequestsInFlight = factory.NewGauge(prometheus.GaugeOpts{
		Name: "drugnet_http_requests_in_flight",
		Help: "API requests currently being handled",
	})

	// from a single drug record up to an SVG of a few thousand nodes
	r.HTTPResponseSizeBytes = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "drugnet_http_response_size_bytes",
		Help:    "Response body size by route pattern",
		Buckets: prometheus.ExponentialBuckets(256, 4, 8),
	}, []string{"method", "path"})
}
