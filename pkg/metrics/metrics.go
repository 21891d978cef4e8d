package metrics

import (
	"runtime"
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordResponseSize records the size of an HTTP response body
func (r *Registry) RecordResponseSize(method, path string, size float64) {
	r.HTTPResponseSizeBytes.WithLabelValues(method, path).Observe(size)
}

func (r *Registry) IncHTTPRequestsInFlight() { r.HTTPRequestsInFlight.Inc() }
func (r *Registry) DecHTTPRequestsInFlight() { r.HTTPRequestsInFlight.Dec() }

// ObserveLayout records one layout computation
func (r *Registry) ObserveLayout(mode string, duration time.Duration) {
	r.LayoutsTotal.WithLabelValues(mode).Inc()
	r.LayoutDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// SetScene records the size of the scene currently on screen
func (r *Registry) SetScene(nodes, edges int) {
	r.SceneNodes.Set(float64(nodes))
	r.SceneEdges.Set(float64(edges))
}

// RecordFocusChange counts a focus transition. to is "focused" or "overview".
func (r *Registry) RecordFocusChange(to string) {
	r.FocusChangesTotal.WithLabelValues(to).Inc()
}

// SetViewportScale records the current zoom factor
func (r *Registry) SetViewportScale(scale float64) {
	r.ViewportScale.Set(scale)
}

// RecordSnapshotLoad records a snapshot fetch from a data source
func (r *Registry) RecordSnapshotLoad(source, status string, duration time.Duration, nodes, edges int) {
	r.SnapshotLoadsTotal.WithLabelValues(source, status).Inc()
	r.SnapshotLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
	if status == "success" {
		r.SnapshotNodes.Set(float64(nodes))
		r.SnapshotEdges.Set(float64(edges))
	}
}

// SetCatalogSize records how many drugs the loaded catalog holds
func (r *Registry) SetCatalogSize(n int) {
	r.CatalogDrugs.Set(float64(n))
}

// UpdateSystemMetrics refreshes uptime, goroutine and memory gauges
func (r *Registry) UpdateSystemMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.UptimeSeconds.Set(time.Since(r.startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}
