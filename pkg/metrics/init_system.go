package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Process gauges, refreshed by UpdateSystemMetrics on every scrape.
func (r *Registry) initSystemMetrics() {
	factory := promauto.With(r.registry)
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{Name: "drugnet_" + name, Help: help})
	}

	r.UptimeSeconds = gauge("uptime_seconds", "Seconds since the registry was created")
	r.GoRoutines = gauge("goroutines", "Live goroutines")
	r.MemoryAllocBytes = gauge("memory_alloc_bytes", "Heap bytes in use")
	r.MemorySysBytes = gauge("memory_sys_bytes", "Bytes obtained from the OS")
}
