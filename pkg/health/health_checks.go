package health

import (
	"context"
	"runtime"

	"github.com/dd0wney/drugnet/pkg/graph"
)

// SourceCheck reports whether the drug data source answers. ping is
// typically a catalog fetch.
func SourceCheck(name string, ping func(ctx context.Context) error) CheckFunc {
	return func(ctx context.Context) Check {
		check := Check{Details: map[string]any{"source": name}}
		if err := ping(ctx); err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
			return check
		}
		check.Status = StatusHealthy
		check.Message = "reachable"
		return check
	}
}

// SnapshotCheck reports the size of the network the service would render.
// An edgeless network is degraded: every drug would render isolated.
func SnapshotCheck(load func(ctx context.Context) (graph.Stats, error)) CheckFunc {
	return func(ctx context.Context) Check {
		stats, err := load(ctx)
		if err != nil {
			return Check{Status: StatusUnhealthy, Message: err.Error()}
		}

		check := Check{
			Status: StatusHealthy,
			Details: map[string]any{
				"nodes":     stats.Nodes,
				"edges":     stats.Edges,
				"threshold": stats.Threshold,
			},
		}
		switch {
		case stats.Nodes == 0:
			check.Status = StatusDegraded
			check.Message = "no drugs loaded"
		case !stats.HasEdges():
			check.Status = StatusDegraded
			check.Message = "no similarities at threshold"
		}
		return check
	}
}

// MemoryCheck flags heavy heap use relative to memory obtained from the OS.
func MemoryCheck() CheckFunc {
	return memoryCheck(func() (uint64, uint64) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		return m.Alloc, m.Sys
	})
}

func memoryCheck(usage func() (alloc, sys uint64)) CheckFunc {
	return func(ctx context.Context) Check {
		alloc, sys := usage()
		check := Check{
			Status:  StatusHealthy,
			Details: map[string]any{"alloc_bytes": alloc, "sys_bytes": sys},
		}
		if sys > 0 && float64(alloc)/float64(sys) > 0.9 {
			check.Status = StatusDegraded
			check.Message = "high memory usage"
		}
		return check
	}
}
