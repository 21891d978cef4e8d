package health

import (
	"context"
	"time"
)

// DefaultTimeout bounds a full round of checks.
const DefaultTimeout = 5 * time.Second

// NewHealthChecker creates a new health checker
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks:      make(map[string]CheckFunc),
		readyChecks: make(map[string]CheckFunc),
		timeout:     DefaultTimeout,
		startTime:   time.Now(),
	}
}

// RegisterCheck registers a check reported by /health
func (hc *HealthChecker) RegisterCheck(name string, check CheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[name] = check
}

// RegisterReadinessCheck registers a check that gates readiness
func (hc *HealthChecker) RegisterReadinessCheck(name string, check CheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.readyChecks[name] = check
}

// Check performs all health checks
func (hc *HealthChecker) Check(ctx context.Context) Response {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.performChecks(ctx, hc.checks)
}

// CheckReadiness performs readiness checks
func (hc *HealthChecker) CheckReadiness(ctx context.Context) Response {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.performChecks(ctx, hc.readyChecks)
}

// CheckLiveness reports healthy while the process can serve requests.
func (hc *HealthChecker) CheckLiveness() Response {
	return Response{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Uptime:    time.Since(hc.startTime).Seconds(),
	}
}

func (hc *HealthChecker) performChecks(ctx context.Context, checks map[string]CheckFunc) Response {
	ctx, cancel := context.WithTimeout(ctx, hc.timeout)
	defer cancel()

	response := Response{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Checks:    make(map[string]Check, len(checks)),
		Uptime:    time.Since(hc.startTime).Seconds(),
	}

	for name, checkFunc := range checks {
		start := time.Now()
		check := checkFunc(ctx)
		check.Name = name
		check.Duration = time.Since(start)
		check.LastChecked = start
		response.Checks[name] = check

		// worst status wins
		switch {
		case check.Status == StatusUnhealthy:
			response.Status = StatusUnhealthy
		case check.Status == StatusDegraded && response.Status != StatusUnhealthy:
			response.Status = StatusDegraded
		}
	}

	return response
}
