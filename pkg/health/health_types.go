// Package health aggregates liveness and readiness checks for the drugnet
// service.
package health

import (
	"context"
	"sync"
	"time"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Check represents a health check for a specific component
type Check struct {
	Name        string         `json:"name"`
	Status      Status         `json:"status"`
	Message     string         `json:"message,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	LastChecked time.Time      `json:"last_checked"`
	Duration    time.Duration  `json:"duration_ns"`
}

// CheckFunc performs one check. It should return promptly once ctx is done.
type CheckFunc func(ctx context.Context) Check

// HealthChecker manages health checks for the application
type HealthChecker struct {
	mu          sync.RWMutex
	checks      map[string]CheckFunc
	readyChecks map[string]CheckFunc
	timeout     time.Duration
	startTime   time.Time
}

// Response represents the overall health response
type Response struct {
	Status    Status           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks,omitempty"`
	Uptime    float64          `json:"uptime_seconds"`
}
