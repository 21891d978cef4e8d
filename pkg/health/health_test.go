package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dd0wney/drugnet/pkg/graph"
)

func fixed(status Status) CheckFunc {
	return func(ctx context.Context) Check { return Check{Status: status} }
}

func TestCheckStatusAggregation(t *testing.T) {
	tests := []struct {
		name   string
		checks []Status
		want   Status
	}{
		{"none", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker()
			for i, s := range tt.checks {
				hc.RegisterCheck(string(rune('a'+i)), fixed(s))
			}
			got := hc.Check(context.Background())
			if got.Status != tt.want {
				t.Errorf("Status = %v, want %v", got.Status, tt.want)
			}
			if len(got.Checks) != len(tt.checks) {
				t.Errorf("len(Checks) = %d, want %d", len(got.Checks), len(tt.checks))
			}
		})
	}
}

func TestCheckFillsNameAndTiming(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck("source", fixed(StatusHealthy))

	got := hc.Check(context.Background()).Checks["source"]
	if got.Name != "source" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.LastChecked.IsZero() {
		t.Error("LastChecked not set")
	}
}

func TestSourceCheck(t *testing.T) {
	ok := SourceCheck("mock", func(ctx context.Context) error { return nil })(context.Background())
	if ok.Status != StatusHealthy || ok.Details["source"] != "mock" {
		t.Errorf("healthy source = %+v", ok)
	}

	bad := SourceCheck("http", func(ctx context.Context) error { return errors.New("connection refused") })(context.Background())
	if bad.Status != StatusUnhealthy || bad.Message != "connection refused" {
		t.Errorf("failing source = %+v", bad)
	}
}

func TestSnapshotCheck(t *testing.T) {
	tests := []struct {
		name  string
		stats graph.Stats
		err   error
		want  Status
	}{
		{"populated", graph.Stats{Nodes: 15, Edges: 18, Threshold: 0.5}, nil, StatusHealthy},
		{"no edges", graph.Stats{Nodes: 15, Threshold: 0.99}, nil, StatusDegraded},
		{"empty", graph.Stats{}, nil, StatusDegraded},
		{"error", graph.Stats{}, errors.New("timeout"), StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := SnapshotCheck(func(ctx context.Context) (graph.Stats, error) {
				return tt.stats, tt.err
			})(context.Background())
			if check.Status != tt.want {
				t.Errorf("Status = %v, want %v", check.Status, tt.want)
			}
		})
	}
}

func TestMemoryCheck(t *testing.T) {
	if got := memoryCheck(func() (uint64, uint64) { return 10, 100 })(context.Background()); got.Status != StatusHealthy {
		t.Errorf("low usage = %v", got.Status)
	}
	if got := memoryCheck(func() (uint64, uint64) { return 95, 100 })(context.Background()); got.Status != StatusDegraded {
		t.Errorf("high usage = %v", got.Status)
	}
	if got := MemoryCheck()(context.Background()); got.Details["sys_bytes"] == nil {
		t.Error("runtime memory check has no details")
	}
}

func TestHTTPHandlers(t *testing.T) {
	tests := []struct {
		name       string
		handler    func(*HealthChecker) http.HandlerFunc
		check      Status
		wantStatus int
	}{
		{"health healthy", (*HealthChecker).HTTPHandler, StatusHealthy, http.StatusOK},
		{"health degraded", (*HealthChecker).HTTPHandler, StatusDegraded, http.StatusOK},
		{"health unhealthy", (*HealthChecker).HTTPHandler, StatusUnhealthy, http.StatusServiceUnavailable},
		{"ready degraded", (*HealthChecker).ReadinessHandler, StatusDegraded, http.StatusServiceUnavailable},
		{"live", (*HealthChecker).LivenessHandler, StatusUnhealthy, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker()
			hc.RegisterCheck("x", fixed(tt.check))
			hc.RegisterReadinessCheck("x", fixed(tt.check))

			rec := httptest.NewRecorder()
			tt.handler(hc)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			var body Response
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Status == "" {
				t.Error("status missing from body")
			}
		})
	}
}
