package health

import (
	"encoding/json"
	"net/http"
)

// HTTPHandler serves the aggregate check. Degraded still answers 200.
func (hc *HealthChecker) HTTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := hc.Check(r.Context())
		status := http.StatusOK
		if response.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		writeResponse(w, status, response)
	}
}

// ReadinessHandler is binary: ready only when every readiness check is
// healthy.
func (hc *HealthChecker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := hc.CheckReadiness(r.Context())
		status := http.StatusOK
		if response.Status != StatusHealthy {
			status = http.StatusServiceUnavailable
		}
		writeResponse(w, status, response)
	}
}

// LivenessHandler answers 200 while the process is serving.
func (hc *HealthChecker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, http.StatusOK, hc.CheckLiveness())
	}
}

func writeResponse(w http.ResponseWriter, status int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}
