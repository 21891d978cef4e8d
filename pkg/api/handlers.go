package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dd0wney/drugnet/pkg/validation"
)

// queryFloat parses an optional float query parameter.
func queryFloat(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", name, raw)
	}
	return v, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, name string, def bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", name, raw)
	}
	return v, nil
}

// thresholdParam reads and validates ?threshold=.
func thresholdParam(r *http.Request, def float64) (float64, error) {
	t, err := queryFloat(r, "threshold", def)
	if err != nil {
		return 0, err
	}
	return t, validation.ValidateThreshold(t)
}

// limitParam reads and validates ?limit=.
func limitParam(r *http.Request, def, max int) (int, error) {
	limit, err := queryInt(r, "limit", def)
	if err != nil {
		return 0, err
	}
	return limit, validation.ValidateLimit(limit, max)
}

func (s *Server) handleDrugs(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, DefaultDrugsLimit, validation.MaxDrugsLimit)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	drugs, err := s.Source().Drugs(r.Context())
	if err != nil {
		s.respondSourceError(w, r, err)
		return
	}
	if len(drugs) > limit {
		drugs = drugs[:limit]
	}

	out := make([]validation.NodePayload, len(drugs))
	for i, d := range drugs {
		out[i] = drugPayload(d)
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleDrug(w http.ResponseWriter, r *http.Request) {
	d, err := s.Source().Drug(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondSourceError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, drugPayload(d))
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	threshold, err := thresholdParam(r, DefaultThreshold)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := limitParam(r, DefaultSimilarLimit, validation.MaxSimilarLimit)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	similar, err := s.Source().Similar(r.Context(), r.PathValue("id"), threshold, limit)
	if err != nil {
		s.respondSourceError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, similarityPayloads(similar))
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	threshold, err := thresholdParam(r, DefaultThreshold)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := limitParam(r, DefaultNetworkLimit, validation.MaxNetworkLimit)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.Source().Network(r.Context(), threshold)
	if err != nil {
		s.respondSourceError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, networkResponse(snap, limit))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	threshold, err := thresholdParam(r, s.Config().Data.Threshold)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.Source().Network(r.Context(), threshold)
	if err != nil {
		s.respondSourceError(w, r, err)
		return
	}

	stats := snap.Stats()
	s.respondJSON(w, http.StatusOK, StatsResponse{
		Stats:              stats,
		ThresholdLabel:     stats.ThresholdLabel(),
		AvgSimilarityLabel: stats.AvgSimilarityLabel(),
	})
}
