package api

import (
	"net/http"
	"strconv"

	"github.com/dd0wney/drugnet/pkg/explorer"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/pools"
	"github.com/dd0wney/drugnet/pkg/render"
)

// handleRender draws the network as SVG. ?focus= selects a drug, ?hover=
// highlights one, ?zoom= scales about the origin and ?labels=/?badges= turn
// the text decorations off.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	cfg := s.Config()

	threshold, err := thresholdParam(r, cfg.Data.Threshold)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	labels, err := queryBool(r, "labels", true)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	badges, err := queryBool(r, "badges", true)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	zoom, err := queryFloat(r, "zoom", 1)
	if err != nil || zoom <= 0 {
		s.respondError(w, http.StatusBadRequest, "zoom must be a positive number")
		return
	}

	snap, err := s.Source().Network(r.Context(), threshold)
	if err != nil {
		s.respondSourceError(w, r, err)
		return
	}

	e := explorer.New(explorer.Options{
		Layout:   cfg.Canvas.Layout(),
		Viewport: cfg.Viewport,
		Palette:  cfg.Palette,
		Logger:   s.logger,
		Recorder: s.metrics,
	})
	e.SetSnapshot(snap)
	if focus := r.URL.Query().Get("focus"); focus != "" {
		e.RequestFocus(focus)
	}
	e.Hover(r.URL.Query().Get("hover"))
	if zoom != 1 {
		e.Zoom(zoom)
	}

	buf := pools.GetBuffer()
	defer pools.PutBuffer(buf)
	if err := render.SVG(buf, e.Scene(), e.Transform(), render.SVGOptions{
		Title:  "drugnet",
		Labels: labels,
		Badges: badges,
	}); err != nil {
		s.logger.Error("svg render failed", logging.Error(err))
		s.respondError(w, http.StatusInternalServerError, "render failed")
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Drugnet-Mode", e.Mode().String())
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debug("svg write aborted", logging.Error(err))
	}
}
