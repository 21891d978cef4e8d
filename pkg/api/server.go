// Package api serves the drug similarity network over HTTP: the catalog,
// similarity queries, the network itself and a server-side SVG rendering of
// it.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dd0wney/drugnet/pkg/api/middleware"
	"github.com/dd0wney/drugnet/pkg/config"
	"github.com/dd0wney/drugnet/pkg/datasource"
	"github.com/dd0wney/drugnet/pkg/graph"
	"github.com/dd0wney/drugnet/pkg/health"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/metrics"
)

// Options configures a Server. A nil Config means config.Default().
type Options struct {
	Config    *config.Config
	Logger    logging.Logger
	Metrics   *metrics.Registry
	RateLimit *middleware.RateLimitConfig
	Version   string
}

// Server represents the HTTP API server
type Server struct {
	mu     sync.RWMutex
	source datasource.Source
	cfg    *config.Config

	logger    logging.Logger
	metrics   *metrics.Registry
	health    *health.HealthChecker
	limiter   *middleware.RateLimiter
	version   string
	startTime time.Time
}

// NewServer creates a server backed by src. Call Close to stop background
// work.
func NewServer(src datasource.Source, opts Options) *Server {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRegistry()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	logger := opts.Logger.With(logging.Component("api"))
	s := &Server{
		source:    src,
		cfg:       opts.Config,
		logger:    logger,
		metrics:   opts.Metrics,
		health:    health.NewHealthChecker(),
		limiter:   middleware.NewRateLimiter(opts.RateLimit, logger),
		version:   opts.Version,
		startTime: time.Now(),
	}

	s.health.RegisterCheck("source", health.SourceCheck(src.Name(), func(ctx context.Context) error {
		_, err := s.Source().Drugs(ctx)
		return err
	}))
	s.health.RegisterCheck("network", health.SnapshotCheck(func(ctx context.Context) (graph.Stats, error) {
		snap, err := s.Source().Network(ctx, s.Config().Data.Threshold)
		if err != nil {
			return graph.Stats{}, err
		}
		return snap.Stats(), nil
	}))
	s.health.RegisterCheck("memory", health.MemoryCheck())
	s.health.RegisterReadinessCheck("source", health.SourceCheck(src.Name(), func(ctx context.Context) error {
		_, err := s.Source().Drugs(ctx)
		return err
	}))
	return s
}

// Source returns the current data source.
func (s *Server) Source() datasource.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Config returns the current configuration.
func (s *Server) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Reload swaps the data source and configuration. In-flight requests finish
// against the old ones.
func (s *Server) Reload(src datasource.Source, cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = src
	if cfg != nil {
		s.cfg = cfg
	}
	s.logger.Info("server reloaded", logging.Source(src.Name()))
}

// Close stops the rate limiter.
func (s *Server) Close() {
	s.limiter.Stop()
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/drugs", s.handleDrugs)
	mux.HandleFunc("GET /api/drugs/{id}", s.handleDrug)
	mux.HandleFunc("GET /api/similar/{id}", s.handleSimilar)
	mux.HandleFunc("GET /api/network", s.handleNetwork)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.Handle("GET /api/render.svg", middleware.RateLimit(s.limiter, middleware.RemoteIP, s.handleRateLimited)(http.HandlerFunc(s.handleRender)))
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/ready", s.health.ReadinessHandler())
	mux.HandleFunc("GET /health/live", s.health.LivenessHandler())
	mux.Handle("GET /metrics", s.metrics.Handler())

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = s.Config().Server.CORSOrigins

	// Metrics sits directly on the mux so it sees the matched pattern.
	var h http.Handler = mux
	h = middleware.Metrics(s.metrics, routeLabel)(h)
	h = middleware.Logging(s.logger)(h)
	h = middleware.RequestID()(h)
	h = middleware.CORS(cors)(h)
	h = middleware.PanicRecovery(s.logger)(h)
	return h
}

// routeLabel is the matched mux pattern without its method, so drug ids do
// not become metric labels.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	if _, path, ok := strings.Cut(r.Pattern, " "); ok {
		return path
	}
	return r.Pattern
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("error encoding JSON response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// respondSourceError maps a data source failure to a status code. Upstream
// details are logged, not returned.
func (s *Server) respondSourceError(w http.ResponseWriter, r *http.Request, err error) {
	var upstream *datasource.StatusError
	switch {
	case errors.Is(err, datasource.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "Drug not found")
		return
	case errors.Is(err, context.DeadlineExceeded):
		s.respondError(w, http.StatusGatewayTimeout, "data source timed out")
	case errors.As(err, &upstream):
		s.respondError(w, http.StatusBadGateway, "data source returned an error")
	default:
		s.respondError(w, http.StatusInternalServerError, "failed to query data source")
	}
	s.logger.Error("data source query failed",
		logging.Path(r.URL.Path),
		logging.String("request_id", middleware.GetRequestID(r)),
		logging.Error(err),
	)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after 1 second")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.UpdateSystemMetrics()
	w.Header().Set("X-Drugnet-Version", s.version)
	s.health.HTTPHandler()(w, r)
}
