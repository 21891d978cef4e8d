// Package server runs the drugnet HTTP service with graceful shutdown and
// SIGHUP-triggered reloads.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dd0wney/drugnet/pkg/logging"
)

// ReloadFunc re-reads configuration or data. It runs on SIGHUP.
type ReloadFunc func() error

// Default timeouts.
const (
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

// Options configures a GracefulServer. Zero durations take the defaults.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	Logger          logging.Logger
}

// GracefulServer wraps an HTTP server with graceful shutdown capabilities
type GracefulServer struct {
	server          *http.Server
	shutdownTimeout time.Duration
	logger          logging.Logger

	ready        chan struct{}
	addr         net.Addr
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
	reloadFn     ReloadFunc
	reloadMu     sync.RWMutex
}

// NewGracefulServer creates a new graceful HTTP server
func NewGracefulServer(handler http.Handler, opts Options) *GracefulServer {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &GracefulServer{
		server: &http.Server{
			Addr:           opts.Addr,
			Handler:        handler,
			ReadTimeout:    orDefault(opts.ReadTimeout, DefaultReadTimeout),
			WriteTimeout:   orDefault(opts.WriteTimeout, DefaultWriteTimeout),
			IdleTimeout:    orDefault(opts.IdleTimeout, DefaultIdleTimeout),
			MaxHeaderBytes: 1 << 20,
		},
		shutdownTimeout: orDefault(opts.ShutdownTimeout, DefaultShutdownTimeout),
		logger:          logger.With(logging.Component("server")),
		ready:           make(chan struct{}),
		shutdownCh:      make(chan struct{}),
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// Run listens on the configured address and serves until ctx is cancelled,
// then drains connections for at most the shutdown timeout.
func (gs *GracefulServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", gs.server.Addr)
	if err != nil {
		return err
	}
	gs.addr = ln.Addr()
	close(gs.ready)

	sigCtx, stopSignals := context.WithCancel(ctx)
	defer stopSignals()
	go gs.handleSignals(sigCtx)

	gs.logger.Info("starting HTTP server", logging.String("addr", gs.addr.String()))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- gs.server.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return gs.Shutdown(gs.shutdownTimeout)
	}
}

// Ready is closed once Run has bound its listener.
func (gs *GracefulServer) Ready() <-chan struct{} {
	return gs.ready
}

// Addr returns the bound address. It is nil until Ready is closed.
func (gs *GracefulServer) Addr() net.Addr {
	select {
	case <-gs.ready:
		return gs.addr
	default:
		return nil
	}
}

// Shutdown initiates a graceful shutdown
func (gs *GracefulServer) Shutdown(timeout time.Duration) error {
	var err error
	gs.shutdownOnce.Do(func() {
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		gs.logger.Info("initiating graceful shutdown", logging.Duration("timeout", timeout))
		if shutdownErr := gs.server.Shutdown(ctx); shutdownErr != nil {
			err = shutdownErr
			gs.logger.Error("error during shutdown", logging.Error(shutdownErr))
		} else {
			gs.logger.Info("server shutdown complete")
		}
	})
	return err
}

// handleSignals triggers a reload on SIGHUP until ctx is done. SIGINT and
// SIGTERM belong to the caller's context.
func (gs *GracefulServer) handleSignals(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sigCh:
			gs.logger.Info("received SIGHUP, reloading")
			_ = gs.Reload()
		}
	}
}

// IsShuttingDown returns true if shutdown has been initiated
func (gs *GracefulServer) IsShuttingDown() bool {
	select {
	case <-gs.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownChannel returns a channel that closes when shutdown is initiated
func (gs *GracefulServer) ShutdownChannel() <-chan struct{} {
	return gs.shutdownCh
}

// SetReloadFunc sets the function to call on SIGHUP
func (gs *GracefulServer) SetReloadFunc(fn ReloadFunc) {
	gs.reloadMu.Lock()
	defer gs.reloadMu.Unlock()
	gs.reloadFn = fn
}

// Reload runs the reload function, if any.
func (gs *GracefulServer) Reload() error {
	gs.reloadMu.RLock()
	reloadFn := gs.reloadFn
	gs.reloadMu.RUnlock()

	if reloadFn == nil {
		gs.logger.Warn("reload requested, but no reload function configured")
		return nil
	}

	timer := logging.StartTimer(gs.logger, "reload")
	if err := reloadFn(); err != nil {
		timer.EndError(err)
		return err
	}
	timer.End()
	return nil
}
