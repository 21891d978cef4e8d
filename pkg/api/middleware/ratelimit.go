package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dd0wney/drugnet/pkg/logging"
)

// RateLimitConfig configures rate limiting
type RateLimitConfig struct {
	RequestsPerSecond float64       // token refill rate
	BurstSize         int           // bucket capacity
	CleanupInterval   time.Duration // how often idle buckets are swept
	ClientExpiration  time.Duration // idle time before a bucket is dropped
	MaxClients        int           // 0 means unbounded
}

// DefaultRateLimitConfig suits the SVG render endpoint, which lays out and
// serialises the whole network per request.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerSecond: 10,
		BurstSize:         20,
		CleanupInterval:   5 * time.Minute,
		ClientExpiration:  10 * time.Minute,
		MaxClients:        10000,
	}
}

type tokenBucket struct {
	tokens     float64
	lastRefill time.Time
}

// RateLimiter is a per-client token bucket.
type RateLimiter struct {
	config  *RateLimitConfig
	logger  logging.Logger
	now     func() time.Time
	mu      sync.Mutex
	clients map[string]*tokenBucket
	stop    chan struct{}
	once    sync.Once
}

// NewRateLimiter starts a limiter and its cleanup loop. Call Stop to end it.
func NewRateLimiter(config *RateLimitConfig, logger logging.Logger) *RateLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	rl := &RateLimiter{
		config:  config,
		logger:  logger,
		now:     time.Now,
		clients: make(map[string]*tokenBucket),
		stop:    make(chan struct{}),
	}
	if config.CleanupInterval > 0 {
		go rl.cleanupLoop()
	}
	return rl
}

// Allow spends one token for clientID. New clients are rejected once
// MaxClients buckets exist.
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.clients[clientID]
	if !ok {
		if rl.config.MaxClients > 0 && len(rl.clients) >= rl.config.MaxClients {
			rl.logger.Warn("rate limiter full", logging.Int("max_clients", rl.config.MaxClients))
			return false
		}
		b = &tokenBucket{tokens: float64(rl.config.BurstSize), lastRefill: now}
		rl.clients[clientID] = b
	}

	b.tokens += now.Sub(b.lastRefill).Seconds() * rl.config.RequestsPerSecond
	if limit := float64(rl.config.BurstSize); b.tokens > limit {
		b.tokens = limit
	}
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stop:
			return
		}
	}
}

// cleanup drops buckets idle for longer than ClientExpiration.
func (rl *RateLimiter) cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for id, b := range rl.clients {
		if now.Sub(b.lastRefill) > rl.config.ClientExpiration {
			delete(rl.clients, id)
			removed++
		}
	}
	if removed > 0 {
		rl.logger.Debug("rate limiter cleanup", logging.Count(removed))
	}
	return removed
}

// Clients reports how many buckets are tracked.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// ClientIDFunc is a function that extracts a client identifier from a request
type ClientIDFunc func(*http.Request) string

// RemoteIP identifies clients by the host part of RemoteAddr.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit rejects requests over the limit with 429. onLimited, if set,
// writes the response body; otherwise a plain-text one is sent.
func RateLimit(limiter *RateLimiter, clientID ClientIDFunc, onLimited http.HandlerFunc) func(http.Handler) http.Handler {
	if clientID == nil {
		clientID = RemoteIP
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			id := clientID(r)
			if limiter.Allow(id) {
				next.ServeHTTP(w, r)
				return
			}

			limiter.logger.Info("rate limit exceeded", logging.String("client", id), logging.Path(r.URL.Path))
			w.Header().Set("Retry-After", "1")
			w.Header().Set("X-RateLimit-Limit", strconv.FormatFloat(limiter.config.RequestsPerSecond, 'f', -1, 64))
			if onLimited != nil {
				onLimited(w, r)
				return
			}
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
		})
	}
}
