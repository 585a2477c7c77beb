// Package ratelimit provides per-client token bucket rate limiting for HTTP handlers.
package ratelimit

import (
	"math"
	"net/http"
	"sync"
	"time"
)

// Limiter tracks a token bucket per client key.
type Limiter struct {
	mu           sync.Mutex
	clients      map[string]*bucket
	stopCleanup  chan struct{}
	shutdownOnce sync.Once

	refillPerSec    float64
	burst           float64
	cleanupInterval time.Duration
}

// bucket holds the refill state for one client. Tokens regenerate
// continuously at the configured rate up to the burst ceiling.
type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// Config holds rate limiter configuration.
type Config struct {
	// RequestsPerMinute is the sustained refill rate.
	RequestsPerMinute int
	// Burst caps how many requests a quiet client can fire at once.
	// Defaults to RequestsPerMinute.
	Burst int
	// CleanupInterval controls how often idle client buckets are dropped.
	CleanupInterval time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

// NewLimiter creates a rate limiter and starts its cleanup goroutine.
// Call Stop when the limiter is no longer needed.
func NewLimiter(config Config) *Limiter {
	if config.RequestsPerMinute <= 0 {
		config = DefaultConfig()
	}
	if config.Burst <= 0 {
		config.Burst = config.RequestsPerMinute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}

	rl := &Limiter{
		clients:         make(map[string]*bucket),
		stopCleanup:     make(chan struct{}),
		refillPerSec:    float64(config.RequestsPerMinute) / 60.0,
		burst:           float64(config.Burst),
		cleanupInterval: config.CleanupInterval,
	}
	go rl.startCleanup()
	return rl
}

// Allow consumes one token for the given client and reports whether the
// request may proceed. A new client starts with a full bucket.
func (rl *Limiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, exists := rl.clients[clientIP]
	if !exists {
		b = &bucket{tokens: rl.burst, lastRefill: now}
		rl.clients[clientIP] = b
	}

	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.tokens = math.Min(rl.burst, b.tokens+elapsed*rl.refillPerSec)
		b.lastRefill = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// startCleanup runs periodic cleanup to remove idle client buckets.
func (rl *Limiter) startCleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupIdleClients()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupIdleClients drops buckets that have been idle long enough to be
// fully refilled anyway. Ten minutes of silence tops up any bucket.
func (rl *Limiter) cleanupIdleClients() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, b := range rl.clients {
		if b.lastRefill.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// ActiveClients returns the number of currently tracked clients.
func (rl *Limiter) ActiveClients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Stop shuts down the cleanup goroutine. Safe to call more than once.
func (rl *Limiter) Stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// Middleware limits requests whose method is in methods; other methods
// pass through without consuming a token. An empty methods list limits
// everything. A nil onLimit writes the default 429 response.
func (rl *Limiter) Middleware(extractIP func(*http.Request) string, onLimit http.HandlerFunc, methods ...string) func(http.Handler) http.Handler {
	limited := make(map[string]bool, len(methods))
	for _, m := range methods {
		limited[m] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(limited) > 0 && !limited[r.Method] {
				next.ServeHTTP(w, r)
				return
			}

			if !rl.Allow(extractIP(r)) {
				if onLimit != nil {
					onLimit(w, r)
					return
				}
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
