package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds per-client rate limiting configuration.
type RateLimitConfig struct {
	// RequestsPerSecond is the refill rate per client.
	RequestsPerSecond float64
	// Burst is the maximum burst size per client.
	Burst int
	// Enabled controls whether rate limiting is active.
	Enabled bool
}

// idleTTL is how long an unused client limiter is kept.
const idleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// perClientLimiter manages token buckets keyed by client IP.
type perClientLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	rps       rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func newPerClientLimiter(rps float64, burst int) *perClientLimiter {
	return &perClientLimiter{
		limiters:  make(map[string]*clientLimiter),
		rps:       rate.Limit(rps),
		burst:     burst,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *perClientLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > idleTTL {
		for key, cl := range l.limiters {
			if now.Sub(cl.lastSeen) > idleTTL {
				delete(l.limiters, key)
			}
		}
		l.lastSweep = now
	}

	cl, exists := l.limiters[ip]
	if !exists {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[ip] = cl
	}
	cl.lastSeen = now

	return cl.limiter.AllowN(now, 1)
}

func (l *perClientLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// RateLimit creates a middleware that limits request rate per client IP.
// Paths in excludePaths are never limited.
func RateLimit(config *RateLimitConfig, excludePaths ...string) Middleware {
	if !config.Enabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	excluded := make(map[string]bool, len(excludePaths))
	for _, p := range excludePaths {
		excluded[p] = true
	}

	limiter := newPerClientLimiter(config.RequestsPerSecond, config.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if excluded[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.allow(clientIP(r)) {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the host part of RemoteAddr. Forwarding headers are
// only honored through ProxyHeaders, which rewrites RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
