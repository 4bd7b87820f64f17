package chi

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/christran/create-2block-app-sub000/internal/config"
	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// RateLimiter is an in-memory sliding-window limiter keyed by client IP.
// RealIP must run earlier in the chain so RemoteAddr reflects the real
// client. A request with no resolvable client IP is rejected outright
// rather than sharing a fallback bucket.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter creates a new RateLimiter
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		hits:   make(map[string][]time.Time),
		limit:  cfg.Requests,
		window: cfg.Window,
		now:    time.Now,
	}
}

// Middleware enforces the request budget and emits X-RateLimit headers.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, err := clientKey(r)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, `{"error":%q}`, err.Error())
			return
		}

		allowed, remaining, reset := l.take(key)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error":"rate limit exceeded"}`)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) take(key string) (allowed bool, remaining int, reset time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	// drop clients whose whole window expired so the map does not grow
	// with every IP ever seen
	for k, hits := range l.hits {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(l.hits, k)
		}
	}

	recent := l.hits[key][:0]
	for _, hit := range l.hits[key] {
		if hit.After(cutoff) {
			recent = append(recent, hit)
		}
	}

	if len(recent) >= l.limit {
		l.hits[key] = recent
		return false, 0, recent[0].Add(l.window)
	}

	recent = append(recent, now)
	l.hits[key] = recent
	return true, l.limit - len(recent), recent[0].Add(l.window)
}

func clientKey(r *http.Request) (string, error) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RealIP rewrites RemoteAddr without a port
		host = r.RemoteAddr
	}
	if net.ParseIP(host) == nil {
		return "", domain.ErrUnidentifiedClient
	}
	return host, nil
}
