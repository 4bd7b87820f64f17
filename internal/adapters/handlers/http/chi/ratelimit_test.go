package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/christran/create-2block-app-sub000/internal/config"
)

func TestRateLimiter(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("should allow requests under the budget", func(t *testing.T) {
		// Arrange
		limiter := NewRateLimiter(config.RateLimitConfig{Requests: 3, Window: time.Minute})
		h := limiter.Middleware(okHandler)

		// Act / Assert
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			h.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("should reject the request over the budget with headers", func(t *testing.T) {
		// Arrange
		limiter := NewRateLimiter(config.RateLimitConfig{Requests: 2, Window: time.Minute})
		h := limiter.Middleware(okHandler)

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}

		// Act
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		// Assert
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	})

	t.Run("should free budget once the window slides past old hits", func(t *testing.T) {
		// Arrange
		limiter := NewRateLimiter(config.RateLimitConfig{Requests: 1, Window: time.Minute})
		current := time.Now()
		limiter.now = func() time.Time { return current }
		h := limiter.Middleware(okHandler)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		// Act
		current = current.Add(61 * time.Second)
		w = httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("should track clients independently", func(t *testing.T) {
		// Arrange
		limiter := NewRateLimiter(config.RateLimitConfig{Requests: 1, Window: time.Minute})
		h := limiter.Middleware(okHandler)

		first := httptest.NewRequest(http.MethodGet, "/", nil)
		first.RemoteAddr = "203.0.113.10:50000"
		second := httptest.NewRequest(http.MethodGet, "/", nil)
		second.RemoteAddr = "203.0.113.20:50000"

		w := httptest.NewRecorder()
		h.ServeHTTP(w, first)
		assert.Equal(t, http.StatusOK, w.Code)

		// Act
		w = httptest.NewRecorder()
		h.ServeHTTP(w, second)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("should reject a request with no resolvable client ip", func(t *testing.T) {
		// Arrange
		limiter := NewRateLimiter(config.RateLimitConfig{Requests: 5, Window: time.Minute})
		h := limiter.Middleware(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ""

		// Act
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"unidentified client"}`, w.Body.String())
	})

	t.Run("should evict clients whose window fully expired", func(t *testing.T) {
		// Arrange
		limiter := NewRateLimiter(config.RateLimitConfig{Requests: 5, Window: time.Minute})
		current := time.Now()
		limiter.now = func() time.Time { return current }
		h := limiter.Middleware(okHandler)

		first := httptest.NewRequest(http.MethodGet, "/", nil)
		first.RemoteAddr = "203.0.113.10:50000"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, first)
		assert.Equal(t, http.StatusOK, w.Code)

		// Act - another client arrives after the first one's window lapsed
		current = current.Add(61 * time.Second)
		second := httptest.NewRequest(http.MethodGet, "/", nil)
		second.RemoteAddr = "203.0.113.20:50000"
		w = httptest.NewRecorder()
		h.ServeHTTP(w, second)
		assert.Equal(t, http.StatusOK, w.Code)

		// Assert
		limiter.mu.Lock()
		defer limiter.mu.Unlock()
		assert.Len(t, limiter.hits, 1)
		assert.Contains(t, limiter.hits, "203.0.113.20")
	})
}
