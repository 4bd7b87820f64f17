package auth_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christran/create-2block-app-sub000/internal/adapters/handlers/http/chi/auth"
	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestMiddleware(t *testing.T) {
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	newHandler := func(captured *domain.User) http.Handler {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, ok := auth.CurrentUser(r.Context()); ok {
				*captured = user
			}
			w.WriteHeader(http.StatusOK)
		})
		return auth.Middleware(testSecret, discardLogger)(next)
	}

	t.Run("should resolve the user from a valid token", func(t *testing.T) {
		// Arrange
		var captured domain.User
		h := newHandler(&captured)
		w := httptest.NewRecorder()

		token := signToken(t, testSecret, jwt.MapClaims{
			"sub":   "user-1",
			"admin": true,
			"exp":   time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.User{ID: "user-1", Admin: true}, captured)
	})

	t.Run("should reject a missing authorization header", func(t *testing.T) {
		// Arrange
		var captured domain.User
		h := newHandler(&captured)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		// Assert
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
	})

	t.Run("should reject a token signed with another secret", func(t *testing.T) {
		// Arrange
		var captured domain.User
		h := newHandler(&captured)
		w := httptest.NewRecorder()

		token := signToken(t, "wrong-secret", jwt.MapClaims{
			"sub": "user-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		// Arrange
		var captured domain.User
		h := newHandler(&captured)
		w := httptest.NewRecorder()

		token := signToken(t, testSecret, jwt.MapClaims{
			"sub": "user-1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("should reject a token without a subject", func(t *testing.T) {
		// Arrange
		var captured domain.User
		h := newHandler(&captured)
		w := httptest.NewRecorder()

		token := signToken(t, testSecret, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
