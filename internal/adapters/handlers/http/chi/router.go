package chi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/christran/create-2block-app-sub000/internal/adapters/handlers/http/chi/auth"
	"github.com/christran/create-2block-app-sub000/internal/adapters/handlers/http/chi/v1/files"
	"github.com/christran/create-2block-app-sub000/internal/adapters/handlers/http/chi/v1/upload"
	"github.com/christran/create-2block-app-sub000/internal/config"
)

// NewRouter builds http.Handler with chi
func NewRouter(logger *slog.Logger, cfg config.AuthConfig, limiter *RateLimiter, uploadHandler *upload.HandlerV1, filesHandler *files.HandlerV1, env string) http.Handler {
	r := chi.NewRouter()

	//handle requestID to facilitate debug (X-Request-ID)
	//It fetches from request if exists, or creates it
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger, "/health"))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.RequestSize(5 << 20)) //5mb; file bytes never pass through here

	if env != "prod" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(cfg.JWTSecret, logger))
			r.With(limiter.Middleware).Mount("/upload", uploadHandler.Routes())
			r.Mount("/files", filesHandler.Routes())
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	})

	return r
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
