package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/christran/create-2block-app-sub000/internal/adapters/handlers/http/chi"
	"github.com/christran/create-2block-app-sub000/internal/adapters/handlers/http/chi/v1/files"
	uploadhandler "github.com/christran/create-2block-app-sub000/internal/adapters/handlers/http/chi/v1/upload"
	"github.com/christran/create-2block-app-sub000/internal/adapters/repository/postgres"
	"github.com/christran/create-2block-app-sub000/internal/adapters/storage/minio"
	"github.com/christran/create-2block-app-sub000/internal/config"
	"github.com/christran/create-2block-app-sub000/internal/core/domain"
	"github.com/christran/create-2block-app-sub000/internal/core/port"
	"github.com/christran/create-2block-app-sub000/internal/core/service/cleanup"
	"github.com/christran/create-2block-app-sub000/internal/core/service/upload"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}(db)
	logger.Info("db connection established")

	//storage
	minioAdapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
	if err != nil {
		logger.Error("failed to init minio", "error", err)
		os.Exit(1)
	}

	//repositories
	sessionRepo := postgres.NewSQLSessionRepository(db)

	uploadService := upload.NewUploadService(sessionRepo, minioAdapter, cfg.Upload, logger)
	cleanupService := cleanup.NewCleanupService(sessionRepo, minioAdapter, cfg.Cleanup, logger)

	//http
	uploadHandler := uploadhandler.NewUploadHandlerV1(uploadService, cleanupService, logger)
	filesHandler := files.NewFilesHandlerV1(uploadService, logger)
	limiter := chi.NewRateLimiter(cfg.RateLimit)

	router := chi.NewRouter(logger, cfg.Auth, limiter, uploadHandler, filesHandler, cfg.Env.Env)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// init cleanup task
	wg.Add(1)
	go func() {
		defer wg.Done()
		initCleanupTask(ctx, cleanupService, cfg.Cleanup.Every, logger)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}

func initCleanupTask(ctx context.Context, service port.CleanupService, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("cleanup task initialized", "interval", every)

	for {
		select {
		case <-ticker.C:
			logger.Info("cleanup task starting")
			results := service.Sweep(ctx, time.Now())
			cleaned, failed := 0, 0
			for _, result := range results {
				switch result.Status {
				case domain.SweepStatusCleaned:
					cleaned++
				case domain.SweepStatusFailed:
					failed++
				}
			}
			logger.Info("cleanup task completed", "items", len(results), "cleaned", cleaned, "failed", failed)
		case <-ctx.Done():
			logger.Info("cleanup task stopped")
			return
		}
	}

}
