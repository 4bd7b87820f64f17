package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/christran/create-2block-app-sub000/internal/config"
	"github.com/christran/create-2block-app-sub000/internal/core/domain"
	"github.com/christran/create-2block-app-sub000/internal/core/port"
)

type cleanupService struct {
	sessions port.SessionRepository
	storage  port.ObjectStorage
	cfg      config.CleanupConfig
	logger   *slog.Logger
}

// NewCleanupService creates a new cleanup sweeper
func NewCleanupService(sessions port.SessionRepository, storage port.ObjectStorage, cfg config.CleanupConfig, logger *slog.Logger) port.CleanupService {
	return &cleanupService{
		sessions: sessions,
		storage:  storage,
		cfg:      cfg,
		logger:   logger,
	}
}

// Sweep runs both passes. The database and the storage provider fail
// independently and share no transaction, so each pass is idempotent and the
// whole sweep is safe to re-run after partial failure.
func (c *cleanupService) Sweep(ctx context.Context, now time.Time) []domain.SweepResult {
	results := c.SweepDatabase(ctx, now)
	results = append(results, c.SweepStorage(ctx, now)...)
	return results
}
