package port

import (
	"context"
	"time"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// CleanupService reconciles abandoned uploads between the database and the
// storage provider. Both passes are idempotent and safe to re-run.
type CleanupService interface {
	SweepDatabase(ctx context.Context, now time.Time) []domain.SweepResult
	SweepStorage(ctx context.Context, now time.Time) []domain.SweepResult
	Sweep(ctx context.Context, now time.Time) []domain.SweepResult
}
