package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// SessionRepository is an interface to interact with the upload session registry
type SessionRepository interface {
	Create(ctx context.Context, session domain.UploadSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error)
	// MarkCompleted flips upload_completed conditionally; confirming an
	// already-completed session is a no-op.
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	// DeleteIfIncomplete deletes only rows still matching
	// upload_completed = false, so a sweep pass and a late-arriving
	// completion confirmation cannot interleave destructively.
	DeleteIfIncomplete(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindStale(ctx context.Context, olderThan time.Time) ([]domain.UploadSession, error)
}
