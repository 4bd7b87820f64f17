package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// UploadService is the server-side upload orchestrator
type UploadService interface {
	// PlanUploads validates each file, decides single-part vs multipart,
	// issues presigned URLs and persists one session row per planned file.
	// Per-file failures land in the result slice; the returned error is
	// reserved for request-shape problems.
	PlanUploads(ctx context.Context, ownerID string, batch domain.UploadBatchRequest) ([]domain.UploadResult, error)
	// ConfirmUpload assembles the multipart object when parts are supplied
	// and flips the session row to completed.
	ConfirmUpload(ctx context.Context, id uuid.UUID, uploadID string, parts []domain.CompletedPart) error
	// CancelUpload aborts the provider-side multipart upload and removes
	// the session row.
	CancelUpload(ctx context.Context, id uuid.UUID, uploadID string) error
	GetFile(ctx context.Context, id uuid.UUID) (url string, filename string, err error)
	DeleteFile(ctx context.Context, id uuid.UUID, user domain.User) error
}
