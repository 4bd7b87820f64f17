package port

import (
	"context"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// ObjectStorage is an interface to define object storage interactions.
// Every method is a remote call; callers must treat them as fallible and
// potentially slow under provider throttling.
type ObjectStorage interface {
	GeneratePresignedPutURL(ctx context.Context, key string, contentType string, maxSize int64, allowedTypes map[string][]string) (string, error)
	CreateMultipartUpload(ctx context.Context, key string, contentType string) (string, error)
	PresignUploadParts(ctx context.Context, key string, uploadID string, totalParts int) ([]string, error)
	CompleteMultipartUpload(ctx context.Context, key string, uploadID string, parts []domain.CompletedPart) error
	GeneratePresignedGetURL(ctx context.Context, key string) (string, error)
	DeleteObject(ctx context.Context, key string) error
	ListIncompleteMultipartUploads(ctx context.Context) ([]domain.IncompleteUpload, error)
	// AbortMultipartUpload is idempotent: aborting an already-aborted or
	// nonexistent upload returns nil.
	AbortMultipartUpload(ctx context.Context, key string, uploadID string) error
}
