package upload

import (
	"context"

	"github.com/google/uuid"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// GetFile returns a time-limited download URL for a confirmed upload.
// Sessions whose bytes were never confirmed are not listable.
func (u *uploadService) GetFile(ctx context.Context, id uuid.UUID) (string, string, error) {
	session, err := u.sessions.FindByID(ctx, id)
	if err != nil {
		return "", "", err
	}

	if !session.UploadCompleted {
		return "", "", domain.ErrSessionNotCompleted
	}

	url, err := u.storage.GeneratePresignedGetURL(ctx, session.StorageKey)
	if err != nil {
		return "", "", err
	}

	return url, session.OriginalFilename, nil
}
