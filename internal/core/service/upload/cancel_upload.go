package upload

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// CancelUpload aborts the provider-side multipart upload (releasing reserved
// storage) and removes the session row. Only incomplete sessions can be
// cancelled.
func (u *uploadService) CancelUpload(ctx context.Context, id uuid.UUID, uploadID string) error {
	session, err := u.sessions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if session.UploadCompleted {
		return fmt.Errorf("%w: session already completed", domain.ErrSessionNotFound)
	}

	if uploadID != "" {
		// idempotent at the adapter: a second abort of the same upload
		// succeeds silently
		if err := u.storage.AbortMultipartUpload(ctx, session.StorageKey, uploadID); err != nil {
			return fmt.Errorf("could not abort multipart upload: %w", err)
		}
	}

	if err := u.sessions.DeleteIfIncomplete(ctx, id); err != nil {
		// a concurrent confirmation or sweep got there first; the abort
		// already ran, nothing left to undo
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	u.logger.Info("upload cancelled", "id", id.String(), "key", session.StorageKey)
	return nil
}
