package upload

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// ConfirmUpload records that all bytes landed. For multipart uploads the
// provider-side object is assembled first; only after the row flips to
// completed is the object durable and listable.
func (u *uploadService) ConfirmUpload(ctx context.Context, id uuid.UUID, uploadID string, parts []domain.CompletedPart) error {
	session, err := u.sessions.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if uploadID != "" && !session.UploadCompleted {
		if len(parts) == 0 {
			return fmt.Errorf("%w: multipart confirmation carries no parts", domain.ErrSessionNotCompleted)
		}
		if err := u.storage.CompleteMultipartUpload(ctx, session.StorageKey, uploadID, parts); err != nil {
			return fmt.Errorf("could not complete multipart upload: %w", err)
		}
	}

	if err := u.sessions.MarkCompleted(ctx, id); err != nil {
		return err
	}

	u.logger.Info("upload confirmed", "id", id.String(), "key", session.StorageKey)
	return nil
}
