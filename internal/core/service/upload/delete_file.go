package upload

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// DeleteFile removes the stored object and its session row. Only the owner
// or an administrator may delete a file.
func (u *uploadService) DeleteFile(ctx context.Context, id uuid.UUID, user domain.User) error {
	session, err := u.sessions.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if session.OwnerID != user.ID && !user.Admin {
		return domain.ErrNotOwner
	}

	if err := u.storage.DeleteObject(ctx, session.StorageKey); err != nil {
		return fmt.Errorf("could not delete object: %w", err)
	}

	if err := u.sessions.Delete(ctx, id); err != nil {
		return err
	}

	u.logger.Info("file deleted", "id", id.String(), "key", session.StorageKey, "by", user.ID)
	return nil
}
