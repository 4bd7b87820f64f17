package cleanup

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// SweepStorage lists incomplete multipart uploads directly from the provider
// and aborts those past the threshold, then removes the matching session row.
// Each item's outcome is recorded independently; one failure never stops the
// sweep over the rest.
func (c *cleanupService) SweepStorage(ctx context.Context, now time.Time) []domain.SweepResult {
	uploads, err := c.storage.ListIncompleteMultipartUploads(ctx)
	if err != nil {
		c.logger.Error("failed to list incomplete multipart uploads", "error", err)
		return nil
	}

	var results []domain.SweepResult
	for _, upload := range uploads {
		results = append(results, domain.SweepResult{
			Key:    upload.Key,
			Status: c.sweepUpload(ctx, upload, now),
		})
	}

	c.logger.Info("storage sweep completed", "items", len(results))
	return results
}

func (c *cleanupService) sweepUpload(ctx context.Context, upload domain.IncompleteUpload, now time.Time) domain.SweepStatus {
	if now.Sub(upload.InitiatedAt) < c.cfg.Threshold {
		return domain.SweepStatusSkipped
	}

	if err := c.storage.AbortMultipartUpload(ctx, upload.Key, upload.UploadID); err != nil {
		c.logger.Error("failed to abort incomplete upload",
			"key", upload.Key, "uploadID", upload.UploadID, "error", err)
		return domain.SweepStatusFailed
	}

	// the key tail is the session id; the row itself is targeted through
	// the indexed id column, never by key-string comparison
	if id, ok := sessionIDFromKey(upload.Key); ok {
		if err := c.sessions.DeleteIfIncomplete(ctx, id); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			c.logger.Error("failed to delete session for aborted upload",
				"key", upload.Key, "id", id.String(), "error", err)
			return domain.SweepStatusFailed
		}
	} else {
		c.logger.Warn("incomplete upload key carries no session id", "key", upload.Key)
	}

	return domain.SweepStatusCleaned
}

func sessionIDFromKey(key string) (uuid.UUID, bool) {
	tail := key
	if index := strings.LastIndex(key, "/"); index != -1 {
		tail = key[index+1:]
	}
	id, err := uuid.Parse(tail)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
