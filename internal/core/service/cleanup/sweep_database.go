package cleanup

import (
	"context"
	"errors"
	"time"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// SweepDatabase deletes session rows that never confirmed within the
// threshold. Deleting a row does not guarantee the provider-side multipart
// upload was aborted; the storage pass reconciles that.
func (c *cleanupService) SweepDatabase(ctx context.Context, now time.Time) []domain.SweepResult {
	cutoff := now.Add(-c.cfg.Threshold)

	stale, err := c.sessions.FindStale(ctx, cutoff)
	if err != nil {
		c.logger.Error("failed to list stale sessions", "error", err)
		return nil
	}

	var results []domain.SweepResult
	for _, session := range stale {
		status := domain.SweepStatusCleaned
		if err := c.sessions.DeleteIfIncomplete(ctx, session.ID); err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				// a late confirmation or a concurrent sweep won the race
				status = domain.SweepStatusSkipped
			} else {
				c.logger.Error("failed to delete stale session", "id", session.ID.String(), "error", err)
				status = domain.SweepStatusFailed
			}
		}
		results = append(results, domain.SweepResult{Key: session.StorageKey, Status: status})
	}

	c.logger.Info("database sweep completed", "items", len(results))
	return results
}
