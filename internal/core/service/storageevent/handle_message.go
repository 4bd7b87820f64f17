package storageevent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// HandleMessage parses a bucket notification and marks the referenced session
// complete. Unparseable or foreign keys are logged and acknowledged; returning
// an error would only make the broker redeliver a message that can never
// succeed.
func (s *Service) HandleMessage(ctx context.Context, data []byte) error {
	var event domain.StorageEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to unmarshal storage event: %w", err)
	}

	if len(event.Records) == 0 {
		s.logger.Warn("storage event carries no records", "eventName", event.EventName)
		return nil
	}

	for _, record := range event.Records {
		eventType := eventTypeOf(record.EventName)
		if eventType == domain.EventTypeUnknown {
			s.logger.Warn("ignoring storage event", "event", record.EventName, "key", record.S3.Object.Key)
			continue
		}

		// MinIO url-encodes object keys in notification payloads
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			s.logger.Warn("failed to unescape object key", "key", record.S3.Object.Key, "error", err)
			continue
		}

		id, ok := sessionIDFromKey(key)
		if !ok {
			s.logger.Warn("object key carries no session id", "key", key)
			continue
		}

		if err := s.sessions.MarkCompleted(ctx, id); err != nil {
			// the session was cancelled or swept before the notification
			// arrived; redelivering can never succeed
			if errors.Is(err, domain.ErrSessionNotFound) {
				s.logger.Warn("storage event references no session", "id", id.String(), "key", key)
				continue
			}
			return fmt.Errorf("failed to mark session %s completed: %w", id, err)
		}

		s.logger.Info("session completed from storage event",
			"id", id.String(), "key", key, "type", string(eventType), "size", record.S3.Object.Size)
	}

	return nil
}

func eventTypeOf(eventName string) domain.EventType {
	switch eventName {
	case "s3:ObjectCreated:Put":
		return domain.EventTypeSimpleUploadComplete
	case "s3:ObjectCreated:CompleteMultipartUpload":
		return domain.EventTypeMultipartUploadComplete
	default:
		return domain.EventTypeUnknown
	}
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
