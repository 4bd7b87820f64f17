package port

import "context"

// MessageService handles raw broker messages
type MessageService interface {
	HandleMessage(ctx context.Context, data []byte) error
}
