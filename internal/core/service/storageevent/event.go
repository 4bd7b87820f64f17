package storageevent

import (
	"log/slog"

	"github.com/christran/create-2block-app-sub000/internal/core/port"
)

// Service marks upload sessions complete from bucket notifications. It is a
// reconciliation path: the client's own confirmation call can be lost (tab
// closed right after the last PUT) while the object already landed.
type Service struct {
	sessions port.SessionRepository
	logger   *slog.Logger
}

// NewService creates a new storage event handler
func NewService(sessions port.SessionRepository, logger *slog.Logger) *Service {
	return &Service{sessions: sessions, logger: logger}
}
