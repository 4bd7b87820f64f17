package domain

import (
	"time"

	"github.com/google/uuid"
)

// StorageProvider identifies which storage backend an object lives in.
type StorageProvider string

const (
	StorageProviderMinio StorageProvider = "minio"
)

// UploadSession is the persisted record of a single logical file upload.
// The row outlives the plan: a client that reloads mid-transfer loses its
// presigned URLs but the session (and any parts already at the provider)
// remains until confirmed or swept.
type UploadSession struct {
	ID               uuid.UUID
	StorageKey       string
	OwnerID          string
	OriginalFilename string
	ContentType      string
	FileSize         int64
	StorageProvider  StorageProvider
	UploadCompleted  bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// User is the authenticated caller as resolved by the auth middleware.
type User struct {
	ID    string
	Admin bool
}
