package domain

import "github.com/google/uuid"

// FileUploadRequest is one file's entry in a batch plan request.
type FileUploadRequest struct {
	Prefix      string
	Filename    string
	ContentType string
	FileSize    int64
}

// UploadBatchRequest is the caller's batch plan request. AllowedFileTypes and
// MaxFileSize are caller-declared and re-validated against server ceilings.
type UploadBatchRequest struct {
	Files            []FileUploadRequest
	AllowedFileTypes map[string][]string
	MaxFileSize      int64
}

// ChunkPlan is the computed multipart split for one file.
type ChunkPlan struct {
	ChunkSize  int64
	TotalParts int
}

// UploadPlan is ephemeral: computed per request, returned to the client,
// never persisted.
type UploadPlan struct {
	SessionID     uuid.UUID
	Filename      string
	Multipart     bool
	URL           string // single-part only
	UploadID      string // multipart only
	PresignedURLs []string
	ChunkSize     int64
}

// UploadResult is the per-file outcome within a batch. A failed plan for one
// file never aborts the rest of the batch.
type UploadResult struct {
	Filename string
	Plan     *UploadPlan
	Err      error
}

// CompletedPart is a client-acknowledged multipart part.
type CompletedPart struct {
	PartNumber int
	ETag       string
}
