package domain

import "time"

// SweepStatus is the per-item outcome of a cleanup pass.
type SweepStatus string

const (
	SweepStatusCleaned SweepStatus = "cleaned"
	SweepStatusSkipped SweepStatus = "skipped"
	SweepStatusFailed  SweepStatus = "failed"
)

// SweepResult records one item's outcome; one item's failure never stops the
// sweep over the rest.
type SweepResult struct {
	Key    string
	Status SweepStatus
}

// IncompleteUpload is a multipart upload still open at the storage provider.
type IncompleteUpload struct {
	Key         string
	UploadID    string
	InitiatedAt time.Time
}
