package domain

import "errors"

// ErrInvalidFileType is an error thrown when a declared content type is not
// in the allowed set
var ErrInvalidFileType = errors.New("invalid file type")

// ErrFileTooLarge is an error thrown when a declared size exceeds a limit
var ErrFileTooLarge = errors.New("file too large")

// ErrBatchTooLarge is an error thrown when a batch has too many files
var ErrBatchTooLarge = errors.New("too many files in batch")

// ErrEmptyBatch is an error thrown when a batch has no files
var ErrEmptyBatch = errors.New("no files in batch")

// ErrSessionNotFound is an error thrown when an upload session does not exist
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionNotCompleted is an error thrown when a session's bytes have not
// been confirmed yet
var ErrSessionNotCompleted = errors.New("session not completed")

// ErrNotOwner is an error thrown when a caller is neither owner nor admin
var ErrNotOwner = errors.New("not the owner")

// ErrUnidentifiedClient is an error thrown when a request carries no usable
// client identity for rate limiting
var ErrUnidentifiedClient = errors.New("unidentified client")

// ErrRateLimited is an error thrown when the caller exceeded its request budget
var ErrRateLimited = errors.New("rate limited")

// ErrPlanExpired is an error thrown when a presigned URL was rejected as
// expired; callers need a fresh plan, not a retry
var ErrPlanExpired = errors.New("presigned plan expired")

// ErrTransientStorage is an error thrown on timeouts or 5xx from the storage
// provider
var ErrTransientStorage = errors.New("transient storage error")
