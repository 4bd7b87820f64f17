package upload

import (
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/christran/create-2block-app-sub000/internal/config"
	"github.com/christran/create-2block-app-sub000/internal/core/domain"
	"github.com/christran/create-2block-app-sub000/internal/core/port"
)

type uploadService struct {
	storage  port.ObjectStorage
	sessions port.SessionRepository
	cfg      config.UploadConfig
	logger   *slog.Logger
}

// NewUploadService creates a new upload orchestrator
func NewUploadService(sessions port.SessionRepository, storage port.ObjectStorage, cfg config.UploadConfig, logger *slog.Logger) port.UploadService {
	return &uploadService{sessions: sessions, storage: storage, cfg: cfg, logger: logger}
}

// validateFile checks one file's declared metadata against the caller's
// allow-list and size limit plus the server's own ceiling. The caller-supplied
// limits are never the sole authority.
func (u *uploadService) validateFile(file domain.FileUploadRequest, allowed map[string][]string, maxFileSize int64) error {
	mimeType := extractMimeType(file.ContentType)
	if mimeType == "" {
		return fmt.Errorf("%w: unparseable content type %q", domain.ErrInvalidFileType, file.ContentType)
	}

	allowedExts, ok := allowed[mimeType]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrInvalidFileType, mimeType)
	}

	if err := validateExtension(file.Filename, allowedExts); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidFileType, err)
	}

	if file.FileSize <= 0 {
		return fmt.Errorf("%w: declared size must be positive", domain.ErrInvalidFileType)
	}
	if maxFileSize > 0 && file.FileSize > maxFileSize {
		return fmt.Errorf("%w: %d bytes over caller limit %d", domain.ErrFileTooLarge, file.FileSize, maxFileSize)
	}
	if file.FileSize > u.cfg.MaxFileSize {
		return fmt.Errorf("%w: %d bytes over server ceiling %d", domain.ErrFileTooLarge, file.FileSize, u.cfg.MaxFileSize)
	}

	return nil
}

func validateExtension(filename string, allowedExts []string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return fmt.Errorf("no file extension found")
	}

	for _, allowed := range allowedExts {
		if ext == strings.ToLower(allowed) {
			return nil
		}
	}

	return fmt.Errorf("extension %s is not allowed (expected one of: %v)", ext, allowedExts)
}

func extractMimeType(contentType string) string {
	mimeType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mimeType
}
