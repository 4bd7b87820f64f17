package minio

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/christran/create-2block-app-sub000/internal/config"
	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// Adapter is an adapter for minio
type Adapter struct {
	client *minio.Client
	core   *minio.Core
	config config.MinioConfig
	logger *slog.Logger
}

// NewAdapter returns Adapter
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	core := minio.Core{Client: client}
	return &Adapter{client: client, config: cfg, core: &core, logger: logger}, nil
}

// GeneratePresignedPutURL generates a presigned URL for a single-part PUT.
// The declared content type must be in the caller's allowed set.
func (a *Adapter) GeneratePresignedPutURL(ctx context.Context, key string, contentType string, maxSize int64, allowedTypes map[string][]string) (string, error) {
	if _, ok := allowedTypes[contentType]; !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidFileType, contentType)
	}

	requestHeaders := make(http.Header)
	requestHeaders.Set("Content-Type", contentType)
	if maxSize > 0 {
		requestHeaders.Set("x-amz-meta-max-size", strconv.FormatInt(maxSize, 10))
	}

	presignedURL, err := a.client.PresignHeader(ctx, http.MethodPut, a.config.BucketName, key, a.config.UploadPresignedDuration, nil, requestHeaders)
	if err != nil {
		return "", fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	return presignedURL.String(), nil
}

// CreateMultipartUpload opens a multipart upload at the provider
func (a *Adapter) CreateMultipartUpload(ctx context.Context, key string, contentType string) (string, error) {
	opts := minio.PutObjectOptions{
		ContentType: contentType,
	}
	uploadID, err := a.core.NewMultipartUpload(ctx, a.config.BucketName, key, opts)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart upload: %w", err)
	}
	return uploadID, nil
}

// PresignUploadParts generates one presigned URL per part number 1..totalParts,
// order-preserving.
func (a *Adapter) PresignUploadParts(ctx context.Context, key string, uploadID string, totalParts int) ([]string, error) {
	urls := make([]string, 0, totalParts)

	for partNumber := 1; partNumber <= totalParts; partNumber++ {
		reqParams := make(url.Values)
		reqParams.Set("partNumber", strconv.Itoa(partNumber))
		reqParams.Set("uploadId", uploadID)

		presignedURL, err := a.core.PresignHeader(ctx, http.MethodPut, a.config.BucketName, key, a.config.PartPresignedDuration, reqParams, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to generate presigned URL for part %d: %w", partNumber, err)
		}
		urls = append(urls, presignedURL.String())
	}

	return urls, nil
}

// CompleteMultipartUpload assembles the uploaded parts at the provider
func (a *Adapter) CompleteMultipartUpload(ctx context.Context, key string, uploadID string, parts []domain.CompletedPart) error {
	completeParts := make([]minio.CompletePart, 0, len(parts))
	for _, part := range parts {
		completeParts = append(completeParts, minio.CompletePart{
			PartNumber: part.PartNumber,
			ETag:       part.ETag,
		})
	}

	_, err := a.core.CompleteMultipartUpload(ctx, a.config.BucketName, key, uploadID, completeParts, minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to complete multipart upload: %w", err)
	}
	return nil
}

// GeneratePresignedGetURL generates a time-limited URL for downloading a file
func (a *Adapter) GeneratePresignedGetURL(ctx context.Context, key string) (string, error) {
	presignedURL, err := a.client.PresignedGetObject(ctx, a.config.BucketName, key, a.config.DownloadSignedURLDuration, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned download URL: %w", err)
	}
	return presignedURL.String(), nil
}

// DeleteObject deletes an object from storage
func (a *Adapter) DeleteObject(ctx context.Context, key string) error {
	err := a.client.RemoveObject(ctx, a.config.BucketName, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	a.logger.Info("object deleted",
		slog.String("key", key),
		slog.String("bucket", a.config.BucketName))

	return nil
}

// ListIncompleteMultipartUploads lists multipart uploads still open at the provider
func (a *Adapter) ListIncompleteMultipartUploads(ctx context.Context) ([]domain.IncompleteUpload, error) {
	var uploads []domain.IncompleteUpload

	for info := range a.client.ListIncompleteUploads(ctx, a.config.BucketName, "", true) {
		if info.Err != nil {
			return nil, fmt.Errorf("failed to list incomplete uploads: %w", info.Err)
		}
		uploads = append(uploads, domain.IncompleteUpload{
			Key:         info.Key,
			UploadID:    info.UploadID,
			InitiatedAt: info.Initiated,
		})
	}

	return uploads, nil
}

// AbortMultipartUpload aborts a multipart upload. Aborting an upload that no
// longer exists returns nil so callers can retry a partially failed sweep.
func (a *Adapter) AbortMultipartUpload(ctx context.Context, key string, uploadID string) error {
	err := a.core.AbortMultipartUpload(ctx, a.config.BucketName, key, uploadID)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchUpload" {
			return nil
		}
		return fmt.Errorf("failed to abort multipart upload: %w", err)
	}

	a.logger.Info("multipart upload aborted",
		slog.String("key", key),
		slog.String("uploadID", uploadID))

	return nil
}
