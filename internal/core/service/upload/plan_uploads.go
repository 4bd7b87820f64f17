package upload

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// PlanUploads handles a batch plan request. Each file is planned
// independently; one file's failure is reported in its result entry and never
// aborts the rest of the batch. The returned error covers request-shape
// problems only.
func (u *uploadService) PlanUploads(ctx context.Context, ownerID string, batch domain.UploadBatchRequest) ([]domain.UploadResult, error) {
	if len(batch.Files) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	if len(batch.Files) > u.cfg.MaxBatchFiles {
		return nil, fmt.Errorf("%w: %d files, maximum is %d", domain.ErrBatchTooLarge, len(batch.Files), u.cfg.MaxBatchFiles)
	}
	if len(batch.AllowedFileTypes) == 0 {
		return nil, fmt.Errorf("%w: allowedFileTypes is required", domain.ErrEmptyBatch)
	}

	results := make([]domain.UploadResult, 0, len(batch.Files))
	for _, file := range batch.Files {
		plan, err := u.planFile(ctx, ownerID, file, batch.AllowedFileTypes, batch.MaxFileSize)
		if err != nil {
			u.logger.Warn("file plan failed",
				"filename", file.Filename,
				"contentType", file.ContentType,
				"error", err)
			results = append(results, domain.UploadResult{Filename: file.Filename, Err: err})
			continue
		}
		results = append(results, domain.UploadResult{Filename: file.Filename, Plan: plan})
	}

	return results, nil
}

func (u *uploadService) planFile(ctx context.Context, ownerID string, file domain.FileUploadRequest, allowed map[string][]string, maxFileSize int64) (*domain.UploadPlan, error) {
	if err := u.validateFile(file, allowed, maxFileSize); err != nil {
		return nil, err
	}

	id := uuid.New()
	storageKey := file.Prefix + id.String()

	plan := &domain.UploadPlan{
		SessionID: id,
		Filename:  file.Filename,
		Multipart: file.FileSize > u.cfg.MultipartThreshold,
	}

	if plan.Multipart {
		uploadID, err := u.storage.CreateMultipartUpload(ctx, storageKey, file.ContentType)
		if err != nil {
			return nil, fmt.Errorf("could not create multipart upload: %w", err)
		}

		chunkPlan := ComputeChunkPlan(u.cfg, file.FileSize)
		urls, err := u.storage.PresignUploadParts(ctx, storageKey, uploadID, chunkPlan.TotalParts)
		if err != nil {
			// release the provider-side reservation; the sweep would catch
			// it later but there is no reason to leave it dangling now
			if abortErr := u.storage.AbortMultipartUpload(ctx, storageKey, uploadID); abortErr != nil {
				u.logger.Error("failed to abort multipart upload after presign failure",
					"key", storageKey, "uploadID", uploadID, "error", abortErr)
			}
			return nil, fmt.Errorf("could not presign upload parts: %w", err)
		}

		plan.UploadID = uploadID
		plan.PresignedURLs = urls
		plan.ChunkSize = chunkPlan.ChunkSize
	} else {
		url, err := u.storage.GeneratePresignedPutURL(ctx, storageKey, file.ContentType, maxFileSize, allowed)
		if err != nil {
			return nil, fmt.Errorf("could not generate presigned put url: %w", err)
		}
		plan.URL = url
	}

	session := domain.UploadSession{
		ID:               id,
		StorageKey:       storageKey,
		OwnerID:          ownerID,
		OriginalFilename: file.Filename,
		ContentType:      file.ContentType,
		FileSize:         file.FileSize,
		StorageProvider:  domain.StorageProviderMinio,
		UploadCompleted:  false,
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		if plan.Multipart {
			if abortErr := u.storage.AbortMultipartUpload(ctx, storageKey, plan.UploadID); abortErr != nil {
				u.logger.Error("failed to abort multipart upload after persist failure",
					"key", storageKey, "uploadID", plan.UploadID, "error", abortErr)
			}
		}
		return nil, fmt.Errorf("could not persist upload session: %w", err)
	}

	return plan, nil
}
