package upload

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/christran/create-2block-app-sub000/internal/adapters/handlers/http/chi/auth"
	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// V1FileRequest describes one file in a batch plan request
type V1FileRequest struct {
	Prefix      string `json:"prefix"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	FileSize    int64  `json:"fileSize"`
}

// V1PlanUploadsRequest is the batch plan request
type V1PlanUploadsRequest struct {
	Files            []V1FileRequest     `json:"files"`
	AllowedFileTypes map[string][]string `json:"allowedFileTypes"`
	MaxFileSize      int64               `json:"maxFileSize"`
}

// V1UploadResult is one file's plan or its planning error
type V1UploadResult struct {
	ID            string   `json:"id,omitempty"`
	Filename      string   `json:"filename"`
	Multipart     bool     `json:"multipart"`
	URL           string   `json:"url,omitempty"`
	UploadID      string   `json:"uploadId,omitempty"`
	PresignedURLs []string `json:"presignedUrls,omitempty"`
	ChunkSize     int64    `json:"chunkSize,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// V1PlanUploadsResponse is the batch plan response
type V1PlanUploadsResponse struct {
	UploadResults []V1UploadResult `json:"uploadResults"`
}

// PlanUploadsV1 is the function that handles batch plan requests
func (h *HandlerV1) PlanUploadsV1(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		h.respondError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	var req V1PlanUploadsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding plan request", "error", err)
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	batch := domain.UploadBatchRequest{
		AllowedFileTypes: req.AllowedFileTypes,
		MaxFileSize:      req.MaxFileSize,
	}
	for _, file := range req.Files {
		batch.Files = append(batch.Files, domain.FileUploadRequest{
			Prefix:      file.Prefix,
			Filename:    file.Filename,
			ContentType: file.ContentType,
			FileSize:    file.FileSize,
		})
	}

	results, err := h.uploadService.PlanUploads(r.Context(), user.ID, batch)
	switch {
	case errors.Is(err, domain.ErrEmptyBatch),
		errors.Is(err, domain.ErrBatchTooLarge),
		errors.Is(err, domain.ErrInvalidFileType):
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("error planning uploads", "error", err)
		h.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := V1PlanUploadsResponse{UploadResults: make([]V1UploadResult, 0, len(results))}
	for _, result := range results {
		if result.Err != nil {
			resp.UploadResults = append(resp.UploadResults, V1UploadResult{
				Filename: result.Filename,
				Error:    result.Err.Error(),
			})
			continue
		}
		plan := result.Plan
		resp.UploadResults = append(resp.UploadResults, V1UploadResult{
			ID:            plan.SessionID.String(),
			Filename:      plan.Filename,
			Multipart:     plan.Multipart,
			URL:           plan.URL,
			UploadID:      plan.UploadID,
			PresignedURLs: plan.PresignedURLs,
			ChunkSize:     plan.ChunkSize,
		})
	}

	h.respondJSON(w, http.StatusOK, resp)
}
