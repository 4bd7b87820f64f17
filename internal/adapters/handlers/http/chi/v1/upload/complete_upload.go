package upload

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// V1CompletedPart acknowledges one uploaded part
type V1CompletedPart struct {
	PartNumber int    `json:"partNumber"`
	ETag       string `json:"etag"`
}

// V1CompleteUploadRequest confirms a finished upload. UploadID and Parts are
// only present for multipart uploads.
type V1CompleteUploadRequest struct {
	ID       string            `json:"id"`
	UploadID string            `json:"uploadId,omitempty"`
	Parts    []V1CompletedPart `json:"parts,omitempty"`
}

// V1MessageResponse is a plain confirmation body
type V1MessageResponse struct {
	Message string `json:"message"`
}

// CompleteUploadV1 is the function that handles upload confirmation
func (h *HandlerV1) CompleteUploadV1(w http.ResponseWriter, r *http.Request) {
	var req V1CompleteUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding complete request", "error", err)
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	parts := make([]domain.CompletedPart, 0, len(req.Parts))
	for _, part := range req.Parts {
		parts = append(parts, domain.CompletedPart{PartNumber: part.PartNumber, ETag: part.ETag})
	}

	confirmErr := h.uploadService.ConfirmUpload(r.Context(), id, req.UploadID, parts)
	switch {
	case errors.Is(confirmErr, domain.ErrSessionNotFound):
		h.respondError(w, http.StatusNotFound, "upload session not found")
		return
	case errors.Is(confirmErr, domain.ErrSessionNotCompleted):
		h.respondError(w, http.StatusBadRequest, confirmErr.Error())
		return
	case confirmErr != nil:
		h.logger.Error("error confirming upload", "id", id.String(), "error", confirmErr)
		h.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respondJSON(w, http.StatusOK, V1MessageResponse{Message: "Upload confirmed"})
}
