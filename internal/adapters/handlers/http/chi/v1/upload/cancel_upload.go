package upload

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// V1CancelUploadRequest abandons an in-flight upload. UploadID is only
// present for multipart uploads.
type V1CancelUploadRequest struct {
	ID       string `json:"id"`
	UploadID string `json:"uploadId,omitempty"`
}

// CancelUploadV1 is the function that handles upload cancellation
func (h *HandlerV1) CancelUploadV1(w http.ResponseWriter, r *http.Request) {
	var req V1CancelUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding cancel request", "error", err)
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	cancelErr := h.uploadService.CancelUpload(r.Context(), id, req.UploadID)
	switch {
	case errors.Is(cancelErr, domain.ErrSessionNotFound):
		h.respondError(w, http.StatusNotFound, "upload session not found")
		return
	case cancelErr != nil:
		h.logger.Error("error cancelling upload", "id", id.String(), "error", cancelErr)
		h.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respondJSON(w, http.StatusOK, V1MessageResponse{Message: "Upload cancelled"})
}
