package files

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// V1GetFileResponse is the response to get file
type V1GetFileResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// GetFileV1 is the function that handles GetFile
func (h *HandlerV1) GetFileV1(w http.ResponseWriter, r *http.Request) {
	fileID, parseErr := uuid.Parse(chi.URLParam(r, "fileID"))
	if parseErr != nil {
		h.respondError(w, http.StatusBadRequest, "invalid file id")
		return
	}

	url, filename, err := h.uploadService.GetFile(r.Context(), fileID)
	switch {
	// an unconfirmed upload is not durable yet, so it is not visible either
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionNotCompleted):
		h.respondError(w, http.StatusNotFound, "file not found")
		return
	case err != nil:
		h.logger.Error("error getting file", "id", fileID.String(), "error", err)
		h.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respondJSON(w, http.StatusOK, V1GetFileResponse{URL: url, Filename: filename})
}
