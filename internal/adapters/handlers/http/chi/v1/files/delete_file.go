package files

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/christran/create-2block-app-sub000/internal/adapters/handlers/http/chi/auth"
	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// V1DeleteFileResponse is the response to delete file
type V1DeleteFileResponse struct {
	Message string `json:"message"`
}

// DeleteFileV1 is the function that handles DeleteFile
func (h *HandlerV1) DeleteFileV1(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		h.respondError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	fileID, parseErr := uuid.Parse(chi.URLParam(r, "fileID"))
	if parseErr != nil {
		h.respondError(w, http.StatusBadRequest, "invalid file id")
		return
	}

	err := h.uploadService.DeleteFile(r.Context(), fileID, user)
	switch {
	case errors.Is(err, domain.ErrNotOwner):
		h.respondError(w, http.StatusForbidden, "Unauthorized")
		return
	case errors.Is(err, domain.ErrSessionNotFound):
		h.respondError(w, http.StatusNotFound, "file not found")
		return
	case err != nil:
		h.logger.Error("error deleting file", "id", fileID.String(), "error", err)
		h.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respondJSON(w, http.StatusOK, V1DeleteFileResponse{Message: "File deleted successfully"})
}
