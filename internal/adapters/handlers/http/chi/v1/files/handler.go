package files

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/christran/create-2block-app-sub000/internal/core/port"
)

// HandlerV1 is the handler for v1 files routes
type HandlerV1 struct {
	uploadService port.UploadService
	logger        *slog.Logger
}

// NewFilesHandlerV1 creates HandlerV1
func NewFilesHandlerV1(service port.UploadService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		uploadService: service,
		logger:        logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{fileID}", h.GetFileV1)
	router.Delete("/{fileID}", h.DeleteFileV1)

	return router
}

// V1ErrorResponse is the error body shared by all files routes
type V1ErrorResponse struct {
	Error string `json:"error"`
}

func (h *HandlerV1) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

func (h *HandlerV1) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, V1ErrorResponse{Error: message})
}
