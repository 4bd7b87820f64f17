package upload

import (
	"net/http"
	"time"

	"github.com/christran/create-2block-app-sub000/internal/adapters/handlers/http/chi/auth"
)

// V1SweepResult is one swept item's outcome
type V1SweepResult struct {
	Key    string `json:"key"`
	Status string `json:"status"`
}

// V1CleanupResponse is the cleanup trigger response
type V1CleanupResponse struct {
	Message string          `json:"message"`
	Results []V1SweepResult `json:"results"`
}

// CleanupV1 is the administrative trigger for the cleanup sweeper
func (h *HandlerV1) CleanupV1(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok || !user.Admin {
		h.respondError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	results := h.cleanupService.Sweep(r.Context(), time.Now())

	resp := V1CleanupResponse{
		Message: "Cleanup completed",
		Results: make([]V1SweepResult, 0, len(results)),
	}
	for _, result := range results {
		resp.Results = append(resp.Results, V1SweepResult{
			Key:    result.Key,
			Status: string(result.Status),
		})
	}

	h.respondJSON(w, http.StatusOK, resp)
}
