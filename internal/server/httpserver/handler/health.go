package handler

import (
	"net/http"
	"time"

	"github.com/redrabbit/vaultrelay/internal/core/domain"
)

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, HealthResponse{
		Status: "ok",
		TS:     time.Now().UnixMilli(),
	})
}

// NotFound answers every unrouted request, including known paths called
// with the wrong method.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, http.StatusNotFound, domain.ErrNotFound.Code, domain.ErrNotFound.Message)
}
