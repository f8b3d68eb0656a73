package handler

import (
	"net/http"

	"github.com/redrabbit/vaultrelay/internal/core/domain"
	"github.com/redrabbit/vaultrelay/internal/telemetry/logger"
)

// AdminStats handles GET /admin/stats.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	st := h.relaySvc.Stats()
	h.writeJSON(w, r, http.StatusOK, StatsResponse{
		Stats:  st.Stats,
		Uptime: int64(st.Uptime.Seconds()),
	})
}

// AdminSweep handles POST /admin/sweep by running a sweep pass now.
func (h *Handler) AdminSweep(w http.ResponseWriter, r *http.Request) {
	if h.sweeper == nil {
		h.handleServiceError(w, r, domain.ErrInternalServer.WithDetails("sweeper not configured"))
		return
	}

	res, err := h.sweeper.RunOnce(r.Context())
	if err != nil {
		logger.L(r.Context()).Warn("manual sweep interrupted", "error", err)
		h.handleServiceError(w, r, domain.ErrInternalServer.WithCause(err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, SweepResponse{
		Success:     true,
		SweepResult: res,
	})
}
