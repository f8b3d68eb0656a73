package handler

import (
	"net/http"

	"github.com/redrabbit/vaultrelay/internal/core/service"
)

// VaultCreate handles POST /api/vault_create.
func (h *Handler) VaultCreate(w http.ResponseWriter, r *http.Request) {
	var req VaultCreateRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	err := h.relaySvc.CreateVault(r.Context(), &service.CreateVaultRequest{
		VaultID:   string(req.VaultID),
		VaultType: string(req.VaultType),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, okResponse)
}

// VaultJoin handles POST /api/vault_join.
func (h *Handler) VaultJoin(w http.ResponseWriter, r *http.Request) {
	var req VaultJoinRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	resp, err := h.relaySvc.JoinVault(r.Context(), &service.JoinVaultRequest{
		VaultID:   string(req.VaultID),
		UserID:    string(req.UserID),
		VaultType: string(req.VaultType),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, VaultJoinResponse{
		Success:          true,
		ParticipantCount: resp.ParticipantCount,
		VaultType:        resp.VaultType.String(),
	})
}

// VaultLeave handles POST /api/vault_leave. Membership is only ever
// dropped by nuke_user, so this always succeeds.
func (h *Handler) VaultLeave(w http.ResponseWriter, r *http.Request) {
	var req VaultJoinRequest
	_ = decodeBody(r, &req)

	h.relaySvc.LeaveVault(r.Context(), string(req.VaultID), string(req.UserID))
	h.writeJSON(w, r, http.StatusOK, okResponse)
}

// GetParticipantCount handles POST /api/get_participant_count.
func (h *Handler) GetParticipantCount(w http.ResponseWriter, r *http.Request) {
	var req VaultRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	count, err := h.relaySvc.GetParticipantCount(r.Context(), string(req.VaultID))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, ParticipantCountResponse{
		Success:          true,
		ParticipantCount: count,
	})
}
