package handler

import (
	"net/http"

	"github.com/redrabbit/vaultrelay/internal/core/domain"
	"github.com/redrabbit/vaultrelay/internal/core/service"
)

// PostMessage handles POST /api/message.
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req PostMessageRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	ts, err := h.relaySvc.PostMessage(r.Context(), &service.PostMessageRequest{
		ID:      string(req.ID),
		VaultID: string(req.VaultID),
		Blob:    string(req.Blob),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, PostMessageResponse{
		Success:   true,
		Timestamp: ts,
	})
}

// GetMessages handles POST /api/get_messages.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	var req GetMessagesRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	resp, err := h.relaySvc.GetMessages(r.Context(), &service.GetMessagesRequest{
		VaultID: string(req.VaultID),
		Since:   int64(req.Since),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	data := resp.Messages
	if data == nil {
		data = []domain.Message{}
	}
	h.writeJSON(w, r, http.StatusOK, GetMessagesResponse{
		Success:          true,
		Data:             data,
		ParticipantCount: resp.ParticipantCount,
	})
}

// AckMessages handles POST /api/ack_messages.
func (h *Handler) AckMessages(w http.ResponseWriter, r *http.Request) {
	var req AckMessagesRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	err := h.relaySvc.AckMessages(r.Context(), &service.AckMessagesRequest{
		VaultID:    string(req.VaultID),
		MessageIDs: req.MessageIDs,
		UserID:     string(req.UserID),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, okResponse)
}

// NukeUser handles POST /api/nuke_user. It succeeds whatever the body
// names; unknown or malformed vault ids are skipped.
func (h *Handler) NukeUser(w http.ResponseWriter, r *http.Request) {
	var req NukeUserRequest
	if err := decodeBody(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	destroyed := h.relaySvc.NukeUser(r.Context(), &service.NukeUserRequest{
		VaultIDs: req.VaultIDs,
		UserID:   string(req.UserID),
	})
	if destroyed > 0 {
		h.logger.Debug("nuke destroyed vaults", "count", destroyed)
	}

	h.writeJSON(w, r, http.StatusOK, okResponse)
}
