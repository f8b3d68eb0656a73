package handler

import (
	"encoding/json"
	"math"

	"github.com/redrabbit/vaultrelay/internal/core/domain"
)

// ============================================================================
// Envelopes
// ============================================================================

// Response is the success envelope for calls that return nothing else.
type Response struct {
	Success bool `json:"success"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// NewErrorResponse creates a failure envelope.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: message, Code: code}
}

var okResponse = Response{Success: true}

// ============================================================================
// Request bodies
// ============================================================================

// Request fields accept any JSON type so that a wrong type fails
// validation with the field's usual message instead of a decode error.

// text is a string field; non-string JSON values decode as "".
type text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *text) UnmarshalJSON(data []byte) error {
	var s string
	if json.Unmarshal(data, &s) != nil {
		s = ""
	}
	*t = text(s)
	return nil
}

// idList is a string array field. It is nil when the value is not an array;
// non-string elements decode as "" and keep their position.
type idList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *idList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if json.Unmarshal(data, &raw) != nil || raw == nil {
		*l = nil
		return nil
	}

	ids := make(idList, len(raw))
	for i, item := range raw {
		var s string
		if json.Unmarshal(item, &s) == nil {
			ids[i] = s
		}
	}
	*l = ids
	return nil
}

// cursor is a millisecond timestamp; anything but a positive number is 0.
type cursor int64

// UnmarshalJSON implements json.Unmarshaler.
func (c *cursor) UnmarshalJSON(data []byte) error {
	var f float64
	switch {
	case json.Unmarshal(data, &f) != nil || f <= 0:
		*c = 0
	case f >= math.MaxInt64:
		*c = math.MaxInt64
	default:
		*c = cursor(f)
	}
	return nil
}

// DispatchRequest is the body of POST /api; only the type is read here.
type DispatchRequest struct {
	Type text `json:"type"`
}

// VaultCreateRequest is the body of POST /api/vault_create.
type VaultCreateRequest struct {
	VaultID   text `json:"vaultId"`
	VaultType text `json:"vaultType"`
}

// VaultJoinRequest is the body of POST /api/vault_join.
type VaultJoinRequest struct {
	VaultID   text `json:"vaultId"`
	UserID    text `json:"userId"`
	VaultType text `json:"vaultType"`
}

// VaultRequest is the body of calls naming a single vault.
type VaultRequest struct {
	VaultID text `json:"vaultId"`
}

// PostMessageRequest is the body of POST /api/message.
type PostMessageRequest struct {
	ID      text `json:"id"`
	VaultID text `json:"vaultId"`
	Blob    text `json:"blob"`
}

// GetMessagesRequest is the body of POST /api/get_messages.
type GetMessagesRequest struct {
	VaultID text   `json:"vaultId"`
	Since   cursor `json:"since"`
}

// AckMessagesRequest is the body of POST /api/ack_messages.
type AckMessagesRequest struct {
	VaultID    text   `json:"vaultId"`
	MessageIDs idList `json:"messageIds"`
	UserID     text   `json:"userId"`
}

// NukeUserRequest is the body of POST /api/nuke_user.
type NukeUserRequest struct {
	VaultIDs idList `json:"vaultIds"`
	UserID   text   `json:"userId"`
}

// ============================================================================
// Response bodies
// ============================================================================

// VaultJoinResponse is returned by POST /api/vault_join.
type VaultJoinResponse struct {
	Success          bool   `json:"success"`
	ParticipantCount int    `json:"participantCount"`
	VaultType        string `json:"vaultType"`
}

// PostMessageResponse is returned by POST /api/message.
type PostMessageResponse struct {
	Success   bool  `json:"success"`
	Timestamp int64 `json:"timestamp"`
}

// GetMessagesResponse is returned by POST /api/get_messages.
type GetMessagesResponse struct {
	Success          bool             `json:"success"`
	Data             []domain.Message `json:"data"`
	ParticipantCount int              `json:"participantCount"`
}

// ParticipantCountResponse is returned by POST /api/get_participant_count.
type ParticipantCountResponse struct {
	Success          bool `json:"success"`
	ParticipantCount int  `json:"participantCount"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	TS     int64  `json:"ts"`
}

// StatsResponse is returned by GET /admin/stats.
type StatsResponse struct {
	domain.Stats
	Uptime int64 `json:"uptime"` // seconds
}

// SweepResponse is returned by POST /admin/sweep.
type SweepResponse struct {
	Success bool `json:"success"`
	domain.SweepResult
}
