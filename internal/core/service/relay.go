package service

import (
	"context"
	"time"

	"github.com/redrabbit/vaultrelay/internal/core/domain"
)

// VaultRepository is the storage the relay operates on.
type VaultRepository interface {
	// CreateOrJoin ensures the vault exists and optionally adds userID.
	CreateOrJoin(ctx context.Context, vaultID string, vaultType domain.VaultType, userID string) (domain.VaultType, int, error)

	// Leave is accepted but has no effect.
	Leave(ctx context.Context, vaultID, userID string)

	// PostMessage stores a message and returns its timestamp.
	PostMessage(ctx context.Context, id, vaultID, blob string) int64

	// GetMessages returns messages newer than since and the participant count.
	GetMessages(ctx context.Context, vaultID string, since int64) ([]domain.Message, int)

	// AckMessages acknowledges messages and returns how many were deleted.
	AckMessages(ctx context.Context, vaultID string, messageIDs []string, userID string) int

	// GetParticipantCount returns the live participant count.
	GetParticipantCount(ctx context.Context, vaultID string) int

	// NukeUser removes the user's footprint and returns destroyed vaults.
	NukeUser(ctx context.Context, vaultIDs []string, userID string) int

	// Stats summarises the store.
	Stats() domain.Stats
}

// RelayService validates client requests and maps each onto exactly one
// repository call.
type RelayService struct {
	repo      VaultRepository
	startedAt time.Time
}

// NewRelayService creates a new RelayService.
func NewRelayService(repo VaultRepository) *RelayService {
	return &RelayService{
		repo:      repo,
		startedAt: time.Now(),
	}
}

// ============================================================================
// Vault Operations
// ============================================================================

// CreateVaultRequest contains parameters for vault creation.
type CreateVaultRequest struct {
	VaultID   string
	VaultType string // "private" or anything else for public
}

// CreateVault ensures the vault exists without adding a participant.
func (s *RelayService) CreateVault(ctx context.Context, req *CreateVaultRequest) error {
	if !IsValidID(req.VaultID) {
		return domain.ErrInvalidArgument.WithDetails("invalid vaultId")
	}

	_, _, err := s.repo.CreateOrJoin(ctx, req.VaultID, domain.ParseVaultType(req.VaultType), "")
	return err
}

// JoinVaultRequest contains parameters for joining a vault.
type JoinVaultRequest struct {
	VaultID   string
	UserID    string
	VaultType string // used only if the vault does not exist yet
}

// JoinVaultResponse contains the vault state after the join.
type JoinVaultResponse struct {
	VaultType        domain.VaultType
	ParticipantCount int
}

// JoinVault adds the user to the vault, creating it if needed.
func (s *RelayService) JoinVault(ctx context.Context, req *JoinVaultRequest) (*JoinVaultResponse, error) {
	if !IsValidID(req.VaultID) || !IsValidUserID(req.UserID) {
		return nil, domain.ErrInvalidArgument.WithDetails("invalid vaultId or userId")
	}

	vt, count, err := s.repo.CreateOrJoin(ctx, req.VaultID, domain.ParseVaultType(req.VaultType), req.UserID)
	if err != nil {
		return nil, err
	}

	return &JoinVaultResponse{
		VaultType:        vt,
		ParticipantCount: count,
	}, nil
}

// LeaveVault is accepted for client compatibility and changes nothing.
func (s *RelayService) LeaveVault(ctx context.Context, vaultID, userID string) {
	s.repo.Leave(ctx, vaultID, userID)
}

// GetParticipantCount returns the number of participants in the vault.
func (s *RelayService) GetParticipantCount(ctx context.Context, vaultID string) (int, error) {
	if !IsValidID(vaultID) {
		return 0, domain.ErrInvalidArgument.WithDetails("invalid vaultId")
	}
	return s.repo.GetParticipantCount(ctx, vaultID), nil
}

// ============================================================================
// Message Operations
// ============================================================================

// PostMessageRequest contains parameters for posting a message.
type PostMessageRequest struct {
	ID      string
	VaultID string
	Blob    string
}

// PostMessage stores an opaque blob and returns its timestamp.
func (s *RelayService) PostMessage(ctx context.Context, req *PostMessageRequest) (int64, error) {
	if !IsValidID(req.ID) || !IsValidID(req.VaultID) {
		return 0, domain.ErrInvalidArgument.WithDetails("invalid id or vaultId")
	}
	if req.Blob == "" {
		return 0, domain.ErrInvalidArgument.WithDetails("blob must be a non-empty string")
	}
	if len(req.Blob) > domain.MaxBlobLength && blobLength(req.Blob) > domain.MaxBlobLength {
		return 0, domain.ErrBlobTooLarge.WithDetails("blob exceeds 1 MB limit")
	}

	return s.repo.PostMessage(ctx, req.ID, req.VaultID, req.Blob), nil
}

// GetMessagesRequest contains parameters for fetching messages.
type GetMessagesRequest struct {
	VaultID string
	Since   int64 // exclusive cursor; values <= 0 fetch everything
}

// GetMessagesResponse contains fetched messages.
type GetMessagesResponse struct {
	Messages         []domain.Message
	ParticipantCount int
}

// GetMessages returns messages newer than the cursor.
func (s *RelayService) GetMessages(ctx context.Context, req *GetMessagesRequest) (*GetMessagesResponse, error) {
	if !IsValidID(req.VaultID) {
		return nil, domain.ErrInvalidArgument.WithDetails("invalid vaultId")
	}

	since := req.Since
	if since < 0 {
		since = 0
	}

	msgs, count := s.repo.GetMessages(ctx, req.VaultID, since)
	return &GetMessagesResponse{
		Messages:         msgs,
		ParticipantCount: count,
	}, nil
}

// AckMessagesRequest contains parameters for acknowledging messages.
type AckMessagesRequest struct {
	VaultID    string
	MessageIDs []string // nil when the client sent no list
	UserID     string
}

// AckMessages records the user's acknowledgement of the named messages.
func (s *RelayService) AckMessages(ctx context.Context, req *AckMessagesRequest) error {
	if !IsValidID(req.VaultID) || req.MessageIDs == nil || !IsValidUserID(req.UserID) {
		return domain.ErrInvalidArgument.WithDetails("invalid parameters")
	}
	if len(req.MessageIDs) > domain.MaxAckBatch {
		return domain.ErrAckBatchTooLarge
	}

	s.repo.AckMessages(ctx, req.VaultID, req.MessageIDs, req.UserID)
	return nil
}

// ============================================================================
// Account Operations
// ============================================================================

// NukeUserRequest contains parameters for wiping a user's footprint.
type NukeUserRequest struct {
	VaultIDs []string
	UserID   string
}

// NukeUser removes the user from every listed vault. Malformed vault ids are
// skipped; the call never fails. It returns the number of vaults destroyed.
func (s *RelayService) NukeUser(ctx context.Context, req *NukeUserRequest) int {
	vaultIDs := make([]string, 0, len(req.VaultIDs))
	for _, id := range req.VaultIDs {
		if IsValidID(id) {
			vaultIDs = append(vaultIDs, id)
		}
	}
	if len(vaultIDs) == 0 {
		return 0
	}
	return s.repo.NukeUser(ctx, vaultIDs, req.UserID)
}

// ============================================================================
// Introspection
// ============================================================================

// StatsResponse is the store summary plus process uptime.
type StatsResponse struct {
	domain.Stats
	Uptime time.Duration
}

// Stats returns the current store summary.
func (s *RelayService) Stats() *StatsResponse {
	return &StatsResponse{
		Stats:  s.repo.Stats(),
		Uptime: time.Since(s.startedAt),
	}
}
