package domain

import "time"

// Relay limits.
const (
	// MaxMessagesPerVault caps the pending backlog of a single vault.
	// Posting beyond the cap drops the oldest messages.
	MaxMessagesPerVault = 2000

	// MessageTTL is the age after which a message is swept regardless of
	// acknowledgement state.
	MessageTTL = 7 * 24 * time.Hour

	// MaxBlobLength is the largest accepted blob, in UTF-16 code units.
	MaxBlobLength = 1_000_000

	// MaxAckBatch is the largest number of message ids accepted in one ack.
	MaxAckBatch = 500

	// MaxPrivateParticipants is the participant cap of a private vault.
	MaxPrivateParticipants = 2
)

// VaultType distinguishes two-party vaults from open ones.
type VaultType string

const (
	VaultPublic  VaultType = "public"
	VaultPrivate VaultType = "private"
)

// ParseVaultType maps any value other than "private" to VaultPublic.
func ParseVaultType(s string) VaultType {
	if s == string(VaultPrivate) {
		return VaultPrivate
	}
	return VaultPublic
}

// String implements fmt.Stringer.
func (t VaultType) String() string {
	return string(t)
}

// Vault is a named rendezvous point. The type is fixed by whoever creates
// the vault first.
type Vault struct {
	ID           string
	Type         VaultType
	CreatedAt    int64 // Unix milliseconds
	Participants map[string]struct{}
}

// NewVault returns an empty vault of the given type.
func NewVault(id string, t VaultType, createdAt int64) *Vault {
	return &Vault{
		ID:           id,
		Type:         t,
		CreatedAt:    createdAt,
		Participants: make(map[string]struct{}),
	}
}

// MaxParticipants returns the participant cap, or 0 when unbounded.
func (v *Vault) MaxParticipants() int {
	if v.Type == VaultPrivate {
		return MaxPrivateParticipants
	}
	return 0
}

// HasParticipant reports whether userID has joined the vault.
func (v *Vault) HasParticipant(userID string) bool {
	_, ok := v.Participants[userID]
	return ok
}

// CanAdmit reports whether userID may join without breaking the
// participant cap. Existing members are always admitted.
func (v *Vault) CanAdmit(userID string) bool {
	if v.HasParticipant(userID) {
		return true
	}
	limit := v.MaxParticipants()
	return limit == 0 || len(v.Participants) < limit
}

// Message is an opaque payload posted to a vault.
type Message struct {
	ID             string              `json:"id"`
	VaultID        string              `json:"vaultId"`
	Blob           string              `json:"blob"`
	Timestamp      int64               `json:"timestamp"` // Unix milliseconds, assigned by the store
	AcknowledgedBy map[string]struct{} `json:"-"`
}

// Acknowledge records userID as having consumed the message.
func (m *Message) Acknowledge(userID string) {
	if m.AcknowledgedBy == nil {
		m.AcknowledgedBy = make(map[string]struct{})
	}
	m.AcknowledgedBy[userID] = struct{}{}
}

// AckCount returns the number of distinct acknowledgers.
func (m *Message) AckCount() int {
	return len(m.AcknowledgedBy)
}

// FullyAcknowledged reports whether every one of participants recipients has
// consumed the message. A vault with no participants never qualifies.
func (m *Message) FullyAcknowledged(participants int) bool {
	return participants > 0 && len(m.AcknowledgedBy) >= participants
}

// Expired reports whether the message is older than ttl at now (Unix ms).
func (m *Message) Expired(now int64, ttl time.Duration) bool {
	return now-m.Timestamp > ttl.Milliseconds()
}

// Snapshot returns a copy safe to hand out of the store. The ack set is
// not carried.
func (m *Message) Snapshot() Message {
	return Message{
		ID:        m.ID,
		VaultID:   m.VaultID,
		Blob:      m.Blob,
		Timestamp: m.Timestamp,
	}
}

// Stats is a point-in-time view over the store.
type Stats struct {
	Vaults        int `json:"vaults"`
	PrivateVaults int `json:"privateVaults"`
	PublicVaults  int `json:"publicVaults"`
	Messages      int `json:"messages"`
	Participants  int `json:"totalParticipants"`
}

// SweepResult summarises one sweep pass.
type SweepResult struct {
	ExpiredMessages int `json:"expired"`
	AckedMessages   int `json:"acked"`
	RemovedVaults   int `json:"removedVaults"`
}

// Add accumulates other into r.
func (r *SweepResult) Add(other SweepResult) {
	r.ExpiredMessages += other.ExpiredMessages
	r.AckedMessages += other.AckedMessages
	r.RemovedVaults += other.RemovedVaults
}
