package memory

import (
	"context"
	"time"

	"github.com/redrabbit/vaultrelay/internal/core/domain"
	"github.com/redrabbit/vaultrelay/pkg/cmap"
)

// Store holds vaults and their pending messages in memory.
//
// Each vault id maps to one entry guarded by its own lock; operations on
// different vaults never contend beyond the index shard lookup.
type Store struct {
	entries *cmap.Map[*entry]

	clock       Clock
	messageTTL  time.Duration
	maxMessages int
	maxAckBatch int
	shardCount  int
}

// Option configures the Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithMessageTTL sets the age after which Sweep drops a message.
func WithMessageTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.messageTTL = ttl
		}
	}
}

// WithMaxMessagesPerVault sets the backlog cap per vault.
func WithMaxMessagesPerVault(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxMessages = n
		}
	}
}

// WithMaxAckBatch sets how many ids a single AckMessages call processes.
func WithMaxAckBatch(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxAckBatch = n
		}
	}
}

// WithShardCount sets the number of index shards (power of 2).
func WithShardCount(n int) Option {
	return func(s *Store) {
		s.shardCount = n
	}
}

// New creates a new in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		clock:       SystemClock(),
		messageTTL:  domain.MessageTTL,
		maxMessages: domain.MaxMessagesPerVault,
		maxAckBatch: domain.MaxAckBatch,
		shardCount:  cmap.DefaultShardCount,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.entries = cmap.NewWithShards[*entry](s.shardCount)
	return s
}

func (s *Store) now() int64 {
	return s.clock.Now().UnixMilli()
}

// acquire returns the live entry for id, creating it if needed, with its
// write lock held.
func (s *Store) acquire(id string) *entry {
	for {
		e, _ := s.entries.GetOrCreate(id, newEntry)
		e.mu.Lock()
		if !e.removed {
			return e
		}
		e.mu.Unlock()
	}
}

// lockExisting returns the live entry for id with its write lock held, or
// false if no such entry exists.
func (s *Store) lockExisting(id string) (*entry, bool) {
	for {
		e, ok := s.entries.Get(id)
		if !ok {
			return nil, false
		}
		e.mu.Lock()
		if !e.removed {
			return e, true
		}
		e.mu.Unlock()
	}
}

// rlockExisting is lockExisting with a read lock.
func (s *Store) rlockExisting(id string) (*entry, bool) {
	for {
		e, ok := s.entries.Get(id)
		if !ok {
			return nil, false
		}
		e.mu.RLock()
		if !e.removed {
			return e, true
		}
		e.mu.RUnlock()
	}
}

// destroy unlinks e from the index. Caller holds e's write lock.
func (s *Store) destroy(id string, e *entry) {
	e.removed = true
	e.vault = nil
	e.messages = nil
	e.byID = nil
	s.entries.DeleteIf(id, func(cur *entry) bool { return cur == e })
}

// CreateOrJoin creates the vault if it does not exist and, when userID is
// non-empty, adds the user as a participant. The vault type is decided by the
// first call; later calls keep it. It returns the effective type and the
// participant count after the call.
func (s *Store) CreateOrJoin(_ context.Context, vaultID string, vaultType domain.VaultType, userID string) (domain.VaultType, int, error) {
	e := s.acquire(vaultID)
	defer e.mu.Unlock()

	if e.vault == nil {
		if vaultType != domain.VaultPrivate {
			vaultType = domain.VaultPublic
		}
		e.vault = domain.NewVault(vaultID, vaultType, s.now())
	}

	if userID != "" {
		if !e.vault.CanAdmit(userID) {
			return e.vault.Type, len(e.vault.Participants), domain.ErrVaultFull
		}
		e.vault.Participants[userID] = struct{}{}
	}

	return e.vault.Type, len(e.vault.Participants), nil
}

// Leave is a no-op. Participants are only removed by NukeUser.
func (s *Store) Leave(_ context.Context, _, _ string) {}

// PostMessage appends a message to the vault's list and returns its
// timestamp. Posting an id already present returns the original timestamp and
// changes nothing. The vault need not exist.
func (s *Store) PostMessage(_ context.Context, id, vaultID, blob string) int64 {
	e := s.acquire(vaultID)
	defer e.mu.Unlock()

	if m, ok := e.byID[id]; ok {
		return m.Timestamp
	}

	m := &domain.Message{
		ID:        id,
		VaultID:   vaultID,
		Blob:      blob,
		Timestamp: e.nextTimestamp(s.now()),
	}
	e.messages = append(e.messages, m)
	e.byID[id] = m
	e.trim(s.maxMessages)

	return m.Timestamp
}

// GetMessages returns messages newer than since in timestamp order, together
// with the current participant count. Unknown vaults yield nothing.
func (s *Store) GetMessages(_ context.Context, vaultID string, since int64) ([]domain.Message, int) {
	e, ok := s.rlockExisting(vaultID)
	if !ok {
		return []domain.Message{}, 0
	}
	defer e.mu.RUnlock()

	tail := e.messages[e.since(since):]
	out := make([]domain.Message, 0, len(tail))
	for _, m := range tail {
		out = append(out, m.Snapshot())
	}
	return out, e.participantCount()
}

// AckMessages records userID as having consumed each named message and
// deletes messages every current participant has acknowledged. Unknown ids
// are ignored, as are ids beyond the ack batch limit. It returns the number
// of messages deleted.
func (s *Store) AckMessages(_ context.Context, vaultID string, messageIDs []string, userID string) int {
	e, ok := s.lockExisting(vaultID)
	if !ok {
		return 0
	}
	defer e.mu.Unlock()

	if len(messageIDs) > s.maxAckBatch {
		messageIDs = messageIDs[:s.maxAckBatch]
	}

	participants := e.participantCount()
	done := make(map[string]struct{})
	for _, id := range messageIDs {
		m, ok := e.byID[id]
		if !ok {
			continue
		}
		m.Acknowledge(userID)
		if m.FullyAcknowledged(participants) {
			done[id] = struct{}{}
		}
	}

	if len(done) == 0 {
		return 0
	}
	return e.retain(func(m *domain.Message) bool {
		_, drop := done[m.ID]
		return !drop
	})
}

// GetParticipantCount returns the number of participants, 0 for unknown
// vaults.
func (s *Store) GetParticipantCount(_ context.Context, vaultID string) int {
	e, ok := s.rlockExisting(vaultID)
	if !ok {
		return 0
	}
	defer e.mu.RUnlock()
	return e.participantCount()
}

// NukeUser removes userID from each listed vault. Private vaults are
// destroyed outright. In a public vault the user acknowledges every pending
// message, messages that thereby reach full acknowledgement are deleted, the
// user is dropped, and the vault is destroyed once nobody is left. Unknown
// ids are skipped. It returns the number of vaults destroyed.
func (s *Store) NukeUser(_ context.Context, vaultIDs []string, userID string) int {
	destroyed := 0
	for _, id := range vaultIDs {
		if s.nukeOne(id, userID) {
			destroyed++
		}
	}
	return destroyed
}

func (s *Store) nukeOne(vaultID, userID string) bool {
	e, ok := s.lockExisting(vaultID)
	if !ok {
		return false
	}
	defer e.mu.Unlock()

	if e.vault == nil {
		return false
	}

	if e.vault.Type == domain.VaultPrivate {
		s.destroy(vaultID, e)
		return true
	}

	// The count is taken before the user leaves and a lone participant never
	// completes a message on its own.
	participants := len(e.vault.Participants)
	e.retain(func(m *domain.Message) bool {
		m.Acknowledge(userID)
		return !(participants > 1 && m.AckCount() >= participants)
	})

	delete(e.vault.Participants, userID)
	if len(e.vault.Participants) == 0 {
		s.destroy(vaultID, e)
		return true
	}
	return false
}

// Sweep drops expired and fully acknowledged messages and removes entries
// left with no messages and no participants. It locks one vault at a time and
// stops early when ctx is cancelled, returning what was done so far.
func (s *Store) Sweep(ctx context.Context) (domain.SweepResult, error) {
	var result domain.SweepResult

	for _, id := range s.entries.Keys() {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Add(s.sweepOne(id))
	}

	return result, nil
}

func (s *Store) sweepOne(id string) domain.SweepResult {
	var r domain.SweepResult

	e, ok := s.lockExisting(id)
	if !ok {
		return r
	}
	defer e.mu.Unlock()

	now := s.now()
	participants := e.participantCount()
	e.retain(func(m *domain.Message) bool {
		switch {
		case m.Expired(now, s.messageTTL):
			r.ExpiredMessages++
			return false
		case m.FullyAcknowledged(participants):
			r.AckedMessages++
			return false
		}
		return true
	})

	if e.empty() {
		s.destroy(id, e)
		r.RemovedVaults++
	}
	return r
}

// Stats computes a point-in-time summary. Mailbox entries contribute their
// messages but are not counted as vaults.
func (s *Store) Stats() domain.Stats {
	var st domain.Stats

	// Entries are locked after the index snapshot; destroy takes the entry
	// lock before the shard lock.
	for _, e := range s.entries.Values() {
		e.mu.RLock()
		if !e.removed {
			st.Messages += len(e.messages)
			if e.vault != nil {
				st.Vaults++
				st.Participants += len(e.vault.Participants)
				if e.vault.Type == domain.VaultPrivate {
					st.PrivateVaults++
				} else {
					st.PublicVaults++
				}
			}
		}
		e.mu.RUnlock()
	}

	return st
}
