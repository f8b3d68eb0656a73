package memory

import (
	"sort"
	"sync"

	"github.com/redrabbit/vaultrelay/internal/core/domain"
)

// entry is everything the store knows about one vault id. The mutex guards
// every field; an entry flagged removed has been unlinked from the index and
// must not be mutated again.
type entry struct {
	mu sync.RWMutex

	// vault is nil while the id is only a mailbox (messages posted before
	// anyone created or joined it).
	vault *domain.Vault

	// messages is ordered by Timestamp, which is also insertion order.
	messages []*domain.Message
	byID     map[string]*domain.Message

	lastTimestamp int64
	removed       bool
}

func newEntry() *entry {
	return &entry{byID: make(map[string]*domain.Message)}
}

func (e *entry) participantCount() int {
	if e.vault == nil {
		return 0
	}
	return len(e.vault.Participants)
}

// nextTimestamp returns a timestamp strictly greater than every timestamp
// previously issued for this entry.
func (e *entry) nextTimestamp(now int64) int64 {
	if now <= e.lastTimestamp {
		now = e.lastTimestamp + 1
	}
	e.lastTimestamp = now
	return now
}

// since returns the index of the first message newer than ts.
func (e *entry) since(ts int64) int {
	return sort.Search(len(e.messages), func(i int) bool {
		return e.messages[i].Timestamp > ts
	})
}

// retain keeps only messages for which keep returns true, preserving order.
func (e *entry) retain(keep func(m *domain.Message) bool) int {
	n := 0
	for _, m := range e.messages {
		if keep(m) {
			e.messages[n] = m
			n++
			continue
		}
		delete(e.byID, m.ID)
	}
	dropped := len(e.messages) - n
	clear(e.messages[n:])
	e.messages = e.messages[:n]
	return dropped
}

// trim drops the oldest messages beyond limit.
func (e *entry) trim(limit int) {
	over := len(e.messages) - limit
	if over <= 0 {
		return
	}
	for _, m := range e.messages[:over] {
		delete(e.byID, m.ID)
	}
	n := copy(e.messages, e.messages[over:])
	clear(e.messages[n:])
	e.messages = e.messages[:n]
}

func (e *entry) empty() bool {
	return len(e.messages) == 0 && e.participantCount() == 0
}
