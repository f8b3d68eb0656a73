package benchmark

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/redrabbit/vaultrelay/internal/core/domain"
	"github.com/redrabbit/vaultrelay/internal/storage/memory"
)

// VaultCounts defines the vault counts for full benchmark runs.
var VaultCounts = []int{1000, 10000, 50000, 100000}

// SmallVaultCounts for quick benchmarks.
var SmallVaultCounts = []int{100, 1000, 10000}

// blob is a representative ciphertext payload.
var blob = strings.Repeat("A", 2048)

func newID() string {
	return strings.ToLower(ulid.Make().String())
}

// stepClock is a Clock advanced by hand so sweeps find expired messages.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fixture is one prefilled vault.
type fixture struct {
	VaultID    string
	Users      []string
	MessageIDs []string
}

// prefillStore creates count public vaults with two participants and
// perVault messages each.
func prefillStore(ctx context.Context, store *memory.Store, count, perVault int) []fixture {
	vaults := make([]fixture, count)
	for i := range vaults {
		f := fixture{
			VaultID: fmt.Sprintf("bench-vault-%08d", i),
			Users:   []string{fmt.Sprintf("bench-user-a-%08d", i), fmt.Sprintf("bench-user-b-%08d", i)},
		}
		for _, u := range f.Users {
			store.CreateOrJoin(ctx, f.VaultID, domain.VaultPublic, u)
		}
		for j := 0; j < perVault; j++ {
			id := newID()
			store.PostMessage(ctx, id, f.VaultID, blob)
			f.MessageIDs = append(f.MessageIDs, id)
		}
		vaults[i] = f
	}
	return vaults
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithVaultCounts runs a benchmark function with various vault counts.
func runWithVaultCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("vaults_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
