package benchmark

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redrabbit/vaultrelay/internal/core/domain"
	"github.com/redrabbit/vaultrelay/internal/storage/memory"
)

// BenchmarkStoreJoin benchmarks vault creation and joining.
func BenchmarkStoreJoin(b *testing.B) {
	runWithVaultCounts(b, SmallVaultCounts, func(b *testing.B, count int) {
		ctx := context.Background()
		store := memory.New()
		prefillStore(ctx, store, count, 0)

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			vaultID := fmt.Sprintf("join-vault-%08d", i)
			if _, _, err := store.CreateOrJoin(ctx, vaultID, domain.VaultPrivate, "join-user-00000001"); err != nil {
				b.Fatalf("CreateOrJoin failed: %v", err)
			}
		}

		b.StopTimer()
		reportMemory(b, "mem")
	})
}

// BenchmarkStorePost benchmarks appending messages spread over vaults.
func BenchmarkStorePost(b *testing.B) {
	runWithVaultCounts(b, SmallVaultCounts, func(b *testing.B, count int) {
		ctx := context.Background()
		store := memory.New()
		vaults := prefillStore(ctx, store, count, 0)

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			store.PostMessage(ctx, newID(), vaults[i%len(vaults)].VaultID, blob)
		}
	})
}

// BenchmarkStoreGetMessages benchmarks a full fetch of a vault backlog.
func BenchmarkStoreGetMessages(b *testing.B) {
	for _, backlog := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("backlog_%d", backlog), func(b *testing.B) {
			ctx := context.Background()
			store := memory.New()
			vaults := prefillStore(ctx, store, 1, backlog)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				msgs, _ := store.GetMessages(ctx, vaults[0].VaultID, 0)
				if len(msgs) != backlog {
					b.Fatalf("got %d messages, want %d", len(msgs), backlog)
				}
			}
		})
	}
}

// BenchmarkStoreAck benchmarks a full acknowledgement cycle: post, then
// both participants ack.
func BenchmarkStoreAck(b *testing.B) {
	runWithVaultCounts(b, SmallVaultCounts, func(b *testing.B, count int) {
		ctx := context.Background()
		store := memory.New()
		vaults := prefillStore(ctx, store, count, 0)

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			f := vaults[i%len(vaults)]
			id := newID()
			store.PostMessage(ctx, id, f.VaultID, blob)
			for _, u := range f.Users {
				store.AckMessages(ctx, f.VaultID, []string{id}, u)
			}
		}
	})
}

// BenchmarkStoreParallel benchmarks mixed traffic across goroutines.
func BenchmarkStoreParallel(b *testing.B) {
	ctx := context.Background()
	store := memory.New()
	vaults := prefillStore(ctx, store, 1000, 5)

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			f := vaults[i%len(vaults)]
			switch i % 4 {
			case 0:
				store.PostMessage(ctx, newID(), f.VaultID, blob)
			case 1, 2:
				store.GetMessages(ctx, f.VaultID, 0)
			default:
				store.GetParticipantCount(ctx, f.VaultID)
			}
			i++
		}
	})
}

// BenchmarkStoreSweep benchmarks a sweep pass where every message is expired.
func BenchmarkStoreSweep(b *testing.B) {
	runWithVaultCounts(b, SmallVaultCounts, func(b *testing.B, count int) {
		ctx := context.Background()
		clock := &stepClock{now: time.Now()}

		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			b.StopTimer()
			store := memory.New(memory.WithClock(clock))
			prefillStore(ctx, store, count, 3)
			clock.Advance(domain.MessageTTL + time.Second)
			b.StartTimer()

			if _, err := store.Sweep(ctx); err != nil {
				b.Fatalf("Sweep failed: %v", err)
			}
		}
	})
}

// BenchmarkStoreStats benchmarks the aggregate snapshot.
func BenchmarkStoreStats(b *testing.B) {
	runWithVaultCounts(b, SmallVaultCounts, func(b *testing.B, count int) {
		ctx := context.Background()
		store := memory.New()
		prefillStore(ctx, store, count, 1)

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			if st := store.Stats(); st.Vaults != count {
				b.Fatalf("Vaults = %d, want %d", st.Vaults, count)
			}
		}
	})
}
