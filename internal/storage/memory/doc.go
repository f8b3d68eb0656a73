// Package memory provides the in-memory vault store for the relay.
//
// The store is the sole authority over vaults, their participants and
// pending messages. Nothing is persisted: a restart behaves like every vault
// expiring at once.
//
// Thread Safety:
//
// Vault ids are indexed in a sharded concurrent map (pkg/cmap). Each id owns
// an entry with its own RWMutex, and every operation touches exactly one
// entry under that lock, so different vaults proceed in parallel. Teardown
// flags the entry removed under its lock before unlinking it; an operation
// that finds a removed entry retries against a fresh one.
//
// Sweeper runs Store.Sweep on a fixed interval in the background.
package memory
