// Package cmap provides a concurrent map keyed by opaque string ids.
//
// The map is split into a power-of-two number of shards, each guarded by
// its own RWMutex. Keys are routed to shards with murmur3, so unrelated keys
// rarely contend on the same lock.
//
//   - Sharding: configurable shard count for parallelism
//   - Fine-grained locking: per-shard RWMutex
//   - Conditional removal: DeleteIf lets callers remove a value only while
//     the map still holds the instance they inspected
//   - Iteration: shard-by-shard, never holding more than one shard lock
//
// Usage:
//
//	m := cmap.New[*Entry]()
//	e, _ := m.GetOrCreate("vault-1", newEntry)
//	m.DeleteIf("vault-1", func(cur *Entry) bool { return cur == e })
package cmap
