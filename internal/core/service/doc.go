// Package service provides the relay's request-level logic.
//
// RelayService validates client input (id formats, blob size, ack batch
// size) and forwards each request to a VaultRepository. It holds no vault
// state of its own.
//
// RateLimiterRegistry tracks per-client token buckets for the HTTP layer.
package service
