// Package domain defines the core domain models for the vault relay.
//
// Domain models are plain value objects without IO dependencies or
// framework coupling. This package contains:
//
//   - Vault: a named rendezvous point with a participant set
//   - Message: an opaque blob awaiting acknowledgement by every participant
//   - Stats / SweepResult: read-only views produced by the store
//   - Errors: domain-specific error definitions
//
// The relay never interprets message blobs; they are carried verbatim.
package domain
