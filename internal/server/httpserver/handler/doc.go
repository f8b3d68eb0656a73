// Package handler provides HTTP request handlers for the relay.
//
// This package contains handlers for all HTTP endpoints:
//
//   - vault.go: vault create, join, leave and participant count
//   - message.go: post, fetch, acknowledge and nuke
//   - dispatch.go: the single-endpoint POST /api form
//   - admin.go: stats and manual sweep
//   - health.go: liveness and the 404 fallback
//
// All handlers follow a consistent pattern:
//
//   - Decode the body leniently
//   - Call the relay service
//   - Answer with a {"success": ...} envelope
//   - Derive the HTTP status from the error code
package handler
