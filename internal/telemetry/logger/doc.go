// Package logger provides structured logging for the relay.
//
//   - logger.go: slog handler setup and runtime level control
//   - context.go: Context-aware logging with request IDs
//   - redact.go: Sensitive data redaction
//
// Blobs, user tokens and admin credentials are redacted by attribute key,
// so callers cannot leak them by accident.
package logger
