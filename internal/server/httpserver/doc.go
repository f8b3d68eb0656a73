// Package httpserver provides the HTTP/HTTPS server for the relay.
//
// This package wires the relay API onto a chi router:
//
//   - Relay endpoints: /api/{type} and the dispatching POST /api
//   - Admin endpoints: /admin/stats, /admin/sweep, /metrics
//   - Health endpoint: /health
//
// Features:
//
//   - Per-IP rate limit classes (global, write, create, nuke, read)
//   - Request IDs, audit logging and Prometheus request metrics
//   - Body size limit, CORS and browser security headers
//   - Bearer-token guard for admin routes
//   - Graceful shutdown
package httpserver
