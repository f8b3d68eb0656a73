// Package metric provides Prometheus metrics for the relay.
//
//   - prometheus.go: registry, request and sweep metrics, HTTP handler
//   - collector.go: scrape-time gauges over the vault store
//
// Metrics are exposed at /metrics behind the admin token.
package metric
