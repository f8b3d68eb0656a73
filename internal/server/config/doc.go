// Package config provides server configuration for the vault relay.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Business validation (addresses, limits, TLS files)
//   - sanitize.go: Log sanitization (hide the admin token)
//
// Configuration is loaded via internal/infra/confloader from a YAML file,
// a .env file and RELAY_-prefixed environment variables.
package config
