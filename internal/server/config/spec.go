// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for relay-server.
type ServerConfig struct {
	Server    ServerSection    `koanf:"server"`
	Relay     RelaySection     `koanf:"relay"`
	RateLimit RateLimitSection `koanf:"ratelimit"`
	CORS      CORSSection      `koanf:"cors"`
	Security  SecuritySection  `koanf:"security"`
	Log       LogSection       `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr         string        `koanf:"addr"`
	TLSCertFile  string        `koanf:"tls_cert_file"`
	TLSKeyFile   string        `koanf:"tls_key_file"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`

	// MaxBodyBytes caps request bodies; larger bodies are rejected with 413.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// TrustProxyHeaders takes the client IP from X-Forwarded-For or
	// X-Real-IP. Enable only behind a reverse proxy that sets them.
	TrustProxyHeaders bool `koanf:"trust_proxy_headers"`
}

// RelaySection configures the vault store and its sweeper.
type RelaySection struct {
	SweepInterval       time.Duration `koanf:"sweep_interval"`
	MessageTTL          time.Duration `koanf:"message_ttl"`
	MaxMessagesPerVault int           `koanf:"max_messages_per_vault"`
	MaxAckBatch         int           `koanf:"max_ack_batch"`

	// ShardCount is the number of index shards; must be a power of 2.
	ShardCount int `koanf:"shard_count"`
}

// RateLimitSection configures per-client request limits. All limits are
// requests per minute per client IP.
type RateLimitSection struct {
	Enabled         bool `koanf:"enabled"`
	GlobalPerMinute int  `koanf:"global_per_minute"`
	WritePerMinute  int  `koanf:"write_per_minute"`
	CreatePerMinute int  `koanf:"create_per_minute"`
	NukePerMinute   int  `koanf:"nuke_per_minute"`
	ReadPerMinute   int  `koanf:"read_per_minute"`
}

// CORSSection configures cross-origin access.
type CORSSection struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// SecuritySection configures security settings.
type SecuritySection struct {
	// AdminToken guards /admin and /metrics. Empty leaves them open.
	AdminToken string `koanf:"admin_token"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
