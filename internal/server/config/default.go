// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr        = "0.0.0.0:3000"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultMaxBodyBytes    = 2 << 20 // 2 MiB
	DefaultSweepInterval   = time.Hour
	DefaultMessageTTL      = 7 * 24 * time.Hour
	DefaultMaxMessages     = 2000
	DefaultMaxAckBatch     = 500
	DefaultShardCount      = 16
	DefaultGlobalPerMinute = 300
	DefaultWritePerMinute  = 60
	DefaultCreatePerMinute = 10
	DefaultNukePerMinute   = 3
	DefaultReadPerMinute   = 1800

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:         DefaultHTTPAddr,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
				IdleTimeout:  DefaultIdleTimeout,
				MaxBodyBytes: DefaultMaxBodyBytes,
			},
		},
		Relay: RelaySection{
			SweepInterval:       DefaultSweepInterval,
			MessageTTL:          DefaultMessageTTL,
			MaxMessagesPerVault: DefaultMaxMessages,
			MaxAckBatch:         DefaultMaxAckBatch,
			ShardCount:          DefaultShardCount,
		},
		RateLimit: RateLimitSection{
			Enabled:         true,
			GlobalPerMinute: DefaultGlobalPerMinute,
			WritePerMinute:  DefaultWritePerMinute,
			CreatePerMinute: DefaultCreatePerMinute,
			NukePerMinute:   DefaultNukePerMinute,
			ReadPerMinute:   DefaultReadPerMinute,
		},
		CORS: CORSSection{
			AllowedOrigins: []string{"*"},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
