package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.HTTP.Addr != DefaultHTTPAddr {
		t.Errorf("HTTP.Addr = %q, want %q", cfg.Server.HTTP.Addr, DefaultHTTPAddr)
	}
	if cfg.Server.HTTP.MaxBodyBytes != 2*1024*1024 {
		t.Errorf("MaxBodyBytes = %d, want 2 MiB", cfg.Server.HTTP.MaxBodyBytes)
	}

	if cfg.Relay.SweepInterval != time.Hour {
		t.Errorf("SweepInterval = %v, want 1h", cfg.Relay.SweepInterval)
	}
	if cfg.Relay.MessageTTL != 7*24*time.Hour {
		t.Errorf("MessageTTL = %v, want 168h", cfg.Relay.MessageTTL)
	}
	if cfg.Relay.MaxMessagesPerVault != 2000 {
		t.Errorf("MaxMessagesPerVault = %d, want 2000", cfg.Relay.MaxMessagesPerVault)
	}
	if cfg.Relay.MaxAckBatch != 500 {
		t.Errorf("MaxAckBatch = %d, want 500", cfg.Relay.MaxAckBatch)
	}

	rl := cfg.RateLimit
	if !rl.Enabled || rl.GlobalPerMinute != 300 || rl.WritePerMinute != 60 ||
		rl.CreatePerMinute != 10 || rl.NukePerMinute != 3 || rl.ReadPerMinute != 1800 {
		t.Errorf("RateLimit = %+v", rl)
	}

	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("CORS.AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}

	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, DefaultLogFormat)
	}

	if err := Verify(cfg); err != nil {
		t.Errorf("Verify(Default()) = %v", err)
	}
}

func TestSanitize(t *testing.T) {
	cfg := Default()
	cfg.Security.AdminToken = "super-secret-token-1234567890"
	cfg.CORS.AllowedOrigins = []string{"https://app.example.com"}

	sanitized := Sanitize(cfg)

	if cfg.Security.AdminToken != "super-secret-token-1234567890" {
		t.Error("original config should not be modified")
	}
	if sanitized.Security.AdminToken != redactedSecret {
		t.Errorf("AdminToken = %q, want %q", sanitized.Security.AdminToken, redactedSecret)
	}

	sanitized.CORS.AllowedOrigins[0] = "mutated"
	if cfg.CORS.AllowedOrigins[0] != "https://app.example.com" {
		t.Error("sanitized copy shares the CORS origin slice")
	}
	if sanitized.Relay.MaxAckBatch != cfg.Relay.MaxAckBatch {
		t.Error("non-secret fields should be copied")
	}
}

func TestSanitize_EmptyToken(t *testing.T) {
	sanitized := Sanitize(&ServerConfig{})

	if sanitized.Security.AdminToken != "" {
		t.Error("empty token should remain empty")
	}
}

func TestVerify_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ServerConfig)
	}{
		{"bad addr", func(c *ServerConfig) { c.Server.HTTP.Addr = "no-port" }},
		{"cert without key", func(c *ServerConfig) { c.Server.HTTP.TLSCertFile = "/tmp/cert.pem" }},
		{"missing tls files", func(c *ServerConfig) {
			c.Server.HTTP.TLSCertFile = "/nonexistent/cert.pem"
			c.Server.HTTP.TLSKeyFile = "/nonexistent/key.pem"
		}},
		{"zero body limit", func(c *ServerConfig) { c.Server.HTTP.MaxBodyBytes = 0 }},
		{"zero sweep interval", func(c *ServerConfig) { c.Relay.SweepInterval = 0 }},
		{"zero ttl", func(c *ServerConfig) { c.Relay.MessageTTL = 0 }},
		{"zero backlog", func(c *ServerConfig) { c.Relay.MaxMessagesPerVault = 0 }},
		{"zero ack batch", func(c *ServerConfig) { c.Relay.MaxAckBatch = 0 }},
		{"shards not power of 2", func(c *ServerConfig) { c.Relay.ShardCount = 12 }},
		{"zero nuke limit", func(c *ServerConfig) { c.RateLimit.NukePerMinute = 0 }},
		{"bad log level", func(c *ServerConfig) { c.Log.Level = "verbose" }},
		{"bad log format", func(c *ServerConfig) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := Verify(cfg); err == nil {
				t.Error("expected Verify to fail")
			}
		})
	}
}

func TestVerify_RateLimitDisabled(t *testing.T) {
	cfg := Default()
	cfg.RateLimit.Enabled = false
	cfg.RateLimit.GlobalPerMinute = 0

	if err := Verify(cfg); err != nil {
		t.Errorf("limits should not be checked when disabled: %v", err)
	}
}

func TestVerify_TLSFiles(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "cert.pem")
	key := filepath.Join(dir, "key.pem")
	for _, f := range []string{cert, key} {
		if err := os.WriteFile(f, []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	cfg := Default()
	cfg.Server.HTTP.TLSCertFile = cert
	cfg.Server.HTTP.TLSKeyFile = key

	if err := Verify(cfg); err != nil {
		t.Errorf("Verify failed: %v", err)
	}
}
