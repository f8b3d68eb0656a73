// Package config defines the server configuration structure.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyRelay(&cfg.Relay); err != nil {
		return err
	}
	if err := verifyRateLimit(&cfg.RateLimit); err != nil {
		return err
	}
	if err := verifyLog(&cfg.Log); err != nil {
		return err
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		return fmt.Errorf("server.http.addr %q: %w", cfg.HTTP.Addr, err)
	}

	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	for _, f := range []string{cfg.HTTP.TLSCertFile, cfg.HTTP.TLSKeyFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("tls file: %w", err)
		}
	}

	if cfg.HTTP.MaxBodyBytes <= 0 {
		return errors.New("server.http.max_body_bytes must be positive")
	}
	return nil
}

func verifyRelay(cfg *RelaySection) error {
	if cfg.SweepInterval <= 0 {
		return errors.New("relay.sweep_interval must be positive")
	}
	if cfg.MessageTTL <= 0 {
		return errors.New("relay.message_ttl must be positive")
	}
	if cfg.MaxMessagesPerVault < 1 {
		return errors.New("relay.max_messages_per_vault must be at least 1")
	}
	if cfg.MaxAckBatch < 1 {
		return errors.New("relay.max_ack_batch must be at least 1")
	}
	if cfg.ShardCount < 1 || cfg.ShardCount&(cfg.ShardCount-1) != 0 {
		return errors.New("relay.shard_count must be a power of 2")
	}
	return nil
}

func verifyRateLimit(cfg *RateLimitSection) error {
	if !cfg.Enabled {
		return nil
	}
	limits := map[string]int{
		"global_per_minute": cfg.GlobalPerMinute,
		"write_per_minute":  cfg.WritePerMinute,
		"create_per_minute": cfg.CreatePerMinute,
		"nuke_per_minute":   cfg.NukePerMinute,
		"read_per_minute":   cfg.ReadPerMinute,
	}
	for name, v := range limits {
		if v < 1 {
			return fmt.Errorf("ratelimit.%s must be at least 1", name)
		}
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q is not json or text", cfg.Format)
	}
	return nil
}
