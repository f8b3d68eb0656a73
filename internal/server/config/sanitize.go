package config

import "slices"

// redactedSecret replaces secret values in sanitized configs.
const redactedSecret = "[set]"

// Sanitize returns a copy of cfg that is safe to log. Secrets are replaced
// by a marker that only tells whether they are configured.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	out := *cfg
	out.CORS.AllowedOrigins = slices.Clone(cfg.CORS.AllowedOrigins)

	if out.Security.AdminToken != "" {
		out.Security.AdminToken = redactedSecret
	}

	return &out
}
