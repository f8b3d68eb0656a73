package logger

import (
	"log/slog"
	"strings"
)

// Attribute keys containing any of these substrings are redacted. Message
// blobs and user tokens must never reach logs; the relay is meant to be
// blind to both.
var sensitiveKeyPatterns = []string{
	"blob",
	"user_id",
	"userid",
	"password",
	"secret",
	"token",
	"authorization",
	"bearer",
}

// bearerPrefix marks an Authorization header value.
const bearerPrefix = "Bearer "

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive redacts attribute values whose key looks sensitive or
// whose value is a bearer credential. Groups are handled recursively.
func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		v := a.Value.String()
		if v == "" {
			return a
		}
		if strings.HasPrefix(v, bearerPrefix) || IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}

	case slog.KindGroup:
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}

	case slog.KindAny:
		if IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	}

	return a
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// Fingerprint returns a short, non-reversible-looking hint of an id for
// correlation in logs: the first and last four characters.
func Fingerprint(id string) string {
	if len(id) <= 8 {
		return "****"
	}
	return id[:4] + "…" + id[len(id)-4:]
}
