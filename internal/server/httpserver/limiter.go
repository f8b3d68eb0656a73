package httpserver

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redrabbit/vaultrelay/internal/core/service"
	"github.com/redrabbit/vaultrelay/internal/server/config"
)

// Limiter is a named per-client request budget.
type Limiter struct {
	// Name labels rejections in metrics.
	Name string

	// Message is returned to rejected clients.
	Message string

	// SkipPreflight lets OPTIONS requests through uncounted.
	SkipPreflight bool

	registry *service.RateLimiterRegistry
}

// NewLimiter creates a limiter allowing perMinute requests per client.
// A non-positive perMinute yields a limiter that never rejects.
func NewLimiter(name, message string, perMinute int) *Limiter {
	l := &Limiter{Name: name, Message: message}
	if perMinute > 0 {
		l.registry = service.NewRateLimiterRegistry(perMinute)
	}
	return l
}

// retryAfter is the Retry-After value: seconds until one token refills.
func (l *Limiter) retryAfter() string {
	per := l.registry.Limit()
	secs := (60 + per - 1) / per
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// Limiters groups the relay's limiter classes.
type Limiters struct {
	Global *Limiter
	Write  *Limiter
	Create *Limiter
	Nuke   *Limiter
	Read   *Limiter
}

// NewLimiters builds the limiter classes from configuration. When rate
// limiting is disabled every class lets all requests through.
func NewLimiters(cfg config.RateLimitSection) *Limiters {
	perMinute := func(n int) int {
		if !cfg.Enabled {
			return 0
		}
		return n
	}

	global := NewLimiter("global", "Too many requests, please slow down.", perMinute(cfg.GlobalPerMinute))
	global.SkipPreflight = true

	return &Limiters{
		Global: global,
		Write:  NewLimiter("write", "Too many write requests, please slow down.", perMinute(cfg.WritePerMinute)),
		Create: NewLimiter("create", "Too many vault creation requests.", perMinute(cfg.CreatePerMinute)),
		Nuke:   NewLimiter("nuke", "Too many nuke requests.", perMinute(cfg.NukePerMinute)),
		Read:   NewLimiter("read", "Too many read requests, please slow down.", perMinute(cfg.ReadPerMinute)),
	}
}

func (l *Limiters) all() []*Limiter {
	return []*Limiter{l.Global, l.Write, l.Create, l.Nuke, l.Read}
}

// Prune drops client buckets idle for longer than idle and returns how many
// were removed across all classes.
func (l *Limiters) Prune(now time.Time, idle time.Duration) int {
	removed := 0
	for _, lim := range l.all() {
		if lim != nil && lim.registry != nil {
			removed += lim.registry.Prune(now, idle)
		}
	}
	return removed
}

// Tracked returns the number of client buckets held across all classes.
func (l *Limiters) Tracked() int {
	n := 0
	for _, lim := range l.all() {
		if lim != nil && lim.registry != nil {
			n += lim.registry.Len()
		}
	}
	return n
}

// RunJanitor prunes idle buckets every interval until ctx is done. A bucket
// idle for a full minute is back at its burst, so dropping it changes
// nothing for the client.
func (l *Limiters) RunJanitor(ctx context.Context, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := l.Prune(now, time.Minute); n > 0 && log != nil {
				log.Debug("pruned idle rate limit buckets", "removed", n, "tracked", l.Tracked())
			}
		}
	}
}
