package service

import (
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/redrabbit/vaultrelay/pkg/cmap"
)

// RateLimiterRegistry holds one token bucket per client key, each allowing
// perMinute requests per minute with an equal burst.
type RateLimiterRegistry struct {
	limiters  *cmap.Map[*visitor]
	perMinute int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // Unix nanoseconds
}

// NewRateLimiterRegistry creates a registry. perMinute must be positive.
func NewRateLimiterRegistry(perMinute int) *RateLimiterRegistry {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &RateLimiterRegistry{
		limiters:  cmap.New[*visitor](),
		perMinute: perMinute,
	}
}

// Allow consumes one token from key's bucket.
func (r *RateLimiterRegistry) Allow(key string, now time.Time) bool {
	v, _ := r.limiters.GetOrCreate(key, func() *visitor {
		return &visitor{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(r.perMinute)), r.perMinute),
		}
	})
	v.lastSeen.Store(now.UnixNano())
	return v.limiter.AllowN(now, 1)
}

// Limit returns the configured requests per minute.
func (r *RateLimiterRegistry) Limit() int {
	return r.perMinute
}

// Prune drops buckets idle for longer than idle and returns how many were
// removed.
func (r *RateLimiterRegistry) Prune(now time.Time, idle time.Duration) int {
	cutoff := now.Add(-idle).UnixNano()
	removed := 0
	for _, key := range r.limiters.Keys() {
		if r.limiters.DeleteIf(key, func(v *visitor) bool {
			return v.lastSeen.Load() < cutoff
		}) {
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked clients.
func (r *RateLimiterRegistry) Len() int {
	return r.limiters.Count()
}

// Clear removes all buckets.
func (r *RateLimiterRegistry) Clear() {
	r.limiters.Clear()
}
