package backend

import (
	"sync"
	"time"
)

const (
	// DefaultRateLimit is the maximum number of generative calls allowed
	// per session per minute when no explicit limit is configured.
	DefaultRateLimit = 10

	defaultRateLimitWindow = time.Minute
)

// RateLimiter enforces a per-session sliding-window limit on generative
// calls. It is safe for concurrent use.
type RateLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	counters map[string][]time.Time // session -> call timestamps in window
}

// NewRateLimiter returns a RateLimiter that allows at most limit calls per
// key within window. Non-positive values fall back to the defaults.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	if window <= 0 {
		window = defaultRateLimitWindow
	}
	return &RateLimiter{
		limit:    limit,
		window:   window,
		counters: make(map[string][]time.Time),
	}
}

// Allow records a call for key and reports whether it is within quota.
func (r *RateLimiter) Allow(key string) bool {
	return r.allowAt(key, time.Now())
}

// allowAt is the time-injectable core of Allow.
func (r *RateLimiter) allowAt(key string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-r.window)
	existing := r.counters[key]
	valid := existing[:0]
	for _, t := range existing {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= r.limit {
		r.counters[key] = valid
		return false
	}
	r.counters[key] = append(valid, now)
	return true
}

// Forget drops the history of key, for sessions that have ended.
func (r *RateLimiter) Forget(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.counters, key)
}
