package service

import (
	"sync"
	"time"
)

const (
	defaultMaxAttempts     = 5
	defaultRateLimitWindow = 15 * time.Minute
)

// RateLimiter tracks failed login attempts per request origin in a sliding
// window. State is process-local and lost on restart: the limiter is a
// throttle, not an audit mechanism. A distributed deployment must
// externalize this state.
type RateLimiter struct {
	mu       sync.Mutex
	failures map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time
}

// NewRateLimiter builds a limiter allowing at most max failures per origin
// within window. Non-positive arguments fall back to 5 per 15 minutes.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	if max <= 0 {
		max = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultRateLimitWindow
	}
	return &RateLimiter{
		failures: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

// Allow reports whether origin may attempt a login. Entries older than the
// window are pruned first; an origin at or above the threshold is rejected
// before any credential check happens.
func (rl *RateLimiter) Allow(origin string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	recent := rl.prune(origin)
	return len(recent) < rl.max
}

// RecordFailure appends the current instant to the origin's failure list.
func (rl *RateLimiter) RecordFailure(origin string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.failures[origin] = append(rl.prune(origin), rl.now())
}

// Reset clears the origin's failures entirely. Called on successful login.
func (rl *RateLimiter) Reset(origin string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.failures, origin)
}

// prune drops failures outside the window. Caller must hold mu.
func (rl *RateLimiter) prune(origin string) []time.Time {
	cutoff := rl.now().Add(-rl.window)
	kept := rl.failures[origin][:0]
	for _, t := range rl.failures[origin] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(rl.failures, origin)
		return nil
	}
	rl.failures[origin] = kept
	return kept
}
