package engine

import (
	"sync"
	"time"
)

// RateLimiter is a fixed-window request counter keyed by an arbitrary
// string (typically a client IP). The counter for a key resets whenever a
// full window has elapsed since the window started.
//
// Fixed windows admit up to twice the limit across a window boundary.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*rateWindow
}

type rateWindow struct {
	count    int
	start    time.Time
	lastSeen time.Time
}

// NewRateLimiter creates a limiter. cleanupInterval <= 0 disables the
// background sweep of idle keys.
func NewRateLimiter(cleanupInterval time.Duration) *RateLimiter {
	rl := &RateLimiter{windows: make(map[string]*rateWindow)}
	if cleanupInterval > 0 {
		go rl.cleanupLoop(cleanupInterval)
	}
	return rl
}

// Allow reports whether a request under key fits within max requests per
// window, counting this call.
func (rl *RateLimiter) Allow(key string, max int, window time.Duration) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= window {
		rl.windows[key] = &rateWindow{count: 1, start: now, lastSeen: now}
		return max >= 1
	}
	w.lastSeen = now
	w.count++
	return w.count <= max
}

// TimeUntilReset returns how long until the current window for key resets.
// Zero if the key has no live window.
func (rl *RateLimiter) TimeUntilReset(key string, window time.Duration) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok {
		return 0
	}
	remaining := window - time.Since(w.start)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// cleanupLoop drops keys idle for more than an hour so the map does not
// grow without bound across long uptimes.
func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-time.Hour)
		rl.mu.Lock()
		for key, w := range rl.windows {
			if w.lastSeen.Before(cutoff) {
				delete(rl.windows, key)
			}
		}
		rl.mu.Unlock()
	}
}
