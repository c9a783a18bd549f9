package utils

import (
	"sync"
	"time"
)

// RateLimiter controls the rate of command execution per user and command
type RateLimiter struct {
	limits map[string]*userLimit
	mu     sync.Mutex

	max    int
	window time.Duration
	now    func() time.Time
}

// userLimit tracks rate limiting for a specific user
type userLimit struct {
	windowStart time.Time
	count       int
}

// NewRateLimiter allows max invocations per window for each user/command pair
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limits: make(map[string]*userLimit),
		max:    max,
		window: window,
		now:    time.Now,
	}
}

// Allow checks if a user is allowed to execute a command
// Returns true if allowed, false if rate limited
func (rl *RateLimiter) Allow(userID, command string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	key := userID + ":" + command
	now := rl.now()

	limit, exists := rl.limits[key]
	if !exists || now.Sub(limit.windowStart) >= rl.window {
		rl.limits[key] = &userLimit{
			windowStart: now,
			count:       1,
		}
		return true
	}

	if limit.count >= rl.max {
		return false
	}

	limit.count++
	return true
}

// RetryAfter returns how long until the user can try again
func (rl *RateLimiter) RetryAfter(userID, command string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limit, exists := rl.limits[userID+":"+command]
	if !exists {
		return 0
	}

	elapsed := rl.now().Sub(limit.windowStart)
	if elapsed >= rl.window {
		return 0
	}

	return rl.window - elapsed
}

// Sweep drops buckets whose window has passed
func (rl *RateLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for k, v := range rl.limits {
		if now.Sub(v.windowStart) >= rl.window {
			delete(rl.limits, k)
		}
	}
}
