package http

import (
	"sync"
	"time"
)

// rateLimiter caps room creations per minute across the process.
// A limit of zero disables it.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	counter int
	reset   *time.Ticker
}

func newRateLimiter(limit int) *rateLimiter {
	if limit <= 0 {
		return &rateLimiter{limit: 0}
	}
	rl := &rateLimiter{
		limit: limit,
		reset: time.NewTicker(time.Minute),
	}
	go func() {
		for range rl.reset.C {
			rl.mu.Lock()
			rl.counter = 0
			rl.mu.Unlock()
		}
	}()
	return rl
}

func (r *rateLimiter) allow() bool {
	if r == nil || r.limit <= 0 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	return r.counter <= r.limit
}
