package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// PerClientLimiter keeps one token bucket per client key. Buckets idle for
// longer than maxInactive are dropped by Run.
type PerClientLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*clientLimiter
	limit       rate.Limit
	burst       int
	maxInactive time.Duration
	now         func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewPerClientLimiter allows ratePerSecond sustained requests per client with
// the given burst. A non-positive rate disables limiting.
func NewPerClientLimiter(ratePerSecond float64, burst int, maxInactive time.Duration) *PerClientLimiter {
	limit := rate.Limit(ratePerSecond)
	if ratePerSecond <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	if maxInactive <= 0 {
		maxInactive = 10 * time.Minute
	}
	return &PerClientLimiter{
		limiters:    make(map[string]*clientLimiter),
		limit:       limit,
		burst:       burst,
		maxInactive: maxInactive,
		now:         time.Now,
	}
}

// Allow consumes a token for clientID. When the bucket is empty it returns
// false and the wait until the next token.
func (c *PerClientLimiter) Allow(clientID string) (bool, time.Duration) {
	now := c.now()

	c.mu.Lock()
	entry, ok := c.limiters[clientID]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.limiters[clientID] = entry
	}
	entry.lastSeen = now
	c.mu.Unlock()

	reservation := entry.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, time.Second
	}
	delay := reservation.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	reservation.CancelAt(now)
	return false, delay
}

// Run sweeps idle clients until ctx is cancelled.
func (c *PerClientLimiter) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

// Sweep drops buckets that have not been used within maxInactive.
func (c *PerClientLimiter) Sweep() int {
	cutoff := c.now().Add(-c.maxInactive)
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for id, entry := range c.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(c.limiters, id)
			removed++
		}
	}
	return removed
}

func (c *PerClientLimiter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.limiters)
}
