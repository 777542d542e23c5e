package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPerClientLimiterRejectsAfterBurst(t *testing.T) {
	limiter := NewPerClientLimiter(1, 3, time.Minute)
	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return fixed }

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow("203.0.113.7")
		assert.True(t, allowed, "request %d should pass", i)
	}
	allowed, retryAfter := limiter.Allow("203.0.113.7")
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))

	otherAllowed, _ := limiter.Allow("198.51.100.2")
	assert.True(t, otherAllowed, "clients must not share buckets")
}

func TestPerClientLimiterRefills(t *testing.T) {
	limiter := NewPerClientLimiter(2, 1, time.Minute)
	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	allowed, _ := limiter.Allow("c1")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("c1")
	assert.False(t, allowed)

	current = current.Add(600 * time.Millisecond)
	allowed, _ = limiter.Allow("c1")
	assert.True(t, allowed)
}

func TestPerClientLimiterConcurrentClient(t *testing.T) {
	limiter := NewPerClientLimiter(0.001, 5, time.Minute)
	var passed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Allow("shared"); ok {
				passed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(5), passed.Load())
}

func TestSweepRemovesIdleClients(t *testing.T) {
	limiter := NewPerClientLimiter(1, 1, time.Minute)
	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	limiter.Allow("old")
	current = current.Add(2 * time.Minute)
	limiter.Allow("fresh")

	assert.Equal(t, 1, limiter.Sweep())
	assert.Equal(t, 1, limiter.Len())
}
