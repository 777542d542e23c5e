package resilience

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	cb := NewCircuitBreaker("test-open", "funded-test", nil)
	failure := errors.New("upstream down")

	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() (any, error) { return nil, failure })
		require.ErrorIs(t, err, failure)
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	called := false
	_, err := cb.Execute(func() (any, error) {
		called = true
		return nil, nil
	})
	assert.False(t, called)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Contains(t, err.Error(), "test-open")
}

func TestCircuitBreakerPassesResultThrough(t *testing.T) {
	cb := NewCircuitBreaker("test-pass", "funded-test", nil)
	result, err := cb.Execute(func() (any, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}
