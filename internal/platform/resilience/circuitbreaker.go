package resilience

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"funded/internal/platform/metrics"

	"github.com/sony/gobreaker"
)

// CircuitBreaker wraps gobreaker with Prometheus state tracking.
type CircuitBreaker struct {
	*gobreaker.CircuitBreaker
	name    string
	service string
}

func NewCircuitBreaker(name string, service string, logger *slog.Logger) *CircuitBreaker {
	if logger == nil {
		logger = slog.Default()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(cbName string, from gobreaker.State, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(service, cbName).Set(stateValue(to))
			logger.Warn("circuit breaker state changed",
				"event", "circuit_breaker_state_changed",
				"module", "platform/resilience",
				"layer", "platform",
				"circuit", cbName,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	metrics.CircuitBreakerState.WithLabelValues(service, name).Set(0)
	return &CircuitBreaker{
		CircuitBreaker: cb,
		name:           name,
		service:        service,
	}
}

// Execute runs fn through the breaker and counts failures.
func (cb *CircuitBreaker) Execute(fn func() (any, error)) (any, error) {
	result, err := cb.CircuitBreaker.Execute(fn)
	if err != nil {
		metrics.CircuitBreakerFailures.WithLabelValues(cb.service, cb.name).Inc()
		return result, FormatError(cb.name, err)
	}
	return result, nil
}

// FormatError names the breaker when it short-circuits a call. The gobreaker
// sentinel stays in the chain.
func FormatError(circuitName string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) {
		return fmt.Errorf("circuit breaker %s is open: %w", circuitName, err)
	}
	if errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("circuit breaker %s is half-open: %w", circuitName, err)
	}
	return err
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
