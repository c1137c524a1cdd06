package api

import (
	"careercrafter/internal/config"
	"careercrafter/internal/errors"
	"careercrafter/internal/types"

	"github.com/sony/gobreaker/v2"
)

// FetchCircuitBreaker wraps fetch operations with circuit breaker
// protection. Fetches and actions trip independently so a broken
// mutation path does not blank out read views.
type FetchCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[[]byte]
}

// ActionCircuitBreaker wraps transition operations with circuit
// breaker protection.
type ActionCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[types.ActionResponse]
}

func breakerSettings(name string, cfg *config.CircuitBreakerConfig, logger *errors.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests &&
				failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
				"max_requests", cfg.MaxRequests,
				"failure_threshold", cfg.FailureThreshold)
		},
	}
}

// NewFetchCircuitBreaker creates a breaker for fetch operations.
// Returns nil when disabled, which Execute treats as pass-through.
func NewFetchCircuitBreaker(cfg *config.CircuitBreakerConfig, logger *errors.Logger) *FetchCircuitBreaker {
	if !cfg.Enabled {
		return nil
	}

	return &FetchCircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[[]byte](breakerSettings("Network-Fetch", cfg, logger)),
	}
}

// NewActionCircuitBreaker creates a breaker for transition operations.
func NewActionCircuitBreaker(cfg *config.CircuitBreakerConfig, logger *errors.Logger) *ActionCircuitBreaker {
	if !cfg.Enabled {
		return nil
	}

	return &ActionCircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[types.ActionResponse](breakerSettings("Network-Action", cfg, logger)),
	}
}

// Execute executes the provided function with circuit breaker protection
func (cb *FetchCircuitBreaker) Execute(fn func() ([]byte, error)) ([]byte, error) {
	if cb == nil || cb.cb == nil {
		return fn()
	}
	return cb.cb.Execute(fn)
}

// Execute executes the provided function with circuit breaker protection
func (cb *ActionCircuitBreaker) Execute(fn func() (types.ActionResponse, error)) (types.ActionResponse, error) {
	if cb == nil || cb.cb == nil {
		return fn()
	}
	return cb.cb.Execute(fn)
}

// GetStats returns circuit breaker statistics
func (cb *FetchCircuitBreaker) GetStats() map[string]any {
	if cb == nil || cb.cb == nil {
		return map[string]any{
			"enabled": false,
		}
	}

	return map[string]any{
		"name":    cb.cb.Name(),
		"state":   cb.cb.State().String(),
		"counts":  cb.cb.Counts(),
		"enabled": true,
	}
}

// GetStats returns circuit breaker statistics
func (cb *ActionCircuitBreaker) GetStats() map[string]any {
	if cb == nil || cb.cb == nil {
		return map[string]any{
			"enabled": false,
		}
	}

	return map[string]any{
		"name":    cb.cb.Name(),
		"state":   cb.cb.State().String(),
		"counts":  cb.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy returns true if the breaker is closed (or disabled)
func (cb *FetchCircuitBreaker) IsHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true
	}
	return cb.cb.State() == gobreaker.StateClosed
}

// IsHealthy returns true if the breaker is closed (or disabled)
func (cb *ActionCircuitBreaker) IsHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true
	}
	return cb.cb.State() == gobreaker.StateClosed
}
