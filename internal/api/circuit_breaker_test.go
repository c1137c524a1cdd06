package api

import (
	"testing"
	"time"

	stderrors "errors"

	"careercrafter/internal/config"
	ccErrors "careercrafter/internal/errors"
	"careercrafter/internal/types"
)

func breakerConfig() *config.CircuitBreakerConfig {
	return &config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		MinRequests:      3,
		FailureThreshold: 0.6,
	}
}

func TestIndependentCircuitBreakers(t *testing.T) {
	logger, err := ccErrors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	fetchCB := NewFetchCircuitBreaker(breakerConfig(), logger)
	actionCB := NewActionCircuitBreaker(breakerConfig(), logger)

	t.Run("FetchCircuitBreaker", func(t *testing.T) {
		stats := fetchCB.GetStats()

		name, ok := stats["name"].(string)
		if !ok {
			t.Fatal("Circuit breaker name not found")
		}
		if name != "Network-Fetch" {
			t.Errorf("Expected circuit breaker name 'Network-Fetch', got '%s'", name)
		}

		state, ok := stats["state"].(string)
		if !ok {
			t.Fatal("Circuit breaker state not found")
		}
		if state != "closed" {
			t.Errorf("Expected initial state 'closed', got '%s'", state)
		}

		enabled, ok := stats["enabled"].(bool)
		if !ok {
			t.Fatal("Circuit breaker enabled status not found")
		}
		if !enabled {
			t.Error("Circuit breaker should be enabled")
		}
	})

	t.Run("ActionCircuitBreaker", func(t *testing.T) {
		stats := actionCB.GetStats()

		name, ok := stats["name"].(string)
		if !ok {
			t.Fatal("Circuit breaker name not found")
		}
		if name != "Network-Action" {
			t.Errorf("Expected circuit breaker name 'Network-Action', got '%s'", name)
		}
	})

	// Verify that health states are independent: tripping the fetch
	// breaker must not affect the action breaker.
	t.Run("IndependentHealthStates", func(t *testing.T) {
		boom := stderrors.New("boom")
		for range 3 {
			_, _ = fetchCB.Execute(func() ([]byte, error) { return nil, boom })
		}

		if fetchCB.IsHealthy() {
			t.Error("Fetch circuit breaker should be open after repeated failures")
		}
		if !actionCB.IsHealthy() {
			t.Error("Action circuit breaker should be unaffected")
		}
	})
}

func TestCircuitBreakerDisabled(t *testing.T) {
	cfg := &config.CircuitBreakerConfig{Enabled: false}

	fetchCB := NewFetchCircuitBreaker(cfg, nil)
	if fetchCB != nil {
		t.Fatal("Fetch circuit breaker should be nil when disabled")
	}

	actionCB := NewActionCircuitBreaker(cfg, nil)
	if actionCB != nil {
		t.Fatal("Action circuit breaker should be nil when disabled")
	}

	// Nil receivers pass calls through unprotected.
	payload, err := fetchCB.Execute(func() ([]byte, error) { return []byte("ok"), nil })
	if err != nil || string(payload) != "ok" {
		t.Errorf("Execute() = (%q, %v), want pass-through", payload, err)
	}
	resp, err := actionCB.Execute(func() (types.ActionResponse, error) {
		return types.ActionResponse{Success: true}, nil
	})
	if err != nil || !resp.Success {
		t.Errorf("Execute() = (%+v, %v), want pass-through", resp, err)
	}
	if !fetchCB.IsHealthy() || !actionCB.IsHealthy() {
		t.Error("Disabled circuit breakers should report healthy")
	}

	stats := fetchCB.GetStats()
	if enabled, ok := stats["enabled"].(bool); !ok || enabled {
		t.Errorf("stats = %v, want enabled=false", stats)
	}
}
