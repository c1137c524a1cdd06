// Package api implements the HTTP client for the Career Crafter
// network backend.
package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"net/http"
	"net/url"
	"time"

	"careercrafter/internal/config"
	ccErrors "careercrafter/internal/errors"
	"careercrafter/internal/types"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// Client is the backend surface the network store depends on.
type Client interface {
	FetchAllConnectedUsers(ctx context.Context, email string) ([]types.User, error)
	FetchSuggestedUsers(ctx context.Context, email string) ([]types.User, error)
	FetchPendingRequests(ctx context.Context, email string) ([]types.ConnectionRequest, error)
	FetchUserConnections(ctx context.Context, email string) ([]types.Connection, error)
	FetchSentRequests(ctx context.Context, email string) ([]types.ConnectionRequest, error)
	SendConnectRequest(ctx context.Context, senderEmail, receiverEmail string) (types.ActionResponse, error)
	AcceptRequest(ctx context.Context, requestID, senderEmail, receiverEmail string) (types.ActionResponse, error)
	IgnoreRequest(ctx context.Context, requestID, senderEmail, receiverEmail string) (types.ActionResponse, error)
	WithdrawRequest(ctx context.Context, requestID, senderEmail string) (types.ActionResponse, error)
	RemoveConnection(ctx context.Context, connectionID, userEmail string) (types.ActionResponse, error)
}

// HTTPClient implements Client against the REST backend.
type HTTPClient struct {
	baseURL       string
	httpClient    *http.Client
	tokens        TokenSource
	limiter       *rate.Limiter
	fetchBreaker  *FetchCircuitBreaker
	actionBreaker *ActionCircuitBreaker
	maxRetries    int
	logger        *ccErrors.Logger
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)

// NewClient creates the authenticated client. It carries no explicit
// timeout; callers bound long operations through the context.
func NewClient(cfg *config.APIConfig, tokens TokenSource, logger *ccErrors.Logger) (*HTTPClient, error) {
	return newHTTPClient(cfg, tokens, 0, logger)
}

// NewUnauthenticated creates the pre-login client variant with the
// configured request timeout (30s by default).
func NewUnauthenticated(cfg *config.APIConfig, logger *ccErrors.Logger) (*HTTPClient, error) {
	return newHTTPClient(cfg, nil, cfg.Timeout, logger)
}

func newHTTPClient(cfg *config.APIConfig, tokens TokenSource, timeout time.Duration, logger *ccErrors.Logger) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, ccErrors.NewConfigError(ccErrors.ErrCodeInvalidConfig,
			"API base URL is required", nil)
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, ccErrors.NewConfigError(ccErrors.ErrCodeInvalidConfig,
			fmt.Sprintf("Invalid API base URL: %s", cfg.BaseURL), err)
	}

	var limiter *rate.Limiter
	if cfg.RateLimit.Enabled {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSec), cfg.RateLimit.BurstCapacity)
	}

	return &HTTPClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tokens:        tokens,
		limiter:       limiter,
		fetchBreaker:  NewFetchCircuitBreaker(&cfg.CircuitBreaker, logger),
		actionBreaker: NewActionCircuitBreaker(&cfg.CircuitBreaker, logger),
		maxRetries:    cfg.MaxRetries,
		logger:        logger,
	}, nil
}

// newRequest builds a request with the JSON and bearer headers applied
func (c *HTTPClient) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, ccErrors.NewClientError(ccErrors.ErrCodeRequestSetup,
				fmt.Sprintf("Failed to encode request body: %v", err), err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, ccErrors.NewClientError(ccErrors.ErrCodeRequestSetup,
			fmt.Sprintf("Failed to build request: %v", err), err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

// do executes one request and normalizes failures into the client
// error taxonomy: transport (no response), server-reported (response
// received, non-2xx) and client-side (setup) errors.
func (c *HTTPClient) do(req *http.Request) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, ccErrors.NewClientError(ccErrors.ErrCodeRequestSetup,
				fmt.Sprintf("Rate limiter wait aborted: %v", err), err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ccErrors.NewTransportError(ccErrors.ErrCodeNoServerResponse,
			"no response from server", err).
			WithContext("method", req.Method).
			WithContext("path", req.URL.Path)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Failed to close response body", "error", closeErr.Error())
		}
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ccErrors.NewTransportError(ccErrors.ErrCodeNoServerResponse,
			"no response from server", err)
	}

	// Auth failures are logged only; logout/redirect is another
	// component's job.
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.logger.Warn("Backend rejected credentials",
			"status", resp.StatusCode,
			"path", req.URL.Path)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serverErrorFromResponse(resp.StatusCode, payload)
	}

	return payload, nil
}

// serverErrorFromResponse extracts the body's message field when
// present, else falls back to a generic status message.
func serverErrorFromResponse(status int, payload []byte) error {
	var envelope types.ActionResponse
	if err := json.Unmarshal(payload, &envelope); err == nil && envelope.Message != "" {
		return ccErrors.NewServerError(ccErrors.ErrCodeServerFailure, envelope.Message, nil).
			WithContext("status", status)
	}
	return ccErrors.NewServerError(ccErrors.ErrCodeServerFailure,
		fmt.Sprintf("server error: %d", status), nil).
		WithContext("status", status)
}

// doFetch runs a GET through the fetch breaker with retry. Fetches are
// idempotent, so transient failures are retried with exponential
// backoff and jitter; transitions never are.
func (c *HTTPClient) doFetch(ctx context.Context, path string, query url.Values, out any) error {
	operation := "GET " + path

	payload, err := c.fetchBreaker.Execute(func() ([]byte, error) {
		return c.fetchWithRetry(ctx, operation, path, query)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return ccErrors.NewClientError(ccErrors.ErrCodeRequestSetup,
			fmt.Sprintf("Failed to decode response: %v", err), err).
			WithContext("operation", operation)
	}

	return nil
}

// fetchWithRetry executes a GET with retry logic and exponential backoff
func (c *HTTPClient) fetchWithRetry(ctx context.Context, operation, path string, query url.Values) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retrying fetch operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", c.maxRetries,
				"error", lastErr.Error())

			// Exponential backoff with jitter to prevent thundering herd
			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			jitter := time.Duration(jitterBig.Int64())
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
		if err != nil {
			return nil, err
		}

		payload, err := c.do(req)
		if err == nil {
			if attempt > 0 {
				c.logger.Info("Fetch succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt+1)
			}
			return payload, nil
		}

		lastErr = err

		if !isRetryableError(err) {
			c.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	return nil, lastErr
}

// isRetryableError determines if a fetch error should trigger a retry
func isRetryableError(err error) bool {
	var appErr *ccErrors.AppError
	if !errors.As(err, &appErr) {
		return false
	}

	switch appErr.Type {
	case ccErrors.ErrorTypeTransport:
		return true
	case ccErrors.ErrorTypeServer:
		if status, ok := appErr.Context["status"].(int); ok {
			return status == http.StatusTooManyRequests ||
				status == http.StatusInternalServerError ||
				status == http.StatusBadGateway ||
				status == http.StatusServiceUnavailable ||
				status == http.StatusGatewayTimeout
		}
	}
	return false
}

// doAction runs a mutating call through the action breaker, exactly
// once. A response with success=false is a server-reported failure.
func (c *HTTPClient) doAction(ctx context.Context, method, path string, body any) (types.ActionResponse, error) {
	return c.actionBreaker.Execute(func() (types.ActionResponse, error) {
		req, err := c.newRequest(ctx, method, path, nil, body)
		if err != nil {
			return types.ActionResponse{}, err
		}

		payload, err := c.do(req)
		if err != nil {
			return types.ActionResponse{}, err
		}

		var resp types.ActionResponse
		if err := json.Unmarshal(payload, &resp); err != nil {
			return types.ActionResponse{}, ccErrors.NewClientError(ccErrors.ErrCodeRequestSetup,
				fmt.Sprintf("Failed to decode response: %v", err), err)
		}

		if !resp.Success {
			message := resp.Message
			if message == "" {
				message = "server reported failure"
			}
			return resp, ccErrors.NewServerError(ccErrors.ErrCodeServerFailure, message, nil)
		}

		return resp, nil
	})
}

// ErrorMessage extracts the most specific user-facing message from an
// error: an AppError's message when present, else the error string.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *ccErrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
