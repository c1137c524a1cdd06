package api

import (
	"context"
	"net/http"
	"net/url"

	"careercrafter/internal/types"
)

func emailQuery(email string) url.Values {
	return url.Values{"email": []string{email}}
}

// FetchAllConnectedUsers lists every user the backend considers a
// connection candidate for email.
func (c *HTTPClient) FetchAllConnectedUsers(ctx context.Context, email string) ([]types.User, error) {
	var users []types.User
	if err := c.doFetch(ctx, "/network/all-connect-users", emailQuery(email), &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FetchSuggestedUsers lists suggested connections for email.
func (c *HTTPClient) FetchSuggestedUsers(ctx context.Context, email string) ([]types.User, error) {
	var users []types.User
	if err := c.doFetch(ctx, "/network/suggestion-connect", emailQuery(email), &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FetchPendingRequests lists requests awaiting email's decision.
func (c *HTTPClient) FetchPendingRequests(ctx context.Context, email string) ([]types.ConnectionRequest, error) {
	var requests []types.ConnectionRequest
	if err := c.doFetch(ctx, "/network/pending-requests", emailQuery(email), &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// FetchUserConnections lists email's established connections.
func (c *HTTPClient) FetchUserConnections(ctx context.Context, email string) ([]types.Connection, error) {
	var connections []types.Connection
	if err := c.doFetch(ctx, "/network/connections", emailQuery(email), &connections); err != nil {
		return nil, err
	}
	return connections, nil
}

// FetchSentRequests lists email's outgoing requests still pending.
func (c *HTTPClient) FetchSentRequests(ctx context.Context, email string) ([]types.ConnectionRequest, error) {
	var requests []types.ConnectionRequest
	if err := c.doFetch(ctx, "/network/sent-requests", emailQuery(email), &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// SendConnectRequest creates a directed request. The server enforces
// at most one active pending request per ordered (sender, receiver)
// pair; the client does not deduplicate.
func (c *HTTPClient) SendConnectRequest(ctx context.Context, senderEmail, receiverEmail string) (types.ActionResponse, error) {
	body := map[string]string{
		"senderEmail":   senderEmail,
		"receiverEmail": receiverEmail,
	}
	return c.doAction(ctx, http.MethodPost, "/network/send-connect-request", body)
}

// AcceptRequest resolves a pending request into a connection
// server-side.
func (c *HTTPClient) AcceptRequest(ctx context.Context, requestID, senderEmail, receiverEmail string) (types.ActionResponse, error) {
	body := map[string]string{
		"requestId":     requestID,
		"senderEmail":   senderEmail,
		"receiverEmail": receiverEmail,
	}
	return c.doAction(ctx, http.MethodPost, "/network/accept-request", body)
}

// IgnoreRequest dismisses a pending request without creating a
// connection.
func (c *HTTPClient) IgnoreRequest(ctx context.Context, requestID, senderEmail, receiverEmail string) (types.ActionResponse, error) {
	body := map[string]string{
		"requestId":     requestID,
		"senderEmail":   senderEmail,
		"receiverEmail": receiverEmail,
	}
	return c.doAction(ctx, http.MethodPost, "/network/ignore-request", body)
}

// WithdrawRequest cancels the sender's own outgoing request.
func (c *HTTPClient) WithdrawRequest(ctx context.Context, requestID, senderEmail string) (types.ActionResponse, error) {
	body := map[string]string{
		"requestId":   requestID,
		"senderEmail": senderEmail,
	}
	return c.doAction(ctx, http.MethodDelete, "/network/withdraw-request", body)
}

// RemoveConnection severs an established connection.
func (c *HTTPClient) RemoveConnection(ctx context.Context, connectionID, userEmail string) (types.ActionResponse, error) {
	body := map[string]string{
		"userEmail": userEmail,
	}
	return c.doAction(ctx, http.MethodDelete, "/network/connections/"+url.PathEscape(connectionID), body)
}
