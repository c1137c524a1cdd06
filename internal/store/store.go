// Package store holds the client-side network state: cached user
// collections, pending connection requests and established
// connections, mutated only through the transition methods defined
// here.
package store

import (
	"context"
	"strings"
	"sync"

	"careercrafter/internal/api"
	"careercrafter/internal/errors"
	"careercrafter/internal/types"
)

// State is the network state container. Collections are replaced
// wholesale on successful fetches and mutated item-by-item only for
// the optimistic local removals described on each transition. Empty
// Error / SuccessMessage strings mean "none".
type State struct {
	IsLoading       bool                      `json:"isLoading"`
	IsActionLoading bool                      `json:"isActionLoading"`
	Users           []types.User              `json:"users"`
	SuggestedUsers  []types.User              `json:"suggestedUsers"`
	PendingRequests []types.ConnectionRequest `json:"pendingRequests"`
	Connections     []types.Connection        `json:"connections"`
	SentRequests    []types.ConnectionRequest `json:"sentRequests"`
	PendingRemovals []types.Connection        `json:"pendingRemovals,omitempty"`
	Error           string                    `json:"error,omitempty"`
	SuccessMessage  string                    `json:"successMessage,omitempty"`
}

// Store is an explicitly constructed state container. All reads are
// whole-collection snapshots; all writes go through the transition
// methods. A mutex serializes phase application, so concurrent
// operations interleave safely; whichever resolution lands last wins
// for any given field, and callers tolerate that by re-fetching.
type Store struct {
	mu     sync.Mutex
	state  State
	client api.Client
	logger *errors.Logger

	// userEmail is the authenticated identity; Send validates its
	// sender against it.
	userEmail string

	// pendingRemovals tags optimistically removed connections until
	// the server confirms, so a failed confirmation can restore them
	// instead of silently losing the row.
	pendingRemovals map[string]types.Connection
}

// New creates a store bound to the authenticated identity userEmail.
func New(client api.Client, userEmail string, logger *errors.Logger) *Store {
	return &Store{
		client:          client,
		userEmail:       userEmail,
		logger:          logger,
		pendingRemovals: make(map[string]types.Connection),
	}
}

// UserEmail returns the authenticated identity the store acts as.
func (s *Store) UserEmail() string { return s.userEmail }

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.state
	snap.Users = append([]types.User(nil), s.state.Users...)
	snap.SuggestedUsers = append([]types.User(nil), s.state.SuggestedUsers...)
	snap.PendingRequests = append([]types.ConnectionRequest(nil), s.state.PendingRequests...)
	snap.Connections = append([]types.Connection(nil), s.state.Connections...)
	snap.SentRequests = append([]types.ConnectionRequest(nil), s.state.SentRequests...)

	snap.PendingRemovals = nil
	for _, conn := range s.pendingRemovals {
		snap.PendingRemovals = append(snap.PendingRemovals, conn)
	}

	return snap
}

// phase helpers

func (s *Store) beginFetch() {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *Store) beginAction() {
	s.mu.Lock()
	s.state.IsActionLoading = true
	s.state.Error = ""
	s.mu.Unlock()
}

// resolveFetch applies a fetch resolution: loading flag down, target
// collection replaced wholesale by mutate.
func (s *Store) resolveFetch(mutate func(*State)) {
	s.mu.Lock()
	s.state.IsLoading = false
	mutate(&s.state)
	s.mu.Unlock()
}

func (s *Store) rejectFetch(operation string, err error) error {
	message := api.ErrorMessage(err)
	s.mu.Lock()
	s.state.IsLoading = false
	s.state.Error = message
	s.mu.Unlock()

	s.logger.LogError(err, "Fetch operation failed", "operation", operation)
	return err
}

func (s *Store) resolveAction(message string, mutate func(*State)) {
	s.mu.Lock()
	s.state.IsActionLoading = false
	s.state.SuccessMessage = message
	if mutate != nil {
		mutate(&s.state)
	}
	s.mu.Unlock()
}

func (s *Store) rejectAction(operation string, err error, mutate func(*State)) error {
	message := api.ErrorMessage(err)
	s.mu.Lock()
	s.state.IsActionLoading = false
	s.state.Error = message
	if mutate != nil {
		mutate(&s.state)
	}
	s.mu.Unlock()

	s.logger.LogError(err, "Network action failed", "operation", operation)
	return err
}

// Fetch operations. Each replaces its target collection wholesale on
// success and leaves it untouched on failure.

func (s *Store) FetchAllConnectedUsers(ctx context.Context) error {
	s.beginFetch()
	users, err := s.client.FetchAllConnectedUsers(ctx, s.userEmail)
	if err != nil {
		return s.rejectFetch("fetch_all_users", err)
	}
	s.resolveFetch(func(st *State) { st.Users = users })
	return nil
}

func (s *Store) FetchSuggestedUsers(ctx context.Context) error {
	s.beginFetch()
	users, err := s.client.FetchSuggestedUsers(ctx, s.userEmail)
	if err != nil {
		return s.rejectFetch("fetch_suggested_users", err)
	}
	s.resolveFetch(func(st *State) { st.SuggestedUsers = users })
	return nil
}

func (s *Store) FetchPendingRequests(ctx context.Context) error {
	s.beginFetch()
	requests, err := s.client.FetchPendingRequests(ctx, s.userEmail)
	if err != nil {
		return s.rejectFetch("fetch_pending_requests", err)
	}
	s.resolveFetch(func(st *State) { st.PendingRequests = requests })
	return nil
}

func (s *Store) FetchUserConnections(ctx context.Context) error {
	s.beginFetch()
	connections, err := s.client.FetchUserConnections(ctx, s.userEmail)
	if err != nil {
		return s.rejectFetch("fetch_connections", err)
	}
	s.resolveFetch(func(st *State) { st.Connections = connections })
	return nil
}

func (s *Store) FetchSentRequests(ctx context.Context) error {
	s.beginFetch()
	requests, err := s.client.FetchSentRequests(ctx, s.userEmail)
	if err != nil {
		return s.rejectFetch("fetch_sent_requests", err)
	}
	s.resolveFetch(func(st *State) { st.SentRequests = requests })
	return nil
}

// Transitions of the connection-request lifecycle. Every transition
// runs three phases: requested (action flag up, error cleared),
// resolved (flag down, success message set, collection mutated) or
// rejected (flag down, error set, collection untouched).

// SendConnectRequest sends a directed request to receiverEmail. A
// self-connection is rejected before any network call and without any
// store mutation. On success the receiver is optimistically dropped
// from the candidate lists; a request cannot be re-sent to someone
// already requested.
func (s *Store) SendConnectRequest(ctx context.Context, receiverEmail string) error {
	sender := strings.TrimSpace(s.userEmail)
	receiver := strings.TrimSpace(receiverEmail)

	if sender == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidEmail,
			"no authenticated sender identity", nil)
	}
	if strings.EqualFold(sender, receiver) {
		return errors.NewValidationError(errors.ErrCodeSelfConnect,
			"you cannot send a connection request to yourself", nil)
	}

	s.beginAction()
	resp, err := s.client.SendConnectRequest(ctx, sender, receiver)
	if err != nil {
		return s.rejectAction("send_connect_request", err, nil)
	}

	s.resolveAction(resp.Message, func(st *State) {
		st.Users = removeUserByEmail(st.Users, receiver)
		st.SuggestedUsers = removeUserByEmail(st.SuggestedUsers, receiver)
	})
	return nil
}

// AcceptRequest accepts the pending request requestID. The resulting
// connection is created server-side and shows up only after the next
// connections fetch; locally the request just leaves pendingRequests.
// Removal is a no-op when the id is already absent.
func (s *Store) AcceptRequest(ctx context.Context, requestID, senderEmail string) error {
	s.beginAction()
	resp, err := s.client.AcceptRequest(ctx, requestID, senderEmail, s.userEmail)
	if err != nil {
		return s.rejectAction("accept_request", err, nil)
	}

	s.resolveAction(resp.Message, func(st *State) {
		st.PendingRequests = removeRequestByID(st.PendingRequests, requestID)
	})
	return nil
}

// IgnoreRequest dismisses the pending request requestID; no connection
// is created.
func (s *Store) IgnoreRequest(ctx context.Context, requestID, senderEmail string) error {
	s.beginAction()
	resp, err := s.client.IgnoreRequest(ctx, requestID, senderEmail, s.userEmail)
	if err != nil {
		return s.rejectAction("ignore_request", err, nil)
	}

	s.resolveAction(resp.Message, func(st *State) {
		st.PendingRequests = removeRequestByID(st.PendingRequests, requestID)
	})
	return nil
}

// WithdrawRequest cancels the user's own outgoing request requestID.
func (s *Store) WithdrawRequest(ctx context.Context, requestID string) error {
	s.beginAction()
	resp, err := s.client.WithdrawRequest(ctx, requestID, s.userEmail)
	if err != nil {
		return s.rejectAction("withdraw_request", err, nil)
	}

	s.resolveAction(resp.Message, func(st *State) {
		st.SentRequests = removeRequestByID(st.SentRequests, requestID)
	})
	return nil
}

// RemoveConnection removes connectionID optimistically: the connection
// leaves the visible collection immediately but is tagged as a pending
// removal until the server confirms. A failed confirmation restores it
// and surfaces the error, so a lost row is never silent.
func (s *Store) RemoveConnection(ctx context.Context, connectionID string) error {
	s.mu.Lock()
	s.state.IsActionLoading = true
	s.state.Error = ""
	for i, conn := range s.state.Connections {
		if conn.ID == connectionID {
			s.pendingRemovals[connectionID] = conn
			s.state.Connections = append(s.state.Connections[:i:i], s.state.Connections[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	resp, err := s.client.RemoveConnection(ctx, connectionID, s.userEmail)
	if err != nil {
		return s.rejectAction("remove_connection", err, func(st *State) {
			if conn, ok := s.pendingRemovals[connectionID]; ok {
				st.Connections = append(st.Connections, conn)
				delete(s.pendingRemovals, connectionID)
			}
		})
	}

	s.resolveAction(resp.Message, func(st *State) {
		delete(s.pendingRemovals, connectionID)
	})
	return nil
}

func removeUserByEmail(users []types.User, email string) []types.User {
	out := users[:0:len(users)]
	for _, u := range users {
		if !strings.EqualFold(u.Email, email) {
			out = append(out, u)
		}
	}
	return out
}

func removeRequestByID(requests []types.ConnectionRequest, id string) []types.ConnectionRequest {
	out := requests[:0:len(requests)]
	for _, r := range requests {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}
