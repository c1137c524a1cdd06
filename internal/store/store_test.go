package store

import (
	"context"
	"sync"
	"testing"

	"careercrafter/internal/errors"
	"careercrafter/internal/types"
)

// fakeClient implements api.Client with overridable behavior per
// method. Unset methods return empty results.
type fakeClient struct {
	fetchAllUsers      func(ctx context.Context, email string) ([]types.User, error)
	fetchSuggested     func(ctx context.Context, email string) ([]types.User, error)
	fetchPending       func(ctx context.Context, email string) ([]types.ConnectionRequest, error)
	fetchConnections   func(ctx context.Context, email string) ([]types.Connection, error)
	fetchSent          func(ctx context.Context, email string) ([]types.ConnectionRequest, error)
	sendConnectRequest func(ctx context.Context, sender, receiver string) (types.ActionResponse, error)
	acceptRequest      func(ctx context.Context, id, sender, receiver string) (types.ActionResponse, error)
	ignoreRequest      func(ctx context.Context, id, sender, receiver string) (types.ActionResponse, error)
	withdrawRequest    func(ctx context.Context, id, sender string) (types.ActionResponse, error)
	removeConnection   func(ctx context.Context, id, email string) (types.ActionResponse, error)

	mu    sync.Mutex
	calls []string
}

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeClient) FetchAllConnectedUsers(ctx context.Context, email string) ([]types.User, error) {
	f.record("FetchAllConnectedUsers")
	if f.fetchAllUsers != nil {
		return f.fetchAllUsers(ctx, email)
	}
	return nil, nil
}

func (f *fakeClient) FetchSuggestedUsers(ctx context.Context, email string) ([]types.User, error) {
	f.record("FetchSuggestedUsers")
	if f.fetchSuggested != nil {
		return f.fetchSuggested(ctx, email)
	}
	return nil, nil
}

func (f *fakeClient) FetchPendingRequests(ctx context.Context, email string) ([]types.ConnectionRequest, error) {
	f.record("FetchPendingRequests")
	if f.fetchPending != nil {
		return f.fetchPending(ctx, email)
	}
	return nil, nil
}

func (f *fakeClient) FetchUserConnections(ctx context.Context, email string) ([]types.Connection, error) {
	f.record("FetchUserConnections")
	if f.fetchConnections != nil {
		return f.fetchConnections(ctx, email)
	}
	return nil, nil
}

func (f *fakeClient) FetchSentRequests(ctx context.Context, email string) ([]types.ConnectionRequest, error) {
	f.record("FetchSentRequests")
	if f.fetchSent != nil {
		return f.fetchSent(ctx, email)
	}
	return nil, nil
}

func (f *fakeClient) SendConnectRequest(ctx context.Context, sender, receiver string) (types.ActionResponse, error) {
	f.record("SendConnectRequest")
	if f.sendConnectRequest != nil {
		return f.sendConnectRequest(ctx, sender, receiver)
	}
	return types.ActionResponse{Success: true}, nil
}

func (f *fakeClient) AcceptRequest(ctx context.Context, id, sender, receiver string) (types.ActionResponse, error) {
	f.record("AcceptRequest")
	if f.acceptRequest != nil {
		return f.acceptRequest(ctx, id, sender, receiver)
	}
	return types.ActionResponse{Success: true}, nil
}

func (f *fakeClient) IgnoreRequest(ctx context.Context, id, sender, receiver string) (types.ActionResponse, error) {
	f.record("IgnoreRequest")
	if f.ignoreRequest != nil {
		return f.ignoreRequest(ctx, id, sender, receiver)
	}
	return types.ActionResponse{Success: true}, nil
}

func (f *fakeClient) WithdrawRequest(ctx context.Context, id, sender string) (types.ActionResponse, error) {
	f.record("WithdrawRequest")
	if f.withdrawRequest != nil {
		return f.withdrawRequest(ctx, id, sender)
	}
	return types.ActionResponse{Success: true}, nil
}

func (f *fakeClient) RemoveConnection(ctx context.Context, id, email string) (types.ActionResponse, error) {
	f.record("RemoveConnection")
	if f.removeConnection != nil {
		return f.removeConnection(ctx, id, email)
	}
	return types.ActionResponse{Success: true}, nil
}

func newTestStore(t *testing.T, client *fakeClient) *Store {
	t.Helper()
	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return New(client, "a@x.com", logger)
}

func TestSendConnectRequestRejectsSelfConnection(t *testing.T) {
	client := &fakeClient{}
	s := newTestStore(t, client)

	tests := []struct {
		name     string
		receiver string
	}{
		{name: "identical email", receiver: "a@x.com"},
		{name: "case differs", receiver: "A@X.COM"},
		{name: "surrounding whitespace", receiver: "  a@x.com  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SendConnectRequest(context.Background(), tt.receiver)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			appErr, ok := err.(*errors.AppError)
			if !ok || appErr.Type != errors.ErrorTypeValidation {
				t.Errorf("expected validation error, got %v", err)
			}
			if client.callCount() != 0 {
				t.Errorf("network call issued for self-connection: %v", client.calls)
			}

			snap := s.Snapshot()
			if snap.IsActionLoading || snap.Error != "" {
				t.Errorf("store mutated by rejected validation: %+v", snap)
			}
		})
	}
}

func TestSendConnectRequestOptimisticallyRemovesReceiver(t *testing.T) {
	client := &fakeClient{
		fetchAllUsers: func(ctx context.Context, email string) ([]types.User, error) {
			return []types.User{{ID: "u1", Email: "b@x.com"}, {ID: "u2", Email: "c@x.com"}}, nil
		},
		fetchSuggested: func(ctx context.Context, email string) ([]types.User, error) {
			return []types.User{{ID: "u1", Email: "b@x.com"}}, nil
		},
		sendConnectRequest: func(ctx context.Context, sender, receiver string) (types.ActionResponse, error) {
			return types.ActionResponse{Success: true, Message: "request sent"}, nil
		},
	}
	s := newTestStore(t, client)
	ctx := context.Background()

	if err := s.FetchAllConnectedUsers(ctx); err != nil {
		t.Fatalf("fetch users: %v", err)
	}
	if err := s.FetchSuggestedUsers(ctx); err != nil {
		t.Fatalf("fetch suggested: %v", err)
	}

	if err := s.SendConnectRequest(ctx, "b@x.com"); err != nil {
		t.Fatalf("send: %v", err)
	}

	snap := s.Snapshot()
	if snap.SuccessMessage != "request sent" {
		t.Errorf("successMessage = %q, want %q", snap.SuccessMessage, "request sent")
	}
	if len(snap.Users) != 1 || snap.Users[0].Email != "c@x.com" {
		t.Errorf("receiver not removed from users: %+v", snap.Users)
	}
	if len(snap.SuggestedUsers) != 0 {
		t.Errorf("receiver not removed from suggestedUsers: %+v", snap.SuggestedUsers)
	}
}

func TestSendConnectRequestFailureLeavesCandidateLists(t *testing.T) {
	client := &fakeClient{
		fetchAllUsers: func(ctx context.Context, email string) ([]types.User, error) {
			return []types.User{{ID: "u1", Email: "b@x.com"}}, nil
		},
		sendConnectRequest: func(ctx context.Context, sender, receiver string) (types.ActionResponse, error) {
			return types.ActionResponse{}, errors.NewServerError(errors.ErrCodeServerFailure, "already requested", nil)
		},
	}
	s := newTestStore(t, client)
	ctx := context.Background()

	if err := s.FetchAllConnectedUsers(ctx); err != nil {
		t.Fatalf("fetch users: %v", err)
	}

	if err := s.SendConnectRequest(ctx, "b@x.com"); err == nil {
		t.Fatal("expected error")
	}

	snap := s.Snapshot()
	if snap.Error != "already requested" {
		t.Errorf("error = %q, want server message verbatim", snap.Error)
	}
	if len(snap.Users) != 1 {
		t.Errorf("candidate list mutated on failure: %+v", snap.Users)
	}
	if snap.IsActionLoading {
		t.Error("isActionLoading still set after rejection")
	}
}

func TestAcceptRequestEndToEnd(t *testing.T) {
	client := &fakeClient{
		fetchPending: func(ctx context.Context, email string) ([]types.ConnectionRequest, error) {
			return []types.ConnectionRequest{{ID: "r1", SenderEmail: "a@x.com", ReceiverEmail: "b@x.com"}}, nil
		},
		acceptRequest: func(ctx context.Context, id, sender, receiver string) (types.ActionResponse, error) {
			return types.ActionResponse{Success: true, Message: "connected"}, nil
		},
	}
	s := newTestStore(t, client)
	ctx := context.Background()

	if err := s.FetchPendingRequests(ctx); err != nil {
		t.Fatalf("fetch pending: %v", err)
	}

	if err := s.AcceptRequest(ctx, "r1", "a@x.com"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	snap := s.Snapshot()
	if snap.IsActionLoading {
		t.Error("isActionLoading = true, want false")
	}
	if snap.Error != "" {
		t.Errorf("error = %q, want empty", snap.Error)
	}
	if snap.SuccessMessage != "connected" {
		t.Errorf("successMessage = %q, want %q", snap.SuccessMessage, "connected")
	}
	if len(snap.PendingRequests) != 0 {
		t.Errorf("pendingRequests = %+v, want empty", snap.PendingRequests)
	}
	// No connection is synthesized locally; it appears only after a
	// later connections fetch.
	if len(snap.Connections) != 0 {
		t.Errorf("connections synthesized locally: %+v", snap.Connections)
	}
}

func TestAcceptRequestServerFailureLeavesPending(t *testing.T) {
	client := &fakeClient{
		fetchPending: func(ctx context.Context, email string) ([]types.ConnectionRequest, error) {
			return []types.ConnectionRequest{{ID: "r1", SenderEmail: "a@x.com", ReceiverEmail: "b@x.com"}}, nil
		},
		acceptRequest: func(ctx context.Context, id, sender, receiver string) (types.ActionResponse, error) {
			return types.ActionResponse{Success: false, Message: "request expired"},
				errors.NewServerError(errors.ErrCodeServerFailure, "request expired", nil)
		},
	}
	s := newTestStore(t, client)
	ctx := context.Background()

	if err := s.FetchPendingRequests(ctx); err != nil {
		t.Fatalf("fetch pending: %v", err)
	}

	if err := s.AcceptRequest(ctx, "r1", "a@x.com"); err == nil {
		t.Fatal("expected error")
	}

	snap := s.Snapshot()
	if len(snap.PendingRequests) != 1 || snap.PendingRequests[0].ID != "r1" {
		t.Errorf("pendingRequests mutated on failure: %+v", snap.PendingRequests)
	}
	if snap.Error != "request expired" {
		t.Errorf("error = %q, want %q", snap.Error, "request expired")
	}
}

func TestAcceptRemovalIsIdempotent(t *testing.T) {
	client := &fakeClient{}
	s := newTestStore(t, client)
	ctx := context.Background()

	// r1 was never in pendingRequests; accepting it is a no-op
	// removal, not an error.
	if err := s.AcceptRequest(ctx, "r1", "b@x.com"); err != nil {
		t.Fatalf("accept of absent request errored: %v", err)
	}

	snap := s.Snapshot()
	if snap.Error != "" {
		t.Errorf("error = %q, want empty", snap.Error)
	}
	if len(snap.PendingRequests) != 0 {
		t.Errorf("pendingRequests = %+v, want empty", snap.PendingRequests)
	}
}

func TestIgnoreRequestRemovesFromPending(t *testing.T) {
	client := &fakeClient{
		fetchPending: func(ctx context.Context, email string) ([]types.ConnectionRequest, error) {
			return []types.ConnectionRequest{
				{ID: "r1", SenderEmail: "b@x.com"},
				{ID: "r2", SenderEmail: "c@x.com"},
			}, nil
		},
		ignoreRequest: func(ctx context.Context, id, sender, receiver string) (types.ActionResponse, error) {
			return types.ActionResponse{Success: true, Message: "ignored"}, nil
		},
	}
	s := newTestStore(t, client)
	ctx := context.Background()

	if err := s.FetchPendingRequests(ctx); err != nil {
		t.Fatalf("fetch pending: %v", err)
	}
	if err := s.IgnoreRequest(ctx, "r1", "b@x.com"); err != nil {
		t.Fatalf("ignore: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.PendingRequests) != 1 || snap.PendingRequests[0].ID != "r2" {
		t.Errorf("pendingRequests = %+v, want only r2", snap.PendingRequests)
	}
	// Ignore never creates a connection.
	if len(snap.Connections) != 0 {
		t.Errorf("connections = %+v, want empty", snap.Connections)
	}
}

func TestWithdrawRequestRemovesFromSent(t *testing.T) {
	client := &fakeClient{
		fetchSent: func(ctx context.Context, email string) ([]types.ConnectionRequest, error) {
			return []types.ConnectionRequest{{ID: "r9", SenderEmail: "a@x.com", ReceiverEmail: "z@x.com"}}, nil
		},
		withdrawRequest: func(ctx context.Context, id, sender string) (types.ActionResponse, error) {
			return types.ActionResponse{Success: true, Message: "withdrawn"}, nil
		},
	}
	s := newTestStore(t, client)
	ctx := context.Background()

	if err := s.FetchSentRequests(ctx); err != nil {
		t.Fatalf("fetch sent: %v", err)
	}
	if err := s.WithdrawRequest(ctx, "r9"); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.SentRequests) != 0 {
		t.Errorf("sentRequests = %+v, want empty", snap.SentRequests)
	}
	if snap.SuccessMessage != "withdrawn" {
		t.Errorf("successMessage = %q, want %q", snap.SuccessMessage, "withdrawn")
	}
}

func TestRemoveConnectionOptimisticWithConfirm(t *testing.T) {
	client := &fakeClient{
		fetchConnections: func(ctx context.Context, email string) ([]types.Connection, error) {
			return []types.Connection{{ID: "c1"}, {ID: "c2"}}, nil
		},
		removeConnection: func(ctx context.Context, id, email string) (types.ActionResponse, error) {
			return types.ActionResponse{Success: true, Message: "removed"}, nil
		},
	}
	s := newTestStore(t, client)
	ctx := context.Background()

	if err := s.FetchUserConnections(ctx); err != nil {
		t.Fatalf("fetch connections: %v", err)
	}
	if err := s.RemoveConnection(ctx, "c1"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Connections) != 1 || snap.Connections[0].ID != "c2" {
		t.Errorf("connections = %+v, want only c2", snap.Connections)
	}
	if len(snap.PendingRemovals) != 0 {
		t.Errorf("pendingRemovals = %+v, want empty after confirm", snap.PendingRemovals)
	}
}

func TestRemoveConnectionRollsBackOnFailure(t *testing.T) {
	client := &fakeClient{
		fetchConnections: func(ctx context.Context, email string) ([]types.Connection, error) {
			return []types.Connection{{ID: "c1"}, {ID: "c2"}}, nil
		},
		removeConnection: func(ctx context.Context, id, email string) (types.ActionResponse, error) {
			return types.ActionResponse{}, errors.NewServerError(errors.ErrCodeServerFailure, "not allowed", nil)
		},
	}
	s := newTestStore(t, client)
	ctx := context.Background()

	if err := s.FetchUserConnections(ctx); err != nil {
		t.Fatalf("fetch connections: %v", err)
	}
	if err := s.RemoveConnection(ctx, "c1"); err == nil {
		t.Fatal("expected error")
	}

	snap := s.Snapshot()
	if len(snap.Connections) != 2 {
		t.Errorf("connection not restored after failed confirmation: %+v", snap.Connections)
	}
	if snap.Error != "not allowed" {
		t.Errorf("error = %q, want %q", snap.Error, "not allowed")
	}
	if len(snap.PendingRemovals) != 0 {
		t.Errorf("pendingRemovals = %+v, want empty after rollback", snap.PendingRemovals)
	}
}

// Two fetches of the same collection racing: the one whose resolution
// lands last wins, regardless of issue order.
func TestLastWriterWinsUnderRace(t *testing.T) {
	firstRelease := make(chan struct{})
	secondRelease := make(chan struct{})
	var call int
	var mu sync.Mutex

	client := &fakeClient{
		fetchConnections: func(ctx context.Context, email string) ([]types.Connection, error) {
			mu.Lock()
			call++
			n := call
			mu.Unlock()

			if n == 1 {
				<-firstRelease
				return []types.Connection{{ID: "from-first-call"}}, nil
			}
			<-secondRelease
			return []types.Connection{{ID: "from-second-call"}}, nil
		},
	}
	s := newTestStore(t, client)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	done := make(chan struct{}, 2)
	go func() {
		defer wg.Done()
		_ = s.FetchUserConnections(ctx)
		done <- struct{}{}
	}()
	go func() {
		defer wg.Done()
		_ = s.FetchUserConnections(ctx)
		done <- struct{}{}
	}()

	// Second-issued call resolves first, then the first-issued call
	// lands last.
	close(secondRelease)
	<-done
	close(firstRelease)
	<-done
	wg.Wait()

	snap := s.Snapshot()
	if len(snap.Connections) != 1 || snap.Connections[0].ID != "from-first-call" {
		t.Errorf("connections = %+v, want the last-resolving call's payload", snap.Connections)
	}
}

func TestFetchReplacesCollectionWholesale(t *testing.T) {
	payloads := [][]types.User{
		{{ID: "u1"}, {ID: "u2"}},
		{{ID: "u3"}},
	}
	var call int
	client := &fakeClient{
		fetchAllUsers: func(ctx context.Context, email string) ([]types.User, error) {
			p := payloads[call]
			call++
			return p, nil
		},
	}
	s := newTestStore(t, client)
	ctx := context.Background()

	if err := s.FetchAllConnectedUsers(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.FetchAllConnectedUsers(ctx); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	if len(snap.Users) != 1 || snap.Users[0].ID != "u3" {
		t.Errorf("users = %+v, want wholesale replacement by second payload", snap.Users)
	}
}

func TestFetchFailureSetsErrorAndKeepsCollection(t *testing.T) {
	failing := false
	client := &fakeClient{
		fetchPending: func(ctx context.Context, email string) ([]types.ConnectionRequest, error) {
			if failing {
				return nil, errors.NewTransportError(errors.ErrCodeNoServerResponse, "no response from server", nil)
			}
			return []types.ConnectionRequest{{ID: "r1"}}, nil
		},
	}
	s := newTestStore(t, client)
	ctx := context.Background()

	if err := s.FetchPendingRequests(ctx); err != nil {
		t.Fatal(err)
	}

	failing = true
	if err := s.FetchPendingRequests(ctx); err == nil {
		t.Fatal("expected error")
	}

	snap := s.Snapshot()
	if snap.Error != "no response from server" {
		t.Errorf("error = %q, want transport message", snap.Error)
	}
	if len(snap.PendingRequests) != 1 {
		t.Errorf("pendingRequests = %+v, want previous payload preserved", snap.PendingRequests)
	}
	if snap.IsLoading {
		t.Error("isLoading still set after rejection")
	}
}
