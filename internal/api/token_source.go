package api

import "sync/atomic"

// TokenSource supplies the bearer token for outgoing requests.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource for a token that never changes.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// RotatingToken is a TokenSource whose value can be swapped at runtime,
// typically by the token-file watcher after a rotation.
type RotatingToken struct {
	value atomic.Value
}

// NewRotatingToken creates a RotatingToken with an initial value.
func NewRotatingToken(initial string) *RotatingToken {
	rt := &RotatingToken{}
	rt.value.Store(initial)
	return rt
}

func (rt *RotatingToken) Token() string {
	token, _ := rt.value.Load().(string)
	return token
}

// Set replaces the current token.
func (rt *RotatingToken) Set(token string) {
	rt.value.Store(token)
}
