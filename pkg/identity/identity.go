package identity

import (
	"context"
	"time"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity represents the authenticated caller of a request, decoded
// from a verified bearer token.
type Identity struct {
	// Subject is the caller's id claim
	Subject string

	// Email is the caller's email claim
	Email string

	// IssuedAt and ExpiresAt are the token's validity window
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
