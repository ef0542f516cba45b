// Package auth resolves bearer credentials to an opaque owner id.
// Every operation and statistic in the service is scoped to one owner.
package auth

import (
	"context"
	"errors"
)

// ErrUnauthorized marks an absent, invalid or expired credential
var ErrUnauthorized = errors.New("unauthorized")

// Identity is the resolved caller identity
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
}

// Verifier resolves a bearer token to an identity
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type contextKey struct{}

// WithOwnerID stores the resolved owner id in the request context
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, contextKey{}, ownerID)
}

// OwnerID extracts the resolved owner id from the request context
func OwnerID(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(contextKey{}).(string)
	return ownerID, ok && ownerID != ""
}
