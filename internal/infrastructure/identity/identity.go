package identity

import (
	"context"
	"errors"
)

var (
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrTokenParseFailure = errors.New("token parse failure")
)

// Provider resolves a bearer credential to a stable user identifier.
// Identity management itself lives elsewhere; this service only verifies
// what the identity service issued.
type Provider interface {
	Resolve(credential string) (string, error)
}

type contextKey struct{}

// WithUser stores the resolved user ID on the request context.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserFromContext returns the resolved user ID, or "" when the request
// carried no credential.
func UserFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(contextKey{}).(string)
	return userID
}
