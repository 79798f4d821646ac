package auth

import "context"

// contextKey is a private type for context keys so they cannot collide with
// keys defined in other packages.
type contextKey string

const identityContextKey contextKey = "auth_identity"

// NewContextWithIdentity returns a child context carrying the authenticated
// identity. Only the middleware should call this.
func NewContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext extracts the authenticated identity from the context.
// The second return value is false when the request did not pass through the
// auth middleware.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(*Identity)
	return id, ok
}
