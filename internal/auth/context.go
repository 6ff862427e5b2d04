package auth

import "context"

type contextKey int

const (
	claimsKey contextKey = iota
	sessionUserKey
)

// WithClaims attaches verified bearer claims to ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromContext returns the bearer claims attached by the auth gate.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok
}

// WithSessionUser attaches the user id resolved from the session cookie.
func WithSessionUser(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, sessionUserKey, userID)
}

// SessionUserFromContext returns the user id resolved from the session cookie.
func SessionUserFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(sessionUserKey).(int64)
	return id, ok
}
