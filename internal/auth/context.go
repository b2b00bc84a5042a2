package auth

import "context"

type sessionCtxKey struct{}

// NewContext returns ctx with the session attached.
func NewContext(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, sess)
}

// SessionFromContext returns the session attached by the auth middleware,
// or nil for an unauthenticated request.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionCtxKey{}).(*Session)
	return sess
}
