package auth

import (
	"context"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

// ContextKeySession is the key for the Session in request context
const ContextKeySession ContextKey = "session"

// ContextWithSession returns a new context with the session set
func ContextWithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ContextKeySession, s)
}

// SessionFromContext extracts the session from context. Requests that never
// passed through the session middleware are Anonymous.
func SessionFromContext(ctx context.Context) Session {
	if s, ok := ctx.Value(ContextKeySession).(Session); ok && s != nil {
		return s
	}
	return Anonymous{}
}
