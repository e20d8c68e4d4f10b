// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// Session is the admin identity a console request acts for.
// Token is forwarded verbatim to the remote API; Subject is only used to attribute logs.
type Session struct {
	Token   string
	Subject string
}

type sessionKey struct{}

// WithSession adds Session to context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// GetSession returns Session from context.
func GetSession(ctx context.Context) *Session {
	if v, ok := ctx.Value(sessionKey{}).(*Session); ok {
		return v
	}
	return nil
}

// GetToken returns the bearer token or empty string when the admin cookie was absent.
func GetToken(ctx context.Context) string {
	if s := GetSession(ctx); s != nil {
		return s.Token
	}
	return ""
}

// GetSubject returns the token subject or empty string.
func GetSubject(ctx context.Context) string {
	if s := GetSession(ctx); s != nil {
		return s.Subject
	}
	return ""
}
