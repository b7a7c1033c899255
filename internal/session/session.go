// Package session carries the caller's identity through a request context.
package session

import (
	"context"

	"lotto-happy/internal/models"
)

type Session struct {
	Token  string
	UserID string
	Role   models.Role
	// Verified is set when the identity was checked locally: a token whose
	// signature matched JWT_SECRET, the admin password or Telegram init data.
	Verified bool
}

type ctxKey struct{}

func With(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func From(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}

// Token returns the bearer token of the caller, or "".
func Token(ctx context.Context) string {
	s, _ := From(ctx)
	return s.Token
}
