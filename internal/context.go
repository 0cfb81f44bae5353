package internal

import (
	"context"
)

type contextKey string

const UserContextKey contextKey = "user"

type Identity interface {
	GetID() string
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, UserContextKey, identity)
}

// GetUserIDFromContext extracts the authenticated user id from request context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userData := ctx.Value(UserContextKey)
	if userData == nil {
		return "", false
	}

	identity, ok := userData.(Identity)
	if !ok || identity.GetID() == "" {
		return "", false
	}

	return identity.GetID(), true
}
