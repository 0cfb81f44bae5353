package auth

import (
	"context"
	"time"

	"NYCU-SDC/survey-builder/internal"
)

// Principal is the authenticated caller of the builder API.
type Principal struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
	Token     string    `json:"-"`
}

func (p Principal) GetID() string {
	return p.ID
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return internal.WithIdentity(ctx, p)
}

func GetPrincipal(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(internal.UserContextKey).(Principal)
	return p, ok && p.ID != ""
}
