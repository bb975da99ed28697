package auth

import (
	"context"

	"microblog/internal/models"
)

type contextKey string

const userKey = contextKey("user")

// WithUser stores the authenticated user in the request context.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user, or ok=false for an
// anonymous request.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}
