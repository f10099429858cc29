package auth

import (
	"context"

	"github.com/gschargev/giftdesk/internal/domain"
)

type contextKey string

const userContextKey contextKey = "user"

// SetUser returns a context carrying the authenticated user.
func SetUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUser returns the authenticated user from the context, or nil when the
// request is anonymous.
func GetUser(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}
