package context

import (
	"context"

	"github.com/dtroode/storefront-server/internal/model"
)

var _ model.ContextManager = (*Manager)(nil)

type userKey struct{}

// Manager carries the authenticated user through a request context.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetUserToContext returns a copy of ctx holding user.
func (m *Manager) SetUserToContext(ctx context.Context, user model.PublicUser) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUserFromContext returns the user set by the session guard.
func (m *Manager) GetUserFromContext(ctx context.Context) (model.PublicUser, bool) {
	user, ok := ctx.Value(userKey{}).(model.PublicUser)
	return user, ok
}
