package context

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/storefront-server/internal/model"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager()
	user := model.PublicUser{ID: uuid.New(), Email: "a@x.com"}

	ctx := m.SetUserToContext(context.Background(), user)

	got, ok := m.GetUserFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, user, got)
}

func TestManager_Missing(t *testing.T) {
	_, ok := NewManager().GetUserFromContext(context.Background())
	assert.False(t, ok)
}

func TestManager_IgnoresForeignStringKeys(t *testing.T) {
	ctx := context.WithValue(context.Background(), "user", model.PublicUser{ID: uuid.New()}) //nolint:staticcheck

	_, ok := NewManager().GetUserFromContext(ctx)
	assert.False(t, ok)
}
