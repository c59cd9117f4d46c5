// Package storetest holds the behavioural contract every model.UserStore
// implementation must satisfy. Driver packages run it against their backend.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storefront-server/internal/model"
)

// NewUser builds a user with identity fields unique across test runs.
func NewUser() model.User {
	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Millisecond)
	return model.User{
		ID:           id,
		FullName:     "Test User",
		Email:        fmt.Sprintf("%s@example.com", id),
		PhoneNumber:  id.String()[:13],
		PasswordHash: "$2a$10$hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func ptr(s string) *string { return &s }

// Run exercises store against the UserStore contract.
func Run(t *testing.T, store model.UserStore) {
	t.Run("create and lookup", func(t *testing.T) {
		ctx := context.Background()
		u := NewUser()

		saved, err := store.Create(ctx, u)
		require.NoError(t, err)
		assert.Equal(t, u.ID, saved.ID)
		assert.Nil(t, saved.RefreshToken)

		byID, err := store.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.Email, byID.Email)
		assert.Equal(t, u.PasswordHash, byID.PasswordHash)
		assert.Equal(t, u.FullName, byID.FullName)

		byEmail, err := store.GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)

		byPhone, err := store.GetByPhoneNumber(ctx, u.PhoneNumber)
		require.NoError(t, err)
		assert.Equal(t, u.ID, byPhone.ID)
	})

	t.Run("missing user", func(t *testing.T) {
		ctx := context.Background()

		_, err := store.GetByID(ctx, uuid.New())
		require.ErrorIs(t, err, model.ErrNotFound)
		_, err = store.GetByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, model.ErrNotFound)
		_, err = store.GetByPhoneNumber(ctx, "000")
		require.ErrorIs(t, err, model.ErrNotFound)

		err = store.UpdateRefreshToken(ctx, uuid.New(), nil, ptr("t"))
		require.ErrorIs(t, err, model.ErrNotFound)
		err = store.UpdateRefreshToken(ctx, uuid.New(), ptr("t"), nil)
		require.ErrorIs(t, err, model.ErrNotFound)

		_, err = store.UpdateProfile(ctx, uuid.New(), model.ProfileUpdate{FullName: "x", Email: "x@example.com", PhoneNumber: "x"})
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("duplicate identity", func(t *testing.T) {
		ctx := context.Background()
		u := NewUser()
		_, err := store.Create(ctx, u)
		require.NoError(t, err)

		sameEmail := NewUser()
		sameEmail.Email = u.Email
		_, err = store.Create(ctx, sameEmail)
		require.ErrorIs(t, err, model.ErrAlreadyExists)

		samePhone := NewUser()
		samePhone.PhoneNumber = u.PhoneNumber
		_, err = store.Create(ctx, samePhone)
		require.ErrorIs(t, err, model.ErrAlreadyExists)

		_, err = store.GetByID(ctx, sameEmail.ID)
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("refresh token compare and set", func(t *testing.T) {
		ctx := context.Background()
		u := NewUser()
		_, err := store.Create(ctx, u)
		require.NoError(t, err)

		err = store.UpdateRefreshToken(ctx, u.ID, ptr("anything"), ptr("first"))
		require.ErrorIs(t, err, model.ErrRefreshTokenMismatch, "nothing stored yet")

		require.NoError(t, store.UpdateRefreshToken(ctx, u.ID, nil, ptr("first")))
		got, err := store.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got.RefreshToken)
		assert.Equal(t, "first", *got.RefreshToken)

		require.NoError(t, store.UpdateRefreshToken(ctx, u.ID, ptr("first"), ptr("second")))

		err = store.UpdateRefreshToken(ctx, u.ID, ptr("first"), ptr("third"))
		require.ErrorIs(t, err, model.ErrRefreshTokenMismatch)

		got, err = store.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got.RefreshToken)
		assert.Equal(t, "second", *got.RefreshToken)

		err = store.UpdateRefreshToken(ctx, u.ID, ptr("first"), nil)
		require.ErrorIs(t, err, model.ErrRefreshTokenMismatch)

		require.NoError(t, store.UpdateRefreshToken(ctx, u.ID, ptr("second"), nil))
		got, err = store.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Nil(t, got.RefreshToken)

		require.NoError(t, store.UpdateRefreshToken(ctx, u.ID, nil, nil), "clearing twice is harmless")
	})

	t.Run("concurrent compare and set has one winner", func(t *testing.T) {
		ctx := context.Background()
		u := NewUser()
		_, err := store.Create(ctx, u)
		require.NoError(t, err)
		require.NoError(t, store.UpdateRefreshToken(ctx, u.ID, nil, ptr("stale")))

		const writers = 8
		var (
			wg         sync.WaitGroup
			mu         sync.Mutex
			wins       int
			mismatches int
		)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				err := store.UpdateRefreshToken(ctx, u.ID, ptr("stale"), ptr(fmt.Sprintf("next-%d", i)))
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					wins++
				case assert.ErrorIs(t, err, model.ErrRefreshTokenMismatch):
					mismatches++
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, wins)
		assert.Equal(t, writers-1, mismatches)
	})

	t.Run("update profile", func(t *testing.T) {
		ctx := context.Background()
		u := NewUser()
		_, err := store.Create(ctx, u)
		require.NoError(t, err)
		require.NoError(t, store.UpdateRefreshToken(ctx, u.ID, nil, ptr("keep")))

		other := NewUser()
		_, err = store.Create(ctx, other)
		require.NoError(t, err)

		_, err = store.UpdateProfile(ctx, u.ID, model.ProfileUpdate{
			FullName:    "Renamed",
			Email:       other.Email,
			PhoneNumber: u.PhoneNumber,
		})
		require.ErrorIs(t, err, model.ErrAlreadyExists)

		fresh := NewUser()
		updated, err := store.UpdateProfile(ctx, u.ID, model.ProfileUpdate{
			FullName:    "Renamed",
			Email:       fresh.Email,
			PhoneNumber: fresh.PhoneNumber,
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.FullName)
		assert.Equal(t, fresh.Email, updated.Email)
		require.NotNil(t, updated.RefreshToken)
		assert.Equal(t, "keep", *updated.RefreshToken)

		byEmail, err := store.GetByEmail(ctx, fresh.Email)
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)

		_, err = store.GetByEmail(ctx, u.Email)
		require.ErrorIs(t, err, model.ErrNotFound)

		reuse := NewUser()
		reuse.Email = u.Email
		reuse.PhoneNumber = u.PhoneNumber
		_, err = store.Create(ctx, reuse)
		require.NoError(t, err, "released identity can be claimed again")
	})
}
