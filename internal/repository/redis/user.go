package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/storefront-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// UserRepository stores each user as a hash with string keys indexing email
// and phone number. All multi-key writes run as Lua scripts so uniqueness and
// the refresh token compare-and-set are atomic.
//
// Every key starts with the hash tag "{prefix}", so on Redis Cluster all keys
// of one repository map to the same slot and the scripts stay single-slot.
type UserRepository struct {
	client  goredis.UniversalClient
	keyRoot string
}

// NewUserRepository creates a Redis-backed user store.
//
// Parameters:
//   - client: a standalone, sentinel or cluster client
//   - prefix: namespace for every key, used as the cluster hash tag
//
// Returns a pointer to the newly created UserRepository instance.
func NewUserRepository(client goredis.UniversalClient, prefix string) *UserRepository {
	return &UserRepository{client: client, keyRoot: "{" + prefix + "}"}
}

func (r *UserRepository) userKey(id uuid.UUID) string {
	return r.keyRoot + ":user:" + id.String()
}

func (r *UserRepository) emailPrefix() string {
	return r.keyRoot + ":user-email:"
}

func (r *UserRepository) phonePrefix() string {
	return r.keyRoot + ":user-phone:"
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	status, err := createUserLua.Run(ctx, r.client,
		[]string{r.userKey(user.ID), r.emailPrefix() + user.Email, r.phonePrefix() + user.PhoneNumber},
		user.ID.String(),
		user.FullName,
		user.Email,
		user.PhoneNumber,
		user.PasswordHash,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	).Int()
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	if status == statusConflict {
		return model.User{}, model.ErrAlreadyExists
	}

	user.RefreshToken = nil
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	fields, err := r.client.HGetAll(ctx, r.userKey(id)).Result()
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	if len(fields) == 0 {
		return model.User{}, model.ErrNotFound
	}
	return decodeUser(fields)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getByIndex(ctx, r.emailPrefix()+email)
}

func (r *UserRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (model.User, error) {
	return r.getByIndex(ctx, r.phonePrefix()+phoneNumber)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate) (model.User, error) {
	status, err := updateProfileLua.Run(ctx, r.client,
		[]string{r.userKey(id), r.emailPrefix() + update.Email, r.phonePrefix() + update.PhoneNumber},
		id.String(),
		update.FullName,
		update.Email,
		update.PhoneNumber,
		formatTime(time.Now()),
		r.emailPrefix(),
		r.phonePrefix(),
	).Int()
	if err != nil {
		return model.User{}, fmt.Errorf("failed to update user profile: %w", err)
	}

	switch status {
	case statusNotFound:
		return model.User{}, model.ErrNotFound
	case statusConflict:
		return model.User{}, model.ErrAlreadyExists
	}

	return r.GetByID(ctx, id)
}

func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id uuid.UUID, expected *string, next *string) error {
	mode, expectedValue := "any", ""
	if expected != nil {
		mode, expectedValue = "match", *expected
	}
	op, nextValue := "clear", ""
	if next != nil {
		op, nextValue = "set", *next
	}

	status, err := updateRefreshTokenLua.Run(ctx, r.client,
		[]string{r.userKey(id)},
		mode, expectedValue, op, nextValue, formatTime(time.Now()),
	).Int()
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}

	switch status {
	case statusNotFound:
		return model.ErrNotFound
	case statusConflict:
		return model.ErrRefreshTokenMismatch
	}
	return nil
}

func (r *UserRepository) getByIndex(ctx context.Context, indexKey string) (model.User, error) {
	rawID, err := r.client.Get(ctx, indexKey).Result()
	if errors.Is(err, goredis.Nil) {
		return model.User{}, model.ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to read user index: %w", err)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return model.User{}, fmt.Errorf("corrupt user index %s: %w", indexKey, err)
	}

	return r.GetByID(ctx, id)
}

func decodeUser(fields map[string]string) (model.User, error) {
	id, err := uuid.Parse(fields["id"])
	if err != nil {
		return model.User{}, fmt.Errorf("failed to parse user id: %w", err)
	}
	createdAt, err := parseTime(fields["created_at"])
	if err != nil {
		return model.User{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	updatedAt, err := parseTime(fields["updated_at"])
	if err != nil {
		return model.User{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	user := model.User{
		ID:           id,
		FullName:     fields["full_name"],
		Email:        fields["email"],
		PhoneNumber:  fields["phone_number"],
		PasswordHash: fields["password_hash"],
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
	if token, ok := fields["refresh_token"]; ok {
		user.RefreshToken = &token
	}

	return user, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
