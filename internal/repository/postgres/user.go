package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/storefront-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const uniqueViolationCode = "23505"

const userColumns = `id, full_name, email, phone_number, password_hash, refresh_token, created_at, updated_at`

type UserRepository struct {
	db *Connection
}

// NewUserRepository creates new UserRepository instance.
// It uses the given migrated connection pool for all queries.
//
// Parameters:
//   - db: The Postgres connection pool
//
// Returns a pointer to the newly created UserRepository instance.
func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, full_name, email, phone_number, password_hash, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.FullName, user.Email, user.PhoneNumber, user.PasswordHash,
		user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE phone_number = $1`, phoneNumber)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate) (model.User, error) {
	query := `UPDATE users SET full_name = $2, email = $3, phone_number = $4, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, id, update.FullName, update.Email, update.PhoneNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		if isUniqueViolation(err) {
			return model.User{}, model.ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("failed to update user profile: %w", err)
	}

	return user, nil
}

// UpdateRefreshToken relies on row-level locking of a single UPDATE: of two
// concurrent writers conditioned on the same expected value, the second
// re-evaluates its WHERE clause after the first commits and matches nothing.
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id uuid.UUID, expected *string, next *string) error {
	var (
		tag pgconn.CommandTag
		err error
	)
	if expected == nil {
		tag, err = r.db.Exec(ctx,
			`UPDATE users SET refresh_token = $2, updated_at = NOW() WHERE id = $1`,
			id, next)
	} else {
		tag, err = r.db.Exec(ctx,
			`UPDATE users SET refresh_token = $2, updated_at = NOW() WHERE id = $1 AND refresh_token = $3`,
			id, next, *expected)
	}
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}

	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check user existence: %w", err)
	}
	if !exists {
		return model.ErrNotFound
	}
	return model.ErrRefreshTokenMismatch
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (model.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.FullName, &user.Email, &user.PhoneNumber, &user.PasswordHash,
		&user.RefreshToken, &user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
