package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users and their refresh credential.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByPhoneNumber(ctx context.Context, phoneNumber string) (User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (User, error)
	// UpdateRefreshToken atomically replaces the stored refresh token.
	// A nil expected overwrites unconditionally; otherwise the write only
	// happens when the stored value equals *expected, and ErrRefreshTokenMismatch
	// is returned when it does not. A nil next clears the stored value.
	UpdateRefreshToken(ctx context.Context, id uuid.UUID, expected *string, next *string) error
}

// User represents a stored user with authentication material.
type User struct {
	ID           uuid.UUID
	FullName     string
	Email        string
	PhoneNumber  string
	PasswordHash string
	RefreshToken *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the user projection safe to hand out to clients.
type PublicUser struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Public strips the password hash and refresh token.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// Registration carries sign-up input.
type Registration struct {
	FullName    string
	Email       string
	PhoneNumber string
	Password    string
}

// ProfileUpdate carries the mutable identity attributes.
type ProfileUpdate struct {
	FullName    string
	Email       string
	PhoneNumber string
}

// Credentials identify a user at login. Email takes precedence over PhoneNumber.
type Credentials struct {
	Email       string
	PhoneNumber string
	Password    string
}
