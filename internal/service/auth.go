package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/storefront-server/internal/apierrors"
	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// Auth implements registration, login, request authentication, logout and
// profile updates on top of the user store and TokenService.
type Auth struct {
	users        model.UserStore
	hasher       model.PasswordHasher
	tokenService *TokenService
	logger       *logger.Logger
}

// NewAuth creates new Auth service instance.
//
// Parameters:
//   - users: The user store
//   - hasher: The password hasher used at registration and login
//   - tokenService: The service issuing and revoking session tokens
//   - logger: The logger for service operations
//
// Returns a pointer to the newly created Auth instance.
func NewAuth(
	users model.UserStore,
	hasher model.PasswordHasher,
	tokenService *TokenService,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		users:        users,
		hasher:       hasher,
		tokenService: tokenService,
		logger:       logger,
	}
}

// Register creates a user. Uniqueness of email and phone number is enforced
// by the store, so concurrent sign-ups with the same identity cannot both win.
func (a *Auth) Register(ctx context.Context, reg model.Registration) (model.PublicUser, error) {
	reg.FullName = strings.TrimSpace(reg.FullName)
	reg.Email = normalizeEmail(reg.Email)
	reg.PhoneNumber = strings.TrimSpace(reg.PhoneNumber)

	if reg.FullName == "" || reg.Email == "" || reg.PhoneNumber == "" || strings.TrimSpace(reg.Password) == "" {
		return model.PublicUser{}, apierrors.NewErrInvalidInput("all fields are required")
	}

	a.logger.Debug("Auth service: registering user",
		"email", reg.Email)

	hash, err := a.hasher.Hash(reg.Password)
	if errors.Is(err, model.ErrPasswordTooLong) {
		return model.PublicUser{}, apierrors.NewErrInvalidInput("password is too long")
	}
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"email", reg.Email,
			"error", err.Error())
		return model.PublicUser{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := a.users.Create(ctx, model.User{
		ID:           uuid.New(),
		FullName:     reg.FullName,
		Email:        reg.Email,
		PhoneNumber:  reg.PhoneNumber,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		a.logger.Info("Auth service: user already exists",
			"email", reg.Email)
		return model.PublicUser{}, apierrors.NewErrUserAlreadyExists()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", reg.Email,
			"error", err.Error())
		return model.PublicUser{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"user_id", created.ID)

	return created.Public(), nil
}

// Login verifies credentials and opens a session. Email is preferred; the
// phone number is accepted when no email is given.
func (a *Auth) Login(ctx context.Context, creds model.Credentials) (model.Session, error) {
	email := normalizeEmail(creds.Email)
	phone := strings.TrimSpace(creds.PhoneNumber)

	if email == "" && phone == "" {
		return model.Session{}, apierrors.NewErrInvalidInput("email or phone number is required")
	}
	if creds.Password == "" {
		return model.Session{}, apierrors.NewErrInvalidInput("password is required")
	}

	var (
		user model.User
		err  error
	)
	if email != "" {
		user, err = a.users.GetByEmail(ctx, email)
	} else {
		user, err = a.users.GetByPhoneNumber(ctx, phone)
	}
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: login for unknown user",
			"email", email,
			"phone_number", phone)
		return model.Session{}, apierrors.NewErrUserNotFound()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to look up user",
			"email", email,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to get user: %w", err)
	}

	err = a.hasher.Compare(user.PasswordHash, creds.Password)
	if errors.Is(err, model.ErrPasswordMismatch) {
		a.logger.Info("Auth service: password verification failed",
			"user_id", user.ID)
		return model.Session{}, apierrors.NewErrInvalidCredentials()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to verify password",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to verify password: %w", err)
	}

	tokens, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: user logged in",
		"user_id", user.ID)

	return model.Session{User: user.Public(), Tokens: tokens}, nil
}

// Authenticate resolves an access token to the sanitized user it was issued for.
func (a *Auth) Authenticate(ctx context.Context, accessToken string) (model.PublicUser, error) {
	if accessToken == "" {
		return model.PublicUser{}, apierrors.NewErrMissingAuthorizationToken()
	}

	userID, err := a.tokenService.GetUserID(ctx, accessToken)
	if err != nil {
		return model.PublicUser{}, apierrors.NewErrInvalidAuthorizationToken(err)
	}

	user, err := a.users.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.PublicUser{}, apierrors.NewErrInvalidAuthorizationToken(err)
	}
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user.Public(), nil
}

// Logout clears the stored refresh token of whichever user the presented
// credentials resolve to. It never fails; problems are only logged.
func (a *Auth) Logout(ctx context.Context, req model.LogoutRequest) {
	if req.AccessToken != "" {
		userID, err := a.tokenService.GetUserID(ctx, req.AccessToken)
		if err == nil {
			if err := a.tokenService.Revoke(ctx, userID, nil); err != nil {
				a.logger.Error("Auth service: failed to clear session on logout",
					"user_id", userID,
					"error", err.Error())
			} else {
				a.logger.Info("Auth service: user logged out",
					"user_id", userID)
			}
			return
		}
		a.logger.Debug("Auth service: logout access token unusable",
			"error", err.Error())
	}

	if req.RefreshToken != "" {
		userID, err := a.tokenService.GetRefreshUserID(ctx, req.RefreshToken)
		if err != nil {
			a.logger.Debug("Auth service: logout refresh token unusable",
				"error", err.Error())
			return
		}

		presented := req.RefreshToken
		err = a.tokenService.Revoke(ctx, userID, &presented)
		switch {
		case errors.Is(err, model.ErrRefreshTokenMismatch), errors.Is(err, model.ErrNotFound):
			a.logger.Info("Auth service: logout with superseded refresh token",
				"user_id", userID)
		case err != nil:
			a.logger.Error("Auth service: failed to clear session on logout",
				"user_id", userID,
				"error", err.Error())
		default:
			a.logger.Info("Auth service: user logged out",
				"user_id", userID)
		}
		return
	}

	a.logger.Debug("Auth service: logout without usable credentials")
}

// UpdateAccount replaces the identity attributes of userID.
func (a *Auth) UpdateAccount(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (model.PublicUser, error) {
	update.FullName = strings.TrimSpace(update.FullName)
	update.Email = normalizeEmail(update.Email)
	update.PhoneNumber = strings.TrimSpace(update.PhoneNumber)

	if update.FullName == "" || update.Email == "" || update.PhoneNumber == "" {
		return model.PublicUser{}, apierrors.NewErrInvalidInput("all fields are required")
	}

	user, err := a.users.UpdateProfile(ctx, userID, update)
	switch {
	case errors.Is(err, model.ErrAlreadyExists):
		return model.PublicUser{}, apierrors.NewErrUserAlreadyExists()
	case errors.Is(err, model.ErrNotFound):
		return model.PublicUser{}, apierrors.NewErrUserNotFound()
	case err != nil:
		a.logger.Error("Auth service: failed to update account",
			"user_id", userID,
			"error", err.Error())
		return model.PublicUser{}, fmt.Errorf("failed to update account: %w", err)
	}

	a.logger.Info("Auth service: account updated",
		"user_id", userID)

	return user.Public(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
