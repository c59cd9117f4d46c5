package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/storefront-server/internal/apierrors"
	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

// TokenService issues, rotates and revokes session token pairs. The user
// record holds the only live refresh token; every write goes through the
// store's compare-and-set.
type TokenService struct {
	manager model.TokenManager
	users   model.UserStore
	logger  *logger.Logger
}

// NewTokenService creates new TokenService instance.
// It initializes a token service with a codec and the user store holding
// the live refresh token.
//
// Parameters:
//   - manager: The token codec used to sign and verify tokens
//   - users: The user store performing the refresh token compare-and-set
//   - logger: The logger for service operations
//
// Returns a pointer to the newly created TokenService instance.
func NewTokenService(manager model.TokenManager, users model.UserStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, users: users, logger: logger}
}

// Issue signs a new pair and unconditionally supersedes any stored refresh token.
func (s *TokenService) Issue(ctx context.Context, userID uuid.UUID) (model.TokenPair, error) {
	pair, err := s.sign(userID)
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.users.UpdateRefreshToken(ctx, userID, nil, &pair.RefreshToken); err != nil {
		s.logger.Error("Token service: failed to persist refresh token",
			"user_id", userID,
			"error", err.Error())
		if errors.Is(err, model.ErrNotFound) {
			return model.TokenPair{}, apierrors.NewErrUserNotFound()
		}
		return model.TokenPair{}, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return pair, nil
}

// Refresh exchanges a live refresh token for a new pair. The presented token
// is single-use: the store only accepts the write while it still holds it.
func (s *TokenService) Refresh(ctx context.Context, presented string) (model.TokenPair, error) {
	if presented == "" {
		return model.TokenPair{}, apierrors.NewErrMissingRefreshToken()
	}

	userID, err := s.manager.Verify(model.TokenKindRefresh, presented)
	if err != nil {
		s.logger.Info("Token service: refresh token rejected by codec",
			"expired", errors.Is(err, model.ErrTokenExpired),
			"error", err.Error())
		return model.TokenPair{}, apierrors.NewErrInvalidRefreshToken(err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Info("Token service: refresh token for missing user",
			"user_id", userID)
		return model.TokenPair{}, apierrors.NewErrInvalidRefreshToken(err)
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	if !tokensEqual(user.RefreshToken, presented) {
		s.logger.Warn("Token service: refresh token does not match stored value",
			"user_id", userID)
		return model.TokenPair{}, apierrors.NewErrInvalidRefreshToken(model.ErrRefreshTokenMismatch)
	}

	pair, err := s.sign(userID)
	if err != nil {
		return model.TokenPair{}, err
	}

	err = s.users.UpdateRefreshToken(ctx, userID, &presented, &pair.RefreshToken)
	if errors.Is(err, model.ErrRefreshTokenMismatch) || errors.Is(err, model.ErrNotFound) {
		s.logger.Warn("Token service: lost refresh token rotation race",
			"user_id", userID)
		return model.TokenPair{}, apierrors.NewErrInvalidRefreshToken(err)
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	s.logger.Debug("Token service: refresh token rotated",
		"user_id", userID)

	return pair, nil
}

// Revoke clears the stored refresh token. With a non-nil expected value the
// clear only happens while the store still holds that exact token.
func (s *TokenService) Revoke(ctx context.Context, userID uuid.UUID, expected *string) error {
	if err := s.users.UpdateRefreshToken(ctx, userID, expected, nil); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

// GetUserID verifies an access token and returns its subject.
func (s *TokenService) GetUserID(_ context.Context, token string) (uuid.UUID, error) {
	return s.manager.Verify(model.TokenKindAccess, token)
}

// GetRefreshUserID verifies a refresh token and returns its subject.
func (s *TokenService) GetRefreshUserID(_ context.Context, token string) (uuid.UUID, error) {
	return s.manager.Verify(model.TokenKindRefresh, token)
}

func (s *TokenService) sign(userID uuid.UUID) (model.TokenPair, error) {
	access, err := s.manager.Issue(model.TokenKindAccess, userID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue access: %w", err)
	}

	refresh, err := s.manager.Issue(model.TokenKindRefresh, userID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue refresh: %w", err)
	}

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func tokensEqual(stored *string, presented string) bool {
	if stored == nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*stored), []byte(presented)) == 1
}
