package model

import "github.com/google/uuid"

// TokenKind distinguishes access and refresh credentials.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenManager signs and verifies access/refresh tokens.
type TokenManager interface {
	Issue(kind TokenKind, userID uuid.UUID) (string, error)
	Verify(kind TokenKind, token string) (uuid.UUID, error)
}

// TokenPair is a freshly minted access and refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
