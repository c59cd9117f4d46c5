package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/storefront-server/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var _ model.TokenManager = (*JWT)(nil)

// Claims represents JWT claims with token kind. The subject holds the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Kind model.TokenKind `json:"typ"`
}

// Options configures secrets and lifetimes for both token kinds.
type Options struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type kindParams struct {
	secret []byte
	ttl    time.Duration
}

// JWT implements TokenManager backed by symmetric HMAC with one secret per kind.
type JWT struct {
	kinds map[model.TokenKind]kindParams
	now   func() time.Time
}

// NewJWT creates a token manager. Secrets must be non-empty and distinct so
// a token of one kind never verifies as the other.
func NewJWT(opts Options) (*JWT, error) {
	if opts.AccessSecret == "" || opts.RefreshSecret == "" {
		return nil, errors.New("token secrets must not be empty")
	}
	if opts.AccessSecret == opts.RefreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if opts.AccessTTL <= 0 || opts.RefreshTTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	return &JWT{
		kinds: map[model.TokenKind]kindParams{
			model.TokenKindAccess:  {secret: []byte(opts.AccessSecret), ttl: opts.AccessTTL},
			model.TokenKindRefresh: {secret: []byte(opts.RefreshSecret), ttl: opts.RefreshTTL},
		},
		now: time.Now,
	}, nil
}

// TTL returns the configured lifetime of the kind, zero for unknown kinds.
func (j *JWT) TTL(kind model.TokenKind) time.Duration {
	return j.kinds[kind].ttl
}

// Issue signs a token of the given kind for userID.
func (j *JWT) Issue(kind model.TokenKind, userID uuid.UUID) (string, error) {
	params, ok := j.kinds[kind]
	if !ok {
		return "", fmt.Errorf("unknown token kind %q", kind)
	}

	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(params.ttl)),
		},
		Kind: kind,
	})

	tokenString, err := token.SignedString(params.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}

	return tokenString, nil
}

// Verify checks signature, expiry and kind, and returns the subject user ID.
func (j *JWT) Verify(kind model.TokenKind, tokenString string) (uuid.UUID, error) {
	params, ok := j.kinds[kind]
	if !ok {
		return uuid.Nil, fmt.Errorf("unknown token kind %q: %w", kind, model.ErrTokenInvalid)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return params.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, fmt.Errorf("failed to parse %s token: %w", kind, model.ErrTokenExpired)
		}
		return uuid.Nil, fmt.Errorf("failed to parse %s token: %v: %w", kind, err, model.ErrTokenInvalid)
	}
	if claims.Kind != kind {
		return uuid.Nil, fmt.Errorf("token kind mismatch: %q: %w", claims.Kind, model.ErrTokenInvalid)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid token subject: %w", model.ErrTokenInvalid)
	}

	return userID, nil
}
