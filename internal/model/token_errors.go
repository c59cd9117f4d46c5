package model

import "errors"

var (
	ErrTokenInvalid         = errors.New("token invalid")
	ErrTokenExpired         = errors.New("token expired")
	ErrRefreshTokenMismatch = errors.New("refresh token mismatch")
)
