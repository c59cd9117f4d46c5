// Package apierrors defines the client-visible error taxonomy. Every failure
// that crosses the transport boundary is one of the kinds declared here.
package apierrors

import (
	"errors"
	"fmt"
)

// Kind is the closed set of client-visible failure classes.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindInvalidCredentials
	KindNotFound
	KindUnauthorized
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindInvalidInput:
		return "invalid_input"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// APIError is a failure with a kind and a message that is safe to show to
// the client. Err keeps the internal cause for logging only.
type APIError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of err. Errors that are not APIErrors are internal.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindInternal
}

func NewErrInvalidInput(message string) *APIError {
	return &APIError{Kind: KindInvalidInput, Message: message}
}

func NewErrInvalidCredentials() *APIError {
	return &APIError{Kind: KindInvalidCredentials, Message: "invalid user credentials"}
}

func NewErrUserNotFound() *APIError {
	return &APIError{Kind: KindNotFound, Message: "user does not exist"}
}

func NewErrUserAlreadyExists() *APIError {
	return &APIError{Kind: KindConflict, Message: "user with email or phone number already exists"}
}

func NewErrMissingAuthorizationToken() *APIError {
	return &APIError{Kind: KindUnauthorized, Message: "authorization token is required"}
}

func NewErrInvalidAuthorizationToken(cause error) *APIError {
	return &APIError{Kind: KindUnauthorized, Message: "invalid authorization token", Err: cause}
}

func NewErrMissingRefreshToken() *APIError {
	return &APIError{Kind: KindUnauthorized, Message: "refresh token is required"}
}

// NewErrInvalidRefreshToken hides whether the token was malformed, expired,
// superseded or orphaned.
func NewErrInvalidRefreshToken(cause error) *APIError {
	return &APIError{Kind: KindUnauthorized, Message: "refresh token is expired or invalid", Err: cause}
}

func NewErrInternalServerError(cause error) *APIError {
	return &APIError{Kind: KindInternal, Message: "internal server error", Err: cause}
}
