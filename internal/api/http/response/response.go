// Package response writes the JSON envelope every endpoint answers with and
// maps client-visible error kinds to HTTP status codes.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/storefront-server/internal/apierrors"
	"github.com/dtroode/storefront-server/internal/logger"
)

// Envelope is the body shape of every response.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// JSON writes data wrapped in an Envelope with the given status.
func JSON(w http.ResponseWriter, status int, data any, message string) {
	if data == nil {
		data = struct{}{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// Error writes err as an Envelope. Only APIError messages reach the client;
// anything else becomes a generic 500 and is logged with its detail.
func Error(w http.ResponseWriter, log *logger.Logger, err error) {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		apiErr = apierrors.NewErrInternalServerError(err)
	}

	status := StatusFromKind(apiErr.Kind)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed with internal error",
			"error", err.Error())
	} else if apiErr.Err != nil {
		log.Debug("Request rejected",
			"kind", apiErr.Kind.String(),
			"cause", apiErr.Err.Error())
	}

	JSON(w, status, nil, apiErr.Message)
}

// StatusFromKind maps every error kind to its HTTP status.
func StatusFromKind(kind apierrors.Kind) int {
	switch kind {
	case apierrors.KindInvalidInput:
		return http.StatusBadRequest
	case apierrors.KindInvalidCredentials:
		return http.StatusUnauthorized
	case apierrors.KindNotFound:
		return http.StatusNotFound
	case apierrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apierrors.KindConflict:
		return http.StatusConflict
	case apierrors.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
