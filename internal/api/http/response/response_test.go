package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storefront-server/internal/apierrors"
	"github.com/dtroode/storefront-server/internal/testutil"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	JSON(rec, http.StatusCreated, map[string]string{"id": "1"}, "created")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.Equal(t, float64(201), body["statusCode"])
	assert.Equal(t, "created", body["message"])
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"id": "1"}, body["data"])
}

func TestJSON_NilDataIsEmptyObject(t *testing.T) {
	rec := httptest.NewRecorder()

	JSON(rec, http.StatusOK, nil, "ok")

	assert.Equal(t, map[string]any{}, decode(t, rec)["data"])
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "invalid input", err: apierrors.NewErrInvalidInput("all fields are required"), wantStatus: 400, wantMsg: "all fields are required"},
		{name: "invalid credentials", err: apierrors.NewErrInvalidCredentials(), wantStatus: 401, wantMsg: "invalid user credentials"},
		{name: "not found", err: apierrors.NewErrUserNotFound(), wantStatus: 404, wantMsg: "user does not exist"},
		{name: "unauthorized hides cause", err: apierrors.NewErrInvalidRefreshToken(errors.New("token expired")), wantStatus: 401, wantMsg: "refresh token is expired or invalid"},
		{name: "conflict", err: apierrors.NewErrUserAlreadyExists(), wantStatus: 409, wantMsg: "user with email or phone number already exists"},
		{name: "plain error is internal", err: errors.New("connection refused"), wantStatus: 500, wantMsg: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			Error(rec, testutil.MakeNoopLogger(), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tt.wantMsg, body["message"])
			assert.Equal(t, false, body["success"])
			assert.NotContains(t, rec.Body.String(), "connection refused")
			assert.NotContains(t, rec.Body.String(), "token expired")
		})
	}
}

func TestStatusFromKind_Exhaustive(t *testing.T) {
	kinds := map[apierrors.Kind]int{
		apierrors.KindInternal:           500,
		apierrors.KindInvalidInput:       400,
		apierrors.KindInvalidCredentials: 401,
		apierrors.KindNotFound:           404,
		apierrors.KindUnauthorized:       401,
		apierrors.KindConflict:           409,
	}
	for kind, status := range kinds {
		assert.Equal(t, status, StatusFromKind(kind), kind.String())
	}
}
