package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpcontext "github.com/dtroode/storefront-server/internal/api/http/context"
	"github.com/dtroode/storefront-server/internal/api/http/cookies"
	"github.com/dtroode/storefront-server/internal/apierrors"
	"github.com/dtroode/storefront-server/internal/mocks"
	"github.com/dtroode/storefront-server/internal/model"
	"github.com/dtroode/storefront-server/internal/testutil"
)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func cookieMap(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func newTestHandler(t *testing.T) (*Auth, *mocks.AuthService, *mocks.TokenService, *httpcontext.Manager) {
	t.Helper()
	authSvc := mocks.NewAuthService(t)
	tokenSvc := mocks.NewTokenService(t)
	cm := httpcontext.NewManager()
	h := NewAuth(authSvc, tokenSvc, cm, cookies.Settings{
		Secure:     true,
		SameSite:   http.SameSiteNoneMode,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 240 * time.Hour,
	}, testutil.MakeNoopLogger())
	return h, authSvc, tokenSvc, cm
}

func TestAuth_Register(t *testing.T) {
	h, authSvc, _, _ := newTestHandler(t)
	user := model.PublicUser{ID: uuid.New(), Email: "a@x.com"}

	authSvc.On("Register", mock.Anything, model.Registration{
		FullName: "Ann", Email: "a@x.com", PhoneNumber: "555", Password: "pw1",
	}).Return(user, nil).Once()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"fullName":"Ann","email":"a@x.com","phoneNumber":"555","password":"pw1"}`))

	h.Register(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.NotContains(t, string(env.Data), "password")
}

func TestAuth_Register_Errors(t *testing.T) {
	t.Run("malformed body", func(t *testing.T) {
		h, _, _, _ := newTestHandler(t)
		rec := httptest.NewRecorder()

		h.Register(rec, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("conflict", func(t *testing.T) {
		h, authSvc, _, _ := newTestHandler(t)
		authSvc.On("Register", mock.Anything, mock.Anything).Return(model.PublicUser{}, apierrors.NewErrUserAlreadyExists()).Once()
		rec := httptest.NewRecorder()

		h.Register(rec, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.False(t, decodeEnvelope(t, rec).Success)
	})
}

func TestAuth_Login(t *testing.T) {
	h, authSvc, _, _ := newTestHandler(t)
	user := model.PublicUser{ID: uuid.New(), Email: "a@x.com"}

	authSvc.On("Login", mock.Anything, model.Credentials{Email: "a@x.com", Password: "pw1"}).
		Return(model.Session{User: user, Tokens: model.TokenPair{AccessToken: "acc", RefreshToken: "ref"}}, nil).Once()

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@x.com","password":"pw1"}`)))

	require.Equal(t, http.StatusOK, rec.Code)

	var data loginResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	assert.Equal(t, user.ID, data.User.ID)
	assert.Equal(t, "acc", data.AccessToken)
	assert.Equal(t, "ref", data.RefreshToken)

	got := cookieMap(rec)
	require.Contains(t, got, "accessToken")
	require.Contains(t, got, "refreshToken")
	assert.Equal(t, "acc", got["accessToken"].Value)
	assert.True(t, got["accessToken"].HttpOnly)
	assert.True(t, got["refreshToken"].Secure)
}

func TestAuth_Login_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: apierrors.NewErrUserNotFound(), wantStatus: http.StatusNotFound},
		{name: "bad password", err: apierrors.NewErrInvalidCredentials(), wantStatus: http.StatusUnauthorized},
		{name: "internal", err: assert.AnError, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, authSvc, _, _ := newTestHandler(t)
			authSvc.On("Login", mock.Anything, mock.Anything).Return(model.Session{}, tt.err).Once()

			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@x.com","password":"x"}`)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Empty(t, rec.Result().Cookies())
			assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
		})
	}
}

func TestAuth_Logout(t *testing.T) {
	h, authSvc, _, _ := newTestHandler(t)
	authSvc.On("Logout", mock.Anything, model.LogoutRequest{AccessToken: "acc", RefreshToken: "ref"}).Once()

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "acc"})
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "ref"})
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	got := cookieMap(rec)
	assert.Equal(t, -1, got["accessToken"].MaxAge)
	assert.Equal(t, -1, got["refreshToken"].MaxAge)
}

func TestAuth_Logout_WithoutCredentials(t *testing.T) {
	h, authSvc, _, _ := newTestHandler(t)
	authSvc.On("Logout", mock.Anything, model.LogoutRequest{}).Once()

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)
}

func TestAuth_RefreshToken(t *testing.T) {
	pair := model.TokenPair{AccessToken: "acc2", RefreshToken: "ref2"}

	t.Run("from cookie", func(t *testing.T) {
		h, _, tokenSvc, _ := newTestHandler(t)
		tokenSvc.On("Refresh", mock.Anything, "cookie-ref").Return(pair, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/refresh-token", strings.NewReader(`{"refreshToken":"body-ref"}`))
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "cookie-ref"})
		rec := httptest.NewRecorder()

		h.RefreshToken(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ref2", cookieMap(rec)["refreshToken"].Value)
	})

	t.Run("from body", func(t *testing.T) {
		h, _, tokenSvc, _ := newTestHandler(t)
		tokenSvc.On("Refresh", mock.Anything, "body-ref").Return(pair, nil).Once()

		rec := httptest.NewRecorder()
		h.RefreshToken(rec, httptest.NewRequest(http.MethodPost, "/refresh-token", strings.NewReader(`{"refreshToken":"body-ref"}`)))

		assert.Equal(t, http.StatusOK, rec.Code)
		var got model.TokenPair
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &got))
		assert.Equal(t, pair, got)
	})

	t.Run("missing token", func(t *testing.T) {
		h, _, tokenSvc, _ := newTestHandler(t)
		tokenSvc.On("Refresh", mock.Anything, "").Return(model.TokenPair{}, apierrors.NewErrMissingRefreshToken()).Once()

		rec := httptest.NewRecorder()
		h.RefreshToken(rec, httptest.NewRequest(http.MethodPost, "/refresh-token", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("rejected token", func(t *testing.T) {
		h, _, tokenSvc, _ := newTestHandler(t)
		tokenSvc.On("Refresh", mock.Anything, "stale").
			Return(model.TokenPair{}, apierrors.NewErrInvalidRefreshToken(model.ErrRefreshTokenMismatch)).Once()

		rec := httptest.NewRecorder()
		h.RefreshToken(rec, httptest.NewRequest(http.MethodPost, "/refresh-token", strings.NewReader(`{"refreshToken":"stale"}`)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.NotContains(t, rec.Body.String(), "mismatch")
	})
}

func TestAuth_CurrentUser(t *testing.T) {
	h, _, _, cm := newTestHandler(t)
	user := model.PublicUser{ID: uuid.New(), Email: "a@x.com"}

	req := httptest.NewRequest(http.MethodGet, "/current-user", nil)
	req = req.WithContext(cm.SetUserToContext(req.Context(), user))
	rec := httptest.NewRecorder()

	h.CurrentUser(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got model.PublicUser
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &got))
	assert.Equal(t, user.ID, got.ID)

	rec = httptest.NewRecorder()
	h.CurrentUser(rec, httptest.NewRequest(http.MethodGet, "/current-user", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_UpdateAccount(t *testing.T) {
	h, authSvc, _, cm := newTestHandler(t)
	userID := uuid.New()
	update := model.ProfileUpdate{FullName: "Bea", Email: "b@x.com", PhoneNumber: "777"}

	authSvc.On("UpdateAccount", mock.Anything, userID, update).
		Return(model.PublicUser{ID: userID, FullName: "Bea", Email: "b@x.com", PhoneNumber: "777"}, nil).Once()

	req := httptest.NewRequest(http.MethodPatch, "/update-account",
		strings.NewReader(`{"fullName":"Bea","email":"b@x.com","phoneNumber":"777"}`))
	req = req.WithContext(cm.SetUserToContext(req.Context(), model.PublicUser{ID: userID}))
	rec := httptest.NewRecorder()

	h.UpdateAccount(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Account details updated successfully", decodeEnvelope(t, rec).Message)
}
