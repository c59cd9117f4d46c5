package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/storefront-server/internal/api/http/cookies"
	"github.com/dtroode/storefront-server/internal/api/http/middleware"
	"github.com/dtroode/storefront-server/internal/api/http/response"
	"github.com/dtroode/storefront-server/internal/apierrors"
	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
)

const maxBodyBytes = 1 << 20

// AuthService defines account and session operations.
type AuthService interface {
	Register(ctx context.Context, reg model.Registration) (model.PublicUser, error)
	Login(ctx context.Context, creds model.Credentials) (model.Session, error)
	Logout(ctx context.Context, req model.LogoutRequest)
	UpdateAccount(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (model.PublicUser, error)
}

// TokenService defines refresh token rotation.
type TokenService interface {
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
}

// Auth handles the /users endpoints.
type Auth struct {
	authService    AuthService
	tokenService   TokenService
	contextManager model.ContextManager
	cookies        cookies.Settings
	logger         *logger.Logger
}

// NewAuth creates new Auth handler instance.
// It initializes the users endpoints with the services and cookie settings
// they need.
//
// Parameters:
//   - authService: The account and session service
//   - tokenService: The refresh token rotation service
//   - contextManager: The manager reading the user set by the session guard
//   - cookieSettings: Attributes for the session token cookies
//   - logger: The logger for handler operations
//
// Returns a pointer to the newly created Auth handler instance.
func NewAuth(
	authService AuthService,
	tokenService TokenService,
	contextManager model.ContextManager,
	cookieSettings cookies.Settings,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		authService:    authService,
		tokenService:   tokenService,
		contextManager: contextManager,
		cookies:        cookieSettings,
		logger:         logger,
	}
}

type registerRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

type loginResponse struct {
	User         model.PublicUser `json:"user"`
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type updateAccountRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// Register creates an account.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	user, err := h.authService.Register(r.Context(), model.Registration{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	h.logger.Info("Auth handler: user registered",
		"user_id", user.ID)

	response.JSON(w, http.StatusCreated, user, "User registered successfully")
}

// Login opens a session and sets both token cookies.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	session, err := h.authService.Login(r.Context(), model.Credentials{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	h.cookies.SetSession(w, session.Tokens)
	response.JSON(w, http.StatusOK, loginResponse{
		User:         session.User,
		AccessToken:  session.Tokens.AccessToken,
		RefreshToken: session.Tokens.RefreshToken,
	}, "User logged in successfully")
}

// Logout always succeeds and clears both cookies.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.Logout(r.Context(), model.LogoutRequest{
		AccessToken:  middleware.AccessToken(r),
		RefreshToken: cookies.Read(r, cookies.RefreshToken),
	})

	h.cookies.Clear(w)
	response.JSON(w, http.StatusOK, nil, "User logged out")
}

// RefreshToken rotates the refresh token taken from the cookie or, failing
// that, from the JSON body.
func (h *Auth) RefreshToken(w http.ResponseWriter, r *http.Request) {
	token := cookies.Read(r, cookies.RefreshToken)
	if token == "" {
		var req refreshRequest
		if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
			response.Error(w, h.logger, err)
			return
		}
		token = req.RefreshToken
	}

	pair, err := h.tokenService.Refresh(r.Context(), token)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	h.cookies.SetSession(w, pair)
	response.JSON(w, http.StatusOK, pair, "Access token refreshed")
}

// CurrentUser returns the user attached by the session guard.
func (h *Auth) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		response.Error(w, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	response.JSON(w, http.StatusOK, user, "User fetched successfully")
}

// UpdateAccount replaces the caller's name, email and phone number.
func (h *Auth) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	current, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		response.Error(w, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	var req updateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	user, err := h.authService.UpdateAccount(r.Context(), current.ID, model.ProfileUpdate{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, user, "Account details updated successfully")
}

var errEmptyBody = apierrors.NewErrInvalidInput("request body is required")

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return apierrors.NewErrInvalidInput("invalid request body")
	}
	return nil
}
