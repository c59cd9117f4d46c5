package router

import (
	"net/http"

	"github.com/dtroode/storefront-server/internal/api/http/cookies"
	"github.com/dtroode/storefront-server/internal/api/http/handler"
	"github.com/dtroode/storefront-server/internal/api/http/middleware"
	"github.com/dtroode/storefront-server/internal/logger"
	"github.com/dtroode/storefront-server/internal/model"
	"github.com/dtroode/storefront-server/internal/service"
)

const usersPrefix = "/api/v1/users"

// Router wires the HTTP handlers and middleware of the users API.
type Router struct {
	authService    *service.Auth
	tokenService   *service.TokenService
	contextManager model.ContextManager
	cookies        cookies.Settings
	allowedOrigins []string
	logger         *logger.Logger
}

// New creates a Router. The auth service doubles as the session guard's
// authenticator.
func New(
	authService *service.Auth,
	tokenService *service.TokenService,
	contextManager model.ContextManager,
	cookieSettings cookies.Settings,
	allowedOrigins []string,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		tokenService:   tokenService,
		contextManager: contextManager,
		cookies:        cookieSettings,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// Register builds the request multiplexer and wraps it with the shared
// middleware chain.
func (r *Router) Register() http.Handler {
	mux := http.NewServeMux()
	r.registerUserRoutes(mux)

	logging := middleware.NewLogging(r.logger)
	cors := middleware.NewCors(r.allowedOrigins)

	var h http.Handler = mux
	h = logging.Handle(h)
	h = cors.Handle(h)
	h = middleware.Recover(r.logger)(h)
	return h
}

func (r *Router) registerUserRoutes(mux *http.ServeMux) {
	authHandler := handler.NewAuth(r.authService, r.tokenService, r.contextManager, r.cookies, r.logger)
	guard := middleware.NewAuthenticate(r.authService, r.contextManager, r.logger)

	mux.HandleFunc("POST "+usersPrefix+"/register", authHandler.Register)
	mux.HandleFunc("POST "+usersPrefix+"/login", authHandler.Login)
	mux.HandleFunc("POST "+usersPrefix+"/logout", authHandler.Logout)
	mux.HandleFunc("POST "+usersPrefix+"/refresh-token", authHandler.RefreshToken)

	mux.Handle("GET "+usersPrefix+"/current-user", guard.Handle(http.HandlerFunc(authHandler.CurrentUser)))
	mux.Handle("PATCH "+usersPrefix+"/update-account", guard.Handle(http.HandlerFunc(authHandler.UpdateAccount)))
}
