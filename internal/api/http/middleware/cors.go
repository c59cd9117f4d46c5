package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

var (
	corsAllowedMethods = []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	corsAllowedHeaders = []string{"Content-Type", "Authorization"}
)

const corsMaxAge = 86400

// Cors allows credentialed requests from the configured front-end origins.
type Cors struct {
	cors *cors.Cors
}

// NewCors creates CORS middleware for the browser front end.
//
// Parameters:
//   - allowedOrigins: exact origins allowed to send cookies. Trailing slashes
//     are ignored. A "*" entry allows any origin, but then credentials are
//     not allowed for any of them.
//
// Returns a pointer to the newly created Cors instance.
func NewCors(allowedOrigins []string) *Cors {
	origins := make([]string, 0, len(allowedOrigins))
	wildcard := false
	for _, origin := range allowedOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		switch origin {
		case "":
		case "*":
			wildcard = true
		default:
			origins = append(origins, origin)
		}
	}
	if wildcard {
		origins = []string{"*"}
	}

	return &Cors{
		cors: cors.New(cors.Options{
			AllowedOrigins:       origins,
			AllowedMethods:       corsAllowedMethods,
			AllowedHeaders:       corsAllowedHeaders,
			AllowCredentials:     !wildcard,
			MaxAge:               corsMaxAge,
			OptionsSuccessStatus: http.StatusNoContent,
		}),
	}
}

// Handle answers preflight requests and decorates the rest with CORS headers.
func (c *Cors) Handle(next http.Handler) http.Handler {
	return c.cors.Handler(next)
}
