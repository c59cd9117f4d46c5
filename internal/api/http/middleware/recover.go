package middleware

import (
	"fmt"
	"net/http"

	"github.com/dtroode/storefront-server/internal/api/http/response"
	"github.com/dtroode/storefront-server/internal/logger"
)

// Recover turns handler panics into a 500 response.
func Recover(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					response.Error(w, log, fmt.Errorf("panic serving %s %s: %v", r.Method, r.URL.Path, p))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
