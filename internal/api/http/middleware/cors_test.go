package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCors(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name            string
		allowed         []string
		origin          string
		method          string
		wantStatus      int
		wantOrigin      string
		wantCredentials string
		wantMethod      bool
	}{
		{
			name:       "same origin",
			allowed:    []string{"https://shop.example.com"},
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
		},
		{
			name:            "allowed origin",
			allowed:         []string{"https://shop.example.com/"},
			origin:          "https://shop.example.com",
			method:          http.MethodPost,
			wantStatus:      http.StatusOK,
			wantOrigin:      "https://shop.example.com",
			wantCredentials: "true",
		},
		{
			name:       "unknown origin",
			allowed:    []string{"https://shop.example.com"},
			origin:     "https://evil.example.com",
			method:     http.MethodPost,
			wantStatus: http.StatusOK,
		},
		{
			name:            "preflight",
			allowed:         []string{"https://shop.example.com"},
			origin:          "https://shop.example.com",
			method:          http.MethodOptions,
			wantStatus:      http.StatusNoContent,
			wantOrigin:      "https://shop.example.com",
			wantCredentials: "true",
			wantMethod:      true,
		},
		{
			name:       "preflight from unknown origin",
			allowed:    []string{"https://shop.example.com"},
			origin:     "https://evil.example.com",
			method:     http.MethodOptions,
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "wildcard without credentials",
			allowed:    []string{"*"},
			origin:     "https://any.example.com",
			method:     http.MethodOptions,
			wantStatus: http.StatusNoContent,
			wantOrigin: "*",
			wantMethod: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/users/login", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rec := httptest.NewRecorder()

			NewCors(tt.allowed).Handle(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredentials, rec.Header().Get("Access-Control-Allow-Credentials"))
			if tt.wantMethod {
				assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
			} else {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
			}
		})
	}
}

func TestCors_PreflightRejectsUnlistedMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/users/login", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", "TRACE")
	rec := httptest.NewRecorder()

	NewCors([]string{"https://shop.example.com"}).Handle(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
