// Package cookies sets and clears the session token cookies.
package cookies

import (
	"net/http"
	"time"

	"github.com/dtroode/storefront-server/internal/model"
)

const (
	AccessToken  = "accessToken"
	RefreshToken = "refreshToken"
)

// Settings holds the attributes shared by both session cookies.
type Settings struct {
	Secure     bool
	SameSite   http.SameSite
	Domain     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// SetSession writes both token cookies with Max-Age equal to the token lifetime.
func (s Settings) SetSession(w http.ResponseWriter, pair model.TokenPair) {
	http.SetCookie(w, s.cookie(AccessToken, pair.AccessToken, s.AccessTTL))
	http.SetCookie(w, s.cookie(RefreshToken, pair.RefreshToken, s.RefreshTTL))
}

// Clear expires both token cookies.
func (s Settings) Clear(w http.ResponseWriter) {
	for _, name := range []string{AccessToken, RefreshToken} {
		c := s.cookie(name, "", 0)
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		http.SetCookie(w, c)
	}
}

func (s Settings) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   s.Domain,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: s.SameSite,
	}
}

// Read returns the value of the named cookie, or "" when absent.
func Read(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
