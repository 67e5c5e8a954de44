// Package session moves the auth token between HTTP exchanges via a
// hardened cookie: HttpOnly keeps it away from script, SameSite=Strict
// keeps it off cross-site navigations, and Secure (production only)
// keeps it off plaintext transport.
package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieName is the single cookie this service reads and writes.
const CookieName = "token"

// Transport encodes the session token into response cookies and decodes
// it from request cookies. maxAge should match the token TTL.
type Transport struct {
	maxAge time.Duration
	secure bool
}

func NewTransport(maxAge time.Duration, secure bool) *Transport {
	return &Transport{maxAge: maxAge, secure: secure}
}

// Attach sets the token cookie on the response.
func (t *Transport) Attach(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(t.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear overwrites the cookie with an empty value and a past expiry so
// the client drops it immediately.
func (t *Transport) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Extract reads the token cookie from the request. ok is false when the
// cookie is absent or empty.
func (t *Transport) Extract(c echo.Context) (token string, ok bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
