package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamportal/identity-service/internal/api/metrics"
	"github.com/teamportal/identity-service/internal/api/session"
	"github.com/teamportal/identity-service/internal/core/domain"
	"github.com/teamportal/identity-service/internal/core/ports"
)

// identityKey is where the authenticated user is attached to the echo
// context. Only this package writes it; handlers read it via Identity.
const identityKey = "auth_identity"

// msgNotAuthenticated is deliberately shared by every rejection path so
// a caller cannot distinguish a missing cookie from a bad signature,
// an expired token, or a vanished account.
const msgNotAuthenticated = "Not authenticated"

// Identity returns the user attached by the Auth middleware.
func Identity(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(identityKey).(*domain.User)
	return user, ok && user != nil
}

// WithIdentity attaches an authenticated user to the context.
func WithIdentity(c echo.Context, user *domain.User) {
	c.Set(identityKey, user)
}

// Auth is the authentication gate: it extracts the session cookie,
// verifies the token, resolves the subject against the user store, and
// attaches the resulting identity to the context. Any failure
// short-circuits with 401. The gate is read-only and idempotent.
func Auth(tokens ports.TokenService, users ports.UserRepository, cookies *session.Transport) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := cookies.Extract(c)
			if !ok {
				return reject("no_cookie")
			}

			userID, err := tokens.Verify(raw)
			if err != nil {
				return reject("invalid_token")
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				if err == domain.ErrUserNotFound {
					// Token subject no longer exists; treat like any
					// other invalid credential.
					return reject("unknown_subject")
				}
				return err
			}

			WithIdentity(c, user.Sanitized())
			return next(c)
		}
	}
}

func reject(reason string) error {
	metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
	return echo.NewHTTPError(http.StatusUnauthorized, msgNotAuthenticated)
}
