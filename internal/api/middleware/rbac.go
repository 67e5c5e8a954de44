package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamportal/identity-service/internal/core/domain"
)

// RBAC is the authorization gate. It must be chained after Auth: when no
// identity is attached the gate fails closed with 401 rather than
// guessing. An identity whose role is outside the allow-list gets 403.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := Identity(c)
			if !ok {
				// Misconfigured route: RBAC without Auth in front.
				return echo.NewHTTPError(http.StatusUnauthorized, msgNotAuthenticated)
			}
			if _, ok := allowed[user.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden - insufficient privilege")
			}
			return next(c)
		}
	}
}
