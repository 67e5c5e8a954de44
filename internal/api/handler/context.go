package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamportal/identity-service/internal/api/middleware"
	"github.com/teamportal/identity-service/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call: a protected
// handler reached without an identity means the route is wired without
// its gate, and the only safe answer is 401.
func ctxIdentity(c echo.Context) (*domain.User, error) {
	user, ok := middleware.Identity(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return user, nil
}
