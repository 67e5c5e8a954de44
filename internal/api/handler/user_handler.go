package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamportal/identity-service/internal/core/domain"
	"github.com/teamportal/identity-service/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type adminResponse struct {
	Success bool             `json:"success"`
	Users   []*domain.User   `json:"users"`
	Stats   domain.UserStats `json:"stats"`
}

// Profile returns the authenticated user's own record.
//
// @Summary      Get profile
// @Tags         users
// @Produce      json
// @Success      200  {object}  authResponse
// @Failure      401  {object}  messageResponse
// @Router       /profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	user, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Success: true, User: user})
}

// Admin lists every user with role statistics. Reachable only through
// the admin-gated route group.
//
// @Summary      Admin user listing
// @Tags         admin
// @Produce      json
// @Success      200  {object}  adminResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /admin [get]
func (h *UserHandler) Admin(c echo.Context) error {
	listing, err := h.userService.ListWithStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminResponse{Success: true, Users: listing.Users, Stats: listing.Stats})
}
