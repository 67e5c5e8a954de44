package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/teamportal/identity-service/internal/core/domain"
)

// AuditLister serves recent authentication events, newest first.
type AuditLister interface {
	RecentEvents(ctx context.Context, limit int) ([]*domain.AuthEvent, error)
}

type AuditHandler struct {
	audit AuditLister
}

func NewAuditHandler(audit AuditLister) *AuditHandler {
	return &AuditHandler{audit: audit}
}

type auditResponse struct {
	Success bool                `json:"success"`
	Events  []*domain.AuthEvent `json:"events"`
}

// Recent returns the latest auth events for the admin dashboard.
//
// @Summary      Recent authentication events
// @Tags         admin
// @Produce      json
// @Param        limit  query     int  false  "Maximum events to return"
// @Success      200    {object}  auditResponse
// @Failure      401    {object}  messageResponse
// @Failure      403    {object}  messageResponse
// @Failure      500    {object}  messageResponse
// @Router       /admin/audit [get]
func (h *AuditHandler) Recent(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	events, err := h.audit.RecentEvents(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	if events == nil {
		events = []*domain.AuthEvent{}
	}
	return c.JSON(http.StatusOK, auditResponse{Success: true, Events: events})
}
