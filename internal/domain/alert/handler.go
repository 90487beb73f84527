package alert

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/MentalSpaceTherapy1/mentalspaceehr-sub005/pkg/pagination"
)

// Handler provides HTTP endpoints for dashboard alerts.
type Handler struct {
	svc *Service
}

// NewHandler creates a new alert handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers dashboard alert endpoints.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/alerts", h.ListAlerts)
	api.POST("/alerts/:id/read", h.MarkRead)
}

func (h *Handler) ListAlerts(c echo.Context) error {
	recipientID, err := uuid.Parse(c.QueryParam("recipient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "recipient_id query parameter is required")
	}
	unreadOnly := c.QueryParam("unread") == "true"
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListAlerts(c.Request().Context(), recipientID, unreadOnly, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) MarkRead(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.MarkRead(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
