package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"eduphysics/internal/service"
)

// AnalyticsHandler handles the read-only reporting endpoints.
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Overview godoc
// @Summary Enrollment analytics overview
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /analytics/overview [get]
func (h *AnalyticsHandler) Overview(c echo.Context) error {
	report, err := h.analyticsService.Overview(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    report,
	})
}

// Finance godoc
// @Summary Finance analytics breakdown
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /analytics/finance [get]
func (h *AnalyticsHandler) Finance(c echo.Context) error {
	report, err := h.analyticsService.Finance(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    report,
	})
}
