package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
)

type GoogleAnalyticsPage interface {
	Overview(ctx context.Context, w *analytics.TimeWindow) (*models.GoogleAnalyticsPage, error)
}

type GoogleAnalyticsHandler struct {
	svc     GoogleAnalyticsPage
	windows *WindowParser
}

func NewGoogleAnalyticsHandler(svc GoogleAnalyticsPage, windows *WindowParser) *GoogleAnalyticsHandler {
	return &GoogleAnalyticsHandler{svc: svc, windows: windows}
}

// GetOverview godoc
// @Summary Google Analytics page
// @Tags GoogleAnalytics
// @Produce json
// @Security BearerAuth
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param period query string false "Named period"
// @Success 200 {object} models.GoogleAnalyticsPage
// @Router /api/v1/google-analytics [get]
func (h *GoogleAnalyticsHandler) GetOverview(c *fiber.Ctx) error {
	w, err := h.windows.Parse(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	page, err := h.svc.Overview(c.UserContext(), w)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}
