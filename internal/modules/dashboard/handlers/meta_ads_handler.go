package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
)

// MetaAdsPages serves the Meta Ads page
type MetaAdsPages interface {
	Overview(ctx context.Context, w *analytics.TimeWindow, filter models.MetaAdsFilter) (*models.MetaAdsPage, error)
	Campaigns(ctx context.Context) ([]string, error)
}

type MetaAdsHandler struct {
	svc     MetaAdsPages
	windows *WindowParser
}

func NewMetaAdsHandler(svc MetaAdsPages, windows *WindowParser) *MetaAdsHandler {
	return &MetaAdsHandler{svc: svc, windows: windows}
}

// GetOverview godoc
// @Summary Meta Ads page
// @Description Cards, funnel, scatter plots, campaign series and ad rankings
// @Tags MetaAds
// @Produce json
// @Security BearerAuth
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param period query string false "Named period"
// @Param campaigns query string false "Comma separated campaign names"
// @Param statuses query string false "Comma separated ad statuses"
// @Success 200 {object} models.MetaAdsPage
// @Router /api/v1/meta-ads [get]
func (h *MetaAdsHandler) GetOverview(c *fiber.Ctx) error {
	w, err := h.windows.Parse(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	page, err := h.svc.Overview(c.UserContext(), w, models.MetaAdsFilter{
		Campaigns: queryList(c, "campaigns"),
		Statuses:  queryList(c, "statuses"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GetCampaigns godoc
// @Summary Campaign names for the filter
// @Tags MetaAds
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/meta-ads/campaigns [get]
func (h *MetaAdsHandler) GetCampaigns(c *fiber.Ctx) error {
	campaigns, err := h.svc.Campaigns(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"campaigns": campaigns})
}
