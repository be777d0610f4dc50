package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
)

// ShopifyPages serves the sales pages
type ShopifyPages interface {
	Overview(ctx context.Context, w *analytics.TimeWindow) (*models.ShopifyOverview, error)
	SalesShare(ctx context.Context) (*models.SalesShare, error)
	Forecast(ctx context.Context, horizon int) (*models.ForecastReport, error)
}

type ShopifyHandler struct {
	svc            ShopifyPages
	windows        *WindowParser
	defaultHorizon int
}

func NewShopifyHandler(svc ShopifyPages, windows *WindowParser, defaultHorizon int) *ShopifyHandler {
	return &ShopifyHandler{svc: svc, windows: windows, defaultHorizon: defaultHorizon}
}

// GetOverview godoc
// @Summary Shopify sales overview
// @Description Revenue cards, daily and monthly revenue, product pies and the sales table
// @Tags Shopify
// @Produce json
// @Security BearerAuth
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param period query string false "Named period, e.g. last_30_days"
// @Success 200 {object} models.ShopifyOverview
// @Failure 400 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/v1/shopify [get]
func (h *ShopifyHandler) GetOverview(c *fiber.Ctx) error {
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

// GetSalesShare godoc
// @Summary Units sold per SKU
// @Description Share of the total units sold per SKU, from the sales export
// @Tags Shopify
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.SalesShare
// @Router /api/v1/shopify/sales-share [get]
func (h *ShopifyHandler) GetSalesShare(c *fiber.Ctx) error {
	share, err := h.svc.SalesShare(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(share)
}

// GetForecast godoc
// @Summary Purchase forecast per SKU
// @Description Projected demand and reorder quantity for the horizon
// @Tags Shopify
// @Produce json
// @Security BearerAuth
// @Param horizon query int false "Horizon in days"
// @Success 200 {object} models.ForecastReport
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/shopify/forecast [get]
func (h *ShopifyHandler) GetForecast(c *fiber.Ctx) error {
	horizon := h.defaultHorizon
	if raw := c.Query("horizon"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "horizon must be an integer")
		}
		horizon = n
	}

	report, err := h.svc.Forecast(c.UserContext(), horizon)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
