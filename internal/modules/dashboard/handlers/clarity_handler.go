package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/stats"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
)

// ClarityPages serves the Clarity page and its period comparisons
type ClarityPages interface {
	Overview(ctx context.Context, w *analytics.TimeWindow) (*models.ClarityPage, error)
	CompareScroll(ctx context.Context, a, b analytics.TimeWindow, mode stats.Mode, correction stats.Correction) (*models.ScrollComparison, error)
	CompareCutoff(ctx context.Context, a, b analytics.TimeWindow, depth int, mode stats.Mode) (*models.CutoffComparison, error)
}

type ClarityHandler struct {
	svc     ClarityPages
	windows *WindowParser
}

func NewClarityHandler(svc ClarityPages, windows *WindowParser) *ClarityHandler {
	return &ClarityHandler{svc: svc, windows: windows}
}

// GetOverview godoc
// @Summary Clarity page
// @Description Insights scatter, scroll depth and attention charts
// @Tags Clarity
// @Produce json
// @Security BearerAuth
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param period query string false "Named period"
// @Success 200 {object} models.ClarityPage
// @Router /api/v1/clarity [get]
func (h *ClarityHandler) GetOverview(c *fiber.Ctx) error {
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

// periods reads the two comparison windows and the test mode
func (h *ClarityHandler) periods(c *fiber.Ctx) (analytics.TimeWindow, analytics.TimeWindow, stats.Mode, error) {
	a, err := h.windows.ParsePair(c, "a")
	if err != nil {
		return a, a, "", err
	}
	b, err := h.windows.ParsePair(c, "b")
	if err != nil {
		return a, b, "", err
	}
	mode, err := stats.ParseMode(c.Query("mode"))
	if err != nil {
		return a, b, "", err
	}
	return a, b, mode, nil
}

// GetScrollComparison godoc
// @Summary Compare scroll depth between two periods
// @Description Two-proportion z-test per scroll bucket, with an optional multiple-comparison correction
// @Tags Clarity
// @Produce json
// @Security BearerAuth
// @Param a_start query string true "Period A start (YYYY-MM-DD)"
// @Param a_end query string true "Period A end (YYYY-MM-DD)"
// @Param b_start query string true "Period B start (YYYY-MM-DD)"
// @Param b_end query string true "Period B end (YYYY-MM-DD)"
// @Param mode query string false "exact or funnel"
// @Param correction query string false "none, bonferroni or holm"
// @Success 200 {object} models.ScrollComparison
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/clarity/scroll-comparison [get]
func (h *ClarityHandler) GetScrollComparison(c *fiber.Ctx) error {
	a, b, mode, err := h.periods(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	correction, err := stats.ParseCorrection(c.Query("correction"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.svc.CompareScroll(c.UserContext(), a, b, mode, correction)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// GetScrollCutoff godoc
// @Summary Compare two periods at one scroll depth
// @Tags Clarity
// @Produce json
// @Security BearerAuth
// @Param a_start query string true "Period A start (YYYY-MM-DD)"
// @Param a_end query string true "Period A end (YYYY-MM-DD)"
// @Param b_start query string true "Period B start (YYYY-MM-DD)"
// @Param b_end query string true "Period B end (YYYY-MM-DD)"
// @Param mode query string false "exact or funnel"
// @Param depth query int true "Scroll depth 0..100"
// @Success 200 {object} models.CutoffComparison
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/clarity/scroll-cutoff [get]
func (h *ClarityHandler) GetScrollCutoff(c *fiber.Ctx) error {
	a, b, mode, err := h.periods(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	depth, err := strconv.Atoi(c.Query("depth"))
	if err != nil {
		return badRequest(c, "depth must be an integer between 0 and 100")
	}

	result, err := h.svc.CompareCutoff(c.UserContext(), a, b, depth, mode)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
