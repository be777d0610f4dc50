package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
)

// InstagramPages serves the posts and stories pages
type InstagramPages interface {
	Posts(ctx context.Context, w *analytics.TimeWindow) (*models.PostsPage, error)
	Stories(ctx context.Context, w *analytics.TimeWindow) (*models.StoriesPage, error)
}

type InstagramHandler struct {
	svc     InstagramPages
	windows *WindowParser
}

func NewInstagramHandler(svc InstagramPages, windows *WindowParser) *InstagramHandler {
	return &InstagramHandler{svc: svc, windows: windows}
}

// GetPosts godoc
// @Summary Instagram posts page
// @Tags Instagram
// @Produce json
// @Security BearerAuth
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param period query string false "Named period"
// @Success 200 {object} models.PostsPage
// @Router /api/v1/instagram/posts [get]
func (h *InstagramHandler) GetPosts(c *fiber.Ctx) error {
	w, err := h.windows.Parse(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	page, err := h.svc.Posts(c.UserContext(), w)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GetStories godoc
// @Summary Instagram stories page
// @Tags Instagram
// @Produce json
// @Security BearerAuth
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param period query string false "Named period"
// @Success 200 {object} models.StoriesPage
// @Router /api/v1/instagram/stories [get]
func (h *InstagramHandler) GetStories(c *fiber.Ctx) error {
	w, err := h.windows.Parse(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	page, err := h.svc.Stories(c.UserContext(), w)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}
