package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/auth"
)

// Router bundles the handlers mounted under /api/v1
type Router struct {
	Shopify         *ShopifyHandler
	Instagram       *InstagramHandler
	MetaAds         *MetaAdsHandler
	GoogleAnalytics *GoogleAnalyticsHandler
	Clarity         *ClarityHandler
	Chat            *ChatHandler
	Export          *ExportHandler
}

// Register mounts the dashboard routes on an authenticated group
func (r *Router) Register(api fiber.Router) {
	admin := auth.RequireRole(auth.RoleAdmin)

	api.Get("/shopify", r.Shopify.GetOverview)
	api.Get("/shopify/sales-share", r.Shopify.GetSalesShare)
	api.Get("/shopify/forecast", r.Shopify.GetForecast)

	api.Get("/instagram/posts", r.Instagram.GetPosts)
	api.Get("/instagram/stories", r.Instagram.GetStories)

	api.Get("/meta-ads", r.MetaAds.GetOverview)
	api.Get("/meta-ads/campaigns", r.MetaAds.GetCampaigns)

	api.Get("/google-analytics", r.GoogleAnalytics.GetOverview)

	api.Get("/clarity", r.Clarity.GetOverview)
	api.Get("/clarity/scroll-comparison", r.Clarity.GetScrollComparison)
	api.Get("/clarity/scroll-cutoff", r.Clarity.GetScrollCutoff)

	api.Post("/chat", r.Chat.Ask)
	api.Get("/chat/history", r.Chat.GetHistory)
	api.Delete("/chat/history", r.Chat.ResetHistory)
	api.Post("/chat/reindex", admin, r.Chat.Reindex)

	api.Get("/export", admin, r.Export.GetAll)
	api.Get("/export/:report", r.Export.GetReport)
}
