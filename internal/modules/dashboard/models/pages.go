package models

import (
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/forecast"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/metrics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/stats"
)

// PageMeta is carried by every page response
type PageMeta struct {
	Window   *analytics.TimeWindow `json:"window,omitempty"`
	NoData   bool                  `json:"no_data"`
	Warnings []string              `json:"warnings,omitempty"`
}

// Warn appends a warning for the front end
func (m *PageMeta) Warn(msg string) {
	m.Warnings = append(m.Warnings, msg)
}

// Table is a generic tabular block
type Table struct {
	Headers []string        `json:"headers"`
	Rows    [][]interface{} `json:"rows"`
}

// ScatterPoint is one point of a scatter/bubble chart
type ScatterPoint struct {
	Label string  `json:"label"`
	Group string  `json:"group,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size,omitempty"`
}

// ---------- Shopify ----------

type ShopifyOverview struct {
	PageMeta
	Cards          []analytics.StatCard   `json:"cards"`
	RevenueByDay   analytics.ChartData    `json:"revenue_by_day"`
	RevenueByMonth analytics.ChartData    `json:"revenue_by_month"`
	ByLength       analytics.PieChartData `json:"by_length"`
	ByCompression  analytics.PieChartData `json:"by_compression"`
	ByColor        analytics.PieChartData `json:"by_color"`
	BySize         analytics.PieChartData `json:"by_size"`
	TopSKUs        analytics.ChartData    `json:"top_skus"`
	Sales          Table                  `json:"sales"`
}

type SalesShareItem struct {
	SKU        string  `json:"sku"`
	Units      int64   `json:"units"`
	Percentage float64 `json:"percentage"`
}

type SalesShare struct {
	PageMeta
	TotalUnits int64               `json:"total_units"`
	Items      []SalesShareItem    `json:"items"`
	Chart      analytics.ChartData `json:"chart"`
}

type ForecastReport struct {
	PageMeta
	HorizonDays  int                    `json:"horizon_days"`
	TotalReorder int64                  `json:"total_reorder"`
	Items        []forecast.SkuForecast `json:"items"`
}

// ---------- Instagram ----------

type TopPost struct {
	Permalink string  `json:"permalink"`
	Reach     float64 `json:"reach"`
	Likes     float64 `json:"likes"`
	Comments  float64 `json:"comments"`
}

type PostsPage struct {
	PageMeta
	Cards       []analytics.StatCard `json:"cards"`
	Daily       analytics.ChartData  `json:"daily"`
	ByMediaType analytics.ChartData  `json:"by_media_type"`
	ByWeekday   analytics.ChartData  `json:"by_weekday"`
	ByHour      analytics.ChartData  `json:"by_hour"`
	TopPosts    []TopPost            `json:"top_posts"`
	Posts       Table                `json:"posts"`
}

type StoriesPage struct {
	PageMeta
	Cards                []analytics.StatCard `json:"cards"`
	BestDay              string               `json:"best_day,omitempty"`
	MeanReachByDay       analytics.ChartData  `json:"mean_reach_by_day"`
	ByMediaType          analytics.ChartData  `json:"by_media_type"`
	InteractionHistogram analytics.ChartData  `json:"interaction_histogram"`
	RepliesByDay         analytics.ChartData  `json:"replies_by_day"`
	Stories              Table                `json:"stories"`
}

// ---------- Meta Ads ----------

type MetaAdsFilter struct {
	Campaigns []string
	Statuses  []string
}

type FunnelStage struct {
	Stage             string  `json:"stage"`
	Value             float64 `json:"value"`
	PercentOfPrevious float64 `json:"percent_of_previous"`
}

type RankedAd struct {
	AdID     string  `json:"ad_id"`
	AdName   string  `json:"ad_name"`
	Campaign string  `json:"campaign"`
	Value    float64 `json:"value"`
}

type MetaAdsPage struct {
	PageMeta
	Cards              []analytics.StatCard `json:"cards"`
	Totals             metrics.AdTotals     `json:"totals"`
	Ratios             metrics.AdRatios     `json:"ratios"`
	RowMeans           metrics.AdRatios     `json:"row_means"`
	Funnel             []FunnelStage        `json:"funnel"`
	SpendByCampaign    analytics.ChartData  `json:"spend_by_campaign"`
	ClicksByCampaign   analytics.ChartData  `json:"clicks_by_campaign"`
	PurchaseByCampaign analytics.ChartData  `json:"purchase_by_campaign"`
	HookVsHold         []ScatterPoint       `json:"hook_vs_hold"`
	HookVsPurchase     []ScatterPoint       `json:"hook_vs_purchase"`
	TopCPP             []RankedAd           `json:"top_cpp"`
	TopCVR             []RankedAd           `json:"top_cvr"`
	Ads                Table                `json:"ads"`
}

// ---------- Google Analytics ----------

type GoogleAnalyticsPage struct {
	PageMeta
	Cards  []analytics.StatCard `json:"cards"`
	Totals metrics.WebTotals    `json:"totals"`
	Ratios metrics.WebRatios    `json:"ratios"`
	Daily  analytics.ChartData  `json:"daily"`
}

// ---------- Clarity ----------

type ClarityPage struct {
	PageMeta
	InsightsScatter    []ScatterPoint      `json:"insights_scatter"`
	VisitorsByDepth    analytics.ChartData `json:"visitors_by_depth"`
	DropOffByDepth     analytics.ChartData `json:"drop_off_by_depth"`
	AvgScrollByDay     analytics.ChartData `json:"avg_scroll_by_day"`
	VisitorsByDay      analytics.ChartData `json:"visitors_by_day"`
	DropOffByDay       analytics.ChartData `json:"drop_off_by_day"`
	VisitorsByDayDepth analytics.ChartData `json:"visitors_by_day_depth"`
	AttentionByDepth   analytics.ChartData `json:"attention_by_depth"`
	Insights           Table               `json:"insights"`
}

type ScrollComparison struct {
	PageMeta
	WindowA   analytics.TimeWindow `json:"window_a"`
	WindowB   analytics.TimeWindow `json:"window_b"`
	VisitorsA int64                `json:"visitors_a"`
	VisitorsB int64                `json:"visitors_b"`
	Result    stats.Comparison     `json:"result"`
	Rates     analytics.ChartData  `json:"rates"`
}

type CutoffComparison struct {
	PageMeta
	WindowA   analytics.TimeWindow   `json:"window_a"`
	WindowB   analytics.TimeWindow   `json:"window_b"`
	Mode      stats.Mode             `json:"mode"`
	ModeLabel string                 `json:"mode_label"`
	Result    stats.BucketComparison `json:"result"`
}
