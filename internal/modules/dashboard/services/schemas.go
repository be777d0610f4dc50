package services

import (
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/metrics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
)

// Row fields shared by the page services
const (
	FieldPrice       = "price"
	FieldSKU         = "sku"
	FieldOrderNumber = "order_number"
	FieldQuantity    = "quantity"

	FieldLikes        = "likes"
	FieldComments     = "comments"
	FieldSaved        = "saved"
	FieldShares       = "shares"
	FieldReplies      = "replies"
	FieldInteractions = "interactions"
	FieldMediaType    = "media_type"
	FieldCaption      = "caption"
	FieldPermalink    = "permalink"

	FieldCampaign = "campaign_name"
	FieldAdName   = "ad_name"
	FieldAdID     = "ad_id"
	FieldAdStatus = "ad_status"

	FieldCost        = "cost"
	FieldRevenue     = "revenue"
	FieldConversions = "conversions"

	FieldMetric       = "metric"
	FieldSessions     = "sessions"
	FieldBotSessions  = "bot_sessions"
	FieldUsers        = "users"
	FieldAvgScroll    = "avg_scroll_depth"
	FieldTotalTime    = "total_time"
	FieldDepth        = "depth"
	FieldVisitors     = "visitors"
	FieldDropOff      = "drop_off"
	FieldAvgTime      = "avg_time"
	FieldSessionShare = "session_share"
)

func numeric(policy metrics.Policy, names ...string) []metrics.Column {
	cols := make([]metrics.Column, len(names))
	for i, n := range names {
		cols[i] = metrics.Column{Name: n, Policy: policy}
	}
	return cols
}

func labels(names ...string) []metrics.Column {
	cols := make([]metrics.Column, len(names))
	for i, n := range names {
		cols[i] = metrics.Column{Name: n}
	}
	return cols
}

// SchemaFor returns the coercion schema of a collection
func SchemaFor(collection string, loc *time.Location) (metrics.Schema, error) {
	switch collection {
	case models.CollectionShopify:
		return metrics.Schema{
			TimeColumn: "date",
			DateOnly:   true,
			Location:   loc,
			Numeric:    numeric(metrics.FailToZero, FieldPrice),
			Labels:     labels(FieldSKU, FieldOrderNumber),
		}, nil

	case models.CollectionPosts:
		return metrics.Schema{
			TimeColumn: "timestamp",
			Location:   loc,
			Numeric:    numeric(metrics.FailToMissing, metrics.FieldReach, FieldLikes, FieldComments, FieldSaved, FieldShares),
			Labels:     labels(FieldMediaType, FieldCaption, FieldPermalink),
		}, nil

	case models.CollectionStories:
		return metrics.Schema{
			TimeColumn: "timestamp",
			Location:   loc,
			Numeric:    numeric(metrics.FailToZero, metrics.FieldReach, FieldReplies, FieldInteractions),
			Labels:     labels(FieldMediaType),
		}, nil

	case models.CollectionMetaAds:
		return metrics.Schema{
			TimeColumn: "date_start",
			DateOnly:   true,
			Location:   loc,
			Numeric: numeric(metrics.FailToZero,
				metrics.FieldImpressions, metrics.FieldReach, metrics.FieldFrequency, metrics.FieldClicks, metrics.FieldSpend,
				metrics.FieldVideoView3s, metrics.FieldVideoView30s,
				metrics.FieldVideoP25, metrics.FieldVideoP50, metrics.FieldVideoP75, metrics.FieldVideoP95, metrics.FieldVideoP100,
				metrics.FieldAddToCart, metrics.FieldInitiateCheckout, metrics.FieldPurchase,
			),
			Labels: labels(FieldAdID, FieldAdName, FieldCampaign, FieldAdStatus),
		}, nil

	case models.CollectionGoogleAnalytics:
		return metrics.Schema{
			TimeColumn:  "date",
			TimeLayouts: []string{"20060102"},
			DateOnly:    true,
			Location:    loc,
			Numeric: []metrics.Column{
				{Name: "adCost", Field: FieldCost, Policy: metrics.FailToMissing},
				{Name: "adClicks", Field: metrics.FieldClicks, Policy: metrics.FailToMissing},
				{Name: "conversoes", Field: FieldConversions, Policy: metrics.FailToMissing},
				{Name: "receitaCompras", Field: FieldRevenue, Policy: metrics.FailToMissing},
				{Name: "adImpressions", Field: metrics.FieldImpressions, Policy: metrics.FailToMissing},
			},
		}, nil

	case models.CollectionEstoque:
		return metrics.Schema{
			TimeColumn: "timestamp",
			Location:   loc,
			Numeric:    []metrics.Column{{Name: "inventory_quantity", Field: FieldQuantity, Policy: metrics.FailToZero}},
			Labels:     labels(FieldSKU),
		}, nil

	case models.CollectionVendas:
		return metrics.Schema{
			Numeric: []metrics.Column{{Name: "Quantidade", Field: FieldQuantity, Policy: metrics.FailToZero}},
			Labels:  []metrics.Column{{Name: "Código do produto", Field: FieldSKU}},
		}, nil

	case models.CollectionClarityInsights:
		return metrics.Schema{
			TimeColumn: "timestamp",
			Location:   loc,
			Numeric: []metrics.Column{
				{Name: "sessionsCount", Field: FieldSessions, Policy: metrics.FailToMissing},
				{Name: "totalBotSessionCount", Field: FieldBotSessions, Policy: metrics.FailToMissing},
				{Name: "distinctUserCount", Field: FieldUsers, Policy: metrics.FailToMissing},
				{Name: "averageScrollDepth", Field: FieldAvgScroll, Policy: metrics.FailToMissing},
				{Name: "totalTime", Field: FieldTotalTime, Policy: metrics.FailToMissing},
			},
			Labels:       []metrics.Column{{Name: "metricName", Field: FieldMetric}},
			RequireValue: []string{FieldSessions},
		}, nil

	case models.CollectionScrollData:
		return metrics.Schema{
			TimeColumn: "timestamp",
			Location:   loc,
			Numeric: []metrics.Column{
				{Name: "Scroll depth", Field: FieldDepth, Policy: metrics.FailToMissing},
				{Name: "No of visitors", Field: FieldVisitors, Policy: metrics.FailToMissing},
				{Name: "% drop off", Field: FieldDropOff, Policy: metrics.FailToMissing},
			},
		}, nil

	case models.CollectionAttentionData:
		return metrics.Schema{
			TimeColumn: "timestamp",
			Location:   loc,
			Numeric: []metrics.Column{
				{Name: "Scroll depth", Field: FieldDepth, Policy: metrics.FailToMissing},
				{Name: "Average time", Field: FieldAvgTime, Policy: metrics.FailToMissing},
				{Name: "% of session length", Field: FieldSessionShare, Policy: metrics.FailToMissing},
			},
		}, nil
	}

	return metrics.Schema{}, fmt.Errorf("%w: unknown collection %q", ErrInvalidRequest, collection)
}
