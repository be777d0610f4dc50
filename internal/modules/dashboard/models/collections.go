package models

// Collection names as stored in the database
const (
	CollectionShopify         = "Shopify"
	CollectionPosts           = "Posts"
	CollectionStories         = "stories"
	CollectionMetaAds         = "metaAds"
	CollectionGoogleAnalytics = "googleAnalytics"
	CollectionEstoque         = "estoque"
	CollectionVendas          = "vendas"
	CollectionClarityInsights = "clarityInsights"
	CollectionScrollData      = "scrollData"
	CollectionAttentionData   = "attentionData"
)

// Contract lists the columns a collection must expose
type Contract struct {
	Collection string
	Required   []string
	Optional   []string
}

// Contracts is the schema contract with the data store, one per collection
var Contracts = map[string]Contract{
	CollectionShopify: {
		Collection: CollectionShopify,
		Required:   []string{"date", "price", "order_number", "sku"},
	},
	CollectionPosts: {
		Collection: CollectionPosts,
		Required:   []string{"timestamp", "media_type", "reach", "likes", "comments", "saved", "shares", "permalink", "caption"},
	},
	CollectionStories: {
		Collection: CollectionStories,
		Required:   []string{"timestamp", "media_type", "reach", "replies", "interactions"},
	},
	CollectionMetaAds: {
		Collection: CollectionMetaAds,
		Required: []string{
			"date_start", "campaign_name", "ad_name", "ad_id",
			"impressions", "reach", "frequency", "clicks", "spend",
			"video_view_3s", "video_p25", "video_p50", "video_p75", "video_p95", "video_p100",
			"add_to_cart", "initiate_checkout", "purchase",
		},
		Optional: []string{"cpc", "cpm", "cpp", "ctr", "video_view_30s", "hook_rate", "ad_status"},
	},
	CollectionGoogleAnalytics: {
		Collection: CollectionGoogleAnalytics,
		Required:   []string{"date", "adCost", "adClicks", "conversoes", "receitaCompras", "adImpressions"},
	},
	CollectionEstoque: {
		Collection: CollectionEstoque,
		Required:   []string{"sku", "inventory_quantity", "timestamp"},
	},
	CollectionVendas: {
		Collection: CollectionVendas,
		Required:   []string{"Código do produto", "Quantidade"},
	},
	CollectionClarityInsights: {
		Collection: CollectionClarityInsights,
		Required:   []string{"timestamp", "metricName", "sessionsCount", "totalBotSessionCount", "distinctUserCount", "averageScrollDepth", "totalTime"},
	},
	CollectionScrollData: {
		Collection: CollectionScrollData,
		Required:   []string{"timestamp", "Scroll depth", "No of visitors", "% drop off"},
	},
	CollectionAttentionData: {
		Collection: CollectionAttentionData,
		Required:   []string{"timestamp", "Scroll depth", "Average time", "% of session length"},
	},
}

// AllCollections returns every known collection in a stable order
func AllCollections() []string {
	return []string{
		CollectionShopify,
		CollectionEstoque,
		CollectionVendas,
		CollectionPosts,
		CollectionStories,
		CollectionMetaAds,
		CollectionGoogleAnalytics,
		CollectionClarityInsights,
		CollectionScrollData,
		CollectionAttentionData,
	}
}
