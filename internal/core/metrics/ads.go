package metrics

// Meta Ads row fields
const (
	FieldImpressions      = "impressions"
	FieldReach            = "reach"
	FieldFrequency        = "frequency"
	FieldClicks           = "clicks"
	FieldSpend            = "spend"
	FieldVideoView3s      = "video_view_3s"
	FieldVideoView30s     = "video_view_30s"
	FieldVideoP25         = "video_p25"
	FieldVideoP50         = "video_p50"
	FieldVideoP75         = "video_p75"
	FieldVideoP95         = "video_p95"
	FieldVideoP100        = "video_p100"
	FieldAddToCart        = "add_to_cart"
	FieldInitiateCheckout = "initiate_checkout"
	FieldPurchase         = "purchase"
)

// AdTotals holds summed ad counters
type AdTotals struct {
	Impressions      float64 `json:"impressions"`
	Reach            float64 `json:"reach"`
	Clicks           float64 `json:"clicks"`
	Spend            float64 `json:"spend"`
	VideoView3s      float64 `json:"video_view_3s"`
	VideoP100        float64 `json:"video_p100"`
	AddToCart        float64 `json:"add_to_cart"`
	InitiateCheckout float64 `json:"initiate_checkout"`
	Purchase         float64 `json:"purchase"`
}

// AdRatios are the derived ad metrics. Percentages are scaled by 100.
type AdRatios struct {
	CTR           float64 `json:"ctr"`
	CPC           float64 `json:"cpc"`
	CPM           float64 `json:"cpm"`
	CPA           float64 `json:"cpa"`
	CPP           float64 `json:"cpp"`
	CVR           float64 `json:"cvr"`
	HookRate      float64 `json:"hook_rate"`
	HoldRate      float64 `json:"hold_rate"`
	ROASReal      float64 `json:"roas_real"`
	AOVEstimated  float64 `json:"aov_estimated"`
	ROASEstimated float64 `json:"roas_estimated"`
}

// AdTotalsFromRows sums ad counters over rows
func AdTotalsFromRows(rows []Row) AdTotals {
	return AdTotals{
		Impressions:      Sum(rows, FieldImpressions),
		Reach:            Sum(rows, FieldReach),
		Clicks:           Sum(rows, FieldClicks),
		Spend:            Sum(rows, FieldSpend),
		VideoView3s:      Sum(rows, FieldVideoView3s),
		VideoP100:        Sum(rows, FieldVideoP100),
		AddToCart:        Sum(rows, FieldAddToCart),
		InitiateCheckout: Sum(rows, FieldInitiateCheckout),
		Purchase:         Sum(rows, FieldPurchase),
	}
}

// Ratios derives the ad metrics with guarded division
func (t AdTotals) Ratios() AdRatios {
	aov := SafeDiv(t.Purchase, t.AddToCart)

	return AdRatios{
		CTR:           Percent(t.Clicks, t.Impressions),
		CPC:           SafeDiv(t.Spend, t.Clicks),
		CPM:           PerMille(t.Spend, t.Impressions),
		CPA:           SafeDiv(t.Spend, t.AddToCart),
		CPP:           SafeDiv(t.Spend, t.Purchase),
		CVR:           Percent(t.Purchase, t.Clicks),
		HookRate:      Percent(t.VideoView3s, t.Impressions),
		HoldRate:      Percent(t.VideoP100, t.VideoView3s),
		ROASReal:      SafeDiv(t.Purchase, t.Spend),
		AOVEstimated:  aov,
		ROASEstimated: SafeDiv(t.AddToCart*aov, t.Spend),
	}
}

// Rounded returns a display copy rounded to 2 decimals
func (r AdRatios) Rounded() AdRatios {
	return AdRatios{
		CTR:           Round2(r.CTR),
		CPC:           Round2(r.CPC),
		CPM:           Round2(r.CPM),
		CPA:           Round2(r.CPA),
		CPP:           Round2(r.CPP),
		CVR:           Round2(r.CVR),
		HookRate:      Round2(r.HookRate),
		HoldRate:      Round2(r.HoldRate),
		ROASReal:      Round2(r.ROASReal),
		AOVEstimated:  Round2(r.AOVEstimated),
		ROASEstimated: Round2(r.ROASEstimated),
	}
}

// WebTotals holds summed web ad counters (Google Analytics)
type WebTotals struct {
	Cost        float64 `json:"cost"`
	Clicks      float64 `json:"clicks"`
	Impressions float64 `json:"impressions"`
	Revenue     float64 `json:"revenue"`
	Conversions float64 `json:"conversions"`
}

// WebRatios are the derived web ad metrics
type WebRatios struct {
	ROAS float64 `json:"roas"`
	CTR  float64 `json:"ctr"`
	CPM  float64 `json:"cpm"`
	CPC  float64 `json:"cpc"`
}

// Ratios derives ROAS, CTR, CPM and CPC
func (t WebTotals) Ratios() WebRatios {
	return WebRatios{
		ROAS: SafeDiv(t.Revenue, t.Cost),
		CTR:  Percent(t.Clicks, t.Impressions),
		CPM:  PerMille(t.Cost, t.Impressions),
		CPC:  SafeDiv(t.Cost, t.Clicks),
	}
}

// EngagementRate is (likes+comments+saved+shares)/reach in percent
func EngagementRate(likes, comments, saved, shares, reach float64) float64 {
	return Percent(likes+comments+saved+shares, reach)
}

// InteractionRate is (likes+comments+shares)/reach in percent
func InteractionRate(likes, comments, shares, reach float64) float64 {
	return Percent(likes+comments+shares, reach)
}
