package services

import (
	"context"
	"sort"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/metrics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
)

const adLibraryURL = "https://www.facebook.com/ads/library/?id="

// Derived per-row fields
const (
	fieldCTR      = "ctr"
	fieldCPC      = "cpc"
	fieldCPA      = "cpa"
	fieldCPP      = "cpp"
	fieldCVR      = "cvr"
	fieldHookRate = "hook_rate"
	fieldHoldRate = "hold_rate"
	fieldROASReal = "roas_real"
)

// MetaAdsService builds the Meta Ads page
type MetaAdsService struct {
	source RowSource
}

func NewMetaAdsService(source RowSource) *MetaAdsService {
	return &MetaAdsService{source: source}
}

// Campaigns lists the campaign names present in the data, sorted
func (s *MetaAdsService) Campaigns(ctx context.Context) ([]string, error) {
	rows, err := s.source.Rows(ctx, models.CollectionMetaAds)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	names := []string{}
	for _, row := range rows {
		name := row.Label(FieldCampaign)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// rowRatios derives the ad metrics of a single row
func rowRatios(row metrics.Row) metrics.AdRatios {
	return metrics.AdTotalsFromRows([]metrics.Row{row}).Ratios()
}

// withRatios attaches the per-row ratios used by tables and rankings
func withRatios(rows []metrics.Row) []metrics.Row {
	out := make([]metrics.Row, len(rows))
	for i, row := range rows {
		r := rowRatios(row)
		out[i] = row.
			With(fieldCTR, r.CTR).
			With(fieldCPC, r.CPC).
			With(fieldCPA, r.CPA).
			With(fieldCPP, r.CPP).
			With(fieldCVR, r.CVR).
			With(fieldHookRate, r.HookRate).
			With(fieldHoldRate, r.HoldRate).
			With(fieldROASReal, r.ROASReal)
	}
	return out
}

// RowMeans averages the per-row ratios, the figures shown by the ad manager
func RowMeans(rows []metrics.Row) metrics.AdRatios {
	if len(rows) == 0 {
		return metrics.AdRatios{}
	}
	var sum metrics.AdRatios
	for _, row := range rows {
		r := rowRatios(row)
		sum.CTR += r.CTR
		sum.CPC += r.CPC
		sum.CPM += r.CPM
		sum.CPA += r.CPA
		sum.CPP += r.CPP
		sum.CVR += r.CVR
		sum.HookRate += r.HookRate
		sum.HoldRate += r.HoldRate
		sum.ROASReal += r.ROASReal
		sum.AOVEstimated += r.AOVEstimated
		sum.ROASEstimated += r.ROASEstimated
	}
	n := float64(len(rows))
	return metrics.AdRatios{
		CTR:           sum.CTR / n,
		CPC:           sum.CPC / n,
		CPM:           sum.CPM / n,
		CPA:           sum.CPA / n,
		CPP:           sum.CPP / n,
		CVR:           sum.CVR / n,
		HookRate:      sum.HookRate / n,
		HoldRate:      sum.HoldRate / n,
		ROASReal:      sum.ROASReal / n,
		AOVEstimated:  sum.AOVEstimated / n,
		ROASEstimated: sum.ROASEstimated / n,
	}
}

func matchesFilter(row metrics.Row, campaigns, statuses map[string]bool) bool {
	if len(campaigns) > 0 && !campaigns[row.Label(FieldCampaign)] {
		return false
	}
	if len(statuses) > 0 && !statuses[row.Label(FieldAdStatus)] {
		return false
	}
	return true
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = true
		}
	}
	return set
}

// Overview returns totals, ratios, funnel, rankings and the ad table
func (s *MetaAdsService) Overview(ctx context.Context, w *analytics.TimeWindow, filter models.MetaAdsFilter) (*models.MetaAdsPage, error) {
	all, err := s.source.Rows(ctx, models.CollectionMetaAds)
	if err != nil {
		return nil, err
	}
	loc := s.source.Location()

	campaigns, statuses := toSet(filter.Campaigns), toSet(filter.Statuses)
	rows := make([]metrics.Row, 0, len(all))
	for _, row := range all {
		if matchesFilter(row, campaigns, statuses) {
			rows = append(rows, row)
		}
	}

	filtered := analytics.FilterOptional(rows, w)
	page := &models.MetaAdsPage{PageMeta: newMeta(w)}
	markEmpty(&page.PageMeta, filtered, "ads")

	totals := metrics.AdTotalsFromRows(filtered)
	page.Totals = totals
	page.Ratios = totals.Ratios().Rounded()
	page.RowMeans = RowMeans(filtered).Rounded()
	page.Cards = adCards(rows, filtered, w)

	page.Funnel = funnel(totals)

	if span, ok := chartWindow(filtered, w, loc); ok {
		axis := analytics.CalendarDayAxis(span)
		page.SpendByCampaign = campaignSeries(filtered, metrics.FieldSpend, &axis, "Gasto Diário por Campanha")
		page.ClicksByCampaign = campaignSeries(filtered, metrics.FieldClicks, &axis, "Cliques Diários por Campanha")
		page.PurchaseByCampaign = campaignSeries(filtered, metrics.FieldPurchase, &axis, "Compras Diárias por Campanha")
	} else {
		page.SpendByCampaign = campaignSeries(filtered, metrics.FieldSpend, nil, "Gasto Diário por Campanha")
		page.ClicksByCampaign = campaignSeries(filtered, metrics.FieldClicks, nil, "Cliques Diários por Campanha")
		page.PurchaseByCampaign = campaignSeries(filtered, metrics.FieldPurchase, nil, "Compras Diárias por Campanha")
	}

	derived := withRatios(filtered)
	page.HookVsHold = make([]models.ScatterPoint, 0, len(derived))
	page.HookVsPurchase = make([]models.ScatterPoint, 0, len(derived))
	for _, row := range derived {
		page.HookVsHold = append(page.HookVsHold, models.ScatterPoint{
			Label: row.Label(FieldAdName),
			Group: row.Label(FieldCampaign),
			X:     metrics.Round2(row.Float(fieldHookRate)),
			Y:     metrics.Round2(row.Float(fieldHoldRate)),
			Size:  row.Float(metrics.FieldImpressions),
		})
		if row.Float(metrics.FieldVideoView3s) > 0 {
			page.HookVsPurchase = append(page.HookVsPurchase, models.ScatterPoint{
				Label: row.Label(FieldAdName),
				Group: row.Label(FieldCampaign),
				X:     metrics.Round2(row.Float(fieldHookRate)),
				Y:     row.Float(metrics.FieldPurchase),
				Size:  row.Float(metrics.FieldImpressions),
			})
		}
	}

	page.TopCPP = rankAds(derived, fieldCPP)
	page.TopCVR = rankAds(derived, fieldCVR)
	page.Ads = adsTable(derived)

	return page, nil
}

func adCards(rows, filtered []metrics.Row, w *analytics.TimeWindow) []analytics.StatCard {
	totals := metrics.AdTotalsFromRows(filtered)
	ratios := totals.Ratios()

	ratio := func(pick func(metrics.AdRatios) float64) func([]metrics.Row) float64 {
		return func(rs []metrics.Row) float64 {
			return pick(metrics.AdTotalsFromRows(rs).Ratios())
		}
	}

	card := func(title, format string, value float64, prev *float64) analytics.StatCard {
		return analytics.NewStatCard(analytics.StatCardConfig{Title: title, Format: format, ChangeLabel: "vs previous period"}, value, prev)
	}

	return []analytics.StatCard{
		card("Impressões", "number", totals.Impressions, previous(rows, w, sumOf(metrics.FieldImpressions))),
		card("Cliques", "number", totals.Clicks, previous(rows, w, sumOf(metrics.FieldClicks))),
		card("Compras", "number", totals.Purchase, previous(rows, w, sumOf(metrics.FieldPurchase))),
		card("Gasto Total", "currency", totals.Spend, previous(rows, w, sumOf(metrics.FieldSpend))),
		card("CTR (%)", "percentage", ratios.CTR, previous(rows, w, ratio(func(r metrics.AdRatios) float64 { return r.CTR }))),
		card("CPC (R$)", "currency", ratios.CPC, previous(rows, w, ratio(func(r metrics.AdRatios) float64 { return r.CPC }))),
		card("CPP (R$)", "currency", ratios.CPP, previous(rows, w, ratio(func(r metrics.AdRatios) float64 { return r.CPP }))),
		card("ROAS Real", "ratio", ratios.ROASReal, previous(rows, w, ratio(func(r metrics.AdRatios) float64 { return r.ROASReal }))),
		card("Hook Rate", "percentage", ratios.HookRate, previous(rows, w, ratio(func(r metrics.AdRatios) float64 { return r.HookRate }))),
		card("Hold Rate", "percentage", ratios.HoldRate, previous(rows, w, ratio(func(r metrics.AdRatios) float64 { return r.HoldRate }))),
		card("CVR", "percentage", ratios.CVR, previous(rows, w, ratio(func(r metrics.AdRatios) float64 { return r.CVR }))),
		card("ROAS Estimado", "ratio", ratios.ROASEstimated, previous(rows, w, ratio(func(r metrics.AdRatios) float64 { return r.ROASEstimated }))),
	}
}

// funnel reports impressions, clicks, carts and purchases with the
// conversion from each stage to the next
func funnel(t metrics.AdTotals) []models.FunnelStage {
	stages := []struct {
		name  string
		value float64
	}{
		{"Impressões", t.Impressions},
		{"Cliques", t.Clicks},
		{"Carrinhos", t.AddToCart},
		{"Compras", t.Purchase},
	}

	out := make([]models.FunnelStage, len(stages))
	for i, st := range stages {
		pct := 100.0
		if i > 0 {
			pct = metrics.Round2(metrics.Percent(st.value, stages[i-1].value))
		}
		out[i] = models.FunnelStage{Stage: st.name, Value: st.value, PercentOfPrevious: pct}
	}
	return out
}

func campaignSeries(rows []metrics.Row, field string, axis *analytics.Axis, title string) analytics.ChartData {
	agg := analytics.AggregateSeries(rows, analytics.DayKey, analytics.LabelKey(FieldCampaign), field, analytics.Sum, axis)
	return analytics.SeriesToChartData(agg, title)
}

// rankAds returns the ten ads with the highest positive value of field
func rankAds(rows []metrics.Row, field string) []models.RankedAd {
	positive := make([]metrics.Row, 0, len(rows))
	for _, row := range rows {
		if row.Float(field) > 0 {
			positive = append(positive, row)
		}
	}

	ranked := analytics.TopRows(positive, field, FieldAdName, topLimit, false)
	out := make([]models.RankedAd, len(ranked))
	for i, row := range ranked {
		out[i] = models.RankedAd{
			AdID:     row.Label(FieldAdID),
			AdName:   row.Label(FieldAdName),
			Campaign: row.Label(FieldCampaign),
			Value:    metrics.Round2(row.Float(field)),
		}
	}
	return out
}

func adsTable(rows []metrics.Row) models.Table {
	ranked := analytics.TopRows(rows, fieldCTR, FieldAdName, 0, false)

	table := models.Table{
		Headers: []string{"date", "ad_name", "campaign_name", "ctr", "cpc", "cpa", "cpp", "roas_real", "ad_library"},
		Rows:    make([][]interface{}, 0, len(ranked)),
	}
	for _, row := range ranked {
		link := ""
		if id := row.Label(FieldAdID); id != "" {
			link = adLibraryURL + id
		}
		table.Rows = append(table.Rows, []interface{}{
			formatDate(row.Time),
			row.Label(FieldAdName),
			row.Label(FieldCampaign),
			metrics.Round2(row.Float(fieldCTR)),
			metrics.Round2(row.Float(fieldCPC)),
			metrics.Round2(row.Float(fieldCPA)),
			metrics.Round2(row.Float(fieldCPP)),
			metrics.Round2(row.Float(fieldROASReal)),
			link,
		})
	}
	return table
}
