package services

import (
	"context"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/metrics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
)

const (
	fieldROAS = "roas"
	fieldCPM  = "cpm"
)

// GoogleAnalyticsService builds the web ads page
type GoogleAnalyticsService struct {
	source RowSource
}

func NewGoogleAnalyticsService(source RowSource) *GoogleAnalyticsService {
	return &GoogleAnalyticsService{source: source}
}

func webTotals(rows []metrics.Row) metrics.WebTotals {
	return metrics.WebTotals{
		Cost:        metrics.Sum(rows, FieldCost),
		Clicks:      metrics.Sum(rows, metrics.FieldClicks),
		Impressions: metrics.Sum(rows, metrics.FieldImpressions),
		Revenue:     metrics.Sum(rows, FieldRevenue),
		Conversions: metrics.Sum(rows, FieldConversions),
	}
}

// Overview returns ROAS, CTR, CPM and CPC on totals plus their daily means
func (s *GoogleAnalyticsService) Overview(ctx context.Context, w *analytics.TimeWindow) (*models.GoogleAnalyticsPage, error) {
	rows, err := s.source.Rows(ctx, models.CollectionGoogleAnalytics)
	if err != nil {
		return nil, err
	}
	loc := s.source.Location()

	filtered := analytics.FilterOptional(rows, w)
	page := &models.GoogleAnalyticsPage{PageMeta: newMeta(w)}
	markEmpty(&page.PageMeta, filtered, "Google Analytics data")

	totals := webTotals(filtered)
	ratios := totals.Ratios()
	page.Totals = totals
	page.Ratios = metrics.WebRatios{
		ROAS: metrics.Round2(ratios.ROAS),
		CTR:  metrics.Round2(ratios.CTR),
		CPM:  metrics.Round2(ratios.CPM),
		CPC:  metrics.Round2(ratios.CPC),
	}

	ratio := func(pick func(metrics.WebRatios) float64) func([]metrics.Row) float64 {
		return func(rs []metrics.Row) float64 {
			return pick(webTotals(rs).Ratios())
		}
	}
	page.Cards = []analytics.StatCard{
		analytics.NewStatCard(analytics.StatCardConfig{Title: "ROAS", Format: "ratio", ChangeLabel: "vs previous period"},
			ratios.ROAS, previous(rows, w, ratio(func(r metrics.WebRatios) float64 { return r.ROAS }))),
		analytics.NewStatCard(analytics.StatCardConfig{Title: "CTR", Format: "percentage", ChangeLabel: "vs previous period"},
			ratios.CTR, previous(rows, w, ratio(func(r metrics.WebRatios) float64 { return r.CTR }))),
		analytics.NewStatCard(analytics.StatCardConfig{Title: "CPM", Format: "currency", ChangeLabel: "vs previous period"},
			ratios.CPM, previous(rows, w, ratio(func(r metrics.WebRatios) float64 { return r.CPM }))),
		analytics.NewStatCard(analytics.StatCardConfig{Title: "CPC", Format: "currency", ChangeLabel: "vs previous period"},
			ratios.CPC, previous(rows, w, ratio(func(r metrics.WebRatios) float64 { return r.CPC }))),
	}

	// per-row guarded ratios, averaged per day
	derived := make([]metrics.Row, len(filtered))
	for i, row := range filtered {
		r := webTotals([]metrics.Row{row}).Ratios()
		derived[i] = row.
			With(fieldROAS, r.ROAS).
			With(fieldCTR, r.CTR).
			With(fieldCPM, r.CPM).
			With(fieldCPC, r.CPC)
	}
	means := map[string]analytics.Reducer{
		fieldROAS: analytics.Mean,
		fieldCTR:  analytics.Mean,
		fieldCPM:  analytics.Mean,
		fieldCPC:  analytics.Mean,
	}
	page.Daily = analytics.ToLineChartData(daily(derived, w, loc, means), "Análise Diária",
		analytics.SeriesSpec{Name: "ROAS", Field: fieldROAS},
		analytics.SeriesSpec{Name: "CTR", Field: fieldCTR},
		analytics.SeriesSpec{Name: "CPM", Field: fieldCPM},
		analytics.SeriesSpec{Name: "CPC", Field: fieldCPC},
	)

	return page, nil
}
