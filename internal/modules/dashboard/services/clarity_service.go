package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/metrics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/stats"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
)

const (
	fieldWeightedDepth = "weighted_depth"
	fieldAvgScroll     = "avg_scroll"
)

// ClarityService builds the Clarity page and the scroll A/B comparisons
type ClarityService struct {
	source RowSource
}

func NewClarityService(source RowSource) *ClarityService {
	return &ClarityService{source: source}
}

// Overview returns the insights scatter, scroll profiles and attention per depth
func (s *ClarityService) Overview(ctx context.Context, w *analytics.TimeWindow) (*models.ClarityPage, error) {
	insights, err := s.source.Rows(ctx, models.CollectionClarityInsights)
	if err != nil {
		return nil, err
	}
	scroll, err := s.source.Rows(ctx, models.CollectionScrollData)
	if err != nil {
		return nil, err
	}
	attention, err := s.source.Rows(ctx, models.CollectionAttentionData)
	if err != nil {
		return nil, err
	}
	loc := s.source.Location()

	insights = analytics.FilterOptional(insights, w)
	scroll = analytics.FilterOptional(scroll, w)
	attention = analytics.FilterOptional(attention, w)

	page := &models.ClarityPage{PageMeta: newMeta(w)}
	if len(insights) == 0 && len(scroll) == 0 {
		page.NoData = true
		page.Warn("no Clarity data in the selected period")
	}

	page.InsightsScatter = make([]models.ScatterPoint, 0, len(insights))
	for _, row := range insights {
		page.InsightsScatter = append(page.InsightsScatter, models.ScatterPoint{
			Label: row.Label(FieldMetric),
			Group: row.Label(FieldMetric),
			X:     row.Float(FieldSessions),
			Y:     row.Float(FieldTotalTime),
		})
	}

	binAxis := analytics.WithAxis(analytics.ScrollBinAxis())
	depthKey := analytics.ScrollBinKey(FieldDepth)

	page.VisitorsByDepth = analytics.ToBarChartData(
		analytics.Aggregate(scroll, depthKey, map[string]analytics.Reducer{FieldVisitors: analytics.Sum}, binAxis),
		"Visitantes por faixa de scroll", analytics.SeriesSpec{Name: "Visitantes", Field: FieldVisitors})
	page.DropOffByDepth = analytics.ToLineChartData(
		analytics.Aggregate(scroll, depthKey, map[string]analytics.Reducer{FieldDropOff: analytics.Mean}, binAxis),
		"% de abandono por faixa de scroll", analytics.SeriesSpec{Name: "% drop off", Field: FieldDropOff})

	page.AvgScrollByDay = analytics.ToLineChartData(weightedScrollByDay(scroll, w, loc),
		"Profundidade média de scroll ao longo do tempo", analytics.SeriesSpec{Name: "Scroll médio (%)", Field: fieldAvgScroll})
	page.VisitorsByDay = analytics.ToLineChartData(
		daily(scroll, w, loc, map[string]analytics.Reducer{FieldVisitors: analytics.Sum}),
		"Evolução do número de visitantes", analytics.SeriesSpec{Name: "Visitantes", Field: FieldVisitors})
	page.DropOffByDay = analytics.ToLineChartData(
		daily(scroll, w, loc, map[string]analytics.Reducer{FieldDropOff: analytics.Mean}),
		"Evolução da taxa média de abandono", analytics.SeriesSpec{Name: "% de abandono", Field: FieldDropOff})

	var dayAxis *analytics.Axis
	if span, ok := chartWindow(scroll, w, loc); ok {
		axis := analytics.CalendarDayAxis(span)
		dayAxis = &axis
	}
	page.VisitorsByDayDepth = analytics.SeriesToChartData(
		analytics.AggregateSeries(scroll, analytics.DayKey, depthKey, FieldVisitors, analytics.Sum, dayAxis),
		"Visitantes por faixa de scroll ao longo do tempo")

	page.AttentionByDepth = analytics.ToBarChartData(
		analytics.Aggregate(attention, depthKey, map[string]analytics.Reducer{FieldAvgTime: analytics.Mean}, binAxis),
		"Tempo médio por faixa de scroll", analytics.SeriesSpec{Name: "Tempo médio (s)", Field: FieldAvgTime})

	page.Insights = insightsTable(insights)
	return page, nil
}

// weightedScrollByDay is Σ(depth·visitors)/Σvisitors per day, over rows
// carrying both values
func weightedScrollByDay(rows []metrics.Row, w *analytics.TimeWindow, loc *time.Location) analytics.Aggregation {
	weighted := make([]metrics.Row, 0, len(rows))
	for _, row := range rows {
		depth, okD := row.Value(FieldDepth)
		visitors, okV := row.Value(FieldVisitors)
		if !okD || !okV {
			continue
		}
		weighted = append(weighted, metrics.Row{
			Time:   row.Time,
			Values: map[string]float64{fieldWeightedDepth: depth * visitors, FieldVisitors: visitors},
		})
	}

	agg := daily(weighted, w, loc, map[string]analytics.Reducer{
		fieldWeightedDepth: analytics.Sum,
		FieldVisitors:      analytics.Sum,
	})
	for i, g := range agg.Groups {
		agg.Groups[i].Values[fieldAvgScroll] = metrics.SafeDiv(g.Values[fieldWeightedDepth], g.Values[FieldVisitors])
	}
	return agg
}

func insightsTable(rows []metrics.Row) models.Table {
	ranked := analytics.TopRows(rows, FieldSessions, FieldMetric, 0, false)

	table := models.Table{
		Headers: []string{"timestamp", "metric", "sessions", "bot_sessions", "users", "avg_scroll_depth", "total_time"},
		Rows:    make([][]interface{}, 0, len(ranked)),
	}
	for _, row := range ranked {
		table.Rows = append(table.Rows, []interface{}{
			formatTime(row.Time),
			row.Label(FieldMetric),
			optional(row, FieldSessions),
			optional(row, FieldBotSessions),
			optional(row, FieldUsers),
			optional(row, FieldAvgScroll),
			optional(row, FieldTotalTime),
		})
	}
	return table
}

// ScrollCountsOf sums visitors per 5% scroll bucket
func ScrollCountsOf(rows []metrics.Row) stats.ScrollCounts {
	counts := make(stats.ScrollCounts)
	for _, row := range rows {
		depth, okD := row.Value(FieldDepth)
		visitors, okV := row.Value(FieldVisitors)
		if !okD || !okV {
			continue
		}
		counts[analytics.ScrollBin(depth)] += int64(math.Round(visitors))
	}
	return counts
}

func scrollDepths() []int {
	keys := analytics.ScrollBinAxis().Keys
	depths := make([]int, len(keys))
	for i, k := range keys {
		depths[i], _ = strconv.Atoi(k)
	}
	return depths
}

func (s *ClarityService) splitScroll(ctx context.Context, a, b analytics.TimeWindow) (stats.ScrollCounts, stats.ScrollCounts, models.PageMeta, error) {
	rows, err := s.source.Rows(ctx, models.CollectionScrollData)
	if err != nil {
		return nil, nil, models.PageMeta{}, err
	}

	rowsA, rowsB := analytics.Split(rows, a, b)

	meta := models.PageMeta{}
	if a.Contains(b.Start) || b.Contains(a.Start) {
		meta.Warn("periods overlap: shared days are counted in both")
	}
	if len(rowsA) == 0 {
		meta.Warn("no scroll data in period A")
	}
	if len(rowsB) == 0 {
		meta.Warn("no scroll data in period B")
	}
	meta.NoData = len(rowsA) == 0 && len(rowsB) == 0

	return ScrollCountsOf(rowsA), ScrollCountsOf(rowsB), meta, nil
}

// CompareScroll tests every scroll bucket between two periods
func (s *ClarityService) CompareScroll(ctx context.Context, a, b analytics.TimeWindow, mode stats.Mode, correction stats.Correction) (*models.ScrollComparison, error) {
	countsA, countsB, meta, err := s.splitScroll(ctx, a, b)
	if err != nil {
		return nil, err
	}

	result, err := stats.CompareBuckets(countsA, countsB, scrollDepths(), mode, correction)
	if err != nil {
		return nil, fmt.Errorf("compare scroll buckets: %w", err)
	}

	labels := make([]string, len(result.Buckets))
	ratesA := make([]float64, len(result.Buckets))
	ratesB := make([]float64, len(result.Buckets))
	for i, bc := range result.Buckets {
		labels[i] = strconv.Itoa(bc.Depth)
		ratesA[i] = metrics.Round2(bc.Result.RateA * 100)
		ratesB[i] = metrics.Round2(bc.Result.RateB * 100)
	}

	return &models.ScrollComparison{
		PageMeta:  meta,
		WindowA:   a,
		WindowB:   b,
		VisitorsA: countsA.Total(),
		VisitorsB: countsB.Total(),
		Result:    result,
		Rates: analytics.ChartData{
			Type:   "line",
			Title:  result.ModeLabel,
			Labels: labels,
			Data: []analytics.ChartSeries{
				{Name: string(analytics.PeriodA), Values: ratesA},
				{Name: string(analytics.PeriodB), Values: ratesB},
			},
		},
	}, nil
}

// CompareCutoff runs the single test at a slider depth (0..100, snapped to 5%)
func (s *ClarityService) CompareCutoff(ctx context.Context, a, b analytics.TimeWindow, depth int, mode stats.Mode) (*models.CutoffComparison, error) {
	if depth < 0 || depth > 100 {
		return nil, fmt.Errorf("%w: depth must be between 0 and 100", ErrInvalidRequest)
	}

	countsA, countsB, meta, err := s.splitScroll(ctx, a, b)
	if err != nil {
		return nil, err
	}

	result, err := stats.CompareAtCutoff(countsA, countsB, analytics.ScrollBin(float64(depth)), mode)
	if err != nil {
		return nil, fmt.Errorf("compare at cutoff: %w", err)
	}

	return &models.CutoffComparison{
		PageMeta:  meta,
		WindowA:   a,
		WindowB:   b,
		Mode:      mode,
		ModeLabel: mode.Label(),
		Result:    result,
	}, nil
}
