package services

import (
	"time"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/metrics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
)

const topLimit = 10

// chartWindow is the span of a calendar axis: the requested window,
// or the days the rows cover when the whole dataset is shown
func chartWindow(rows []metrics.Row, w *analytics.TimeWindow, loc *time.Location) (analytics.TimeWindow, bool) {
	if w != nil {
		return *w, true
	}
	return analytics.SpanOf(rows, loc)
}

// daily aggregates rows per calendar day, zero-filling days without data
func daily(rows []metrics.Row, w *analytics.TimeWindow, loc *time.Location, reducers map[string]analytics.Reducer) analytics.Aggregation {
	if span, ok := chartWindow(rows, w, loc); ok {
		return analytics.Aggregate(rows, analytics.DayKey, reducers, analytics.WithAxis(analytics.CalendarDayAxis(span)))
	}
	return analytics.Aggregate(rows, analytics.DayKey, reducers)
}

func monthly(rows []metrics.Row, w *analytics.TimeWindow, loc *time.Location, reducers map[string]analytics.Reducer) analytics.Aggregation {
	if span, ok := chartWindow(rows, w, loc); ok {
		return analytics.Aggregate(rows, analytics.MonthKey, reducers, analytics.WithAxis(analytics.MonthAxis(span)))
	}
	return analytics.Aggregate(rows, analytics.MonthKey, reducers)
}

// previous evaluates fn over the window of equal length before w.
// It returns nil when there is nothing to compare against.
func previous(rows []metrics.Row, w *analytics.TimeWindow, fn func([]metrics.Row) float64) *float64 {
	if w == nil {
		return nil
	}
	prev := analytics.Filter(rows, w.Previous())
	if len(prev) == 0 {
		return nil
	}
	v := fn(prev)
	return &v
}

func sumOf(field string) func([]metrics.Row) float64 {
	return func(rows []metrics.Row) float64 {
		return metrics.Sum(rows, field)
	}
}

func meanOf(field string) func([]metrics.Row) float64 {
	return func(rows []metrics.Row) float64 {
		return metrics.Mean(rows, field)
	}
}

func newMeta(w *analytics.TimeWindow) models.PageMeta {
	return models.PageMeta{Window: w}
}

func markEmpty(meta *models.PageMeta, rows []metrics.Row, what string) bool {
	if len(rows) > 0 {
		return false
	}
	meta.NoData = true
	meta.Warn("no " + what + " in the selected period")
	return true
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(analytics.DateLayout)
}

// optional returns the rounded value, or nil when the field is missing
func optional(row metrics.Row, field string) interface{} {
	v, ok := row.Value(field)
	if !ok {
		return nil
	}
	return metrics.Round2(v)
}
