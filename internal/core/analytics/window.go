package analytics

import (
	"time"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/metrics"
)

// NewTimeWindow builds a closed window, rejecting start > end
func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if start.After(end) {
		return TimeWindow{}, ErrInvalidTimeRange
	}
	return TimeWindow{Start: start, End: end}, nil
}

// WindowFromDates builds a window covering whole calendar days,
// from 00:00 of start to the last nanosecond of end, in loc.
func WindowFromDates(start, end time.Time, loc *time.Location) (TimeWindow, error) {
	if loc == nil {
		loc = time.UTC
	}
	return NewTimeWindow(StartOfDay(start, loc), EndOfDay(end, loc))
}

// Contains reports whether t lies inside the closed window
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Days returns the number of calendar days the window touches
func (w TimeWindow) Days() int {
	return CalendarDays(w.Start, w.End)
}

// Previous returns the window of equal length that ends right before w
func (w TimeWindow) Previous() TimeWindow {
	length := w.End.Sub(w.Start)
	end := w.Start.Add(-time.Nanosecond)
	return TimeWindow{Start: end.Add(-length), End: end}
}

// Filter keeps exactly the rows with Start <= t <= End
func Filter(rows []metrics.Row, w TimeWindow) []metrics.Row {
	out := make([]metrics.Row, 0, len(rows))
	for _, row := range rows {
		if w.Contains(row.Time) {
			out = append(out, row)
		}
	}
	return out
}

// FilterOptional filters only when a window is given
func FilterOptional(rows []metrics.Row, w *TimeWindow) []metrics.Row {
	if w == nil {
		return rows
	}
	return Filter(rows, *w)
}

// Split tests every row against both windows independently.
// Overlapping windows are the caller's concern: a row may land in both.
func Split(rows []metrics.Row, a, b TimeWindow) ([]metrics.Row, []metrics.Row) {
	var rowsA, rowsB []metrics.Row
	for _, row := range rows {
		if a.Contains(row.Time) {
			rowsA = append(rowsA, row)
		}
		if b.Contains(row.Time) {
			rowsB = append(rowsB, row)
		}
	}
	return rowsA, rowsB
}

// Label tags rows with their period. Rows in neither window are dropped,
// rows in both are tagged PERIOD_A.
func Label(rows []metrics.Row, a, b TimeWindow) []LabeledRow {
	out := make([]LabeledRow, 0, len(rows))
	for _, row := range rows {
		switch {
		case a.Contains(row.Time):
			out = append(out, LabeledRow{Period: PeriodA, Row: row})
		case b.Contains(row.Time):
			out = append(out, LabeledRow{Period: PeriodB, Row: row})
		}
	}
	return out
}

// LabelAll tags every row with ALL (single-period mode)
func LabelAll(rows []metrics.Row) []LabeledRow {
	out := make([]LabeledRow, len(rows))
	for i, row := range rows {
		out[i] = LabeledRow{Period: PeriodAll, Row: row}
	}
	return out
}

// SpanOf returns the window covering all row times, by whole days
func SpanOf(rows []metrics.Row, loc *time.Location) (TimeWindow, bool) {
	minT, maxT, ok := metrics.TimeBounds(rows)
	if !ok {
		return TimeWindow{}, false
	}
	w, err := WindowFromDates(minT, maxT, loc)
	if err != nil {
		return TimeWindow{}, false
	}
	return w, true
}
