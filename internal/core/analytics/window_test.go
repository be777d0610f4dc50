package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/metrics"
)

func TestNewTimeWindowRejectsInvertedRange(t *testing.T) {
	_, err := NewTimeWindow(day(5), day(1))
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	w, err := NewTimeWindow(day(1), day(1))
	require.NoError(t, err)
	assert.True(t, w.Contains(day(1)))
}

func TestFilterIsClosedOnBothEnds(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	w, err := NewTimeWindow(start, end)
	require.NoError(t, err)

	rows := []metrics.Row{
		{Time: start.Add(-time.Nanosecond)},
		{Time: start},
		{Time: start.Add(12 * time.Hour)},
		{Time: end},
		{Time: end.Add(time.Nanosecond)},
	}

	got := Filter(rows, w)
	require.Len(t, got, 3)
	for _, r := range got {
		assert.True(t, !r.Time.Before(start) && !r.Time.After(end))
	}

	assert.Len(t, FilterOptional(rows, nil), len(rows))
	assert.Len(t, FilterOptional(rows, &w), 3)
}

func TestSplitAndLabel(t *testing.T) {
	a, err := WindowFromDates(day(1), day(3), time.UTC)
	require.NoError(t, err)
	b, err := WindowFromDates(day(3), day(5), time.UTC)
	require.NoError(t, err)

	rows := []metrics.Row{{Time: day(1)}, {Time: day(3)}, {Time: day(5)}, {Time: day(9)}}

	rowsA, rowsB := Split(rows, a, b)
	assert.Len(t, rowsA, 2)
	assert.Len(t, rowsB, 2, "an overlapping day is tested against each window independently")

	labeled := Label(rows, a, b)
	require.Len(t, labeled, 3, "rows outside both windows are dropped")
	assert.Equal(t, PeriodA, labeled[0].Period)
	assert.Equal(t, PeriodA, labeled[1].Period, "overlap goes to PERIOD_A")
	assert.Equal(t, PeriodB, labeled[2].Period)

	all := LabelAll(rows)
	require.Len(t, all, 4)
	assert.Equal(t, PeriodAll, all[3].Period)
}

func TestWindowDaysAndPrevious(t *testing.T) {
	w, err := WindowFromDates(day(8), day(14), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 7, w.Days())

	prev := w.Previous()
	assert.Equal(t, 7, prev.Days())
	assert.True(t, prev.End.Before(w.Start))
	assert.Equal(t, 1, prev.Start.Day())
}

func TestSpanOf(t *testing.T) {
	_, ok := SpanOf(nil, time.UTC)
	assert.False(t, ok)

	w, ok := SpanOf([]metrics.Row{{Time: day(4)}, {Time: day(2)}, {}}, time.UTC)
	require.True(t, ok)
	assert.Equal(t, 3, w.Days())
	assert.Equal(t, 2, w.Start.Day())
}

func TestCalendarDays(t *testing.T) {
	assert.Equal(t, 1, CalendarDays(day(3), day(3)))
	assert.Equal(t, 10, CalendarDays(day(1), day(10)))
	assert.Equal(t, 1, CalendarDays(day(10), day(1)))

	leap := CalendarDays(time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 3, leap)
}

func TestPresetWindow(t *testing.T) {
	// Wednesday
	now := time.Date(2024, 5, 15, 13, 30, 0, 0, time.UTC)

	tests := []struct {
		period    string
		wantStart string
		wantEnd   string
	}{
		{"today", "2024-05-15", "2024-05-15"},
		{"yesterday", "2024-05-14", "2024-05-14"},
		{"this_week", "2024-05-13", "2024-05-15"},
		{"last_week", "2024-05-06", "2024-05-12"},
		{"this_month", "2024-05-01", "2024-05-15"},
		{"last_month", "2024-04-01", "2024-04-30"},
		{"this_year", "2024-01-01", "2024-05-15"},
		{"last_7_days", "2024-05-09", "2024-05-15"},
		{"last_30_days", "2024-04-16", "2024-05-15"},
		{"last_90_days", "2024-02-16", "2024-05-15"},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			w, err := PresetWindow(tt.period, now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, w.Start.Format(DateLayout))
			assert.Equal(t, tt.wantEnd, w.End.Format(DateLayout))
		})
	}

	_, err := PresetWindow("fortnight", now)
	assert.Error(t, err)
}

func TestParseDateWindow(t *testing.T) {
	w, err := ParseDateWindow("2024-03-01", "2024-03-31", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 31, w.Days())
	assert.Equal(t, 23, w.End.Hour())

	_, err = ParseDateWindow("2024-03-31", "2024-03-01", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = ParseDateWindow("03/01/2024", "2024-03-31", time.UTC)
	assert.Error(t, err)
}

func TestCalendarAxes(t *testing.T) {
	w, err := WindowFromDates(time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), time.UTC)
	require.NoError(t, err)

	assert.Len(t, CalendarDayAxis(w).Keys, 33)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, MonthAxis(w).Keys)
	assert.Len(t, HourAxis().Keys, 24)
	assert.Len(t, ScrollBinAxis().Keys, 21)
}
