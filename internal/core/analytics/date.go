package analytics

import (
	"fmt"
	"time"
)

// DateLayout is the query-string and chart label date format
const DateLayout = "2006-01-02"

// PresetWindow returns a window for a named period relative to now
func PresetWindow(period string, now time.Time) (TimeWindow, error) {
	loc := now.Location()
	today := StartOfDay(now, loc)

	var start, end time.Time
	switch period {
	case "today":
		start, end = today, EndOfDay(now, loc)

	case "yesterday":
		yesterday := today.AddDate(0, 0, -1)
		start, end = yesterday, EndOfDay(yesterday, loc)

	case "this_week":
		// Start of week (Monday)
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start, end = today.AddDate(0, 0, -weekday+1), now

	case "last_week":
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start = today.AddDate(0, 0, -weekday-6)
		end = EndOfDay(today.AddDate(0, 0, -weekday), loc)

	case "this_month":
		start, end = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc), now

	case "last_month":
		start = time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, loc)
		end = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).Add(-time.Nanosecond)

	case "this_year":
		start, end = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc), now

	case "last_7_days":
		start, end = today.AddDate(0, 0, -6), EndOfDay(now, loc)

	case "last_30_days":
		start, end = today.AddDate(0, 0, -29), EndOfDay(now, loc)

	case "last_90_days":
		start, end = today.AddDate(0, 0, -89), EndOfDay(now, loc)

	default:
		return TimeWindow{}, fmt.Errorf("unknown period: %s", period)
	}

	return NewTimeWindow(start, end)
}

// ParseDateWindow parses YYYY-MM-DD bounds into a whole-day window
func ParseDateWindow(start, end string, loc *time.Location) (TimeWindow, error) {
	if loc == nil {
		loc = time.UTC
	}
	s, err := time.ParseInLocation(DateLayout, start, loc)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.ParseInLocation(DateLayout, end, loc)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	return WindowFromDates(s, e, loc)
}

// StartOfDay truncates t to midnight in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns the last nanosecond of t's day in loc
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, loc)
}

// CalendarDays counts the calendar days from start to end inclusive (>= 1)
func CalendarDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	days := int(e.Sub(s).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// DailyDates returns midnight of every day in the window
func DailyDates(w TimeWindow) []time.Time {
	loc := w.Start.Location()
	dates := []time.Time{}
	end := w.End.In(loc)
	for current := StartOfDay(w.Start, loc); !current.After(end); current = current.AddDate(0, 0, 1) {
		dates = append(dates, current)
	}
	return dates
}

// MonthlyDates returns the first day of every month the window touches
func MonthlyDates(w TimeWindow) []time.Time {
	loc := w.Start.Location()
	dates := []time.Time{}
	end := w.End.In(loc)
	for current := time.Date(w.Start.Year(), w.Start.Month(), 1, 0, 0, 0, 0, loc); !current.After(end); current = current.AddDate(0, 1, 0) {
		dates = append(dates, current)
	}
	return dates
}
