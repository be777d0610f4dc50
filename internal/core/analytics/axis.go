package analytics

import (
	"math"
	"strconv"
	"time"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/metrics"
)

// Axis is a complete, ordered key set. Aggregations over an axis
// zero-fill missing keys and follow the axis order.
type Axis struct {
	Name string
	Keys []string

	index map[string]int
}

// NewAxis builds an axis over keys in the given order
func NewAxis(name string, keys []string) Axis {
	index := make(map[string]int, len(keys))
	for i, k := range keys {
		index[k] = i
	}
	return Axis{Name: name, Keys: keys, index: index}
}

// Contains reports whether key belongs to the axis
func (a Axis) Contains(key string) bool {
	_, ok := a.Position(key)
	return ok
}

// Position returns the index of key on the axis
func (a Axis) Position(key string) (int, bool) {
	if a.index == nil {
		// axis built as a literal
		for i, k := range a.Keys {
			if k == key {
				return i, true
			}
		}
		return 0, false
	}
	i, ok := a.index[key]
	return i, ok
}

// Weekdays in display order
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ScrollBinStep is the width of a scroll-depth bucket in percent
const ScrollBinStep = 5

// WeekdayAxis is Monday..Sunday
func WeekdayAxis() Axis {
	return NewAxis("weekday", append([]string{}, Weekdays...))
}

// HourAxis is 0..23
func HourAxis() Axis {
	keys := make([]string, 24)
	for h := 0; h < 24; h++ {
		keys[h] = strconv.Itoa(h)
	}
	return NewAxis("hour", keys)
}

// ScrollBinAxis is 0, 5, ..., 100
func ScrollBinAxis() Axis {
	keys := make([]string, 0, 100/ScrollBinStep+1)
	for d := 0; d <= 100; d += ScrollBinStep {
		keys = append(keys, strconv.Itoa(d))
	}
	return NewAxis("scroll_depth", keys)
}

// CalendarDayAxis lists every day of the window (YYYY-MM-DD)
func CalendarDayAxis(w TimeWindow) Axis {
	dates := DailyDates(w)
	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = d.Format(DateLayout)
	}
	return NewAxis("date", keys)
}

// MonthAxis lists every month the window touches (YYYY-MM)
func MonthAxis(w TimeWindow) Axis {
	dates := MonthlyDates(w)
	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = d.Format("2006-01")
	}
	return NewAxis("month", keys)
}

// DayKey groups rows by calendar day
func DayKey(row metrics.Row) (string, bool) {
	if row.Time.IsZero() {
		return "", false
	}
	return row.Time.Format(DateLayout), true
}

// MonthKey groups rows by calendar month
func MonthKey(row metrics.Row) (string, bool) {
	if row.Time.IsZero() {
		return "", false
	}
	return row.Time.Format("2006-01"), true
}

// WeekdayKey groups rows by English weekday name
func WeekdayKey(row metrics.Row) (string, bool) {
	if row.Time.IsZero() {
		return "", false
	}
	return row.Time.Weekday().String(), true
}

// HourKey groups rows by hour of day
func HourKey(row metrics.Row) (string, bool) {
	if row.Time.IsZero() {
		return "", false
	}
	return strconv.Itoa(row.Time.Hour()), true
}

// LabelKey groups rows by a categorical field, skipping empty labels
func LabelKey(field string) KeyFunc {
	return func(row metrics.Row) (string, bool) {
		v := row.Labels[field]
		return v, v != ""
	}
}

// ScrollBinKey snaps a numeric depth field onto the 5% scroll grid
func ScrollBinKey(field string) KeyFunc {
	return func(row metrics.Row) (string, bool) {
		v, ok := row.Values[field]
		if !ok {
			return "", false
		}
		return strconv.Itoa(ScrollBin(v)), true
	}
}

// ScrollBin snaps a depth to the nearest bucket inside [0, 100]
func ScrollBin(depth float64) int {
	bin := int(math.Round(depth/ScrollBinStep)) * ScrollBinStep
	if bin < 0 {
		return 0
	}
	if bin > 100 {
		return 100
	}
	return bin
}

// DateFromKey parses a DayKey back to a date in loc
func DateFromKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, key, loc)
}
