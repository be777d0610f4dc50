package analytics

import (
	"errors"
	"time"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/metrics"
)

// ErrInvalidTimeRange is returned when a window starts after it ends
var ErrInvalidTimeRange = errors.New("invalid time range: start is after end")

// TimeWindow is a closed interval [Start, End]
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// PeriodLabel tags rows in comparison mode
type PeriodLabel string

const (
	PeriodAll PeriodLabel = "ALL"
	PeriodA   PeriodLabel = "PERIOD_A"
	PeriodB   PeriodLabel = "PERIOD_B"
)

// LabeledRow is a row tagged with its comparison period
type LabeledRow struct {
	Period PeriodLabel
	Row    metrics.Row
}

// Reducer reduces one numeric field inside a group
type Reducer int

const (
	Sum Reducer = iota
	Mean
)

// KeyFunc maps a row to its aggregation key. ok=false skips the row.
type KeyFunc func(row metrics.Row) (key string, ok bool)

// Group is one output row of an aggregation
type Group struct {
	Key    string             `json:"key"`
	Values map[string]float64 `json:"values"`
	Count  int                `json:"count"`
}

// Aggregation is an ordered aggregation result.
// Empty is set when no input row fed any group ("no data" signal).
type Aggregation struct {
	Groups []Group `json:"groups"`
	Empty  bool    `json:"empty"`
}

// Keys returns the group keys in output order
func (a Aggregation) Keys() []string {
	keys := make([]string, len(a.Groups))
	for i, g := range a.Groups {
		keys[i] = g.Key
	}
	return keys
}

// Column returns one reduced field across groups in output order
func (a Aggregation) Column(field string) []float64 {
	values := make([]float64, len(a.Groups))
	for i, g := range a.Groups {
		values[i] = g.Values[field]
	}
	return values
}

// Lookup returns the group with the given key
func (a Aggregation) Lookup(key string) (Group, bool) {
	for _, g := range a.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return Group{}, false
}

// SeriesAggregation is an x-axis with one value series per category
type SeriesAggregation struct {
	Labels []string      `json:"labels"`
	Series []NamedSeries `json:"series"`
	Empty  bool          `json:"empty"`
}

// NamedSeries is one category line of a SeriesAggregation
type NamedSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// HistogramBin is one equal-width histogram bucket
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// ChartData represents generic chart data format
type ChartData struct {
	Type   string        `json:"type"`   // "line", "bar", "scatter"
	Title  string        `json:"title,omitempty"`
	Labels []string      `json:"labels"` // X-axis labels
	Data   []ChartSeries `json:"data"`   // Y-axis data series
}

// ChartSeries represents a data series in a chart
type ChartSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
	Color  string    `json:"color,omitempty"`
}

// PieChartData represents pie chart specific data
type PieChartData struct {
	Type   string    `json:"type"` // "pie" or "donut"
	Title  string    `json:"title,omitempty"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Colors []string  `json:"colors,omitempty"`
}

// StatCard represents a summary statistic card
type StatCard struct {
	Title       string  `json:"title"`
	Value       string  `json:"value"`
	Raw         float64 `json:"raw"`
	Change      float64 `json:"change"`       // Percentage change
	ChangeLabel string  `json:"change_label"` // "vs previous period"
	Trend       string  `json:"trend"`        // "up", "down", "neutral"
	Icon        string  `json:"icon,omitempty"`
}
