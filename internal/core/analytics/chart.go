package analytics

import (
	"fmt"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/metrics"
)

// SeriesSpec names one reduced field to plot
type SeriesSpec struct {
	Name  string
	Field string
	Color string
}

// ToLineChartData converts an aggregation to a line chart, one series per spec.
// Values are rounded for display.
func ToLineChartData(agg Aggregation, title string, specs ...SeriesSpec) ChartData {
	return toChart("line", agg, title, specs)
}

// ToBarChartData converts an aggregation to a bar chart
func ToBarChartData(agg Aggregation, title string, specs ...SeriesSpec) ChartData {
	return toChart("bar", agg, title, specs)
}

func toChart(kind string, agg Aggregation, title string, specs []SeriesSpec) ChartData {
	series := make([]ChartSeries, 0, len(specs))
	for _, spec := range specs {
		series = append(series, ChartSeries{
			Name:   spec.Name,
			Values: roundAll(agg.Column(spec.Field)),
			Color:  spec.Color,
		})
	}

	return ChartData{
		Type:   kind,
		Title:  title,
		Labels: agg.Keys(),
		Data:   series,
	}
}

// SeriesToChartData converts a multi-series aggregation to a line chart
func SeriesToChartData(agg SeriesAggregation, title string) ChartData {
	series := make([]ChartSeries, len(agg.Series))
	for i, s := range agg.Series {
		series[i] = ChartSeries{Name: s.Name, Values: roundAll(s.Values)}
	}

	return ChartData{
		Type:   "line",
		Title:  title,
		Labels: append([]string{}, agg.Labels...),
		Data:   series,
	}
}

// HistogramToChartData renders histogram bins as a bar chart
func HistogramToChartData(bins []HistogramBin, title, name string) ChartData {
	labels := make([]string, len(bins))
	values := make([]float64, len(bins))
	for i, b := range bins {
		labels[i] = fmt.Sprintf("%.1f-%.1f", b.Lower, b.Upper)
		values[i] = float64(b.Count)
	}

	return ChartData{
		Type:   "bar",
		Title:  title,
		Labels: labels,
		Data:   []ChartSeries{{Name: name, Values: values}},
	}
}

// ToPieChartData converts one reduced field to pie slices
func ToPieChartData(agg Aggregation, title, field string) PieChartData {
	return PieChartData{
		Type:   "pie",
		Title:  title,
		Labels: agg.Keys(),
		Values: roundAll(agg.Column(field)),
	}
}

// StatCardConfig represents configuration for a stat card
type StatCardConfig struct {
	Title       string
	Format      string // "number", "currency", "percentage", "ratio"
	Icon        string
	ChangeLabel string
}

// NewStatCard builds a card, comparing against previous when provided
func NewStatCard(cfg StatCardConfig, value float64, previous *float64) StatCard {
	card := StatCard{
		Title:       cfg.Title,
		Value:       formatStatValue(value, cfg.Format),
		Raw:         metrics.Round2(value),
		Icon:        cfg.Icon,
		ChangeLabel: cfg.ChangeLabel,
		Trend:       "neutral",
	}

	// Calculate change if previous value provided
	if previous != nil && *previous > 0 {
		change := metrics.Percent(value-*previous, *previous)
		card.Change = metrics.Round2(change)

		if change > 0 {
			card.Trend = "up"
		} else if change < 0 {
			card.Trend = "down"
		}
	}

	return card
}

func roundAll(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = metrics.Round2(v)
	}
	return out
}

func formatStatValue(num float64, format string) string {
	switch format {
	case "currency":
		return fmt.Sprintf("R$ %.2f", num)
	case "percentage":
		return fmt.Sprintf("%.2f%%", num)
	case "ratio":
		return fmt.Sprintf("%.2fx", num)
	case "number":
		if num >= 1000000 {
			return fmt.Sprintf("%.1fM", num/1000000)
		} else if num >= 1000 {
			return fmt.Sprintf("%.1fK", num/1000)
		}
		return fmt.Sprintf("%.0f", num)
	default:
		return fmt.Sprintf("%.2f", num)
	}
}
