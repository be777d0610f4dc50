package analytics

import (
	"math"
	"sort"
	"strconv"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/metrics"
)

type aggregateConfig struct {
	axis *Axis
}

// Option configures an aggregation
type Option func(*aggregateConfig)

// WithAxis makes the aggregation complete over axis
func WithAxis(axis Axis) Option {
	return func(c *aggregateConfig) {
		c.axis = &axis
	}
}

type accumulator struct {
	sums   map[string]float64
	counts map[string]int
	rows   int
}

// Aggregate groups rows by key and reduces every field in reducers.
// Missing values are skipped: a mean divides by the present values only
// and a field with no present value reduces to 0.
func Aggregate(rows []metrics.Row, key KeyFunc, reducers map[string]Reducer, opts ...Option) Aggregation {
	cfg := aggregateConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	acc := make(map[string]*accumulator)
	fed := 0
	for _, row := range rows {
		k, ok := key(row)
		if !ok {
			continue
		}
		if cfg.axis != nil && !cfg.axis.Contains(k) {
			continue
		}

		a, exists := acc[k]
		if !exists {
			a = &accumulator{sums: make(map[string]float64), counts: make(map[string]int)}
			acc[k] = a
		}
		a.rows++
		fed++
		for field := range reducers {
			if v, ok := row.Values[field]; ok {
				a.sums[field] += v
				a.counts[field]++
			}
		}
	}

	var keys []string
	if cfg.axis != nil {
		keys = cfg.axis.Keys
	} else {
		keys = make([]string, 0, len(acc))
		for k := range acc {
			keys = append(keys, k)
		}
		SortKeys(keys)
	}

	groups := make([]Group, 0, len(keys))
	for _, k := range keys {
		g := Group{Key: k, Values: make(map[string]float64, len(reducers))}
		a := acc[k]
		for field, reducer := range reducers {
			if a == nil {
				g.Values[field] = 0
				continue
			}
			switch reducer {
			case Mean:
				g.Values[field] = metrics.SafeDiv(a.sums[field], float64(a.counts[field]))
			default:
				g.Values[field] = a.sums[field]
			}
		}
		if a != nil {
			g.Count = a.rows
		}
		groups = append(groups, g)
	}

	return Aggregation{Groups: groups, Empty: fed == 0}
}

// AggregateSeries groups rows by an x key and a series key, reducing one field.
// Every series carries a value for every x label (0 when absent).
func AggregateSeries(rows []metrics.Row, x KeyFunc, series KeyFunc, field string, reducer Reducer, axis *Axis) SeriesAggregation {
	type cell struct {
		sum   float64
		count int
	}

	cells := make(map[string]map[string]*cell)
	xSeen := make(map[string]struct{})
	fed := 0
	for _, row := range rows {
		xk, ok := x(row)
		if !ok {
			continue
		}
		if axis != nil && !axis.Contains(xk) {
			continue
		}
		sk, ok := series(row)
		if !ok {
			continue
		}
		v, ok := row.Values[field]
		if !ok {
			continue
		}

		if cells[sk] == nil {
			cells[sk] = make(map[string]*cell)
		}
		c := cells[sk][xk]
		if c == nil {
			c = &cell{}
			cells[sk][xk] = c
		}
		c.sum += v
		c.count++
		xSeen[xk] = struct{}{}
		fed++
	}

	var labels []string
	if axis != nil {
		labels = append([]string{}, axis.Keys...)
	} else {
		for k := range xSeen {
			labels = append(labels, k)
		}
		SortKeys(labels)
	}

	names := make([]string, 0, len(cells))
	for name := range cells {
		names = append(names, name)
	}
	SortKeys(names)

	out := SeriesAggregation{Labels: labels, Series: make([]NamedSeries, 0, len(names)), Empty: fed == 0}
	for _, name := range names {
		values := make([]float64, len(labels))
		for i, label := range labels {
			c := cells[name][label]
			if c == nil {
				continue
			}
			if reducer == Mean {
				values[i] = metrics.SafeDiv(c.sum, float64(c.count))
			} else {
				values[i] = c.sum
			}
		}
		out.Series = append(out.Series, NamedSeries{Name: name, Values: values})
	}

	return out
}

// TopN ranks groups by field descending; ties break by key ascending
func TopN(groups []Group, field string, n int) []Group {
	ranked := append([]Group{}, groups...)
	sort.SliceStable(ranked, func(i, j int) bool {
		vi, vj := ranked[i].Values[field], ranked[j].Values[field]
		if vi != vj {
			return vi > vj
		}
		return keyLess(ranked[i].Key, ranked[j].Key)
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// TopRows ranks raw rows by field; ties break by the tie label ascending.
// ascending=true ranks the smallest values first (e.g. cheapest CPP).
func TopRows(rows []metrics.Row, field, tieLabel string, n int, ascending bool) []metrics.Row {
	ranked := append([]metrics.Row{}, rows...)
	sort.SliceStable(ranked, func(i, j int) bool {
		vi, vj := ranked[i].Float(field), ranked[j].Float(field)
		if vi != vj {
			if ascending {
				return vi < vj
			}
			return vi > vj
		}
		return keyLess(ranked[i].Label(tieLabel), ranked[j].Label(tieLabel))
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Histogram splits the present values of a field into equal-width bins
// between min and max. The last bin is closed on the right.
func Histogram(rows []metrics.Row, field string, bins int) []HistogramBin {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		if v, ok := row.Values[field]; ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 || bins <= 0 {
		return []HistogramBin{}
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	width := (hi - lo) / float64(bins)
	out := make([]HistogramBin, bins)
	for i := range out {
		out[i] = HistogramBin{Lower: lo + float64(i)*width, Upper: lo + float64(i+1)*width}
	}
	out[bins-1].Upper = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		out[idx].Count++
	}

	return out
}

// SortKeys orders keys ascending, numerically when both keys are numbers
func SortKeys(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		return keyLess(keys[i], keys[j])
	})
}

func keyLess(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil && fa != fb {
		return fa < fb
	}
	return a < b
}
