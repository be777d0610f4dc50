package metrics

import "time"

// Row is one timestamped observation after coercion.
// A numeric field absent from Values is missing, not zero.
type Row struct {
	Time   time.Time          `json:"time"`
	Values map[string]float64 `json:"values"`
	Labels map[string]string  `json:"labels,omitempty"`
}

// Value returns the field and whether it is present
func (r Row) Value(field string) (float64, bool) {
	v, ok := r.Values[field]
	return v, ok
}

// Float returns the field, treating missing as 0
func (r Row) Float(field string) float64 {
	return r.Values[field]
}

// Label returns a categorical field ("" when absent)
func (r Row) Label(field string) string {
	return r.Labels[field]
}

// With returns a copy of the row carrying an extra derived value.
// Rows are shared between pages, so the receiver is never mutated.
func (r Row) With(field string, value float64) Row {
	values := make(map[string]float64, len(r.Values)+1)
	for k, v := range r.Values {
		values[k] = v
	}
	values[field] = value

	return Row{Time: r.Time, Values: values, Labels: r.Labels}
}

// Sum adds a field across rows, skipping missing values
func Sum(rows []Row, field string) float64 {
	total := 0.0
	for _, row := range rows {
		if v, ok := row.Values[field]; ok {
			total += v
		}
	}
	return total
}

// Mean averages a field over the rows where it is present
func Mean(rows []Row, field string) float64 {
	total := 0.0
	n := 0
	for _, row := range rows {
		if v, ok := row.Values[field]; ok {
			total += v
			n++
		}
	}
	return SafeDiv(total, float64(n))
}

// DistinctLabels counts distinct non-empty values of a label
func DistinctLabels(rows []Row, field string) int {
	seen := make(map[string]struct{})
	for _, row := range rows {
		if v := row.Labels[field]; v != "" {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// TimeBounds returns the earliest and latest row time
func TimeBounds(rows []Row) (time.Time, time.Time, bool) {
	var minT, maxT time.Time
	found := false
	for _, row := range rows {
		if row.Time.IsZero() {
			continue
		}
		if !found || row.Time.Before(minT) {
			minT = row.Time
		}
		if !found || row.Time.After(maxT) {
			maxT = row.Time
		}
		found = true
	}
	return minT, maxT, found
}
