package metrics

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Policy decides what an unparsable numeric cell becomes
type Policy int

const (
	// FailToZero turns bad cells into 0 so they still take part in sums
	FailToZero Policy = iota
	// FailToMissing drops bad cells so they are excluded from means
	FailToMissing
)

// Column maps a source column to a row field
type Column struct {
	Name   string // Column name in the collection
	Field  string // Field name in metrics.Row (defaults to Name)
	Policy Policy
}

func (c Column) field() string {
	if c.Field != "" {
		return c.Field
	}
	return c.Name
}

// Schema describes how one collection is coerced into rows
type Schema struct {
	TimeColumn   string         // Empty for collections without a time axis
	TimeLayouts  []string       // Extra layouts tried before the defaults
	Location     *time.Location // Location for zone-less timestamps and conversion
	DateOnly     bool           // Calendar dates: keep the stored day instead of converting the instant
	Numeric      []Column
	Labels       []Column
	RequireValue []string // Fields that must be present, otherwise the row is dropped
}

// DefaultTimeLayouts are tried in order for string timestamps
var DefaultTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"20060102",
}

// Coerce converts raw collection records into rows.
// Rows whose timestamp does not parse are dropped when the schema has a time column.
func Coerce(raw []map[string]interface{}, schema Schema) []Row {
	loc := schema.Location
	if loc == nil {
		loc = time.UTC
	}
	layouts := append(append([]string{}, schema.TimeLayouts...), DefaultTimeLayouts...)

	rows := make([]Row, 0, len(raw))
	for _, record := range raw {
		row := Row{
			Values: make(map[string]float64, len(schema.Numeric)),
			Labels: make(map[string]string, len(schema.Labels)),
		}

		if schema.TimeColumn != "" {
			t, ok := parseRowTime(record[schema.TimeColumn], schema.DateOnly, loc, layouts)
			if !ok {
				continue
			}
			row.Time = t
		}

		for _, col := range schema.Numeric {
			v, ok := ParseNumber(record[col.Name])
			if ok && v < 0 {
				ok = false
			}
			switch {
			case ok:
				row.Values[col.field()] = v
			case col.Policy == FailToZero:
				row.Values[col.field()] = 0
			}
		}

		for _, col := range schema.Labels {
			if s := labelString(record[col.Name]); s != "" {
				row.Labels[col.field()] = s
			}
		}

		if !hasAll(row, schema.RequireValue) {
			continue
		}
		rows = append(rows, row)
	}

	return rows
}

func parseRowTime(value interface{}, dateOnly bool, loc *time.Location, layouts []string) (time.Time, bool) {
	if !dateOnly {
		return ParseTime(value, loc, layouts...)
	}
	t, ok := ParseTime(value, time.UTC, layouts...)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), true
}

func hasAll(row Row, fields []string) bool {
	for _, f := range fields {
		if _, ok := row.Values[f]; !ok {
			return false
		}
	}
	return true
}

// ParseNumber parses numerics and numeric strings, including comma
// decimals ("1,5"), thousands separators and a trailing percent sign.
func ParseNumber(value interface{}) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		return ParseNumber(string(v))
	case []byte:
		return ParseNumber(string(v))
	case string:
		return parseNumericString(v)
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseNumericString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}

	commas := strings.Count(s, ",")
	dots := strings.Count(s, ".")
	switch {
	case commas > 0 && dots > 0:
		// The separator that appears last is the decimal one
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case commas == 1:
		s = strings.Replace(s, ",", ".", 1)
	case commas > 1:
		s = strings.ReplaceAll(s, ",", "")
	case dots > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseTime parses a timestamp cell and converts it to loc.
// Zone-less layouts are interpreted in loc. Integers are read as YYYYMMDD.
func ParseTime(value interface{}, loc *time.Location, layouts ...string) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	if len(layouts) == 0 {
		layouts = DefaultTimeLayouts
	}

	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v.In(loc), true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return ParseTime(*v, loc, layouts...)
	case []byte:
		return ParseTime(string(v), loc, layouts...)
	case int, int32, int64, float64, json.Number:
		n, ok := ParseNumber(v)
		if !ok {
			return time.Time{}, false
		}
		return ParseTime(fmt.Sprintf("%.0f", n), loc, "20060102")
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range layouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return t.In(loc), true
			}
		}
	}

	return time.Time{}, false
}

func labelString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []byte:
		return strings.TrimSpace(string(v))
	case float64:
		// JSON round-trips turn integer ids into floats
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}
