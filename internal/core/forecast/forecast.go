package forecast

import (
	"math"
	"sort"
	"strings"
	"time"
)

// DefaultHorizonDays is the forward-looking demand horizon
const DefaultHorizonDays = 120

// Sale is one unit-sales observation for a SKU on a day
type Sale struct {
	SKU   string
	Date  time.Time
	Units float64
}

// StockRecord is one timestamped inventory observation
type StockRecord struct {
	SKU      string
	Quantity float64
	Time     time.Time
}

// SkuForecast is the demand projection and reorder quantity for a SKU
type SkuForecast struct {
	SKU             string  `json:"sku"`
	AvgDailyDemand  float64 `json:"avg_daily_demand"`
	ProjectedDemand int64   `json:"projected_demand"`
	CurrentStock    int64   `json:"current_stock"`
	ReorderQuantity int64   `json:"reorder_quantity"`
	ObservedDays    int     `json:"observed_days"`
	TotalUnits      float64 `json:"total_units"`
}

// Options overrides the observed range. A zero Start uses each SKU's first
// sale; a zero End uses the latest sale date across all SKUs.
type Options struct {
	Horizon int
	Start   time.Time
	End     time.Time
}

// Calculator projects demand over a fixed horizon
type Calculator struct {
	horizon int
}

// NewCalculator creates a calculator; a non-positive horizon uses the default
func NewCalculator(horizon int) *Calculator {
	if horizon <= 0 {
		horizon = DefaultHorizonDays
	}
	return &Calculator{horizon: horizon}
}

// Horizon returns the projection horizon in days
func (c *Calculator) Horizon() int {
	return c.horizon
}

// Calculate builds one forecast per SKU seen in sales or stock.
// Output is ordered by reorder quantity descending, then SKU ascending.
func (c *Calculator) Calculate(sales []Sale, stock map[string]int64, opts Options) []SkuForecast {
	horizon := c.horizon
	if opts.Horizon > 0 {
		horizon = opts.Horizon
	}

	type acc struct {
		first time.Time
		total float64
	}

	bySKU := make(map[string]*acc)
	var latest time.Time
	for _, s := range sales {
		sku := strings.TrimSpace(s.SKU)
		if sku == "" || s.Date.IsZero() {
			continue
		}
		if !opts.Start.IsZero() && dayOf(s.Date).Before(dayOf(opts.Start)) {
			continue
		}
		if !opts.End.IsZero() && dayOf(s.Date).After(dayOf(opts.End)) {
			continue
		}

		a := bySKU[sku]
		if a == nil {
			a = &acc{first: s.Date}
			bySKU[sku] = a
		}
		if s.Date.Before(a.first) {
			a.first = s.Date
		}
		if s.Units > 0 {
			a.total += s.Units
		}
		if s.Date.After(latest) {
			latest = s.Date
		}
	}

	end := latest
	if !opts.End.IsZero() {
		end = opts.End
	}

	out := make([]SkuForecast, 0, len(bySKU)+len(stock))
	for sku, a := range bySKU {
		start := a.first
		if !opts.Start.IsZero() {
			start = opts.Start
		}

		days := ObservedDays(start, end)
		avg := a.total / float64(days)
		projected := Project(avg, horizon)
		current := stock[sku]

		out = append(out, SkuForecast{
			SKU:             sku,
			AvgDailyDemand:  avg,
			ProjectedDemand: projected,
			CurrentStock:    floor0(current),
			ReorderQuantity: Reorder(projected, current),
			ObservedDays:    days,
			TotalUnits:      a.total,
		})
	}

	// inventory SKUs without sales in range
	for sku, current := range stock {
		if _, ok := bySKU[sku]; ok {
			continue
		}
		out = append(out, SkuForecast{
			SKU:          sku,
			CurrentStock: floor0(current),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ReorderQuantity != out[j].ReorderQuantity {
			return out[i].ReorderQuantity > out[j].ReorderQuantity
		}
		return out[i].SKU < out[j].SKU
	})

	return out
}

// ObservedDays counts calendar days from d0 to d1 inclusive, at least 1
func ObservedDays(d0, d1 time.Time) int {
	days := int(dayOf(d1).Sub(dayOf(d0)).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// Project rounds avg*horizon half to even and floors at 0
func Project(avgDaily float64, horizon int) int64 {
	v := avgDaily * float64(horizon)
	if !(v > 0) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.RoundToEven(v))
}

// Reorder is max(0, projected - stock)
func Reorder(projected, stock int64) int64 {
	q := projected - floor0(stock)
	if q < 0 {
		return 0
	}
	return q
}

// LatestSnapshot keeps the most recent record per SKU. On equal times the
// later record in input order wins. Negative quantities count as 0.
func LatestSnapshot(records []StockRecord) map[string]int64 {
	type snap struct {
		at  time.Time
		qty float64
	}

	latest := make(map[string]snap)
	for _, r := range records {
		sku := strings.TrimSpace(r.SKU)
		if sku == "" {
			continue
		}
		if cur, ok := latest[sku]; ok && r.Time.Before(cur.at) {
			continue
		}
		latest[sku] = snap{at: r.Time, qty: r.Quantity}
	}

	out := make(map[string]int64, len(latest))
	for sku, s := range latest {
		out[sku] = floor0(int64(s.qty))
	}
	return out
}

// TotalReorder sums the reorder quantities of a forecast
func TotalReorder(forecasts []SkuForecast) int64 {
	var total int64
	for _, f := range forecasts {
		total += f.ReorderQuantity
	}
	return total
}

func floor0(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
