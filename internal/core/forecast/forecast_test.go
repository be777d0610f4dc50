package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 14, 0, 0, 0, time.UTC)
}

func TestCalculateScenario(t *testing.T) {
	// 50 units over 10 days (first sale on day 1, latest on day 10)
	sales := []Sale{
		{SKU: "AW_ES_LC_PT_M", Date: date(2024, 3, 1), Units: 20},
		{SKU: "AW_ES_LC_PT_M", Date: date(2024, 3, 5), Units: 20},
		{SKU: "AW_ES_LC_PT_M", Date: date(2024, 3, 10), Units: 10},
	}

	out := NewCalculator(0).Calculate(sales, map[string]int64{"AW_ES_LC_PT_M": 450}, Options{})
	require.Len(t, out, 1)

	f := out[0]
	assert.Equal(t, 10, f.ObservedDays)
	assert.Equal(t, 50.0, f.TotalUnits)
	assert.Equal(t, 5.0, f.AvgDailyDemand)
	assert.Equal(t, int64(600), f.ProjectedDemand)
	assert.Equal(t, int64(450), f.CurrentStock)
	assert.Equal(t, int64(150), f.ReorderQuantity)
}

func TestCalculateUsesDatasetLatestDate(t *testing.T) {
	sales := []Sale{
		{SKU: "A", Date: date(2024, 1, 1), Units: 10},
		{SKU: "B", Date: date(2024, 1, 10), Units: 1},
	}

	out := NewCalculator(10).Calculate(sales, nil, Options{})
	require.Len(t, out, 2)

	byKey := map[string]SkuForecast{}
	for _, f := range out {
		byKey[f.SKU] = f
	}
	assert.Equal(t, 10, byKey["A"].ObservedDays, "A's range runs to the latest sale of any SKU")
	assert.Equal(t, 1, byKey["B"].ObservedDays)
	assert.Equal(t, int64(10), byKey["A"].ProjectedDemand)
	assert.Equal(t, int64(10), byKey["B"].ProjectedDemand)
}

func TestCalculateIncludesStockOnlySKUsAndSorts(t *testing.T) {
	sales := []Sale{
		{SKU: "B", Date: date(2024, 1, 1), Units: 1},
		{SKU: "A", Date: date(2024, 1, 1), Units: 1},
		{SKU: "C", Date: date(2024, 1, 1), Units: 2},
	}
	stock := map[string]int64{"A": 0, "B": 0, "C": 1000, "Z": 7}

	out := NewCalculator(5).Calculate(sales, stock, Options{})
	require.Len(t, out, 4)

	assert.Equal(t, []string{"A", "B", "C", "Z"}, []string{out[0].SKU, out[1].SKU, out[2].SKU, out[3].SKU})
	assert.Equal(t, int64(5), out[0].ReorderQuantity)
	assert.Equal(t, int64(0), out[2].ReorderQuantity)

	z := out[3]
	assert.Equal(t, 0.0, z.AvgDailyDemand)
	assert.Equal(t, int64(0), z.ProjectedDemand)
	assert.Equal(t, int64(7), z.CurrentStock)
}

func TestCalculateRespectsRangeOverride(t *testing.T) {
	sales := []Sale{
		{SKU: "A", Date: date(2024, 1, 1), Units: 100},
		{SKU: "A", Date: date(2024, 2, 1), Units: 4},
	}

	out := NewCalculator(0).Calculate(sales, nil, Options{
		Horizon: 30,
		Start:   date(2024, 1, 29),
		End:     date(2024, 2, 1),
	})
	require.Len(t, out, 1)
	assert.Equal(t, 4, out[0].ObservedDays)
	assert.Equal(t, 4.0, out[0].TotalUnits)
	assert.Equal(t, int64(30), out[0].ProjectedDemand)
}

func TestReorderNeverNegative(t *testing.T) {
	for _, tt := range []struct{ projected, stock, want int64 }{
		{600, 450, 150},
		{10, 50, 0},
		{0, 0, 0},
		{5, -3, 5},
	} {
		assert.Equal(t, tt.want, Reorder(tt.projected, tt.stock))
		assert.GreaterOrEqual(t, Reorder(tt.projected, tt.stock), int64(0))
	}
}

func TestProjectRoundsHalfToEven(t *testing.T) {
	assert.Equal(t, int64(2), Project(0.5, 5))
	assert.Equal(t, int64(4), Project(0.5, 7))
	assert.Equal(t, int64(600), Project(5, 120))
	assert.Equal(t, int64(0), Project(-1, 120))
}

func TestObservedDays(t *testing.T) {
	assert.Equal(t, 1, ObservedDays(date(2024, 1, 1), date(2024, 1, 1)))
	assert.Equal(t, 10, ObservedDays(date(2024, 1, 1), date(2024, 1, 10)))
	assert.Equal(t, 1, ObservedDays(date(2024, 1, 10), date(2024, 1, 1)))
}

func TestLatestSnapshot(t *testing.T) {
	records := []StockRecord{
		{SKU: "A", Quantity: 10, Time: date(2024, 1, 1)},
		{SKU: "A", Quantity: 4, Time: date(2024, 1, 3)},
		{SKU: "A", Quantity: 99, Time: date(2024, 1, 2)},
		{SKU: "B", Quantity: -5, Time: date(2024, 1, 1)},
		{SKU: " ", Quantity: 1, Time: date(2024, 1, 1)},
	}

	snap := LatestSnapshot(records)
	assert.Equal(t, map[string]int64{"A": 4, "B": 0}, snap)
}
