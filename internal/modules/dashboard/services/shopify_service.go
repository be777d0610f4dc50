package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/forecast"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/metrics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
)

var skuPattern = regexp.MustCompile(`^AW_ES_([A-Z]{2})_([A-Z]{2})_([A-Z0-9]+)$`)

// SKUAttributes is the product decoded from an AW_ES_<type>_<color>_<size> code
type SKUAttributes struct {
	Type        string
	Color       string
	Size        string
	Compression string
	Length      string
}

var (
	compressionByType = map[string]string{"LC": "Com", "CC": "Com", "LS": "Sem", "CS": "Sem"}
	lengthByType      = map[string]string{"LC": "Longo", "LS": "Longo", "CC": "Curto", "CS": "Curto"}
)

// DecodeSKU parses a product code. Unknown types keep empty compression and length.
func DecodeSKU(sku string) (SKUAttributes, bool) {
	m := skuPattern.FindStringSubmatch(sku)
	if m == nil {
		return SKUAttributes{}, false
	}
	return SKUAttributes{
		Type:        m[1],
		Color:       m[2],
		Size:        m[3],
		Compression: compressionByType[m[1]],
		Length:      lengthByType[m[1]],
	}, true
}

const fieldUnits = "units"

// ShopifyService builds the sales, sales share and forecast pages
type ShopifyService struct {
	source     RowSource
	calculator *forecast.Calculator
}

func NewShopifyService(source RowSource, calculator *forecast.Calculator) *ShopifyService {
	if calculator == nil {
		calculator = forecast.NewCalculator(forecast.DefaultHorizonDays)
	}
	return &ShopifyService{source: source, calculator: calculator}
}

// Overview returns revenue cards, revenue charts and SKU distributions
func (s *ShopifyService) Overview(ctx context.Context, w *analytics.TimeWindow) (*models.ShopifyOverview, error) {
	rows, err := s.source.Rows(ctx, models.CollectionShopify)
	if err != nil {
		return nil, err
	}
	loc := s.source.Location()

	filtered := analytics.FilterOptional(rows, w)
	page := &models.ShopifyOverview{PageMeta: newMeta(w)}
	markEmpty(&page.PageMeta, filtered, "Shopify sales")

	orders := func(rs []metrics.Row) float64 {
		return float64(metrics.DistinctLabels(rs, FieldOrderNumber))
	}
	page.Cards = []analytics.StatCard{
		analytics.NewStatCard(analytics.StatCardConfig{Title: "Receita Total", Format: "currency", ChangeLabel: "vs previous period"},
			metrics.Sum(filtered, FieldPrice), previous(rows, w, sumOf(FieldPrice))),
		analytics.NewStatCard(analytics.StatCardConfig{Title: "Ticket Médio", Format: "currency", ChangeLabel: "vs previous period"},
			metrics.Mean(filtered, FieldPrice), previous(rows, w, meanOf(FieldPrice))),
		analytics.NewStatCard(analytics.StatCardConfig{Title: "Pedidos", Format: "number", ChangeLabel: "vs previous period"},
			orders(filtered), previous(rows, w, orders)),
	}

	revenue := map[string]analytics.Reducer{FieldPrice: analytics.Sum}
	page.RevenueByDay = analytics.ToLineChartData(daily(filtered, w, loc, revenue), "Receita por Dia",
		analytics.SeriesSpec{Name: "Receita", Field: FieldPrice})
	page.RevenueByMonth = analytics.ToBarChartData(monthly(filtered, w, loc, revenue), "Receita por Mês",
		analytics.SeriesSpec{Name: "Receita", Field: FieldPrice})

	decoded := decodedItems(filtered)
	units := map[string]analytics.Reducer{fieldUnits: analytics.Sum}
	page.ByLength = analytics.ToPieChartData(analytics.Aggregate(decoded, analytics.LabelKey("length"), units), "Vendas por Comprimento", fieldUnits)
	page.ByCompression = analytics.ToPieChartData(analytics.Aggregate(decoded, analytics.LabelKey("compression"), units), "Vendas por Compressão", fieldUnits)
	page.ByColor = analytics.ToPieChartData(analytics.Aggregate(decoded, analytics.LabelKey("color"), units), "Vendas por Cor", fieldUnits)
	page.BySize = analytics.ToPieChartData(analytics.Aggregate(decoded, analytics.LabelKey("size"), units), "Vendas por Tamanho", fieldUnits)
	page.TopSKUs = topSKUShare(decoded)

	page.Sales = salesTable(filtered)
	return page, nil
}

// decodedItems turns every line item with a valid SKU into a one-unit row
// labelled with its product attributes
func decodedItems(rows []metrics.Row) []metrics.Row {
	out := make([]metrics.Row, 0, len(rows))
	for _, row := range rows {
		attrs, ok := DecodeSKU(row.Label(FieldSKU))
		if !ok {
			continue
		}
		out = append(out, metrics.Row{
			Time:   row.Time,
			Values: map[string]float64{fieldUnits: 1},
			Labels: map[string]string{
				FieldSKU:      row.Label(FieldSKU),
				"color":       attrs.Color,
				"size":        attrs.Size,
				"compression": attrs.Compression,
				"length":      attrs.Length,
			},
		})
	}
	return out
}

func topSKUShare(decoded []metrics.Row) analytics.ChartData {
	agg := analytics.Aggregate(decoded, analytics.LabelKey(FieldSKU), map[string]analytics.Reducer{fieldUnits: analytics.Sum})
	top := analytics.TopN(agg.Groups, fieldUnits, topLimit)

	total := float64(len(decoded))
	labels := make([]string, len(top))
	values := make([]float64, len(top))
	for i, g := range top {
		labels[i] = g.Key
		values[i] = metrics.Round2(metrics.Percent(g.Values[fieldUnits], total))
	}

	return analytics.ChartData{
		Type:   "bar",
		Title:  "Top 10 SKUs - Percentual",
		Labels: labels,
		Data:   []analytics.ChartSeries{{Name: "Percentual", Values: values}},
	}
}

func salesTable(rows []metrics.Row) models.Table {
	sorted := append([]metrics.Row{}, rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.After(sorted[j].Time)
	})

	table := models.Table{
		Headers: []string{"date", "order_number", "sku", "price"},
		Rows:    make([][]interface{}, 0, len(sorted)),
	}
	for _, row := range sorted {
		table.Rows = append(table.Rows, []interface{}{
			formatDate(row.Time),
			row.Label(FieldOrderNumber),
			row.Label(FieldSKU),
			metrics.Round2(row.Float(FieldPrice)),
		})
	}
	return table
}

// SalesShare returns each SKU's share of the units in the sales ledger,
// smallest share first
func (s *ShopifyService) SalesShare(ctx context.Context) (*models.SalesShare, error) {
	rows, err := s.source.Rows(ctx, models.CollectionVendas)
	if err != nil {
		return nil, err
	}

	units := make(map[string]int64)
	var total int64
	for _, row := range rows {
		sku := row.Label(FieldSKU)
		if sku == "" {
			continue
		}
		// quantities are whole units; fractional cells are truncated
		q := int64(row.Float(FieldQuantity))
		units[sku] += q
		total += q
	}

	page := &models.SalesShare{TotalUnits: total, Items: make([]models.SalesShareItem, 0, len(units))}
	if total == 0 {
		page.NoData = true
		page.Warn("no units in the sales ledger")
	}

	for sku, q := range units {
		page.Items = append(page.Items, models.SalesShareItem{
			SKU:        sku,
			Units:      q,
			Percentage: metrics.Percent(float64(q), float64(total)),
		})
	}
	sort.Slice(page.Items, func(i, j int) bool {
		if page.Items[i].Percentage != page.Items[j].Percentage {
			return page.Items[i].Percentage < page.Items[j].Percentage
		}
		return page.Items[i].SKU < page.Items[j].SKU
	})

	labels := make([]string, len(page.Items))
	values := make([]float64, len(page.Items))
	for i, item := range page.Items {
		labels[i] = item.SKU
		values[i] = metrics.Round2(item.Percentage)
	}
	page.Chart = analytics.ChartData{
		Type:   "bar",
		Title:  "Percentual de Vendas por SKU",
		Labels: labels,
		Data:   []analytics.ChartSeries{{Name: "Percentual", Values: values}},
	}

	return page, nil
}

// Forecast projects demand per SKU over the horizon (0 uses the default)
// and compares it with the latest stock snapshot
func (s *ShopifyService) Forecast(ctx context.Context, horizon int) (*models.ForecastReport, error) {
	if horizon < 0 {
		return nil, fmt.Errorf("%w: horizon must not be negative", ErrInvalidRequest)
	}

	sales, err := s.source.Rows(ctx, models.CollectionShopify)
	if err != nil {
		return nil, err
	}
	inventory, err := s.source.Rows(ctx, models.CollectionEstoque)
	if err != nil {
		return nil, err
	}

	input := make([]forecast.Sale, 0, len(sales))
	for _, row := range sales {
		input = append(input, forecast.Sale{SKU: row.Label(FieldSKU), Date: row.Time, Units: 1})
	}

	records := make([]forecast.StockRecord, 0, len(inventory))
	for _, row := range inventory {
		records = append(records, forecast.StockRecord{
			SKU:      row.Label(FieldSKU),
			Quantity: row.Float(FieldQuantity),
			Time:     row.Time,
		})
	}

	items := s.calculator.Calculate(input, forecast.LatestSnapshot(records), forecast.Options{Horizon: horizon})

	report := &models.ForecastReport{
		HorizonDays:  s.calculator.Horizon(),
		TotalReorder: forecast.TotalReorder(items),
		Items:        items,
	}
	if horizon > 0 {
		report.HorizonDays = horizon
	}
	if len(items) == 0 {
		report.NoData = true
		report.Warn("no sales or inventory to forecast")
	}
	return report, nil
}
