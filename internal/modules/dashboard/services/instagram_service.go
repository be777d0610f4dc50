package services

import (
	"context"
	"sort"
	"strings"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/metrics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
)

const (
	fieldInteractionRate = "interaction_rate"
	histogramBins        = 20
)

// InstagramService builds the posts and stories pages
type InstagramService struct {
	source RowSource
}

func NewInstagramService(source RowSource) *InstagramService {
	return &InstagramService{source: source}
}

var postSeries = []analytics.SeriesSpec{
	{Name: "reach", Field: metrics.FieldReach},
	{Name: "likes", Field: FieldLikes},
	{Name: "comments", Field: FieldComments},
	{Name: "saved", Field: FieldSaved},
	{Name: "shares", Field: FieldShares},
}

// Posts returns feed post KPIs, time profiles and the top posts by reach
func (s *InstagramService) Posts(ctx context.Context, w *analytics.TimeWindow) (*models.PostsPage, error) {
	rows, err := s.source.Rows(ctx, models.CollectionPosts)
	if err != nil {
		return nil, err
	}
	loc := s.source.Location()

	filtered := analytics.FilterOptional(rows, w)
	page := &models.PostsPage{PageMeta: newMeta(w)}
	markEmpty(&page.PageMeta, filtered, "posts")

	reach := metrics.Sum(filtered, metrics.FieldReach)
	likes := metrics.Sum(filtered, FieldLikes)
	comments := metrics.Sum(filtered, FieldComments)
	saved := metrics.Sum(filtered, FieldSaved)
	shares := metrics.Sum(filtered, FieldShares)

	engagement := func(rs []metrics.Row) float64 {
		return metrics.EngagementRate(metrics.Sum(rs, FieldLikes), metrics.Sum(rs, FieldComments),
			metrics.Sum(rs, FieldSaved), metrics.Sum(rs, FieldShares), metrics.Sum(rs, metrics.FieldReach))
	}
	count := func(rs []metrics.Row) float64 { return float64(len(rs)) }

	page.Cards = []analytics.StatCard{
		analytics.NewStatCard(analytics.StatCardConfig{Title: "Alcance Total", Format: "number"}, reach, previous(rows, w, sumOf(metrics.FieldReach))),
		analytics.NewStatCard(analytics.StatCardConfig{Title: "Engajamento (%)", Format: "percentage"},
			metrics.EngagementRate(likes, comments, saved, shares, reach), previous(rows, w, engagement)),
		analytics.NewStatCard(analytics.StatCardConfig{Title: "Curtidas", Format: "number"}, likes, previous(rows, w, sumOf(FieldLikes))),
		analytics.NewStatCard(analytics.StatCardConfig{Title: "Comentários", Format: "number"}, comments, previous(rows, w, sumOf(FieldComments))),
		analytics.NewStatCard(analytics.StatCardConfig{Title: "Salvamentos", Format: "number"}, saved, previous(rows, w, sumOf(FieldSaved))),
		analytics.NewStatCard(analytics.StatCardConfig{Title: "Compartilhamentos", Format: "number"}, shares, previous(rows, w, sumOf(FieldShares))),
		analytics.NewStatCard(analytics.StatCardConfig{Title: "Total Posts", Format: "number"}, count(filtered), previous(rows, w, count)),
	}

	sums := map[string]analytics.Reducer{}
	for _, spec := range postSeries {
		sums[spec.Field] = analytics.Sum
	}
	page.Daily = analytics.ToLineChartData(daily(filtered, w, loc, sums), "Evolução Diária", postSeries...)

	page.ByMediaType = meanProfile(analytics.Aggregate(filtered, analytics.LabelKey(FieldMediaType), postMeans()), "Performance Média por Tipo de Post")
	page.ByWeekday = meanProfile(analytics.Aggregate(filtered, analytics.WeekdayKey, postMeans(), analytics.WithAxis(analytics.WeekdayAxis())), "Performance Média por Dia da Semana")
	page.ByHour = meanProfile(analytics.Aggregate(filtered, analytics.HourKey, postMeans(), analytics.WithAxis(analytics.HourAxis())), "Performance Média por Horário de Postagem")

	for _, row := range analytics.TopRows(filtered, metrics.FieldReach, FieldPermalink, topLimit, false) {
		page.TopPosts = append(page.TopPosts, models.TopPost{
			Permalink: row.Label(FieldPermalink),
			Reach:     row.Float(metrics.FieldReach),
			Likes:     row.Float(FieldLikes),
			Comments:  row.Float(FieldComments),
		})
	}

	page.Posts = postsTable(filtered)
	return page, nil
}

func postMeans() map[string]analytics.Reducer {
	return map[string]analytics.Reducer{
		metrics.FieldReach: analytics.Mean,
		FieldLikes:         analytics.Mean,
		FieldComments:      analytics.Mean,
		FieldShares:        analytics.Mean,
	}
}

// meanProfile charts the mean metrics of each group plus the interaction
// rate computed on those means
func meanProfile(agg analytics.Aggregation, title string) analytics.ChartData {
	for i, g := range agg.Groups {
		agg.Groups[i].Values[fieldInteractionRate] = metrics.InteractionRate(
			g.Values[FieldLikes], g.Values[FieldComments], g.Values[FieldShares], g.Values[metrics.FieldReach])
	}
	return analytics.ToBarChartData(agg, title,
		analytics.SeriesSpec{Name: "reach", Field: metrics.FieldReach},
		analytics.SeriesSpec{Name: "likes", Field: FieldLikes},
		analytics.SeriesSpec{Name: "comments", Field: FieldComments},
		analytics.SeriesSpec{Name: "shares", Field: FieldShares},
		analytics.SeriesSpec{Name: "Interação (%)", Field: fieldInteractionRate},
	)
}

func postsTable(rows []metrics.Row) models.Table {
	sorted := newestFirst(rows)

	table := models.Table{
		Headers: []string{"date", "media_type", "caption", "reach", "likes", "comments", "saved", "shares", "interaction_rate"},
		Rows:    make([][]interface{}, 0, len(sorted)),
	}
	for _, row := range sorted {
		var rate interface{}
		if reach, ok := row.Value(metrics.FieldReach); ok {
			rate = metrics.Round2(metrics.InteractionRate(row.Float(FieldLikes), row.Float(FieldComments), row.Float(FieldShares), reach))
		}
		table.Rows = append(table.Rows, []interface{}{
			formatTime(row.Time),
			row.Label(FieldMediaType),
			row.Label(FieldCaption),
			optional(row, metrics.FieldReach),
			optional(row, FieldLikes),
			optional(row, FieldComments),
			optional(row, FieldSaved),
			optional(row, FieldShares),
			rate,
		})
	}
	return table
}

func newestFirst(rows []metrics.Row) []metrics.Row {
	sorted := append([]metrics.Row{}, rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.After(sorted[j].Time)
	})
	return sorted
}

// upperLabel groups by a categorical field, case-folded to upper case
func upperLabel(field string) analytics.KeyFunc {
	return func(row metrics.Row) (string, bool) {
		v := strings.ToUpper(strings.TrimSpace(row.Labels[field]))
		return v, v != ""
	}
}

// Stories returns story reach, interaction and reply profiles
func (s *InstagramService) Stories(ctx context.Context, w *analytics.TimeWindow) (*models.StoriesPage, error) {
	rows, err := s.source.Rows(ctx, models.CollectionStories)
	if err != nil {
		return nil, err
	}
	loc := s.source.Location()

	filtered := analytics.FilterOptional(rows, w)
	page := &models.StoriesPage{PageMeta: newMeta(w)}
	if markEmpty(&page.PageMeta, filtered, "stories") {
		page.Cards = []analytics.StatCard{}
		page.Stories = models.Table{Headers: storyHeaders, Rows: [][]interface{}{}}
		return page, nil
	}

	count := func(rs []metrics.Row) float64 { return float64(len(rs)) }
	page.Cards = []analytics.StatCard{
		analytics.NewStatCard(analytics.StatCardConfig{Title: "Total de Stories", Format: "number"}, count(filtered), previous(rows, w, count)),
		analytics.NewStatCard(analytics.StatCardConfig{Title: "Alcance médio por Story"}, metrics.Mean(filtered, metrics.FieldReach), previous(rows, w, meanOf(metrics.FieldReach))),
	}

	// best day: highest summed reach, earliest on ties
	perDay := analytics.Aggregate(filtered, analytics.DayKey, map[string]analytics.Reducer{metrics.FieldReach: analytics.Sum})
	var best analytics.Group
	for i, g := range perDay.Groups {
		if i == 0 || g.Values[metrics.FieldReach] > best.Values[metrics.FieldReach] {
			best = g
		}
	}
	page.BestDay = best.Key
	page.Cards = append(page.Cards, analytics.NewStatCard(
		analytics.StatCardConfig{Title: "Melhor dia (alcance) " + best.Key, Format: "number"}, best.Values[metrics.FieldReach], nil))

	page.MeanReachByDay = analytics.ToLineChartData(
		daily(filtered, w, loc, map[string]analytics.Reducer{metrics.FieldReach: analytics.Mean}),
		"Alcance médio diário", analytics.SeriesSpec{Name: "reach", Field: metrics.FieldReach})

	byType := analytics.Aggregate(filtered, upperLabel(FieldMediaType), map[string]analytics.Reducer{
		metrics.FieldReach: analytics.Sum,
		FieldInteractions:  analytics.Sum,
		FieldReplies:       analytics.Sum,
	})
	page.ByMediaType = analytics.ToBarChartData(byType, "Interações por tipo de mídia",
		analytics.SeriesSpec{Name: "reach", Field: metrics.FieldReach},
		analytics.SeriesSpec{Name: "interactions", Field: FieldInteractions},
		analytics.SeriesSpec{Name: "replies", Field: FieldReplies},
	)

	page.InteractionHistogram = analytics.HistogramToChartData(
		analytics.Histogram(filtered, FieldInteractions, histogramBins), "Distribuição de interações por story", "stories")

	page.RepliesByDay = analytics.ToBarChartData(
		daily(filtered, w, loc, map[string]analytics.Reducer{FieldReplies: analytics.Sum}),
		"Respostas totais por dia", analytics.SeriesSpec{Name: "replies", Field: FieldReplies})

	page.Stories = models.Table{Headers: storyHeaders, Rows: make([][]interface{}, 0, len(filtered))}
	for _, row := range newestFirst(filtered) {
		page.Stories.Rows = append(page.Stories.Rows, []interface{}{
			formatDate(row.Time),
			strings.ToUpper(row.Label(FieldMediaType)),
			row.Float(metrics.FieldReach),
			row.Float(FieldReplies),
			row.Float(FieldInteractions),
		})
	}

	return page, nil
}

var storyHeaders = []string{"date", "media_type", "reach", "replies", "interactions"}
