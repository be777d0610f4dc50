package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/stats"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/repositories"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/services"
)

type fakePages struct {
	err error

	window     *analytics.TimeWindow
	horizon    int
	filter     models.MetaAdsFilter
	windowA    analytics.TimeWindow
	windowB    analytics.TimeWindow
	mode       stats.Mode
	correction stats.Correction
	depth      int
	report     string
	format     export.Format
	userID     uuid.UUID
	question   string
}

func (f *fakePages) Overview(ctx context.Context, w *analytics.TimeWindow) (*models.ShopifyOverview, error) {
	f.window = w
	return &models.ShopifyOverview{}, f.err
}

func (f *fakePages) SalesShare(ctx context.Context) (*models.SalesShare, error) {
	return &models.SalesShare{TotalUnits: 4}, f.err
}

func (f *fakePages) Forecast(ctx context.Context, horizon int) (*models.ForecastReport, error) {
	f.horizon = horizon
	return &models.ForecastReport{HorizonDays: horizon}, f.err
}

type fakeMetaAds struct{ fakePages }

func (f *fakeMetaAds) Overview(ctx context.Context, w *analytics.TimeWindow, filter models.MetaAdsFilter) (*models.MetaAdsPage, error) {
	f.window = w
	f.filter = filter
	return &models.MetaAdsPage{}, f.err
}

func (f *fakeMetaAds) Campaigns(ctx context.Context) ([]string, error) {
	return []string{"Inverno", "Verão"}, f.err
}

type fakeInstagram struct{ fakePages }

func (f *fakeInstagram) Posts(ctx context.Context, w *analytics.TimeWindow) (*models.PostsPage, error) {
	f.window = w
	return &models.PostsPage{}, f.err
}

func (f *fakeInstagram) Stories(ctx context.Context, w *analytics.TimeWindow) (*models.StoriesPage, error) {
	f.window = w
	return &models.StoriesPage{}, f.err
}

type fakeGA struct{ fakePages }

func (f *fakeGA) Overview(ctx context.Context, w *analytics.TimeWindow) (*models.GoogleAnalyticsPage, error) {
	f.window = w
	return &models.GoogleAnalyticsPage{}, f.err
}

type fakeClarity struct{ fakePages }

func (f *fakeClarity) Overview(ctx context.Context, w *analytics.TimeWindow) (*models.ClarityPage, error) {
	f.window = w
	return &models.ClarityPage{}, f.err
}

func (f *fakeClarity) CompareScroll(ctx context.Context, a, b analytics.TimeWindow, mode stats.Mode, correction stats.Correction) (*models.ScrollComparison, error) {
	f.windowA, f.windowB, f.mode, f.correction = a, b, mode, correction
	return &models.ScrollComparison{VisitorsA: 10}, f.err
}

func (f *fakeClarity) CompareCutoff(ctx context.Context, a, b analytics.TimeWindow, depth int, mode stats.Mode) (*models.CutoffComparison, error) {
	f.windowA, f.windowB, f.depth, f.mode = a, b, depth, mode
	return &models.CutoffComparison{Mode: mode}, f.err
}

type fakeAssistant struct{ fakePages }

func (f *fakeAssistant) Ask(ctx context.Context, userID uuid.UUID, question string) (*models.ChatAnswer, error) {
	f.userID, f.question = userID, question
	if f.err != nil {
		return nil, f.err
	}
	return &models.ChatAnswer{Answer: "resposta"}, nil
}

func (f *fakeAssistant) History(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error) {
	f.userID = userID
	return []models.ChatMessage{{Role: models.RoleUser, Content: "oi"}}, f.err
}

func (f *fakeAssistant) Reset(ctx context.Context, userID uuid.UUID) error {
	f.userID = userID
	return f.err
}

func (f *fakeAssistant) Reindex(ctx context.Context) (int, error) {
	return 7, f.err
}

type fakeReports struct{ fakePages }

func (f *fakeReports) Generate(ctx context.Context, report string, format export.Format, w *analytics.TimeWindow) (*services.Report, error) {
	f.report, f.format, f.window = report, format, w
	if f.err != nil {
		return nil, f.err
	}
	return &services.Report{
		File:     &export.File{Content: []byte("%PDF-1.3"), ContentType: "application/pdf", Extension: ".pdf"},
		Filename: report + "_20240501.pdf",
	}, nil
}

func (f *fakeReports) GenerateAll(ctx context.Context, w *analytics.TimeWindow) (*services.Report, error) {
	f.window = w
	return &services.Report{
		File:     &export.File{Content: []byte("xlsx"), ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Extension: ".xlsx"},
		Filename: "allweather_20240501.xlsx",
	}, f.err
}

type fixture struct {
	app       *fiber.App
	shopify   *fakePages
	instagram *fakeInstagram
	metaAds   *fakeMetaAds
	ga        *fakeGA
	clarity   *fakeClarity
	chat      *fakeAssistant
	reports   *fakeReports
	user      uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	windows := NewWindowParser(loc)
	windows.now = func() time.Time { return time.Date(2024, 5, 15, 10, 0, 0, 0, loc) }

	f := &fixture{
		shopify:   &fakePages{},
		instagram: &fakeInstagram{},
		metaAds:   &fakeMetaAds{},
		ga:        &fakeGA{},
		clarity:   &fakeClarity{},
		chat:      &fakeAssistant{},
		reports:   &fakeReports{},
		user:      uuid.New(),
	}

	router := &Router{
		Shopify:         NewShopifyHandler(f.shopify, windows, 120),
		Instagram:       NewInstagramHandler(f.instagram, windows),
		MetaAds:         NewMetaAdsHandler(f.metaAds, windows),
		GoogleAnalytics: NewGoogleAnalyticsHandler(f.ga, windows),
		Clarity:         NewClarityHandler(f.clarity, windows),
		Chat:            NewChatHandler(f.chat),
		Export:          NewExportHandler(f.reports, windows),
	}

	f.app = fiber.New()
	f.app.Use(RequestLogger())
	api := f.app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Locals(auth.LocalUserID, f.user.String())
		c.Locals(auth.LocalRole, c.Get("X-Role", auth.RoleViewer))
		return c.Next()
	})
	router.Register(api)
	return f
}

func (f *fixture) do(t *testing.T, method, target, body, role string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("X-Role", role)
	}

	resp, err := f.app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	out := map[string]interface{}{}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), fiber.MIMEApplicationJSON) && len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func TestWindowParsing(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, "GET", "/api/v1/shopify", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Nil(t, f.shopify.window, "no parameters means all data")

	resp, _ = f.do(t, "GET", "/api/v1/shopify?start=2024-05-01&end=2024-05-07", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, f.shopify.window)
	assert.Equal(t, "2024-05-01", f.shopify.window.Start.Format(analytics.DateLayout))
	assert.Equal(t, 23, f.shopify.window.End.Hour())
	assert.Equal(t, "America/Sao_Paulo", f.shopify.window.Start.Location().String())

	resp, _ = f.do(t, "GET", "/api/v1/instagram/posts?period=last_7_days", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "2024-05-09", f.instagram.window.Start.Format(analytics.DateLayout))

	for _, q := range []string{"start=2024-05-01", "start=2024-05-07&end=2024-05-01", "start=01/05/2024&end=2024-05-07", "period=forever"} {
		resp, body := f.do(t, "GET", "/api/v1/instagram/stories?"+q, "", "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, q)
		assert.Equal(t, "invalid_request", body["error"], q)
	}
}

func TestWindowLengthIsCapped(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, "GET", "/api/v1/shopify?start=2022-01-01&end=2024-12-31", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "three years are accepted")

	resp, body := f.do(t, "GET", "/api/v1/shopify?start=2000-01-01&end=2099-12-31", "", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_request", body["error"])
	assert.Contains(t, body["message"], "36525 days")

	resp, _ = f.do(t, "GET", "/api/v1/clarity/scroll-comparison?a_start=2000-01-01&a_end=2020-01-01&b_start=2024-05-01&b_end=2024-05-07", "", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "comparison windows are capped too")
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"upstream", fmt.Errorf("%w: dial tcp", services.ErrUpstream), fiber.StatusBadGateway, "upstream_unavailable"},
		{"invalid", fmt.Errorf("%w: horizon", services.ErrInvalidRequest), fiber.StatusBadRequest, "invalid_request"},
		{"schema", &repositories.MissingColumnError{Collection: "Shopify", Column: "sku"}, fiber.StatusInternalServerError, "schema_mismatch"},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.ga.err = tt.err
			resp, body := f.do(t, "GET", "/api/v1/google-analytics", "", "")
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, body["error"])
		})
	}

	f := newFixture(t)
	f.ga.err = services.ErrNoData
	resp, body := f.do(t, "GET", "/api/v1/google-analytics", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["no_data"])
}

func TestShopifyForecastHorizon(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, "GET", "/api/v1/shopify/forecast", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 120, f.shopify.horizon)
	assert.Equal(t, float64(120), body["horizon_days"])

	f.do(t, "GET", "/api/v1/shopify/forecast?horizon=30", "", "")
	assert.Equal(t, 30, f.shopify.horizon)

	resp, _ = f.do(t, "GET", "/api/v1/shopify/forecast?horizon=abc", "", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body = f.do(t, "GET", "/api/v1/shopify/sales-share", "", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(4), body["total_units"])
}

func TestMetaAdsFilters(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, "GET", "/api/v1/meta-ads?campaigns=Inverno,%20Ver%C3%A3o,&statuses=ACTIVE", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Inverno", "Verão"}, f.metaAds.filter.Campaigns)
	assert.Equal(t, []string{"ACTIVE"}, f.metaAds.filter.Statuses)

	_, body := f.do(t, "GET", "/api/v1/meta-ads/campaigns", "", "")
	assert.Len(t, body["campaigns"], 2)
}

func TestClarityComparisons(t *testing.T) {
	f := newFixture(t)
	periods := "a_start=2024-04-01&a_end=2024-04-30&b_start=2024-05-01&b_end=2024-05-31"

	resp, _ := f.do(t, "GET", "/api/v1/clarity/scroll-comparison?"+periods+"&mode=exact&correction=holm", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, stats.ModeExactBucket, f.clarity.mode)
	assert.Equal(t, stats.CorrectionHolm, f.clarity.correction)
	assert.Equal(t, "2024-04-30", f.clarity.windowA.End.Format(analytics.DateLayout))
	assert.Equal(t, "2024-05-01", f.clarity.windowB.Start.Format(analytics.DateLayout))

	resp, _ = f.do(t, "GET", "/api/v1/clarity/scroll-comparison?"+periods, "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, stats.ModeFunnel, f.clarity.mode)
	assert.Equal(t, stats.CorrectionNone, f.clarity.correction)

	resp, _ = f.do(t, "GET", "/api/v1/clarity/scroll-cutoff?"+periods+"&depth=55", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 55, f.clarity.depth)

	for _, q := range []string{
		"a_start=2024-04-01&a_end=2024-04-30",
		periods + "&mode=sideways",
		periods + "&correction=sidak",
	} {
		resp, _ := f.do(t, "GET", "/api/v1/clarity/scroll-comparison?"+q, "", "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, q)
	}
	resp, _ = f.do(t, "GET", "/api/v1/clarity/scroll-cutoff?"+periods, "", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestChatRoutes(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, "POST", "/api/v1/chat", `{"question":"Qual SKU vende mais?"}`, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "resposta", body["answer"])
	assert.Equal(t, f.user, f.chat.userID)
	assert.Equal(t, "Qual SKU vende mais?", f.chat.question)

	resp, _ = f.do(t, "POST", "/api/v1/chat", `{"question":`, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	_, body = f.do(t, "GET", "/api/v1/chat/history", "", "")
	assert.Len(t, body["messages"], 1)

	resp, _ = f.do(t, "DELETE", "/api/v1/chat/history", "", "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = f.do(t, "POST", "/api/v1/chat/reindex", "", "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, body = f.do(t, "POST", "/api/v1/chat/reindex", "", auth.RoleAdmin)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(7), body["indexed"])

	f.chat.err = fmt.Errorf("%w: openai", services.ErrUpstream)
	resp, _ = f.do(t, "POST", "/api/v1/chat", `{"question":"oi"}`, "")
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestExportRoutes(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, "GET", "/api/v1/export/sales-share?format=pdf&start=2024-05-01&end=2024-05-31", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="sales-share_20240501.pdf"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "sales-share", f.reports.report)
	assert.Equal(t, export.FormatPDF, f.reports.format)
	require.NotNil(t, f.reports.window)

	f.do(t, "GET", "/api/v1/export/forecast", "", "")
	assert.Equal(t, export.FormatExcel, f.reports.format)

	resp, _ = f.do(t, "GET", "/api/v1/export/forecast?format=docx", "", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, "GET", "/api/v1/export", "", "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = f.do(t, "GET", "/api/v1/export", "", auth.RoleAdmin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "allweather_20240501.xlsx")
}

func TestHealth(t *testing.T) {
	app := fiber.New()
	healthy := NewHealthHandler(map[string]HealthCheck{
		"database": func(ctx context.Context) error { return nil },
	})
	degraded := NewHealthHandler(map[string]HealthCheck{
		"database": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return errors.New("connection refused") },
	})
	app.Get("/health", healthy.GetHealth)
	app.Get("/health/degraded", degraded.GetHealth)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/health/degraded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "connection refused", body["dependencies"].(map[string]interface{})["redis"])
}
