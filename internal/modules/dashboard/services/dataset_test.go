package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/cache"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/repositories"
)

type fakeTableRepo struct {
	records   map[string][]map[string]interface{}
	fetches   map[string]int
	verifies  int
	fetchErr  error
	verifyErr error
}

func newFakeTableRepo() *fakeTableRepo {
	return &fakeTableRepo{
		records: map[string][]map[string]interface{}{
			models.CollectionShopify: {
				{"date": "2024-05-01", "price": 10.0, "sku": "AW_ES_LC_PR_M", "order_number": "1"},
			},
		},
		fetches: make(map[string]int),
	}
}

func (f *fakeTableRepo) Fetch(ctx context.Context, collection string) ([]map[string]interface{}, error) {
	f.fetches[collection]++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.records[collection], nil
}

func (f *fakeTableRepo) Verify(ctx context.Context, contract models.Contract) error {
	f.verifies++
	return f.verifyErr
}

func (f *fakeTableRepo) Ping(ctx context.Context) error { return nil }

func setupRedisStore(t *testing.T) (*miniredis.Miniredis, cache.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, cache.NewRedisStoreWithClient(client)
}

func TestDatasetServiceCachesCollections(t *testing.T) {
	mr, store := setupRedisStore(t)
	repo := newFakeTableRepo()
	svc := NewDatasetService(repo, store, 10*time.Minute, time.UTC)
	ctx := context.Background()

	rows, err := svc.Rows(ctx, models.CollectionShopify)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "AW_ES_LC_PR_M", rows[0].Label(FieldSKU))

	_, err = svc.Rows(ctx, models.CollectionShopify)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.fetches[models.CollectionShopify], "second read is served from redis")
	assert.Equal(t, 1, repo.verifies, "contract is verified once")

	mr.FastForward(11 * time.Minute)
	_, err = svc.Raw(ctx, models.CollectionShopify)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.fetches[models.CollectionShopify], "expired entries are refetched")

	require.NoError(t, svc.Invalidate(ctx))
	_, err = svc.Raw(ctx, models.CollectionShopify)
	require.NoError(t, err)
	assert.Equal(t, 3, repo.fetches[models.CollectionShopify])
}

func TestDatasetServiceCached(t *testing.T) {
	_, store := setupRedisStore(t)
	assert.True(t, NewDatasetService(newFakeTableRepo(), store, time.Minute, nil).Cached())
	assert.False(t, NewDatasetService(newFakeTableRepo(), nil, time.Minute, nil).Cached())
	assert.False(t, NewDatasetService(newFakeTableRepo(), cache.Nop{}, time.Minute, nil).Cached())
}

func TestDatasetServiceErrors(t *testing.T) {
	ctx := context.Background()

	repo := newFakeTableRepo()
	repo.fetchErr = errors.New("connection refused")
	_, err := NewDatasetService(repo, nil, time.Minute, nil).Raw(ctx, models.CollectionShopify)
	assert.ErrorIs(t, err, ErrUpstream)

	repo = newFakeTableRepo()
	repo.verifyErr = &repositories.MissingColumnError{Collection: models.CollectionShopify, Column: "sku"}
	svc := NewDatasetService(repo, nil, time.Minute, nil)
	_, err = svc.Raw(ctx, models.CollectionShopify)
	var mce *repositories.MissingColumnError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, "sku", mce.Column)

	// a fixed schema is picked up on the next call
	repo.verifyErr = nil
	_, err = svc.Raw(ctx, models.CollectionShopify)
	assert.NoError(t, err)

	_, err = svc.Raw(ctx, "unknown")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestDatasetServiceWarm(t *testing.T) {
	repo := newFakeTableRepo()
	svc := NewDatasetService(repo, nil, time.Minute, time.UTC)

	require.NoError(t, svc.Warm(context.Background()))
	for _, collection := range models.AllCollections() {
		assert.Equal(t, 1, repo.fetches[collection], collection)
	}

	repo.fetchErr = errors.New("timeout")
	assert.ErrorIs(t, svc.Warm(context.Background()), ErrUpstream)
}

func TestReportServiceGenerate(t *testing.T) {
	src := shopifySource()
	for k, v := range metaAdsSource().raw {
		src.raw[k] = v
	}
	reports := NewReportService(
		NewShopifyService(src, nil),
		NewInstagramService(src),
		NewMetaAdsService(src),
		export.NewService(),
		120,
	)
	ctx := context.Background()

	for _, name := range []string{ReportForecast, ReportMetaAds, ReportInstagramTop, ReportSalesShare} {
		report, err := reports.Generate(ctx, name, export.FormatExcel, nil)
		require.NoError(t, err, name)
		assert.Contains(t, report.Filename, name)
		assert.NotEmpty(t, report.Content)
	}

	pdf, err := reports.Generate(ctx, ReportSalesShare, export.FormatPDF, window(t, "2024-05-01", "2024-05-31"))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)

	_, err = reports.Generate(ctx, "payroll", export.FormatExcel, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	all, err := reports.GenerateAll(ctx, nil)
	require.NoError(t, err)
	assert.Contains(t, all.Filename, "allweather_")
	assert.Equal(t, ".xlsx", all.Extension)
}
