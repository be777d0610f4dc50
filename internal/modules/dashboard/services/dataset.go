package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/cache"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/metrics"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/repositories"
)

// RowSource feeds the page services with coerced rows
type RowSource interface {
	Raw(ctx context.Context, collection string) ([]map[string]interface{}, error)
	Rows(ctx context.Context, collection string) ([]metrics.Row, error)
	Location() *time.Location
}

// DatasetService loads collections through the cache and coerces them into rows
type DatasetService struct {
	repo  repositories.TableRepo
	cache cache.Store
	ttl   time.Duration
	loc   *time.Location

	mu       sync.Mutex
	verified map[string]bool
}

func NewDatasetService(repo repositories.TableRepo, store cache.Store, ttl time.Duration, loc *time.Location) *DatasetService {
	if store == nil {
		store = cache.Nop{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DatasetService{
		repo:     repo,
		cache:    store,
		ttl:      ttl,
		loc:      loc,
		verified: make(map[string]bool),
	}
}

// Location is the dashboard timezone
func (s *DatasetService) Location() *time.Location {
	return s.loc
}

// Cached reports whether loads are kept in a real cache
func (s *DatasetService) Cached() bool {
	_, nop := s.cache.(cache.Nop)
	return !nop
}

func cacheKey(collection string) string {
	return "dataset:" + collection
}

// Raw returns the records of a collection, served from cache when fresh
func (s *DatasetService) Raw(ctx context.Context, collection string) ([]map[string]interface{}, error) {
	if err := s.verify(ctx, collection); err != nil {
		return nil, err
	}

	var records []map[string]interface{}
	hit, err := s.cache.Get(ctx, cacheKey(collection), &records)
	if err != nil {
		log.Warn().Err(err).Str("collection", collection).Msg("cache read failed")
	}
	if hit {
		return records, nil
	}

	return s.load(ctx, collection)
}

// Rows returns the coerced rows of a collection
func (s *DatasetService) Rows(ctx context.Context, collection string) ([]metrics.Row, error) {
	schema, err := SchemaFor(collection, s.loc)
	if err != nil {
		return nil, err
	}

	raw, err := s.Raw(ctx, collection)
	if err != nil {
		return nil, err
	}

	rows := metrics.Coerce(raw, schema)
	if dropped := len(raw) - len(rows); dropped > 0 {
		log.Debug().Str("collection", collection).Int("dropped", dropped).Msg("rows dropped during coercion")
	}
	return rows, nil
}

// Warm refetches every collection into the cache
func (s *DatasetService) Warm(ctx context.Context) error {
	var errs []error
	for _, collection := range models.AllCollections() {
		if err := s.verify(ctx, collection); err != nil {
			errs = append(errs, err)
			continue
		}

		start := time.Now()
		records, err := s.load(ctx, collection)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		log.Debug().
			Str("collection", collection).
			Int("records", len(records)).
			Dur("took", time.Since(start)).
			Msg("collection warmed")
	}
	return errors.Join(errs...)
}

// Invalidate drops every cached collection
func (s *DatasetService) Invalidate(ctx context.Context) error {
	keys := make([]string, 0, len(models.AllCollections()))
	for _, collection := range models.AllCollections() {
		keys = append(keys, cacheKey(collection))
	}
	return s.cache.Delete(ctx, keys...)
}

func (s *DatasetService) load(ctx context.Context, collection string) ([]map[string]interface{}, error) {
	records, err := s.repo.Fetch(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	if err := s.cache.Set(ctx, cacheKey(collection), records, s.ttl); err != nil {
		log.Warn().Err(err).Str("collection", collection).Msg("cache write failed")
	}
	return records, nil
}

// verify checks the collection contract once per process.
// Failures are not memoized so a fixed schema is picked up on the next call.
func (s *DatasetService) verify(ctx context.Context, collection string) error {
	contract, ok := models.Contracts[collection]
	if !ok {
		return fmt.Errorf("%w: unknown collection %q", ErrInvalidRequest, collection)
	}

	s.mu.Lock()
	done := s.verified[collection]
	s.mu.Unlock()
	if done {
		return nil
	}

	if err := s.repo.Verify(ctx, contract); err != nil {
		var mce *repositories.MissingColumnError
		if errors.As(err, &mce) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	s.mu.Lock()
	s.verified[collection] = true
	s.mu.Unlock()
	return nil
}
