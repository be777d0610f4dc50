package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/cache"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/core/scheduler"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/models"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/modules/dashboard/services"
	"github.com/MuhamadAgungGumelar/allweather-bi-be/internal/shared/config"
)

type emptyTables struct{}

func (emptyTables) Fetch(ctx context.Context, collection string) ([]map[string]interface{}, error) {
	return nil, nil
}

func (emptyTables) Verify(ctx context.Context, contract models.Contract) error { return nil }

func (emptyTables) Ping(ctx context.Context) error { return nil }

func jobIDs(jobs *scheduler.Scheduler) []string {
	var ids []string
	for _, job := range jobs.List() {
		ids = append(ids, job.ID)
	}
	return ids
}

func TestRegisterJobs(t *testing.T) {
	cfg := &config.Config{
		RefreshSchedule: "0 */10 * * * *",
		ReindexSchedule: "0 0 3 * * *",
	}
	chat := services.NewChatService(nil, nil, nil, nil)

	t.Run("without cache", func(t *testing.T) {
		jobs := scheduler.NewScheduler()
		dataset := services.NewDatasetService(emptyTables{}, cache.Nop{}, time.Minute, nil)

		require.NoError(t, registerJobs(jobs, cfg, dataset, chat))
		assert.Equal(t, []string{scheduler.JobKBReindex}, jobIDs(jobs))
	})

	t.Run("with redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { client.Close() })

		jobs := scheduler.NewScheduler()
		dataset := services.NewDatasetService(emptyTables{}, cache.NewRedisStoreWithClient(client), time.Minute, nil)

		require.NoError(t, registerJobs(jobs, cfg, dataset, chat))
		assert.Equal(t, []string{scheduler.JobCacheWarmup, scheduler.JobKBReindex}, jobIDs(jobs))
	})

	t.Run("invalid schedule", func(t *testing.T) {
		jobs := scheduler.NewScheduler()
		dataset := services.NewDatasetService(emptyTables{}, nil, time.Minute, nil)
		bad := &config.Config{ReindexSchedule: "every day"}

		err := registerJobs(jobs, bad, dataset, chat)
		assert.ErrorContains(t, err, "REINDEX_SCHEDULE")
	})
}
