package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Job IDs registered by the API
const (
	JobCacheWarmup = "cache-warmup"
	JobKBReindex   = "kb-reindex"
)

const defaultJobTimeout = 10 * time.Minute

// Job is one unit of scheduled work
type Job func(ctx context.Context) error

// JobInfo describes a registered job
type JobInfo struct {
	ID       string    `json:"id"`
	Schedule string    `json:"schedule"`
	Next     time.Time `json:"next"`
	Prev     time.Time `json:"prev,omitempty"`
}

type entry struct {
	id       cron.EntryID
	schedule string
	job      Job
}

// Scheduler runs background jobs on cron expressions with a seconds field
type Scheduler struct {
	cron    *cron.Cron
	jobs    map[string]entry
	jobsMux sync.RWMutex
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewScheduler creates a scheduler; a run still in progress skips the next tick
func NewScheduler() *Scheduler {
	logger := cronLogger{log.With().Str("component", "scheduler").Logger()}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		jobs:    make(map[string]entry),
		timeout: defaultJobTimeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Int("jobs", len(s.List())).Msg("Scheduler started")
}

// Stop cancels running jobs and waits for them to return
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	log.Info().Msg("Scheduler stopped")
}

// Add registers a job, replacing any job with the same id
func (s *Scheduler) Add(id, schedule string, job Job) error {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	if existing, ok := s.jobs[id]; ok {
		s.cron.Remove(existing.id)
		delete(s.jobs, id)
	}

	entryID, err := s.cron.AddFunc(schedule, func() { s.execute(id, job) })
	if err != nil {
		return fmt.Errorf("failed to add cron job %s: %w", id, err)
	}

	s.jobs[id] = entry{id: entryID, schedule: schedule, job: job}
	log.Info().Str("job", id).Str("schedule", schedule).Msg("Job scheduled")
	return nil
}

// Remove unregisters a job; unknown ids are ignored
func (s *Scheduler) Remove(id string) {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	if existing, ok := s.jobs[id]; ok {
		s.cron.Remove(existing.id)
		delete(s.jobs, id)
		log.Info().Str("job", id).Msg("Job removed")
	}
}

// List returns the registered jobs sorted by id
func (s *Scheduler) List() []JobInfo {
	s.jobsMux.RLock()
	defer s.jobsMux.RUnlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for id, e := range s.jobs {
		ce := s.cron.Entry(e.id)
		out = append(out, JobInfo{ID: id, Schedule: e.schedule, Next: ce.Next, Prev: ce.Prev})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Run executes a registered job immediately, outside its schedule
func (s *Scheduler) Run(id string) error {
	s.jobsMux.RLock()
	e, ok := s.jobs[id]
	s.jobsMux.RUnlock()
	if !ok {
		return fmt.Errorf("unknown job: %s", id)
	}
	return s.execute(id, e.job)
}

func (s *Scheduler) execute(id string, job Job) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		log.Error().Err(err).Str("job", id).Dur("took", time.Since(start)).Msg("Job failed")
		return err
	}
	log.Info().Str("job", id).Dur("took", time.Since(start)).Msg("Job finished")
	return nil
}

// cronLogger adapts zerolog to the cron.Logger interface
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
