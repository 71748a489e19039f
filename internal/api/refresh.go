package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"nba-feature-stats/internal/api/handlers"
	"nba-feature-stats/internal/logger"
	"nba-feature-stats/internal/pipeline"
)

// Refresher re-runs the feature-stats batch on a cron schedule and swaps the served artifact.
type Refresher struct {
	engine *pipeline.Engine
	source pipeline.EntrySource
	path   string
	store  *handlers.FeatureStore
	log    *logrus.Entry

	cron *cron.Cron

	mu       sync.Mutex
	schedule cron.Schedule
	lastRun  time.Time
	lastErr  error
}

func NewRefresher(engine *pipeline.Engine, source pipeline.EntrySource, path string, store *handlers.FeatureStore, log logrus.FieldLogger) *Refresher {
	entry := logger.WithComponent(log, "refresher")
	return &Refresher{
		engine: engine,
		source: source,
		path:   path,
		store:  store,
		log:    entry,
		// A slow batch never overlaps the next tick.
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(entry)))),
	}
}

// Start schedules the batch with a standard five-field cron expression.
func (r *Refresher) Start(schedule string) error {
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	r.cron.Schedule(sched, cron.FuncJob(func() {
		_ = r.RunOnce(context.Background())
	}))

	r.mu.Lock()
	r.schedule = sched
	r.mu.Unlock()

	r.cron.Start()
	r.log.WithFields(logrus.Fields{
		"schedule": schedule,
		"next_run": r.NextRun(time.Now()),
	}).Info("Scheduled artifact refresh")
	return nil
}

// NextRun is the first scheduled refresh after now, or the zero time before Start.
func (r *Refresher) NextRun(now time.Time) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.schedule == nil {
		return time.Time{}
	}
	return r.schedule.Next(now)
}

// Stop halts the schedule and waits for a running batch to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}

// RunOnce runs the batch, writes the artifact and installs it in the store.
// On failure the previously served artifact stays in place.
func (r *Refresher) RunOnce(ctx context.Context) error {
	res, err := r.engine.RunAndWrite(ctx, r.source, r.path)

	r.mu.Lock()
	r.lastRun = time.Now()
	r.lastErr = err
	r.mu.Unlock()

	if err != nil {
		r.log.WithError(err).Error("Artifact refresh failed")
		return err
	}
	r.store.Replace(res.Records)
	r.log.WithFields(logrus.Fields{
		"run_id":  res.RunID,
		"records": len(res.Records),
	}).Info("Artifact refreshed")
	return nil
}

// LastRun reports when the batch last ran and how it ended.
func (r *Refresher) LastRun() (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastRun, r.lastErr
}
