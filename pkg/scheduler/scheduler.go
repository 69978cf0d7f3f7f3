// Package scheduler runs recurring jobs, such as the merchant import, on cron expressions.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/robfig/cron/v3"

	"github.com/Ramsey-B/backoffice/pkg/tracing"
)

// Job is one scheduled unit of work. ctx is canceled when the scheduler stops.
type Job func(ctx context.Context) error

// Scheduler wraps a cron runner that accepts a seconds field, skips a tick while
// the previous run of the same entry is still going, and recovers panics.
type Scheduler struct {
	cron   *cron.Cron
	logger ectologger.Logger
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func New(logger ectologger.Logger) *Scheduler {
	adapter := cronLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(adapter),
			cron.WithChain(
				cron.Recover(adapter),
				cron.SkipIfStillRunning(adapter),
			),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers job under name. spec takes six fields (seconds first) or a descriptor like @hourly.
func (s *Scheduler) Add(name, spec string, job Job) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return 0, fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
	}
	s.logger.WithFields(map[string]any{
		"job":      name,
		"schedule": spec,
	}).Info("Scheduled job")
	return id, nil
}

func (s *Scheduler) run(name string, job Job) {
	ctx, span := tracing.StartSpan(s.ctx, "Scheduler."+name)
	defer span.End()

	log := s.logger.WithContext(ctx).WithField("job", name)
	start := time.Now()
	log.Info("Scheduled job started")

	if err := job(ctx); err != nil {
		tracing.RecordError(ctx, err)
		log.WithError(err).WithField("elapsed", time.Since(start).String()).Error("Scheduled job failed")
		return
	}
	log.WithField("elapsed", time.Since(start).String()).Info("Scheduled job finished")
}

// Entries is the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Trigger runs the entry immediately through the same wrappers as a scheduled tick.
func (s *Scheduler) Trigger(id cron.EntryID) bool {
	entry := s.cron.Entry(id)
	if !entry.Valid() {
		return false
	}
	entry.WrappedJob.Run()
	return true
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them until ctx ends.
func (s *Scheduler) Stop(ctx context.Context) error {
	var done context.Context
	s.once.Do(func() {
		s.cancel()
		done = s.cron.Stop()
	})
	if done == nil {
		return nil
	}

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// cronLogger adapts ectologger to cron.Logger
type cronLogger struct {
	logger ectologger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.WithError(err).WithFields(fields(keysAndValues)).Error(msg)
}

func fields(keysAndValues []any) map[string]any {
	out := make(map[string]any, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return out
}
