package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"logistics/internal/core/application/coordinator"
	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// TickHandler runs one simulation step.
type TickHandler interface {
	Handle(ctx context.Context, cmd commands.TickCommand) (coordinator.TickReport, error)
}

// TickJob drives the simulation clock.
type TickJob struct {
	handler  TickHandler
	interval time.Duration
	maxDt    time.Duration
	now      func() time.Time
	cron     *cron.Cron
	logger   *slog.Logger

	mu   sync.Mutex
	last time.Time
}

// NewTickJob schedules handler every interval. maxDt caps a single step.
func NewTickJob(handler TickHandler, interval, maxDt time.Duration, logger *slog.Logger) (*TickJob, error) {
	if handler == nil {
		return nil, errs.NewValueIsRequiredError("handler")
	}
	if interval <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("interval", interval, time.Millisecond, time.Hour)
	}
	if maxDt < interval {
		maxDt = interval
	}

	return &TickJob{
		handler:  handler,
		interval: interval,
		maxDt:    maxDt,
		now:      time.Now,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "tick_job"),
	}, nil
}

// WithClock replaces the wall clock, for tests.
func (j *TickJob) WithClock(now func() time.Time) *TickJob {
	j.now = now
	return j
}

// every is a fixed-interval schedule. cron's own "@every" rounds to whole
// seconds, which is too coarse for the simulation clock.
type every time.Duration

func (e every) Next(t time.Time) time.Time {
	return t.Add(time.Duration(e))
}

// Start schedules RunOnce every interval and starts the scheduler.
func (j *TickJob) Start() error {
	j.cron.Schedule(every(j.interval), cron.FuncJob(func() {
		j.RunOnce(context.Background())
	}))

	j.mu.Lock()
	j.last = j.now()
	j.mu.Unlock()

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Tick job started", "interval", j.interval.String())
	return nil
}

// Stop halts the scheduler and waits for a running tick to finish.
func (j *TickJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Tick job stopped")
}

// RunOnce performs a single tick with the wall time elapsed since the
// previous one, capped at the max dt. The first call uses one interval.
// Failures are logged, never returned.
func (j *TickJob) RunOnce(ctx context.Context) {
	j.mu.Lock()
	now := j.now()
	elapsed := j.interval
	if !j.last.IsZero() {
		elapsed = now.Sub(j.last)
	}
	j.last = now
	j.mu.Unlock()

	elapsed = min(max(elapsed, 0), j.maxDt)

	cmd, err := commands.NewTickCommand(elapsed.Seconds())
	if err != nil {
		j.logger.ErrorContext(ctx, "Tick command rejected", "error", err)
		return
	}

	report, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Tick job failed", "error", err)
		return
	}
	if report.Faults > 0 {
		j.logger.WarnContext(ctx, "Tick recovered from faults", "faults", report.Faults)
	}
}
