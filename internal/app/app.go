package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"twir-bot/internal/domain/ports"
)

// Job is one delivery batch.
type Job interface {
	Run(ctx context.Context) error
}

// App manages the lifecycle of the issue delivery job.
type App struct {
	cron       *cron.Cron
	job        Job
	logger     ports.Logger
	schedule   string
	runTimeout time.Duration
}

// New constructs an App. An empty schedule makes Run a single batch.
func New(job Job, logger ports.Logger, schedule string, runTimeout time.Duration) *App {
	return &App{
		cron:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		job:        job,
		logger:     logger,
		schedule:   schedule,
		runTimeout: runTimeout,
	}
}

// Run executes the job once immediately. With a schedule it then keeps running
// the job on the cron schedule until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.schedule == "" {
		a.logger.Info(ctx, "running single delivery batch")
		return a.runBounded(ctx)
	}

	if err := a.scheduleJob(); err != nil {
		return err
	}

	a.logger.Info(ctx, "running first batch immediately")
	if err := a.runBounded(ctx); err != nil {
		a.logger.Error(ctx, "initial delivery run failed", "error", err)
	}

	a.logger.Info(ctx, "starting scheduler", "cron", a.schedule)
	a.cron.Start()

	<-ctx.Done()
	stopCtx := a.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
	}
	a.logger.Info(context.Background(), "scheduler stopped")
	return nil
}

func (a *App) scheduleJob() error {
	_, err := a.cron.AddFunc(a.schedule, func() {
		ctx := context.Background()
		if err := a.runBounded(ctx); err != nil {
			a.logger.Error(ctx, "scheduled delivery run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	return nil
}

// runBounded runs the job once, limited to runTimeout when one is set.
func (a *App) runBounded(ctx context.Context) error {
	if a.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.runTimeout)
		defer cancel()
	}
	return a.job.Run(ctx)
}
