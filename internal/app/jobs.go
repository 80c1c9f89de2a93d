package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"

	"github.com/Alijeyrad/vitum_backend/config"
	"github.com/Alijeyrad/vitum_backend/internal/service/calendar"
)

// JobModule runs the periodic background jobs.
var JobModule = fx.Module("jobs",
	fx.Invoke(RegisterJobs),
)

type JobParams struct {
	fx.In

	Lc       fx.Lifecycle
	Cfg      *config.Config
	Calendar calendar.Service
}

const warmupTimeout = time.Minute

func RegisterJobs(p JobParams) error {
	if !p.Cfg.Jobs.Enabled || p.Cfg.Jobs.CalendarWarmup == "" {
		return nil
	}
	logger := slog.Default().With("component", "jobs")

	// Warm-up only fills the Redis window cache.
	if !p.Cfg.Redis.Enabled {
		logger.Debug("calendar warm-up skipped: redis disabled")
		return nil
	}

	cl := cronLogger{logger}
	c := cron.New(cron.WithChain(
		cron.Recover(cl),
		cron.SkipIfStillRunning(cl),
	))

	_, err := c.AddFunc(p.Cfg.Jobs.CalendarWarmup, func() {
		ctx, cancel := context.WithTimeout(context.Background(), warmupTimeout)
		defer cancel()

		start := time.Now()
		if err := p.Calendar.Warm(ctx); err != nil {
			logger.Warn("calendar warm-up failed", "job", "calendar-warmup", "error", err)
			return
		}
		logger.Debug("calendar warmed", "job", "calendar-warmup", "took", time.Since(start))
	})
	if err != nil {
		return err
	}

	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			c.Start()
			logger.Info("scheduler started", "calendar_warmup", p.Cfg.Jobs.CalendarWarmup)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			select {
			case <-c.Stop().Done():
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
	return nil
}

// cronLogger routes the scheduler's own messages (panics, skipped runs)
// into slog.
type cronLogger struct{ l *slog.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(msg, append(keysAndValues, "error", err)...)
}
