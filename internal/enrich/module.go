package enrich

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/aiground/linkdigest/internal/config"
)

// NewLifecyclePool builds the worker pool and ties its Start/Stop to the app
// lifecycle so queued summaries drain before shutdown completes.
func NewLifecyclePool(lc fx.Lifecycle, cfg *config.Config, logger *zap.SugaredLogger) *Pool {
	pool := NewPool(cfg.SummaryWorkers, logger)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pool.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping summary workers.")
			pool.Stop()
			return nil
		},
	})

	return pool
}

var (
	Module = fx.Provide(
		NewLifecyclePool,
		NewGormStore,
		NewEnricher,
	)
)
