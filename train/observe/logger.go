package observe

import (
	"context"
	"errors"

	"github.com/lguimbarda/min-train/train/core"
	"go.uber.org/zap"
)

// LoggerOption configures WithLogger.
type LoggerOption func(*loggerConfig)

type loggerConfig struct {
	every int
	name  string
}

// Every logs one batch out of n. Values below 1 disable per-batch logging.
func Every(n int) LoggerOption {
	return func(c *loggerConfig) { c.every = n }
}

// Named attaches a run name to every log entry.
func Named(name string) LoggerOption {
	return func(c *loggerConfig) { c.name = name }
}

// WithLogger attaches hooks for type E that log run start, periodic batches,
// failures and completion to logger.
func WithLogger[E any](ctx context.Context, logger *zap.Logger, opts ...LoggerOption) context.Context {
	cfg := loggerConfig{every: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.name != "" {
		logger = logger.With(zap.String("run", cfg.name))
	}

	var examples int
	return core.WithHooks(ctx, core.Hooks[E]{
		OnStart: func() {
			examples = 0
			logger.Info("training started")
		},
		OnBatch: func(index int, batch []E) {
			examples += len(batch)
			if cfg.every < 1 || index%cfg.every != 0 {
				return
			}
			logger.Debug("batch",
				zap.Int("index", index),
				zap.Int("size", len(batch)),
				zap.Int("examples", examples),
			)
		},
		OnError: func(err error) {
			fields := []zap.Field{zap.Error(err)}
			var batchErr *core.BatchError
			if errors.As(err, &batchErr) {
				fields = append(fields, zap.Int("batch", batchErr.Index), zap.Int("size", batchErr.Size))
			}
			logger.Error("training failed", fields...)
		},
		OnComplete: func(batches, examples int) {
			logger.Info("training complete",
				zap.Int("batches", batches),
				zap.Int("examples", examples),
			)
		},
	})
}
