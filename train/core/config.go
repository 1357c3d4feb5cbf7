package core

import (
	"context"
)

// configKey is a typed context key for config injection.
// Each config type gets its own unique key.
type configKey[C any] struct{}

// WithConfig attaches a configuration value to the context.
// The config is keyed by its type, so only one instance of each config type
// can be stored. Later calls with the same type will override earlier ones.
//
// Example:
//
//	ctx := core.WithConfig(ctx, &core.BatchConfig{MaxBatchSize: 32})
func WithConfig[C any](ctx context.Context, cfg C) context.Context {
	return context.WithValue(ctx, configKey[C]{}, cfg)
}

// GetConfig retrieves a configuration of type C from the context.
// Returns the config and true if found, or zero value and false if not present.
func GetConfig[C any](ctx context.Context) (C, bool) {
	if ctx == nil {
		return *new(C), false
	}
	if cfg, ok := ctx.Value(configKey[C]{}).(C); ok {
		return cfg, true
	}
	return *new(C), false
}

// BatchConfig tunes how batches are sized against a learner.
// It is looked up as *BatchConfig.
type BatchConfig struct {
	// MaxBatchSize caps batches below the learner's MaxStripes.
	// A value of 0 or negative leaves MaxStripes as the only bound.
	MaxBatchSize int

	// RespectUpdateBoundary bounds each training batch by the trainer's
	// InputsUntilUpdate when that is positive, so a batch never forces an
	// update part-way through.
	RespectUpdateBoundary bool
}

// BatchOption mutates a BatchConfig.
type BatchOption func(*BatchConfig)

// WithMaxBatchSize returns a functional option that sets the batch size cap.
func WithMaxBatchSize(size int) BatchOption {
	return func(c *BatchConfig) {
		c.MaxBatchSize = size
	}
}

// WithRespectUpdateBoundary returns a functional option that sets
// RespectUpdateBoundary.
func WithRespectUpdateBoundary(respect bool) BatchOption {
	return func(c *BatchConfig) {
		c.RespectUpdateBoundary = respect
	}
}

// NewBatchConfig builds a BatchConfig from options.
func NewBatchConfig(opts ...BatchOption) *BatchConfig {
	cfg := &BatchConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// effectiveBatchSize returns the batch bound for a learner of the given
// capacity, applying any MaxBatchSize found in ctx.
func effectiveBatchSize(ctx context.Context, capacity int) int {
	if cfg, ok := GetConfig[*BatchConfig](ctx); ok && cfg.MaxBatchSize > 0 && cfg.MaxBatchSize < capacity {
		return cfg.MaxBatchSize
	}
	return capacity
}

func respectUpdateBoundary(ctx context.Context) bool {
	cfg, ok := GetConfig[*BatchConfig](ctx)
	return ok && cfg.RespectUpdateBoundary
}
