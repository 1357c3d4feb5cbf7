// Package observe provides hook-based observers for training runs: counters,
// structured progress logging, and OpenTelemetry metrics.
//
// Hooks are typed by example, so observers must be registered with the
// example type of the run they watch:
//
//	ctx, counter := observe.WithCounter[Sample](ctx)
//	ctx = observe.WithLogger[Sample](ctx, logger, observe.Every(100))
//	err := train.Train(ctx, sampler, trainer, learner)
package observe

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/lguimbarda/min-train/train/core"
)

// WithStartHook attaches a run start hook for type E to the context.
func WithStartHook[E any](ctx context.Context, callback func()) context.Context {
	return core.WithHooks(ctx, core.Hooks[E]{
		OnStart: callback,
	})
}

// WithBatchHook attaches a hook that fires for each batch before it is
// processed.
func WithBatchHook[E any](ctx context.Context, callback func(index int, batch []E)) context.Context {
	return core.WithHooks(ctx, core.Hooks[E]{
		OnBatch: callback,
	})
}

// WithErrorHook attaches an error observation hook for type E to the context.
func WithErrorHook[E any](ctx context.Context, callback func(error)) context.Context {
	return core.WithHooks(ctx, core.Hooks[E]{
		OnError: callback,
	})
}

// WithCompleteHook attaches a hook that fires when a run finishes cleanly.
func WithCompleteHook[E any](ctx context.Context, callback func(batches, examples int)) context.Context {
	return core.WithHooks(ctx, core.Hooks[E]{
		OnComplete: callback,
	})
}

// Counter provides thread-safe counting of batches, examples and errors.
type Counter struct {
	batches  atomic.Int64
	examples atomic.Int64
	errors   atomic.Int64
}

// Batches returns the number of batches drawn.
func (c *Counter) Batches() int64 { return c.batches.Load() }

// Examples returns the number of examples drawn.
func (c *Counter) Examples() int64 { return c.examples.Load() }

// Errors returns the number of failed passes.
func (c *Counter) Errors() int64 { return c.errors.Load() }

// WithCounter attaches counting hooks for type E and returns the counter for querying.
func WithCounter[E any](ctx context.Context) (context.Context, *Counter) {
	counter := &Counter{}
	ctx = core.WithHooks(ctx, core.Hooks[E]{
		OnBatch: func(_ int, batch []E) {
			counter.batches.Add(1)
			counter.examples.Add(int64(len(batch)))
		},
		OnError: func(error) { counter.errors.Add(1) },
	})
	return ctx, counter
}

// ErrorCollector collects every error reported by observed runs.
type ErrorCollector struct {
	mu     sync.Mutex
	errors []error
}

// Errors returns a copy of all collected errors.
func (c *ErrorCollector) Errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]error, len(c.errors))
	copy(result, c.errors)
	return result
}

// Count returns the number of collected errors.
func (c *ErrorCollector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errors)
}

// WithErrorCollector attaches an error collecting hook for type E and returns the collector.
func WithErrorCollector[E any](ctx context.Context) (context.Context, *ErrorCollector) {
	collector := &ErrorCollector{}
	ctx = core.WithHooks(ctx, core.Hooks[E]{
		OnError: func(err error) {
			collector.mu.Lock()
			collector.errors = append(collector.errors, err)
			collector.mu.Unlock()
		},
	})
	return ctx, collector
}
