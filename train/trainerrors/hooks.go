// Package trainerrors provides error observation for training runs and
// trainer wrappers that change how failures surface: panic recovery, retries
// and error annotation.
package trainerrors

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/lguimbarda/min-train/train/core"
)

// ErrorCounter counts errors that match a predicate.
type ErrorCounter struct {
	predicate func(error) bool
	count     atomic.Int64
}

// Count returns the number of errors counted.
func (c *ErrorCounter) Count() int64 {
	return c.count.Load()
}

// WithErrorCounter attaches an error counting hook for type E and returns the counter.
// If predicate is nil, all errors are counted.
func WithErrorCounter[E any](ctx context.Context, predicate func(error) bool) (context.Context, *ErrorCounter) {
	if predicate == nil {
		predicate = func(error) bool { return true }
	}
	counter := &ErrorCounter{predicate: predicate}
	ctx = core.WithHooks(ctx, core.Hooks[E]{
		OnError: func(err error) {
			if counter.predicate(err) {
				counter.count.Add(1)
			}
		},
	})
	return ctx, counter
}

// OnError attaches a handler called with every failure of a run over
// examples of type E. The failure still aborts the run.
func OnError[E any](ctx context.Context, handler func(error)) context.Context {
	return core.WithHooks(ctx, core.Hooks[E]{OnError: handler})
}

// OnBatchError is like OnError but unpacks the *core.BatchError, so handler
// learns which batch failed. Failures that carry no batch, such as a failed
// trainer initialization, are reported with a nil batch error.
func OnBatchError[E any](ctx context.Context, handler func(be *core.BatchError, err error)) context.Context {
	return core.WithHooks(ctx, core.Hooks[E]{
		OnError: func(err error) {
			var be *core.BatchError
			if errors.As(err, &be) {
				handler(be, be.Err)
				return
			}
			handler(nil, err)
		},
	})
}

// ErrorCollector collects errors for later inspection.
type ErrorCollector struct {
	mu        sync.Mutex
	errors    []error
	predicate func(error) bool
	maxErrors int // 0 = unlimited
}

// ErrorCollectorOption configures an ErrorCollector.
type ErrorCollectorOption func(*ErrorCollector)

// WithPredicate filters which errors to collect.
func WithPredicate(predicate func(error) bool) ErrorCollectorOption {
	return func(c *ErrorCollector) {
		c.predicate = predicate
	}
}

// WithMaxErrors limits the number of errors to collect.
func WithMaxErrors(max int) ErrorCollectorOption {
	return func(c *ErrorCollector) {
		c.maxErrors = max
	}
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
func WithErrorCollector[E any](ctx context.Context, opts ...ErrorCollectorOption) (context.Context, *ErrorCollector) {
	collector := &ErrorCollector{}
	for _, opt := range opts {
		opt(collector)
	}
	ctx = core.WithHooks(ctx, core.Hooks[E]{
		OnError: func(err error) {
			if collector.predicate != nil && !collector.predicate(err) {
				return
			}
			collector.mu.Lock()
			defer collector.mu.Unlock()
			if collector.maxErrors > 0 && len(collector.errors) >= collector.maxErrors {
				return
			}
			collector.errors = append(collector.errors, err)
		},
	})
	return ctx, collector
}
