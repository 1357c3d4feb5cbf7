package observe

import (
	"context"

	"github.com/lguimbarda/min-train/train/core"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/exp/constraints"
)

// Instrument names recorded by WithMetrics.
const (
	MetricBatches   = "train.batches"
	MetricExamples  = "train.examples"
	MetricErrors    = "train.errors"
	MetricBatchSize = "train.batch_size"
)

// WithMetrics attaches hooks for type E that record batch counts, example
// counts, failures and the batch size distribution with meter. Measurements
// are recorded against ctx as it was when WithMetrics was called.
func WithMetrics[E any](ctx context.Context, meter metric.Meter, attrs ...attribute.KeyValue) (context.Context, error) {
	batches, err := meter.Int64Counter(MetricBatches, metric.WithDescription("batches drawn"))
	if err != nil {
		return ctx, errors.Wrapf(err, "create %s counter", MetricBatches)
	}
	examples, err := meter.Int64Counter(MetricExamples, metric.WithDescription("examples drawn"))
	if err != nil {
		return ctx, errors.Wrapf(err, "create %s counter", MetricExamples)
	}
	failures, err := meter.Int64Counter(MetricErrors, metric.WithDescription("failed passes"))
	if err != nil {
		return ctx, errors.Wrapf(err, "create %s counter", MetricErrors)
	}
	sizes, err := meter.Int64Histogram(MetricBatchSize, metric.WithDescription("examples per batch"))
	if err != nil {
		return ctx, errors.Wrapf(err, "create %s histogram", MetricBatchSize)
	}

	set := metric.WithAttributes(attrs...)
	record := ctx
	return core.WithHooks(ctx, core.Hooks[E]{
		OnBatch: func(_ int, batch []E) {
			n := int64(len(batch))
			batches.Add(record, 1, set)
			examples.Add(record, n, set)
			sizes.Record(record, n, set)
		},
		OnError: func(error) {
			failures.Add(record, 1, set)
		},
	}), nil
}

// RecordError records the current value of counter to hist. Nothing is
// recorded while the counter's error is undefined. It reports whether a value
// was recorded.
func RecordError[F constraints.Float](ctx context.Context, hist metric.Float64Histogram, counter core.ErrorCounter[F], attrs ...attribute.KeyValue) bool {
	value, _, ok := counter.Error()
	if !ok {
		return false
	}
	hist.Record(ctx, float64(value), metric.WithAttributes(attrs...))
	return true
}
