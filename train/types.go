// Package train provides a generic in-process protocol for iterative batch
// training: samplers that source examples, batches sized to a learner's
// stripe capacity, online error metrics, and the Train loop that drives a
// trainer over a learner.
//
// This package is the primary user-facing API. Most users should only
// need to import this package. The train/core subpackage contains
// low-level abstractions that are rarely needed directly.
package train

import (
	"context"

	"github.com/lguimbarda/min-train/train/core"
	"golang.org/x/exp/constraints"
)

// Type aliases for core abstractions.
// These allow users to work with the framework without importing core directly.
type (
	// Sampler produces an ordered, possibly infinite sequence of examples.
	Sampler[E any] = core.Sampler[E]

	// Learner is the computational unit being trained.
	Learner[E any] = core.Learner[E]

	// Trainer updates a Learner batch by batch.
	Trainer[E any] = core.Trainer[E]

	// TrainerFuncs adapts plain functions to the Trainer interface.
	TrainerFuncs[E any] = core.TrainerFuncs[E]

	// Capacity reports how many examples a unit processes at once.
	Capacity = core.Capacity

	// Striped is a computational unit with fixed-capacity stripe storage.
	Striped = core.Striped

	// Range is a half-open index range into striped storage.
	Range = core.Range

	// StripeRef names one stripe of one striped object.
	StripeRef = core.StripeRef

	// ErrorCounter accumulates (error, count) pairs.
	ErrorCounter[F constraints.Float] = core.ErrorCounter[F]

	// Measurer computes a batch's cumulative error and observation count.
	Measurer[E any, F constraints.Float] = core.Measurer[E, F]

	// Measured pairs an ErrorCounter with its Measurer.
	Measured[E any, F constraints.Float] = core.Measured[E, F]

	// Evaluation is a counter reading taken after a pass.
	Evaluation[F constraints.Float] = core.Evaluation[F]

	// Hooks holds typed observation callbacks for batch passes.
	Hooks[E any] = core.Hooks[E]

	// Run is one training run.
	Run[E any] = core.Run[E]

	// Phase is the state of a Run.
	Phase = core.Phase

	// BatchConfig tunes batch sizing.
	BatchConfig = core.BatchConfig

	// BatchOption mutates a BatchConfig.
	BatchOption = core.BatchOption

	// BatchError wraps a failure raised while processing one batch.
	BatchError = core.BatchError

	// CapacityError reports an out-of-range active stripe count.
	CapacityError = core.CapacityError
)

// Sentinel errors re-exported from core.
var (
	ErrExhausted       = core.ErrExhausted
	ErrCapacity        = core.ErrCapacity
	ErrInvalidCapacity = core.ErrInvalidCapacity
)

// NoLimit marks an unbounded counting sampler.
const NoLimit = core.NoLimit

// Run phases.
const (
	Uninitialized = core.Uninitialized
	Initialized   = core.Initialized
	Training      = core.Training
	Done          = core.Done
	Failed        = core.Failed
)

// Counters.

// NewCounter returns an empty mean counter of precision F.
func NewCounter[F constraints.Float]() *core.Counter[F] {
	return core.NewCounter[F]()
}

// NewRMSECounter returns an empty RMSE counter of precision F.
func NewRMSECounter[F constraints.Float]() *core.RMSECounter[F] {
	return core.NewRMSECounter[F]()
}

// Batching and training.

// SampleBatch draws up to maxSize examples from s.
func SampleBatch[E any](s Sampler[E], maxSize int) ([]E, error) {
	return core.SampleBatch(s, maxSize)
}

// MapBatches calls fn with successive batches sized to learner until s is exhausted.
func MapBatches[E any](ctx context.Context, fn func([]E) error, s Sampler[E], learner Capacity) error {
	return core.MapBatches(ctx, fn, s, learner)
}

// CollectBatchErrors runs fn over every batch and folds each measurement into its counter.
func CollectBatchErrors[E any, F constraints.Float](ctx context.Context, fn func([]E) error, s Sampler[E], learner Capacity, pairs []Measured[E, F]) ([]Measured[E, F], error) {
	return core.CollectBatchErrors(ctx, fn, s, learner, pairs)
}

// Evaluate reads every counter in pairs.
func Evaluate[E any, F constraints.Float](pairs []Measured[E, F]) []Evaluation[F] {
	return core.Evaluate(pairs)
}

// Train initializes trainer for learner and trains it until s is exhausted.
func Train[E any](ctx context.Context, s Sampler[E], trainer Trainer[E], learner Learner[E]) error {
	return core.Train(ctx, s, trainer, learner)
}

// NewRun creates an uninitialized training run.
func NewRun[E any](s Sampler[E], trainer Trainer[E], learner Learner[E]) *Run[E] {
	return core.NewRun(s, trainer, learner)
}

// Context helpers.

// WithHooks attaches typed hooks to the context.
func WithHooks[E any](ctx context.Context, hooks Hooks[E]) context.Context {
	return core.WithHooks(ctx, hooks)
}

// WithBatchConfig attaches a BatchConfig built from opts to the context.
func WithBatchConfig(ctx context.Context, opts ...BatchOption) context.Context {
	return core.WithConfig(ctx, core.NewBatchConfig(opts...))
}

// WithMaxBatchSize caps every batch at size examples.
func WithMaxBatchSize(size int) BatchOption {
	return core.WithMaxBatchSize(size)
}

// WithRespectUpdateBoundary bounds training batches by the trainer's
// InputsUntilUpdate.
func WithRespectUpdateBoundary(respect bool) BatchOption {
	return core.WithRespectUpdateBoundary(respect)
}

// Striping.

// Ranges returns the ranges of every active stripe of obj.
func Ranges(obj Striped) []Range {
	return core.Ranges(obj)
}

// ResolveStripes resolves the range of every ref in one call.
func ResolveStripes(refs ...StripeRef) []Range {
	return core.ResolveStripes(refs...)
}
