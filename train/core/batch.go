package core

import (
	"context"

	"golang.org/x/exp/constraints"
)

// Measurer computes the cumulative error of a processed batch and the number
// of observations that error covers.
type Measurer[E any, F constraints.Float] func(batch []E) (err F, n int)

// Measured pairs an ErrorCounter with the Measurer that feeds it.
type Measured[E any, F constraints.Float] struct {
	Counter ErrorCounter[F]
	Measure Measurer[E, F]
}

// Evaluation is the result of ErrorCounter.Error captured after a pass.
type Evaluation[F constraints.Float] struct {
	Value F
	N     int
	OK    bool
}

// pass drains s in batches. size is consulted before every draw, so the
// bound may change between batches. Every failure is returned as a
// *BatchError naming the batch it happened in.
func pass[E any](ctx context.Context, s Sampler[E], size func() (int, error), fn func(batch []E) error) (batches, examples int, err error) {
	hooks := newHookInvoker[E](ctx)
	hooks.start()

	fail := func(n int, cause error) (int, int, error) {
		err := &BatchError{Index: batches, Size: n, Err: cause}
		hooks.fail(err)
		return batches, examples, err
	}

	for !s.Exhausted() {
		k, err := size()
		if err != nil {
			return fail(0, err)
		}
		batch, err := SampleBatch(s, k)
		if err != nil {
			return fail(len(batch), err)
		}
		if len(batch) == 0 {
			continue
		}
		hooks.batch(batches, batch)
		if err := fn(batch); err != nil {
			return fail(len(batch), err)
		}
		batches++
		examples += len(batch)
	}

	hooks.complete(batches, examples)
	return batches, examples, nil
}

// capacityOf returns the batch bound for learner, honoring any BatchConfig
// in ctx.
func capacityOf(ctx context.Context, learner Capacity) (int, error) {
	k := learner.MaxStripes()
	if k < 1 {
		return 0, ErrInvalidCapacity
	}
	return effectiveBatchSize(ctx, k), nil
}

// MapBatches calls fn with successive batches drawn from s, each bounded by
// learner.MaxStripes(), until s is exhausted. It decouples how many examples
// a unit can process at once from how examples are sourced.
//
// The first error from s or fn stops the pass and is returned as a *BatchError.
func MapBatches[E any](ctx context.Context, fn func(batch []E) error, s Sampler[E], learner Capacity) error {
	_, _, err := pass(ctx, s, func() (int, error) {
		return capacityOf(ctx, learner)
	}, fn)
	return err
}

// CollectBatchErrors runs fn over every batch of s (typically inference over
// the batch) and then folds each pair's measurement of that batch into its
// counter. Counters are mutated in place and pairs is returned, so several
// metrics can be computed from a single pass without resampling.
//
// fn may be nil when the measurers do all of the work.
func CollectBatchErrors[E any, F constraints.Float](ctx context.Context, fn func(batch []E) error, s Sampler[E], learner Capacity, pairs []Measured[E, F]) ([]Measured[E, F], error) {
	err := MapBatches(ctx, func(batch []E) error {
		if fn != nil {
			if err := fn(batch); err != nil {
				return err
			}
		}
		for _, p := range pairs {
			e, n := p.Measure(batch)
			p.Counter.Add(e, n)
		}
		return nil
	}, s, learner)
	return pairs, err
}

// Evaluate reads the current value of every counter in pairs.
func Evaluate[E any, F constraints.Float](pairs []Measured[E, F]) []Evaluation[F] {
	out := make([]Evaluation[F], len(pairs))
	for i, p := range pairs {
		v, n, ok := p.Counter.Error()
		out[i] = Evaluation[F]{Value: v, N: n, OK: ok}
	}
	return out
}

// ResetCounters resets the counter of every pair, ready for another pass.
func ResetCounters[E any, F constraints.Float](pairs []Measured[E, F]) {
	for _, p := range pairs {
		p.Counter.Reset()
	}
}
