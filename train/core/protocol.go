package core

import (
	"context"
	"fmt"
)

// Capacity is anything that reports how many examples it processes at once.
type Capacity interface {
	MaxStripes() int
}

// Learner is the computational unit being trained.
type Learner[E any] interface {
	Capacity

	// SetInput pushes samples into the learner's input slots. samples is
	// always a slice, even for a single example, and never longer than
	// MaxStripes.
	SetInput(samples []E) error
}

// Trainer holds algorithm state and updates a Learner batch by batch.
type Trainer[E any] interface {
	// Initialize prepares trainer state for learner, such as accumulators
	// sized to its parameters and the learner's stripe capacity. It is called
	// at the start of every Train and must tolerate being called again.
	Initialize(ctx context.Context, learner Learner[E]) error

	// TrainBatch performs one parameter-update step for batch.
	TrainBatch(ctx context.Context, batch []E, learner Learner[E]) error

	// InputsUntilUpdate is the number of additional inputs the trainer can
	// absorb before an internal update is forced, or 0 when it has no such
	// bound. It is advisory; see BatchConfig.RespectUpdateBoundary.
	InputsUntilUpdate() int
}

// InitializeTrainer prepares trainer for learner.
func InitializeTrainer[E any](ctx context.Context, trainer Trainer[E], learner Learner[E]) error {
	return trainer.Initialize(ctx, learner)
}

// TrainBatch performs one update step of trainer on learner. It fires no
// hooks; batch hooks fire only inside Train and Run.
func TrainBatch[E any](ctx context.Context, batch []E, trainer Trainer[E], learner Learner[E]) error {
	return trainer.TrainBatch(ctx, batch, learner)
}

// Train initializes trainer for learner and then trains it on batches drawn
// from s until s is exhausted. The first failure aborts the loop and is
// returned; trainer and learner are left as the failing step left them.
func Train[E any](ctx context.Context, s Sampler[E], trainer Trainer[E], learner Learner[E]) error {
	return NewRun(s, trainer, learner).Execute(ctx)
}

// Phase is the state of a Run.
type Phase int

const (
	Uninitialized Phase = iota
	Initialized
	Training
	Done
	Failed
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Training:
		return "training"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Run is one training run of a trainer over a learner, fed by a sampler.
// It records how far the run got.
type Run[E any] struct {
	sampler Sampler[E]
	trainer Trainer[E]
	learner Learner[E]

	phase    Phase
	batches  int
	examples int
	err      error
}

// NewRun creates an uninitialized run.
func NewRun[E any](s Sampler[E], trainer Trainer[E], learner Learner[E]) *Run[E] {
	return &Run[E]{sampler: s, trainer: trainer, learner: learner}
}

// Initialize binds the trainer to the learner and moves the run to
// Initialized. It may be called again to re-bind before a new Execute.
func (r *Run[E]) Initialize(ctx context.Context) error {
	if err := InitializeTrainer(ctx, r.trainer, r.learner); err != nil {
		r.phase, r.err = Failed, err
		newHookInvoker[E](ctx).fail(err)
		return err
	}
	r.phase, r.err = Initialized, nil
	r.batches, r.examples = 0, 0
	return nil
}

// Execute initializes the trainer and trains until the sampler is exhausted.
func (r *Run[E]) Execute(ctx context.Context) error {
	if err := r.Initialize(ctx); err != nil {
		return err
	}
	r.phase = Training

	respect := respectUpdateBoundary(ctx)
	size := func() (int, error) {
		k, err := capacityOf(ctx, r.learner)
		if err != nil {
			return 0, err
		}
		if respect {
			if n := r.trainer.InputsUntilUpdate(); n > 0 && n < k {
				k = n
			}
		}
		return k, nil
	}

	_, _, err := pass(ctx, r.sampler, size, func(batch []E) error {
		if err := TrainBatch(ctx, batch, r.trainer, r.learner); err != nil {
			return err
		}
		r.batches++
		r.examples += len(batch)
		return nil
	})
	if err != nil {
		r.phase, r.err = Failed, err
		return err
	}
	r.phase = Done
	return nil
}

// Phase returns the current phase.
func (r *Run[E]) Phase() Phase { return r.phase }

// Batches returns the number of batches trained successfully.
func (r *Run[E]) Batches() int { return r.batches }

// Examples returns the number of examples in successfully trained batches.
func (r *Run[E]) Examples() int { return r.examples }

// Err returns the error that moved the run to Failed, if any.
func (r *Run[E]) Err() error { return r.err }

// TrainerFuncs adapts plain functions to the Trainer interface.
// A nil InitializeFunc is a no-op, a nil TrainBatchFunc only pushes the batch
// into the learner, and a nil InputsUntilUpdateFunc reports 0.
type TrainerFuncs[E any] struct {
	InitializeFunc        func(ctx context.Context, learner Learner[E]) error
	TrainBatchFunc        func(ctx context.Context, batch []E, learner Learner[E]) error
	InputsUntilUpdateFunc func() int
}

func (t TrainerFuncs[E]) Initialize(ctx context.Context, learner Learner[E]) error {
	if t.InitializeFunc == nil {
		return nil
	}
	return t.InitializeFunc(ctx, learner)
}

func (t TrainerFuncs[E]) TrainBatch(ctx context.Context, batch []E, learner Learner[E]) error {
	if t.TrainBatchFunc == nil {
		return learner.SetInput(batch)
	}
	return t.TrainBatchFunc(ctx, batch, learner)
}

func (t TrainerFuncs[E]) InputsUntilUpdate() int {
	if t.InputsUntilUpdateFunc == nil {
		return 0
	}
	return t.InputsUntilUpdateFunc()
}
