package trainerrors

import (
	"context"
	"math"
	"time"

	"github.com/lguimbarda/min-train/train/core"
	"github.com/pkg/errors"
)

// ErrMaxRetries is returned when a batch still fails after every retry.
var ErrMaxRetries = errors.New("max retries exceeded")

// Recover wraps t so that a panic in Initialize or TrainBatch is returned as
// a core.ErrPanic carrying the recovered value and a cleaned stack.
func Recover[E any](t core.Trainer[E]) core.Trainer[E] {
	return &recovering[E]{Trainer: t}
}

type recovering[E any] struct {
	core.Trainer[E]
}

func (r *recovering[E]) Initialize(ctx context.Context, learner core.Learner[E]) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = core.NewPanicError(v)
		}
	}()
	return r.Trainer.Initialize(ctx, learner)
}

func (r *recovering[E]) TrainBatch(ctx context.Context, batch []E, learner core.Learner[E]) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = core.NewPanicError(v)
		}
	}()
	return r.Trainer.TrainBatch(ctx, batch, learner)
}

// Annotate wraps t so that every TrainBatch failure is passed through wrap
// before it reaches the run.
func Annotate[E any](t core.Trainer[E], wrap func(batch []E, err error) error) core.Trainer[E] {
	return &annotating[E]{Trainer: t, wrap: wrap}
}

type annotating[E any] struct {
	core.Trainer[E]
	wrap func([]E, error) error
}

func (a *annotating[E]) TrainBatch(ctx context.Context, batch []E, learner core.Learner[E]) error {
	if err := a.Trainer.TrainBatch(ctx, batch, learner); err != nil {
		return a.wrap(batch, err)
	}
	return nil
}

// BackoffStrategy defines how to calculate delay between retries.
type BackoffStrategy func(attempt int) time.Duration

// ConstantBackoff returns a BackoffStrategy that always waits the same duration.
func ConstantBackoff(delay time.Duration) BackoffStrategy {
	return func(attempt int) time.Duration {
		return delay
	}
}

// ExponentialBackoff returns a BackoffStrategy that doubles delay each attempt.
// The delay is capped at maxDelay if provided (use 0 for no cap).
func ExponentialBackoff(initialDelay, maxDelay time.Duration) BackoffStrategy {
	return func(attempt int) time.Duration {
		delay := initialDelay * time.Duration(math.Pow(2, float64(attempt)))
		if maxDelay > 0 && delay > maxDelay {
			return maxDelay
		}
		return delay
	}
}

// Retry wraps t so that a failed TrainBatch is attempted again, up to
// maxRetries more times, while shouldRetry approves the error. A nil
// shouldRetry retries every error and a nil backoff retries immediately.
//
// The batch is re-sent unchanged. Use Retry only with trainers whose failed
// TrainBatch calls leave the learner untouched, since completed work is never
// rolled back.
func Retry[E any](t core.Trainer[E], maxRetries int, backoff BackoffStrategy, shouldRetry func(err error, attempt int) bool) core.Trainer[E] {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if shouldRetry == nil {
		shouldRetry = func(error, int) bool { return true }
	}
	return &retrying[E]{Trainer: t, max: maxRetries, backoff: backoff, should: shouldRetry}
}

type retrying[E any] struct {
	core.Trainer[E]
	max     int
	backoff BackoffStrategy
	should  func(error, int) bool
}

func (r *retrying[E]) TrainBatch(ctx context.Context, batch []E, learner core.Learner[E]) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = r.Trainer.TrainBatch(ctx, batch, learner); err == nil {
			return nil
		}
		if !r.should(err, attempt) {
			return err
		}
		if attempt >= r.max {
			break
		}
		if r.backoff != nil {
			timer := time.NewTimer(r.backoff(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return errors.Wrap(ctx.Err(), "retry interrupted")
			case <-timer.C:
			}
		}
	}
	return &RetryError{Attempts: r.max + 1, Err: err}
}

// RetryError reports a batch that failed on every attempt.
type RetryError struct {
	Attempts int
	Err      error
}

func (e *RetryError) Error() string {
	return errors.Wrapf(e.Err, "%s after %d attempts", ErrMaxRetries, e.Attempts).Error()
}

// Is reports ErrMaxRetries.
func (e *RetryError) Is(target error) bool { return target == ErrMaxRetries }

func (e *RetryError) Unwrap() error { return e.Err }
