// Package core defines the core abstractions for iterative batch training:
// samplers that produce examples, striped objects that hold a batch in
// fixed-capacity slots, error counters that accumulate online metrics, and
// the protocol that drives a trainer over a learner batch by batch.
//
// Everything here is synchronous. A Sampler, a Striped object and an
// ErrorCounter are owned by a single logical pass; running several passes
// over the same value concurrently requires external synchronization.
//
// NOTE: this package should have no dependencies outside the standard
// library and golang.org/x/exp, including other train packages.
package core

// NoLimit marks a CountingSampler without a maximum.
const NoLimit = -1

// Sampler produces an ordered, possibly infinite sequence of examples.
//
// Next must only be called while Exhausted reports false; on an exhausted
// sampler it returns ErrExhausted and never a stale value. Exhausted is
// monotone: once it reports true for a bounded sampler it keeps doing so.
type Sampler[E any] interface {
	Next() (E, error)
	Exhausted() bool
}

// FunctionSampler wraps an example-producing callback. It is never exhausted.
type FunctionSampler[E any] struct {
	fn func() (E, error)
}

// NewFunctionSampler creates a FunctionSampler around fn.
func NewFunctionSampler[E any](fn func() (E, error)) *FunctionSampler[E] {
	if fn == nil {
		panic("nil sampler function")
	}
	return &FunctionSampler[E]{fn: fn}
}

// Next invokes the stored callback.
func (s *FunctionSampler[E]) Next() (E, error) {
	return s.fn()
}

// Exhausted always reports false.
func (s *FunctionSampler[E]) Exhausted() bool {
	return false
}

// CountingSampler counts productions of an inner sampler and reports
// exhaustion once an optional maximum has been reached.
//
// Next increments the count and then delegates to the inner sampler, so the
// count includes a production that subsequently failed.
type CountingSampler[E any] struct {
	inner    Sampler[E]
	produced int
	max      int
}

// NewCountingSampler wraps inner with a produced-count and a maximum.
// Pass NoLimit (or any negative max) for an unbounded sampler.
func NewCountingSampler[E any](inner Sampler[E], max int) *CountingSampler[E] {
	if inner == nil {
		panic("nil inner sampler")
	}
	if max < 0 {
		max = NoLimit
	}
	return &CountingSampler[E]{inner: inner, max: max}
}

// NewCountingFunctionSampler composes counting over function production.
func NewCountingFunctionSampler[E any](fn func() (E, error), max int) *CountingSampler[E] {
	return NewCountingSampler[E](NewFunctionSampler(fn), max)
}

// Next increments the produced count, then produces from the inner sampler.
func (s *CountingSampler[E]) Next() (E, error) {
	if s.Exhausted() {
		var zero E
		return zero, ErrExhausted
	}
	s.produced++
	return s.inner.Next()
}

// Exhausted reports whether the maximum has been reached or the inner
// sampler ran dry.
func (s *CountingSampler[E]) Exhausted() bool {
	if s.max != NoLimit && s.produced >= s.max {
		return true
	}
	return s.inner.Exhausted()
}

// Produced returns how many examples have been requested so far.
func (s *CountingSampler[E]) Produced() int {
	return s.produced
}

// Max returns the maximum, or NoLimit.
func (s *CountingSampler[E]) Max() int {
	return s.max
}

// SampleBatch draws up to maxSize examples from s, stopping early when s
// becomes exhausted. A batch shorter than maxSize implies s is exhausted when
// SampleBatch returns, unless an error is returned alongside the examples
// drawn before the failure.
func SampleBatch[E any](s Sampler[E], maxSize int) ([]E, error) {
	if maxSize <= 0 {
		return []E{}, nil
	}
	batch := make([]E, 0, maxSize)
	for len(batch) < maxSize && !s.Exhausted() {
		example, err := s.Next()
		if err != nil {
			return batch, err
		}
		batch = append(batch, example)
	}
	return batch, nil
}
