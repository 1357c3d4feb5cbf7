package train

import (
	"context"

	"github.com/lguimbarda/min-train/train/core"
)

// FromSlice creates a Sampler that produces each element of items in order.
// It is exhausted once every element has been produced.
func FromSlice[E any](items []E) Sampler[E] {
	return &sliceSampler[E]{items: items}
}

type sliceSampler[E any] struct {
	items []E
	next  int
}

func (s *sliceSampler[E]) Next() (E, error) {
	if s.Exhausted() {
		var zero E
		return zero, core.ErrExhausted
	}
	item := s.items[s.next]
	s.next++
	return item, nil
}

func (s *sliceSampler[E]) Exhausted() bool {
	return s.next >= len(s.items)
}

// FromFunc creates a never-exhausted Sampler around an infallible generator.
func FromFunc[E any](fn func() E) Sampler[E] {
	return core.NewFunctionSampler(func() (E, error) {
		return fn(), nil
	})
}

// FromFallibleFunc creates a never-exhausted Sampler around a generator that
// may fail.
func FromFallibleFunc[E any](fn func() (E, error)) Sampler[E] {
	return core.NewFunctionSampler(fn)
}

// Repeat creates a Sampler that produces value n times.
// If n is negative, the sampler is never exhausted.
func Repeat[E any](value E, n int) *core.CountingSampler[E] {
	return core.NewCountingFunctionSampler(func() (E, error) {
		return value, nil
	}, n)
}

// Generate creates a Sampler that produces n examples from fn, counting
// them as it goes. If n is negative, the sampler is never exhausted.
func Generate[E any](fn func() (E, error), n int) *core.CountingSampler[E] {
	return core.NewCountingFunctionSampler(fn, n)
}

// Take wraps s so that it reports exhaustion after n more productions, or
// earlier if s runs dry. It is the usual way to stop a run early.
func Take[E any](s Sampler[E], n int) *core.CountingSampler[E] {
	if n < 0 {
		n = 0
	}
	return core.NewCountingSampler(s, n)
}

// UntilDone wraps s so that it reports exhaustion once ctx is done. The
// batch in progress still completes; the run stops before the next draw.
// A sampler made by FromChannel also stops waiting on an idle channel when
// ctx is done. Other samplers that block are not interrupted.
func UntilDone[E any](ctx context.Context, s Sampler[E]) Sampler[E] {
	return &doneSampler[E]{ctx: ctx, inner: s}
}

type doneSampler[E any] struct {
	ctx   context.Context
	inner Sampler[E]
}

func (s *doneSampler[E]) Next() (E, error) {
	if s.Exhausted() {
		var zero E
		return zero, core.ErrExhausted
	}
	return s.inner.Next()
}

func (s *doneSampler[E]) Exhausted() bool {
	if s.ctx.Err() != nil {
		return true
	}
	if c, ok := s.inner.(*chanSampler[E]); ok {
		return c.exhaustedUntil(s.ctx.Done())
	}
	return s.inner.Exhausted()
}

// FromChannel creates a Sampler that produces values received from ch.
// It is exhausted once ch is closed and drained. Exhausted blocks until a
// value arrives or ch is closed, so the sampler can answer without losing
// the value it looked ahead at.
func FromChannel[E any](ch <-chan E) Sampler[E] {
	return &chanSampler[E]{ch: ch}
}

type chanSampler[E any] struct {
	ch     <-chan E
	peeked bool
	value  E
	closed bool
}

func (s *chanSampler[E]) Exhausted() bool {
	return s.exhaustedUntil(nil)
}

// exhaustedUntil is Exhausted that gives up once done is closed. Giving up
// keeps the channel open for a later call.
func (s *chanSampler[E]) exhaustedUntil(done <-chan struct{}) bool {
	if s.peeked {
		return false
	}
	if s.closed {
		return true
	}
	select {
	case v, ok := <-s.ch:
		if !ok {
			s.closed = true
			return true
		}
		s.value, s.peeked = v, true
		return false
	case <-done:
		return true
	}
}

func (s *chanSampler[E]) Next() (E, error) {
	if s.Exhausted() {
		var zero E
		return zero, core.ErrExhausted
	}
	v := s.value
	var zero E
	s.value, s.peeked = zero, false
	return v, nil
}

// Concat creates a Sampler that produces every example of each sampler in
// turn. It is exhausted once all of them are.
func Concat[E any](samplers ...Sampler[E]) Sampler[E] {
	return &concatSampler[E]{samplers: samplers}
}

type concatSampler[E any] struct {
	samplers []Sampler[E]
}

func (s *concatSampler[E]) Exhausted() bool {
	for len(s.samplers) > 0 && s.samplers[0].Exhausted() {
		s.samplers = s.samplers[1:]
	}
	return len(s.samplers) == 0
}

func (s *concatSampler[E]) Next() (E, error) {
	if s.Exhausted() {
		var zero E
		return zero, core.ErrExhausted
	}
	return s.samplers[0].Next()
}
