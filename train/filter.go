package train

import (
	"math/rand"

	"github.com/lguimbarda/min-train/train/core"
)

// Where returns a sampler that produces only the examples of s for which
// keep returns true. Errors from s pass through unfiltered.
//
// Exhausted reads ahead until it finds a kept example, so it may draw many
// examples from s. On an unbounded s with no kept examples it never returns.
func Where[E any](s Sampler[E], keep func(E) bool) Sampler[E] {
	return &filtered[E]{inner: s, keep: keep}
}

// Skip returns a sampler that discards the first n examples of s.
func Skip[E any](s Sampler[E], n int) Sampler[E] {
	seen := 0
	return Where(s, func(E) bool {
		seen++
		return seen > n
	})
}

// EveryNth returns a sampler that produces every nth example of s, starting
// with the first. Values of n below 1 are treated as 1.
func EveryNth[E any](s Sampler[E], n int) Sampler[E] {
	if n < 1 {
		n = 1
	}
	i := -1
	return Where(s, func(E) bool {
		i++
		return i%n == 0
	})
}

// RandomSample returns a sampler that keeps each example of s independently
// with the given probability, drawing from rng.
func RandomSample[E any](s Sampler[E], probability float64, rng *rand.Rand) Sampler[E] {
	return Where(s, func(E) bool {
		return probability >= 1 || (probability > 0 && rng.Float64() < probability)
	})
}

type filtered[E any] struct {
	inner Sampler[E]
	keep  func(E) bool

	peeked bool
	value  E
	err    error
}

func (f *filtered[E]) Exhausted() bool {
	for !f.peeked {
		if f.inner.Exhausted() {
			return true
		}
		v, err := f.inner.Next()
		if err != nil || f.keep(v) {
			f.value, f.err, f.peeked = v, err, true
		}
	}
	return false
}

func (f *filtered[E]) Next() (E, error) {
	var zero E
	if f.Exhausted() {
		return zero, core.ErrExhausted
	}
	v, err := f.value, f.err
	f.value, f.err, f.peeked = zero, nil, false
	if err != nil {
		return zero, err
	}
	return v, nil
}

// Shuffle returns a sampler that reorders s through a buffer of the given
// size: the buffer is filled from s and each draw takes a random element
// from it, refilling the freed slot. The output is a full random permutation
// of s when size is at least the number of examples in s.
func Shuffle[E any](s Sampler[E], size int, rng *rand.Rand) Sampler[E] {
	if size < 1 {
		size = 1
	}
	return &shuffled[E]{inner: s, size: size, rng: rng, buf: make([]E, 0, size)}
}

type shuffled[E any] struct {
	inner Sampler[E]
	size  int
	rng   *rand.Rand
	buf   []E
	err   error
}

// fill tops the buffer up from the inner sampler. An inner error is held
// until the examples buffered before it have been drawn.
func (s *shuffled[E]) fill() {
	for s.err == nil && len(s.buf) < s.size && !s.inner.Exhausted() {
		v, err := s.inner.Next()
		if err != nil {
			s.err = err
			return
		}
		s.buf = append(s.buf, v)
	}
}

func (s *shuffled[E]) Exhausted() bool {
	s.fill()
	return len(s.buf) == 0 && s.err == nil
}

func (s *shuffled[E]) Next() (E, error) {
	var zero E
	s.fill()
	if len(s.buf) == 0 {
		if s.err != nil {
			err := s.err
			s.err = nil
			return zero, err
		}
		return zero, core.ErrExhausted
	}
	i := s.rng.Intn(len(s.buf))
	v := s.buf[i]
	last := len(s.buf) - 1
	s.buf[i] = s.buf[last]
	s.buf[last] = zero
	s.buf = s.buf[:last]
	return v, nil
}
