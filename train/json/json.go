// Package json provides samplers over streams of JSON values, such as
// JSON-lines files. Each decoded value becomes one training example.
package json

import (
	"encoding/json"
	"io"

	"github.com/lguimbarda/min-train/train/core"
	"github.com/pkg/errors"
)

// DecoderOption configures the underlying decoder.
type DecoderOption func(*json.Decoder)

// WithDisallowUnknownFields rejects objects with fields the example type does
// not declare.
func WithDisallowUnknownFields() DecoderOption {
	return func(d *json.Decoder) {
		d.DisallowUnknownFields()
	}
}

// WithUseNumber decodes numbers into json.Number instead of float64.
func WithUseNumber() DecoderOption {
	return func(d *json.Decoder) {
		d.UseNumber()
	}
}

// Sampler decodes consecutive JSON values of type E.
//
// A value that is well-formed but does not fit E is reported by the Next call
// that reaches it and decoding resumes after it. Malformed input ends the
// sampler.
type Sampler[E any] struct {
	dec   *json.Decoder
	index int

	peeked bool
	value  E
	err    error
	done   bool
}

var _ core.Sampler[map[string]any] = (*Sampler[map[string]any])(nil)

// Lines returns a sampler over the JSON values in r.
func Lines[E any](r io.Reader, opts ...DecoderOption) *Sampler[E] {
	dec := json.NewDecoder(r)
	for _, opt := range opts {
		opt(dec)
	}
	return &Sampler[E]{dec: dec}
}

// Exhausted reports whether every value has been produced. It may decode one
// value ahead.
func (s *Sampler[E]) Exhausted() bool {
	if s.peeked {
		return false
	}
	if s.done {
		return true
	}
	var value E
	err := s.dec.Decode(&value)
	switch {
	case err == io.EOF:
		s.done = true
		return true
	case err != nil:
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			s.done = true
		}
		s.err = errors.Wrapf(err, "value %d", s.index)
	default:
		s.value = value
	}
	s.index++
	s.peeked = true
	return false
}

// Next returns the next decoded value.
func (s *Sampler[E]) Next() (E, error) {
	var zero E
	if s.Exhausted() {
		return zero, core.ErrExhausted
	}
	value, err := s.value, s.err
	s.value, s.err, s.peeked = zero, nil, false
	if err != nil {
		return zero, err
	}
	return value, nil
}
