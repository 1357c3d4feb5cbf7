// Package csv provides samplers over CSV input.
// Each record becomes one training example.
package csv

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/lguimbarda/min-train/train/core"
	"github.com/pkg/errors"
)

// ReaderOption configures a CSV reader.
type ReaderOption func(*csv.Reader)

// WithComma sets the field delimiter (default is ',').
func WithComma(comma rune) ReaderOption {
	return func(r *csv.Reader) {
		r.Comma = comma
	}
}

// WithComment sets the comment character. Lines beginning with this
// character are ignored.
func WithComment(comment rune) ReaderOption {
	return func(r *csv.Reader) {
		r.Comment = comment
	}
}

// WithFieldsPerRecord sets the expected number of fields per record.
// If positive, each record must have exactly that many fields.
// If 0, the number is set to the first record's field count.
// If negative, no check is made and records may have variable fields.
func WithFieldsPerRecord(n int) ReaderOption {
	return func(r *csv.Reader) {
		r.FieldsPerRecord = n
	}
}

// WithTrimLeadingSpace trims leading whitespace from fields.
func WithTrimLeadingSpace(trim bool) ReaderOption {
	return func(r *csv.Reader) {
		r.TrimLeadingSpace = trim
	}
}

// Parser converts one CSV record into an example.
type Parser[E any] func(record []string) (E, error)

// Sampler produces one example per CSV record.
//
// A malformed record is reported by the Next call that reaches it and reading
// continues with the following record. Any other read error ends the sampler.
type Sampler[E any] struct {
	reader *csv.Reader
	parse  Parser[E]
	header []string
	line   int

	peeked bool
	value  E
	err    error
	done   bool
}

var _ core.Sampler[[]string] = (*Sampler[[]string])(nil)

// Decode returns a sampler that parses each record of r with parse.
func Decode[E any](r io.Reader, parse Parser[E], opts ...ReaderOption) *Sampler[E] {
	reader := csv.NewReader(r)
	for _, opt := range opts {
		opt(reader)
	}
	return &Sampler[E]{reader: reader, parse: parse}
}

// Records returns a sampler over the raw records of r.
func Records(r io.Reader, opts ...ReaderOption) *Sampler[[]string] {
	return Decode(r, func(record []string) ([]string, error) { return record, nil }, opts...)
}

// Floats returns a sampler that parses every field of each record as a float64.
func Floats(r io.Reader, opts ...ReaderOption) *Sampler[[]float64] {
	return Decode(r, ParseFloats, opts...)
}

// ParseFloats parses every field of record as a float64.
func ParseFloats(record []string) ([]float64, error) {
	values := make([]float64, len(record))
	for i, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "field %d", i)
		}
		values[i] = v
	}
	return values, nil
}

// SkipHeader consumes the first record and keeps it as the header. It must be
// called before the first draw.
func (s *Sampler[E]) SkipHeader() (*Sampler[E], error) {
	record, err := s.reader.Read()
	if err == io.EOF {
		s.done = true
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	s.line++
	s.header = record
	return s, nil
}

// Header returns the record consumed by SkipHeader, if any.
func (s *Sampler[E]) Header() []string { return s.header }

// Exhausted reports whether every record has been produced. It may read one
// record ahead.
func (s *Sampler[E]) Exhausted() bool {
	if s.peeked {
		return false
	}
	if s.done {
		return true
	}
	record, err := s.reader.Read()
	switch {
	case err == io.EOF:
		s.done = true
		return true
	case err != nil:
		var parseErr *csv.ParseError
		if !errors.As(err, &parseErr) {
			s.done = true
		}
		s.err = err
	default:
		s.line++
		s.value, s.err = s.parse(record)
		if s.err != nil {
			s.err = errors.Wrapf(s.err, "record %d", s.line)
		}
	}
	s.peeked = true
	return false
}

// Next returns the next record's example.
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
