// Package sql provides samplers over database/sql queries.
// Each row of a result set becomes one training example.
package sql

import (
	"context"
	"database/sql"

	"github.com/lguimbarda/min-train/train/core"
	"github.com/pkg/errors"
)

// Scanner is a function that scans a row into an example.
type Scanner[E any] func(*sql.Rows) (E, error)

// RowSampler produces one example per row of a query result.
//
// It looks one row ahead so Exhausted can answer without losing data. A scan
// or iteration error is returned by the Next call that would have produced
// the failing row; the sampler is exhausted after that. The underlying rows
// are closed as soon as the result set ends or fails.
type RowSampler[E any] struct {
	rows    *sql.Rows
	scanner Scanner[E]

	peeked bool
	value  E
	err    error
	done   bool
}

var _ core.Sampler[int] = (*RowSampler[int])(nil)

// Query executes query and returns a sampler over its rows.
func Query[E any](ctx context.Context, db *sql.DB, query string, scanner Scanner[E], args ...any) (*RowSampler[E], error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "query %q", query)
	}
	return &RowSampler[E]{rows: rows, scanner: scanner}, nil
}

// Exhausted reports whether every row has been produced. It may advance the
// underlying cursor by one row.
func (s *RowSampler[E]) Exhausted() bool {
	if s.peeked {
		return false
	}
	if s.done {
		return true
	}
	if !s.rows.Next() {
		s.finish()
		if s.err != nil {
			s.peeked = true
			return false
		}
		return true
	}
	s.value, s.err = s.scanner(s.rows)
	if s.err != nil {
		s.err = errors.Wrap(s.err, "scan row")
		s.finish()
	}
	s.peeked = true
	return false
}

// Next returns the next row's example.
func (s *RowSampler[E]) Next() (E, error) {
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

func (s *RowSampler[E]) finish() {
	s.done = true
	if err := s.rows.Err(); err != nil && s.err == nil {
		s.err = errors.Wrap(err, "iterate rows")
	}
	if err := s.rows.Close(); err != nil && s.err == nil {
		s.err = errors.Wrap(err, "close rows")
	}
}

// Close releases the result set early. It is safe to call more than once.
func (s *RowSampler[E]) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	return s.rows.Close()
}

// ScanMap scans a row into a map keyed by column name.
func ScanMap(rows *sql.Rows) (map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([]any, len(cols))
	valuePtrs := make([]any, len(cols))
	for i := range values {
		valuePtrs[i] = &values[i]
	}
	if err := rows.Scan(valuePtrs...); err != nil {
		return nil, err
	}
	result := make(map[string]any, len(cols))
	for i, col := range cols {
		result[col] = values[i]
	}
	return result, nil
}

// ScanFloats scans a row of numeric columns into a float64 slice.
func ScanFloats(rows *sql.Rows) ([]float64, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(cols))
	valuePtrs := make([]any, len(cols))
	for i := range values {
		valuePtrs[i] = &values[i]
	}
	if err := rows.Scan(valuePtrs...); err != nil {
		return nil, err
	}
	return values, nil
}
