package core

import (
	"math"

	"golang.org/x/exp/constraints"
)

// ErrorCounter accumulates (error, count) pairs from successive batches.
//
// Error returns ok == false, with value 0 and n == 0, while no observations
// have been added. An empty counter is not a failure.
type ErrorCounter[F constraints.Float] interface {
	Add(err F, n int)
	Reset()
	Error() (value F, n int, ok bool)
	Sum() F
	Observations() int
}

// Counter derives the mean of the accumulated errors.
//
// The type parameter fixes the numeric precision of the running sum; the
// zero value is an empty counter ready for use.
type Counter[F constraints.Float] struct {
	sum F
	n   int
}

// NewCounter returns an empty mean counter of precision F.
func NewCounter[F constraints.Float]() *Counter[F] {
	return &Counter[F]{}
}

// Add folds in the cumulative error of one batch and the number of
// observations it covers. n must not be negative.
func (c *Counter[F]) Add(err F, n int) {
	if n < 0 {
		panic("negative observation count")
	}
	c.sum += err
	c.n += n
}

// Reset returns the counter to (0, 0).
func (c *Counter[F]) Reset() {
	c.sum = 0
	c.n = 0
}

// Error returns (sum/n, n, true), or (0, 0, false) when n is zero.
func (c *Counter[F]) Error() (F, int, bool) {
	if c.n == 0 {
		return 0, 0, false
	}
	return c.sum / F(c.n), c.n, true
}

// Sum returns the accumulated error.
func (c *Counter[F]) Sum() F { return c.sum }

// Observations returns the accumulated observation count.
func (c *Counter[F]) Observations() int { return c.n }

// RMSECounter derives the square root of the mean of the accumulated
// errors. Callers add squared errors.
type RMSECounter[F constraints.Float] struct {
	Counter[F]
}

// NewRMSECounter returns an empty RMSE counter of precision F.
func NewRMSECounter[F constraints.Float]() *RMSECounter[F] {
	return &RMSECounter[F]{}
}

// Error returns (sqrt(mean), n, true), or (0, 0, false) when the mean is
// undefined.
func (c *RMSECounter[F]) Error() (F, int, bool) {
	mean, n, ok := c.Counter.Error()
	if !ok {
		return 0, 0, false
	}
	return F(math.Sqrt(float64(mean))), n, true
}
