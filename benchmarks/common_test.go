// Package benchmarks compares min-train's batching and training loop
// against popular Go collection and stream libraries.
package benchmarks

import (
	"context"
)

// Test data sizes
const (
	SmallSize  = 100
	MediumSize = 1_000
	LargeSize  = 10_000
)

// Batch widths
const (
	NarrowBatch = 8
	WideBatch   = 256
)

var ctx = context.Background()

// generateInts creates a slice of integers for benchmarking.
func generateInts(n int) []int {
	data := make([]int, n)
	for i := range data {
		data[i] = i
	}
	return data
}

// square returns the square of an integer.
func square(x int) int {
	return x * x
}

// add returns the sum of two integers.
func add(a, b int) int {
	return a + b
}

// sumSquares is the per-batch work every benchmark performs.
func sumSquares(batch []int) int {
	sum := 0
	for _, x := range batch {
		sum += square(x)
	}
	return sum
}

// capacity is a learner bound that holds no data.
type capacity int

func (c capacity) MaxStripes() int { return int(c) }

// accumulator is a learner that keeps a running total of squared inputs.
type accumulator struct {
	width int
	total int
}

func (a *accumulator) MaxStripes() int { return a.width }

func (a *accumulator) SetInput(batch []int) error {
	a.total += sumSquares(batch)
	return nil
}
