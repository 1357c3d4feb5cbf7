// Package stripe provides reference striped objects: flat buffers whose
// storage is split into equal-width stripes, one per example of a batch.
package stripe

import (
	"github.com/lguimbarda/min-train/train/core"
	"golang.org/x/exp/constraints"
)

// Buffer is flat storage of precision F partitioned into stripes of a fixed
// width. Stripe i occupies [i*width, (i+1)*width).
type Buffer[F constraints.Float] struct {
	width  int
	max    int
	active int
	data   []F
}

var _ core.Striped = (*Buffer[float32])(nil)

// NewBuffer creates a buffer with the given stripe width and capacity.
func NewBuffer[F constraints.Float](width, maxStripes int) *Buffer[F] {
	if width < 0 {
		panic("negative stripe width")
	}
	b := &Buffer[F]{width: width}
	b.SetMaxStripes(maxStripes)
	return b
}

// Width returns the number of elements per stripe.
func (b *Buffer[F]) Width() int { return b.width }

// MaxStripes returns the allocated stripe count.
func (b *Buffer[F]) MaxStripes() int { return b.max }

// SetMaxStripes reallocates storage for n stripes and activates all of them.
// Existing contents are discarded.
func (b *Buffer[F]) SetMaxStripes(n int) {
	if n < 0 {
		panic("negative stripe capacity")
	}
	b.max = n
	b.active = n
	b.data = make([]F, n*b.width)
}

// ActiveStripes returns the number of stripes holding live data.
func (b *Buffer[F]) ActiveStripes() int { return b.active }

// SetActiveStripes sets the number of live stripes.
func (b *Buffer[F]) SetActiveStripes(n int) error {
	if err := core.CheckCapacity(n, b.max); err != nil {
		return err
	}
	b.active = n
	return nil
}

// StripeStart returns the first index of stripe i.
func (b *Buffer[F]) StripeStart(i int) int { return i * b.width }

// StripeEnd returns one past the last index of stripe i.
func (b *Buffer[F]) StripeEnd(i int) int { return (i + 1) * b.width }

// Stripe returns a view of stripe i. It panics unless 0 <= i < ActiveStripes.
func (b *Buffer[F]) Stripe(i int) []F {
	if i < 0 || i >= b.active {
		panic("stripe index out of range")
	}
	return b.data[b.StripeStart(i):b.StripeEnd(i):b.StripeEnd(i)]
}

// Active returns a view of the storage addressed by the active stripes.
func (b *Buffer[F]) Active() []F {
	return b.data[:b.active*b.width]
}

// Data returns the whole backing storage, including inactive stripes.
func (b *Buffer[F]) Data() []F {
	return b.data
}

// Reset zeroes the active stripes.
func (b *Buffer[F]) Reset() {
	clear(b.Active())
}

// Load activates len(rows) stripes and copies each row into its stripe.
// Every row must be exactly Width long.
func (b *Buffer[F]) Load(rows [][]F) error {
	if err := b.SetActiveStripes(len(rows)); err != nil {
		return err
	}
	for i, row := range rows {
		if len(row) != b.width {
			return &WidthError{Stripe: i, Got: len(row), Want: b.width}
		}
		copy(b.Stripe(i), row)
	}
	return nil
}
