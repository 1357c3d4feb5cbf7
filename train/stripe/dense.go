package stripe

import (
	"fmt"

	"github.com/lguimbarda/min-train/train/core"
	"gonum.org/v1/gonum/mat"
)

// WidthError reports a row that does not match the stripe width.
type WidthError struct {
	Stripe int
	Got    int
	Want   int
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("stripe %d: got %d values, want %d", e.Stripe, e.Got, e.Want)
}

// Dense is a striped float64 matrix: stripe i is row i of a gonum dense
// matrix, so its flat range is [i*cols, (i+1)*cols) of the row-major storage.
type Dense struct {
	cols   int
	active int
	m      *mat.Dense
}

var _ core.Striped = (*Dense)(nil)

// NewDense creates a striped matrix with the given row width and capacity.
func NewDense(cols, maxStripes int) *Dense {
	if cols < 1 {
		panic("dense stripes need at least one column")
	}
	d := &Dense{cols: cols}
	d.SetMaxStripes(maxStripes)
	return d
}

// Cols returns the row width.
func (d *Dense) Cols() int { return d.cols }

// MaxStripes returns the allocated row count.
func (d *Dense) MaxStripes() int {
	if d.m == nil {
		return 0
	}
	r, _ := d.m.Dims()
	return r
}

// SetMaxStripes reallocates the matrix with n rows and activates all of them.
// A capacity of 0 releases the matrix.
func (d *Dense) SetMaxStripes(n int) {
	if n < 0 {
		panic("negative stripe capacity")
	}
	d.active = n
	if n == 0 {
		d.m = nil
		return
	}
	d.m = mat.NewDense(n, d.cols, nil)
}

// ActiveStripes returns the number of live rows.
func (d *Dense) ActiveStripes() int { return d.active }

// SetActiveStripes sets the number of live rows.
func (d *Dense) SetActiveStripes(n int) error {
	if err := core.CheckCapacity(n, d.MaxStripes()); err != nil {
		return err
	}
	d.active = n
	return nil
}

// StripeStart returns the first flat index of row i.
func (d *Dense) StripeStart(i int) int { return i * d.cols }

// StripeEnd returns one past the last flat index of row i.
func (d *Dense) StripeEnd(i int) int { return (i + 1) * d.cols }

// Row returns a view of row i. It panics unless 0 <= i < ActiveStripes.
func (d *Dense) Row(i int) []float64 {
	if i < 0 || i >= d.active {
		panic("stripe index out of range")
	}
	return d.m.RawRowView(i)
}

// SetRow copies values into row i.
func (d *Dense) SetRow(i int, values []float64) error {
	if len(values) != d.cols {
		return &WidthError{Stripe: i, Got: len(values), Want: d.cols}
	}
	copy(d.Row(i), values)
	return nil
}

// ActiveMatrix returns a view of the live rows, or nil when none are live.
func (d *Dense) ActiveMatrix() *mat.Dense {
	if d.active == 0 {
		return nil
	}
	return d.m.Slice(0, d.active, 0, d.cols).(*mat.Dense)
}

// Raw returns the row-major backing storage of every allocated row.
func (d *Dense) Raw() []float64 {
	if d.m == nil {
		return nil
	}
	return d.m.RawMatrix().Data
}
