package core

import "fmt"

// Striped is a computational unit whose flat backing storage is partitioned
// into stripes, one per example of the current batch.
//
// SetMaxStripes reallocates storage and is expected to be called once per
// object lifetime, when a trainer binds to the learner. SetActiveStripes is
// cheap and called once per batch; it fails with a *CapacityError when the
// count exceeds MaxStripes.
//
// For 0 <= i < ActiveStripes, stripe i occupies [StripeStart(i), StripeEnd(i)).
// Ranges are ordered and disjoint, and together they cover exactly the
// storage addressed by the current batch.
type Striped interface {
	MaxStripes() int
	SetMaxStripes(n int)
	ActiveStripes() int
	SetActiveStripes(n int) error
	StripeStart(i int) int
	StripeEnd(i int) int
}

// Range is a half-open index range [Start, End) into flat storage.
type Range struct {
	Start, End int
}

// Len returns the number of indices covered by r.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether index j falls inside r.
func (r Range) Contains(j int) bool {
	return j >= r.Start && j < r.End
}

// StripeRange returns the range occupied by stripe i of obj.
func StripeRange(i int, obj Striped) Range {
	return Range{Start: obj.StripeStart(i), End: obj.StripeEnd(i)}
}

// Ranges returns the ranges of every active stripe of obj, in order.
func Ranges(obj Striped) []Range {
	n := obj.ActiveStripes()
	out := make([]Range, n)
	for i := 0; i < n; i++ {
		out[i] = StripeRange(i, obj)
	}
	return out
}

// StripeRef names one logical stripe of one striped object.
type StripeRef struct {
	Index  int
	Object Striped
}

// ResolveStripes resolves the range of every ref in one call. Algorithms that
// address several striped buffers for the same logical example use it to
// bind all of their ranges at once.
func ResolveStripes(refs ...StripeRef) []Range {
	out := make([]Range, len(refs))
	for i, ref := range refs {
		out[i] = StripeRange(ref.Index, ref.Object)
	}
	return out
}

// ActivateFor sets the active stripe count of obj to the length of batch.
func ActivateFor[E any](obj Striped, batch []E) error {
	return obj.SetActiveStripes(len(batch))
}

// CheckStripes verifies the striping invariant for the active stripes of obj:
// stripe 0 starts at 0, every range is non-negative in length, and each stripe
// starts where the previous one ended.
func CheckStripes(obj Striped) error {
	if err := CheckCapacity(obj.ActiveStripes(), obj.MaxStripes()); err != nil {
		return err
	}
	next := 0
	for i, r := range Ranges(obj) {
		if r.Start != next || r.End < r.Start {
			return &StripeLayoutError{Index: i, Range: r, Want: next}
		}
		next = r.End
	}
	return nil
}

// StripeLayoutError reports a stripe whose range breaks the ordering or
// contiguity invariant.
type StripeLayoutError struct {
	Index int
	Range Range
	Want  int // expected start
}

func (e *StripeLayoutError) Error() string {
	return fmt.Sprintf("stripe %d occupies [%d, %d), expected start %d",
		e.Index, e.Range.Start, e.Range.End, e.Want)
}
