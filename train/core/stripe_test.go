package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uniform is a minimal Striped object with fixed-width stripes.
type uniform struct {
	width  int
	max    int
	active int
	data   []float64
	allocs int
}

func (u *uniform) MaxStripes() int { return u.max }

func (u *uniform) SetMaxStripes(n int) {
	u.max = n
	u.active = n
	u.data = make([]float64, n*u.width)
	u.allocs++
}

func (u *uniform) ActiveStripes() int { return u.active }

func (u *uniform) SetActiveStripes(n int) error {
	if err := CheckCapacity(n, u.max); err != nil {
		return err
	}
	u.active = n
	return nil
}

func (u *uniform) StripeStart(i int) int { return i * u.width }
func (u *uniform) StripeEnd(i int) int   { return (i + 1) * u.width }

// overlapping breaks the layout invariant on purpose.
type overlapping struct{ uniform }

func (o *overlapping) StripeStart(i int) int {
	if i == 0 {
		return 0
	}
	return i*o.width - 1
}

func TestStripeInvariant(t *testing.T) {
	const w = 3
	u := &uniform{width: w}
	u.SetMaxStripes(4)
	require.NoError(t, u.SetActiveStripes(4))

	assert.Equal(t, 0, u.StripeStart(0))
	assert.Equal(t, 4*w, u.StripeEnd(3))
	require.NoError(t, CheckStripes(u))

	ranges := Ranges(u)
	require.Len(t, ranges, 4)
	covered := make(map[int]int)
	for _, r := range ranges {
		assert.Equal(t, w, r.Len())
		for j := r.Start; j < r.End; j++ {
			covered[j]++
		}
	}
	for i := 0; i < len(ranges); i++ {
		for j := i + 1; j < len(ranges); j++ {
			assert.LessOrEqual(t, ranges[i].End, ranges[j].Start, "stripes %d and %d overlap", i, j)
		}
	}
	assert.Len(t, covered, 4*w)
	for j := 0; j < 4*w; j++ {
		assert.Equal(t, 1, covered[j], "index %d", j)
	}
}

func TestSetActiveStripesCapacity(t *testing.T) {
	u := &uniform{width: 2}
	u.SetMaxStripes(4)

	require.NoError(t, u.SetActiveStripes(2))
	assert.Len(t, Ranges(u), 2)

	err := u.SetActiveStripes(5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapacity)
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 5, capErr.Active)
	assert.Equal(t, 4, capErr.Max)
	assert.Equal(t, 2, u.ActiveStripes(), "failed activation must not change state")

	assert.ErrorIs(t, u.SetActiveStripes(-1), ErrCapacity)
}

func TestResolveStripes(t *testing.T) {
	in := &uniform{width: 3}
	in.SetMaxStripes(4)
	out := &uniform{width: 1}
	out.SetMaxStripes(4)

	got := ResolveStripes(
		StripeRef{Index: 2, Object: in},
		StripeRef{Index: 2, Object: out},
		StripeRef{Index: 0, Object: in},
	)
	assert.Equal(t, []Range{{6, 9}, {2, 3}, {0, 3}}, got)
	assert.Empty(t, ResolveStripes())
}

func TestActivateFor(t *testing.T) {
	u := &uniform{width: 2}
	u.SetMaxStripes(4)

	require.NoError(t, ActivateFor(u, []string{"a", "b"}))
	assert.Equal(t, 2, u.ActiveStripes())
	assert.ErrorIs(t, ActivateFor(u, make([]int, 5)), ErrCapacity)
}

func TestCheckStripesLayout(t *testing.T) {
	o := &overlapping{uniform{width: 2}}
	o.SetMaxStripes(3)

	err := CheckStripes(o)
	var layoutErr *StripeLayoutError
	require.ErrorAs(t, err, &layoutErr)
	assert.Equal(t, 1, layoutErr.Index)
	assert.Equal(t, 2, layoutErr.Want)
}

func TestRange(t *testing.T) {
	r := Range{Start: 2, End: 5}
	assert.Equal(t, 3, r.Len())
	assert.True(t, r.Contains(2))
	assert.True(t, r.Contains(4))
	assert.False(t, r.Contains(5))
	assert.False(t, r.Contains(1))
}
