package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counting(start int) func() (int, error) {
	n := start
	return func() (int, error) {
		n++
		return n, nil
	}
}

func TestFunctionSamplerNeverExhausted(t *testing.T) {
	fs := NewFunctionSampler(counting(0))
	for i := 0; i < 3; i++ {
		batch, err := SampleBatch[int](fs, 5)
		require.NoError(t, err)
		assert.Len(t, batch, 5)
		assert.False(t, fs.Exhausted())
	}
}

func TestCountingSamplerBound(t *testing.T) {
	s := NewCountingFunctionSampler(counting(0), 3)

	for draws := 0; draws < 3; draws++ {
		assert.Falsef(t, s.Exhausted(), "exhausted after %d draws", draws)
		_, err := s.Next()
		require.NoError(t, err)
	}
	assert.True(t, s.Exhausted(), "not exhausted after 3 draws")
	assert.Equal(t, 3, s.Produced())

	_, err := s.Next()
	assert.ErrorIs(t, err, ErrExhausted)
	assert.True(t, s.Exhausted(), "exhaustion must be monotone")
	assert.Equal(t, 3, s.Produced(), "failed draw must not count")
}

func TestCountingSamplerUnbounded(t *testing.T) {
	s := NewCountingFunctionSampler(counting(0), NoLimit)
	batch, err := SampleBatch[int](s, 100)
	require.NoError(t, err)
	assert.Len(t, batch, 100)
	assert.False(t, s.Exhausted())
	assert.Equal(t, NoLimit, s.Max())
}

func TestCountingSamplerCountsBeforeDelegating(t *testing.T) {
	var s *CountingSampler[int]
	var seen []int
	s = NewCountingFunctionSampler(func() (int, error) {
		seen = append(seen, s.Produced())
		return 0, nil
	}, 2)

	_, _ = s.Next()
	_, _ = s.Next()
	assert.Equal(t, []int{1, 2}, seen)
}

func TestCountingSamplerWrapsBoundedInner(t *testing.T) {
	inner := NewCountingFunctionSampler(counting(0), 2)
	outer := NewCountingSampler[int](inner, 10)

	batch, err := SampleBatch[int](outer, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, batch)
	assert.True(t, outer.Exhausted())
	assert.Equal(t, 2, outer.Produced())
}

func TestSampleBatch(t *testing.T) {
	tests := []struct {
		name    string
		max     int
		size    int
		want    []int
		exhaust bool
	}{
		{name: "full batch", max: 10, size: 4, want: []int{1, 2, 3, 4}},
		{name: "short batch", max: 2, size: 4, want: []int{1, 2}, exhaust: true},
		{name: "exact fit", max: 4, size: 4, want: []int{1, 2, 3, 4}, exhaust: true},
		{name: "zero size", max: 4, size: 0, want: []int{}},
		{name: "negative size", max: 4, size: -1, want: []int{}},
		{name: "already empty", max: 0, size: 3, want: []int{}, exhaust: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewCountingFunctionSampler(counting(0), tt.max)
			got, err := SampleBatch[int](s, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.exhaust, s.Exhausted())
			if len(got) < tt.size {
				assert.True(t, s.Exhausted(), "short batch implies exhaustion")
			}
		})
	}
}

func TestSampleBatchStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	n := 0
	s := NewFunctionSampler(func() (int, error) {
		n++
		if n == 3 {
			return 0, boom
		}
		return n, nil
	})

	got, err := SampleBatch[int](s, 5)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1, 2}, got)
}

func TestNewFunctionSamplerPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewFunctionSampler[int](nil) })
}
