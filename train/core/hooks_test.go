package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooksFIFOOrder(t *testing.T) {
	var events []string
	ctx := context.Background()
	ctx = WithHooks(ctx, Hooks[int]{
		OnStart:    func() { events = append(events, "a:start") },
		OnBatch:    func(i int, b []int) { events = append(events, "a:batch") },
		OnComplete: func(batches, examples int) { events = append(events, "a:complete") },
	})
	ctx = WithHooks(ctx, Hooks[int]{
		OnBatch: func(i int, b []int) { events = append(events, "b:batch") },
	})

	s := NewCountingFunctionSampler(counting(0), 3)
	require.NoError(t, MapBatches(ctx, func([]int) error {
		events = append(events, "fn")
		return nil
	}, s, fixedCapacity(2)))

	assert.Equal(t, []string{
		"a:start",
		"a:batch", "b:batch", "fn",
		"a:batch", "b:batch", "fn",
		"a:complete",
	}, events)
}

func TestHooksReportTotals(t *testing.T) {
	var gotBatches, gotExamples int
	var indices []int
	ctx := WithHooks(context.Background(), Hooks[int]{
		OnBatch: func(i int, _ []int) { indices = append(indices, i) },
		OnComplete: func(batches, examples int) {
			gotBatches, gotExamples = batches, examples
		},
	})

	s := NewCountingFunctionSampler(counting(0), 10)
	require.NoError(t, MapBatches(ctx, func([]int) error { return nil }, s, fixedCapacity(4)))
	assert.Equal(t, []int{0, 1, 2}, indices)
	assert.Equal(t, 3, gotBatches)
	assert.Equal(t, 10, gotExamples)
}

func TestHooksOnError(t *testing.T) {
	boom := errors.New("boom")
	var seen error
	completed := false
	ctx := WithHooks(context.Background(), Hooks[int]{
		OnError:    func(err error) { seen = err },
		OnComplete: func(int, int) { completed = true },
	})

	s := NewCountingFunctionSampler(counting(0), 10)
	err := MapBatches(ctx, func([]int) error { return boom }, s, fixedCapacity(4))
	assert.ErrorIs(t, seen, boom)
	assert.Equal(t, err, seen)
	assert.False(t, completed)
}

func TestHooksAreTyped(t *testing.T) {
	called := false
	ctx := WithHooks(context.Background(), Hooks[string]{
		OnBatch: func(int, []string) { called = true },
	})

	s := NewCountingFunctionSampler(counting(0), 2)
	require.NoError(t, MapBatches(ctx, func([]int) error { return nil }, s, fixedCapacity(2)))
	assert.False(t, called, "string hooks must not observe int passes")
}

func TestSafeHooks(t *testing.T) {
	var recovered []any
	ctx := WithSafeHooks(context.Background(), Hooks[int]{
		OnBatch: func(int, []int) { panic("hook failed") },
	}, func(r any) { recovered = append(recovered, r) })

	s := NewCountingFunctionSampler(counting(0), 4)
	calls := 0
	require.NoError(t, MapBatches(ctx, func([]int) error {
		calls++
		return nil
	}, s, fixedCapacity(2)))
	assert.Equal(t, 2, calls)
	assert.Equal(t, []any{"hook failed", "hook failed"}, recovered)
}

func TestWithHooksPanicsOnNilContext(t *testing.T) {
	assert.Panics(t, func() {
		WithHooks[int](nil, Hooks[int]{})
	})
}
