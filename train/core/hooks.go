package core

import (
	"context"
)

// Hooks holds typed observation callbacks for batch passes over examples of
// type E. All fields are optional - nil means no observation for that event.
// Hooks are invoked synchronously between batches, so they should be fast.
type Hooks[E any] struct {
	OnStart    func()                      // pass begins (after trainer initialization in Train)
	OnBatch    func(index int, batch []E)  // batch drawn, before it is processed
	OnError    func(err error)             // pass aborted by err
	OnComplete func(batches, examples int) // sampler exhausted, pass finished cleanly
}

// hooksKey is unexported to prevent collisions with user context keys.
type hooksKey[E any] struct{}

// hooksContainer holds multiple hook sets for FIFO invocation.
type hooksContainer[E any] struct {
	hookSets []*Hooks[E]
}

// WithHooks attaches typed hooks to the context.
// Multiple calls to WithHooks compose in FIFO order - hooks from earlier
// calls are invoked before hooks from later calls.
//
// Example:
//
//	ctx := core.WithHooks(ctx, core.Hooks[Sample]{
//	    OnBatch: func(i int, b []Sample) { log.Printf("batch %d: %d examples", i, len(b)) },
//	})
func WithHooks[E any](ctx context.Context, hooks Hooks[E]) context.Context {
	if ctx == nil {
		panic("nil context")
	}

	existing := getHooksContainer[E](ctx)
	if existing == nil {
		return context.WithValue(ctx, hooksKey[E]{}, &hooksContainer[E]{
			hookSets: []*Hooks[E]{&hooks},
		})
	}

	newContainer := &hooksContainer[E]{
		hookSets: make([]*Hooks[E], len(existing.hookSets)+1),
	}
	copy(newContainer.hookSets, existing.hookSets)
	newContainer.hookSets[len(existing.hookSets)] = &hooks

	return context.WithValue(ctx, hooksKey[E]{}, newContainer)
}

func getHooksContainer[E any](ctx context.Context) *hooksContainer[E] {
	if ctx == nil {
		return nil
	}
	if c, ok := ctx.Value(hooksKey[E]{}).(*hooksContainer[E]); ok {
		return c
	}
	return nil
}

// hookInvoker caches the hook set found in a context for one pass.
type hookInvoker[E any] struct {
	hookSets []*Hooks[E]
}

func newHookInvoker[E any](ctx context.Context) hookInvoker[E] {
	if c := getHooksContainer[E](ctx); c != nil {
		return hookInvoker[E]{hookSets: c.hookSets}
	}
	return hookInvoker[E]{}
}

func (h hookInvoker[E]) start() {
	for _, hooks := range h.hookSets {
		if hooks.OnStart != nil {
			hooks.OnStart()
		}
	}
}

func (h hookInvoker[E]) batch(index int, batch []E) {
	for _, hooks := range h.hookSets {
		if hooks.OnBatch != nil {
			hooks.OnBatch(index, batch)
		}
	}
}

func (h hookInvoker[E]) fail(err error) {
	for _, hooks := range h.hookSets {
		if hooks.OnError != nil {
			hooks.OnError(err)
		}
	}
}

func (h hookInvoker[E]) complete(batches, examples int) {
	for _, hooks := range h.hookSets {
		if hooks.OnComplete != nil {
			hooks.OnComplete(batches, examples)
		}
	}
}

// SafeHooks wraps Hooks[E] to recover from panics in hook functions.
// Use this when hooks are user-provided and panics should not abort a run.
type SafeHooks[E any] struct {
	Hooks[E]
	panicHandler func(any)
}

// NewSafeHooks creates SafeHooks from regular Hooks.
// If panicHandler is nil, panics are silently recovered.
func NewSafeHooks[E any](hooks Hooks[E], panicHandler func(any)) SafeHooks[E] {
	if panicHandler == nil {
		panicHandler = func(any) {}
	}
	safe := SafeHooks[E]{panicHandler: panicHandler}
	guard := func() {
		if r := recover(); r != nil {
			panicHandler(r)
		}
	}

	if fn := hooks.OnStart; fn != nil {
		safe.OnStart = func() {
			defer guard()
			fn()
		}
	}
	if fn := hooks.OnBatch; fn != nil {
		safe.OnBatch = func(i int, b []E) {
			defer guard()
			fn(i, b)
		}
	}
	if fn := hooks.OnError; fn != nil {
		safe.OnError = func(err error) {
			defer guard()
			fn(err)
		}
	}
	if fn := hooks.OnComplete; fn != nil {
		safe.OnComplete = func(batches, examples int) {
			defer guard()
			fn(batches, examples)
		}
	}
	return safe
}

// WithSafeHooks is a convenience function that wraps hooks with panic recovery
// before attaching them to the context.
func WithSafeHooks[E any](ctx context.Context, hooks Hooks[E], panicHandler func(any)) context.Context {
	return WithHooks(ctx, NewSafeHooks(hooks, panicHandler).Hooks)
}
