package observe

import (
	"context"
	"time"

	"github.com/lguimbarda/min-train/train/core"
)

// RunMetrics holds timing statistics about one pass.
type RunMetrics struct {
	Batches  int
	Examples int
	Failed   bool

	StartTime time.Time
	EndTime   time.Time

	ExamplesPerSecond float64

	// Time between consecutive batches.
	MinBatchInterval time.Duration
	MaxBatchInterval time.Duration
	AvgBatchInterval time.Duration
}

// Duration returns the wall time of the pass.
func (m RunMetrics) Duration() time.Duration {
	return m.EndTime.Sub(m.StartTime)
}

// WithTiming attaches hooks that time each pass over examples of type E. The
// onEnd callback receives the metrics when the pass completes or fails.
func WithTiming[E any](ctx context.Context, onEnd func(RunMetrics)) context.Context {
	var (
		m        RunMetrics
		last     time.Time
		total    time.Duration
		interval int
		started  bool
	)
	finish := func(failed bool) {
		now := time.Now()
		if !started {
			// Initialization failed before the pass started.
			m = RunMetrics{StartTime: now}
			last, total, interval = time.Time{}, 0, 0
		}
		started = false
		m.EndTime = now
		m.Failed = failed
		if secs := m.Duration().Seconds(); secs > 0 {
			m.ExamplesPerSecond = float64(m.Examples) / secs
		}
		if interval > 0 {
			m.AvgBatchInterval = total / time.Duration(interval)
		}
		if onEnd != nil {
			onEnd(m)
		}
	}
	return core.WithHooks(ctx, core.Hooks[E]{
		OnStart: func() {
			m = RunMetrics{StartTime: time.Now()}
			last, total, interval = time.Time{}, 0, 0
			started = true
		},
		OnBatch: func(_ int, batch []E) {
			now := time.Now()
			m.Batches++
			m.Examples += len(batch)
			if !last.IsZero() {
				d := now.Sub(last)
				if interval == 0 || d < m.MinBatchInterval {
					m.MinBatchInterval = d
				}
				if d > m.MaxBatchInterval {
					m.MaxBatchInterval = d
				}
				total += d
				interval++
			}
			last = now
		},
		OnError:    func(error) { finish(true) },
		OnComplete: func(int, int) { finish(false) },
	})
}
