package core

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

var (
	// ErrExhausted is returned by Sampler.Next once the sampler is exhausted.
	ErrExhausted = errors.New("sampler exhausted")

	// ErrCapacity is matched by every *CapacityError.
	ErrCapacity = errors.New("active stripes exceed capacity")

	// ErrInvalidCapacity reports a learner whose MaxStripes is below 1.
	ErrInvalidCapacity = errors.New("max stripes must be >= 1")
)

// CapacityError reports an attempt to activate more stripes than allocated,
// or a negative number of them.
type CapacityError struct {
	Active int
	Max    int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("cannot activate %d stripes: capacity is %d", e.Active, e.Max)
}

// Is makes errors.Is(err, ErrCapacity) hold for every CapacityError.
func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacity
}

// CheckCapacity returns a *CapacityError unless 0 <= active <= max.
func CheckCapacity(active, max int) error {
	if active < 0 || active > max {
		return &CapacityError{Active: active, Max: max}
	}
	return nil
}

// BatchError wraps a failure raised while processing one batch of a run.
type BatchError struct {
	Index int // zero-based batch number within the run
	Size  int // number of examples in the failed batch
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %d (%d examples): %v", e.Index, e.Size, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// ErrPanic wraps a recovered panic value as an error.
// It includes a cleaned-up stack trace that excludes internal min-train frames.
type ErrPanic struct {
	Value any
	Stack string
}

func (e ErrPanic) Error() string {
	if e.Stack != "" {
		return fmt.Sprintf("panic: %v\n%s", e.Value, e.Stack)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e ErrPanic) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// NewPanicError creates an ErrPanic from a recovered value with a cleaned stack trace.
// It must be called from the deferred function that recovered.
func NewPanicError(recovered any) ErrPanic {
	return ErrPanic{
		Value: recovered,
		Stack: cleanStack(captureStack(4)), // skip: runtime.Callers, captureStack, NewPanicError, defer func
	}
}

func captureStack(skip int) string {
	const maxFrames = 32
	var pcs [maxFrames]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return sb.String()
}

// cleanStack drops min-train frames (and the file:line that follows each)
// so the trace starts at user code.
func cleanStack(stack string) string {
	lines := strings.Split(stack, "\n")
	var result []string
	var skipNext bool

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.HasPrefix(line, "\t") {
			if strings.Contains(line, "github.com/lguimbarda/min-train/train/") {
				skipNext = true
				continue
			}
			skipNext = false
		} else if skipNext {
			continue
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}
