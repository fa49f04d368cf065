package checker

import (
	"context"
	"errors"
	"time"
)

type callResult[T any] struct {
	value T
	err   error
}

// runWithDeadline runs fn with a context bounded by d and stops waiting once the deadline
// passes, even if fn ignores its context. An abandoned call keeps running in the background
// and its result is dropped; the buffered channel lets it exit without a reader.
// A non-positive d only honours the parent context. A TimeoutError is reported only when
// this step's own timer fired; a done parent passes its error through unchanged.
func runWithDeadline[T any](ctx context.Context, step string, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	parent := ctx
	var cancel context.CancelFunc
	if d > 0 {
		ctx, cancel = context.WithTimeout(ctx, d)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	done := make(chan callResult[T], 1)
	go func() {
		v, err := fn(ctx)
		done <- callResult[T]{value: v, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && parent.Err() == nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return r.value, &TimeoutError{Step: step, After: d}
		}
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		if err := parent.Err(); err != nil {
			return zero, err
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, &TimeoutError{Step: step, After: d}
		}
		return zero, ctx.Err()
	}
}
