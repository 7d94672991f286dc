package app

import (
	"context"
	"fmt"
	"time"
)

// hookResult carries a plugin hook's return values across the goroutine boundary.
type hookResult[T any] struct {
	value T
	err   error
}

// runHook invokes a plugin hook, converting panics into errors and bounding
// its execution time. A timeout is reported as an error wrapping
// context.DeadlineExceeded; the hook goroutine is left to finish on its own
// and its late result is discarded.
//
// With a lease, the hook first waits for any earlier hook on the same lease
// to return, and a timed-out hook keeps the lease's key locked until it is
// done. That wait counts against the timeout.
func runHook[T any](ctx context.Context, lease *keyLease, timeout time.Duration, name string, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return callHook(ctx, name, fn)
	}

	hookCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var prev <-chan struct{}
	var finished chan struct{}
	if lease != nil {
		prev, finished = lease.next()
	}

	done := make(chan hookResult[T], 1)
	go func() {
		if finished != nil {
			defer close(finished)
		}
		if prev != nil {
			<-prev
		}
		if err := hookCtx.Err(); err != nil {
			done <- hookResult[T]{err: err}
			return
		}
		v, err := callHook(hookCtx, name, fn)
		done <- hookResult[T]{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-hookCtx.Done():
		if lease != nil {
			lease.abandoned = true
		}
		var zero T
		return zero, fmt.Errorf("%s hook did not complete: %w", name, hookCtx.Err())
	}
}

func callHook[T any](ctx context.Context, name string, fn func(context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s hook panicked: %v", name, r)
		}
	}()
	return fn(ctx)
}
