// Package async provides the single generic bridge between the three
// result-delivery styles offered by the storage API: direct blocking calls,
// callback completion, and cold single-shot producers. Every operation is
// implemented once and wrapped, never duplicated per delivery style.
package async

import (
	"context"
	"sync"

	"github.com/aretw0/lifecycle"
)

// Result pairs an operation's value with the error that produced it.
type Result[T any] struct {
	Value T
	Err   error
}

// Task is a cold, single-shot unit of work. It does not execute until a
// consumer starts it, and it completes exactly once, with either a value or
// an error. Cancelling a consumer's context stops delivery to that consumer
// but does not interrupt the underlying work.
type Task[T any] struct {
	run    func(context.Context) (T, error)
	start  sync.Once
	done   chan struct{}
	result Result[T]
}

// New wraps run into a cold task. run is not called until Start, Await or
// Then is invoked.
func New[T any](run func(context.Context) (T, error)) *Task[T] {
	return &Task[T]{
		run:  run,
		done: make(chan struct{}),
	}
}

// Start begins execution in a managed goroutine. Subsequent calls are no-ops.
func (t *Task[T]) Start(ctx context.Context) {
	t.start.Do(func() {
		lifecycle.Go(ctx, func(ctx context.Context) error {
			v, err := t.run(ctx)
			t.result = Result[T]{Value: v, Err: err}
			close(t.done)
			return nil
		})
	})
}

// Done is closed once the task has completed. Result is valid afterwards.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Result returns the task's outcome. It is only meaningful after Done has
// been closed.
func (t *Task[T]) Result() Result[T] {
	return t.result
}

// Await starts the task if necessary and blocks until it completes or ctx is
// cancelled. On cancellation the task keeps running detached and Await
// returns ctx.Err().
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	t.Start(ctx)
	select {
	case <-t.done:
		return t.result.Value, t.result.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then starts the task if necessary and invokes fn with the outcome once the
// task completes. fn is never called after ctx has been cancelled.
func (t *Task[T]) Then(ctx context.Context, fn func(T, error)) {
	t.Start(ctx)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		select {
		case <-t.done:
			fn(t.result.Value, t.result.Err)
		case <-ctx.Done():
		}
		return nil
	})
}

// Await bridges a callback-style operation into a blocking call: start is
// given a completion callback and Await returns the first outcome delivered
// to it, or ctx.Err() if ctx is cancelled first.
func Await[T any](ctx context.Context, start func(done func(T, error))) (T, error) {
	results := make(chan Result[T], 1)
	start(func(v T, err error) {
		select {
		case results <- Result[T]{Value: v, Err: err}:
		default:
		}
	})
	select {
	case r := <-results:
		return r.Value, r.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
