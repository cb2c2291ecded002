package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/wolfej94/NotesStorage/pkg/async"
	"github.com/wolfej94/NotesStorage/pkg/core"
)

// Every engine operation is additionally available as a cold task and as a
// callback call. All three forms share the blocking implementation and
// therefore produce identical outcomes for identical inputs.

// InsertTask returns a cold task that performs Insert when started.
func (e *Engine) InsertTask(c core.Context, n core.Note) *async.Task[struct{}] {
	return async.New(func(ctx context.Context) (struct{}, error) {
		return struct{}{}, e.Insert(ctx, c, n)
	})
}

// InsertAsync performs Insert in the background and reports the outcome to
// done. done is not called after ctx has been cancelled.
func (e *Engine) InsertAsync(ctx context.Context, c core.Context, n core.Note, done func(error)) {
	e.InsertTask(c, n).Then(ctx, func(_ struct{}, err error) { done(err) })
}

// UpdateTask returns a cold task that performs Update when started.
func (e *Engine) UpdateTask(c core.Context, n core.Note) *async.Task[struct{}] {
	return async.New(func(ctx context.Context) (struct{}, error) {
		return struct{}{}, e.Update(ctx, c, n)
	})
}

// UpdateAsync performs Update in the background and reports the outcome to
// done.
func (e *Engine) UpdateAsync(ctx context.Context, c core.Context, n core.Note, done func(error)) {
	e.UpdateTask(c, n).Then(ctx, func(_ struct{}, err error) { done(err) })
}

// DeleteTask returns a cold task that performs Delete when started.
func (e *Engine) DeleteTask(c core.Context, locators []core.Locator) *async.Task[struct{}] {
	return async.New(func(ctx context.Context) (struct{}, error) {
		return struct{}{}, e.Delete(ctx, c, locators)
	})
}

// DeleteAsync performs Delete in the background and reports the outcome to
// done.
func (e *Engine) DeleteAsync(ctx context.Context, c core.Context, locators []core.Locator, done func(error)) {
	e.DeleteTask(c, locators).Then(ctx, func(_ struct{}, err error) { done(err) })
}

// FetchAllTask returns a cold task that performs FetchAll when started.
func (e *Engine) FetchAllTask(c core.Context, entity string, ids []uuid.UUID) *async.Task[[]*core.Record] {
	return async.New(func(ctx context.Context) ([]*core.Record, error) {
		return e.FetchAll(ctx, c, entity, ids)
	})
}
