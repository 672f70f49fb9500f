package belt

import (
	"context"
)

// Step is one unit of work over the shared state S. A step finishes by
// returning: nil continues the belt, an error stops it.
type Step[S any] func(ctx context.Context, state S) error

// Runner holds an ordered sequence of steps.
type Runner[S any] struct {
	steps []Step[S]
}

// New creates an empty Runner.
func New[S any]() *Runner[S] {
	return &Runner[S]{}
}

// Use appends a step to the end of the belt and returns the Runner for
// chaining. nil steps are ignored.
func (r *Runner[S]) Use(step Step[S]) *Runner[S] {
	if step != nil {
		r.steps = append(r.steps, step)
	}
	return r
}

// Len returns the number of registered steps.
func (r *Runner[S]) Len() int {
	return len(r.steps)
}

// Run executes every step in registration order against state, one at a
// time. The first error stops the belt and is returned. Cancellation is
// checked between steps; a cancelled context returns ctx.Err without
// running further steps.
func (r *Runner[S]) Run(ctx context.Context, state S) error {
	for _, step := range r.steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step(ctx, state); err != nil {
			return err
		}
	}
	return nil
}

// Go executes the belt on its own goroutine and invokes done exactly once
// with the outcome. The registered step list is read, not copied; appending
// steps while a run is in flight is undefined.
func (r *Runner[S]) Go(ctx context.Context, state S, done func(error)) {
	go func() {
		done(r.Run(ctx, state))
	}()
}
