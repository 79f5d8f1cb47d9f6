// Package pipeline holds the task stage abstraction and the value types
// passed between the loader and its stages.
package pipeline

import (
	"context"
)

// Stage is one step of a background task: it takes an input and produces
// an output, observing ctx at its cancellation checkpoints.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}

// StageFunc adapts a function to the Stage interface.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

// Execute implements Stage.
func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}

// Checkpoint reports whether the task owning ctx has been superseded.
// It returns ctx.Err() so callers can return it unchanged.
func Checkpoint(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
