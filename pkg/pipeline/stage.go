// Package pipeline holds the render pipeline's stage contract, data model and error taxonomy.
package pipeline

import (
	"context"
)

// Stage is one step of the render pipeline.
// Stages run strictly in order; the output of one is the precondition of the next.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}

// StageFunc lets a plain function act as a Stage.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

// Execute implements Stage.
func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}
