// Package governor bounds pipeline steps with deadlines.
package governor

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrBudgetExceeded is the cancellation cause once the whole-request budget runs out.
	ErrBudgetExceeded = errors.New("request budget exceeded")
	// ErrCeilingExceeded is the cancellation cause once a best-effort ceiling runs out.
	ErrCeilingExceeded = errors.New("ceiling exceeded")
)

// WithBudget returns a context that expires after d with ErrBudgetExceeded as its cause.
func WithBudget(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeoutCause(ctx, d, ErrBudgetExceeded)
}

// BudgetExceeded reports whether ctx ended because its request budget ran out.
func BudgetExceeded(ctx context.Context) bool {
	return ctx.Err() != nil && errors.Is(context.Cause(ctx), ErrBudgetExceeded)
}

// Race runs fn and returns whichever comes first: fn's result or ctx expiry.
// fn keeps running after Race returns on expiry; it must honour ctx to stop early.
func Race(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return context.Cause(ctx)
	}

	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

// BestEffort runs fn under a ceiling shorter than the parent budget.
// When the ceiling wins, BestEffort reports expired and no error.
// When the parent context ends first, its cause is returned.
func BestEffort(ctx context.Context, ceiling time.Duration, fn func(context.Context) error) (expired bool, err error) {
	cctx, cancel := context.WithTimeoutCause(ctx, ceiling, ErrCeilingExceeded)
	defer cancel()

	err = Race(cctx, fn)
	if err == nil {
		return false, nil
	}
	if ctx.Err() != nil {
		return false, context.Cause(ctx)
	}
	if errors.Is(context.Cause(cctx), ErrCeilingExceeded) && cctx.Err() != nil {
		return true, nil
	}
	return false, err
}
