package governor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRace_FnWins(t *testing.T) {
	err := Race(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRace_FnError(t *testing.T) {
	want := errors.New("boom")
	err := Race(context.Background(), func(ctx context.Context) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func TestRace_BudgetWins(t *testing.T) {
	ctx, cancel := WithBudget(context.Background(), 20*time.Millisecond)
	defer cancel()

	release := make(chan struct{})
	defer close(release)

	start := time.Now()
	err := Race(ctx, func(ctx context.Context) error {
		<-release
		return nil
	})
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("expected ErrBudgetExceeded, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Race did not return promptly on expiry")
	}
	if !BudgetExceeded(ctx) {
		t.Error("BudgetExceeded should report true")
	}
}

func TestRace_AlreadyExpired(t *testing.T) {
	ctx, cancel := WithBudget(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	called := false
	err := Race(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if called {
		t.Error("fn should not run on an expired context")
	}
}

func TestBestEffort_CeilingExpires(t *testing.T) {
	expired, err := BestEffort(context.Background(), 20*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !expired {
		t.Error("expected ceiling expiry")
	}
}

func TestBestEffort_Completes(t *testing.T) {
	expired, err := BestEffort(context.Background(), time.Second, func(ctx context.Context) error {
		return nil
	})
	if err != nil || expired {
		t.Fatalf("got expired=%v err=%v", expired, err)
	}
}

func TestBestEffort_ParentExpires(t *testing.T) {
	ctx, cancel := WithBudget(context.Background(), 20*time.Millisecond)
	defer cancel()

	expired, err := BestEffort(ctx, time.Second, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if expired {
		t.Error("parent expiry must not be reported as ceiling expiry")
	}
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("expected ErrBudgetExceeded, got %v", err)
	}
}

func TestBestEffort_FnError(t *testing.T) {
	want := errors.New("evaluate failed")
	expired, err := BestEffort(context.Background(), time.Second, func(ctx context.Context) error {
		return want
	})
	if expired {
		t.Error("unexpected expiry")
	}
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}
