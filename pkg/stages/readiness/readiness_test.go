package readiness

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/user/mdposter/pkg/adapters/logger"
	"github.com/user/mdposter/pkg/governor"
	"github.com/user/mdposter/pkg/mocks"
	"github.com/user/mdposter/pkg/pipeline"
	"github.com/user/mdposter/pkg/policy"
	"github.com/user/mdposter/pkg/ports"
)

func testInput(session ports.Browser) pipeline.ReadinessInput {
	input := pipeline.DefaultReadinessInput()
	input.Session = session
	input.URL = "http://localhost:3000/poster?content=%23+Hello"
	input.Filter = policy.Default()
	input.NavigationTimeout = time.Second
	input.MarkerTimeout = 50 * time.Millisecond
	input.ImageCeiling = 50 * time.Millisecond
	return input
}

func TestStage_Execute(t *testing.T) {
	var filter ports.RequestFilter
	var scope string
	browser := &mocks.Browser{
		SetRequestFilterFunc: func(ctx context.Context, f ports.RequestFilter) error {
			filter = f
			return nil
		},
		WaitImagesFunc: func(ctx context.Context, s string) (ports.ImageSettlement, error) {
			scope = s
			return ports.ImageSettlement{Total: 2, Loaded: 1, Failed: 1}, nil
		},
	}

	result, err := New(logger.NewNoop()).Execute(context.Background(), testInput(browser))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"SetViewport", "SetRequestFilter", "Navigate", "WaitVisible", "WaitImages"}
	if got := browser.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
	if filter == nil || filter.Allow("Media") {
		t.Error("expected the media-blocking filter to be attached")
	}
	if scope != ".poster-content" {
		t.Errorf("image scope = %q, want marker selector", scope)
	}
	if result.Images.Failed != 1 || result.ImagesTimedOut {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestStage_PageImageScope(t *testing.T) {
	scope := "unset"
	browser := &mocks.Browser{
		WaitImagesFunc: func(ctx context.Context, s string) (ports.ImageSettlement, error) {
			scope = s
			return ports.ImageSettlement{}, nil
		},
	}
	input := testInput(browser)
	input.ImageScope = pipeline.ImageScopePage

	if _, err := New(logger.NewNoop()).Execute(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scope != "" {
		t.Errorf("expected whole-document scope, got %q", scope)
	}
}

func TestStage_NavigationError(t *testing.T) {
	browser := &mocks.Browser{
		NavigateFunc: func(ctx context.Context, url string) error {
			return errors.New("net::ERR_CONNECTION_REFUSED")
		},
	}

	_, err := New(logger.NewNoop()).Execute(context.Background(), testInput(browser))
	if !errors.Is(err, pipeline.ErrNavigation) {
		t.Fatalf("expected ErrNavigation, got %v", err)
	}
	if browser.Count("WaitVisible") != 0 {
		t.Error("marker must not be checked before navigation settles")
	}
}

func TestStage_NavigationTimeout(t *testing.T) {
	browser := &mocks.Browser{
		NavigateFunc: func(ctx context.Context, url string) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	input := testInput(browser)
	input.NavigationTimeout = 20 * time.Millisecond

	_, err := New(logger.NewNoop()).Execute(context.Background(), input)
	if !errors.Is(err, pipeline.ErrNavigation) {
		t.Fatalf("expected ErrNavigation, got %v", err)
	}
}

func TestStage_MarkerNotFound(t *testing.T) {
	browser := &mocks.Browser{
		WaitVisibleFunc: func(ctx context.Context, selector string) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}

	start := time.Now()
	_, err := New(logger.NewNoop()).Execute(context.Background(), testInput(browser))
	if !errors.Is(err, pipeline.ErrMarkerNotFound) {
		t.Fatalf("expected ErrMarkerNotFound, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("marker timeout not enforced: %s", elapsed)
	}
	if browser.Count("WaitImages") != 0 {
		t.Error("images must not be awaited without a visible marker")
	}
}

func TestStage_ImagesCeilingIsNotFatal(t *testing.T) {
	browser := &mocks.Browser{
		WaitImagesFunc: func(ctx context.Context, s string) (ports.ImageSettlement, error) {
			<-ctx.Done()
			return ports.ImageSettlement{}, ctx.Err()
		},
	}

	result, err := New(logger.NewNoop()).Execute(context.Background(), testInput(browser))
	if err != nil {
		t.Fatalf("image ceiling must not fail the render: %v", err)
	}
	if !result.ImagesTimedOut {
		t.Error("expected ImagesTimedOut")
	}
}

func TestStage_ImageWaitErrorIsNotFatal(t *testing.T) {
	browser := &mocks.Browser{
		WaitImagesFunc: func(ctx context.Context, s string) (ports.ImageSettlement, error) {
			return ports.ImageSettlement{}, errors.New("evaluate failed")
		},
	}
	log := mocks.NewLogger()

	_, err := New(log).Execute(context.Background(), testInput(browser))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(log.Entries(ports.LevelWarn)) == 0 {
		t.Error("expected a warning")
	}
}

func TestStage_BudgetExpiryIsTimeout(t *testing.T) {
	browser := &mocks.Browser{
		WaitVisibleFunc: func(ctx context.Context, selector string) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	input := testInput(browser)
	input.MarkerTimeout = 5 * time.Second

	ctx, cancel := governor.WithBudget(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := New(logger.NewNoop()).Execute(ctx, input)
	if !errors.Is(err, pipeline.ErrRenderTimeout) {
		t.Fatalf("expected ErrRenderTimeout, got %v", err)
	}
}
