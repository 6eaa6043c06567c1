package capture

import (
	"context"
	"errors"
	"testing"

	"github.com/user/mdposter/pkg/adapters/logger"
	"github.com/user/mdposter/pkg/mocks"
	"github.com/user/mdposter/pkg/pipeline"
	"github.com/user/mdposter/pkg/ports"
)

func input(b ports.Browser) pipeline.CaptureInput {
	return pipeline.CaptureInput{Session: b, MarkerSelector: ".poster-content"}
}

func TestStage_Execute(t *testing.T) {
	box := ports.BoundingBox{X: 100, Y: 40, Width: 800, Height: 1000}
	var clipped ports.BoundingBox
	browser := &mocks.Browser{
		ElementBoxFunc: func(ctx context.Context, selector string) (ports.BoundingBox, bool, error) {
			return box, true, nil
		},
		CaptureRegionFunc: func(ctx context.Context, b ports.BoundingBox) ([]byte, error) {
			clipped = b
			return []byte("\x89PNG"), nil
		},
	}

	result, err := New(logger.NewNoop()).Execute(context.Background(), input(browser))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clipped != box {
		t.Errorf("capture clipped to %+v, want %+v", clipped, box)
	}
	if result.Box.Width <= 0 || result.Box.Height <= 0 {
		t.Errorf("degenerate box in successful capture: %+v", result.Box)
	}
	if string(result.Data) != "\x89PNG" {
		t.Errorf("unexpected data %q", result.Data)
	}
}

func TestStage_ElementNotFound(t *testing.T) {
	browser := &mocks.Browser{
		ElementBoxFunc: func(ctx context.Context, selector string) (ports.BoundingBox, bool, error) {
			return ports.BoundingBox{}, false, nil
		},
	}

	_, err := New(logger.NewNoop()).Execute(context.Background(), input(browser))
	if !errors.Is(err, pipeline.ErrElementNotFound) {
		t.Fatalf("expected ErrElementNotFound, got %v", err)
	}
	if browser.Count("CaptureRegion") != 0 {
		t.Error("must not capture without an element")
	}
}

func TestStage_DegenerateBox(t *testing.T) {
	tests := []ports.BoundingBox{
		{Width: 0, Height: 100},
		{Width: 100, Height: 0},
		{Width: -1, Height: 10},
	}
	for _, box := range tests {
		box := box
		browser := &mocks.Browser{
			ElementBoxFunc: func(ctx context.Context, selector string) (ports.BoundingBox, bool, error) {
				return box, true, nil
			},
		}
		_, err := New(logger.NewNoop()).Execute(context.Background(), input(browser))
		if !errors.Is(err, pipeline.ErrBoundingBox) {
			t.Errorf("box %+v: expected ErrBoundingBox, got %v", box, err)
		}
	}
}

func TestStage_BoxReadError(t *testing.T) {
	browser := &mocks.Browser{
		ElementBoxFunc: func(ctx context.Context, selector string) (ports.BoundingBox, bool, error) {
			return ports.BoundingBox{}, false, errors.New("execution context destroyed")
		},
	}
	_, err := New(logger.NewNoop()).Execute(context.Background(), input(browser))
	if !errors.Is(err, pipeline.ErrBoundingBox) {
		t.Fatalf("expected ErrBoundingBox, got %v", err)
	}
}

func TestStage_EmptyScreenshot(t *testing.T) {
	browser := &mocks.Browser{
		CaptureRegionFunc: func(ctx context.Context, b ports.BoundingBox) ([]byte, error) {
			return nil, nil
		},
	}
	if _, err := New(logger.NewNoop()).Execute(context.Background(), input(browser)); err == nil {
		t.Fatal("expected error for empty screenshot")
	}
}
