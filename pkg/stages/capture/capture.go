// Package capture implements the region capture stage.
package capture

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/mdposter/pkg/governor"
	"github.com/user/mdposter/pkg/pipeline"
	"github.com/user/mdposter/pkg/ports"
)

// Stage captures exactly the marker element's rectangle.
type Stage struct {
	logger ports.Logger
}

// New creates a new capture stage.
func New(logger ports.Logger) *Stage {
	return &Stage{logger: logger.WithComponent("capture")}
}

// Execute locates the marker, reads its bounds once and captures a PNG clipped to them.
func (s *Stage) Execute(ctx context.Context, input pipeline.CaptureInput) (pipeline.CaptureResult, error) {
	result := pipeline.CaptureResult{}

	box, found, err := input.Session.ElementBox(ctx, input.MarkerSelector)
	if err != nil {
		return result, s.fail(ctx, pipeline.ErrBoundingBox, err)
	}
	if !found {
		return result, fmt.Errorf("%w: %s", pipeline.ErrElementNotFound, input.MarkerSelector)
	}
	if box.Empty() {
		return result, fmt.Errorf("%w: %s has a %.0fx%.0f box", pipeline.ErrBoundingBox, input.MarkerSelector, box.Width, box.Height)
	}
	s.logger.Debug("Capturing %.0fx%.0f region at (%.0f, %.0f)", box.Width, box.Height, box.X, box.Y)

	data, err := input.Session.CaptureRegion(ctx, box)
	if err != nil {
		if governor.BudgetExceeded(ctx) {
			return result, fmt.Errorf("%w: %v", pipeline.ErrRenderTimeout, err)
		}
		return result, fmt.Errorf("capture region: %w", err)
	}
	if len(data) == 0 {
		return result, errors.New("capture region: empty screenshot")
	}

	result.Box = box
	result.Data = data
	s.logger.Debug("Captured %d bytes", len(data))
	return result, nil
}

func (s *Stage) fail(ctx context.Context, kind error, err error) error {
	if governor.BudgetExceeded(ctx) {
		return fmt.Errorf("%w: %v", pipeline.ErrRenderTimeout, err)
	}
	return fmt.Errorf("%w: %v", kind, err)
}
