// Package readiness implements the navigation and readiness stage.
package readiness

import (
	"context"
	"fmt"
	"time"

	"github.com/user/mdposter/pkg/governor"
	"github.com/user/mdposter/pkg/pipeline"
	"github.com/user/mdposter/pkg/ports"
)

// Stage drives a launched session to the poster URL and waits until the
// poster region is rendered.
type Stage struct {
	logger ports.Logger
}

// New creates a new readiness stage.
func New(logger ports.Logger) *Stage {
	return &Stage{logger: logger.WithComponent("readiness")}
}

// Execute runs navigating → waiting for the marker → waiting for images.
// Navigation and marker visibility are fatal; image settling is best-effort.
func (s *Stage) Execute(ctx context.Context, input pipeline.ReadinessInput) (pipeline.ReadinessResult, error) {
	result := pipeline.ReadinessResult{}
	session := input.Session

	if err := session.SetViewport(ctx, input.ViewportWidth, input.ViewportHeight, input.DeviceScaleFactor); err != nil {
		return result, s.fail(ctx, pipeline.ErrNavigation, fmt.Errorf("set viewport: %w", err))
	}
	if input.Filter != nil {
		if err := session.SetRequestFilter(ctx, input.Filter); err != nil {
			return result, s.fail(ctx, pipeline.ErrNavigation, err)
		}
	}

	// 1. Navigating
	s.logger.Debug("Navigating to poster page (%d byte URL)", len(input.URL))
	start := time.Now()
	err := bounded(ctx, input.NavigationTimeout, func(ctx context.Context) error {
		return session.Navigate(ctx, input.URL)
	})
	result.NavigationMs = sinceMs(start)
	if err != nil {
		return result, s.fail(ctx, pipeline.ErrNavigation, err)
	}
	s.logger.Debug("Page loaded in %d ms", result.NavigationMs)

	// 2. WaitingForMarker
	start = time.Now()
	err = bounded(ctx, input.MarkerTimeout, func(ctx context.Context) error {
		return session.WaitVisible(ctx, input.MarkerSelector)
	})
	result.MarkerMs = sinceMs(start)
	if err != nil {
		return result, s.fail(ctx, pipeline.ErrMarkerNotFound,
			fmt.Errorf("%s not visible within %s: %w", input.MarkerSelector, input.MarkerTimeout, err))
	}
	s.logger.Debug("Marker %s visible after %d ms", input.MarkerSelector, result.MarkerMs)

	// 3. WaitingForImages
	scope := input.MarkerSelector
	if input.ImageScope == pipeline.ImageScopePage {
		scope = ""
	}
	start = time.Now()
	var settled ports.ImageSettlement
	expired, err := governor.BestEffort(ctx, input.ImageCeiling, func(ctx context.Context) error {
		res, err := session.WaitImages(ctx, scope)
		if err != nil {
			return err
		}
		settled = res
		return nil
	})
	result.ImagesMs = sinceMs(start)
	switch {
	case err != nil && governor.BudgetExceeded(ctx):
		return result, fmt.Errorf("%w: images still loading when the request budget ran out", pipeline.ErrRenderTimeout)
	case err != nil:
		s.logger.Warn("Image wait failed, capturing anyway: %v", err)
	case expired:
		result.ImagesTimedOut = true
		s.logger.Warn("Images did not settle within %s, capturing anyway", input.ImageCeiling)
	default:
		result.Images = settled
		if settled.Failed > 0 {
			s.logger.Warn("%d of %d images failed to load", settled.Failed, settled.Total)
		}
		s.logger.Debug("%d images settled in %d ms", settled.Total, result.ImagesMs)
	}

	return result, nil
}

// fail classifies err as a budget timeout when the request budget is gone,
// otherwise as kind.
func (s *Stage) fail(ctx context.Context, kind error, err error) error {
	if governor.BudgetExceeded(ctx) {
		return fmt.Errorf("%w: %v", pipeline.ErrRenderTimeout, err)
	}
	return fmt.Errorf("%w: %v", kind, err)
}

// bounded runs fn under timeout; a non-positive timeout only inherits ctx.
func bounded(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(cctx)
}

func sinceMs(t time.Time) int {
	return int(time.Since(t).Milliseconds())
}
