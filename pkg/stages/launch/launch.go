// Package launch implements the session launch stage.
package launch

import (
	"context"
	"fmt"
	"time"

	"github.com/user/mdposter/pkg/governor"
	"github.com/user/mdposter/pkg/pipeline"
	"github.com/user/mdposter/pkg/ports"
	"github.com/user/mdposter/pkg/profile"
)

// Stage starts the browser for one render.
type Stage struct {
	strategies profile.Strategies
	logger     ports.Logger
}

// New creates a new launch stage.
func New(strategies profile.Strategies, logger ports.Logger) *Stage {
	return &Stage{
		strategies: strategies,
		logger:     logger.WithComponent("launch"),
	}
}

// Execute resolves the launch profile for the environment and starts the session.
// The whole attempt races the request budget carried by ctx. The caller owns
// the session and closes it whatever Execute returns.
func (s *Stage) Execute(ctx context.Context, input pipeline.LaunchInput) (pipeline.LaunchResult, error) {
	result := pipeline.LaunchResult{}
	start := time.Now()

	mode := profile.ModeOf(input.Environment.Production)
	strategy, err := s.strategies.For(mode)
	if err != nil {
		return result, fmt.Errorf("%w: %v", pipeline.ErrLaunch, err)
	}

	var resolved profile.LaunchProfile
	err = governor.Race(ctx, func(ctx context.Context) error {
		p, err := strategy.Resolve(ctx, input.Environment.ExecutableHint)
		if err != nil {
			return fmt.Errorf("resolve launch profile: %w", err)
		}
		s.logger.Debug("Launching %s browser from %s (%s)", p.Mode, p.Source, p.ExecutablePath)
		if err := input.Session.Launch(ctx, p.Options()); err != nil {
			return err
		}
		resolved = p
		return nil
	})
	if err != nil {
		if governor.BudgetExceeded(ctx) {
			return result, fmt.Errorf("%w: browser launch did not finish within the request budget", pipeline.ErrRenderTimeout)
		}
		return result, fmt.Errorf("%w: %v", pipeline.ErrLaunch, err)
	}

	result.Profile = resolved
	result.DurationMs = int(time.Since(start).Milliseconds())
	s.logger.Debug("Browser ready in %d ms", result.DurationMs)
	return result, nil
}
