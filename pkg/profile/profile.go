// Package profile selects how the browser is launched for a deployment mode.
package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/user/mdposter/pkg/ports"
)

// Mode is the deployment mode.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// ParseMode parses a mode name. "prod" and "dev" are accepted as short forms.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return ModeProduction, nil
	case "development", "dev", "":
		return ModeDevelopment, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// LaunchProfile is the resolved executable, switches and headless setting.
type LaunchProfile struct {
	Mode           Mode
	ExecutablePath string
	Args           []string
	Headless       bool
	Source         string // Where the executable came from
}

// Options converts the profile into browser launch options.
func (p LaunchProfile) Options() ports.BrowserOptions {
	return ports.BrowserOptions{
		ExecutablePath:    p.ExecutablePath,
		Args:              append([]string(nil), p.Args...),
		Headless:          p.Headless,
		IgnoreHTTPSErrors: true,
	}
}

// Strategy resolves a LaunchProfile. hint is an optional executable override.
type Strategy interface {
	Resolve(ctx context.Context, hint string) (LaunchProfile, error)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(ctx context.Context, hint string) (LaunchProfile, error)

// Resolve implements Strategy.
func (f StrategyFunc) Resolve(ctx context.Context, hint string) (LaunchProfile, error) {
	return f(ctx, hint)
}

// Strategies maps each mode to its strategy.
type Strategies map[Mode]Strategy

// For returns the strategy for mode.
func (s Strategies) For(mode Mode) (Strategy, error) {
	st, ok := s[mode]
	if !ok {
		return nil, fmt.Errorf("no launch strategy for mode %q", mode)
	}
	return st, nil
}

// ModeOf maps the production flag to a Mode.
func ModeOf(production bool) Mode {
	if production {
		return ModeProduction
	}
	return ModeDevelopment
}
