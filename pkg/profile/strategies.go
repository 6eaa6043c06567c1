package profile

import (
	"context"
	"fmt"

	"github.com/user/mdposter/pkg/ports"
)

// Production resolves the executable from a minimal-binary provider.
type Production struct {
	provider ports.BinaryProvider
}

// NewProduction creates the production strategy.
func NewProduction(provider ports.BinaryProvider) *Production {
	return &Production{provider: provider}
}

// Resolve implements Strategy. A non-empty hint bypasses the provider.
// Missing switches or headless settings fall back to SafeArgs and headless.
func (p *Production) Resolve(ctx context.Context, hint string) (LaunchProfile, error) {
	if hint != "" {
		return LaunchProfile{
			Mode:           ModeProduction,
			ExecutablePath: hint,
			Args:           append([]string(nil), SafeArgs...),
			Headless:       true,
			Source:         "hint",
		}, nil
	}

	bin, err := p.provider.Provide(ctx)
	if err != nil {
		return LaunchProfile{}, fmt.Errorf("%s provider: %w", p.provider.Name(), err)
	}
	if bin.ExecutablePath == "" {
		return LaunchProfile{}, fmt.Errorf("%s provider returned no executable", p.provider.Name())
	}

	args := bin.Args
	if len(args) == 0 {
		args = SafeArgs
	}
	headless := true
	if bin.Headless != nil {
		headless = *bin.Headless
	}

	return LaunchProfile{
		Mode:           ModeProduction,
		ExecutablePath: bin.ExecutablePath,
		Args:           append([]string(nil), args...),
		Headless:       headless,
		Source:         p.provider.Name(),
	}, nil
}

// Development resolves a locally installed browser.
type Development struct {
	locate func(hint string) string
}

// NewDevelopment creates the development strategy. locate searches for an
// executable given an optional explicit path and returns "" when none is found.
func NewDevelopment(locate func(hint string) string) *Development {
	return &Development{locate: locate}
}

// Resolve implements Strategy.
func (d *Development) Resolve(ctx context.Context, hint string) (LaunchProfile, error) {
	source := "system"
	path := ""
	if d.locate != nil {
		path = d.locate(hint)
	}
	if hint != "" && path == hint {
		source = "hint"
	}
	if path == "" {
		path = DefaultDevelopmentExecutable
		source = "default"
	}

	return LaunchProfile{
		Mode:           ModeDevelopment,
		ExecutablePath: path,
		Args:           append([]string(nil), DevelopmentArgs...),
		Headless:       true,
		Source:         source,
	}, nil
}

var (
	_ Strategy = (*Production)(nil)
	_ Strategy = (*Development)(nil)
)
