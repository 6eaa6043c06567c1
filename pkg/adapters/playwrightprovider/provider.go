// Package playwrightprovider supplies the Chromium build that playwright-go installs.
package playwrightprovider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/user/mdposter/pkg/ports"
)

// Provider implements ports.BinaryProvider. It only reports the executable and
// leaves switches and headless mode to the caller's safe defaults.
type Provider struct {
	// SkipInstall assumes the driver and browser are already present.
	SkipInstall bool
	// Dir holds the driver and browsers. Empty uses playwright's user cache.
	Dir string

	locate func(install bool, dir string) (string, error)

	mu   sync.Mutex
	path string
}

// New creates a Provider.
func New(skipInstall bool, dir string) *Provider {
	return &Provider{SkipInstall: skipInstall, Dir: dir, locate: locate}
}

func locate(install bool, dir string) (string, error) {
	opts := &playwright.RunOptions{Browsers: []string{"chromium"}}
	if dir != "" {
		opts.DriverDirectory = filepath.Join(dir, "driver")
		// The driver subprocess inherits the environment and reads its browser cache from it.
		if _, set := os.LookupEnv("PLAYWRIGHT_BROWSERS_PATH"); !set {
			if err := os.Setenv("PLAYWRIGHT_BROWSERS_PATH", filepath.Join(dir, "browsers")); err != nil {
				return "", fmt.Errorf("set browsers path: %w", err)
			}
		}
	}
	if install {
		if err := playwright.Install(opts); err != nil {
			return "", fmt.Errorf("install chromium: %w", err)
		}
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return "", fmt.Errorf("start playwright driver: %w", err)
	}
	defer pw.Stop()

	return pw.Chromium.ExecutablePath(), nil
}

// Name implements ports.BinaryProvider.
func (p *Provider) Name() string {
	return "playwright"
}

// Provide implements ports.BinaryProvider.
func (p *Provider) Provide(ctx context.Context) (ports.BinaryConfig, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.path == "" {
		if err := ctx.Err(); err != nil {
			return ports.BinaryConfig{}, err
		}
		path, err := p.locate(!p.SkipInstall, p.Dir)
		if err != nil {
			return ports.BinaryConfig{}, err
		}
		p.path = path
	}
	return ports.BinaryConfig{ExecutablePath: p.path}, nil
}

var _ ports.BinaryProvider = (*Provider)(nil)
