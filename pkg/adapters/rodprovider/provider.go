// Package rodprovider supplies a managed Chromium build downloaded by go-rod's launcher.
package rodprovider

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	"golang.org/x/sync/semaphore"

	"github.com/user/mdposter/pkg/ports"
)

// dropped switches are either owned by the allocator or carried in BinaryConfig.Headless.
var dropped = map[string]bool{
	"headless":              true,
	"remote-debugging-port": true,
	"user-data-dir":         true,
}

// Provider implements ports.BinaryProvider.
type Provider struct {
	// Dir overrides where the browser is downloaded. Empty uses rod's default cache.
	Dir string

	download func(ctx context.Context, dir string) (string, error)

	// lock serializes downloads; waiters give up when their context ends.
	lock   *semaphore.Weighted
	cached *ports.BinaryConfig
}

// New creates a Provider.
func New(dir string) *Provider {
	return &Provider{Dir: dir, download: fetch, lock: semaphore.NewWeighted(1)}
}

func fetch(ctx context.Context, dir string) (string, error) {
	b := launcher.NewBrowser()
	b.Context = ctx
	if dir != "" {
		b.RootDir = dir
	}
	return b.Get()
}

// Name implements ports.BinaryProvider.
func (p *Provider) Name() string {
	return "rod"
}

// Provide downloads the browser on first use and caches the result. Failures are not cached.
func (p *Provider) Provide(ctx context.Context) (ports.BinaryConfig, error) {
	if err := p.lock.Acquire(ctx, 1); err != nil {
		return ports.BinaryConfig{}, err
	}
	defer p.lock.Release(1)

	if p.cached != nil {
		return *p.cached, nil
	}
	if err := ctx.Err(); err != nil {
		return ports.BinaryConfig{}, err
	}

	bin, err := p.download(ctx, p.Dir)
	if err != nil {
		return ports.BinaryConfig{}, fmt.Errorf("download chromium: %w", err)
	}

	headless := true
	cfg := ports.BinaryConfig{
		ExecutablePath: bin,
		Args:           recommendedArgs(),
		Headless:       &headless,
	}
	p.cached = &cfg
	return cfg, nil
}

// recommendedArgs returns rod's container-safe switch set minus the ones chromedp manages.
func recommendedArgs() []string {
	l := launcher.New().NoSandbox(true).Headless(true)

	var out []string
	for _, arg := range l.FormatArgs() {
		name, _, _ := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if dropped[name] || !strings.HasPrefix(arg, "--") {
			continue
		}
		out = append(out, arg)
	}
	return out
}

var _ ports.BinaryProvider = (*Provider)(nil)
