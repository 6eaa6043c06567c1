// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"sync"

	"github.com/user/mdposter/pkg/ports"
)

// Browser is a mock implementation of ports.Browser.
// It records the order of calls so tests can assert on stage ordering.
type Browser struct {
	LaunchFunc           func(ctx context.Context, opts ports.BrowserOptions) error
	SetViewportFunc      func(ctx context.Context, width, height int, deviceScaleFactor float64) error
	SetRequestFilterFunc func(ctx context.Context, filter ports.RequestFilter) error
	NavigateFunc         func(ctx context.Context, url string) error
	WaitVisibleFunc      func(ctx context.Context, selector string) error
	WaitImagesFunc       func(ctx context.Context, scopeSelector string) (ports.ImageSettlement, error)
	ElementBoxFunc       func(ctx context.Context, selector string) (ports.BoundingBox, bool, error)
	CaptureRegionFunc    func(ctx context.Context, box ports.BoundingBox) ([]byte, error)
	CloseFunc            func() error

	mu    sync.Mutex
	calls []string
}

func (m *Browser) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

// Calls returns the names of the methods called so far, in order.
func (m *Browser) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Count returns how many times the named method was called.
func (m *Browser) Count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *Browser) Launch(ctx context.Context, opts ports.BrowserOptions) error {
	m.record("Launch")
	if m.LaunchFunc != nil {
		return m.LaunchFunc(ctx, opts)
	}
	return nil
}

func (m *Browser) SetViewport(ctx context.Context, width, height int, deviceScaleFactor float64) error {
	m.record("SetViewport")
	if m.SetViewportFunc != nil {
		return m.SetViewportFunc(ctx, width, height, deviceScaleFactor)
	}
	return nil
}

func (m *Browser) SetRequestFilter(ctx context.Context, filter ports.RequestFilter) error {
	m.record("SetRequestFilter")
	if m.SetRequestFilterFunc != nil {
		return m.SetRequestFilterFunc(ctx, filter)
	}
	return nil
}

func (m *Browser) Navigate(ctx context.Context, url string) error {
	m.record("Navigate")
	if m.NavigateFunc != nil {
		return m.NavigateFunc(ctx, url)
	}
	return nil
}

func (m *Browser) WaitVisible(ctx context.Context, selector string) error {
	m.record("WaitVisible")
	if m.WaitVisibleFunc != nil {
		return m.WaitVisibleFunc(ctx, selector)
	}
	return nil
}

func (m *Browser) WaitImages(ctx context.Context, scopeSelector string) (ports.ImageSettlement, error) {
	m.record("WaitImages")
	if m.WaitImagesFunc != nil {
		return m.WaitImagesFunc(ctx, scopeSelector)
	}
	return ports.ImageSettlement{}, nil
}

func (m *Browser) ElementBox(ctx context.Context, selector string) (ports.BoundingBox, bool, error) {
	m.record("ElementBox")
	if m.ElementBoxFunc != nil {
		return m.ElementBoxFunc(ctx, selector)
	}
	return ports.BoundingBox{Width: 800, Height: 600}, true, nil
}

func (m *Browser) CaptureRegion(ctx context.Context, box ports.BoundingBox) ([]byte, error) {
	m.record("CaptureRegion")
	if m.CaptureRegionFunc != nil {
		return m.CaptureRegionFunc(ctx, box)
	}
	return []byte("png"), nil
}

func (m *Browser) Close() error {
	m.record("Close")
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var _ ports.Browser = (*Browser)(nil)
