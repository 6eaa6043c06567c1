// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
)

// Browser is an exclusively owned headless browser process plus one page in it.
// A Browser is created per render and closed exactly once, whatever the outcome.
type Browser interface {
	// Launch starts the browser process with the given options.
	Launch(ctx context.Context, opts BrowserOptions) error

	// SetViewport sizes the page in CSS pixels.
	SetViewport(ctx context.Context, width, height int, deviceScaleFactor float64) error

	// SetRequestFilter intercepts every in-page request and lets the filter
	// allow or abort it. Must be called before Navigate.
	SetRequestFilter(ctx context.Context, filter RequestFilter) error

	// Navigate loads url and returns once both DOMContentLoaded and load have fired.
	Navigate(ctx context.Context, url string) error

	// WaitVisible blocks until selector matches a visible element.
	WaitVisible(ctx context.Context, selector string) error

	// WaitImages resolves once every image under scopeSelector has loaded or failed.
	// An empty scopeSelector covers the whole document.
	WaitImages(ctx context.Context, scopeSelector string) (ImageSettlement, error)

	// ElementBox reads the page-space bounds of the first element matching selector.
	// found is false when no element matches.
	ElementBox(ctx context.Context, selector string) (box BoundingBox, found bool, err error)

	// CaptureRegion captures a PNG clipped to box.
	CaptureRegion(ctx context.Context, box BoundingBox) ([]byte, error)

	// Close shuts down the browser. Safe to call more than once and concurrently with Launch.
	Close() error
}

// BrowserOptions configures browser launch settings.
type BrowserOptions struct {
	ExecutablePath    string
	Args              []string // Command-line switches in --name[=value] form
	Headless          bool
	IgnoreHTTPSErrors bool
	WindowWidth       int
	WindowHeight      int
}

// RequestFilter decides whether an intercepted request may proceed.
// resourceType is the browser's resource type name (e.g. "Image", "Media").
type RequestFilter interface {
	Allow(resourceType string) bool
}

// BoundingBox is a rectangle in page coordinates.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether the box has no area.
func (b BoundingBox) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// ImageSettlement counts images by how they settled.
type ImageSettlement struct {
	Total  int `json:"total"`
	Loaded int `json:"loaded"`
	Failed int `json:"failed"`
}
