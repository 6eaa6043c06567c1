package pipeline

import (
	"image/color"
	"time"

	"github.com/user/mdposter/pkg/ports"
	"github.com/user/mdposter/pkg/profile"
)

// ============================================
// Request / Result
// ============================================

// Environment describes where the render runs.
type Environment struct {
	Production     bool
	BaseURL        string // Origin serving the poster page
	ExecutableHint string // Optional browser executable override
}

// RenderRequest is one poster render.
type RenderRequest struct {
	Markdown    string
	Environment Environment
}

// ResultKind tells how RenderResult.Value should be read.
type ResultKind string

const (
	KindURL        ResultKind = "url"
	KindInlineData ResultKind = "inlineData"
)

// RenderResult is the only value handed back to the caller.
type RenderResult struct {
	Kind  ResultKind
	Value string
}

// OutputMode selects the encoder strategy.
type OutputMode string

const (
	OutputPersist OutputMode = "persist"
	OutputInline  OutputMode = "inline"
)

// ImageScope controls which images the readiness waiter settles.
type ImageScope string

const (
	ImageScopeMarker ImageScope = "marker"
	ImageScopePage   ImageScope = "page"
)

// Defaults shared by the stages and configuration.
const (
	DefaultMarkerSelector = ".poster-content"
	DefaultViewportWidth  = 1200
	DefaultViewportHeight = 1600
)

// ============================================
// Launch Stage
// ============================================

// LaunchInput contains input for the launch stage.
type LaunchInput struct {
	Session     ports.Browser
	Environment Environment
}

// LaunchResult contains the outcome of a launch.
type LaunchResult struct {
	Profile    profile.LaunchProfile
	DurationMs int
}

// ============================================
// Readiness Stage
// ============================================

// ReadinessInput contains input for the navigation and readiness stage.
type ReadinessInput struct {
	Session           ports.Browser
	URL               string
	ViewportWidth     int
	ViewportHeight    int
	DeviceScaleFactor float64
	MarkerSelector    string
	ImageScope        ImageScope
	Filter            ports.RequestFilter

	NavigationTimeout time.Duration
	MarkerTimeout     time.Duration
	ImageCeiling      time.Duration
}

// DefaultReadinessInput returns a ReadinessInput with default values.
func DefaultReadinessInput() ReadinessInput {
	return ReadinessInput{
		ViewportWidth:     DefaultViewportWidth,
		ViewportHeight:    DefaultViewportHeight,
		DeviceScaleFactor: 1,
		MarkerSelector:    DefaultMarkerSelector,
		ImageScope:        ImageScopeMarker,
		NavigationTimeout: 15 * time.Second,
		MarkerTimeout:     10 * time.Second,
		ImageCeiling:      5 * time.Second,
	}
}

// ReadinessResult reports how the page settled.
type ReadinessResult struct {
	NavigationMs   int
	MarkerMs       int
	ImagesMs       int
	Images         ports.ImageSettlement
	ImagesTimedOut bool // Ceiling expired before every image settled
}

// ============================================
// Capture Stage
// ============================================

// CaptureInput contains input for the region capture stage.
type CaptureInput struct {
	Session        ports.Browser
	MarkerSelector string
}

// CaptureResult holds the clipped capture. Data lives only until encoding.
type CaptureResult struct {
	Box  ports.BoundingBox
	Data []byte // PNG
}

// ============================================
// Encode Stage
// ============================================

// PostProcess adjusts the capture before it is encoded.
// The zero value leaves the PNG untouched.
type PostProcess struct {
	MaxWidth   int
	Padding    int
	Background color.Color
	Format     ports.ImageFormat
	Quality    int
}

// IsZero reports whether no post-processing was requested.
func (p PostProcess) IsZero() bool {
	return p.MaxWidth <= 0 && p.Padding <= 0 && p.Format == ports.FormatPNG
}

// EncodeInput contains input for the encode stage.
type EncodeInput struct {
	Data        []byte
	Mode        OutputMode
	PostProcess PostProcess
}

// EncodeResult contains the caller-facing artifact.
type EncodeResult struct {
	Result      RenderResult
	ContentType string
	Size        int
}
