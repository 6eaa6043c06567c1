// Package summarizer provides summary generation for poster renders.
package summarizer

import (
	"time"

	"github.com/user/mdposter/pkg/orchestrator"
)

// Summary contains all data collected during one render.
type Summary struct {
	// Metadata
	GeneratedAt time.Time
	RequestID   string

	// Source markdown
	Source SourceInfo

	// Timing results
	Timing TimingInfo

	// Page resources
	Resources ResourceInfo

	// Render settings
	Settings Settings

	// Image output details
	Output OutputInfo

	// Error is set when the render failed.
	Error string
}

// SourceInfo describes the rendered markdown.
type SourceInfo struct {
	Path  string
	Bytes int
}

// TimingInfo contains timing measurements.
type TimingInfo struct {
	LaunchMs     int
	NavigationMs int
	MarkerMs     int
	ImagesMs     int
	TotalMs      int

	ImagesTimedOut  bool
	ImageCeilingSec int
}

// ResourceInfo contains image settlement and request filter counts.
type ResourceInfo struct {
	Images          int
	ImagesLoaded    int
	ImagesFailed    int
	RequestsAllowed int64
	RequestsAborted int64
}

// Settings contains the render configuration.
type Settings struct {
	Mode           string
	ProfileSource  string
	ViewportWidth  int
	ViewportHeight int
	ScaleFactor    float64
	Format         string
}

// OutputInfo contains information about the poster image.
type OutputInfo struct {
	Path     string
	FileSize int64
	Width    int
	Height   int
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSource sets the markdown source.
func (b *Builder) WithSource(path string, size int) *Builder {
	b.summary.Source = SourceInfo{Path: path, Bytes: size}
	return b
}

// WithReport copies the measurements of a finished render.
func (b *Builder) WithReport(r orchestrator.Report) *Builder {
	b.summary.RequestID = r.RequestID
	b.summary.Timing.LaunchMs = r.LaunchMs
	b.summary.Timing.NavigationMs = r.NavigationMs
	b.summary.Timing.MarkerMs = r.MarkerMs
	b.summary.Timing.ImagesMs = r.ImagesMs
	b.summary.Timing.TotalMs = r.TotalMs
	b.summary.Timing.ImagesTimedOut = r.ImagesTimedOut
	b.summary.Resources = ResourceInfo{
		Images:          r.Images.Total,
		ImagesLoaded:    r.Images.Loaded,
		ImagesFailed:    r.Images.Failed,
		RequestsAllowed: r.RequestsAllowed,
		RequestsAborted: r.RequestsAborted,
	}
	b.summary.Settings.ProfileSource = r.ProfileSource
	if r.Box != nil {
		b.summary.Output.Width = int(r.Box.Width)
		b.summary.Output.Height = int(r.Box.Height)
	}
	b.summary.Error = r.Error
	return b
}

// WithImageCeiling records the image wait ceiling.
func (b *Builder) WithImageCeiling(d time.Duration) *Builder {
	b.summary.Timing.ImageCeilingSec = int(d / time.Second)
	return b
}

// WithSettings sets render settings. A profile source already taken from a report is kept.
func (b *Builder) WithSettings(settings Settings) *Builder {
	if settings.ProfileSource == "" {
		settings.ProfileSource = b.summary.Settings.ProfileSource
	}
	b.summary.Settings = settings
	return b
}

// WithOutput sets the written image file.
func (b *Builder) WithOutput(path string, size int64) *Builder {
	b.summary.Output.Path = path
	b.summary.Output.FileSize = size
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
