// Package orchestrator runs one poster render end to end.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/user/mdposter/pkg/governor"
	"github.com/user/mdposter/pkg/pipeline"
	"github.com/user/mdposter/pkg/policy"
	"github.com/user/mdposter/pkg/ports"
)

// DefaultBaseURL is where the poster page is expected when none is configured.
const DefaultBaseURL = "http://localhost:3000"

// Config contains all configuration for the orchestrator.
type Config struct {
	// Budgets
	RequestTimeout    time.Duration
	NavigationTimeout time.Duration
	MarkerTimeout     time.Duration
	ImageCeiling      time.Duration

	// Page
	ViewportWidth     int
	ViewportHeight    int
	DeviceScaleFactor float64
	MarkerSelector    string
	ImageScope        pipeline.ImageScope
	BlockedClasses    []policy.Class

	// Output
	OutputMode  pipeline.OutputMode
	PostProcess pipeline.PostProcess

	// MaxConcurrent caps simultaneous sessions. Zero derives it from GOMAXPROCS.
	MaxConcurrent int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		RequestTimeout:    30 * time.Second,
		NavigationTimeout: 15 * time.Second,
		MarkerTimeout:     10 * time.Second,
		ImageCeiling:      5 * time.Second,

		ViewportWidth:     pipeline.DefaultViewportWidth,
		ViewportHeight:    pipeline.DefaultViewportHeight,
		DeviceScaleFactor: 1,
		MarkerSelector:    pipeline.DefaultMarkerSelector,
		ImageScope:        pipeline.ImageScopeMarker,
		BlockedClasses:    policy.DefaultBlocked,

		OutputMode: pipeline.OutputPersist,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = d.NavigationTimeout
	}
	if c.MarkerTimeout <= 0 {
		c.MarkerTimeout = d.MarkerTimeout
	}
	if c.ImageCeiling <= 0 {
		c.ImageCeiling = d.ImageCeiling
	}
	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		c.ViewportWidth, c.ViewportHeight = d.ViewportWidth, d.ViewportHeight
	}
	if c.DeviceScaleFactor <= 0 {
		c.DeviceScaleFactor = d.DeviceScaleFactor
	}
	if c.MarkerSelector == "" {
		c.MarkerSelector = d.MarkerSelector
	}
	if c.ImageScope == "" {
		c.ImageScope = d.ImageScope
	}
	if c.OutputMode == "" {
		c.OutputMode = d.OutputMode
	}
	return c
}

// ResolveConcurrency returns n when positive, otherwise GOMAXPROCS/2 clamped to [1, 8].
// Each session is a full browser process, so the ceiling stays well below the CPU count.
func ResolveConcurrency(n int) int {
	if n > 0 {
		return n
	}
	n = runtime.GOMAXPROCS(0) / 2
	if n < 1 {
		n = 1
	}
	if n > 8 {
		n = 8
	}
	return n
}

// SessionFactory creates a fresh, unlaunched browser session.
type SessionFactory func() ports.Browser

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	newSession     SessionFactory
	launchStage    pipeline.Stage[pipeline.LaunchInput, pipeline.LaunchResult]
	readinessStage pipeline.Stage[pipeline.ReadinessInput, pipeline.ReadinessResult]
	captureStage   pipeline.Stage[pipeline.CaptureInput, pipeline.CaptureResult]
	encodeStage    pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult]
	sink           ports.DebugSink
	logger         ports.Logger

	config  Config
	policy  *policy.Policy
	limiter *semaphore.Weighted
}

// New creates a new Orchestrator.
func New(
	newSession SessionFactory,
	launchStage pipeline.Stage[pipeline.LaunchInput, pipeline.LaunchResult],
	readinessStage pipeline.Stage[pipeline.ReadinessInput, pipeline.ReadinessResult],
	captureStage pipeline.Stage[pipeline.CaptureInput, pipeline.CaptureResult],
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult],
	sink ports.DebugSink,
	logger ports.Logger,
	config Config,
) *Orchestrator {
	config = config.withDefaults()
	return &Orchestrator{
		newSession:     newSession,
		launchStage:    launchStage,
		readinessStage: readinessStage,
		captureStage:   captureStage,
		encodeStage:    encodeStage,
		sink:           sink,
		logger:         logger,
		config:         config,
		policy:         policy.New(config.BlockedClasses...),
		limiter:        semaphore.NewWeighted(int64(ResolveConcurrency(config.MaxConcurrent))),
	}
}

// Config returns the orchestrator's configuration.
func (o *Orchestrator) Config() Config {
	return o.config
}

// PosterURL builds {baseURL}/poster?content={markdown}.
func PosterURL(baseURL, markdown string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return strings.TrimRight(baseURL, "/") + "/poster?content=" + url.QueryEscape(markdown)
}

// Render runs launch → readiness → capture → encode for one request.
// Empty markdown is rejected before any session exists. Otherwise exactly one
// session is created and closed exactly once, on every exit path.
func (o *Orchestrator) Render(ctx context.Context, req pipeline.RenderRequest) (pipeline.RenderResult, error) {
	result, _, err := o.RenderWithReport(ctx, req)
	return result, err
}

// RenderWithReport is Render that also returns the measurements of the run.
// The report is zero when the request is rejected before rendering starts.
func (o *Orchestrator) RenderWithReport(ctx context.Context, req pipeline.RenderRequest) (pipeline.RenderResult, Report, error) {
	if req.Markdown == "" {
		return pipeline.RenderResult{}, Report{}, fmt.Errorf("%w: markdown is required", pipeline.ErrClientInput)
	}

	requestID := uuid.NewString()[:8]
	log := o.logger.WithField("request", requestID)
	start := time.Now()
	report := Report{RequestID: requestID, Production: req.Environment.Production, MarkdownBytes: len(req.Markdown)}

	ctx, cancel := governor.WithBudget(ctx, o.config.RequestTimeout)
	defer cancel()

	log.Info("Rendering poster (%d bytes of markdown)", len(req.Markdown))

	result, err := o.render(ctx, req, log, &report)

	report.TotalMs = int(time.Since(start).Milliseconds())
	if err != nil {
		report.Error = err.Error()
		report.ErrorKind = string(pipeline.KindOf(err))
		log.Error("Render failed after %d ms: %v", report.TotalMs, err)
	} else {
		report.ResultKind = string(result.Kind)
		log.Info("Poster rendered in %d ms", report.TotalMs)
	}
	o.saveReport(log, report)

	return result, report, err
}

func (o *Orchestrator) render(ctx context.Context, req pipeline.RenderRequest, log ports.Logger, report *Report) (pipeline.RenderResult, error) {
	if err := o.limiter.Acquire(ctx, 1); err != nil {
		return pipeline.RenderResult{}, fmt.Errorf("%w: no render slot became free within the request budget", pipeline.ErrRenderTimeout)
	}
	defer o.limiter.Release(1)

	session := o.newSession()
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn("Failed to close browser: %v", err)
		}
		log.Debug("Browser closed")
	}()

	// 1. Launch
	launched, err := o.launchStage.Execute(ctx, pipeline.LaunchInput{
		Session:     session,
		Environment: req.Environment,
	})
	if err != nil {
		return pipeline.RenderResult{}, fmt.Errorf("launch stage: %w", err)
	}
	report.LaunchMs = launched.DurationMs
	report.ProfileSource = launched.Profile.Source

	// 2. Navigate and wait for readiness
	filter := policy.NewCounter(o.policy)
	ready, err := o.readinessStage.Execute(ctx, pipeline.ReadinessInput{
		Session:           session,
		URL:               PosterURL(req.Environment.BaseURL, req.Markdown),
		ViewportWidth:     o.config.ViewportWidth,
		ViewportHeight:    o.config.ViewportHeight,
		DeviceScaleFactor: o.config.DeviceScaleFactor,
		MarkerSelector:    o.config.MarkerSelector,
		ImageScope:        o.config.ImageScope,
		Filter:            filter,
		NavigationTimeout: o.config.NavigationTimeout,
		MarkerTimeout:     o.config.MarkerTimeout,
		ImageCeiling:      o.config.ImageCeiling,
	})
	report.RequestsAllowed, report.RequestsAborted = filter.Counts()
	if err != nil {
		return pipeline.RenderResult{}, fmt.Errorf("readiness stage: %w", err)
	}
	report.NavigationMs = ready.NavigationMs
	report.MarkerMs = ready.MarkerMs
	report.ImagesMs = ready.ImagesMs
	report.Images = ready.Images
	report.ImagesTimedOut = ready.ImagesTimedOut

	// 3. Capture
	captured, err := o.captureStage.Execute(ctx, pipeline.CaptureInput{
		Session:        session,
		MarkerSelector: o.config.MarkerSelector,
	})
	if err != nil {
		return pipeline.RenderResult{}, fmt.Errorf("capture stage: %w", err)
	}
	report.Box = &captured.Box
	o.saveCapture(log, report.RequestID, captured)

	// 4. Encode
	encoded, err := o.encodeStage.Execute(ctx, pipeline.EncodeInput{
		Data:        captured.Data,
		Mode:        o.config.OutputMode,
		PostProcess: o.config.PostProcess,
	})
	if err != nil {
		return pipeline.RenderResult{}, fmt.Errorf("encode stage: %w", err)
	}
	report.OutputBytes = encoded.Size

	return encoded.Result, nil
}

func (o *Orchestrator) saveCapture(log ports.Logger, requestID string, captured pipeline.CaptureResult) {
	if !o.sink.Enabled() {
		return
	}
	if err := o.sink.SaveCapture(requestID, captured.Data); err != nil {
		log.Warn("Failed to save debug output: %v", err)
	}
	if data, err := json.MarshalIndent(captured.Box, "", "  "); err == nil {
		if err := o.sink.SaveBoundingBox(requestID, data); err != nil {
			log.Warn("Failed to save debug output: %v", err)
		}
	}
}

func (o *Orchestrator) saveReport(log ports.Logger, report Report) {
	if !o.sink.Enabled() {
		return
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return
	}
	if err := o.sink.SaveReport(report.RequestID, data); err != nil {
		log.Warn("Failed to save debug output: %v", err)
	}
}

// Report summarises one render for the debug sink.
type Report struct {
	RequestID     string `json:"requestId"`
	Production    bool   `json:"production"`
	MarkdownBytes int    `json:"markdownBytes"`
	ProfileSource string `json:"profileSource,omitempty"`

	LaunchMs     int `json:"launchMs"`
	NavigationMs int `json:"navigationMs"`
	MarkerMs     int `json:"markerMs"`
	ImagesMs     int `json:"imagesMs"`
	TotalMs      int `json:"totalMs"`

	Images          ports.ImageSettlement `json:"images"`
	ImagesTimedOut  bool                  `json:"imagesTimedOut"`
	RequestsAllowed int64                 `json:"requestsAllowed"`
	RequestsAborted int64                 `json:"requestsAborted"`

	Box         *ports.BoundingBox `json:"box,omitempty"`
	OutputBytes int                `json:"outputBytes,omitempty"`
	ResultKind  string             `json:"resultKind,omitempty"`
	Error       string             `json:"error,omitempty"`
	ErrorKind   string             `json:"errorKind,omitempty"`
}
