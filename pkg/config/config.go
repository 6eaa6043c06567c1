// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/mdposter/pkg/orchestrator"
	"github.com/user/mdposter/pkg/pipeline"
	"github.com/user/mdposter/pkg/policy"
	"github.com/user/mdposter/pkg/ports"
	"github.com/user/mdposter/pkg/profile"
)

// Config represents the full configuration for mdposter.
type Config struct {
	// Mode is "development" or "production".
	Mode       string `yaml:"mode"`
	BaseURL    string `yaml:"base_url"`
	ChromePath string `yaml:"chrome_path"`
	// Provider names the production binary provider: "rod" or "playwright".
	Provider string `yaml:"provider"`
	// BrowserDir is where providers download the browser. See BrowserPath.
	BrowserDir string `yaml:"browser_dir"`

	Server ServerConfig `yaml:"server"`
	Render RenderConfig `yaml:"render"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// ServerConfig represents HTTP server settings.
type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
}

// RenderConfig represents browser and budget settings.
type RenderConfig struct {
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	MarkerTimeout     time.Duration `yaml:"marker_timeout"`
	ImageTimeout      time.Duration `yaml:"image_timeout"`

	ViewportWidth     int     `yaml:"viewport_width"`
	ViewportHeight    int     `yaml:"viewport_height"`
	DeviceScaleFactor float64 `yaml:"device_scale_factor"`
	MarkerSelector    string  `yaml:"marker_selector"`
	ImageScope        string  `yaml:"image_scope"`

	BlockedResources []string `yaml:"blocked_resources"`
	MaxConcurrent    int      `yaml:"max_concurrent"`
}

// OutputConfig represents how rendered posters are returned.
type OutputConfig struct {
	// Mode is "persist" or "inline".
	Mode string `yaml:"mode"`
	// Store is "local" or "s3" and applies to persist mode.
	Store string `yaml:"store"`
	// Dir overrides the local output directory.
	Dir string `yaml:"dir"`

	MaxWidth   int    `yaml:"max_width"`
	Padding    int    `yaml:"padding"`
	Background string `yaml:"background"`
	Format     string `yaml:"format"`
	Quality    int    `yaml:"quality"`

	S3 S3Config `yaml:"s3"`
}

// S3Config represents the S3 persist backend.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	Prefix    string `yaml:"prefix"`
	PublicURL string `yaml:"public_url"`
}

// LogConfig represents logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	// Format is "console" or "json".
	Format string `yaml:"format"`
	// File, when set, receives JSON logs through a rotating writer.
	File string `yaml:"file"`
}

// Output directories used when output.dir is not set.
var (
	DevelopmentOutputDir = filepath.Join("public", "uploads", "posters")
	ProductionOutputDir  = filepath.Join(os.TempDir(), "uploads", "posters")
	ProductionBrowserDir = filepath.Join(os.TempDir(), "mdposter", "browser")
)

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Mode:     string(profile.ModeDevelopment),
		BaseURL:  orchestrator.DefaultBaseURL,
		Provider: "rod",

		Server: ServerConfig{
			Addr:              ":3000",
			MaxBodyBytes:      1 << 20,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},

		Render: RenderConfig{
			RequestTimeout:    30 * time.Second,
			NavigationTimeout: 15 * time.Second,
			MarkerTimeout:     10 * time.Second,
			ImageTimeout:      5 * time.Second,

			ViewportWidth:     pipeline.DefaultViewportWidth,
			ViewportHeight:    pipeline.DefaultViewportHeight,
			DeviceScaleFactor: 1,
			MarkerSelector:    pipeline.DefaultMarkerSelector,
			ImageScope:        string(pipeline.ImageScopeMarker),

			BlockedResources: []string{string(policy.ClassMedia), string(policy.ClassOther)},
		},

		Output: OutputConfig{
			Mode:       string(pipeline.OutputPersist),
			Store:      "local",
			Background: "#ffffff",
			Format:     "png",
		},

		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},

		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Production reports whether the production launch profile applies.
func (c Config) Production() bool {
	mode, err := profile.ParseMode(c.Mode)
	return err == nil && mode == profile.ModeProduction
}

// OutputDir returns the local directory persisted posters are written to.
func (c Config) OutputDir() string {
	if c.Output.Dir != "" {
		return c.Output.Dir
	}
	if c.Production() {
		return ProductionOutputDir
	}
	return DevelopmentOutputDir
}

// BrowserPath returns the provider download directory. Production defaults to a
// writable temp path since the home cache is read-only on Lambda. An empty
// result leaves the provider on its own cache.
func (c Config) BrowserPath() string {
	if c.BrowserDir != "" {
		return c.BrowserDir
	}
	if c.Production() {
		return ProductionBrowserDir
	}
	return ""
}

// Route prefixes persisted posters are served from.
const (
	DevelopmentImagePath = "/uploads/posters"
	ProductionImagePath  = "/api/images"
)

// ImageURLPrefix returns the URL prefix of locally persisted posters.
// Development serves the output directory statically; production goes through the image route.
func (c Config) ImageURLPrefix() string {
	base := strings.TrimRight(c.BaseURL, "/")
	if c.Production() {
		return base + ProductionImagePath
	}
	return base + DevelopmentImagePath
}

// Environment returns the per-request environment the orchestrator needs.
func (c Config) Environment() pipeline.Environment {
	return pipeline.Environment{
		Production:     c.Production(),
		BaseURL:        c.BaseURL,
		ExecutableHint: c.ChromePath,
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c Config) Validate() error {
	var errs []error

	if _, err := profile.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	switch c.Provider {
	case "rod", "playwright":
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q", c.Provider))
	}

	r := c.Render
	for name, d := range map[string]time.Duration{
		"render.request_timeout":    r.RequestTimeout,
		"render.navigation_timeout": r.NavigationTimeout,
		"render.marker_timeout":     r.MarkerTimeout,
		"render.image_timeout":      r.ImageTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	if r.ImageTimeout >= r.RequestTimeout {
		errs = append(errs, fmt.Errorf("render.image_timeout (%s) must be shorter than render.request_timeout (%s)", r.ImageTimeout, r.RequestTimeout))
	}
	if r.ViewportWidth <= 0 || r.ViewportHeight <= 0 {
		errs = append(errs, fmt.Errorf("viewport must be positive, got %dx%d", r.ViewportWidth, r.ViewportHeight))
	}
	if r.DeviceScaleFactor <= 0 {
		errs = append(errs, fmt.Errorf("render.device_scale_factor must be positive"))
	}
	if strings.TrimSpace(r.MarkerSelector) == "" {
		errs = append(errs, errors.New("render.marker_selector is required"))
	}
	switch pipeline.ImageScope(r.ImageScope) {
	case pipeline.ImageScopeMarker, pipeline.ImageScopePage:
	default:
		errs = append(errs, fmt.Errorf("unknown render.image_scope %q", r.ImageScope))
	}
	if _, err := c.blockedClasses(); err != nil {
		errs = append(errs, err)
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.max_body_bytes must be positive"))
	}

	switch pipeline.OutputMode(c.Output.Mode) {
	case pipeline.OutputPersist, pipeline.OutputInline:
	default:
		errs = append(errs, fmt.Errorf("unknown output.mode %q", c.Output.Mode))
	}
	switch c.Output.Store {
	case "local":
	case "s3":
		if c.Output.S3.Bucket == "" {
			errs = append(errs, errors.New("output.s3.bucket is required for the s3 store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown output.store %q", c.Output.Store))
	}
	switch c.Output.Format {
	case "png", "jpeg", "jpg":
	default:
		errs = append(errs, fmt.Errorf("unknown output.format %q", c.Output.Format))
	}
	if c.Output.MaxWidth < 0 || c.Output.Padding < 0 {
		errs = append(errs, errors.New("output.max_width and output.padding must not be negative"))
	}
	if c.Output.Quality < 0 || c.Output.Quality > 100 {
		errs = append(errs, fmt.Errorf("output.quality must be within 0..100, got %d", c.Output.Quality))
	}
	if _, err := ParseColor(c.Output.Background); err != nil {
		errs = append(errs, err)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error", "quiet", "none":
	default:
		errs = append(errs, fmt.Errorf("unknown log.level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

func (c Config) blockedClasses() ([]policy.Class, error) {
	classes := make([]policy.Class, 0, len(c.Render.BlockedResources))
	for _, name := range c.Render.BlockedResources {
		class, err := policy.ParseClass(name)
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}
	return classes, nil
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseColor(hex string) (color.Color, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return nil, fmt.Errorf("invalid colour %q", hex)
	}

	var v [4]uint8
	for i := range v {
		hi, ok1 := hexValue(s[2*i])
		lo, ok2 := hexValue(s[2*i+1])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("invalid colour %q", hex)
		}
		v[i] = hi<<4 | lo
	}
	return color.NRGBA{R: v[0], G: v[1], B: v[2], A: v[3]}, nil
}

func hexValue(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// ToOrchestratorConfig converts Config to orchestrator.Config. Call Validate first;
// invalid entries fall back to defaults here.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	blocked, err := c.blockedClasses()
	if err != nil {
		blocked = policy.DefaultBlocked
	}
	bg, err := ParseColor(c.Output.Background)
	if err != nil {
		bg = color.White
	}

	return orchestrator.Config{
		RequestTimeout:    c.Render.RequestTimeout,
		NavigationTimeout: c.Render.NavigationTimeout,
		MarkerTimeout:     c.Render.MarkerTimeout,
		ImageCeiling:      c.Render.ImageTimeout,

		ViewportWidth:     c.Render.ViewportWidth,
		ViewportHeight:    c.Render.ViewportHeight,
		DeviceScaleFactor: c.Render.DeviceScaleFactor,
		MarkerSelector:    c.Render.MarkerSelector,
		ImageScope:        pipeline.ImageScope(c.Render.ImageScope),
		BlockedClasses:    blocked,

		OutputMode: pipeline.OutputMode(c.Output.Mode),
		PostProcess: pipeline.PostProcess{
			MaxWidth:   c.Output.MaxWidth,
			Padding:    c.Output.Padding,
			Background: bg,
			Format:     ports.ParseImageFormat(c.Output.Format),
			Quality:    c.Output.Quality,
		},

		MaxConcurrent: c.Render.MaxConcurrent,
	}
}
