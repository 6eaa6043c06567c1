// Package app wires configuration to adapters, stages and transports.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/user/mdposter/pkg/adapters/chromebrowser"
	"github.com/user/mdposter/pkg/adapters/filesink"
	"github.com/user/mdposter/pkg/adapters/ggrenderer"
	"github.com/user/mdposter/pkg/adapters/localstore"
	"github.com/user/mdposter/pkg/adapters/logger"
	"github.com/user/mdposter/pkg/adapters/nullsink"
	"github.com/user/mdposter/pkg/adapters/osfilesystem"
	"github.com/user/mdposter/pkg/adapters/playwrightprovider"
	"github.com/user/mdposter/pkg/adapters/rodprovider"
	"github.com/user/mdposter/pkg/adapters/s3store"
	"github.com/user/mdposter/pkg/config"
	"github.com/user/mdposter/pkg/orchestrator"
	"github.com/user/mdposter/pkg/pipeline"
	"github.com/user/mdposter/pkg/ports"
	"github.com/user/mdposter/pkg/posterpage"
	"github.com/user/mdposter/pkg/profile"
	"github.com/user/mdposter/pkg/server"
	"github.com/user/mdposter/pkg/stages/capture"
	"github.com/user/mdposter/pkg/stages/encode"
	"github.com/user/mdposter/pkg/stages/launch"
	"github.com/user/mdposter/pkg/stages/readiness"
)

// App holds the wired service.
type App struct {
	Config       config.Config
	Logger       ports.Logger
	Orchestrator *orchestrator.Orchestrator
	Page         *posterpage.Page
	// Store is nil in inline output mode.
	Store ports.ImageStore

	closers []io.Closer
}

// NewLogger builds the logger selected by cfg. The returned closer releases a log file, if any.
func NewLogger(cfg config.LogConfig, quiet bool) (ports.Logger, io.Closer, error) {
	level := ports.ParseLogLevel(cfg.Level)
	if quiet || level == ports.LevelQuiet {
		return logger.NewNoop(), nopCloser{}, nil
	}

	if cfg.File != "" {
		w := logger.RotatingFile(cfg.File, 50, 5, 14)
		return logger.NewStructured(level, w), w, nil
	}
	if cfg.Format == "json" {
		return logger.NewStructured(level, os.Stderr), nopCloser{}, nil
	}
	return logger.NewConsole(level), nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// BinaryProvider returns the production browser provider selected by cfg.
func BinaryProvider(cfg config.Config) ports.BinaryProvider {
	switch cfg.Provider {
	case "playwright":
		return playwrightprovider.New(false, cfg.BrowserPath())
	default:
		return rodprovider.New(cfg.BrowserPath())
	}
}

// Strategies returns the launch strategy for each mode.
func Strategies(cfg config.Config) profile.Strategies {
	return profile.Strategies{
		profile.ModeProduction:  profile.NewProduction(BinaryProvider(cfg)),
		profile.ModeDevelopment: profile.NewDevelopment(chromebrowser.ResolveExecutable),
	}
}

// NewStore returns the persist backend for cfg, or nil in inline mode.
func NewStore(ctx context.Context, cfg config.Config) (ports.ImageStore, error) {
	if pipeline.OutputMode(cfg.Output.Mode) == pipeline.OutputInline {
		return nil, nil
	}
	switch cfg.Output.Store {
	case "s3":
		s3cfg := cfg.Output.S3
		store, err := s3store.New(ctx, s3store.Options{
			Bucket:    s3cfg.Bucket,
			Region:    s3cfg.Region,
			Endpoint:  s3cfg.Endpoint,
			Prefix:    s3cfg.Prefix,
			PublicURL: s3cfg.PublicURL,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return localstore.New(cfg.OutputDir(), cfg.ImageURLPrefix(), osfilesystem.New()), nil
	}
}

// Build validates cfg and wires the render pipeline.
func Build(ctx context.Context, cfg config.Config, log ports.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create image store: %w", err)
	}

	fs := osfilesystem.New()
	var sink ports.DebugSink = nullsink.New()
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return nil, fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs)
	}

	strategies := map[pipeline.OutputMode]encode.Strategy{
		pipeline.OutputInline: encode.NewInline(),
	}
	if store != nil {
		strategies[pipeline.OutputPersist] = encode.NewPersist(store)
	}

	orch := orchestrator.New(
		func() ports.Browser { return chromebrowser.New(log) },
		launch.New(Strategies(cfg), log),
		readiness.New(log),
		capture.New(log),
		encode.NewStage(strategies, ggrenderer.New(), log),
		sink,
		log,
		cfg.ToOrchestratorConfig(),
	)

	return &App{
		Config:       cfg,
		Logger:       log,
		Orchestrator: orch,
		Page:         posterpage.New(log),
		Store:        store,
	}, nil
}

// Generator returns the transport-independent request handler.
func (a *App) Generator() *server.Generator {
	return server.NewGenerator(a.Orchestrator, a.Config.Environment(), a.Logger)
}

// Server returns the HTTP server for the configured address.
func (a *App) Server() *server.Server {
	opts := server.Options{
		Addr:              a.Config.Server.Addr,
		MaxBodyBytes:      a.Config.Server.MaxBodyBytes,
		RequestTimeout:    a.Config.Render.RequestTimeout,
		ReadHeaderTimeout: a.Config.Server.ReadHeaderTimeout,
		IdleTimeout:       a.Config.Server.IdleTimeout,
	}
	if _, local := a.Store.(*localstore.Store); local && !a.Config.Production() {
		opts.UploadsDir = a.Config.OutputDir()
	}
	return server.New(a.Generator(), a.Page, a.Store, opts, a.Logger)
}

// AddCloser registers c to be closed by Close.
func (a *App) AddCloser(c io.Closer) {
	a.closers = append(a.closers, c)
}

// Close releases resources registered with AddCloser.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}
