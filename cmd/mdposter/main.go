// Package main provides the CLI entry point for mdposter.
package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/user/mdposter/pkg/adapters/osfilesystem"
	"github.com/user/mdposter/pkg/app"
	"github.com/user/mdposter/pkg/config"
	"github.com/user/mdposter/pkg/pipeline"
	"github.com/user/mdposter/pkg/ports"
	"github.com/user/mdposter/pkg/posterpage"
	"github.com/user/mdposter/pkg/summarizer"
)

var version = "dev"

const (
	catConfig  = "Configuration"
	catServer  = "Server"
	catBrowser = "Browser"
	catOutput  = "Output"
	catDebug   = "Debug"
	catLogging = "Logging"
)

func main() {
	cliApp := &cli.App{
		Name:        "mdposter",
		Usage:       l10n.T("Render Markdown as poster images"),
		Description: l10n.T("mdposter renders Markdown in a headless browser and returns the poster as an image URL."),
		Flags:       commonFlags(),
		Commands:    []*cli.Command{serveCommand(), renderCommand(), versionCommand()},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML configuration file"), Category: l10n.T(catConfig)},
		&cli.StringFlag{Name: "env-file", Value: ".env", Usage: l10n.T("Environment file loaded before MDPOSTER_* variables"), Category: l10n.T(catConfig)},
		&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: l10n.T("Deployment mode (development, production)"), Category: l10n.T(catConfig)},

		&cli.StringFlag{Name: "chrome-path", Usage: l10n.T("Path to Chrome executable"), Category: l10n.T(catBrowser)},
		&cli.StringFlag{Name: "provider", Usage: l10n.T("Production browser provider (rod, playwright)"), Category: l10n.T(catBrowser)},
		&cli.StringFlag{Name: "browser-dir", Usage: l10n.T("Directory the provider downloads the browser into"), Category: l10n.T(catBrowser)},
		&cli.DurationFlag{Name: "timeout", Usage: l10n.T("Overall render budget per request"), Category: l10n.T(catBrowser)},
		&cli.IntFlag{Name: "max-concurrent", Usage: l10n.T("Maximum simultaneous browser sessions (0 = auto)"), Category: l10n.T(catBrowser)},

		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Enable debug output"), Category: l10n.T(catDebug)},
		&cli.StringFlag{Name: "debug-dir", Usage: l10n.T("Directory for debug output"), Category: l10n.T(catDebug)},

		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: l10n.T("Log level (debug, info, warn, error)"), Category: l10n.T(catLogging)},
		&cli.StringFlag{Name: "log-format", Usage: l10n.T("Log format (console, json)"), Category: l10n.T(catLogging)},
		&cli.StringFlag{Name: "log-file", Usage: l10n.T("Write JSON logs to a rotating file"), Category: l10n.T(catLogging)},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all log output"), Category: l10n.T(catLogging)},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:        "serve",
		Usage:       l10n.T("Run the poster HTTP service"),
		Description: l10n.T("Serve the generate endpoint, the poster page and persisted images."),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: l10n.T("Listen address"), Category: l10n.T(catServer)},
			&cli.StringFlag{Name: "base-url", Usage: l10n.T("Public base URL the browser loads the poster page from"), Category: l10n.T(catServer)},
			&cli.Int64Flag{Name: "max-body-bytes", Usage: l10n.T("Maximum request body size in bytes"), Category: l10n.T(catServer)},
			&cli.StringFlag{Name: "output-mode", Usage: l10n.T("Result form (persist, inline)"), Category: l10n.T(catOutput)},
			&cli.StringFlag{Name: "output-dir", Usage: l10n.T("Directory persisted posters are written to"), Category: l10n.T(catOutput)},
		},
		Action: runServe,
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:        "render",
		Usage:       l10n.T("Render a Markdown file to a poster image"),
		Description: l10n.T("Render FILE (or stdin when FILE is - or omitted) and write the poster image."),
		ArgsUsage:   "[FILE]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: l10n.T("Output image file path (required)"), Category: l10n.T(catOutput)},
			&cli.StringFlag{Name: "format", Usage: l10n.T("Image format (png, jpeg)"), Category: l10n.T(catOutput)},
			&cli.IntFlag{Name: "max-width", Usage: l10n.T("Downscale posters wider than this (0 = keep)"), Category: l10n.T(catOutput)},
			&cli.IntFlag{Name: "padding", Usage: l10n.T("Padding around the poster in pixels"), Category: l10n.T(catOutput)},
			&cli.StringFlag{Name: "background", Usage: l10n.T("Background color (hex, e.g., #ffffff)"), Category: l10n.T(catOutput)},
			&cli.StringFlag{Name: "summary", Usage: l10n.T("Output render summary to file (Markdown format)"), Category: l10n.T(catOutput)},
			&cli.StringFlag{Name: "base-url", Usage: l10n.T("Load the poster page from this server instead of a local one"), Category: l10n.T(catServer)},
		},
		Action: runRender,
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: l10n.T("Show version information"),
		Action: func(*cli.Context) error {
			fmt.Println(l10n.F("mdposter version %s", version))
			return nil
		},
	}
}

// loadConfig layers defaults, the config file, .env, MDPOSTER_* variables and flags.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return cfg, err
		}
	}
	if err := config.LoadEnvFiles(c.String("env-file")); err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	str := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	str("mode", &cfg.Mode)
	str("chrome-path", &cfg.ChromePath)
	str("provider", &cfg.Provider)
	str("browser-dir", &cfg.BrowserDir)
	str("debug-dir", &cfg.DebugDir)
	str("log-level", &cfg.Log.Level)
	str("log-format", &cfg.Log.Format)
	str("log-file", &cfg.Log.File)
	str("addr", &cfg.Server.Addr)
	str("base-url", &cfg.BaseURL)
	str("output-mode", &cfg.Output.Mode)
	str("output-dir", &cfg.Output.Dir)
	str("format", &cfg.Output.Format)
	str("background", &cfg.Output.Background)

	if c.IsSet("timeout") {
		cfg.Render.RequestTimeout = c.Duration("timeout")
	}
	if c.IsSet("max-concurrent") {
		cfg.Render.MaxConcurrent = c.Int("max-concurrent")
	}
	if c.IsSet("max-body-bytes") {
		cfg.Server.MaxBodyBytes = c.Int64("max-body-bytes")
	}
	if c.IsSet("max-width") {
		cfg.Output.MaxWidth = c.Int("max-width")
	}
	if c.IsSet("padding") {
		cfg.Output.Padding = c.Int("padding")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	return cfg, nil
}

// setup loads configuration, builds the logger and tunes GOMAXPROCS.
func setup(c *cli.Context) (config.Config, ports.Logger, io.Closer, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return cfg, nil, nil, err
	}
	log, closer, err := app.NewLogger(cfg.Log, c.Bool("quiet"))
	if err != nil {
		return cfg, nil, nil, err
	}

	// maxprocs.Set fails only on an invalid GOMAXPROCS value, where the runtime default applies.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Debug(format, args...)
	}))
	return cfg, log, closer, nil
}

func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn(l10n.T("Interrupted, shutting down..."))
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

func runServe(c *cli.Context) error {
	cfg, log, closer, err := setup(c)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := signalContext(log)
	defer cancel()

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	log.Info(l10n.F("Starting mdposter %s in %s mode", version, cfg.Mode))
	return a.Server().Start(ctx)
}

func runRender(c *cli.Context) error {
	cfg, log, closer, err := setup(c)
	if err != nil {
		return err
	}
	defer closer.Close()

	source := c.Args().First()
	markdown, err := readMarkdown(source)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(log)
	defer cancel()

	// The image is written locally, so nothing is persisted.
	cfg.Output.Mode = string(pipeline.OutputInline)

	if !c.IsSet("base-url") {
		ps, err := app.StartPosterServer(posterpage.New(log), log)
		if err != nil {
			return fmt.Errorf("start poster page server: %w", err)
		}
		defer ps.Close()
		cfg.BaseURL = ps.BaseURL
	}

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	fs := osfilesystem.New()
	result, report, err := a.Orchestrator.RenderWithReport(ctx, pipeline.RenderRequest{
		Markdown:    markdown,
		Environment: cfg.Environment(),
	})

	output := c.String("output")
	builder := summarizer.NewBuilder().
		WithSource(source, len(markdown)).
		WithReport(report).
		WithImageCeiling(cfg.Render.ImageTimeout).
		WithSettings(summarizer.Settings{
			Mode:           cfg.Mode,
			ViewportWidth:  cfg.Render.ViewportWidth,
			ViewportHeight: cfg.Render.ViewportHeight,
			ScaleFactor:    cfg.Render.DeviceScaleFactor,
			Format:         cfg.Output.Format,
		})

	if err == nil {
		err = writeImage(fs, output, result.Value)
	}
	if err == nil {
		if info, statErr := os.Stat(output); statErr == nil {
			builder.WithOutput(output, info.Size())
		}
		log.Info(l10n.F("Output saved to %s", output))
	}

	if path := c.String("summary"); path != "" {
		w := summarizer.NewWriter(summarizer.NewMarkdownFormatter(
			summarizer.WithTranslator(l10n.T),
			summarizer.WithVersion(version),
		), fs)
		if werr := w.Write(path, builder.Build()); werr != nil {
			log.Warn(l10n.F("Failed to write summary: %s", werr.Error()))
		} else {
			log.Info(l10n.F("Summary saved to %s", path))
		}
	}
	return err
}

func writeImage(fs ports.FileSystem, path, dataURI string) error {
	data, err := decodeDataURI(dataURI)
	if err != nil {
		return err
	}
	if err := fs.WriteFile(path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func readMarkdown(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read markdown: %w", err)
	}
	return string(data), nil
}

// decodeDataURI returns the payload of a base64 data URI.
func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, errors.New("renderer did not return an inline image")
	}
	return base64.StdEncoding.DecodeString(payload)
}
