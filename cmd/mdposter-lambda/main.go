// Package main runs mdposter as an AWS Lambda function behind an API Gateway HTTP API.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/user/mdposter/pkg/app"
	"github.com/user/mdposter/pkg/config"
	"github.com/user/mdposter/pkg/pipeline"
	"github.com/user/mdposter/pkg/ports"
	"github.com/user/mdposter/pkg/posterpage"
	"github.com/user/mdposter/pkg/profile"
	"github.com/user/mdposter/pkg/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := lambdaConfig(os.LookupEnv)
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}

	log, closer, err := app.NewLogger(cfg.Log, false)
	if err != nil {
		return err
	}
	defer closer.Close()
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Debug(format, args...)
	}))

	// Without an external page host the function serves the poster page itself.
	if !hasEnv(os.LookupEnv, "MDPOSTER_BASE_URL") {
		ps, err := app.StartPosterServer(posterpage.New(log), log)
		if err != nil {
			return err
		}
		defer ps.Close()
		cfg.BaseURL = ps.BaseURL
	}

	a, err := app.Build(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	h := &handler{generator: a.Generator(), maxBodyBytes: cfg.Server.MaxBodyBytes, logger: log}
	lambda.Start(h.Handle)
	return nil
}

// lambdaConfig returns the defaults for a function deployment: production
// launch profile, inline results and JSON logs. MDPOSTER_* variables still win.
func lambdaConfig(lookup func(string) (string, bool)) config.Config {
	cfg := config.Defaults()
	cfg.Mode = string(profile.ModeProduction)
	cfg.Output.Mode = string(pipeline.OutputInline)
	cfg.Log.Format = "json"
	// One invocation at a time per instance.
	cfg.Render.MaxConcurrent = 1
	if hasEnv(lookup, "MDPOSTER_S3_BUCKET") {
		cfg.Output.Mode = string(pipeline.OutputPersist)
	}
	return cfg
}

// hasEnv reports whether name is set to a non-blank value. ApplyEnv ignores
// empty values, so an empty variable must not count as configured either.
func hasEnv(lookup func(string) (string, bool), name string) bool {
	v, ok := lookup(name)
	return ok && strings.TrimSpace(v) != ""
}

type handler struct {
	generator    *server.Generator
	maxBodyBytes int64
	logger       ports.Logger
}

// Handle maps an API Gateway HTTP event onto the generate contract.
func (h *handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.RequestContext.HTTP.Method != http.MethodPost {
		return respond(server.MethodNotAllowed())
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return respond(http.StatusBadRequest, server.Response{Error: "Invalid request", Details: "body is not valid base64"})
		}
		body = decoded
	}
	if h.maxBodyBytes > 0 && int64(len(body)) > h.maxBodyBytes {
		return respond(server.TooLarge(h.maxBodyBytes))
	}

	start := time.Now()
	code, resp := h.generator.Handle(ctx, header(req.Headers, "Content-Type"), body)
	h.logger.Info("%s %s -> %d (%d ms)", req.RequestContext.HTTP.Method, req.RawPath, code, time.Since(start).Milliseconds())
	return respond(code, resp)
}

// header looks a header up case-insensitively. API Gateway lower-cases names
// for HTTP APIs but test events often do not.
func header(headers map[string]string, name string) string {
	if v, ok := headers[strings.ToLower(name)]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func respond(code int, resp server.Response) (events.APIGatewayV2HTTPResponse, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: code,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(data),
	}, nil
}
