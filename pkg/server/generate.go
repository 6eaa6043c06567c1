package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/user/mdposter/pkg/hints"
	"github.com/user/mdposter/pkg/pipeline"
	"github.com/user/mdposter/pkg/ports"
)

// Renderer turns one request into a poster.
type Renderer interface {
	Render(ctx context.Context, req pipeline.RenderRequest) (pipeline.RenderResult, error)
}

// Response is the body of every generate response. Success carries only URL,
// which holds either a link or an inline data URI.
type Response struct {
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

const (
	msgMethodNotAllowed = "Only POST requests are supported"
	msgInvalidRequest   = "Invalid request"
	msgTooLarge         = "Request body too large"
	msgFailed           = "Failed to generate poster"
)

// MethodNotAllowed is the 405 payload.
func MethodNotAllowed() (int, Response) {
	return http.StatusMethodNotAllowed, Response{Error: msgMethodNotAllowed}
}

// TooLarge is the 413 payload.
func TooLarge(limit int64) (int, Response) {
	return http.StatusRequestEntityTooLarge, Response{
		Error:   msgTooLarge,
		Details: fmt.Sprintf("the request body exceeds %d bytes", limit),
		Hint:    "shorten the markdown or link images instead of embedding them",
	}
}

// Internal is the payload for failures outside the render pipeline, such as recovered panics.
func Internal(details string) (int, Response) {
	return http.StatusInternalServerError, Response{Error: msgFailed, Details: details}
}

// Generator is the transport-independent core shared by the HTTP server and the Lambda handler.
type Generator struct {
	renderer Renderer
	env      pipeline.Environment
	logger   ports.Logger
}

// NewGenerator creates a Generator that renders every request in env.
func NewGenerator(renderer Renderer, env pipeline.Environment, logger ports.Logger) *Generator {
	return &Generator{
		renderer: renderer,
		env:      env,
		logger:   logger.WithComponent("http"),
	}
}

// Generate renders markdown and maps the outcome to a status and body.
// Client input errors are 400; every other failure is a 500 of the same shape.
func (g *Generator) Generate(ctx context.Context, markdown string) (int, Response) {
	result, err := g.renderer.Render(ctx, pipeline.RenderRequest{
		Markdown:    markdown,
		Environment: g.env,
	})
	if err != nil {
		if pipeline.IsClientError(err) {
			return http.StatusBadRequest, Response{Error: msgInvalidRequest, Details: err.Error()}
		}
		return http.StatusInternalServerError, Response{
			Error:   msgFailed,
			Details: err.Error(),
			Hint:    hints.For(err, g.env.ExecutableHint),
		}
	}
	if result.Value == "" {
		return Internal("renderer returned an empty result")
	}
	return http.StatusOK, Response{URL: result.Value}
}

// Handle decodes a request body and generates a poster from it.
func (g *Generator) Handle(ctx context.Context, contentType string, body []byte) (int, Response) {
	markdown, err := ParseMarkdown(contentType, body)
	if err != nil {
		g.logger.Debug("Poster request rejected: %v", err)
		return http.StatusBadRequest, Response{Error: msgInvalidRequest, Details: err.Error()}
	}
	return g.Generate(ctx, markdown)
}

// ParseMarkdown extracts the markdown field from a JSON or form-encoded body.
// A missing field yields "" so the pipeline reports it as client input.
func ParseMarkdown(contentType string, body []byte) (string, error) {
	mediaType := ""
	if contentType != "" {
		mt, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return "", fmt.Errorf("%w: invalid content type %q", pipeline.ErrClientInput, contentType)
		}
		mediaType = mt
	}

	if mediaType == "application/x-www-form-urlencoded" {
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return "", fmt.Errorf("%w: invalid form body: %v", pipeline.ErrClientInput, err)
		}
		return values.Get("markdown"), nil
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return "", nil
	}
	var payload struct {
		Markdown *string `json:"markdown"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return "", fmt.Errorf("%w: markdown must be a string", pipeline.ErrClientInput)
		}
		return "", fmt.Errorf("%w: invalid JSON body: %v", pipeline.ErrClientInput, err)
	}
	if payload.Markdown == nil {
		return "", nil
	}
	return *payload.Markdown, nil
}
