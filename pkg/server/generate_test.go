package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/user/mdposter/pkg/adapters/logger"
	"github.com/user/mdposter/pkg/pipeline"
)

func TestParseMarkdown(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        string
		wantErr     bool
	}{
		{"json", "application/json", `{"markdown":"# A"}`, "# A", false},
		{"json charset", "application/json; charset=utf-8", `{"markdown":"# B"}`, "# B", false},
		{"no content type", "", `{"markdown":"# C"}`, "# C", false},
		{"form", "application/x-www-form-urlencoded", "markdown=%23+D", "# D", false},
		{"missing field", "application/json", `{"other":1}`, "", false},
		{"empty body", "application/json", "", "", false},
		{"wrong type", "application/json", `{"markdown":["x"]}`, "", true},
		{"malformed", "application/json", `{`, "", true},
		{"bad content type", "a/b; =", `{}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMarkdown(tt.contentType, []byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, pipeline.ErrClientInput) {
				t.Errorf("errors must be client input errors, got %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerator_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"client", fmt.Errorf("%w: markdown is required", pipeline.ErrClientInput), http.StatusBadRequest},
		{"launch", fmt.Errorf("%w: exec failed", pipeline.ErrLaunch), http.StatusInternalServerError},
		{"timeout", fmt.Errorf("%w: budget", pipeline.ErrRenderTimeout), http.StatusInternalServerError},
		{"unknown", errors.New("surprise"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewGenerator(renderFunc(func(ctx context.Context, req pipeline.RenderRequest) (pipeline.RenderResult, error) {
				return pipeline.RenderResult{}, tt.err
			}), pipeline.Environment{}, logger.NewNoop())

			status, resp := gen.Generate(context.Background(), "# x")
			if status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
			if resp.Error == "" || resp.Details == "" || resp.URL != "" {
				t.Errorf("unexpected response: %+v", resp)
			}
		})
	}
}

func TestGenerator_PassesEnvironment(t *testing.T) {
	env := pipeline.Environment{Production: true, BaseURL: "https://example.com", ExecutableHint: "/bin/chrome"}
	var got pipeline.RenderRequest
	gen := NewGenerator(renderFunc(func(ctx context.Context, req pipeline.RenderRequest) (pipeline.RenderResult, error) {
		got = req
		return pipeline.RenderResult{Kind: pipeline.KindInlineData, Value: "data:image/png;base64,AA=="}, nil
	}), env, logger.NewNoop())

	status, resp := gen.Generate(context.Background(), "# x")
	if status != http.StatusOK || resp.URL != "data:image/png;base64,AA==" {
		t.Errorf("status = %d, response = %+v", status, resp)
	}
	if got.Environment != env || got.Markdown != "# x" {
		t.Errorf("request = %+v", got)
	}
}

func TestGenerator_LaunchHintUsesConfiguredExecutable(t *testing.T) {
	env := pipeline.Environment{ExecutableHint: "/opt/chrome/chrome"}
	gen := NewGenerator(renderFunc(func(ctx context.Context, req pipeline.RenderRequest) (pipeline.RenderResult, error) {
		return pipeline.RenderResult{}, fmt.Errorf("launch stage: %w: no such file", pipeline.ErrLaunch)
	}), env, logger.NewNoop())

	status, resp := gen.Generate(context.Background(), "# x")
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(resp.Hint, "/opt/chrome/chrome") || strings.Contains(resp.Hint, "set CHROME_PATH") {
		t.Errorf("hint = %q", resp.Hint)
	}
}
