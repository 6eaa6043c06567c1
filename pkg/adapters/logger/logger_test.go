package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/mdposter/pkg/ports"
)

func TestConsoleLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleWriter(ports.LevelInfo, &buf)

	l.Debug("hidden %d", 1)
	l.Info("Rendering poster (%d bytes of markdown)", 12)
	l.Warn("careful")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message should be filtered at info level")
	}
	if !strings.Contains(out, "12") || !strings.Contains(out, "careful") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestConsoleLogger_ComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleWriter(ports.LevelDebug, &buf).
		WithComponent("capture").
		WithField("request", "abc123")

	l.Debug("Captured %d bytes", 2048)

	out := buf.String()
	if !strings.HasPrefix(out, "[capture] ") {
		t.Errorf("expected component prefix, got %q", out)
	}
	if !strings.Contains(out, "request=abc123") {
		t.Errorf("expected field, got %q", out)
	}
}

func TestConsoleLogger_FieldsDoNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := NewConsoleWriter(ports.LevelInfo, &buf)
	base.WithField("request", "one")
	base.Info("plain")
	if strings.Contains(buf.String(), "request=") {
		t.Error("WithField must not modify the parent logger")
	}
}

func TestConsoleLogger_Quiet(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleWriter(ports.LevelQuiet, &buf)
	l.Error("nothing")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewStructured(ports.LevelInfo, &buf).
		WithComponent("http").
		WithField("request", "r1")

	l.Debug("dropped")
	l.Info("Poster rendered in %d ms", 42)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry["message"] != "Poster rendered in 42 ms" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["component"] != "http" || entry["request"] != "r1" {
		t.Errorf("missing fields: %v", entry)
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
}

func TestRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdposter.log")
	w := RotatingFile(path, 1, 1, 1)
	defer w.Close()

	l := NewStructured(ports.LevelInfo, w)
	l.Info("hello")
}

func TestNoopLogger(t *testing.T) {
	var l ports.Logger = NewNoop()
	l = l.WithComponent("x").WithField("k", "v")
	l.Error("nothing happens")
}
