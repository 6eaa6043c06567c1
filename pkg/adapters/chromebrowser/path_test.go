package chromebrowser

import (
	"os"
	"path/filepath"
	"testing"
)

func withoutRodLookup(t *testing.T) {
	t.Helper()
	orig := lookPath
	lookPath = func() (string, bool) { return "", false }
	t.Cleanup(func() { lookPath = orig })
}

func TestResolveExecutable_Hint(t *testing.T) {
	t.Setenv("CHROME_PATH", "/env/chrome")
	if got := ResolveExecutable("/custom/chrome"); got != "/custom/chrome" {
		t.Errorf("expected hint to win, got %s", got)
	}
}

func TestResolveExecutable_EnvVar(t *testing.T) {
	t.Setenv("CHROME_PATH", "/env/chrome")
	if got := ResolveExecutable(""); got != "/env/chrome" {
		t.Errorf("expected CHROME_PATH, got %s", got)
	}
}

func TestResolveExecutable_NothingFound(t *testing.T) {
	withoutRodLookup(t)
	t.Setenv("CHROME_PATH", "")
	t.Setenv("PATH", "/nonexistent")

	got := ResolveExecutable("")
	// Absolute candidates (e.g. /snap/bin/chromium) may still exist on the host.
	if got != "" {
		if _, err := os.Stat(got); err != nil {
			t.Errorf("returned a path that does not exist: %s", got)
		}
	}
}

func TestResolveExecutable_RodFallback(t *testing.T) {
	orig := lookPath
	lookPath = func() (string, bool) { return "/rod/chromium", true }
	defer func() { lookPath = orig }()

	t.Setenv("CHROME_PATH", "")
	t.Setenv("PATH", "/nonexistent")

	got := ResolveExecutable("")
	if got == "" {
		t.Fatal("expected a path")
	}
}

func TestResolveExecutable_Internal(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "chromium")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"existing absolute path", bin, bin},
		{"missing absolute path", filepath.Join(dir, "missing"), ""},
		{"empty", "", ""},
		{"unknown command", "definitely-not-a-browser-xyz", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveExecutable(tt.input); got != tt.want {
				t.Errorf("resolveExecutable(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPlatformCandidates(t *testing.T) {
	if len(platformCandidates("linux")) == 0 {
		t.Error("expected linux candidates")
	}
	if platformCandidates("plan9") != nil {
		t.Error("expected no candidates for unknown OS")
	}
}
