package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/user/mdposter/pkg/mocks"
	"github.com/user/mdposter/pkg/ports"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"production", ModeProduction, false},
		{"PROD", ModeProduction, false},
		{"development", ModeDevelopment, false},
		{"", ModeDevelopment, false},
		{"staging", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProduction_UsesProviderConfig(t *testing.T) {
	headless := false
	provider := &mocks.BinaryProvider{
		ProvideFunc: func(ctx context.Context) (ports.BinaryConfig, error) {
			return ports.BinaryConfig{
				ExecutablePath: "/opt/chromium/chrome",
				Args:           []string{"--foo"},
				Headless:       &headless,
			}, nil
		},
	}

	p, err := NewProduction(provider).Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ExecutablePath != "/opt/chromium/chrome" {
		t.Errorf("ExecutablePath = %q", p.ExecutablePath)
	}
	if len(p.Args) != 1 || p.Args[0] != "--foo" {
		t.Errorf("Args = %v", p.Args)
	}
	if p.Headless {
		t.Error("expected provider headless=false to be kept")
	}
	if p.Mode != ModeProduction {
		t.Errorf("Mode = %q", p.Mode)
	}
}

func TestProduction_IncompleteProviderConfig(t *testing.T) {
	provider := &mocks.BinaryProvider{
		ProvideFunc: func(ctx context.Context) (ports.BinaryConfig, error) {
			return ports.BinaryConfig{ExecutablePath: "/tmp/chromium"}, nil
		},
	}

	p, err := NewProduction(provider).Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Headless {
		t.Error("expected headless default true")
	}
	if len(p.Args) != len(SafeArgs) {
		t.Errorf("expected SafeArgs, got %v", p.Args)
	}
}

func TestProduction_HintWins(t *testing.T) {
	called := false
	provider := &mocks.BinaryProvider{
		ProvideFunc: func(ctx context.Context) (ports.BinaryConfig, error) {
			called = true
			return ports.BinaryConfig{}, nil
		},
	}

	p, err := NewProduction(provider).Resolve(context.Background(), "/custom/chrome")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Error("provider should not be consulted when a hint is given")
	}
	if p.ExecutablePath != "/custom/chrome" || p.Source != "hint" {
		t.Errorf("got %+v", p)
	}
}

func TestProduction_ProviderError(t *testing.T) {
	provider := &mocks.BinaryProvider{
		ProvideFunc: func(ctx context.Context) (ports.BinaryConfig, error) {
			return ports.BinaryConfig{}, errors.New("download failed")
		},
	}
	if _, err := NewProduction(provider).Resolve(context.Background(), ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestProduction_EmptyExecutable(t *testing.T) {
	provider := &mocks.BinaryProvider{}
	if _, err := NewProduction(provider).Resolve(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty executable path")
	}
}

func TestDevelopment(t *testing.T) {
	dev := NewDevelopment(func(hint string) string {
		if hint != "" {
			return hint
		}
		return "/usr/bin/chromium"
	})

	p, err := dev.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ExecutablePath != "/usr/bin/chromium" || p.Source != "system" {
		t.Errorf("got %+v", p)
	}
	if !containsArg(p.Args, "--no-sandbox") {
		t.Error("development args must disable the sandbox")
	}

	p, _ = dev.Resolve(context.Background(), "/my/chrome")
	if p.ExecutablePath != "/my/chrome" || p.Source != "hint" {
		t.Errorf("got %+v", p)
	}
}

func TestDevelopment_Fallback(t *testing.T) {
	p, err := NewDevelopment(func(string) string { return "" }).Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ExecutablePath != DefaultDevelopmentExecutable {
		t.Errorf("ExecutablePath = %q", p.ExecutablePath)
	}
}

func TestStrategies_For(t *testing.T) {
	dev := NewDevelopment(nil)
	s := Strategies{ModeDevelopment: dev}
	if got, err := s.For(ModeDevelopment); err != nil || got != dev {
		t.Errorf("For(development) = %v, %v", got, err)
	}
	if _, err := s.For(ModeProduction); err == nil {
		t.Error("expected error for missing strategy")
	}
}

func TestOptions(t *testing.T) {
	p := LaunchProfile{ExecutablePath: "/x", Args: []string{"--a"}, Headless: true}
	opts := p.Options()
	opts.Args[0] = "--b"
	if p.Args[0] != "--a" {
		t.Error("Options must copy Args")
	}
	if !opts.IgnoreHTTPSErrors {
		t.Error("expected IgnoreHTTPSErrors")
	}
}

func containsArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}
