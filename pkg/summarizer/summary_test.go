package summarizer

import (
	"testing"
	"time"

	"github.com/user/mdposter/pkg/orchestrator"
	"github.com/user/mdposter/pkg/ports"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder_WithReport(t *testing.T) {
	report := orchestrator.Report{
		RequestID:       "abc12345",
		ProfileSource:   "rod",
		LaunchMs:        300,
		NavigationMs:    120,
		MarkerMs:        15,
		ImagesMs:        40,
		TotalMs:         520,
		Images:          ports.ImageSettlement{Total: 3, Loaded: 2, Failed: 1},
		ImagesTimedOut:  true,
		RequestsAllowed: 5,
		RequestsAborted: 2,
		Box:             &ports.BoundingBox{Width: 800.4, Height: 600},
	}

	summary := NewBuilder().WithReport(report).Build()

	if summary.RequestID != "abc12345" {
		t.Errorf("RequestID = %q", summary.RequestID)
	}
	if summary.Timing.LaunchMs != 300 || summary.Timing.TotalMs != 520 || !summary.Timing.ImagesTimedOut {
		t.Errorf("unexpected timing %+v", summary.Timing)
	}
	if summary.Resources.ImagesFailed != 1 || summary.Resources.RequestsAborted != 2 {
		t.Errorf("unexpected resources %+v", summary.Resources)
	}
	if summary.Output.Width != 800 || summary.Output.Height != 600 {
		t.Errorf("poster size = %dx%d", summary.Output.Width, summary.Output.Height)
	}
	if summary.Settings.ProfileSource != "rod" {
		t.Errorf("ProfileSource = %q", summary.Settings.ProfileSource)
	}
}

func TestBuilder_WithSettingsKeepsProfileSource(t *testing.T) {
	summary := NewBuilder().
		WithReport(orchestrator.Report{ProfileSource: "system"}).
		WithSettings(Settings{Mode: "development", ViewportWidth: 1200}).
		Build()

	if summary.Settings.ProfileSource != "system" {
		t.Errorf("ProfileSource = %q", summary.Settings.ProfileSource)
	}
	if summary.Settings.ViewportWidth != 1200 {
		t.Errorf("ViewportWidth = %d", summary.Settings.ViewportWidth)
	}
}

func TestBuilder_WithOutputAndCeiling(t *testing.T) {
	summary := NewBuilder().
		WithSource("poster.md", 42).
		WithOutput("poster.png", 2048).
		WithImageCeiling(5 * time.Second).
		Build()

	if summary.Source.Path != "poster.md" || summary.Source.Bytes != 42 {
		t.Errorf("unexpected source %+v", summary.Source)
	}
	if summary.Output.Path != "poster.png" || summary.Output.FileSize != 2048 {
		t.Errorf("unexpected output %+v", summary.Output)
	}
	if summary.Timing.ImageCeilingSec != 5 {
		t.Errorf("ImageCeilingSec = %d", summary.Timing.ImageCeilingSec)
	}
}
