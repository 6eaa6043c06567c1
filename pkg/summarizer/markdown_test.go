package summarizer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/user/mdposter/pkg/mocks"
)

func sampleSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		RequestID:   "abc12345",
		Source:      SourceInfo{Path: "poster.md", Bytes: 2048},
		Timing: TimingInfo{
			LaunchMs:     300,
			NavigationMs: 120,
			MarkerMs:     15,
			ImagesMs:     40,
			TotalMs:      520,
		},
		Resources: ResourceInfo{Images: 2, ImagesLoaded: 2, RequestsAllowed: 4, RequestsAborted: 1},
		Settings: Settings{
			Mode:           "development",
			ProfileSource:  "system",
			ViewportWidth:  1200,
			ViewportHeight: 800,
			ScaleFactor:    2,
			Format:         "png",
		},
		Output: OutputInfo{Path: "poster.png", FileSize: 1024 * 1024, Width: 800, Height: 600},
	}
}

func TestMarkdownFormatter_Format_Basic(t *testing.T) {
	result := NewMarkdownFormatter().Format(sampleSummary())

	checks := []string{
		"# Render Summary",
		"2024-01-15T10:30:00Z",
		"abc12345",
		"poster.md (2.00 KB)",
		"300 ms",
		"120 ms",
		"Succeeded (520 ms)",
		"1200x800 @2x",
		"1.00 MB",
		"800x600",
		"| Requests Blocked | 1 |",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
}

func TestMarkdownFormatter_ImagesTimedOut(t *testing.T) {
	s := sampleSummary()
	s.Timing.ImagesTimedOut = true
	s.Timing.ImageCeilingSec = 5

	result := NewMarkdownFormatter().Format(s)
	if !strings.Contains(result, "Timeout (5s)") {
		t.Error("expected output to contain 'Timeout (5s)' for Images Settled")
	}
	if strings.Contains(result, "40 ms") {
		t.Error("expected output NOT to contain the image wait time")
	}
}

func TestMarkdownFormatter_Failure(t *testing.T) {
	s := sampleSummary()
	s.Error = "readiness stage: poster content did not become visible | marker"

	result := NewMarkdownFormatter().Format(s)
	if !strings.Contains(result, "Failed: readiness stage") {
		t.Error("expected failure status")
	}
	if !strings.Contains(result, `\| marker`) {
		t.Error("expected pipe to be escaped in table cell")
	}
	if strings.Contains(result, "Image Details") {
		t.Error("failed render must not list image details")
	}
}

func TestMarkdownFormatter_Stdin(t *testing.T) {
	s := sampleSummary()
	s.Source.Path = "-"
	s.Settings.Format = ""

	result := NewMarkdownFormatter().Format(s)
	if !strings.Contains(result, "stdin (2.00 KB)") {
		t.Error("expected stdin source label")
	}
	if !strings.Contains(result, "| Format | None |") {
		t.Error("expected None for empty format")
	}
}

func TestMarkdownFormatter_WithTranslator(t *testing.T) {
	translator := func(key string) string {
		translations := map[string]string{
			"Render Summary": "生成サマリー",
			"Timeout":        "タイムアウト",
		}
		if v, ok := translations[key]; ok {
			return v
		}
		return key
	}

	s := sampleSummary()
	s.Timing.ImagesTimedOut = true
	result := NewMarkdownFormatter(WithTranslator(translator)).Format(s)

	if !strings.Contains(result, "生成サマリー") {
		t.Error("expected translated 'Render Summary'")
	}
	if !strings.Contains(result, "タイムアウト") {
		t.Error("expected translated 'Timeout'")
	}
}

func TestMarkdownFormatter_WithVersion(t *testing.T) {
	result := NewMarkdownFormatter(WithVersion("v1.2.0")).Format(sampleSummary())

	if !strings.Contains(result, "mdposter v1.2.0") {
		t.Error("expected output to contain version 'v1.2.0'")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{1024 * 1024 * 1024, "1.00 GB"},
		{1536 * 1024 * 1024, "1.50 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := formatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("formatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := NewWriter(FormatFunc(func(s *Summary) string { return "summary " + s.RequestID }), fs)

	if err := w.Write("out/summary.md", &Summary{RequestID: "r1"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := fs.ReadFile("out/summary.md")
	if err != nil || string(data) != "summary r1" {
		t.Errorf("file = %q, %v", data, err)
	}
}

func TestWriter_WriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(path string, data []byte) error { return errors.New("disk full") }
	w := NewWriter(NewMarkdownFormatter(), fs)

	if err := w.Write("summary.md", sampleSummary()); err == nil {
		t.Error("expected write error")
	}
}
