package app

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/user/mdposter/pkg/adapters/logger"
	"github.com/user/mdposter/pkg/config"
	"github.com/user/mdposter/pkg/pipeline"
	"github.com/user/mdposter/pkg/server"
)

// TestEndToEnd renders a poster with a real browser through the HTTP service.
func TestEndToEnd(t *testing.T) {
	if os.Getenv("MDPOSTER_BROWSER_TESTS") != "1" {
		t.Skip("Skipping E2E test (set MDPOSTER_BROWSER_TESTS=1 to run)")
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Defaults()
	cfg.BaseURL = "http://" + ln.Addr().String()
	cfg.ChromePath = os.Getenv("CHROME_PATH")
	cfg.Output.Mode = string(pipeline.OutputInline)

	a, err := Build(context.Background(), cfg, logger.NewNoop())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Server().Serve(ctx, ln) }()
	defer func() {
		cancel()
		<-done
	}()

	body := `{"markdown":"# End to end\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n` + "```go\\nfunc main() {}\\n```" + `"}`
	client := &http.Client{Timeout: time.Minute}
	resp, err := client.Post(cfg.BaseURL+server.GeneratePath, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	var out server.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, error = %s, details = %s", resp.StatusCode, out.Error, out.Details)
	}

	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(out.URL, prefix) {
		t.Fatalf("url = %.40q", out.URL)
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(out.URL, prefix))
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		t.Errorf("empty poster %v", b)
	}
	t.Logf("Poster rendered: %dx%d, %d bytes", img.Bounds().Dx(), img.Bounds().Dy(), len(data))
}
