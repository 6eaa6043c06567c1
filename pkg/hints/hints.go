// Package hints provides remediation hints for failed renders.
package hints

import (
	"fmt"
	"os"
	"strings"

	"github.com/user/mdposter/pkg/pipeline"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	_, err := os.Stat("/.dockerenv")
	return err == nil
}

// For returns the hint for err, or "" when there is nothing actionable to say.
// executable is the configured browser path, empty when none is set.
func For(err error, executable string) string {
	switch pipeline.KindOf(err) {
	case pipeline.KindLaunch:
		return ForLaunch(executable)
	case pipeline.KindNavigation:
		return "check that the poster page is reachable from the renderer (base URL)"
	case pipeline.KindMarkerNotFound:
		return "the poster did not render; the content may be too large or malformed, or the poster page failed to load"
	case pipeline.KindElementNotFound, pipeline.KindBoundingBox:
		return "the poster region was not laid out; try simpler content"
	case pipeline.KindRenderTimeout:
		return "the content may be too large or contain too many images; try fewer or smaller images"
	case pipeline.KindEncode:
		return "check that the output directory or bucket is writable"
	default:
		return ""
	}
}

// ForLaunch returns hints for browser launch errors.
func ForLaunch(executable string) string {
	var hints []string

	if executable == "" {
		hints = append(hints, "set CHROME_PATH to a Chrome/Chromium executable")
	} else {
		hints = append(hints, fmt.Sprintf("check that %s is a working Chrome/Chromium executable", executable))
	}
	if IsInContainer() {
		hints = append(hints, "run in production mode inside containers to use the bundled Chromium")
	}
	return strings.Join(hints, "; ")
}
