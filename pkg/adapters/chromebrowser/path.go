package chromebrowser

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/go-rod/rod/lib/launcher"
)

// lookPath is rod's browser discovery, used after the platform candidates.
var lookPath = launcher.LookPath

// ResolveExecutable finds a locally installed browser:
// 1. hint, when non-empty
// 2. the CHROME_PATH environment variable
// 3. platform install locations, Chromium before Chrome
// 4. rod's own lookup (which also finds browsers it downloaded earlier)
// It returns "" when nothing is found.
func ResolveExecutable(hint string) string {
	if hint != "" {
		return hint
	}
	if env := os.Getenv("CHROME_PATH"); env != "" {
		return env
	}
	for _, candidate := range platformCandidates(runtime.GOOS) {
		if path := resolveExecutable(candidate); path != "" {
			return path
		}
	}
	if path, ok := lookPath(); ok {
		return path
	}
	return ""
}

func platformCandidates(goos string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		}
	case "linux":
		return []string{
			"chromium",
			"chromium-browser",
			"google-chrome-stable",
			"google-chrome",
			"/snap/bin/chromium",
		}
	case "windows":
		var out []string
		for _, root := range []string{os.Getenv("PROGRAMFILES"), os.Getenv("PROGRAMFILES(X86)"), os.Getenv("LOCALAPPDATA")} {
			if root == "" {
				continue
			}
			out = append(out,
				filepath.Join(root, "Chromium", "Application", "chrome.exe"),
				filepath.Join(root, "Google", "Chrome", "Application", "chrome.exe"),
			)
		}
		return out
	}
	return nil
}

// resolveExecutable stats absolute paths and searches PATH for bare names.
func resolveExecutable(nameOrPath string) string {
	if nameOrPath == "" {
		return ""
	}
	if filepath.IsAbs(nameOrPath) || (len(nameOrPath) > 1 && nameOrPath[1] == ':') {
		if _, err := os.Stat(nameOrPath); err == nil {
			return nameOrPath
		}
		return ""
	}
	if path, err := exec.LookPath(nameOrPath); err == nil {
		return path
	}
	return ""
}
