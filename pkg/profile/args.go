package profile

// SafeArgs is used when a binary provider does not recommend its own switches.
var SafeArgs = []string{
	"--no-sandbox",
	"--disable-setuid-sandbox",
	"--disable-dev-shm-usage",
	"--disable-gpu",
	"--no-zygote",
	"--single-process",
	"--hide-scrollbars",
	"--mute-audio",
	"--disable-extensions",
	"--disable-background-networking",
}

// DevelopmentArgs is the conservative switch set for a locally installed browser.
// The OS sandbox is off because the host process may itself be sandboxed.
var DevelopmentArgs = []string{
	"--no-sandbox",
	"--disable-setuid-sandbox",
	"--disable-dev-shm-usage",
	"--disable-gpu",
	"--hide-scrollbars",
}

// DefaultDevelopmentExecutable is tried last when nothing else is found.
const DefaultDevelopmentExecutable = "/usr/bin/chromium-browser"
