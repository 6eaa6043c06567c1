// Package chromebrowser provides a browser implementation using chromedp.
package chromebrowser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/user/mdposter/pkg/ports"
)

var (
	errClosed      = errors.New("browser closed")
	errNotLaunched = errors.New("browser not launched")
)

// Browser implements ports.Browser using chromedp. One Browser owns one
// Chrome process and its first tab.
type Browser struct {
	logger ports.Logger

	mu          sync.Mutex
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
	launched    bool
	closed      bool
}

// New creates a new Browser.
func New(logger ports.Logger) *Browser {
	return &Browser{logger: logger.WithComponent("browser")}
}

// Launch starts the browser with the given options.
// The process is tied to ctx: if ctx ends, the process is killed.
func (b *Browser) Launch(ctx context.Context, opts ports.BrowserOptions) error {
	if opts.ExecutablePath == "" {
		return errors.New("no browser executable configured")
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return errClosed
	}
	if b.launched {
		b.mu.Unlock()
		return errors.New("browser already launched")
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocatorOptions(opts)...)
	tabCtx, cancel := chromedp.NewContext(allocCtx)
	b.allocCancel, b.ctx, b.cancel = allocCancel, tabCtx, cancel
	b.launched = true
	b.mu.Unlock()

	b.logger.Debug("Starting %s (headless=%t, %d switches)", opts.ExecutablePath, opts.Headless, len(opts.Args))

	// The first Run starts the process and attaches to the initial tab.
	if err := chromedp.Run(tabCtx); err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	return nil
}

func allocatorOptions(opts ports.BrowserOptions) []chromedp.ExecAllocatorOption {
	out := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.ExecPath(opts.ExecutablePath),
	}
	if opts.Headless {
		out = append(out, chromedp.Flag("headless", "new"))
	}
	for _, sw := range ParseArgs(opts.Args) {
		out = append(out, chromedp.Flag(sw.Name, sw.Value))
	}
	if opts.IgnoreHTTPSErrors {
		out = append(out,
			chromedp.Flag("ignore-certificate-errors", true),
			chromedp.Flag("allow-insecure-localhost", true))
	}
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		out = append(out, chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight))
	}
	return out
}

// tab returns the tab context once launched.
func (b *Browser) tab() (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, errClosed
	}
	if b.ctx == nil {
		return nil, errNotLaunched
	}
	return b.ctx, nil
}

// run executes actions on the tab, bounded by ctx's deadline and cancellation.
func (b *Browser) run(ctx context.Context, actions ...chromedp.Action) error {
	tab, err := b.tab()
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(tab)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err = chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return fmt.Errorf("%w: %v", context.Cause(ctx), err)
	}
	return err
}

// SetViewport sizes the page in CSS pixels.
func (b *Browser) SetViewport(ctx context.Context, width, height int, deviceScaleFactor float64) error {
	if deviceScaleFactor <= 0 {
		deviceScaleFactor = 1
	}
	if err := b.run(ctx, emulation.SetDeviceMetricsOverride(int64(width), int64(height), deviceScaleFactor, false)); err != nil {
		return fmt.Errorf("set device metrics: %w", err)
	}
	return nil
}

// SetRequestFilter pauses every request through the Fetch domain and resolves
// it according to filter. Requests issued before this call are not seen.
func (b *Browser) SetRequestFilter(ctx context.Context, filter ports.RequestFilter) error {
	tab, err := b.tab()
	if err != nil {
		return err
	}

	chromedp.ListenTarget(tab, func(ev interface{}) {
		e, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		// Resolving from the listener itself would deadlock the event loop.
		go b.resolveRequest(tab, filter, e)
	})

	if err := b.run(ctx, fetch.Enable()); err != nil {
		return fmt.Errorf("enable request interception: %w", err)
	}
	return nil
}

func (b *Browser) resolveRequest(tab context.Context, filter ports.RequestFilter, e *fetch.EventRequestPaused) {
	c := chromedp.FromContext(tab)
	if c == nil || c.Target == nil {
		return
	}
	execCtx := cdp.WithExecutor(tab, c.Target)

	var err error
	if filter.Allow(string(e.ResourceType)) {
		err = fetch.ContinueRequest(e.RequestID).Do(execCtx)
	} else {
		b.logger.Debug("Blocked %s request", e.ResourceType)
		err = fetch.FailRequest(e.RequestID, network.ErrorReasonBlockedByClient).Do(execCtx)
	}
	if err != nil && tab.Err() == nil {
		b.logger.Debug("Failed to resolve paused request %s: %v", e.RequestID, err)
	}
}

// Navigate loads url and waits for both DOMContentLoaded and load.
func (b *Browser) Navigate(ctx context.Context, url string) error {
	tab, err := b.tab()
	if err != nil {
		return err
	}

	domReady := make(chan struct{})
	loaded := make(chan struct{})
	var domOnce, loadOnce sync.Once

	listenCtx, stopListening := context.WithCancel(tab)
	defer stopListening()
	chromedp.ListenTarget(listenCtx, func(ev interface{}) {
		switch ev.(type) {
		case *page.EventDomContentEventFired:
			domOnce.Do(func() { close(domReady) })
		case *page.EventLoadEventFired:
			loadOnce.Do(func() { close(loaded) })
		}
	})

	if err := b.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}

	for _, signal := range []chan struct{}{domReady, loaded} {
		select {
		case <-signal:
		case <-ctx.Done():
			return fmt.Errorf("navigate: %w", context.Cause(ctx))
		}
	}
	return nil
}

// WaitVisible blocks until selector matches a visible element.
func (b *Browser) WaitVisible(ctx context.Context, selector string) error {
	return b.run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// WaitImages resolves once every image under scopeSelector has loaded or failed.
func (b *Browser) WaitImages(ctx context.Context, scopeSelector string) (ports.ImageSettlement, error) {
	scope, err := json.Marshal(scopeSelector)
	if err != nil {
		return ports.ImageSettlement{}, err
	}

	var res struct {
		Total  int `json:"total"`
		Loaded int `json:"loaded"`
		Failed int `json:"failed"`
	}
	if err := b.run(ctx, chromedp.Evaluate(fmt.Sprintf(waitImagesScript, scope), &res, awaitPromise)); err != nil {
		return ports.ImageSettlement{}, fmt.Errorf("wait images: %w", err)
	}
	return ports.ImageSettlement{Total: res.Total, Loaded: res.Loaded, Failed: res.Failed}, nil
}

// ElementBox reads the page-space bounds of the first element matching selector.
func (b *Browser) ElementBox(ctx context.Context, selector string) (ports.BoundingBox, bool, error) {
	sel, err := json.Marshal(selector)
	if err != nil {
		return ports.BoundingBox{}, false, err
	}

	var res struct {
		Found  bool    `json:"found"`
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := b.run(ctx, chromedp.Evaluate(fmt.Sprintf(elementBoxScript, sel), &res)); err != nil {
		return ports.BoundingBox{}, false, fmt.Errorf("read element box: %w", err)
	}
	if !res.Found {
		return ports.BoundingBox{}, false, nil
	}
	return ports.BoundingBox{X: res.X, Y: res.Y, Width: res.Width, Height: res.Height}, true, nil
}

// CaptureRegion captures a PNG clipped to box.
func (b *Browser) CaptureRegion(ctx context.Context, box ports.BoundingBox) ([]byte, error) {
	var buf []byte
	err := b.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithClip(&page.Viewport{
				X:      box.X,
				Y:      box.Y,
				Width:  box.Width,
				Height: box.Height,
				Scale:  1,
			}).
			WithCaptureBeyondViewport(true).
			WithFromSurface(true).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return buf, nil
}

// Close shuts down the browser and waits for the process to exit.
func (b *Browser) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	tab, cancel, allocCancel := b.ctx, b.cancel, b.allocCancel
	b.mu.Unlock()

	var err error
	if tab != nil {
		// Closes the tab and, being the first tab, the browser itself.
		if cerr := chromedp.Cancel(tab); cerr != nil && !errors.Is(cerr, context.Canceled) && !errors.Is(cerr, context.DeadlineExceeded) {
			err = cerr
		}
	}
	if cancel != nil {
		cancel()
	}
	if allocCancel != nil {
		allocCancel()
	}
	return err
}

var _ ports.Browser = (*Browser)(nil)
