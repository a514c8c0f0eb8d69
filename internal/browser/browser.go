// Package browser implements the headless-browser fetch strategy for pages
// whose critical content is rendered client-side. One Chrome process is
// shared across requests; every request gets its own tab, released on all
// exit paths.
package browser

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/cifrabox/cifrabox/internal/fetch"
)

// DefaultNavigateTimeout bounds a single navigation plus content wait.
const DefaultNavigateTimeout = 15 * time.Second

// Browser owns a lazily started headless Chrome shared by all requests.
// The zero value is usable; call Close on shutdown once started.
type Browser struct {
	UserAgent      string
	AcceptLanguage string
	// NavigateTimeout bounds each Fetch. Zero means DefaultNavigateTimeout.
	NavigateTimeout time.Duration

	mu          sync.Mutex
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

func (b *Browser) ensure() context.Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.allocCtx != nil {
		return b.allocCtx
	}
	ua := b.UserAgent
	if ua == "" {
		ua = fetch.DefaultUserAgent
	}
	lang := b.AcceptLanguage
	if lang == "" {
		lang = fetch.DefaultAcceptLanguage
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(ua),
		chromedp.Flag("accept-lang", lang),
		chromedp.NoSandbox,
	)
	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return b.allocCtx
}

// Fetch navigates a fresh tab to url, waits for the document body to be
// ready, and returns the rendered DOM serialization. Implements
// fetch.Fetcher.
func (b *Browser) Fetch(ctx context.Context, url string) (string, error) {
	return b.FetchWait(ctx, url, "body")
}

// FetchWait is Fetch with an explicit readiness selector. A timeout while
// waiting comes back as a *fetch.TransportError so callers can degrade to
// an empty result instead of hanging.
func (b *Browser) FetchWait(ctx context.Context, url, waitSelector string) (string, error) {
	alloc := b.ensure()

	tabCtx, cancelTab := chromedp.NewContext(alloc)
	defer cancelTab()

	timeout := b.NavigateTimeout
	if timeout <= 0 {
		timeout = DefaultNavigateTimeout
	}
	runCtx, cancelRun := context.WithTimeout(tabCtx, timeout)
	defer cancelRun()

	// Propagate caller cancellation into the tab.
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			cancelRun()
		case <-stop:
		}
	}()
	defer close(stop)

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(waitSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &fetch.TransportError{URL: url, Reason: "navigation timeout"}
		}
		return "", &fetch.TransportError{URL: url, Reason: err.Error()}
	}
	return html, nil
}

// Close shuts the shared browser process down. Safe to call without a prior
// Fetch and safe to call more than once.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.allocCancel != nil {
		b.allocCancel()
		b.allocCtx = nil
		b.allocCancel = nil
	}
}
