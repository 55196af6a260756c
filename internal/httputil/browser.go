// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/pdiddy/scicover/pkg/types"
)

// BrowserClient renders pages in headless Chrome and returns the
// resulting DOM. It is used for publisher pages that assemble their
// table of contents with JavaScript.
type BrowserClient struct {
	cfg    types.RenderConfig
	http   types.HTTPConfig
	logger *slog.Logger

	mu            sync.Mutex
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewBrowserClient returns a renderer. Chrome is started lazily on the
// first request; call Close to shut it down.
func NewBrowserClient(cfg types.RenderConfig, httpCfg types.HTTPConfig, logger *slog.Logger) *BrowserClient {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BrowserClient{cfg: cfg, http: httpCfg, logger: logger}
}

// start launches Chrome once. Every tab opened from the returned
// context shares that browser process.
func (b *BrowserClient) start() (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browserCtx != nil {
		return b.browserCtx, nil
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(b.http.UserAgent),
	)
	if b.cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(b.cfg.ChromePath))
	}
	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	b.browserCtx, b.browserCancel = chromedp.NewContext(b.allocCtx)
	if err := chromedp.Run(b.browserCtx); err != nil {
		b.stopLocked()
		return nil, err
	}
	b.logger.Debug("browser started")
	return b.browserCtx, nil
}

// Close stops the browser if it was started.
func (b *BrowserClient) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
}

func (b *BrowserClient) stopLocked() {
	if b.browserCancel != nil {
		b.browserCancel()
		b.allocCancel()
	}
	b.allocCtx, b.allocCancel = nil, nil
	b.browserCtx, b.browserCancel = nil, nil
}

func (b *BrowserClient) started() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.browserCtx != nil
}

// GetText navigates to rawURL and returns the rendered document HTML.
func (b *BrowserClient) GetText(ctx context.Context, rawURL string) (string, bool) {
	browserCtx, err := b.start()
	if err != nil {
		b.logger.Warn("browser unavailable", "url", rawURL, "error", err)
		return "", false
	}

	attempts := b.http.Attempts
	if attempts < 1 {
		attempts = 1
	}
	timeout := b.http.Timeout
	if timeout <= 0 {
		timeout = types.DefaultTimeout
	}

	var html string
	err = Retry(ctx, attempts, Linear(b.http.RetryDelay), func(attempt int) error {
		tabCtx, cancelTab := chromedp.NewContext(browserCtx)
		defer cancelTab()
		tabCtx, cancel := context.WithTimeout(tabCtx, timeout)
		defer cancel()
		stop := context.AfterFunc(ctx, cancel)
		defer stop()

		err := chromedp.Run(tabCtx,
			chromedp.Navigate(rawURL),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Sleep(500*time.Millisecond),
			chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		)
		if err != nil {
			b.logger.Debug("render failed", "url", rawURL, "attempt", attempt, "error", err)
		}
		return err
	})
	if err != nil {
		b.logger.Warn("render gave up", "url", rawURL, "error", err)
		return "", false
	}
	return html, true
}

// GetDocument renders rawURL and parses the result.
func (b *BrowserClient) GetDocument(ctx context.Context, rawURL string) (*goquery.Document, bool) {
	text, ok := b.GetText(ctx, rawURL)
	if !ok {
		return nil, false
	}
	return ParseDocument(text, rawURL)
}
