// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/scicover/pkg/types"
)

// Fetcher retrieves pages. Failures are reported as ok=false, never as
// errors; callers degrade gracefully.
type Fetcher interface {
	GetText(ctx context.Context, rawURL string) (string, bool)
	GetDocument(ctx context.Context, rawURL string) (*goquery.Document, bool)
}

// Client is a browser-like HTTP client with bounded linear retry.
type Client struct {
	http      *http.Client
	userAgent string
	attempts  int
	backoff   BackoffFunc
	logger    *slog.Logger
}

// NewClient builds a Client from cfg. A nil logger discards output.
func NewClient(cfg types.HTTPConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = types.DefaultUserAgent
	}
	return &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		attempts:  cfg.Attempts,
		backoff:   Linear(cfg.RetryDelay),
		logger:    logger,
	}
}

// HTTPClient exposes the underlying client for API calls that do not
// need browser headers.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// get performs one GET and returns the open response on 2xx.
func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return resp, nil
}

// GetText fetches rawURL and returns the body as text. Transport errors,
// timeouts and non-2xx statuses are retried; after the last attempt the
// result is ("", false).
func (c *Client) GetText(ctx context.Context, rawURL string) (string, bool) {
	var body string
	err := Retry(ctx, c.attempts, c.backoff, func(attempt int) error {
		resp, err := c.get(ctx, rawURL)
		if err != nil {
			c.logger.Debug("fetch failed", "url", rawURL, "attempt", attempt, "error", err)
			return err
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		body = string(data)
		return nil
	})
	if err != nil {
		c.logger.Warn("fetch gave up", "url", rawURL, "attempts", c.attempts, "error", err)
		return "", false
	}
	return body, true
}

// GetDocument fetches rawURL and parses it as HTML. The document's Url is
// set so relative links can be resolved.
func (c *Client) GetDocument(ctx context.Context, rawURL string) (*goquery.Document, bool) {
	text, ok := c.GetText(ctx, rawURL)
	if !ok {
		return nil, false
	}
	return ParseDocument(text, rawURL)
}

// ParseDocument parses HTML text into a goquery document rooted at rawURL.
func ParseDocument(text, rawURL string) (*goquery.Document, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, false
	}
	if u, err := url.Parse(rawURL); err == nil {
		doc.Url = u
	}
	return doc, true
}

// Download fetches rawURL into destPath. The body is streamed to a temp
// file in the destination directory and renamed into place, so a failed
// download never leaves a partial file.
func (c *Client) Download(ctx context.Context, rawURL, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return Retry(ctx, c.attempts, c.backoff, func(attempt int) error {
		resp, err := c.get(ctx, rawURL)
		if err != nil {
			c.logger.Debug("download failed", "url", rawURL, "attempt", attempt, "error", err)
			return fmt.Errorf("downloading %s: %w", rawURL, err)
		}
		defer resp.Body.Close()
		return writeAtomic(destPath, resp.Body)
	})
}

func writeAtomic(destPath string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("moving file into place: %w", err)
	}
	return nil
}
