// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the fetch layer shared by scrapers, the
// full-text cascade, and AI backends: a bounded retry combinator, a
// browser-like HTTP client, and an optional headless-browser renderer.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"
)

// BackoffFunc returns the wait after a failed attempt (1-based).
type BackoffFunc func(attempt int) time.Duration

// Linear returns a backoff that waits base*attempt.
func Linear(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return base * time.Duration(attempt)
	}
}

// Exponential returns a backoff that waits base*2^(attempt-1).
func Exponential(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return time.Duration(math.Pow(2, float64(attempt-1))) * base
	}
}

// Sleep waits for d or until ctx is done. Tests replace it to avoid real
// sleeps and to record the requested delays.
var Sleep = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retry calls op up to attempts times, stopping at the first nil error.
// Between failures it sleeps for backoff(attempt). The last error is
// returned when every attempt fails; a cancelled context during the wait
// returns ctx.Err().
func Retry(ctx context.Context, attempts int, backoff BackoffFunc, op func(attempt int) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = op(attempt); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		var wait time.Duration
		if backoff != nil {
			wait = backoff(attempt)
		}
		if serr := Sleep(ctx, wait); serr != nil {
			return serr
		}
	}
	return err
}

// RateLimitBaseDelay is the starting backoff for HTTP 429 responses from
// AI APIs. Tests override this to avoid real sleeps.
var RateLimitBaseDelay = 10 * time.Second

const defaultRateLimitRetries = 5

// DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests) with exponential backoff starting at RateLimitBaseDelay.
//
// When maxRetries is 0 the default (5) is used. On each 429 the response
// body is drained and closed before sleeping. After exhausting retries the
// last 429 response is returned so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultRateLimitRetries
	}
	backoff := Exponential(RateLimitBaseDelay)

	for attempt := 1; ; attempt++ {
		r := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			r.Body = body
		}
		resp, err := client.Do(r)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt > maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if err := Sleep(ctx, backoff(attempt)); err != nil {
			return nil, err
		}
	}
}
