// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the provider adapters.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/pdiddy/devscholar/pkg/types"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

// DefaultTimeout applies when the configuration does not set one.
const DefaultTimeout = 10 * time.Second

// NewClient builds the shared HTTP client from configuration.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Do executes the request. When maxRetries is positive, HTTP 429
// responses are retried with exponential backoff starting at
// RetryBaseDelay; with maxRetries zero a 429 is returned to the caller
// unchanged, since retry policy belongs to the caller rather than the
// resolver core.
func Do(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// DrainClose discards and closes a response body so the connection can
// be reused.
func DrainClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
