// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the upstream clients.
package httputil

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// RetryBaseDelay is the first backoff after an HTTP 429; each further
// retry doubles it.
var RetryBaseDelay = 2 * time.Second

const defaultMaxRetries = 5

// DoWithRetry sends req and resends it while the upstream answers 429 Too
// Many Requests, up to maxRetries times. Zero means the default of five; a
// negative value sends once. Any other status, or the final 429, is
// returned to the caller unread. A context that ends during a backoff
// returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	switch {
	case maxRetries == 0:
		maxRetries = defaultMaxRetries
	case maxRetries < 0:
		maxRetries = 0
	}

	delay := RetryBaseDelay
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt == maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		slog.DebugContext(ctx, "rate limited, backing off",
			"host", req.URL.Host, "delay", delay, "retry", attempt+1, "max_retries", maxRetries)
		if err := wait(ctx, delay); err != nil {
			return nil, err
		}
		delay *= 2
	}
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
