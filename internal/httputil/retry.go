// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the network-facing stages.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// retryable HTTP responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 3 * time.Second

const defaultMaxRetries = 4

// retryable reports whether the status is worth retrying: the arXiv
// export API signals overload with 503 and rate limiting with 429.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// DoWithRetry executes an HTTP request and retries 429/503 responses and
// transport-level failures (refused or reset connections) with
// exponential backoff starting at RetryBaseDelay and doubling each
// attempt. When maxRetries is 0 the default (4) is used. The response
// body is drained and closed before each sleep; if the context is
// cancelled during a wait the function returns ctx.Err(). After
// exhausting retries the last response or transport error is returned so
// the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			// A cancelled context surfaces as a transport error too;
			// retrying it is pointless.
			if ctx.Err() != nil || attempt >= maxRetries {
				return nil, err
			}
		} else {
			if !retryable(resp.StatusCode) || attempt >= maxRetries {
				return resp, nil
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
