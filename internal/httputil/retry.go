// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the bounded retry policy used by the catalog
// transport.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// SleepFunc waits for d or until ctx is done, returning ctx.Err() in the
// latter case.
type SleepFunc func(ctx context.Context, d time.Duration) error

// RetryPolicy retries a request on transport errors, HTTP 429 and HTTP 5xx
// with exponential backoff: BaseDelay, 2*BaseDelay, 4*BaseDelay, ... capped
// at MaxDelay. A zero policy makes a single attempt.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseDelay is the wait before the first retry.
	BaseDelay time.Duration

	// MaxDelay caps one wait. Zero means no cap.
	MaxDelay time.Duration

	// Sleep performs the wait. Nil uses a context-aware timer; tests
	// substitute a function that returns immediately.
	Sleep SleepFunc

	// OnRetry, when set, is called before each wait.
	OnRetry func(attempt int, wait time.Duration, reason string)
}

// DefaultRetryPolicy returns ten attempts starting at one second and capped
// at thirty seconds.
func DefaultRetryPolicy() RetryPolicy {
	return PolicyFromConfig(types.DefaultConfig().Catalog.Retry)
}

// PolicyFromConfig builds a policy from configuration values.
func PolicyFromConfig(cfg types.RetryConfig) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
		MaxDelay:    cfg.MaxDelay,
	}
}

// Backoff returns the wait before retry number n (1-based).
func (p RetryPolicy) Backoff(n int) time.Duration {
	if n < 1 || p.BaseDelay <= 0 {
		return 0
	}
	d := p.BaseDelay
	for i := 1; i < n; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Do sends req and retries while the outcome is retryable and attempts
// remain. Request bodies are replayed through req.GetBody. After the last
// attempt the final response is returned as-is so the caller can inspect
// its status; a final transport error is returned wrapped. Cancelling ctx
// during a wait returns ctx.Err().
func (p RetryPolicy) Do(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = timerSleep
	}

	for attempt := 1; ; attempt++ {
		r := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewinding request body: %w", err)
			}
			r.Body = body
		}

		resp, err := client.Do(r)
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var reason string
		switch {
		case err != nil:
			reason = err.Error()
		case retryableStatus(resp.StatusCode):
			reason = fmt.Sprintf("HTTP %d", resp.StatusCode)
		default:
			return resp, nil
		}

		if attempt >= attempts {
			if err != nil {
				return nil, fmt.Errorf("after %d attempt(s): %w", attempt, err)
			}
			return resp, nil
		}

		if resp != nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		wait := p.Backoff(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, wait, reason)
		}
		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func timerSleep(ctx context.Context, d time.Duration) error {
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
