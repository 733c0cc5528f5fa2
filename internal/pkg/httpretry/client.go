// Package httpretry wraps an HTTP client so transient upstream failures
// (throttling, 5xx, dropped connections) can be retried with backoff.
// The default budget is zero: one attempt, no retries.
package httpretry

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/ceirr/sample-dashboard/internal/pkg/logger"
)

// HTTPDoer is the interface for executing HTTP requests.
// Both *http.Client and *RetryClient satisfy this interface.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RetryClient retries retryable responses and transport errors.
type RetryClient struct {
	client     HTTPDoer
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// NewRetryClient wraps client. A nil client gets a 30s http.Client.
// maxRetries counts attempts after the first; values below zero mean zero.
func NewRetryClient(client HTTPDoer, maxRetries int) *RetryClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &RetryClient{
		client:     client,
		maxRetries: max(maxRetries, 0),
		baseDelay:  time.Second,
		maxDelay:   30 * time.Second,
	}
}

// MaxRetries returns the retry budget.
func (rc *RetryClient) MaxRetries() int { return rc.maxRetries }

// Do sends req, retrying 429/5xx gateway statuses and transport errors
// until the budget runs out. 4xx responses are returned immediately. The
// last response is always handed back so the caller can read its status.
func (rc *RetryClient) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	var lastErr error

	for attempt := 0; attempt <= rc.maxRetries; attempt++ {
		if attempt > 0 {
			if err := rewind(req); err != nil {
				return nil, err
			}
			delay := rc.backoff(attempt)
			logger.Warn("httpretry: retrying",
				"attempt", attempt, "of", rc.maxRetries, "host", req.URL.Host, "wait", delay, "cause", lastErr)
			if err := sleep(ctx, delay); err != nil {
				return nil, firstErr(lastErr, err)
			}
		} else if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := rc.client.Do(req)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, err
			}
			lastErr = err
		case !retryable(resp.StatusCode) || attempt == rc.maxRetries:
			return resp, nil
		default:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("httpretry: upstream status %d", resp.StatusCode)
		}
	}

	return nil, lastErr
}

// backoff is full-jitter exponential: rand(0, min(max, base*2^(attempt-1))),
// floored at 100ms.
func (rc *RetryClient) backoff(attempt int) time.Duration {
	ceiling := rc.baseDelay << (attempt - 1)
	if ceiling <= 0 || ceiling > rc.maxDelay {
		ceiling = rc.maxDelay
	}
	return max(time.Duration(rand.Int63n(int64(ceiling)+1)), 100*time.Millisecond)
}

func rewind(req *http.Request) error {
	if req.GetBody == nil {
		return nil
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Errorf("httpretry: reset request body: %w", err)
	}
	req.Body = body
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
