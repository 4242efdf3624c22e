package httpclient

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RetryPolicy controls when GetWithRetry retries a request. Transport errors
// and 5xx responses are retried up to MaxAttempts with a fixed Backoff; 429
// waits the server's Retry-After (capped at Max429Wait). Other 4xx are never
// retried.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
	Max429Wait  time.Duration
}

// DefaultRetryPolicy: three attempts, 1s backoff, 429 wait capped at 60s.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 3,
	Backoff:     1 * time.Second,
	Max429Wait:  60 * time.Second,
}

// GetWithRetry performs a GET with the policy above. Caller must close
// resp.Body when err == nil. The request is rebuilt for each attempt so a
// consumed body never leaks into a retry.
func GetWithRetry(ctx context.Context, client *http.Client, url string, header http.Header, policy RetryPolicy) (*http.Response, error) {
	if client == nil {
		client = Default()
	}
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		for k, v := range header {
			req.Header[k] = v
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			if attempt == attempts {
				return nil, lastErr
			}
			if err := sleep(ctx, policy.Backoff); err != nil {
				return nil, err
			}
			continue
		}

		code := resp.StatusCode
		switch {
		case code < 400:
			return resp, nil
		case code == http.StatusTooManyRequests:
			wait := parseRetryAfter(resp.Header.Get("Retry-After"), policy.Max429Wait)
			drain(resp)
			lastErr = &StatusError{Code: code}
			if attempt == attempts {
				return nil, lastErr
			}
			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}
		case code >= 500:
			drain(resp)
			lastErr = &StatusError{Code: code}
			if attempt == attempts {
				return nil, lastErr
			}
			if err := sleep(ctx, policy.Backoff); err != nil {
				return nil, err
			}
		default:
			// remaining 4xx: not retryable
			drain(resp)
			return nil, &StatusError{Code: code}
		}
	}
	return nil, lastErr
}

// StatusError reports a non-success HTTP status after retries are exhausted.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return "unexpected status " + strconv.Itoa(e.Code) + " " + http.StatusText(e.Code)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// parseRetryAfter parses Retry-After (seconds or HTTP-date); returns a
// duration capped at max.
func parseRetryAfter(s string, max time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1 * time.Second
	}
	if sec, err := strconv.Atoi(s); err == nil && sec >= 0 {
		d := time.Duration(sec) * time.Second
		if d > max {
			return max
		}
		return d
	}
	t, err := time.Parse(time.RFC1123, s)
	if err != nil {
		return 1 * time.Second
	}
	until := time.Until(t)
	if until <= 0 {
		return 0
	}
	if until > max {
		return max
	}
	return until
}
