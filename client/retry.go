package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// retryPolicy decides which failed attempts may be sent again.
type retryPolicy int

const (
	// retryReads suits GETs: replaying them is harmless, so timeouts and
	// transient 5xx statuses are retried.
	retryReads retryPolicy = iota
	// retryUnsent suits edits. The server commits an edit while holding the
	// request open, so an attempt is only replayed when the server cannot
	// have run it: the connection was never made, or it answered 429.
	retryUnsent
)

func (p retryPolicy) retryTransport(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if neverSent(err) {
		return true
	}
	if p == retryUnsent {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (p retryPolicy) retryStatus(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	if p == retryUnsent {
		return false
	}
	switch status {
	case http.StatusRequestTimeout, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// neverSent reports whether err happened before any request bytes could
// reach the server.
func neverSent(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

type rawResponse struct {
	StatusCode  int
	ContentType string
	RetryAfter  string
	Body        []byte
}

// errSent marks a transport failure after the request may have been
// delivered.
type errSent struct{ err error }

func (e *errSent) Error() string { return e.err.Error() }
func (e *errSent) Unwrap() error { return e.err }

func (c *Client) doWithRetry(policy retryPolicy, makeRequest func() (*http.Request, error)) (*rawResponse, error) {
	attempts := max(c.maxAttempts, 1)
	for attempt := 1; ; attempt++ {
		req, err := makeRequest()
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}

		raw, err := c.roundTrip(req)
		last := attempt >= attempts
		if err != nil {
			if !last && policy.retryTransport(err) {
				c.sleep(c.backoff(attempt, ""))
				continue
			}
			if !neverSent(err) {
				err = &errSent{err}
			}
			return nil, fmt.Errorf("API request failed after %d attempt(s): %w", attempt, err)
		}
		if !last && policy.retryStatus(raw.StatusCode) {
			c.sleep(c.backoff(attempt, raw.RetryAfter))
			continue
		}
		return raw, nil
	}
}

// roundTrip sends one attempt and reads the whole body under the request
// timeout.
func (c *Client) roundTrip(req *http.Request) (*rawResponse, error) {
	timeout := c.requestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	ctx, cancel := context.WithTimeout(req.Context(), timeout)
	defer cancel()

	resp, err := c.HTTPClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return &rawResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		RetryAfter:  resp.Header.Get("Retry-After"),
		Body:        body,
	}, nil
}

// backoff is the wait before attempt+1: Retry-After when the server sent
// one, else exponential with full jitter, capped at maxBackoff.
func (c *Client) backoff(attempt int, retryAfter string) time.Duration {
	if d, ok := c.parseRetryAfter(retryAfter); ok {
		return d
	}

	base := c.baseBackoff
	if base <= 0 {
		base = defaultBaseBackoff
	}
	ceiling := c.maxBackoff
	if ceiling <= 0 {
		ceiling = defaultMaxBackoff
	}
	delay := base
	for i := 1; i < attempt && delay < ceiling; i++ {
		delay *= 2
	}
	delay = min(delay, ceiling)

	if c.randInt63n != nil {
		delay = time.Duration(c.randInt63n(int64(delay)))
	}
	return delay
}

func (c *Client) parseRetryAfter(headerValue string) (time.Duration, bool) {
	v := strings.TrimSpace(headerValue)
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		now := time.Now
		if c.now != nil {
			now = c.now
		}
		if d := t.Sub(now()); d > 0 {
			return d, true
		}
	}
	return 0, false
}
