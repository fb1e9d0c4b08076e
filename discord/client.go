// Package discord is the bot's only egress to the Discord REST API. The
// Client attaches credentials, self-throttles against rate limits and
// exposes typed wrappers for the handful of endpoints the workflow needs.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// maxRetries bounds how often a single request is re-sent after a 429.
	maxRetries = 3

	defaultRetryAfter = time.Second

	userAgent = "DiscordBot (https://github.com/nvidal/groupbot, 1.0)"
)

// ErrRateLimited is returned once the retry budget for 429 responses is
// exhausted.
var ErrRateLimited = errors.New("rate limit retries exhausted")

// APIError - non-2xx response other than a rate limit. Not retried.
type APIError struct {
	Status   int
	Endpoint string
	Body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord: %s returned %d: %s", e.Endpoint, e.Status, e.Body)
}

// Client performs authenticated calls against the Discord REST API.
type Client struct {
	base  string
	token string
	http  *http.Client
	log   *slog.Logger
}

// NewClient builds a client for the given API base URL. timeout bounds
// every individual HTTP call.
func NewClient(base, token string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		base:  strings.TrimSuffix(base, "/"),
		token: token,
		http:  &http.Client{Timeout: timeout},
		log:   log.With("component", "discord"),
	}
}

// Request performs one API call and returns the raw response body. A
// non-nil body is JSON encoded. 429 responses are retried after the
// server-supplied retry_after delay, up to maxRetries times; every other
// non-2xx status surfaces as *APIError.
func (c *Client) Request(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, c.base+"/"+strings.TrimPrefix(endpoint, "/"), bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bot "+c.token)
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
		req.Header.Set("User-Agent", userAgent)

		res, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
		}
		data, err := io.ReadAll(res.Body)
		res.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("%s %s: read response: %w", method, endpoint, err)
		}

		if res.StatusCode == http.StatusTooManyRequests {
			if attempt == maxRetries {
				c.log.Error("rate limit retries exhausted", "endpoint", endpoint, "retries", attempt)
				return nil, fmt.Errorf("%s %s: %w", method, endpoint, ErrRateLimited)
			}
			wait := retryAfter(data)
			c.log.Warn("rate limited", "endpoint", endpoint, "retry", attempt+1, "wait", wait)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			continue
		}

		if res.StatusCode < 200 || res.StatusCode > 299 {
			c.log.Error("api error", "endpoint", endpoint, "status", res.StatusCode)
			return nil, &APIError{Status: res.StatusCode, Endpoint: endpoint, Body: string(data)}
		}
		return data, nil
	}
}

// retryAfter reads retry_after (seconds, possibly fractional) from a 429
// body, defaulting to one second when absent or malformed.
func retryAfter(body []byte) time.Duration {
	var payload struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.RetryAfter <= 0 {
		return defaultRetryAfter
	}
	return time.Duration(payload.RetryAfter * float64(time.Second))
}
