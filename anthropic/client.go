// Package anthropic provides a client for the Anthropic Messages API,
// including streaming responses over Server-Sent Events and automatic
// retries with exponential backoff.
package anthropic

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/petal-labs/anthropic-go/core"
)

// DefaultAPIKeyEnvVar is the environment variable name for the API key.
const DefaultAPIKeyEnvVar = "ANTHROPIC_API_KEY"

// ErrAPIKeyNotFound is returned when the API key environment variable is
// not set.
var ErrAPIKeyNotFound = errors.New("anthropic: ANTHROPIC_API_KEY environment variable not set")

// Client is a client for the Anthropic API.
// Client is safe for concurrent use.
type Client struct {
	config Config
}

// New creates a new client with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	cfg := Config{
		APIKey:     core.NewSecret(apiKey),
		BaseURL:    DefaultBaseURL,
		HTTPClient: http.DefaultClient,
		Version:    DefaultVersion,
		Retry:      core.DefaultRetryPolicy(),
		Telemetry:  core.NoopTelemetryHook{},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Client{config: cfg}
}

// NewFromEnv creates a new client using the ANTHROPIC_API_KEY environment
// variable:
//
//	client, err := anthropic.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	msg, err := client.Messages().Create(ctx, params)
func NewFromEnv(opts ...Option) (*Client, error) {
	apiKey := os.Getenv(DefaultAPIKeyEnvVar)
	if apiKey == "" {
		return nil, ErrAPIKeyNotFound
	}
	return New(apiKey, opts...), nil
}

// Messages returns the Messages API resource.
func (c *Client) Messages() *MessagesService {
	return &MessagesService{client: c}
}

// buildHeaders constructs the HTTP headers for an API request.
func (c *Client) buildHeaders() http.Header {
	headers := make(http.Header)

	headers.Set("x-api-key", c.config.APIKey.Expose())
	headers.Set("anthropic-version", c.config.Version)
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")

	for key, values := range c.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

// do executes one logical request with retries. Attempts are 0-indexed
// and the loop runs while attempt <= MaxRetries, so the request is issued
// at most MaxRetries+1 times. Transport failures and retryable statuses
// are retried after a backoff sleep; any other response is returned as-is
// with its body unread, ownership passing to the caller.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	retry := c.config.Retry

	var lastErr error
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, core.NetworkError(err)
		}
		for key, values := range c.buildHeaders() {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}

		resp, err := c.config.HTTPClient.Do(req)
		if err != nil {
			lastErr = classifyTransportError(err)
			if attempt >= retry.MaxRetries() {
				return nil, lastErr
			}
			if serr := sleep(ctx, retry.Delay(attempt, 0)); serr != nil {
				return nil, lastErr
			}
			continue
		}

		if core.RetryableStatus(resp.StatusCode) && attempt < retry.MaxRetries() {
			hint := retryAfterHint(resp.Header)
			drainBody(resp)
			if serr := sleep(ctx, retry.Delay(attempt, hint)); serr != nil {
				return nil, classifyTransportError(serr)
			}
			continue
		}

		return resp, nil
	}
}

// sleep waits for d, returning early with the context error on
// cancellation.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// classifyTransportError separates timeouts from connection failures.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return core.TimeoutError(err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return core.TimeoutError(err)
	}
	return core.NetworkError(err)
}

// retryAfterHint parses the server's retry hint headers. retry-after-ms
// (milliseconds) is preferred over retry-after (seconds). Returns 0 when
// neither parses.
func retryAfterHint(h http.Header) time.Duration {
	if v := h.Get("retry-after-ms"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	if v := h.Get("retry-after"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}

// drainBody discards an abandoned response body so the connection can be
// reused.
func drainBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
