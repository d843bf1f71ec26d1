package anthropic

import (
	"net/http"

	"github.com/petal-labs/anthropic-go/core"
)

// DefaultBaseURL is the default API base URL.
const DefaultBaseURL = "https://api.anthropic.com"

// DefaultVersion is the default anthropic-version header value.
const DefaultVersion = "2023-06-01"

// Config holds client configuration.
type Config struct {
	// APIKey is the API key (required).
	APIKey core.Secret

	// BaseURL is the API base URL. Defaults to https://api.anthropic.com
	BaseURL string

	// HTTPClient is the HTTP client to use. Defaults to
	// http.DefaultClient. Its timeout is the only deadline applied to
	// requests and streams.
	HTTPClient *http.Client

	// Version is the anthropic-version header value. Defaults to
	// 2023-06-01.
	Version string

	// Headers contains optional extra headers to include in requests.
	Headers http.Header

	// Retry governs backoff for retryable failures. Defaults to
	// core.DefaultRetryPolicy().
	Retry *core.RetryPolicy

	// Telemetry receives request lifecycle events. Defaults to a noop
	// hook.
	Telemetry core.TelemetryHook
}

// Option configures the client.
type Option func(*Config)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithVersion sets the anthropic-version header value.
func WithVersion(version string) Option {
	return func(c *Config) {
		c.Version = version
	}
}

// WithHeader adds an extra header to include in requests.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(http.Header)
		}
		c.Headers.Set(key, value)
	}
}

// WithRetryConfig sets the retry policy configuration.
func WithRetryConfig(cfg core.RetryConfig) Option {
	return func(c *Config) {
		c.Retry = core.NewRetryPolicy(cfg)
	}
}

// WithMaxRetries sets the retry budget, keeping default backoff timing.
// Pass 0 to disable retries.
func WithMaxRetries(n int) Option {
	return func(c *Config) {
		if n == 0 {
			n = -1
		}
		c.Retry = core.NewRetryPolicy(core.RetryConfig{MaxRetries: n})
	}
}

// WithTelemetry sets the telemetry hook.
func WithTelemetry(hook core.TelemetryHook) Option {
	return func(c *Config) {
		if hook != nil {
			c.Telemetry = hook
		}
	}
}
