package core

import (
	"math"
	"math/rand"
	"time"
)

// Default retry parameters.
const (
	DefaultMaxRetries = 2
	DefaultBaseDelay  = 500 * time.Millisecond
	DefaultMaxDelay   = 8 * time.Second
	DefaultJitter     = 0.25
)

// maxRetryAfterHint is the largest server-provided retry hint honored
// verbatim. Larger hints fall back to computed backoff.
const maxRetryAfterHint = 60 * time.Second

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxRetries int           // retry budget; total issuances = MaxRetries + 1 (default: 2)
	BaseDelay  time.Duration // delay before the first retry (default: 500ms)
	MaxDelay   time.Duration // backoff cap (default: 8s)
	Jitter     float64       // fraction of the delay randomly shaved off, 0.0-1.0 (default: 0.25)
}

// RetryPolicy computes backoff delays and decides which responses are
// worth retrying.
type RetryPolicy struct {
	cfg RetryConfig
	rng func() float64
}

// DefaultRetryPolicy returns a retry policy with the API's documented
// defaults: 2 retries, 500ms base delay doubling up to 8s, 25% jitter.
func DefaultRetryPolicy() *RetryPolicy {
	return NewRetryPolicy(RetryConfig{})
}

// NewRetryPolicy creates a retry policy with the given configuration.
// Zero-valued fields take defaults; MaxRetries may be set negative to
// disable retries entirely.
func NewRetryPolicy(cfg RetryConfig) *RetryPolicy {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultMaxDelay
	}
	if cfg.Jitter < 0 || cfg.Jitter > 1 {
		cfg.Jitter = DefaultJitter
	}
	return &RetryPolicy{cfg: cfg, rng: rand.Float64}
}

// MaxRetries returns the retry budget. Attempts are 0-indexed, so the
// request is issued MaxRetries+1 times before the final failure surfaces.
func (p *RetryPolicy) MaxRetries() int {
	return p.cfg.MaxRetries
}

// Delay returns the sleep before retrying the given 0-indexed attempt.
// A server hint in (0, 60s] is honored verbatim; otherwise the delay is
// min(BaseDelay*2^attempt, MaxDelay) reduced by up to Jitter.
func (p *RetryPolicy) Delay(attempt int, hint time.Duration) time.Duration {
	if hint > 0 && hint <= maxRetryAfterHint {
		return hint
	}

	delay := float64(p.cfg.BaseDelay) * math.Pow(2, float64(attempt))
	if delay > float64(p.cfg.MaxDelay) {
		delay = float64(p.cfg.MaxDelay)
	}
	if p.cfg.Jitter > 0 {
		delay *= 1 - p.cfg.Jitter*p.rng()
	}

	return time.Duration(delay)
}

// RetryableStatus reports whether an HTTP status code should trigger a
// retry when attempts remain.
func RetryableStatus(status int) bool {
	switch status {
	case 408, 409, 429, 500, 502, 503, 504, 529:
		return true
	}
	return false
}
