package core

import (
	"testing"
	"time"
)

// noJitter returns a policy whose jitter draw is always zero, so
// Delay(attempt, 0) equals min(BaseDelay*2^attempt, MaxDelay) exactly.
func noJitter(cfg RetryConfig) *RetryPolicy {
	p := NewRetryPolicy(cfg)
	p.rng = func() float64 { return 0 }
	return p
}

func TestDelayExponentialGrowth(t *testing.T) {
	p := noJitter(RetryConfig{})

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 500 * time.Millisecond},
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 8 * time.Second}, // capped
		{10, 8 * time.Second},
	}

	for _, tt := range tests {
		if got := p.Delay(tt.attempt, 0); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestDelayNonDecreasingWithinBounds(t *testing.T) {
	p := DefaultRetryPolicy()

	var prev time.Duration
	for attempt := 0; attempt < 12; attempt++ {
		// Jitter is random; exercise several draws per attempt.
		for i := 0; i < 50; i++ {
			d := p.Delay(attempt, 0)
			if d < 0 || d > DefaultMaxDelay {
				t.Fatalf("Delay(%d) = %v, outside [0, %v]", attempt, d, DefaultMaxDelay)
			}
		}
		// With jitter pinned to zero the sequence is non-decreasing.
		q := noJitter(RetryConfig{})
		d := q.Delay(attempt, 0)
		if d < prev {
			t.Fatalf("Delay(%d) = %v decreased from %v", attempt, d, prev)
		}
		prev = d
	}
}

func TestDelayHonorsServerHint(t *testing.T) {
	p := noJitter(RetryConfig{})

	if got := p.Delay(3, 250*time.Millisecond); got != 250*time.Millisecond {
		t.Errorf("Delay with 250ms hint = %v, want 250ms", got)
	}

	// Hints above 60s are ignored in favor of computed backoff.
	if got := p.Delay(1, 120*time.Second); got != time.Second {
		t.Errorf("Delay with 120s hint = %v, want computed 1s", got)
	}
}

func TestDelayJitterReduces(t *testing.T) {
	p := NewRetryPolicy(RetryConfig{Jitter: 0.25})
	p.rng = func() float64 { return 1 }

	// Full jitter draw shaves exactly the jitter fraction.
	want := time.Duration(float64(500*time.Millisecond) * 0.75)
	if got := p.Delay(0, 0); got != want {
		t.Errorf("Delay(0) with full jitter = %v, want %v", got, want)
	}
}

func TestRetryableStatus(t *testing.T) {
	for _, status := range []int{408, 409, 429, 500, 502, 503, 504, 529} {
		if !RetryableStatus(status) {
			t.Errorf("RetryableStatus(%d) = false, want true", status)
		}
	}
	for _, status := range []int{200, 400, 401, 403, 404, 413, 422, 501} {
		if RetryableStatus(status) {
			t.Errorf("RetryableStatus(%d) = true, want false", status)
		}
	}
}

func TestNewRetryPolicyDefaults(t *testing.T) {
	p := NewRetryPolicy(RetryConfig{})
	if p.MaxRetries() != DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", p.MaxRetries(), DefaultMaxRetries)
	}

	// Negative MaxRetries disables retries.
	p = NewRetryPolicy(RetryConfig{MaxRetries: -1})
	if p.MaxRetries() != 0 {
		t.Errorf("MaxRetries = %d, want 0", p.MaxRetries())
	}

	// Out-of-range jitter falls back to the default.
	p = NewRetryPolicy(RetryConfig{Jitter: 2})
	if p.cfg.Jitter != DefaultJitter {
		t.Errorf("Jitter = %v, want %v", p.cfg.Jitter, DefaultJitter)
	}
}
