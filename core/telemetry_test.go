package core

import (
	"testing"
	"time"
)

func TestRequestEndEventDuration(t *testing.T) {
	start := time.Now()
	e := RequestEndEvent{Start: start, End: start.Add(250 * time.Millisecond)}
	if e.Duration() != 250*time.Millisecond {
		t.Errorf("Duration = %v, want 250ms", e.Duration())
	}
}

func TestNoopTelemetryHook(t *testing.T) {
	// Must not panic.
	var hook TelemetryHook = NoopTelemetryHook{}
	hook.OnRequestStart(RequestStartEvent{Model: "claude-sonnet-4-5"})
	hook.OnRequestEnd(RequestEndEvent{Model: "claude-sonnet-4-5"})
}
