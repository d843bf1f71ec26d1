package core

import "time"

// TelemetryHook receives notifications about API call lifecycle events.
// Implementations can use this for logging, metrics, tracing, etc.
//
// Event types are designed to never include sensitive data: API keys,
// prompt content, and response content are all excluded. Only operational
// metadata is exposed (model, timing, token counts). Maintain this
// property when extending the event types.
type TelemetryHook interface {
	// OnRequestStart is called when an API call begins.
	OnRequestStart(e RequestStartEvent)

	// OnRequestEnd is called when an API call completes. For streaming
	// calls this fires after the stream terminates or is closed.
	OnRequestEnd(e RequestEndEvent)
}

// RequestStartEvent contains metadata about a starting API call.
type RequestStartEvent struct {
	Model  string    // Model being called
	Stream bool      // Whether this is a streaming call
	Start  time.Time // When the call started
}

// RequestEndEvent contains metadata about a completed API call.
type RequestEndEvent struct {
	Model        string    // Model that was called
	Stream       bool      // Whether this was a streaming call
	Start        time.Time // When the call started
	End          time.Time // When the call completed
	InputTokens  int       // Prompt tokens consumed, 0 if unknown
	OutputTokens int       // Completion tokens generated, 0 if unknown
	Err          error     // Error if the call failed, nil on success
}

// Duration returns the elapsed time for the call.
func (e RequestEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// NoopTelemetryHook is a no-op implementation of TelemetryHook.
// Used as a default when no telemetry is configured.
type NoopTelemetryHook struct{}

// OnRequestStart does nothing.
func (NoopTelemetryHook) OnRequestStart(RequestStartEvent) {}

// OnRequestEnd does nothing.
func (NoopTelemetryHook) OnRequestEnd(RequestEndEvent) {}

// Compile-time check that NoopTelemetryHook implements TelemetryHook.
var _ TelemetryHook = NoopTelemetryHook{}
