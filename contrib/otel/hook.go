// Package otel bridges client telemetry to OpenTelemetry traces.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petal-labs/anthropic-go/core"
)

// tracerName identifies spans produced by this package.
const tracerName = "github.com/petal-labs/anthropic-go/contrib/otel"

// Hook is a core.TelemetryHook that records one span per API request.
// Spans are emitted on request end with explicit timestamps, so
// concurrent requests never interleave state.
type Hook struct {
	tracer trace.Tracer
}

// NewHook creates a telemetry hook backed by the given tracer provider.
func NewHook(tp trace.TracerProvider) *Hook {
	return &Hook{tracer: tp.Tracer(tracerName)}
}

// OnRequestStart is a no-op; the span is recorded once the request ends.
func (h *Hook) OnRequestStart(ev core.RequestStartEvent) {}

// OnRequestEnd records a span covering the request.
func (h *Hook) OnRequestEnd(ev core.RequestEndEvent) {
	_, span := h.tracer.Start(context.Background(), "anthropic.messages",
		trace.WithTimestamp(ev.Start),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gen_ai.request.model", ev.Model),
			attribute.Bool("gen_ai.request.stream", ev.Stream),
			attribute.Int("gen_ai.usage.input_tokens", ev.InputTokens),
			attribute.Int("gen_ai.usage.output_tokens", ev.OutputTokens),
		),
	)

	if ev.Err != nil {
		span.RecordError(ev.Err)
		span.SetStatus(codes.Error, ev.Err.Error())
	}

	span.End(trace.WithTimestamp(ev.End))
}

var _ core.TelemetryHook = (*Hook)(nil)
