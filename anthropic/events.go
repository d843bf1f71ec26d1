package anthropic

import (
	"encoding/json"
	"fmt"

	"github.com/petal-labs/anthropic-go/core"
	"github.com/petal-labs/anthropic-go/sse"
)

// Stream event types. The vocabulary is fixed and closed by protocol
// version; unknown types are a decode error, not silently dropped.
const (
	EventTypeMessageStart      = "message_start"
	EventTypeMessageDelta      = "message_delta"
	EventTypeMessageStop       = "message_stop"
	EventTypeContentBlockStart = "content_block_start"
	EventTypeContentBlockDelta = "content_block_delta"
	EventTypeContentBlockStop  = "content_block_stop"
	EventTypePing              = "ping"
	EventTypeError             = "error"
)

// Delta types within content_block_delta events.
const (
	DeltaTypeText      = "text_delta"
	DeltaTypeInputJSON = "input_json_delta"
	DeltaTypeThinking  = "thinking_delta"
	DeltaTypeSignature = "signature_delta"
	DeltaTypeCitations = "citations_delta"
)

// StreamEvent is one decoded streaming event. The Type field determines
// which other fields are populated.
type StreamEvent struct {
	Type string `json:"type"`
	// For message_start
	Message *Message `json:"message,omitempty"`
	// For content_block_start / content_block_delta / content_block_stop
	Index        int           `json:"index,omitempty"`
	ContentBlock *ContentBlock `json:"content_block,omitempty"`
	// For content_block_delta and message_delta
	Delta *Delta `json:"delta,omitempty"`
	// For message_delta
	Usage *MessageDeltaUsage `json:"usage,omitempty"`
	// For error
	Error *StreamError `json:"error,omitempty"`
}

// Delta is the delta payload of content_block_delta and message_delta
// events. For content_block_delta the Type field selects the variant; for
// message_delta only StopReason and StopSequence apply.
type Delta struct {
	Type         string          `json:"type,omitempty"`
	Text         string          `json:"text,omitempty"`
	PartialJSON  string          `json:"partial_json,omitempty"`
	Thinking     string          `json:"thinking,omitempty"`
	Signature    string          `json:"signature,omitempty"`
	Citation     json.RawMessage `json:"citation,omitempty"`
	StopReason   StopReason      `json:"stop_reason,omitempty"`
	StopSequence *string         `json:"stop_sequence,omitempty"`
}

// MessageDeltaUsage is the usage payload of a message_delta event.
// OutputTokens is a running total supplied by the server, not an
// increment.
type MessageDeltaUsage struct {
	OutputTokens int `json:"output_tokens"`
}

// StreamError is the payload of an error event.
type StreamError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ParseEvent maps a raw SSE event to a typed stream event. Keep-alive and
// error events are special-cased by name; for everything else the data is
// parsed as JSON, with the event name injected as the type discriminator
// when the payload omits it.
func ParseEvent(raw sse.Event) (*StreamEvent, error) {
	if raw.Name == EventTypePing {
		return &StreamEvent{Type: EventTypePing}, nil
	}

	if raw.Name == EventTypeError {
		var se StreamError
		if err := json.Unmarshal([]byte(raw.Data), &se); err != nil {
			return nil, core.DecodeError(err)
		}
		return &StreamEvent{Type: EventTypeError, Error: &se}, nil
	}

	var ev StreamEvent
	if err := json.Unmarshal([]byte(raw.Data), &ev); err != nil {
		return nil, core.DecodeError(err)
	}
	if ev.Type == "" {
		ev.Type = raw.Name
	}

	switch ev.Type {
	case EventTypeMessageStart, EventTypeMessageDelta, EventTypeMessageStop,
		EventTypeContentBlockStart, EventTypeContentBlockStop,
		EventTypePing, EventTypeError:
	case EventTypeContentBlockDelta:
		if ev.Delta == nil {
			return nil, core.DecodeError(fmt.Errorf("content_block_delta event without delta"))
		}
		switch ev.Delta.Type {
		case DeltaTypeText, DeltaTypeInputJSON, DeltaTypeThinking,
			DeltaTypeSignature, DeltaTypeCitations:
		default:
			return nil, core.DecodeError(fmt.Errorf("unknown delta type %q", ev.Delta.Type))
		}
	default:
		return nil, core.DecodeError(fmt.Errorf("unknown event type %q", ev.Type))
	}

	return &ev, nil
}
