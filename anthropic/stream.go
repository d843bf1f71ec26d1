package anthropic

import (
	"io"
	"strings"

	"github.com/petal-labs/anthropic-go/core"
	"github.com/petal-labs/anthropic-go/sse"
)

// StreamState accumulates streaming events into a running view of the
// message being generated. It is owned by the stream and updated after
// each successfully decoded event; text and thinking only grow, and
// IsComplete only transitions false to true.
type StreamState struct {
	// Message is the base message from message_start.
	Message *Message

	// IsComplete is set when message_stop is observed.
	IsComplete bool

	// StopReason is the last stop reason seen in a message_delta.
	StopReason StopReason

	// OutputTokens is the last output-token total seen in a
	// message_delta. The server supplies a running total, so the value
	// is overwritten, not added.
	OutputTokens int

	text     strings.Builder
	thinking strings.Builder
}

// Text returns the accumulated text content.
func (s *StreamState) Text() string {
	return s.text.String()
}

// Thinking returns the accumulated thinking content.
func (s *StreamState) Thinking() string {
	return s.thinking.String()
}

// Apply folds one event into the state.
func (s *StreamState) Apply(ev *StreamEvent) {
	switch ev.Type {
	case EventTypeMessageStart:
		if ev.Message != nil {
			msg := *ev.Message
			s.Message = &msg
		}
	case EventTypeMessageDelta:
		if ev.Delta != nil && ev.Delta.StopReason != "" {
			s.StopReason = ev.Delta.StopReason
		}
		if ev.Usage != nil {
			s.OutputTokens = ev.Usage.OutputTokens
		}
	case EventTypeMessageStop:
		s.IsComplete = true
	case EventTypeContentBlockDelta:
		if ev.Delta == nil {
			return
		}
		switch ev.Delta.Type {
		case DeltaTypeText:
			s.text.WriteString(ev.Delta.Text)
		case DeltaTypeThinking:
			s.thinking.WriteString(ev.Delta.Thinking)
		}
		// input_json_delta, signature_delta, and citations_delta are
		// exposed on the event but not folded into state.
	}
}

// Final returns the base message with the accumulated stop reason and
// output-token count applied. Content blocks stay as announced in
// message_start; reconstructing block content from deltas is the
// caller's job. Returns nil before message_start.
func (s *StreamState) Final() *Message {
	if s.Message == nil {
		return nil
	}
	msg := *s.Message
	if s.StopReason != "" {
		msg.StopReason = s.StopReason
	}
	msg.Usage.OutputTokens = s.OutputTokens
	return &msg
}

// MessageStream iterates over typed events from a streaming response.
//
// Usage:
//
//	stream, err := client.Messages().Stream(ctx, params)
//	if err != nil { ... }
//	defer stream.Close()
//	for stream.Next() {
//	    ev := stream.Event()
//	    // process ev
//	}
//	if err := stream.Err(); err != nil { ... }
//
// A MessageStream owns its decoder and state and is not safe for
// concurrent use. Closing the stream stops further network reads and
// releases the underlying connection.
type MessageStream struct {
	body    io.ReadCloser
	dec     *sse.Decoder
	state   StreamState
	pending []sse.Event
	readBuf []byte

	event   *StreamEvent
	err     error
	stopped bool // message_stop observed
	eof     bool // transport drained and decoder flushed
	closed  bool

	// onFinish, if set, fires exactly once when the stream terminates
	// or is closed.
	onFinish func(err error, outputTokens int)
	finished bool
}

func newMessageStream(body io.ReadCloser) *MessageStream {
	return &MessageStream{
		body:    body,
		dec:     sse.NewDecoder(),
		readBuf: make([]byte, 4096),
	}
}

// Next advances to the next event. It returns false when the stream
// terminates: after message_stop, on end of transport, on a decode or
// transport error, or after Close. Decode failures are terminal; the
// stream produces nothing further.
func (s *MessageStream) Next() bool {
	if s.stopped || s.closed || s.err != nil {
		s.finish()
		return false
	}

	for {
		for len(s.pending) > 0 {
			raw := s.pending[0]
			s.pending = s.pending[1:]

			ev, err := ParseEvent(raw)
			if err != nil {
				s.err = err
				s.finish()
				return false
			}

			s.state.Apply(ev)
			s.event = ev
			if ev.Type == EventTypeMessageStop {
				s.stopped = true
			}
			return true
		}

		if s.eof {
			s.finish()
			return false
		}

		n, err := s.body.Read(s.readBuf)
		if n > 0 {
			s.pending = append(s.pending, s.dec.Feed(s.readBuf[:n])...)
		}
		if err != nil {
			if err == io.EOF {
				s.eof = true
				if ev, ok := s.dec.Flush(); ok {
					s.pending = append(s.pending, ev)
				}
				continue
			}
			s.err = core.NetworkError(err)
			s.finish()
			return false
		}
	}
}

// Event returns the most recently decoded event. Only valid after Next
// returns true.
func (s *MessageStream) Event() *StreamEvent {
	return s.event
}

// Err returns the error that terminated the stream, or nil if it ended
// cleanly (message_stop or end of transport).
func (s *MessageStream) Err() error {
	return s.err
}

// State returns the accumulated stream state.
func (s *MessageStream) State() *StreamState {
	return &s.state
}

// Text returns the text accumulated so far.
func (s *MessageStream) Text() string {
	return s.state.Text()
}

// Thinking returns the thinking content accumulated so far.
func (s *MessageStream) Thinking() string {
	return s.state.Thinking()
}

// Done reports whether message_stop was observed. A stream whose
// transport closed without message_stop ends with Done() == false and
// Err() == nil; callers distinguish truncation this way.
func (s *MessageStream) Done() bool {
	return s.state.IsComplete
}

// Final returns the accumulated final message, or nil before
// message_start.
func (s *MessageStream) Final() *Message {
	return s.state.Final()
}

// CollectText drains the stream and returns all accumulated text. The
// stream is closed on return.
func (s *MessageStream) CollectText() (string, error) {
	defer s.Close()
	for s.Next() {
	}
	if err := s.Err(); err != nil {
		return "", err
	}
	return s.Text(), nil
}

// Close stops further reads and releases the underlying connection. It is
// safe to call multiple times.
func (s *MessageStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.body.Close()
	s.finish()
	return err
}

func (s *MessageStream) finish() {
	if s.finished {
		return
	}
	s.finished = true
	if s.onFinish != nil {
		s.onFinish(s.err, s.state.OutputTokens)
	}
}
