// Package sse decodes Server-Sent Events from arbitrarily chunked byte
// input. The decoder carries partial lines and partially accumulated
// events across calls, so chunk boundaries never have to align with line
// or event boundaries.
package sse

import (
	"bytes"
	"strings"
)

// defaultEventName is used when an event carries data but no "event:" field.
const defaultEventName = "message"

// Event is a single decoded server-sent event.
type Event struct {
	// Name is the event type from the "event:" field, or "message" when
	// the field was never set.
	Name string

	// Data is the payload: successive "data:" lines joined with "\n".
	Data string
}

// Decoder is a stateful SSE decoder. The zero value is not ready for use;
// create one with NewDecoder. A Decoder is scoped to a single stream and
// is not safe for concurrent use.
type Decoder struct {
	buf       []byte   // partial line carried across Feed calls
	eventName string   // current "event:" field value
	hasEvent  bool     // whether eventName was explicitly set
	dataLines []string // pending "data:" field values
}

// NewDecoder creates a new SSE decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends a chunk to the decoder's buffer and returns all events
// completed by it, in order. Lines are delimited by '\n'; a trailing '\r'
// is stripped. An incomplete trailing line stays buffered for the next
// call.
func (d *Decoder) Feed(chunk []byte) []Event {
	d.buf = append(d.buf, chunk...)

	var events []Event
	for {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimSuffix(string(d.buf[:i]), "\r")
		d.buf = d.buf[i+1:]

		if ev, ok := d.processLine(line); ok {
			events = append(events, ev)
		}
	}
	return events
}

// processLine handles one complete line and reports whether it completed
// an event.
func (d *Decoder) processLine(line string) (Event, bool) {
	// Empty line terminates the pending event.
	if line == "" {
		return d.emit()
	}

	// Comment line.
	if strings.HasPrefix(line, ":") {
		return Event{}, false
	}

	// Only the first colon delimits; the value keeps any further colons.
	field, value, hasColon := strings.Cut(line, ":")
	if hasColon {
		// At most one leading space is stripped from the value.
		value = strings.TrimPrefix(value, " ")
	} else {
		field, value = line, ""
	}

	switch field {
	case "event":
		d.eventName = value
		d.hasEvent = true
	case "data":
		d.dataLines = append(d.dataLines, value)
	case "id", "retry":
		// Recognized but unused.
	default:
		// Unknown fields are ignored.
	}

	return Event{}, false
}

// emit completes the pending event, if any. A terminator with no
// accumulated data discards any pending event name and emits nothing.
func (d *Decoder) emit() (Event, bool) {
	if len(d.dataLines) == 0 {
		d.eventName = ""
		d.hasEvent = false
		return Event{}, false
	}

	name := defaultEventName
	if d.hasEvent {
		name = d.eventName
	}
	ev := Event{Name: name, Data: strings.Join(d.dataLines, "\n")}

	d.eventName = ""
	d.hasEvent = false
	d.dataLines = nil
	return ev, true
}

// Buffered reports whether the decoder holds a partial line or a
// partially accumulated event.
func (d *Decoder) Buffered() bool {
	return len(d.buf) > 0 || len(d.dataLines) > 0
}

// Flush completes any event still pending at end of transport, so a
// terminating event without a trailing blank line is not lost. The caller
// must invoke it exactly once after the last Feed.
func (d *Decoder) Flush() (Event, bool) {
	if !d.Buffered() {
		return Event{}, false
	}

	if len(d.buf) > 0 {
		line := strings.TrimSuffix(string(d.buf), "\r")
		d.buf = nil
		if ev, ok := d.processLine(line); ok {
			return ev, true
		}
	}
	return d.emit()
}
