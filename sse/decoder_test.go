package sse

import (
	"reflect"
	"testing"
)

// decodeAll runs the full stream through a fresh decoder, flushing at the
// end, and returns the resulting events.
func decodeAll(t *testing.T, chunks ...[]byte) []Event {
	t.Helper()
	d := NewDecoder()
	var events []Event
	for _, chunk := range chunks {
		events = append(events, d.Feed(chunk)...)
	}
	if ev, ok := d.Flush(); ok {
		events = append(events, ev)
	}
	return events
}

func TestDecodeSimpleEvent(t *testing.T) {
	events := decodeAll(t, []byte("event: message_start\ndata: {\"type\":\"message_start\"}\n\n"))

	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Name != "message_start" {
		t.Errorf("Name = %q, want 'message_start'", events[0].Name)
	}
	if events[0].Data != `{"type":"message_start"}` {
		t.Errorf("Data = %q", events[0].Data)
	}
}

func TestDecodeMultipleEvents(t *testing.T) {
	events := decodeAll(t, []byte("event: content_block_start\ndata: {}\n\nevent: content_block_delta\ndata: {\"text\":\"Hi\"}\n\n"))

	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Name != "content_block_start" || events[1].Name != "content_block_delta" {
		t.Errorf("names = %q, %q", events[0].Name, events[1].Name)
	}
}

func TestDecodeSplitInvariance(t *testing.T) {
	stream := []byte("event: content_block_delta\r\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"text\":\"a:b:c\"}}\r\n\r\nevent: message_stop\ndata: {}\n\n: keep-alive\ndata: tail without terminator")

	whole := decodeAll(t, stream)
	if len(whole) != 3 {
		t.Fatalf("whole-stream events = %d, want 3", len(whole))
	}

	// Splitting at every byte boundary must yield identical events,
	// including splits mid-field and mid-line.
	for split := 1; split < len(stream); split++ {
		got := decodeAll(t, stream[:split], stream[split:])
		if !reflect.DeepEqual(got, whole) {
			t.Fatalf("split at %d: events = %+v, want %+v", split, got, whole)
		}
	}
}

func TestMultiLineDataJoinsWithNewline(t *testing.T) {
	events := decodeAll(t, []byte("data: first\ndata: second\ndata: third\n\n"))

	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Data != "first\nsecond\nthird" {
		t.Errorf("Data = %q, want newline-joined lines", events[0].Data)
	}
}

func TestDefaultEventName(t *testing.T) {
	events := decodeAll(t, []byte("data: hello\n\n"))

	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Name != "message" {
		t.Errorf("Name = %q, want 'message'", events[0].Name)
	}
}

func TestCommentsAndBlankLinesEmitNothing(t *testing.T) {
	events := decodeAll(t, []byte(": comment only\n\n\n: another\n\n"))
	if len(events) != 0 {
		t.Fatalf("events = %d, want 0", len(events))
	}
}

func TestBlankLineWithoutDataDiscardsEventName(t *testing.T) {
	// The stray event name must not leak into the following event.
	events := decodeAll(t, []byte("event: ping\n\ndata: hello\n\n"))

	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Name != "message" {
		t.Errorf("Name = %q, want default 'message'", events[0].Name)
	}
}

func TestValueKeepsColons(t *testing.T) {
	events := decodeAll(t, []byte("data: {\"url\":\"https://example.com\"}\n\n"))

	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Data != `{"url":"https://example.com"}` {
		t.Errorf("Data = %q, colons after the first must be kept", events[0].Data)
	}
}

func TestAtMostOneLeadingSpaceStripped(t *testing.T) {
	events := decodeAll(t, []byte("data:  two spaces\ndata:none\n\n"))

	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Data != " two spaces\nnone" {
		t.Errorf("Data = %q", events[0].Data)
	}
}

func TestFieldWithoutColon(t *testing.T) {
	// A bare field name is dispatched with an empty value.
	events := decodeAll(t, []byte("data\ndata: x\n\n"))

	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Data != "\nx" {
		t.Errorf("Data = %q, want empty first line", events[0].Data)
	}
}

func TestIDAndRetryIgnored(t *testing.T) {
	events := decodeAll(t, []byte("id: 42\nretry: 1000\nevent: ping\ndata: {}\n\n"))

	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Name != "ping" || events[0].Data != "{}" {
		t.Errorf("event = %+v", events[0])
	}
}

func TestFlushRecoversUnterminatedEvent(t *testing.T) {
	d := NewDecoder()

	events := d.Feed([]byte("event: message_stop\ndata: {\"type\":\"message_stop\"}"))
	if len(events) != 0 {
		t.Fatalf("events before flush = %d, want 0", len(events))
	}
	if !d.Buffered() {
		t.Fatal("Buffered() = false, want true")
	}

	ev, ok := d.Flush()
	if !ok {
		t.Fatal("Flush() emitted nothing")
	}
	if ev.Name != "message_stop" || ev.Data != `{"type":"message_stop"}` {
		t.Errorf("flushed event = %+v", ev)
	}

	if _, ok := d.Flush(); ok {
		t.Error("second Flush() should emit nothing")
	}
}

func TestFlushEmptyDecoder(t *testing.T) {
	d := NewDecoder()
	if _, ok := d.Flush(); ok {
		t.Error("Flush() on empty decoder should emit nothing")
	}
}
