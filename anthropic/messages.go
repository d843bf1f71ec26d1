package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/petal-labs/anthropic-go/core"
)

// messagesPath is the API endpoint for messages.
const messagesPath = "/v1/messages"

// MessagesService provides access to the Messages API.
type MessagesService struct {
	client *Client
}

// Create sends a non-streaming message request and returns the complete
// response.
func (s *MessagesService) Create(ctx context.Context, params MessageNewParams) (*Message, error) {
	params.Stream = false
	payload, err := json.Marshal(params)
	if err != nil {
		return nil, core.DecodeError(err)
	}

	start := time.Now()
	telemetry := s.client.config.Telemetry
	telemetry.OnRequestStart(core.RequestStartEvent{Model: params.Model, Start: start})

	msg, err := s.create(ctx, payload)

	end := core.RequestEndEvent{Model: params.Model, Start: start, End: time.Now(), Err: err}
	if msg != nil {
		end.InputTokens = msg.Usage.InputTokens
		end.OutputTokens = msg.Usage.OutputTokens
	}
	telemetry.OnRequestEnd(end)

	return msg, err
}

func (s *MessagesService) create(ctx context.Context, payload []byte) (*Message, error) {
	resp, err := s.client.do(ctx, http.MethodPost, messagesPath, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.NetworkError(err)
	}

	requestID := resp.Header.Get("request-id")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, core.FromStatus(resp.StatusCode, respBody, requestID, retryAfterHint(resp.Header))
	}

	var msg Message
	if err := json.Unmarshal(respBody, &msg); err != nil {
		return nil, core.DecodeError(err)
	}
	return &msg, nil
}

// Stream sends a streaming message request and returns a stream of typed
// events. Retries apply only to the initial request that establishes the
// stream; once bytes begin arriving, failures terminate the stream and
// are not retried.
func (s *MessagesService) Stream(ctx context.Context, params MessageNewParams) (*MessageStream, error) {
	params.Stream = true
	payload, err := json.Marshal(params)
	if err != nil {
		return nil, core.DecodeError(err)
	}

	start := time.Now()
	telemetry := s.client.config.Telemetry
	telemetry.OnRequestStart(core.RequestStartEvent{Model: params.Model, Stream: true, Start: start})

	resp, err := s.client.do(ctx, http.MethodPost, messagesPath, payload)
	if err != nil {
		telemetry.OnRequestEnd(core.RequestEndEvent{Model: params.Model, Stream: true, Start: start, End: time.Now(), Err: err})
		return nil, err
	}

	requestID := resp.Header.Get("request-id")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		apiErr := core.FromStatus(resp.StatusCode, respBody, requestID, retryAfterHint(resp.Header))
		telemetry.OnRequestEnd(core.RequestEndEvent{Model: params.Model, Stream: true, Start: start, End: time.Now(), Err: apiErr})
		return nil, apiErr
	}

	stream := newMessageStream(resp.Body)
	stream.onFinish = func(err error, outputTokens int) {
		telemetry.OnRequestEnd(core.RequestEndEvent{
			Model:        params.Model,
			Stream:       true,
			Start:        start,
			End:          time.Now(),
			OutputTokens: outputTokens,
			Err:          err,
		})
	}
	return stream, nil
}
