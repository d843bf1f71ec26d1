// Package core provides shared primitives for the anthropic-go SDK:
// error classification, retry policy, secret handling, and telemetry hooks.
package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Sentinel errors for classification with errors.Is.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrAuthentication   = errors.New("authentication failed")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrRequestTooLarge  = errors.New("request too large")
	ErrUnprocessable    = errors.New("unprocessable entity")
	ErrRateLimited      = errors.New("rate limited")
	ErrOverloaded       = errors.New("server overloaded")
	ErrServer           = errors.New("internal server error")
	ErrConnection       = errors.New("connection error")
	ErrTimeout          = errors.New("request timed out")
	ErrInvalidResponse  = errors.New("invalid response")
	ErrDecode           = errors.New("decode error")
	ErrStream           = errors.New("stream error")
)

// APIError represents a failure returned by the API or its transport,
// with full context. It wraps one of the sentinel errors so callers can
// classify with errors.Is.
type APIError struct {
	Status     int           // HTTP status code, 0 for transport failures
	RequestID  string        // request-id response header, if present
	Code       string        // error type from the API error envelope
	Message    string        // human-readable message
	RetryAfter time.Duration // server-provided retry hint, 0 if absent
	Err        error         // sentinel for classification
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.Status == 0:
		return fmt.Sprintf("anthropic: %s", e.Message)
	case e.RequestID != "":
		return fmt.Sprintf("anthropic: %s (status=%d, request_id=%s)", e.Message, e.Status, e.RequestID)
	default:
		return fmt.Sprintf("anthropic: %s (status=%d)", e.Message, e.Status)
	}
}

// Unwrap returns the sentinel error for error chaining.
func (e *APIError) Unwrap() error {
	return e.Err
}

// errorEnvelope mirrors the API error body:
// {"type":"error","error":{"type":"...","message":"..."}}
type errorEnvelope struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// FromStatus classifies an HTTP error response into an *APIError.
// The body is parsed as the API error envelope when possible; otherwise
// the raw body text is used as the message.
func FromStatus(status int, body []byte, requestID string, retryAfter time.Duration) *APIError {
	var env errorEnvelope
	_ = json.Unmarshal(body, &env)

	message := env.Error.Message
	code := env.Error.Type
	if message == "" {
		message = string(body)
	}
	if message == "" {
		message = http.StatusText(status)
	}

	sentinel := sentinelForStatus(status)
	if sentinel == ErrInvalidResponse {
		message = fmt.Sprintf("unexpected status %d: %s", status, message)
	}

	return &APIError{
		Status:     status,
		RequestID:  requestID,
		Code:       code,
		Message:    message,
		RetryAfter: retryAfter,
		Err:        sentinel,
	}
}

// sentinelForStatus maps an HTTP status code to a sentinel error.
func sentinelForStatus(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrAuthentication
	case http.StatusForbidden:
		return ErrPermissionDenied
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusRequestEntityTooLarge:
		return ErrRequestTooLarge
	case http.StatusUnprocessableEntity:
		return ErrUnprocessable
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case 529:
		return ErrOverloaded
	}
	if status >= 500 && status < 600 {
		return ErrServer
	}
	return ErrInvalidResponse
}

// NetworkError wraps a transport failure as an *APIError.
func NetworkError(err error) *APIError {
	return &APIError{Message: err.Error(), Err: ErrConnection}
}

// TimeoutError wraps a request timeout as an *APIError.
func TimeoutError(err error) *APIError {
	return &APIError{Message: err.Error(), Err: ErrTimeout}
}

// DecodeError wraps a decode or parse failure as an *APIError.
func DecodeError(err error) *APIError {
	return &APIError{Message: err.Error(), Err: ErrDecode}
}

// StreamError wraps a streaming protocol failure as an *APIError.
func StreamError(message string) *APIError {
	return &APIError{Message: message, Err: ErrStream}
}
