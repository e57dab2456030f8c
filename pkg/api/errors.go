package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// HTTPError represents a non-2xx response from the storage API.
// Message carries the server-provided error message when the body
// follows the standard {"error":{"code","message"}} envelope.
type HTTPError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// NetworkError represents a transport-level failure where no response
// was received at all.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError represents a malformed body on an otherwise successful
// response.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// errorEnvelope is the structured error body used by the API.
type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newHTTPError builds an HTTPError from a status code and raw body,
// extracting the server message when the body is a structured envelope.
func newHTTPError(statusCode int, body []byte) *HTTPError {
	httpErr := &HTTPError{
		StatusCode: statusCode,
		Body:       body,
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		httpErr.Message = envelope.Error.Message
	}

	return httpErr
}

// AsHTTPError returns the HTTPError wrapped in err, if any.
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

// AsNetworkError returns the NetworkError wrapped in err, if any.
func AsNetworkError(err error) (*NetworkError, bool) {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr, true
	}
	return nil, false
}
