package client

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two failure kinds of a screening call. Typed errors
// below match them with errors.Is.
var (
	ErrRequestFailed     = errors.New("screening request failed")
	ErrMalformedResponse = errors.New("malformed screening response")
)

// RequestFailedError reports a non-2xx status from the screening API.
type RequestFailedError struct {
	StatusCode int
	Body       string // truncated excerpt for diagnostics
}

func (e *RequestFailedError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%v: status %d", ErrRequestFailed, e.StatusCode)
	}
	return fmt.Sprintf("%v: status %d: %s", ErrRequestFailed, e.StatusCode, e.Body)
}

// Is matches ErrRequestFailed.
func (e *RequestFailedError) Is(target error) bool {
	return target == ErrRequestFailed
}

// MalformedResponseError reports a body that is not valid JSON or lacks required fields.
type MalformedResponseError struct {
	Reason     string
	Underlying error
}

func (e *MalformedResponseError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%v: %s: %v", ErrMalformedResponse, e.Reason, e.Underlying)
	}
	return fmt.Sprintf("%v: %s", ErrMalformedResponse, e.Reason)
}

// Is matches ErrMalformedResponse.
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// Unwrap supports error unwrapping
func (e *MalformedResponseError) Unwrap() error {
	return e.Underlying
}

// StatusCode extracts the upstream HTTP status from a RequestFailed error.
// Returns 0 for any other error.
func StatusCode(err error) int {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf.StatusCode
	}
	return 0
}
