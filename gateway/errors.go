package gateway

import "fmt"

// RequestError wraps a transport-level failure: the backend was never
// reached or the connection broke mid-call.
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("analysis backend unreachable during %s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx response. Detail carries the backend's
// error message when one was provided.
type StatusError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s failed with status %d", e.Op, e.StatusCode)
}

// DecodeError reports a 2xx response whose body could not be decoded into
// the expected shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed response for %s: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
