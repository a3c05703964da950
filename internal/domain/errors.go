package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// ErrorKind classifies a transient per-request benchmark failure.
type ErrorKind string

const (
	// ErrKindTimeout marks a request that exceeded its individual deadline.
	ErrKindTimeout ErrorKind = "timeout"

	// ErrKindHTTP marks a non-2xx response or a failed HTTP exchange.
	ErrKindHTTP ErrorKind = "http_error"

	// ErrKindParse marks a response body that could not be decoded.
	ErrKindParse ErrorKind = "parse_error"
)

// InvalidInputError reports a rejected profile or CLI value.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConnectivityError reports that the endpoint could not be reached on the
// first request of a benchmark run. It is fatal to the run, unlike the
// per-request failures recorded in results.
type ConnectivityError struct {
	Endpoint string
	Err      error
}

func (e *ConnectivityError) Error() string {
	if e.Endpoint == "" {
		return fmt.Sprintf("endpoint unreachable: %v", e.Err)
	}
	return fmt.Sprintf("endpoint %s unreachable: %v", e.Endpoint, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// RequestError wraps a per-request failure with its classification so callers
// do not need to inspect transport internals. Connection is set when the
// failure happened before any HTTP response was received.
type RequestError struct {
	Kind       ErrorKind
	Connection bool
	Err        error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ClassifyError maps an arbitrary request error onto the recorded taxonomy.
func ClassifyError(err error) ErrorKind {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrKindTimeout
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return ErrKindTimeout
	}

	return ErrKindHTTP
}

// IsConnectionError reports whether err is a transport-level failure where no
// HTTP response was received. Used to distinguish an unreachable endpoint
// from an endpoint that answered with an error.
func IsConnectionError(err error) bool {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Connection
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return !urlErr.Timeout()
	}

	return false
}
