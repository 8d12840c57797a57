package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the server rejects the session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when a requested entity doesn't exist.
	ErrNotFound = errors.New("not found")
)

// Error is a domain error reported by the server as an {"error": "..."}
// payload in an otherwise successful response.
type Error struct {
	Endpoint string
	Message  string
}

// Error implements error.
func (e *Error) Error() string {
	return e.Message
}

// TransportError is returned when the request couldn't be completed or the
// response couldn't be understood.
type TransportError struct {
	Endpoint string
	Status   int
	Err      error
}

// Error implements error.
func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: unexpected status %d: %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsDomainError reports whether err carries a server reported error message.
func IsDomainError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// IsTransportError reports whether err is a network or decoding failure.
func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// Message returns a message suitable for a user notification.
// Domain errors carry the server's message, anything else gets fallback.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
