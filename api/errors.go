package api

import (
	"errors"
	"fmt"
)

// Kind is the closed classification of API failures. UIs switch on this set
// instead of probing nested response fields.
type Kind string

const (
	// KindValidation is a 4xx rejection of the request content. Detail
	// usually carries the server's message.
	KindValidation Kind = "validation"
	// KindUnauthorized is an HTTP 401. The local session has already been
	// cleared by the time callers see this.
	KindUnauthorized Kind = "unauthorized"
	// KindServer is a 5xx failure.
	KindServer Kind = "server"
	// KindTransport is a network-level failure; no response was received.
	KindTransport Kind = "transport"
)

// Error is the structured failure returned by every client call.
type Error struct {
	Kind   Kind
	Status int
	// Detail is the server-provided message, when the response body had one.
	Detail string
	err    error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("api: %s (%d): %s", e.Kind, e.Status, e.Detail)
	case e.Status != 0:
		return fmt.Sprintf("api: %s (%d)", e.Kind, e.Status)
	case e.err != nil:
		return fmt.Sprintf("api: %s: %v", e.Kind, e.err)
	default:
		return fmt.Sprintf("api: %s", e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.err
}

// ServerDetail exposes the server's message to callers that prefer it over a
// generic failure string.
func (e *Error) ServerDetail() string {
	return e.Detail
}

// IsUnauthorized reports whether err is an HTTP 401 from the platform.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindUnauthorized
}
