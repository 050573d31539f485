package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed API call.
type Kind string

const (
	// KindTransport covers network failures, unreadable bodies and calls
	// that never left the client. Status 500.
	KindTransport Kind = "transport"
	// KindStatus is a non-2xx HTTP response; Status is the real code.
	KindStatus Kind = "status"
	// KindRejected is a 2xx envelope with success=false. Status 400.
	KindRejected Kind = "rejected"
	// KindMalformed is a success envelope that carries no data. Status 500.
	KindMalformed Kind = "malformed"
	// KindTimeout is a request that ran past the configured timeout. Status 408.
	KindTimeout Kind = "timeout"
)

const (
	msgTimeout     = "request exceeded the time limit"
	msgUnknown     = "unknown error"
	msgMissingData = "API response contains no data"
)

// Error is the single error type produced by API calls.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Message returns the user-facing text for err: the Message of an *Error,
// otherwise err.Error(), or "unknown error" when that is empty.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return msgUnknown
}

func transportError(err error) *Error {
	msg := msgUnknown
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &Error{Kind: KindTransport, Message: msg, Status: http.StatusInternalServerError, Err: err}
}

func timeoutError(err error) *Error {
	return &Error{Kind: KindTimeout, Message: msgTimeout, Status: http.StatusRequestTimeout, Err: err}
}

func statusError(status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("Error %d: %s", status, http.StatusText(status))
	}
	return &Error{Kind: KindStatus, Message: message, Status: status}
}
