package client

import "net/http"

// Envelope is the JSON wrapper every FortressGuard endpoint answers with.
// Data is a pointer so an absent payload can be told apart from a zero one.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Result applies the envelope checks: success=false is a KindRejected
// error, success without data is KindMalformed.
func (e Envelope[T]) Result() (*T, error) {
	if !e.Success {
		msg := e.Message
		if msg == "" {
			msg = e.Error
		}
		if msg == "" {
			msg = msgUnknown
		}
		return nil, &Error{Kind: KindRejected, Message: msg, Status: http.StatusBadRequest}
	}
	if e.Data == nil {
		return nil, &Error{Kind: KindMalformed, Message: msgMissingData, Status: http.StatusInternalServerError}
	}
	return e.Data, nil
}
