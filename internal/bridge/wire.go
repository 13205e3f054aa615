package bridge

import (
	"encoding/json"
	"errors"

	"Mansoor88-6/launcher-kit/internal/platform"
)

// Request is the body of POST /api/v1/bridge/:method
type Request struct {
	Args json.RawMessage `json:"args,omitempty"`
}

// Response is the reply to a bridge call. Exactly one of Result and Error
// is meaningful.
type Response struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *WireError      `json:"error,omitempty"`
}

// WireError is a classified error as sent over the wire
type WireError struct {
	Kind    platform.Kind `json:"kind"`
	Message string        `json:"message"`
}

// NewWireError classifies err for the wire
func NewWireError(err error) *WireError {
	return &WireError{Kind: platform.KindOf(err), Message: err.Error()}
}

// Err turns a wire error back into a classified error
func (e *WireError) Err(method string) error {
	kind := e.Kind
	if kind == "" {
		kind = platform.KindUnknown
	}
	return platform.Wrap(kind, method, errors.New(e.Message))
}

// EventMessage is one event pushed on the events stream
type EventMessage struct {
	Event   string `json:"event"`
	Payload string `json:"payload"`
}
