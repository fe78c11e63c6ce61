// Package rpc implements the JSON-RPC 2.0 gateway in front of the schema
// registry and the validation dispatcher. The gateway is transport-neutral:
// Handle consumes a raw request body and produces a raw response body, and
// every outcome — protocol violation, domain error, or unexpected fault — is
// expressed inside the response envelope, never as a transport failure.
package rpc

import (
	json "github.com/goccy/go-json"
)

// Version is the only protocol version the gateway speaks.
const Version = "2.0"

// Request is the inbound JSON-RPC envelope. ID and Params stay raw so the
// gateway can distinguish an absent member from a null one and defer
// per-method decoding of named parameters.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

// Response is the outbound envelope. Exactly one of Result and Error is set;
// ID echoes the request id, or null when it could not be recovered.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// Error is the JSON-RPC error member.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string { return e.Message }

var nullID = json.RawMessage("null")

func result(id json.RawMessage, res any) *Response {
	return &Response{JSONRPC: Version, Result: res, ID: echoID(id)}
}

func failure(id json.RawMessage, code int, message string) *Response {
	return &Response{JSONRPC: Version, Error: &Error{Code: code, Message: message}, ID: echoID(id)}
}

func echoID(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return nullID
	}
	return id
}

// rawRequestID performs a best-effort extraction of the id member from a body
// that failed envelope parsing, so the error response can still echo it. Only
// string, number, bool, and null ids are accepted.
func rawRequestID(body []byte) json.RawMessage {
	var probe struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(body, &probe); err != nil || len(probe.ID) == 0 {
		return nil
	}
	switch probe.ID[0] {
	case '{', '[':
		return nil
	}
	return probe.ID
}
