package rpc

// Protocol-level error codes (JSON-RPC 2.0 reserved range).
const (
	CodeParseError     = -32700 // malformed request envelope
	CodeInvalidRequest = -32600 // missing method or id
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Domain error codes (implementation-defined range). These surface registry
// and validator outcomes as structured errors instead of InternalError.
const (
	CodeSchemaParseError = -32701 // schema could not be parsed/compiled
	CodeIDInUse          = -32800 // explicit ID already taken
	CodeIDNotFound       = -32801 // ID does not exist
	CodeSchemaNotFound   = -32802 // schema does not exist
)
