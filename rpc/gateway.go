package rpc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	schemagate "github.com/schemagate/schemagate"
)

// Gateway routes JSON-RPC requests to the registry and the validator. It is
// stateless across requests and safe for concurrent use.
type Gateway struct {
	reg *schemagate.Registry
	val *schemagate.Validator
	log *slog.Logger
}

// NewGateway wires the gateway to its collaborators. logger may be nil to
// use slog.Default.
func NewGateway(reg *schemagate.Registry, val *schemagate.Validator, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{reg: reg, val: val, log: logger}
}

// Handle processes one raw request body and returns the serialized response
// envelope. It never returns an empty body and never panics: a body that does
// not parse yields a ParseError envelope with a best-effort echo of the raw
// id, and any fault inside a handler is converted to InternalError.
func (g *Gateway) Handle(ctx context.Context, body []byte) []byte {
	resp := g.handle(ctx, body)
	out, err := json.Marshal(resp)
	if err != nil {
		g.log.Error("response serialization failed", "error", err)
		return []byte(`{"jsonrpc":"2.0","error":{"code":-32603,"message":"Internal error"},"id":null}`)
	}
	return out
}

func (g *Gateway) handle(ctx context.Context, body []byte) *Response {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return failure(rawRequestID(body), CodeParseError, "Parse json error")
	}
	if req.JSONRPC != Version {
		return failure(rawRequestID(body), CodeParseError, "Parse json error")
	}
	return g.process(ctx, &req)
}

// namedParams holds the request's named parameters with per-field decoding
// deferred to the method handlers.
type namedParams map[string]json.RawMessage

// present reports whether the parameter exists and is not JSON null. A null
// parameter counts as missing, matching the required-parameter checks.
func (p namedParams) present(key string) (json.RawMessage, bool) {
	raw, ok := p[key]
	if !ok || len(raw) == 0 || bytes.Equal(raw, nullID) {
		return nil, false
	}
	return raw, true
}

func (g *Gateway) process(ctx context.Context, req *Request) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			g.log.Error("request handler panicked", "method", req.Method, "panic", r)
			resp = failure(req.ID, CodeInternalError, fmt.Sprintf("Internal error: %v", r))
		}
	}()

	if strings.TrimSpace(req.Method) == "" {
		return failure(req.ID, CodeInvalidRequest, "Invalid Request")
	}
	if len(req.ID) == 0 {
		return failure(nil, CodeInvalidRequest, "Missing id field")
	}

	// The two list methods are the only zero-argument ones.
	requiresParams := req.Method != "getAllSchemas" && req.Method != "getAllSchemasMetadata"
	var p namedParams
	if requiresParams {
		if len(req.Params) == 0 {
			return failure(req.ID, CodeInvalidParams, "Invalid params")
		}
		if err := json.Unmarshal(req.Params, &p); err != nil {
			// Positional params are not supported, only named ones.
			return failure(req.ID, CodeInvalidParams, "Invalid params")
		}
	}

	switch req.Method {
	case "validate":
		return g.handleValidate(req.ID, p)
	case "validateById":
		return g.handleValidateByID(ctx, req.ID, p)
	case "saveSchema":
		return g.handleSaveSchema(ctx, req.ID, p)
	case "getAllSchemas":
		return g.handleGetAllSchemas(req.ID)
	case "getSchema":
		return g.handleGetSchema(ctx, req.ID, p)
	case "getAllSchemasMetadata":
		return g.handleGetAllSchemasMetadata(ctx, req.ID)
	default:
		return failure(req.ID, CodeMethodNotFound, "Method not found")
	}
}

func (g *Gateway) handleValidate(id json.RawMessage, p namedParams) *Response {
	rawSchema, okSchema := p.present("schema")
	rawDoc, okDoc := p.present("json")
	if !okSchema || !okDoc {
		return failure(id, CodeInvalidParams, "Missing schema or json parameters")
	}

	schema, err := schemagate.DecodeValue(rawSchema)
	if err != nil {
		return failure(id, CodeSchemaParseError, "Parse schema error: "+err.Error())
	}
	doc, err := schemagate.DecodeValue(rawDoc)
	if err != nil {
		return failure(id, CodeSchemaParseError, "Parse schema error: "+err.Error())
	}

	return result(id, g.val.Validate(schema, doc))
}

func (g *Gateway) handleValidateByID(ctx context.Context, id json.RawMessage, p namedParams) *Response {
	rawID, okID := p.present("schemaId")
	rawDoc, okDoc := p.present("json")
	if !okID || !okDoc {
		return failure(id, CodeInvalidParams, "Missing schemaId or json parameters")
	}

	schemaID, ok := parseSchemaID(rawID)
	if !ok {
		return failure(id, CodeInvalidParams, "Invalid schema ID format. Must be a number.")
	}
	doc, err := schemagate.DecodeValue(rawDoc)
	if err != nil {
		return failure(id, CodeInternalError, "Validation error: "+err.Error())
	}

	return result(id, g.val.ValidateByID(ctx, g.reg, schemaID, doc))
}

func (g *Gateway) handleSaveSchema(ctx context.Context, id json.RawMessage, p namedParams) *Response {
	rawName, okName := p.present("name")
	rawSchema, okSchema := p.present("schema")
	if !okName || !okSchema {
		return failure(id, CodeInvalidParams, "Missing name or schema parameters")
	}

	var name string
	if err := json.Unmarshal(rawName, &name); err != nil {
		// Non-string names are stringified rather than rejected.
		name = string(rawName)
	}
	schema, err := schemagate.DecodeValue(rawSchema)
	if err != nil {
		return failure(id, CodeInternalError, "Schema save error: "+err.Error())
	}

	var customID *int64
	if raw, ok := p.present("customId"); ok {
		cid, ok := parseSchemaID(raw)
		if !ok {
			return failure(id, CodeInvalidParams, "Invalid schema ID format. Must be a number.")
		}
		customID = &cid
	}

	schemaID, err := g.reg.Save(ctx, name, schema, customID)
	if err != nil {
		if errors.Is(err, schemagate.ErrIDInUse) {
			return failure(id, CodeIDInUse, err.Error())
		}
		return failure(id, CodeInternalError, "Schema save error: "+err.Error())
	}
	return result(id, map[string]any{"schemaId": schemaID})
}

// listResult is the shared shape of both listing methods.
type listResult struct {
	TotalSchemas int `json:"totalSchemas"`
	Schemas      any `json:"schemas"`
}

func (g *Gateway) handleGetAllSchemas(id json.RawMessage) *Response {
	records := g.reg.ListAll()
	return result(id, listResult{TotalSchemas: len(records), Schemas: records})
}

func (g *Gateway) handleGetSchema(ctx context.Context, id json.RawMessage, p namedParams) *Response {
	rawID, ok := p.present("schemaId")
	if !ok {
		return failure(id, CodeInvalidParams, "Missing schemaId parameter")
	}
	schemaID, ok := parseSchemaID(rawID)
	if !ok {
		return failure(id, CodeInvalidParams, "Invalid schema ID format. Must be a number.")
	}

	rec, found := g.reg.Get(ctx, schemaID)
	if !found {
		return failure(id, CodeIDNotFound, fmt.Sprintf("Schema with ID %d not found", schemaID))
	}
	return result(id, rec)
}

func (g *Gateway) handleGetAllSchemasMetadata(ctx context.Context, id json.RawMessage) *Response {
	metadata := g.reg.ListMetadata(ctx)
	return result(id, listResult{TotalSchemas: len(metadata), Schemas: metadata})
}

// parseSchemaID accepts a JSON number or a numeric string, mirroring the
// tolerant ID handling of the RPC surface. Fractional numbers truncate.
func parseSchemaID(raw json.RawMessage) (int64, bool) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(f), true
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}
