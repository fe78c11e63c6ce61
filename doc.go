package schemagate

// Package schemagate provides:
//
// - An ID-addressable schema registry (Registry) reconciling an in-process
//   cache with an optional durable Store
// - A validation dispatcher (Validator) delegating structural matching to a
//   JSON Schema engine pinned to one draft for the process lifetime
// - A uniform result model (ValidationResult) carrying error strings with
//   JSON Pointer instance locations
//
// Design policy:
// - Keep only public APIs in the root package; put implementations of the
//   durable store and configuration under internal/.
// - Place the JSON-RPC gateway under rpc/ and the server binary under
//   cmd/schemagated.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	reg := schemagate.NewRegistry(store, logger)
//	id, err := reg.Save(ctx, "user", schema, nil)
//	res := validator.ValidateByID(ctx, reg, id, doc)
