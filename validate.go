package schemagate

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator dispatches schema/document pairs to the JSON Schema engine. The
// draft is fixed for the process lifetime; the zero draft means Draft 4, the
// version the service has always spoken.
type Validator struct {
	draft *jsonschema.Draft
}

// NewValidator returns a Draft 4 validator.
func NewValidator() *Validator {
	return &Validator{draft: jsonschema.Draft4}
}

// Validate checks doc against schema. A schema that cannot even be compiled
// is not a protocol failure: it yields an invalid result whose single error
// carries the "Parse schema error: " prefix. Violations are flattened from
// the engine's cause tree into "<message> (path: <instance-pointer>)"
// strings; their order follows the engine and is not guaranteed.
func (v *Validator) Validate(schema, doc Value) ValidationResult {
	raw, err := json.Marshal(schema)
	if err != nil {
		return InvalidResult("Parse schema error: " + err.Error())
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = v.draft
	if err := compiler.AddResource("schema.json", bytes.NewReader(raw)); err != nil {
		return InvalidResult("Parse schema error: " + err.Error())
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return InvalidResult("Parse schema error: " + err.Error())
	}

	if err := compiled.Validate(doc.Interface()); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return InvalidResult(flattenViolations(ve)...)
		}
		return InvalidResult(fmt.Sprintf("%s (path: )", err.Error()))
	}
	return ValidResult()
}

// ValidateByID resolves id through the registry and validates doc against the
// stored schema. A missing ID is a domain-level invalid result, not an error:
// the single entry reads "Schema with ID <id> not found".
func (v *Validator) ValidateByID(ctx context.Context, reg *Registry, id int64, doc Value) ValidationResult {
	rec, ok := reg.Get(ctx, id)
	if !ok {
		return InvalidResult(fmt.Sprintf("Schema with ID %d not found", id))
	}
	return v.Validate(rec.Schema, doc)
}

// flattenViolations walks the engine's cause tree and keeps the leaves, which
// carry the concrete keyword failures.
func flattenViolations(ve *jsonschema.ValidationError) []string {
	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, fmt.Sprintf("%s (path: %s)", e.Message, e.InstanceLocation))
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return out
}
