package schemagate_test

import (
	"context"
	"strings"
	"testing"

	schemagate "github.com/schemagate/schemagate"
)

func TestValidateIntegerSchema(t *testing.T) {
	v := schemagate.NewValidator()
	schema := mustDecode(t, `{"type":"integer"}`)

	res := v.Validate(schema, mustDecode(t, `5`))
	if !res.Valid {
		t.Fatalf("5 against {type:integer}: invalid, errors = %v", res.Errors)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("valid result carries errors: %v", res.Errors)
	}

	res = v.Validate(schema, mustDecode(t, `"hello"`))
	if res.Valid {
		t.Fatalf("\"hello\" against {type:integer}: reported valid")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", res.Errors)
	}
	if !strings.Contains(res.Errors[0], "integer") {
		t.Errorf("error does not mention the type mismatch: %q", res.Errors[0])
	}
	if !strings.HasSuffix(res.Errors[0], "(path: )") {
		t.Errorf("root-level violation should carry the empty pointer: %q", res.Errors[0])
	}
}

func TestValidateNestedPointerPaths(t *testing.T) {
	v := schemagate.NewValidator()
	schema := mustDecode(t, `{
		"type": "object",
		"properties": {"items": {"type": "array", "items": {"type": "integer"}}}
	}`)

	res := v.Validate(schema, mustDecode(t, `{"items":[1,"two",3]}`))
	if res.Valid {
		t.Fatalf("document with string element reported valid")
	}
	var found bool
	for _, e := range res.Errors {
		if strings.Contains(e, "(path: /items/1)") {
			found = true
		}
	}
	if !found {
		t.Errorf("no error located at /items/1: %v", res.Errors)
	}
}

func TestValidateMalformedSchema(t *testing.T) {
	v := schemagate.NewValidator()
	res := v.Validate(mustDecode(t, `{"type":12}`), mustDecode(t, `5`))
	if res.Valid {
		t.Fatalf("malformed schema reported valid")
	}
	if len(res.Errors) != 1 || !strings.HasPrefix(res.Errors[0], "Parse schema error: ") {
		t.Fatalf("errors = %v, want single entry with parse prefix", res.Errors)
	}
}

func TestValidateByIDUnknownSchema(t *testing.T) {
	ctx := context.Background()
	reg := schemagate.NewRegistry(nil, quietLogger())
	v := schemagate.NewValidator()

	res := v.ValidateByID(ctx, reg, 9999, mustDecode(t, `{}`))
	if res.Valid {
		t.Fatalf("unknown schema ID reported valid")
	}
	want := "Schema with ID 9999 not found"
	if len(res.Errors) != 1 || res.Errors[0] != want {
		t.Fatalf("errors = %v, want [%q]", res.Errors, want)
	}
}

func TestValidateByIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	reg := schemagate.NewRegistry(nil, quietLogger())
	v := schemagate.NewValidator()

	id, err := reg.Save(ctx, "ints", mustDecode(t, `{"type":"integer"}`), nil)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if res := v.ValidateByID(ctx, reg, id, mustDecode(t, `41`)); !res.Valid {
		t.Fatalf("41 against stored integer schema: %v", res.Errors)
	}
	if res := v.ValidateByID(ctx, reg, id, mustDecode(t, `"no"`)); res.Valid {
		t.Fatalf("string against stored integer schema reported valid")
	}
}
