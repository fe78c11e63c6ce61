package schemagate_test

import (
	"testing"

	schemagate "github.com/schemagate/schemagate"
)

func mustDecode(t *testing.T, src string) schemagate.Value {
	t.Helper()
	v, err := schemagate.DecodeValue([]byte(src))
	if err != nil {
		t.Fatalf("DecodeValue(%q): %v", src, err)
	}
	return v
}

func TestDecodeValueKinds(t *testing.T) {
	cases := []struct {
		src  string
		kind schemagate.Kind
	}{
		{`null`, schemagate.KindNull},
		{`true`, schemagate.KindBool},
		{`42`, schemagate.KindNumber},
		{`"hi"`, schemagate.KindString},
		{`[1,2]`, schemagate.KindArray},
		{`{"a":1}`, schemagate.KindObject},
	}
	for _, tc := range cases {
		if got := mustDecode(t, tc.src).Kind(); got != tc.kind {
			t.Errorf("DecodeValue(%q).Kind() = %v, want %v", tc.src, got, tc.kind)
		}
	}
}

func TestDecodeValueRejectsGarbage(t *testing.T) {
	if _, err := schemagate.DecodeValue([]byte(`{"a":`)); err == nil {
		t.Fatalf("expected error for truncated input")
	}
}

func TestValueEqual(t *testing.T) {
	a := mustDecode(t, `{"type":"object","properties":{"n":{"type":"integer"}}}`)
	b := mustDecode(t, `{"properties":{"n":{"type":"integer"}},"type":"object"}`)
	if !a.Equal(b) {
		t.Fatalf("structurally equal objects reported unequal")
	}
	c := mustDecode(t, `{"type":"string"}`)
	if a.Equal(c) {
		t.Fatalf("different objects reported equal")
	}
}

func TestValueEqualNumericForms(t *testing.T) {
	if !mustDecode(t, `1`).Equal(mustDecode(t, `1.0`)) {
		t.Fatalf("1 and 1.0 should compare equal")
	}
	if mustDecode(t, `1`).Equal(mustDecode(t, `2`)) {
		t.Fatalf("1 and 2 should not compare equal")
	}
}

func TestValueMarshalPreservesNumbers(t *testing.T) {
	v := mustDecode(t, `{"big":12345678901234567890}`)
	out, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(out) != `{"big":12345678901234567890}` {
		t.Fatalf("number literal mangled: %s", out)
	}
}
