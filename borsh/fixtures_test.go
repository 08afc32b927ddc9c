package borsh

import (
	"encoding/hex"
	"strings"
	"testing"
)

// thirdEnum mirrors a Rust enum with struct, newtype and unit variants.
func thirdEnum() *Declaration {
	return EnumDecl(
		V("Alpha", StructDecl(F("field", "u32"))),
		V("Beta", TupleStructDecl("u32")),
		V("Gamma", StructDecl()),
	)
}

func firstSchema() *Schema {
	return NewSchema("First").
		Declare("First", StructDecl(
			F("a", "(u32, u64)"),
			F("b", "string"),
			F("c", "Second"),
			F("e", "Vec<string>"),
		)).
		Declare("(u32, u64)", TupleDecl("u32", "u64")).
		Declare("Second", StructDecl(
			F("a", "Third"),
			F("b", "Third"),
			F("c", "Third"),
			F("d", "u32"),
			F("e", "u32"),
		)).
		Declare("Third", thirdEnum()).
		Declare("Vec<string>", SequenceDecl("string"))
}

const firstJSON = `{
	"a": [32, 64],
	"b": "String",
	"c": {
		"a": {"Alpha": {"field": 1}},
		"b": {"Beta": 1},
		"c": "Gamma",
		"d": 2,
		"e": 3
	},
	"e": ["a", "b", "c"]
}`

const firstHex = "20000000" + "4000000000000000" +
	"06000000" + "537472696e67" +
	"00" + "01000000" +
	"01" + "01000000" +
	"02" +
	"02000000" +
	"03000000" +
	"03000000" + "0100000061" + "0100000062" + "0100000063"

func unhex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

// rawSchema encodes s without validating it, for building corrupt inputs.
func rawSchema(t *testing.T, s *Schema) []byte {
	t.Helper()
	w := &writer{}
	w.u32(uint32(len(s.Declarations)))
	for _, name := range s.Names() {
		if err := w.str(name, nil); err != nil {
			t.Fatal(err)
		}
		if err := encodeDecl(w, s.Declarations[name]); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.str(s.Root, nil); err != nil {
		t.Fatal(err)
	}
	return w.bytes()
}
