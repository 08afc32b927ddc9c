package borsh

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidate(t *testing.T) {
	many := make([]Variant, maxEnumVariants+1)
	for i := range many {
		many[i] = V(fmt.Sprintf("V%d", i), StructDecl())
	}

	tests := []struct {
		name   string
		schema *Schema
		kind   ErrorKind // 0 means valid
	}{
		{"first", firstSchema(), 0},
		{"builtin root", NewSchema("u64"), 0},
		{"empty root", NewSchema(""), UnresolvedTypeReference},
		{"missing root", NewSchema("Nope"), UnresolvedTypeReference},
		{"unresolved field", NewSchema("A").Declare("A", StructDecl(F("x", "B"))), UnresolvedTypeReference},
		{"unresolved array element", NewSchema("A").Declare("A", ArrayDecl("B", 2)), UnresolvedTypeReference},
		{"shadows builtin", NewSchema("A").Declare("A", StructDecl()).Declare("u8", StructDecl()), SchemaCorrupt},
		{"duplicate field", NewSchema("A").Declare("A", StructDecl(F("x", "u8"), F("x", "u16"))), SchemaCorrupt},
		{"duplicate variant", NewSchema("E").Declare("E", EnumDecl(V("X", StructDecl()), V("X", StructDecl()))), SchemaCorrupt},
		{"too many variants", NewSchema("E").Declare("E", EnumDecl(many...)), SchemaCorrupt},
		{"exactly 256 variants", NewSchema("E").Declare("E", EnumDecl(many[:maxEnumVariants]...)), 0},

		{"direct self reference", NewSchema("A").Declare("A", StructDecl(F("next", "A"))), SchemaCorrupt},
		{"mutual recursion", NewSchema("A").
			Declare("A", StructDecl(F("b", "B"))).
			Declare("B", TupleDecl("u8", "A")), SchemaCorrupt},
		{"alias cycle", NewSchema("A").
			Declare("A", PrimitiveDecl("B")).
			Declare("B", PrimitiveDecl("A")), SchemaCorrupt},
		{"array of self", NewSchema("A").Declare("A", ArrayDecl("A", 1)), SchemaCorrupt},
		{"empty array of self", NewSchema("A").Declare("A", ArrayDecl("A", 0)), 0},
		{"recursion through sequence", NewSchema("Tree").
			Declare("Tree", StructDecl(F("value", "u32"), F("children", "Vec<Tree>"))).
			Declare("Vec<Tree>", SequenceDecl("Tree")), 0},
		{"recursion through enum", NewSchema("List").
			Declare("List", EnumDecl(
				V("Nil", StructDecl()),
				V("Cons", TupleStructDecl("u8", "List")),
			)), 0},
		{"enum with only recursive variants", NewSchema("Loop").
			Declare("Loop", EnumDecl(V("Again", TupleStructDecl("Loop")))), SchemaCorrupt},
		{"unreachable unbounded declaration", NewSchema("u8").
			Declare("A", StructDecl(F("a", "A"))), SchemaCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate()
			if tt.kind == 0 {
				if err != nil {
					t.Fatalf("expected valid schema, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestValidate_NilSchema(t *testing.T) {
	var s *Schema
	if KindOf(s.Validate()) != SchemaCorrupt {
		t.Error("nil schema should be corrupt")
	}
}
