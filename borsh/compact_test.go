package borsh

import (
	"bytes"
	"testing"
)

func TestCompact_PreservesEncoding(t *testing.T) {
	s := firstSchema()
	s.Declare("Unused", StructDecl(F("x", "u8")))

	c, err := Compact(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Declarations) != 5 {
		t.Errorf("expected 5 reachable declarations, got %d: %v", len(c.Declarations), c.Names())
	}
	for _, name := range c.Names() {
		if len([]rune(name)) != 1 {
			t.Errorf("declaration %q was not shortened", name)
		}
	}

	v := mustJSON(t, firstJSON)
	orig, err := Encode(v, s)
	if err != nil {
		t.Fatal(err)
	}
	short, err := Encode(v, c)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(orig, short) {
		t.Errorf("compacted schema encodes differently:\n%x\n%x", orig, short)
	}

	full, _ := EncodeSchema(s)
	small, _ := EncodeSchema(c)
	if len(small) >= len(full) {
		t.Errorf("compacted schema is %d bytes, original %d", len(small), len(full))
	}
}

func TestCompact_Deterministic(t *testing.T) {
	a, err := Compact(firstSchema())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compact(firstSchema())
	if err != nil {
		t.Fatal(err)
	}
	ea, _ := EncodeSchema(a)
	eb, _ := EncodeSchema(b)
	if !bytes.Equal(ea, eb) {
		t.Error("Compact is not deterministic")
	}
	if a.Root != "\x00" {
		t.Errorf("root renamed to %q, want the first short name", a.Root)
	}
}

func TestCompact_BuiltinRoot(t *testing.T) {
	c, err := Compact(NewSchema("string").Declare("Dead", SequenceDecl("u8")))
	if err != nil {
		t.Fatal(err)
	}
	if c.Root != "string" || len(c.Declarations) != 0 {
		t.Errorf("got root %q with %d declarations", c.Root, len(c.Declarations))
	}
}

func TestShortName_SkipsSurrogates(t *testing.T) {
	name, next := shortName(0xD800)
	if name != "" || next != 0xE001 {
		t.Errorf("got %q, next %#x", name, next)
	}
}
