package borsh

import (
	"fmt"
	"sort"
)

// DeclKind identifies a declaration variant. The ordinal is the one-byte
// discriminant used by the schema codec.
type DeclKind uint8

const (
	DeclPrimitive DeclKind = iota
	DeclStruct
	DeclTupleStruct
	DeclEnum
	DeclSequence
	DeclArray
	DeclTuple
)

// String returns the kind name as used by the schema text form.
func (k DeclKind) String() string {
	switch k {
	case DeclPrimitive:
		return "primitive"
	case DeclStruct:
		return "struct"
	case DeclTupleStruct:
		return "tuple_struct"
	case DeclEnum:
		return "enum"
	case DeclSequence:
		return "sequence"
	case DeclArray:
		return "array"
	case DeclTuple:
		return "tuple"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Declaration is one node of the schema type tree. Only the members used by
// Kind are meaningful.
type Declaration struct {
	Kind      DeclKind
	Primitive string    // DeclPrimitive: the aliased type name
	Fields    []Field   // DeclStruct
	Elements  []string  // DeclTupleStruct, DeclTuple
	Variants  []Variant // DeclEnum
	Element   string    // DeclSequence, DeclArray
	Length    uint32    // DeclArray
}

// Field is a named struct member.
type Field struct {
	Name string
	Type string
}

// Variant is an enum alternative with an inline payload declaration.
type Variant struct {
	Name string
	Decl *Declaration
}

// ============================================================
// Declaration constructors
// ============================================================

// PrimitiveDecl declares an alias for another type name.
func PrimitiveDecl(name string) *Declaration {
	return &Declaration{Kind: DeclPrimitive, Primitive: name}
}

// StructDecl declares a struct with named fields.
func StructDecl(fields ...Field) *Declaration {
	return &Declaration{Kind: DeclStruct, Fields: fields}
}

// TupleStructDecl declares a struct with positional fields.
func TupleStructDecl(elems ...string) *Declaration {
	return &Declaration{Kind: DeclTupleStruct, Elements: elems}
}

// EnumDecl declares a tagged union.
func EnumDecl(variants ...Variant) *Declaration {
	return &Declaration{Kind: DeclEnum, Variants: variants}
}

// SequenceDecl declares a length-prefixed sequence.
func SequenceDecl(elem string) *Declaration {
	return &Declaration{Kind: DeclSequence, Element: elem}
}

// ArrayDecl declares a fixed-length array.
func ArrayDecl(elem string, length uint32) *Declaration {
	return &Declaration{Kind: DeclArray, Element: elem, Length: length}
}

// TupleDecl declares an anonymous tuple.
func TupleDecl(elems ...string) *Declaration {
	return &Declaration{Kind: DeclTuple, Elements: elems}
}

// F builds a Field.
func F(name, typ string) Field {
	return Field{Name: name, Type: typ}
}

// V builds a Variant.
func V(name string, decl *Declaration) Variant {
	return Variant{Name: name, Decl: decl}
}

// References returns the type names this declaration refers to directly,
// including references inside nested enum payloads.
func (d *Declaration) References() []string {
	switch d.Kind {
	case DeclPrimitive:
		return []string{d.Primitive}
	case DeclStruct:
		refs := make([]string, len(d.Fields))
		for i, f := range d.Fields {
			refs[i] = f.Type
		}
		return refs
	case DeclTupleStruct, DeclTuple:
		return append([]string(nil), d.Elements...)
	case DeclSequence, DeclArray:
		return []string{d.Element}
	case DeclEnum:
		var refs []string
		for _, v := range d.Variants {
			if v.Decl != nil {
				refs = append(refs, v.Decl.References()...)
			}
		}
		return refs
	}
	return nil
}

// ============================================================
// Built-in primitives
// ============================================================

type primitive struct {
	size   int  // encoded size in bytes, 0 for string
	bits   uint // integer width
	signed bool
	float  bool
}

var builtins = map[string]primitive{
	"u8":     {size: 1, bits: 8},
	"u16":    {size: 2, bits: 16},
	"u32":    {size: 4, bits: 32},
	"u64":    {size: 8, bits: 64},
	"u128":   {size: 16, bits: 128},
	"i8":     {size: 1, bits: 8, signed: true},
	"i16":    {size: 2, bits: 16, signed: true},
	"i32":    {size: 4, bits: 32, signed: true},
	"i64":    {size: 8, bits: 64, signed: true},
	"i128":   {size: 16, bits: 128, signed: true},
	"f32":    {size: 4, float: true},
	"f64":    {size: 8, float: true},
	"bool":   {size: 1},
	"string": {},
}

// IsBuiltin reports whether name is a built-in primitive type.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// ============================================================
// Schema container
// ============================================================

// Schema is a set of named declarations with a designated root type.
type Schema struct {
	Declarations map[string]*Declaration
	Root         string
}

// NewSchema creates an empty schema rooted at root.
func NewSchema(root string) *Schema {
	return &Schema{Declarations: make(map[string]*Declaration), Root: root}
}

// Declare adds or replaces a declaration and returns the schema for chaining.
func (s *Schema) Declare(name string, decl *Declaration) *Schema {
	if s.Declarations == nil {
		s.Declarations = make(map[string]*Declaration)
	}
	s.Declarations[name] = decl
	return s
}

// Lookup returns the declaration for a type name. Built-ins have none.
func (s *Schema) Lookup(name string) (*Declaration, bool) {
	if s == nil {
		return nil, false
	}
	d, ok := s.Declarations[name]
	return d, ok
}

// Names returns the declaration names in encoding order.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.Declarations))
	for name := range s.Declarations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
