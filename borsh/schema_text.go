package borsh

import (
	"fmt"
	"math"
)

// ============================================================
// Schema text form
// ============================================================
//
// Schemas can be written by hand as JSON or YAML:
//
//	root: Hello
//	declarations:
//	  Hello:
//	    struct: {number: i32, child: Child, tags: Tags}
//	  Child:
//	    enum:
//	      Alpha: {struct: {field: u32}}
//	      Beta: u32
//	      Gamma: {struct: {}}
//	  Tags: {sequence: string}
//	  Digest: {array: [u8, 32]}
//	  Pair: {tuple: [u32, u64]}
//
// A bare type name where a declaration is expected is a primitive alias.
// Struct fields and enum variants may also be given as lists of
// [name, type] pairs.

// SchemaFromJSON parses and validates a schema in text form from JSON.
func SchemaFromJSON(data []byte) (*Schema, error) {
	v, err := FromJSON(data)
	if err != nil {
		return nil, err
	}
	return SchemaFromValue(v)
}

// SchemaFromYAML parses and validates a schema in text form from YAML.
func SchemaFromYAML(data []byte) (*Schema, error) {
	v, err := FromYAML(data)
	if err != nil {
		return nil, err
	}
	return SchemaFromValue(v)
}

// SchemaFromValue builds and validates a schema from its text form.
func SchemaFromValue(v *Value) (*Schema, error) {
	if v.Kind() != KindMapping {
		return nil, textError("schema", "expected mapping with root and declarations, got %s", v.Kind())
	}
	rootVal, ok := v.Get("root")
	if !ok {
		return nil, textError("schema", "missing root")
	}
	root, err := rootVal.AsText()
	if err != nil {
		return nil, textError("root", "expected type name, got %s", rootVal.Kind())
	}

	s := NewSchema(root)
	if decls, ok := v.Get("declarations"); ok && !decls.IsNull() {
		if decls.Kind() != KindMapping {
			return nil, textError("declarations", "expected mapping, got %s", decls.Kind())
		}
		for _, e := range decls.Entries() {
			d, err := declFromValue(e.Value, e.Key)
			if err != nil {
				return nil, err
			}
			s.Declare(e.Key, d)
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func declFromValue(v *Value, path string) (*Declaration, error) {
	if name, err := v.AsText(); err == nil {
		return PrimitiveDecl(name), nil
	}
	if v.Kind() != KindMapping || v.Len() != 1 {
		return nil, textError(path, "expected a type name or a single-key mapping naming the declaration kind")
	}
	e := v.Entries()[0]
	body := e.Value
	at := path + "." + e.Key

	switch e.Key {
	case "primitive":
		name, err := body.AsText()
		if err != nil {
			return nil, textError(at, "expected type name")
		}
		return PrimitiveDecl(name), nil

	case "struct":
		pairs, err := namedPairs(body, at)
		if err != nil {
			return nil, err
		}
		fields := make([]Field, 0, len(pairs))
		for _, p := range pairs {
			typ, err := p.Value.AsText()
			if err != nil {
				return nil, textError(at+"."+p.Key, "expected type name, got %s", p.Value.Kind())
			}
			fields = append(fields, F(p.Key, typ))
		}
		return StructDecl(fields...), nil

	case "tuple_struct", "tuple":
		elems, err := typeNames(body, at)
		if err != nil {
			return nil, err
		}
		if e.Key == "tuple" {
			return TupleDecl(elems...), nil
		}
		return TupleStructDecl(elems...), nil

	case "enum":
		pairs, err := namedPairs(body, at)
		if err != nil {
			return nil, err
		}
		variants := make([]Variant, 0, len(pairs))
		for _, p := range pairs {
			d, err := declFromValue(p.Value, at+"."+p.Key)
			if err != nil {
				return nil, err
			}
			variants = append(variants, V(p.Key, d))
		}
		return EnumDecl(variants...), nil

	case "sequence":
		elem, err := body.AsText()
		if err != nil {
			return nil, textError(at, "expected element type name")
		}
		return SequenceDecl(elem), nil

	case "array":
		items, err := body.AsSequence()
		if err != nil || len(items) != 2 {
			return nil, textError(at, "expected [element, length]")
		}
		elem, err := items[0].AsText()
		if err != nil {
			return nil, textError(at, "expected element type name")
		}
		n, err := items[1].AsNumber()
		if err != nil {
			return nil, textError(at, "expected numeric length")
		}
		i, kind, _ := n.integer()
		if kind != 0 || i.Sign() < 0 || !i.IsUint64() || i.Uint64() > math.MaxUint32 {
			return nil, textError(at, "length %s is not a u32", n)
		}
		return ArrayDecl(elem, uint32(i.Uint64())), nil
	}
	return nil, textError(path, "unknown declaration kind %q", e.Key)
}

// namedPairs accepts an ordered mapping or a list of [name, x] pairs.
func namedPairs(v *Value, path string) ([]Entry, error) {
	switch v.Kind() {
	case KindMapping:
		return v.Entries(), nil
	case KindSequence:
		out := make([]Entry, 0, v.Len())
		for i, item := range v.seqVal {
			pair, err := item.AsSequence()
			if err != nil || len(pair) != 2 {
				return nil, textError(indexPath(path, i), "expected [name, type] pair")
			}
			name, err := pair[0].AsText()
			if err != nil {
				return nil, textError(indexPath(path, i), "expected name")
			}
			out = append(out, E(name, pair[1]))
		}
		return out, nil
	case KindNull:
		return nil, nil
	}
	return nil, textError(path, "expected mapping or list of pairs, got %s", v.Kind())
}

func typeNames(v *Value, path string) ([]string, error) {
	items, err := v.AsSequence()
	if err != nil {
		return nil, textError(path, "expected list of type names, got %s", v.Kind())
	}
	out := make([]string, len(items))
	for i, item := range items {
		if out[i], err = item.AsText(); err != nil {
			return nil, textError(indexPath(path, i), "expected type name, got %s", item.Kind())
		}
	}
	return out, nil
}

func textError(path, format string, args ...interface{}) *Error {
	return &Error{Kind: SchemaCorrupt, Offset: -1, Msg: path + ": " + fmt.Sprintf(format, args...)}
}

// ToValue renders the schema in text form. Declarations appear in encoding
// order.
func (s *Schema) ToValue() *Value {
	decls := Mapping()
	for _, name := range s.Names() {
		decls.Set(name, declToValue(s.Declarations[name]))
	}
	return Mapping(E("root", Text(s.Root)), E("declarations", decls))
}

func declToValue(d *Declaration) *Value {
	names := func(elems []string) *Value {
		items := make([]*Value, len(elems))
		for i, e := range elems {
			items[i] = Text(e)
		}
		return Sequence(items...)
	}
	switch d.Kind {
	case DeclPrimitive:
		return Mapping(E("primitive", Text(d.Primitive)))
	case DeclStruct:
		fields := Mapping()
		for _, f := range d.Fields {
			fields.Set(f.Name, Text(f.Type))
		}
		return Mapping(E("struct", fields))
	case DeclTupleStruct:
		return Mapping(E("tuple_struct", names(d.Elements)))
	case DeclTuple:
		return Mapping(E("tuple", names(d.Elements)))
	case DeclEnum:
		variants := Mapping()
		for _, v := range d.Variants {
			variants.Set(v.Name, declToValue(v.Decl))
		}
		return Mapping(E("enum", variants))
	case DeclSequence:
		return Mapping(E("sequence", Text(d.Element)))
	case DeclArray:
		return Mapping(E("array", Sequence(Text(d.Element), Uint(uint64(d.Length)))))
	}
	return Null()
}
