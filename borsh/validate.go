package borsh

import "fmt"

// maxEnumVariants is bounded by the one-byte discriminant.
const maxEnumVariants = 256

// Validate checks that the schema is usable before any value traversal:
// every type reference resolves, the root exists, names are unique where
// they must be, and every declaration admits at least one finite value.
func (s *Schema) Validate() error {
	if s == nil {
		return schemaError(SchemaCorrupt, "nil schema")
	}
	if s.Root == "" {
		return schemaError(UnresolvedTypeReference, "schema has no root")
	}
	if !s.resolves(s.Root) {
		return schemaError(UnresolvedTypeReference, "root %q is not declared", s.Root)
	}

	for _, name := range s.Names() {
		if IsBuiltin(name) {
			return schemaError(SchemaCorrupt, "declaration %q shadows a built-in type", name)
		}
		if err := s.validateDecl(name, s.Declarations[name]); err != nil {
			return err
		}
	}

	if name, ok := s.unbounded(); ok {
		return schemaError(SchemaCorrupt, "declaration %q recurses without a bounded construct", name)
	}
	return nil
}

func (s *Schema) resolves(name string) bool {
	if IsBuiltin(name) {
		return true
	}
	_, ok := s.Declarations[name]
	return ok
}

func (s *Schema) validateDecl(path string, d *Declaration) error {
	if d == nil {
		return schemaError(SchemaCorrupt, "%s: missing declaration", path)
	}
	switch d.Kind {
	case DeclPrimitive, DeclTupleStruct, DeclTuple, DeclSequence, DeclArray:
	case DeclStruct:
		seen := make(map[string]bool, len(d.Fields))
		for _, f := range d.Fields {
			if seen[f.Name] {
				return schemaError(SchemaCorrupt, "%s: duplicate field %q", path, f.Name)
			}
			seen[f.Name] = true
		}
	case DeclEnum:
		if len(d.Variants) > maxEnumVariants {
			return schemaError(SchemaCorrupt, "%s: %d variants exceed the one-byte discriminant", path, len(d.Variants))
		}
		seen := make(map[string]bool, len(d.Variants))
		for _, v := range d.Variants {
			if seen[v.Name] {
				return schemaError(SchemaCorrupt, "%s: duplicate variant %q", path, v.Name)
			}
			seen[v.Name] = true
			if err := s.validateDecl(path+"::"+v.Name, v.Decl); err != nil {
				return err
			}
		}
		return nil
	default:
		return schemaError(SchemaCorrupt, "%s: unknown declaration kind %d", path, d.Kind)
	}

	for _, ref := range d.References() {
		if !s.resolves(ref) {
			return schemaError(UnresolvedTypeReference, "%s: type %q is not declared", path, ref)
		}
	}
	return nil
}

// unbounded finds a declaration that has no finite value, i.e. one that
// requires itself again on every path. Sequences and zero-length arrays
// terminate recursion; an enum terminates if any variant does.
func (s *Schema) unbounded() (string, bool) {
	finite := make(map[string]bool, len(s.Declarations))
	for changed := true; changed; {
		changed = false
		for name, d := range s.Declarations {
			if !finite[name] && s.declFinite(d, finite) {
				finite[name] = true
				changed = true
			}
		}
	}
	for _, name := range s.Names() {
		if !finite[name] {
			return name, true
		}
	}
	return "", false
}

func (s *Schema) declFinite(d *Declaration, finite map[string]bool) bool {
	ref := func(name string) bool {
		return IsBuiltin(name) || finite[name]
	}
	switch d.Kind {
	case DeclPrimitive:
		return ref(d.Primitive)
	case DeclSequence:
		return true
	case DeclArray:
		return d.Length == 0 || ref(d.Element)
	case DeclStruct:
		for _, f := range d.Fields {
			if !ref(f.Type) {
				return false
			}
		}
		return true
	case DeclTupleStruct, DeclTuple:
		for _, e := range d.Elements {
			if !ref(e) {
				return false
			}
		}
		return true
	case DeclEnum:
		for _, v := range d.Variants {
			if s.declFinite(v.Decl, finite) {
				return true
			}
		}
		return false
	}
	return false
}

// resolve follows primitive aliases to the declaration or built-in that
// actually governs the encoding. Aliases are acyclic after Validate.
func (s *Schema) resolve(name string) (string, *Declaration, error) {
	for hops := 0; ; hops++ {
		if IsBuiltin(name) {
			return name, nil, nil
		}
		d, ok := s.Declarations[name]
		if !ok {
			return "", nil, schemaError(UnresolvedTypeReference, "type %q is not declared", name)
		}
		if d.Kind != DeclPrimitive {
			return name, d, nil
		}
		if hops > len(s.Declarations) {
			return "", nil, schemaError(SchemaCorrupt, "alias cycle through %q", name)
		}
		name = d.Primitive
	}
}

func (d *Declaration) describe() string {
	switch d.Kind {
	case DeclArray:
		return fmt.Sprintf("array[%d]", d.Length)
	default:
		return d.Kind.String()
	}
}
