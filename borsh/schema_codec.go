package borsh

// ============================================================
// Schema Codec
// ============================================================
//
// A schema is encoded with the same primitive rules it describes:
//
//	u32 count
//	count × (string name, declaration)   sorted by name
//	string root
//
// and each declaration is a one-byte DeclKind followed by its payload.

// Minimum encoded sizes, used to reject counts the input cannot hold.
const (
	minStringSize = 4
	minDeclSize   = 1 + minStringSize // discriminant + smallest payload
	maxEnumNest   = 64
)

// EncodeSchema validates s and returns its binary encoding.
func EncodeSchema(s *Schema) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	w := &writer{}
	if err := w.length(len(s.Declarations), nil); err != nil {
		return nil, err
	}
	for _, name := range s.Names() {
		if err := w.str(name, nil); err != nil {
			return nil, err
		}
		if err := encodeDecl(w, s.Declarations[name]); err != nil {
			return nil, err
		}
	}
	if err := w.str(s.Root, nil); err != nil {
		return nil, err
	}
	return w.bytes(), nil
}

func encodeDecl(w *writer, d *Declaration) error {
	w.u8(uint8(d.Kind))
	switch d.Kind {
	case DeclPrimitive:
		return w.str(d.Primitive, nil)
	case DeclStruct:
		if err := w.length(len(d.Fields), nil); err != nil {
			return err
		}
		for _, f := range d.Fields {
			if err := w.str(f.Name, nil); err != nil {
				return err
			}
			if err := w.str(f.Type, nil); err != nil {
				return err
			}
		}
	case DeclTupleStruct, DeclTuple:
		if err := w.length(len(d.Elements), nil); err != nil {
			return err
		}
		for _, e := range d.Elements {
			if err := w.str(e, nil); err != nil {
				return err
			}
		}
	case DeclEnum:
		if err := w.length(len(d.Variants), nil); err != nil {
			return err
		}
		for _, v := range d.Variants {
			if err := w.str(v.Name, nil); err != nil {
				return err
			}
			if err := encodeDecl(w, v.Decl); err != nil {
				return err
			}
		}
	case DeclSequence:
		return w.str(d.Element, nil)
	case DeclArray:
		if err := w.str(d.Element, nil); err != nil {
			return err
		}
		w.u32(d.Length)
	default:
		return schemaError(SchemaCorrupt, "unknown declaration kind %d", d.Kind)
	}
	return nil
}

// DecodeSchema parses a schema from the start of data and validates it. It
// returns the schema and the number of bytes it occupied; bytes after that
// are left for the caller.
func DecodeSchema(data []byte) (*Schema, int, error) {
	c := &cursor{data: data}
	s, err := decodeSchema(c)
	if err != nil {
		return nil, 0, err
	}
	if err := s.Validate(); err != nil {
		return nil, 0, err
	}
	return s, c.pos, nil
}

func decodeSchema(c *cursor) (*Schema, error) {
	count, err := schemaCount(c, minStringSize+minDeclSize, "declaration")
	if err != nil {
		return nil, err
	}
	s := &Schema{Declarations: make(map[string]*Declaration, count)}
	for i := 0; i < count; i++ {
		at := c.pos
		name, err := schemaString(c, "declaration name")
		if err != nil {
			return nil, err
		}
		if _, dup := s.Declarations[name]; dup {
			return nil, corruptAt(at, "duplicate declaration %q", name)
		}
		d, err := decodeDecl(c, 0)
		if err != nil {
			return nil, err
		}
		s.Declarations[name] = d
	}
	root, err := schemaString(c, "root name")
	if err != nil {
		return nil, err
	}
	s.Root = root
	return s, nil
}

func decodeDecl(c *cursor, depth int) (*Declaration, error) {
	at := c.pos
	if depth > maxEnumNest {
		return nil, corruptAt(at, "enum nesting deeper than %d", maxEnumNest)
	}
	tag, ok := c.u8()
	if !ok {
		return nil, corruptAt(at, "truncated declaration")
	}
	d := &Declaration{Kind: DeclKind(tag)}
	var err error
	switch d.Kind {
	case DeclPrimitive:
		d.Primitive, err = schemaString(c, "primitive name")
	case DeclStruct:
		var n int
		if n, err = schemaCount(c, 2*minStringSize, "field"); err != nil {
			return nil, err
		}
		d.Fields = make([]Field, n)
		for i := range d.Fields {
			if d.Fields[i].Name, err = schemaString(c, "field name"); err != nil {
				return nil, err
			}
			if d.Fields[i].Type, err = schemaString(c, "field type"); err != nil {
				return nil, err
			}
		}
	case DeclTupleStruct, DeclTuple:
		var n int
		if n, err = schemaCount(c, minStringSize, "element"); err != nil {
			return nil, err
		}
		d.Elements = make([]string, n)
		for i := range d.Elements {
			if d.Elements[i], err = schemaString(c, "element type"); err != nil {
				return nil, err
			}
		}
	case DeclEnum:
		var n int
		if n, err = schemaCount(c, minStringSize+minDeclSize, "variant"); err != nil {
			return nil, err
		}
		d.Variants = make([]Variant, n)
		for i := range d.Variants {
			if d.Variants[i].Name, err = schemaString(c, "variant name"); err != nil {
				return nil, err
			}
			if d.Variants[i].Decl, err = decodeDecl(c, depth+1); err != nil {
				return nil, err
			}
		}
	case DeclSequence:
		d.Element, err = schemaString(c, "element type")
	case DeclArray:
		if d.Element, err = schemaString(c, "element type"); err != nil {
			return nil, err
		}
		lenAt := c.pos
		n, ok := c.u32()
		if !ok {
			return nil, corruptAt(lenAt, "truncated array length")
		}
		d.Length = n
	default:
		return nil, corruptAt(at, "unknown declaration discriminant %d", tag)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// schemaCount reads a u32 count and rejects it when count×minSize exceeds
// the remaining input.
func schemaCount(c *cursor, minSize int, what string) (int, error) {
	at := c.pos
	n, ok := c.u32()
	if !ok {
		return 0, corruptAt(at, "truncated %s count", what)
	}
	if uint64(n)*uint64(minSize) > uint64(c.remaining()) {
		return 0, corruptAt(at, "%s count %d exceeds remaining %d bytes", what, n, c.remaining())
	}
	return int(n), nil
}

func schemaString(c *cursor, what string) (string, error) {
	at := c.pos
	s, ok, valid := c.str()
	if !ok {
		return "", corruptAt(at, "truncated %s", what)
	}
	if !valid {
		return "", corruptAt(at, "%s is not valid UTF-8", what)
	}
	return s, nil
}

func corruptAt(offset int, format string, args ...interface{}) *Error {
	return newError(SchemaCorrupt, "", offset, format, args...)
}
