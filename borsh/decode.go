package borsh

import (
	"math"
)

// ============================================================
// Schema-Guided Decoder
// ============================================================

// DecodeOptions configures schema-guided decoding.
type DecodeOptions struct {
	// AllowTrailingBytes ignores bytes left after the root value instead of
	// failing with TrailingBytes.
	AllowTrailingBytes bool
}

// Decoder decodes bytes against a validated schema.
type Decoder struct {
	schema  *Schema
	opts    DecodeOptions
	minSize map[string]int
}

// NewDecoder validates the schema and returns a decoder for it.
func NewDecoder(s *Schema, opts DecodeOptions) (*Decoder, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{schema: s, opts: opts, minSize: make(map[string]int)}, nil
}

// Decode decodes data against s with default options.
func Decode(data []byte, s *Schema) (*Value, error) {
	return DecodeWithOptions(data, s, DecodeOptions{})
}

// DecodeWithOptions decodes data against s.
func DecodeWithOptions(data []byte, s *Schema, opts DecodeOptions) (*Value, error) {
	dec, err := NewDecoder(s, opts)
	if err != nil {
		return nil, err
	}
	v, _, err := dec.Decode(data)
	return v, err
}

// Decode decodes one root value from data and returns it with the number of
// bytes consumed.
func (d *Decoder) Decode(data []byte) (*Value, int, error) {
	c := &decodeState{cursor: &cursor{data: data}, zeroBudget: int64(len(data)) + zeroSizeAllowance}
	v, err := d.decodeType(c, d.schema.Root, nil)
	if err != nil {
		return nil, 0, err
	}
	if c.remaining() > 0 && !d.opts.AllowTrailingBytes {
		return nil, 0, newError(TrailingBytes, "", c.pos, "%d bytes after root value", c.remaining())
	}
	return v, c.pos, nil
}

// zeroSizeAllowance is how many zero-size elements a decode may produce
// beyond one per input byte.
const zeroSizeAllowance = 1024

// decodeState is the cursor for one Decode call. Elements of types that
// occupy no bytes draw from zeroBudget, so their number stays proportional
// to the input.
type decodeState struct {
	*cursor
	zeroBudget int64
}

func (d *Decoder) decodeType(c *decodeState, typeName string, path *valuePath) (*Value, error) {
	name, decl, err := d.schema.resolve(typeName)
	if err != nil {
		return nil, err
	}
	if decl == nil {
		return decodePrimitive(c.cursor, name, path)
	}
	return d.decodeDecl(c, decl, path)
}

func (d *Decoder) decodeDecl(c *decodeState, decl *Declaration, path *valuePath) (*Value, error) {
	if path.level() > MaxDepth {
		return nil, depthError(path, c.pos)
	}
	switch decl.Kind {
	case DeclPrimitive:
		return d.decodeType(c, decl.Primitive, path)

	case DeclStruct:
		obj := Mapping()
		for _, f := range decl.Fields {
			fv, err := d.decodeType(c, f.Type, path.field(f.Name))
			if err != nil {
				return nil, err
			}
			obj.Set(f.Name, fv)
		}
		return obj, nil

	case DeclTupleStruct:
		if len(decl.Elements) == 1 {
			return d.decodeType(c, decl.Elements[0], path)
		}
		return d.decodePositional(c, decl.Elements, path)

	case DeclTuple:
		return d.decodePositional(c, decl.Elements, path)

	case DeclSequence:
		at := c.pos
		n, ok := c.u32()
		if !ok {
			return nil, eof(c.cursor, at, path, 4, "sequence length")
		}
		return d.decodeRepeated(c, decl.Element, int64(n), path)

	case DeclArray:
		return d.decodeRepeated(c, decl.Element, int64(decl.Length), path)

	case DeclEnum:
		at := c.pos
		tag, ok := c.u8()
		if !ok {
			return nil, eof(c.cursor, at, path, 1, "enum discriminant")
		}
		if int(tag) >= len(decl.Variants) {
			return nil, newError(InvalidDiscriminant, path.String(), at, "discriminant %d, enum has %d variants", tag, len(decl.Variants))
		}
		variant := decl.Variants[tag]
		if isUnit(variant.Decl) {
			return Text(variant.Name), nil
		}
		payload, err := d.decodeDecl(c, variant.Decl, path.field(variant.Name))
		if err != nil {
			return nil, err
		}
		return Mapping(E(variant.Name, payload)), nil
	}
	return nil, schemaError(SchemaCorrupt, "unknown declaration kind %d", decl.Kind)
}

func (d *Decoder) decodePositional(c *decodeState, elems []string, path *valuePath) (*Value, error) {
	items := make([]*Value, 0, len(elems))
	for i, elem := range elems {
		v, err := d.decodeType(c, elem, path.at(i))
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return Sequence(items...), nil
}

// decodeRepeated reads n elements, refusing counts the remaining input
// cannot hold before allocating for them. Elements that occupy no bytes are
// limited by the decode's zero-size budget instead.
func (d *Decoder) decodeRepeated(c *decodeState, elem string, n int64, path *valuePath) (*Value, error) {
	min := int64(d.typeMinSize(elem, nil))
	switch {
	case min > 0 && n*min > int64(c.remaining()):
		return nil, newError(UnexpectedEOF, path.String(), c.pos, "%d elements need at least %d bytes, %d remain", n, n*min, c.remaining())
	case min == 0 && n > c.zeroBudget:
		return nil, newError(LengthMismatch, path.String(), c.pos, "%d zero-size elements exceed the remaining limit of %d", n, c.zeroBudget)
	case min == 0:
		c.zeroBudget -= n
	}
	capHint := n
	if capHint > int64(c.remaining()) {
		capHint = int64(c.remaining())
	}
	items := make([]*Value, 0, capHint)
	for i := int64(0); i < n; i++ {
		v, err := d.decodeType(c, elem, path.at(int(i)))
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return Sequence(items...), nil
}

// typeMinSize returns a lower bound on the encoded size of a type. Types on
// the current resolution stack count as zero, which keeps the bound valid
// for recursive schemas.
func (d *Decoder) typeMinSize(name string, visiting map[string]bool) int {
	if p, ok := builtins[name]; ok {
		if name == "string" {
			return minStringSize
		}
		return p.size
	}
	if n, ok := d.minSize[name]; ok {
		return n
	}
	if visiting[name] {
		return 0
	}
	if visiting == nil {
		visiting = make(map[string]bool)
	}
	visiting[name] = true
	n := d.declMinSize(d.schema.Declarations[name], visiting)
	delete(visiting, name)
	if len(visiting) == 0 {
		d.minSize[name] = n
	}
	return n
}

func (d *Decoder) declMinSize(decl *Declaration, visiting map[string]bool) int {
	if decl == nil {
		return 0
	}
	sum := func(names []string) int {
		total := 0
		for _, n := range names {
			total = satAdd(total, d.typeMinSize(n, visiting))
		}
		return total
	}
	switch decl.Kind {
	case DeclPrimitive:
		return d.typeMinSize(decl.Primitive, visiting)
	case DeclStruct:
		total := 0
		for _, f := range decl.Fields {
			total = satAdd(total, d.typeMinSize(f.Type, visiting))
		}
		return total
	case DeclTupleStruct, DeclTuple:
		return sum(decl.Elements)
	case DeclSequence:
		return 4
	case DeclArray:
		return satMul(int(decl.Length), d.typeMinSize(decl.Element, visiting))
	case DeclEnum:
		least := -1
		for _, v := range decl.Variants {
			n := d.declMinSize(v.Decl, visiting)
			if least < 0 || n < least {
				least = n
			}
		}
		if least < 0 {
			least = 0
		}
		return satAdd(1, least)
	}
	return 0
}

const maxSize = math.MaxInt32

func satAdd(a, b int) int {
	if a+b > maxSize {
		return maxSize
	}
	return a + b
}

func satMul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if a > maxSize/b {
		return maxSize
	}
	return a * b
}

// ============================================================
// Primitives
// ============================================================

func decodePrimitive(c *cursor, name string, path *valuePath) (*Value, error) {
	at := c.pos
	p := builtins[name]
	switch name {
	case "bool":
		b, ok := c.u8()
		if !ok {
			return nil, eof(c, at, path, 1, name)
		}
		if b > 1 {
			return nil, newError(InvalidDiscriminant, path.String(), at, "invalid bool byte 0x%02x", b)
		}
		return Bool(b == 1), nil

	case "string":
		s, ok, valid := c.str()
		if !ok {
			return nil, eof(c, at, path, 4, name)
		}
		if !valid {
			return nil, newError(InvalidUTF8, path.String(), at, "string is not valid UTF-8")
		}
		return Text(s), nil

	case "f32":
		b, ok := c.integer(32, false)
		if !ok {
			return nil, eof(c, at, path, 4, name)
		}
		return Float(shortestFloat32(math.Float32frombits(uint32(b.Uint64())))), nil

	case "f64":
		b, ok := c.integer(64, false)
		if !ok {
			return nil, eof(c, at, path, 8, name)
		}
		return Float(math.Float64frombits(b.Uint64())), nil
	}

	i, ok := c.integer(p.bits, p.signed)
	if !ok {
		return nil, eof(c, at, path, p.size, name)
	}
	return BigInt(i), nil
}

func eof(c *cursor, at int, path *valuePath, need int, what string) *Error {
	return newError(UnexpectedEOF, path.String(), at, "%s needs %d bytes, %d remain", what, need, len(c.data)-at)
}
