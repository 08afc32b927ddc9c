package borsh

import (
	"fmt"
	"math/big"
	"strings"
)

// ============================================================
// Schema-Guided Encoder
// ============================================================

// EncodeOptions configures schema-guided encoding.
type EncodeOptions struct {
	// AllowUnknownFields ignores mapping members a struct does not declare.
	// By default they are a TypeMismatch, since they would not survive a
	// round trip.
	AllowUnknownFields bool
}

// Encoder encodes values against a validated schema.
type Encoder struct {
	schema *Schema
	opts   EncodeOptions
}

// NewEncoder validates the schema and returns an encoder for it.
func NewEncoder(s *Schema, opts EncodeOptions) (*Encoder, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Encoder{schema: s, opts: opts}, nil
}

// Encode encodes v against s with default options.
func Encode(v *Value, s *Schema) ([]byte, error) {
	return EncodeWithOptions(v, s, EncodeOptions{})
}

// EncodeWithOptions encodes v against s.
func EncodeWithOptions(v *Value, s *Schema, opts EncodeOptions) ([]byte, error) {
	enc, err := NewEncoder(s, opts)
	if err != nil {
		return nil, err
	}
	return enc.Encode(v)
}

// Encode encodes v starting at the schema root. On failure no bytes are
// returned.
func (e *Encoder) Encode(v *Value) ([]byte, error) {
	w := &writer{}
	if err := e.encodeType(w, v, e.schema.Root, nil); err != nil {
		return nil, err
	}
	return w.bytes(), nil
}

func (e *Encoder) encodeType(w *writer, v *Value, typeName string, path *valuePath) error {
	name, d, err := e.schema.resolve(typeName)
	if err != nil {
		return err
	}
	if d == nil {
		return encodePrimitive(w, v, name, path)
	}
	return e.encodeDecl(w, v, d, path)
}

func (e *Encoder) encodeDecl(w *writer, v *Value, d *Declaration, path *valuePath) error {
	if path.level() > MaxDepth {
		return depthError(path, -1)
	}
	switch d.Kind {
	case DeclPrimitive:
		return e.encodeType(w, v, d.Primitive, path)

	case DeclStruct:
		if v.Kind() != KindMapping {
			return mismatch(path, "struct", v)
		}
		for _, f := range d.Fields {
			fv, ok := v.Get(f.Name)
			if !ok {
				return newError(FieldMissing, path.String(), -1, "missing field %q", f.Name)
			}
			if err := e.encodeType(w, fv, f.Type, path.field(f.Name)); err != nil {
				return err
			}
		}
		if !e.opts.AllowUnknownFields && v.Len() > len(d.Fields) {
			return newError(TypeMismatch, path.String(), -1, "unexpected fields %s", strings.Join(unknownFields(v, d), ", "))
		}
		return nil

	case DeclTupleStruct:
		if len(d.Elements) == 1 {
			return e.encodeType(w, v, d.Elements[0], path)
		}
		return e.encodePositional(w, v, d.Elements, path, "tuple struct")

	case DeclTuple:
		return e.encodePositional(w, v, d.Elements, path, "tuple")

	case DeclSequence:
		items, err := v.AsSequence()
		if err != nil {
			return mismatch(path, "sequence", v)
		}
		if err := w.length(len(items), path); err != nil {
			return err
		}
		for i, item := range items {
			if err := e.encodeType(w, item, d.Element, path.at(i)); err != nil {
				return err
			}
		}
		return nil

	case DeclArray:
		items, err := v.AsSequence()
		if err != nil {
			return mismatch(path, d.describe(), v)
		}
		if uint64(len(items)) != uint64(d.Length) {
			return newError(LengthMismatch, path.String(), -1, "expected %d elements, got %d", d.Length, len(items))
		}
		for i, item := range items {
			if err := e.encodeType(w, item, d.Element, path.at(i)); err != nil {
				return err
			}
		}
		return nil

	case DeclEnum:
		return e.encodeEnum(w, v, d, path)
	}
	return schemaError(SchemaCorrupt, "unknown declaration kind %d", d.Kind)
}

func (e *Encoder) encodePositional(w *writer, v *Value, elems []string, path *valuePath, what string) error {
	items, err := v.AsSequence()
	if err != nil {
		return mismatch(path, what, v)
	}
	if len(items) != len(elems) {
		return newError(LengthMismatch, path.String(), -1, "%s expects %d elements, got %d", what, len(elems), len(items))
	}
	for i, item := range items {
		if err := e.encodeType(w, item, elems[i], path.at(i)); err != nil {
			return err
		}
	}
	return nil
}

// encodeEnum accepts {"Variant": payload}, or a bare "Variant" for unit
// variants.
func (e *Encoder) encodeEnum(w *writer, v *Value, d *Declaration, path *valuePath) error {
	switch v.Kind() {
	case KindText:
		idx := variantIndex(d, v.textVal)
		if idx < 0 {
			return newError(UnknownVariant, path.String(), -1, "variant %q does not exist", v.textVal)
		}
		if !isUnit(d.Variants[idx].Decl) {
			return newError(TypeMismatch, path.String(), -1, "variant %q requires a payload", v.textVal)
		}
		w.u8(uint8(idx))
		return nil

	case KindMapping:
		if v.Len() != 1 {
			return newError(UnknownVariant, path.String(), -1, "expected exactly one variant key, got %d", v.Len())
		}
		entry := v.Entries()[0]
		idx := variantIndex(d, entry.Key)
		if idx < 0 {
			return newError(UnknownVariant, path.String(), -1, "variant %q does not exist", entry.Key)
		}
		w.u8(uint8(idx))
		return e.encodeDecl(w, entry.Value, d.Variants[idx].Decl, path.field(entry.Key))
	}
	return mismatch(path, "enum", v)
}

func variantIndex(d *Declaration, name string) int {
	for i, v := range d.Variants {
		if v.Name == name {
			return i
		}
	}
	return -1
}

// isUnit reports whether a payload declaration always encodes to zero bytes.
func isUnit(d *Declaration) bool {
	switch d.Kind {
	case DeclStruct:
		return len(d.Fields) == 0
	case DeclTupleStruct, DeclTuple:
		return len(d.Elements) == 0
	case DeclArray:
		return d.Length == 0
	}
	return false
}

func unknownFields(v *Value, d *Declaration) []string {
	declared := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		declared[f.Name] = true
	}
	var extra []string
	for _, k := range v.Keys() {
		if !declared[k] {
			extra = append(extra, fmt.Sprintf("%q", k))
		}
	}
	return extra
}

func mismatch(path *valuePath, expected string, v *Value) *Error {
	return newError(TypeMismatch, path.String(), -1, "expected %s, got %s", expected, v.Kind())
}

// ============================================================
// Primitives
// ============================================================

func encodePrimitive(w *writer, v *Value, name string, path *valuePath) error {
	switch name {
	case "bool":
		b, err := v.AsBool()
		if err != nil {
			return mismatch(path, "bool", v)
		}
		w.boolean(b)
		return nil
	case "string":
		s, err := v.AsText()
		if err != nil {
			return mismatch(path, "string", v)
		}
		return w.str(s, path)
	}

	p := builtins[name]
	n, err := v.AsNumber()
	if err != nil {
		var ok bool
		if n, ok = decimalText(v, p); !ok {
			return mismatch(path, name, v)
		}
	}

	if p.float {
		if name == "f32" {
			f, kind, msg := n.float32Of()
			if kind != 0 {
				return newError(kind, path.String(), -1, "%s", msg)
			}
			w.f32(f)
			return nil
		}
		f, kind, msg := n.float64Of()
		if kind != 0 {
			return newError(kind, path.String(), -1, "%s", msg)
		}
		w.f64(f)
		return nil
	}

	i, kind, msg := n.integer()
	if kind != 0 {
		return newError(kind, path.String(), -1, "%s target: %s", name, msg)
	}
	lo, hi := intRange(p.bits, p.signed)
	if i.Cmp(lo) < 0 || i.Cmp(hi) > 0 {
		return newError(NumericOverflow, path.String(), -1, "%s out of %s range [%s, %s]", i, name, lo, hi)
	}
	w.integer(i, p.bits)
	return nil
}

// decimalText reads a 64- or 128-bit integer written as decimal text, the
// form tools use for values beyond the range of JSON numbers.
func decimalText(v *Value, p primitive) (Number, bool) {
	if v.Kind() != KindText || p.float || p.bits < 64 {
		return Number{}, false
	}
	i, ok := new(big.Int).SetString(v.textVal, 10)
	if !ok {
		return Number{}, false
	}
	return IntNumber(i), true
}
