package borsh

import "unicode/utf8"

// Compact returns an equivalent schema whose declarations are renamed to
// the shortest names available, one rune each in code-point order. Only
// declarations reachable from the root are kept. Field and variant names
// are part of the decoded values and are never renamed, so data encoded
// with s decodes identically with the result.
func Compact(s *Schema) (*Schema, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	renamed := make(map[string]string)
	var next rune
	stack := []string{s.Root}
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if IsBuiltin(name) {
			continue
		}
		if _, done := renamed[name]; done {
			continue
		}
		renamed[name], next = shortName(next)
		stack = append(stack, s.Declarations[name].References()...)
	}

	rename := func(name string) string {
		if n, ok := renamed[name]; ok {
			return n
		}
		return name
	}
	out := NewSchema(rename(s.Root))
	for old, n := range renamed {
		out.Declare(n, renameDecl(s.Declarations[old], rename))
	}
	return out, nil
}

// shortName returns the next valid single-rune name at or after r, and the
// rune to continue from.
func shortName(r rune) (string, rune) {
	for !utf8.ValidRune(r) {
		r++
	}
	return string(r), r + 1
}

func renameDecl(d *Declaration, rename func(string) string) *Declaration {
	out := &Declaration{Kind: d.Kind, Length: d.Length}
	switch d.Kind {
	case DeclPrimitive:
		out.Primitive = rename(d.Primitive)
	case DeclStruct:
		out.Fields = make([]Field, len(d.Fields))
		for i, f := range d.Fields {
			out.Fields[i] = F(f.Name, rename(f.Type))
		}
	case DeclTupleStruct, DeclTuple:
		out.Elements = make([]string, len(d.Elements))
		for i, e := range d.Elements {
			out.Elements[i] = rename(e)
		}
	case DeclEnum:
		out.Variants = make([]Variant, len(d.Variants))
		for i, v := range d.Variants {
			out.Variants[i] = V(v.Name, renameDecl(v.Decl, rename))
		}
	case DeclSequence, DeclArray:
		out.Element = rename(d.Element)
	}
	return out
}
