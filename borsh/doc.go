// Package borsh converts between JSON-like dynamic values and the Borsh
// binary format, guided by a schema that is itself Borsh-encoded and can
// travel in front of the data as a self-describing header.
//
// # Binary Format
//
// All integers are little-endian and fixed width; there is no padding:
//
//	bool            1 byte, 0 or 1
//	u8..u128        1, 2, 4, 8, 16 bytes
//	i8..i128        same widths, two's complement
//	f32, f64        IEEE-754
//	string          u32 length + UTF-8 bytes
//	sequence        u32 count + elements
//	array           elements only (length is in the schema)
//	struct, tuple   members in declared order
//	enum            1-byte discriminant + variant payload
//
// # Data Model
//
// Values are null, bool, number (exact big integer or float64), text,
// sequence and mapping. Mappings keep insertion order: the schema-guided
// codec looks members up by name, while the schema-less encoder writes them
// in the order they appear.
//
// # Schema
//
// A Schema is a table of named declarations (primitive alias, struct, tuple
// struct, enum, sequence, array, tuple) plus a root type name. Schemas are
// validated eagerly, before any value is touched.
//
//	s := borsh.NewSchema("Point").
//		Declare("Point", borsh.StructDecl(borsh.F("x", "i32"), borsh.F("y", "i32")))
//	b, err := borsh.Encode(v, s)
//
// # Header Framing
//
// EncodeSchema output is self-terminating, so a blob is simply schema bytes
// followed by payload bytes. Extract and Strip split such a blob again.
package borsh
