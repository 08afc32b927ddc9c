package borsh

import (
	"bytes"
	"errors"
	"math"
	"math/big"
	"testing"
)

func single(decl *Declaration) *Schema {
	return NewSchema("T").Declare("T", decl)
}

func pairSchema() *Schema {
	return single(StructDecl(F("a", "u32"), F("b", "string")))
}

func TestEncode_Struct(t *testing.T) {
	got, err := Encode(mustJSON(t, `{"a":7,"b":"hi"}`), pairSchema())
	if err != nil {
		t.Fatal(err)
	}
	want := unhex(t, "07000000 02000000 6869")
	if !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestEncode_FieldOrderIndependent(t *testing.T) {
	ab, err := Encode(mustJSON(t, `{"a":1,"b":"x"}`), pairSchema())
	if err != nil {
		t.Fatal(err)
	}
	ba, err := Encode(mustJSON(t, `{"b":"x","a":1}`), pairSchema())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ab, ba) {
		t.Errorf("field order changed output: %x vs %x", ab, ba)
	}
}

func TestEncode_Deterministic(t *testing.T) {
	v := mustJSON(t, firstJSON)
	first, err := Encode(v, firstSchema())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := Encode(v, firstSchema())
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("repeated encodes differ")
		}
	}
}

func TestEncode_Nested(t *testing.T) {
	got, err := Encode(mustJSON(t, firstJSON), firstSchema())
	if err != nil {
		t.Fatal(err)
	}
	if want := unhex(t, firstHex); !bytes.Equal(got, want) {
		t.Errorf("got  %x\nwant %x", got, want)
	}
}

func TestEncode_EnumDiscriminants(t *testing.T) {
	s := single(thirdEnum())

	tests := []struct {
		input string
		want  string
	}{
		{`{"Alpha":{"field":1}}`, "00 01000000"},
		{`{"Beta":1}`, "01 01000000"},
		{`"Gamma"`, "02"},
		{`{"Gamma":{}}`, "02"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Encode(mustJSON(t, tt.input), s)
			if err != nil {
				t.Fatal(err)
			}
			if want := unhex(t, tt.want); !bytes.Equal(got, want) {
				t.Errorf("got %x, want %x", got, want)
			}
		})
	}
}

func TestEncode_Primitives(t *testing.T) {
	maxU128, _ := new(big.Int).SetString("340282366920938463463374607431768211455", 10)
	minI128, _ := new(big.Int).SetString("-170141183460469231731687303715884105728", 10)

	tests := []struct {
		name  string
		typ   string
		value *Value
		want  string
	}{
		{"bool true", "bool", Bool(true), "01"},
		{"bool false", "bool", Bool(false), "00"},
		{"u8", "u8", Int(255), "ff"},
		{"i8", "i8", Int(-1), "ff"},
		{"u16", "u16", Int(0x1234), "3412"},
		{"i16 min", "i16", Int(math.MinInt16), "0080"},
		{"i32", "i32", Int(-2), "feffffff"},
		{"u64 max", "u64", Uint(math.MaxUint64), "ffffffffffffffff"},
		{"i64 min", "i64", Int(math.MinInt64), "0000000000000080"},
		{"u128 max", "u128", BigInt(maxU128), "ffffffffffffffffffffffffffffffff"},
		{"u128 small", "u128", Int(1), "01000000000000000000000000000000"},
		{"i128 min", "i128", BigInt(minI128), "00000000000000000000000000000080"},
		{"i128 minus one", "i128", Int(-1), "ffffffffffffffffffffffffffffffff"},
		{"u128 decimal text", "u128", Text("340282366920938463463374607431768211455"), "ffffffffffffffffffffffffffffffff"},
		{"i64 decimal text", "i64", Text("-2"), "feffffffffffffff"},
		{"integral float to u32", "u32", Float(7), "07000000"},
		{"f32", "f32", Float(0.5), "0000003f"},
		{"f64", "f64", Float(1), "000000000000f03f"},
		{"f64 from int", "f64", Int(2), "0000000000000040"},
		{"string", "string", Text("héllo"), "06000000 68c3a96c6c6f"},
		{"empty string", "string", Text(""), "00000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.value, NewSchema(tt.typ))
			if err != nil {
				t.Fatal(err)
			}
			if want := unhex(t, tt.want); !bytes.Equal(got, want) {
				t.Errorf("got %x, want %x", got, want)
			}
		})
	}
}

func TestEncode_Containers(t *testing.T) {
	tests := []struct {
		name   string
		schema *Schema
		input  string
		want   string
	}{
		{"sequence", single(SequenceDecl("u16")), `[1,2,3]`, "03000000 0100 0200 0300"},
		{"empty sequence", single(SequenceDecl("u16")), `[]`, "00000000"},
		{"array", single(ArrayDecl("u8", 3)), `[1,2,3]`, "010203"},
		{"tuple", single(TupleDecl("u8", "string")), `[1,"a"]`, "01 0100000061"},
		{"tuple struct", single(TupleStructDecl("u8", "bool")), `[9,true]`, "09 01"},
		{"newtype", single(TupleStructDecl("u16")), `5`, "0500"},
		{"alias", NewSchema("Amount").Declare("Amount", PrimitiveDecl("u64")), `3`, "0300000000000000"},
		{"empty struct", single(StructDecl()), `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(mustJSON(t, tt.input), tt.schema)
			if err != nil {
				t.Fatal(err)
			}
			if want := unhex(t, tt.want); !bytes.Equal(got, want) {
				t.Errorf("got %x, want %x", got, want)
			}
		})
	}
}

func TestEncode_Errors(t *testing.T) {
	tooBig := new(big.Int).Lsh(bigOne, 128)

	tests := []struct {
		name   string
		schema *Schema
		value  *Value
		kind   ErrorKind
		path   string
	}{
		{"missing field", pairSchema(), mustJSON(t, `{"a":7}`), FieldMissing, "$"},
		{"wrong field type", pairSchema(), mustJSON(t, `{"a":"7","b":"hi"}`), TypeMismatch, "$.a"},
		{"unknown field", pairSchema(), mustJSON(t, `{"a":7,"b":"hi","c":0}`), TypeMismatch, "$"},
		{"struct from sequence", pairSchema(), mustJSON(t, `[7,"hi"]`), TypeMismatch, "$"},
		{"null for u8", NewSchema("u8"), Null(), TypeMismatch, "$"},
		{"hex text for u128", NewSchema("u128"), Text("0x1"), TypeMismatch, "$"},
		{"text for u32", NewSchema("u32"), Text("1"), TypeMismatch, "$"},
		{"text for f64", NewSchema("f64"), Text("1"), TypeMismatch, "$"},
		{"decimal text overflow", NewSchema("u64"), Text("18446744073709551616"), NumericOverflow, "$"},
		{"u8 overflow", NewSchema("u8"), Int(256), NumericOverflow, "$"},
		{"i8 underflow", NewSchema("i8"), Int(-129), NumericOverflow, "$"},
		{"negative unsigned", NewSchema("u32"), Int(-1), NumericOverflow, "$"},
		{"u128 overflow", NewSchema("u128"), BigInt(tooBig), NumericOverflow, "$"},
		{"fraction for integer", NewSchema("u32"), Float(1.5), NumericPrecisionLoss, "$"},
		{"NaN for integer", NewSchema("i64"), Float(math.NaN()), NumericPrecisionLoss, "$"},
		{"Inf for integer", NewSchema("i64"), Float(math.Inf(1)), NumericOverflow, "$"},
		{"f32 precision", NewSchema("f32"), Float(0.1000000001), NumericPrecisionLoss, "$"},
		{"f32 integer precision", NewSchema("f32"), Int(16777217), NumericPrecisionLoss, "$"},
		{"f32 range", NewSchema("f32"), Float(1e39), NumericOverflow, "$"},
		{"f64 inexact int", NewSchema("f64"), BigInt(new(big.Int).Add(new(big.Int).Lsh(bigOne, 53), bigOne)), NumericPrecisionLoss, "$"},
		{"array arity", single(ArrayDecl("u8", 3)), mustJSON(t, `[1,2]`), LengthMismatch, "$"},
		{"tuple arity", single(TupleDecl("u8", "u8")), mustJSON(t, `[1,2,3]`), LengthMismatch, "$"},
		{"sequence element", single(SequenceDecl("u8")), mustJSON(t, `[1,300]`), NumericOverflow, "$[1]"},
		{"unknown variant", single(thirdEnum()), Text("Delta"), UnknownVariant, "$"},
		{"unknown variant key", single(thirdEnum()), mustJSON(t, `{"Delta":1}`), UnknownVariant, "$"},
		{"two variant keys", single(thirdEnum()), mustJSON(t, `{"Beta":1,"Gamma":{}}`), UnknownVariant, "$"},
		{"bare payload variant", single(thirdEnum()), Text("Alpha"), TypeMismatch, "$"},
		{"enum from number", single(thirdEnum()), Int(0), TypeMismatch, "$"},
		{"variant payload", single(thirdEnum()), mustJSON(t, `{"Alpha":{"field":-1}}`), NumericOverflow, "$.Alpha.field"},
		{"nested path", firstSchema(), mustJSON(t, `{"a":[1,2],"b":"","c":{"a":"Gamma","b":"Gamma","c":"Gamma","d":1,"e":2},"e":["x",4]}`), TypeMismatch, "$.e[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Encode(tt.value, tt.schema)
			if err == nil {
				t.Fatalf("expected error, got %x", out)
			}
			if out != nil {
				t.Errorf("partial output on failure: %x", out)
			}
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if e.Path != tt.path {
				t.Errorf("path = %q, want %q", e.Path, tt.path)
			}
		})
	}
}

func TestEncode_AllowUnknownFields(t *testing.T) {
	v := mustJSON(t, `{"extra":true,"b":"hi","a":7}`)
	got, err := EncodeWithOptions(v, pairSchema(), EncodeOptions{AllowUnknownFields: true})
	if err != nil {
		t.Fatal(err)
	}
	if want := unhex(t, "07000000 02000000 6869"); !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestNewEncoder_InvalidSchema(t *testing.T) {
	_, err := NewEncoder(NewSchema("Missing"), EncodeOptions{})
	if KindOf(err) != UnresolvedTypeReference {
		t.Errorf("expected UnresolvedTypeReference, got %v", err)
	}
}

func nestedSequence(depth int) *Value {
	v := Sequence()
	for i := 0; i < depth; i++ {
		v = Sequence(v)
	}
	return v
}

func TestEncode_DeepNesting(t *testing.T) {
	s := single(SequenceDecl("T"))
	data, err := Encode(nestedSequence(MaxDepth-1), s)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 4*MaxDepth {
		t.Errorf("encoded %d bytes, want %d", len(data), 4*MaxDepth)
	}
	if _, err := Encode(nestedSequence(MaxDepth+1), s); !errors.Is(err, UnsupportedType) {
		t.Errorf("expected %s, got %v", UnsupportedType, err)
	}
}

func TestEncode_F32Decimals(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`0.1`, "cdcccc3d"},
		{`3.14`, "c3f54840"},
		{`16777216`, "0000804b"},
	}
	for _, tt := range tests {
		got, err := Encode(mustJSON(t, tt.input), NewSchema("f32"))
		if err != nil {
			t.Errorf("%s: %v", tt.input, err)
			continue
		}
		if want := unhex(t, tt.want); !bytes.Equal(got, want) {
			t.Errorf("%s: got %x, want %x", tt.input, got, want)
		}
	}
}
