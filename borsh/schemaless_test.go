package borsh

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestEncodeSchemaless_FloatThenBool(t *testing.T) {
	got, err := EncodeSchemaless(mustJSON(t, `{"definitely_pi":2.718281828459045,"trustworthy":false}`))
	if err != nil {
		t.Fatal(err)
	}
	want := binary.LittleEndian.AppendUint64(nil, math.Float64bits(2.718281828459045))
	want = append(want, 0x00)
	if !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestEncodeSchemaless_Inference(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"true", `true`, "01"},
		{"integer", `7`, "0700000000000000"},
		{"negative integer", `-1`, "ffffffffffffffff"},
		{"integral float", `2.0`, "0200000000000000"},
		{"i64 min", `-9223372036854775808`, "0000000000000080"},
		{"beyond i64", `9223372036854775808`, "000000000000e043"},
		{"fraction", `0.5`, "000000000000e03f"},
		{"text", `"hi"`, "02000000 6869"},
		{"heterogeneous sequence", `[1,"a",true]`, "03000000 0100000000000000 0100000061 01"},
		{"nested mapping", `{"x":{"y":false},"z":[]}`, "00 00000000"},
		{"empty mapping", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeSchemaless(mustJSON(t, tt.input))
			if err != nil {
				t.Fatal(err)
			}
			if want := unhex(t, tt.want); !bytes.Equal(got, want) {
				t.Errorf("got %x, want %x", got, want)
			}
		})
	}
}

func TestEncodeSchemaless_OrderSensitive(t *testing.T) {
	ab, err := EncodeSchemaless(mustJSON(t, `{"a":1,"b":2}`))
	if err != nil {
		t.Fatal(err)
	}
	ba, err := EncodeSchemaless(mustJSON(t, `{"b":2,"a":1}`))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(ab, ba) {
		t.Error("insertion order should change schema-less output")
	}
}

func TestEncodeSchemaless_Null(t *testing.T) {
	for _, input := range []string{`null`, `[1,null]`, `{"a":{"b":null}}`} {
		out, err := EncodeSchemaless(mustJSON(t, input))
		if !errors.Is(err, UnsupportedType) {
			t.Errorf("%s: expected UnsupportedType, got %v", input, err)
		}
		if out != nil {
			t.Errorf("%s: partial output %x", input, out)
		}
	}
}

func TestEncodeSchemaless_DeepNesting(t *testing.T) {
	v := Sequence()
	for i := 0; i <= MaxDepth; i++ {
		v = Sequence(v)
	}
	if _, err := EncodeSchemaless(v); !errors.Is(err, UnsupportedType) {
		t.Errorf("expected %s, got %v", UnsupportedType, err)
	}
}
