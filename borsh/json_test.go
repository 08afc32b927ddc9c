package borsh

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// ============================================================
// FromJSON
// ============================================================

func TestFromJSON_PreservesKeyOrder(t *testing.T) {
	v := mustJSON(t, `{"f":1,"e":1,"d":1,"c":1,"b":1,"a":1}`)

	keys := v.Keys()
	want := []string{"f", "e", "d", "c", "b", "a"}
	if len(keys) != len(want) {
		t.Fatalf("got %d keys, want %d", len(keys), len(want))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: got %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestFromJSON_Numbers(t *testing.T) {
	tests := []struct {
		input  string
		isInt  bool
		output string
	}{
		{"7", true, "7"},
		{"-42", true, "-42"},
		{"340282366920938463463374607431768211455", true, "340282366920938463463374607431768211455"},
		{"2.5", false, "2.5"},
		{"1e3", false, "1000"},
		{"2.718281828459045", false, "2.718281828459045"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, err := mustJSON(t, tt.input).AsNumber()
			if err != nil {
				t.Fatal(err)
			}
			if n.IsInt() != tt.isInt {
				t.Errorf("IsInt = %v, want %v", n.IsInt(), tt.isInt)
			}
			if n.String() != tt.output {
				t.Errorf("String = %q, want %q", n.String(), tt.output)
			}
		})
	}
}

func TestFromJSON_Errors(t *testing.T) {
	for _, input := range []string{``, `{`, `{"a":1} {"b":2}`, `[1,]`, `{"a" 1}`} {
		if _, err := FromJSON([]byte(input)); err == nil {
			t.Errorf("FromJSON(%q) should fail", input)
		}
	}
}

func TestFromJSON_DeepNesting(t *testing.T) {
	nested := func(n int) []byte {
		return []byte(strings.Repeat("[", n) + strings.Repeat("]", n))
	}
	if _, err := FromJSON(nested(MaxDepth + 1)); err != nil {
		t.Fatalf("depth %d: %v", MaxDepth+1, err)
	}
	if _, err := FromJSON(nested(MaxDepth + 2)); err == nil {
		t.Errorf("depth %d should fail", MaxDepth+2)
	}
}

// ============================================================
// ToJSON
// ============================================================

func TestToJSON_Compact(t *testing.T) {
	v := Mapping(
		E("type", Text("Vec<u8>")),
		E("n", Int(-3)),
		E("f", Float(0.5)),
		E("ok", Bool(true)),
		E("none", Null()),
		E("xs", Sequence(Int(1), Text("two"))),
		E("empty", Mapping()),
	)
	got, err := ToJSON(v, JSONOptions{})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"Vec<u8>","n":-3,"f":0.5,"ok":true,"none":null,"xs":[1,"two"],"empty":{}}`
	if string(got) != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestToJSON_Indent(t *testing.T) {
	v := Mapping(E("a", Sequence(Int(1), Int(2))), E("b", Sequence()))
	got, err := ToJSON(v, JSONOptions{Indent: "  "})
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": []\n}"
	if string(got) != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestToJSON_RejectsNaN(t *testing.T) {
	_, err := ToJSON(Float(math.NaN()), JSONOptions{})
	if !errors.Is(err, UnsupportedType) {
		t.Errorf("expected UnsupportedType, got %v", err)
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	input := `{"z":[1,2.5,"x",null,true],"a":{"nested":{"k":-1}}}`
	out, err := ToJSON(mustJSON(t, input), JSONOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != input {
		t.Errorf("got %s, want %s", out, input)
	}
}
