package borsh

import (
	"bytes"
	"errors"
	"testing"
)

func TestPackBytes_Layout(t *testing.T) {
	got, err := PackBytes([]byte("hi"), PackOptions{NoSchema: true})
	if err != nil {
		t.Fatal(err)
	}
	if want := unhex(t, "02000000 6869"); !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}

	withHeader, err := PackBytes([]byte("hi"), PackOptions{})
	if err != nil {
		t.Fatal(err)
	}
	header, err := Extract(withHeader)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := EncodeSchema(ByteSequenceSchema())
	if !bytes.Equal(header, want) {
		t.Errorf("header = %x, want %x", header, want)
	}
}

func TestPackBytes_DecodesAsByteSequence(t *testing.T) {
	blob, err := PackBytes([]byte{0, 1, 255}, PackOptions{})
	if err != nil {
		t.Fatal(err)
	}
	v, _, err := DecodeWithHeader(blob, DecodeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(v, mustJSON(t, `[0,1,255]`)) {
		t.Errorf("got %s", v)
	}
}

func TestPackUnpack_RoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("borsh "), 200)

	for _, opts := range []PackOptions{
		{},
		{NoSchema: true},
		{Compress: true},
		{NoSchema: true, Compress: true},
	} {
		blob, err := PackBytes(data, opts)
		if err != nil {
			t.Fatalf("%+v: pack: %v", opts, err)
		}
		got, err := UnpackBytes(blob, opts)
		if err != nil {
			t.Fatalf("%+v: unpack: %v", opts, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("%+v: round trip changed data", opts)
		}
		if opts.Compress && len(blob) >= len(data) {
			t.Errorf("%+v: compressed blob is %d bytes for %d input", opts, len(blob), len(data))
		}
	}
}

func TestUnpackBytes_Errors(t *testing.T) {
	other, err := EncodeWithHeader(Text("x"), NewSchema("string"), EncodeOptions{})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		blob []byte
		opts PackOptions
		kind ErrorKind
	}{
		{"no header", unhex(t, "02000000 6869"), PackOptions{}, NoSchemaPresent},
		{"wrong schema", other, PackOptions{}, TypeMismatch},
		{"truncated length", unhex(t, "0200"), PackOptions{NoSchema: true}, UnexpectedEOF},
		{"truncated body", unhex(t, "05000000 6869"), PackOptions{NoSchema: true}, UnexpectedEOF},
		{"trailing", unhex(t, "01000000 68 69"), PackOptions{NoSchema: true}, TrailingBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnpackBytes(tt.blob, tt.opts)
			if !errors.Is(err, tt.kind) {
				t.Errorf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}
