package borsh

import (
	"testing"

	"github.com/opencontainers/go-digest"
)

func TestDigest(t *testing.T) {
	d, err := Digest(firstSchema())
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("invalid digest %q: %v", d, err)
	}
	if d.Algorithm() != digest.SHA256 {
		t.Errorf("algorithm = %s", d.Algorithm())
	}

	encoded, _ := EncodeSchema(firstSchema())
	if want := digest.FromBytes(encoded); d != want {
		t.Errorf("digest = %s, want %s", d, want)
	}

	other, _ := Digest(pairSchema())
	if other == d {
		t.Error("different schemas share a digest")
	}
}

func TestHeaderDigest(t *testing.T) {
	blob, err := EncodeWithHeader(mustJSON(t, firstJSON), firstSchema(), EncodeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	hd, err := HeaderDigest(blob)
	if err != nil {
		t.Fatal(err)
	}
	sd, _ := Digest(firstSchema())
	if hd != sd {
		t.Errorf("header digest %s != schema digest %s", hd, sd)
	}

	if _, err := HeaderDigest([]byte{1}); KindOf(err) != NoSchemaPresent {
		t.Errorf("expected NoSchemaPresent, got %v", err)
	}
}
