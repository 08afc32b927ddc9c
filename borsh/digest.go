package borsh

import (
	_ "crypto/sha256" // registers the canonical digest algorithm

	"github.com/opencontainers/go-digest"
)

// Digest returns the content digest of the schema's canonical encoding.
// Two schemas with the same declarations and root share a digest
// regardless of the order their declarations were decoded in.
func Digest(s *Schema) (digest.Digest, error) {
	b, err := EncodeSchema(s)
	if err != nil {
		return "", err
	}
	return digest.FromBytes(b), nil
}

// HeaderDigest returns the digest of a blob's schema header as it appears on
// the wire.
func HeaderDigest(blob []byte) (digest.Digest, error) {
	header, err := Extract(blob)
	if err != nil {
		return "", err
	}
	return digest.FromBytes(header), nil
}
