package borsh

// ============================================================
// Header Framing
// ============================================================
//
// A blob is an optional encoded schema immediately followed by the
// payload. The schema encoding is self-terminating, so no outer length or
// delimiter is needed.

// Wrap concatenates schema bytes (possibly empty) and payload bytes.
func Wrap(schemaBytes, payload []byte) []byte {
	blob := make([]byte, 0, len(schemaBytes)+len(payload))
	blob = append(blob, schemaBytes...)
	return append(blob, payload...)
}

// Split parses the schema header at the start of blob and returns it along
// with the exact header bytes and the payload that follows.
func Split(blob []byte) (*Schema, []byte, []byte, error) {
	s, n, err := DecodeSchema(blob)
	if err != nil {
		return nil, nil, nil, &Error{Kind: NoSchemaPresent, Offset: 0, Msg: "input does not start with a valid schema", Err: err}
	}
	return s, blob[:n:n], blob[n:], nil
}

// Extract returns the schema header bytes of blob.
func Extract(blob []byte) ([]byte, error) {
	_, header, _, err := Split(blob)
	if err != nil {
		return nil, err
	}
	return header, nil
}

// Strip returns the payload of blob. Input without a valid schema header is
// returned unchanged.
func Strip(blob []byte) []byte {
	_, _, payload, err := Split(blob)
	if err != nil {
		return blob
	}
	return payload
}

// EncodeWithHeader encodes v against s and prefixes the encoded schema.
func EncodeWithHeader(v *Value, s *Schema, opts EncodeOptions) ([]byte, error) {
	header, err := EncodeSchema(s)
	if err != nil {
		return nil, err
	}
	payload, err := EncodeWithOptions(v, s, opts)
	if err != nil {
		return nil, err
	}
	return Wrap(header, payload), nil
}

// DecodeWithHeader decodes a blob carrying its own schema header.
func DecodeWithHeader(blob []byte, opts DecodeOptions) (*Value, *Schema, error) {
	s, _, payload, err := Split(blob)
	if err != nil {
		return nil, nil, err
	}
	v, err := DecodeWithOptions(payload, s, opts)
	if err != nil {
		return nil, nil, err
	}
	return v, s, nil
}
