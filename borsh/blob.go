package borsh

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// ============================================================
// Byte-blob packing
// ============================================================
//
// Pack wraps arbitrary bytes as a Vec<u8>: u32 length + raw bytes,
// optionally preceded by the Vec<u8> schema header.

// ByteSequenceType is the declaration name used for packed byte blobs.
const ByteSequenceType = "Vec<u8>"

// ByteSequenceSchema returns the schema describing a packed byte blob.
func ByteSequenceSchema() *Schema {
	return NewSchema(ByteSequenceType).Declare(ByteSequenceType, SequenceDecl("u8"))
}

// PackOptions configures PackBytes and UnpackBytes.
type PackOptions struct {
	NoSchema bool // omit (or do not expect) the schema header
	Compress bool // zstd-compress the bytes inside the frame
}

// PackBytes frames data as a Vec<u8>.
func PackBytes(data []byte, opts PackOptions) ([]byte, error) {
	if opts.Compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
	}

	w := &writer{}
	if err := w.length(len(data), nil); err != nil {
		return nil, err
	}
	w.buf.Write(data)
	if opts.NoSchema {
		return w.bytes(), nil
	}

	header, err := EncodeSchema(ByteSequenceSchema())
	if err != nil {
		return nil, err
	}
	return Wrap(header, w.bytes()), nil
}

// UnpackBytes reverses PackBytes.
func UnpackBytes(blob []byte, opts PackOptions) ([]byte, error) {
	payload := blob
	if !opts.NoSchema {
		_, header, rest, err := Split(blob)
		if err != nil {
			return nil, err
		}
		want, err := EncodeSchema(ByteSequenceSchema())
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(header, want) {
			return nil, newError(TypeMismatch, "", 0, "schema header does not describe %s", ByteSequenceType)
		}
		payload = rest
	}

	c := &cursor{data: payload}
	n, ok := c.u32()
	if !ok {
		return nil, eof(c, 0, nil, 4, "blob length")
	}
	data, ok := c.take(int(n))
	if !ok {
		return nil, newError(UnexpectedEOF, "$", 4, "blob declares %d bytes, %d remain", n, c.remaining())
	}
	if c.remaining() > 0 {
		return nil, newError(TrailingBytes, "", c.pos, "%d bytes after blob", c.remaining())
	}

	if opts.Compress {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decode: %w", err)
		}
		return out, nil
	}
	return append([]byte(nil), data...), nil
}
