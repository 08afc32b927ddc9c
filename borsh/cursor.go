package borsh

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/big"
	"unicode/utf8"
)

// ============================================================
// Writer
// ============================================================

// writer appends little-endian primitives to a buffer.
type writer struct {
	buf bytes.Buffer
	tmp [16]byte
}

func (w *writer) u8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *writer) u16(v uint16) {
	binary.LittleEndian.PutUint16(w.tmp[:2], v)
	w.buf.Write(w.tmp[:2])
}

func (w *writer) u32(v uint32) {
	binary.LittleEndian.PutUint32(w.tmp[:4], v)
	w.buf.Write(w.tmp[:4])
}

func (w *writer) u64(v uint64) {
	binary.LittleEndian.PutUint64(w.tmp[:8], v)
	w.buf.Write(w.tmp[:8])
}

func (w *writer) f32(v float32) {
	w.u32(math.Float32bits(v))
}

func (w *writer) f64(v float64) {
	w.u64(math.Float64bits(v))
}

func (w *writer) boolean(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

// length writes a u32 count, failing when n does not fit.
func (w *writer) length(n int, path *valuePath) error {
	if uint64(n) > math.MaxUint32 {
		return newError(NumericOverflow, path.String(), -1, "length %d exceeds u32", n)
	}
	w.u32(uint32(n))
	return nil
}

func (w *writer) str(s string, path *valuePath) error {
	if err := w.length(len(s), path); err != nil {
		return err
	}
	w.buf.WriteString(s)
	return nil
}

// integer writes i as a two's-complement little-endian value of bits width.
// The caller has range-checked i.
func (w *writer) integer(i *big.Int, bits uint) {
	size := int(bits / 8)
	if size <= 8 {
		var u uint64
		if i.Sign() < 0 {
			u = uint64(i.Int64())
		} else {
			u = i.Uint64()
		}
		binary.LittleEndian.PutUint64(w.tmp[:8], u)
		w.buf.Write(w.tmp[:size])
		return
	}
	u := new(big.Int).Set(i)
	if u.Sign() < 0 {
		u.Add(u, new(big.Int).Lsh(bigOne, bits))
	}
	be := u.FillBytes(make([]byte, size))
	for l, r := 0, len(be)-1; l < r; l, r = l+1, r-1 {
		be[l], be[r] = be[r], be[l]
	}
	w.buf.Write(be)
}

func (w *writer) bytes() []byte {
	return w.buf.Bytes()
}

// ============================================================
// Cursor
// ============================================================

// cursor reads primitives from a buffer, forward only.
type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}

// take returns the next n bytes, or false if fewer remain.
func (c *cursor) take(n int) ([]byte, bool) {
	if n < 0 || n > c.remaining() {
		return nil, false
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, true
}

func (c *cursor) u8() (uint8, bool) {
	b, ok := c.take(1)
	if !ok {
		return 0, false
	}
	return b[0], true
}

func (c *cursor) u32() (uint32, bool) {
	b, ok := c.take(4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

// integer reads a two's-complement little-endian integer of bits width.
func (c *cursor) integer(bits uint, signed bool) (*big.Int, bool) {
	size := int(bits / 8)
	b, ok := c.take(size)
	if !ok {
		return nil, false
	}
	if size <= 8 {
		var tmp [8]byte
		copy(tmp[:], b)
		u := binary.LittleEndian.Uint64(tmp[:])
		if signed {
			shift := 64 - bits
			return big.NewInt(int64(u<<shift) >> shift), true
		}
		return new(big.Int).SetUint64(u), true
	}
	be := make([]byte, size)
	for i := range b {
		be[size-1-i] = b[i]
	}
	i := new(big.Int).SetBytes(be)
	if signed && be[0]&0x80 != 0 {
		i.Sub(i, new(big.Int).Lsh(bigOne, bits))
	}
	return i, true
}

// str reads a u32-prefixed string. The bool result reports whether enough
// bytes were present; UTF-8 validity is reported separately.
func (c *cursor) str() (s string, ok bool, validUTF8 bool) {
	n, ok := c.u32()
	if !ok {
		return "", false, false
	}
	b, ok := c.take(int(n))
	if !ok {
		return "", false, false
	}
	return string(b), true, utf8.Valid(b)
}
