package borsh

import (
	"math"
)

// ============================================================
// Schema-less Encoder
// ============================================================
//
// Without a schema the encoding is inferred from the value's shape:
//
//	bool      1 byte
//	integral  i64 (when it fits), otherwise f64
//	text      u32 length + UTF-8
//	sequence  u32 count + elements
//	mapping   member values in insertion order, names dropped
//
// Null has no context-free representation and is rejected. There is no
// matching decoder: names and types cannot be recovered from the bytes.

// EncodeSchemaless encodes v by structural inference.
func EncodeSchemaless(v *Value) ([]byte, error) {
	w := &writer{}
	if err := encodeInferred(w, v, nil); err != nil {
		return nil, err
	}
	return w.bytes(), nil
}

func encodeInferred(w *writer, v *Value, path *valuePath) error {
	if path.level() > MaxDepth {
		return depthError(path, -1)
	}
	switch v.Kind() {
	case KindNull:
		return newError(UnsupportedType, path.String(), -1, "null cannot be encoded without a schema")

	case KindBool:
		w.boolean(v.boolVal)
		return nil

	case KindNumber:
		if i, ok := inferInt64(v.numVal); ok {
			w.u64(uint64(i))
			return nil
		}
		w.f64(v.numVal.Float64())
		return nil

	case KindText:
		return w.str(v.textVal, path)

	case KindSequence:
		if err := w.length(len(v.seqVal), path); err != nil {
			return err
		}
		for i, item := range v.seqVal {
			if err := encodeInferred(w, item, path.at(i)); err != nil {
				return err
			}
		}
		return nil

	case KindMapping:
		for el := v.mapVal.Front(); el != nil; el = el.Next() {
			if err := encodeInferred(w, el.Value, path.field(el.Key)); err != nil {
				return err
			}
		}
		return nil
	}
	return newError(UnsupportedType, path.String(), -1, "unsupported value kind %s", v.Kind())
}

// inferInt64 returns the value as an int64 when it has no fractional part
// and fits the signed 64-bit range.
func inferInt64(n Number) (int64, bool) {
	if n.IsInt() {
		if n.i.IsInt64() {
			return n.i.Int64(), true
		}
		return 0, false
	}
	f := n.f
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// 2^63 itself is not representable as int64.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
