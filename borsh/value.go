package borsh

import (
	"fmt"
	"math/big"

	"github.com/elliotchance/orderedmap/v3"
)

// Kind represents the dynamic type of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindText
	KindSequence
	KindMapping
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is a JSON-like dynamic value. Mappings keep insertion order.
type Value struct {
	kind Kind

	boolVal bool
	numVal  Number
	textVal string
	seqVal  []*Value
	mapVal  *orderedmap.OrderedMap[string, *Value]
}

// Entry is a name/value pair used to build mappings.
type Entry struct {
	Key   string
	Value *Value
}

// ============================================================
// Constructors
// ============================================================

// Null creates a null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{kind: KindBool, boolVal: v}
}

// Int creates an exact integer value.
func Int(v int64) *Value {
	return &Value{kind: KindNumber, numVal: IntNumber(big.NewInt(v))}
}

// Uint creates an exact unsigned integer value.
func Uint(v uint64) *Value {
	return &Value{kind: KindNumber, numVal: IntNumber(new(big.Int).SetUint64(v))}
}

// BigInt creates an exact integer value of any magnitude.
func BigInt(v *big.Int) *Value {
	return &Value{kind: KindNumber, numVal: IntNumber(v)}
}

// Float creates a floating-point value.
func Float(v float64) *Value {
	return &Value{kind: KindNumber, numVal: FloatNumber(v)}
}

// Num creates a number value.
func Num(n Number) *Value {
	return &Value{kind: KindNumber, numVal: n}
}

// Text creates a string value.
func Text(v string) *Value {
	return &Value{kind: KindText, textVal: v}
}

// Sequence creates an ordered list value.
func Sequence(values ...*Value) *Value {
	if values == nil {
		values = []*Value{}
	}
	return &Value{kind: KindSequence, seqVal: values}
}

// Mapping creates a mapping value. Later duplicates replace earlier values
// but keep the first position.
func Mapping(entries ...Entry) *Value {
	m := orderedmap.NewOrderedMap[string, *Value]()
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return &Value{kind: KindMapping, mapVal: m}
}

// E builds an Entry.
func E(key string, value *Value) Entry {
	return Entry{Key: key, Value: value}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind. A nil *Value is null.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull returns true for null or nil values.
func (v *Value) IsNull() bool {
	return v == nil || v.kind == KindNull
}

// AsBool returns the boolean value.
func (v *Value) AsBool() (bool, error) {
	if v.Kind() != KindBool {
		return false, fmt.Errorf("borsh: expected bool, got %s", v.Kind())
	}
	return v.boolVal, nil
}

// AsNumber returns the number value.
func (v *Value) AsNumber() (Number, error) {
	if v.Kind() != KindNumber {
		return Number{}, fmt.Errorf("borsh: expected number, got %s", v.Kind())
	}
	return v.numVal, nil
}

// AsText returns the string value.
func (v *Value) AsText() (string, error) {
	if v.Kind() != KindText {
		return "", fmt.Errorf("borsh: expected text, got %s", v.Kind())
	}
	return v.textVal, nil
}

// AsSequence returns the sequence elements.
func (v *Value) AsSequence() ([]*Value, error) {
	if v.Kind() != KindSequence {
		return nil, fmt.Errorf("borsh: expected sequence, got %s", v.Kind())
	}
	return v.seqVal, nil
}

// Entries returns the mapping entries in insertion order.
func (v *Value) Entries() []Entry {
	if v.Kind() != KindMapping {
		return nil
	}
	out := make([]Entry, 0, v.mapVal.Len())
	for el := v.mapVal.Front(); el != nil; el = el.Next() {
		out = append(out, Entry{Key: el.Key, Value: el.Value})
	}
	return out
}

// Keys returns the mapping keys in insertion order.
func (v *Value) Keys() []string {
	if v.Kind() != KindMapping {
		return nil
	}
	keys := make([]string, 0, v.mapVal.Len())
	for el := v.mapVal.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Key)
	}
	return keys
}

// Get returns a mapping member by name.
func (v *Value) Get(key string) (*Value, bool) {
	if v.Kind() != KindMapping {
		return nil, false
	}
	return v.mapVal.Get(key)
}

// Len returns the length of a sequence or mapping, 0 otherwise.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindSequence:
		return len(v.seqVal)
	case KindMapping:
		return v.mapVal.Len()
	default:
		return 0
	}
}

// ============================================================
// Mutators
// ============================================================

// Set sets a mapping member, appending new names at the end.
func (v *Value) Set(key string, val *Value) {
	if v.Kind() != KindMapping {
		panic("borsh: cannot set on non-mapping")
	}
	v.mapVal.Set(key, val)
}

// Append adds a value to a sequence.
func (v *Value) Append(val *Value) {
	if v.Kind() != KindSequence {
		panic("borsh: cannot append to non-sequence")
	}
	v.seqVal = append(v.seqVal, val)
}

// ============================================================
// Structural equality
// ============================================================

// Equal reports whether a and b are structurally equal. Numbers compare by
// value, so 7 equals 7.0. Mappings compare as name sets regardless of order.
func Equal(a, b *Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindNull:
		return true
	case KindBool:
		return a.boolVal == b.boolVal
	case KindNumber:
		return a.numVal.Equal(b.numVal)
	case KindText:
		return a.textVal == b.textVal
	case KindSequence:
		if len(a.seqVal) != len(b.seqVal) {
			return false
		}
		for i := range a.seqVal {
			if !Equal(a.seqVal[i], b.seqVal[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if a.mapVal.Len() != b.mapVal.Len() {
			return false
		}
		for el := a.mapVal.Front(); el != nil; el = el.Next() {
			other, ok := b.mapVal.Get(el.Key)
			if !ok || !Equal(el.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the value as compact JSON. Values JSON cannot express
// (NaN, infinities) render as a placeholder naming the error.
func (v *Value) String() string {
	b, err := ToJSON(v, JSONOptions{})
	if err != nil {
		return fmt.Sprintf("<%s %v>", v.Kind(), err)
	}
	return string(b)
}
