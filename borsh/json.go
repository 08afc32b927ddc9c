package borsh

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

// ============================================================
// JSON Bridge
// ============================================================
//
// Converts between JSON text and Value. Object member order is preserved,
// which the schema-less encoder depends on.

// JSONOptions configures JSON output.
type JSONOptions struct {
	// Indent, when non-empty, pretty-prints with this indent per level.
	Indent string
}

// FromJSON parses one JSON document into a Value.
func FromJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readJSONValue(dec, 0)
	if err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}
	return v, nil
}

func readJSONValue(dec *json.Decoder, depth int) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return jsonTokenValue(dec, tok, depth)
}

func jsonTokenValue(dec *json.Decoder, tok json.Token, depth int) (*Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		n, err := ParseNumber(t.String())
		if err != nil {
			return nil, err
		}
		return Num(n), nil
	case string:
		return Text(t), nil
	case json.Delim:
		if depth > MaxDepth {
			return nil, fmt.Errorf("nesting deeper than %d levels", MaxDepth)
		}
		switch t {
		case '[':
			seq := Sequence()
			for dec.More() {
				elem, err := readJSONValue(dec, depth+1)
				if err != nil {
					return nil, fmt.Errorf("array[%d]: %w", seq.Len(), err)
				}
				seq.Append(elem)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return seq, nil
		case '{':
			obj := Mapping()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, not string", keyTok)
				}
				elem, err := readJSONValue(dec, depth+1)
				if err != nil {
					return nil, fmt.Errorf("object[%q]: %w", key, err)
				}
				obj.Set(key, elem)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		}
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

// ToJSON renders a Value as JSON, keeping mapping order.
func ToJSON(v *Value, opts JSONOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v, opts.Indent, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v *Value, indent string, depth int) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.boolVal {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		n := v.numVal
		if !n.IsInt() && (math.IsNaN(n.f) || math.IsInf(n.f, 0)) {
			return &Error{Kind: UnsupportedType, Offset: -1, Msg: "NaN/Infinity not allowed in JSON"}
		}
		buf.WriteString(n.String())
	case KindText:
		if err := writeJSONString(buf, v.textVal); err != nil {
			return err
		}
	case KindSequence:
		if len(v.seqVal) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		for i, elem := range v.seqVal {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, indent, depth+1)
			if err := writeJSON(buf, elem, indent, depth+1); err != nil {
				return err
			}
		}
		newline(buf, indent, depth)
		buf.WriteByte(']')
	case KindMapping:
		if v.mapVal.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		i := 0
		for el := v.mapVal.Front(); el != nil; el = el.Next() {
			if i > 0 {
				buf.WriteByte(',')
			}
			i++
			newline(buf, indent, depth+1)
			if err := writeJSONString(buf, el.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if indent != "" {
				buf.WriteByte(' ')
			}
			if err := writeJSON(buf, el.Value, indent, depth+1); err != nil {
				return err
			}
		}
		newline(buf, indent, depth)
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported value kind: %s", v.Kind())
	}
	return nil
}

func newline(buf *bytes.Buffer, indent string, depth int) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(indent, depth))
}

// writeJSONString quotes s without HTML escaping, so type names such as
// Vec<u8> stay readable.
func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
