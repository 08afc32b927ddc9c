package borsh

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"gopkg.in/yaml.v3"
)

// ============================================================
// YAML Bridge
// ============================================================
//
// YAML input is read through yaml.v3 node trees so mapping order survives.

// FromYAML parses one YAML document into a Value. An empty document is null.
func FromYAML(data []byte) (*Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Null(), nil
	}
	d := &yamlDecoder{budget: maxYAMLValues(len(data))}
	return d.node(doc.Content[0], 0)
}

const maxYAMLAliasDepth = 64

// maxYAMLValues bounds the values one document may expand to. Without
// aliases a document cannot produce more values than it has bytes, so the
// limit only bites on alias expansion.
func maxYAMLValues(size int) int {
	return 10000 + 16*size
}

type yamlDecoder struct {
	budget int
}

func (d *yamlDecoder) node(n *yaml.Node, aliasDepth int) (*Value, error) {
	if n.Kind != yaml.DocumentNode && n.Kind != yaml.AliasNode {
		d.budget--
		if d.budget < 0 {
			return nil, fmt.Errorf("line %d: document expands to too many values", n.Line)
		}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return d.node(n.Content[0], aliasDepth)

	case yaml.AliasNode:
		if aliasDepth >= maxYAMLAliasDepth || n.Alias == nil {
			return nil, fmt.Errorf("line %d: alias nesting too deep", n.Line)
		}
		return d.node(n.Alias, aliasDepth+1)

	case yaml.ScalarNode:
		return fromYAMLScalar(n)

	case yaml.SequenceNode:
		seq := Sequence()
		for i, c := range n.Content {
			elem, err := d.node(c, aliasDepth)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			seq.Append(elem)
		}
		return seq, nil

	case yaml.MappingNode:
		obj := Mapping()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			for keyNode.Kind == yaml.AliasNode && keyNode.Alias != nil {
				keyNode = keyNode.Alias
			}
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", keyNode.Line)
			}
			elem, err := d.node(n.Content[i+1], aliasDepth)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", keyNode.Value, err)
			}
			obj.Set(keyNode.Value, elem)
		}
		return obj, nil
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

func fromYAMLScalar(n *yaml.Node) (*Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case "!!int":
		if i, ok := new(big.Int).SetString(n.Value, 0); ok {
			return BigInt(i), nil
		}
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, fmt.Errorf("line %d: invalid integer %q", n.Line, n.Value)
		}
		return Int(i), nil
	case "!!float":
		// yaml.v3 resolves integers beyond 64 bits as floats; keep them exact.
		if n.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) == 0 && !strings.ContainsAny(n.Value, ".eE") {
			if i, ok := new(big.Int).SetString(n.Value, 10); ok {
				return BigInt(i), nil
			}
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: invalid float %q", n.Line, n.Value)
		}
		return Float(f), nil
	default:
		return Text(n.Value), nil
	}
}

// ToYAML renders a Value as a YAML document, keeping mapping order.
func ToYAML(v *Value) ([]byte, error) {
	node := toYAMLNode(v)
	out, err := yaml.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("YAML encode error: %w", err)
	}
	return out, nil
}

func toYAMLNode(v *Value) *yaml.Node {
	switch v.Kind() {
	case KindBool:
		s := "false"
		if v.boolVal {
			s = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: s}
	case KindNumber:
		n := v.numVal
		if n.IsInt() {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: n.String()}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(n.f)}
	case KindText:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.textVal}
	case KindSequence:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range v.seqVal {
			node.Content = append(node.Content, toYAMLNode(elem))
		}
		return node
	case KindMapping:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for el := v.mapVal.Front(); el != nil; el = el.Next() {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: el.Key},
				toYAMLNode(el.Value))
		}
		return node
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := formatFloat(f)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
