package tnetstring

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// maxYAMLNodes caps alias expansion when converting a YAML document.
const maxYAMLNodes = 1 << 20

// FromYAML converts the first document of a YAML stream into a Value.
// Mapping order is preserved, aliases are expanded and !!binary scalars
// become Bytes.  An empty document is Null.
func FromYAML(raw []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, decodeErr(ErrSourceSyntax, -1, "YAML parse error: "+err.Error())
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return Null{}, nil
		}
		root = root.Content[0]
	}
	if root.Kind == 0 {
		return Null{}, nil
	}
	c := &yamlConverter{}
	return c.value(root, 0)
}

type yamlConverter struct {
	nodes int
}

func (c *yamlConverter) value(n *yaml.Node, depth int) (Value, error) {
	c.nodes++
	if c.nodes > maxYAMLNodes {
		return nil, decodeErr(ErrDepthExceeded, -1, "YAML alias expansion too large")
	}

	switch n.Kind {

	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, decodeErr(ErrSourceSyntax, -1, "unresolved YAML alias")
		}
		return c.value(n.Alias, depth)

	case yaml.ScalarNode:
		return yamlScalar(n)

	case yaml.SequenceNode:
		if depth+1 > DefaultMaxDepth {
			return nil, decodeErr(ErrDepthExceeded, -1, "YAML nesting exceeds max depth")
		}
		out := make(List, 0, len(n.Content))
		for _, child := range n.Content {
			item, err := c.value(child, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil

	case yaml.MappingNode:
		if depth+1 > DefaultMaxDepth {
			return nil, decodeErr(ErrDepthExceeded, -1, "YAML nesting exceeds max depth")
		}
		m := &Map{}
		seen := make(map[string]struct{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, err := yamlKey(n.Content[i])
			if err != nil {
				return nil, err
			}
			if _, dup := seen[key]; dup {
				return nil, decodeErr(ErrDuplicateKey, -1, "duplicate YAML key "+strconv.Quote(key))
			}
			seen[key] = struct{}{}
			val, err := c.value(n.Content[i+1], depth+1)
			if err != nil {
				return nil, err
			}
			m.Keys = append(m.Keys, key)
			m.Values = append(m.Values, val)
		}
		return m, nil

	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null{}, nil
		}
		return c.value(n.Content[0], depth)
	}
	return nil, decodeErr(ErrUnsupportedType, -1, "unsupported YAML node kind")
}

func yamlKey(n *yaml.Node) (string, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode {
		return "", decodeErr(ErrNonStringKey, -1, "YAML mapping key must be a scalar")
	}
	if n.ShortTag() == "!!binary" {
		raw, err := decodeBinaryScalar(n.Value)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	return n.Value, nil
}

func yamlScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, decodeErr(ErrSourceSyntax, -1, "bad YAML bool: "+n.Value)
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return Int(i), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, decodeErr(ErrNumericParse, -1, "bad YAML int: "+n.Value)
		}
		return Float(f), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, decodeErr(ErrNumericParse, -1, "bad YAML float: "+n.Value)
		}
		return Float(f), nil
	case "!!binary":
		raw, err := decodeBinaryScalar(n.Value)
		if err != nil {
			return nil, err
		}
		return Bytes(raw), nil
	default:
		return Bytes(n.Value), nil
	}
}

func decodeBinaryScalar(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
	raw, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return nil, decodeErr(ErrSourceSyntax, -1, "bad !!binary scalar")
	}
	return raw, nil
}

// ToYAML renders v as a YAML document, keeping Map order.  Bytes that are
// not valid UTF-8 are written as !!binary.
func ToYAML(v Value) ([]byte, error) {
	n, err := yamlNode(v, 0)
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(n)
	if err != nil {
		return nil, encodeErr(ErrUnsupportedType, "YAML marshal: "+err.Error())
	}
	return out, nil
}

func yamlNode(v Value, depth int) (*yaml.Node, error) {
	switch val := v.(type) {

	case Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil

	case Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(bool(val))}, nil

	case Int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(val), 10)}, nil

	case Float:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(float64(val))}, nil

	case Bytes:
		return yamlBytes(val), nil

	case List:
		if depth+1 > DefaultMaxDepth {
			return nil, encodeErr(ErrDepthExceeded, "nesting exceeds max depth")
		}
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range val {
			child, err := yamlNode(item, depth+1)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil

	case *Map:
		if depth+1 > DefaultMaxDepth {
			return nil, encodeErr(ErrDepthExceeded, "nesting exceeds max depth")
		}
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for i := 0; i < val.Len(); i++ {
			child, err := yamlNode(val.Values[i], depth+1)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, yamlBytes(Bytes(val.Keys[i])), child)
		}
		return n, nil
	}
	return nil, encodeErr(ErrUnsupportedType, "unsupported value type")
}

func yamlBytes(b Bytes) *yaml.Node {
	if utf8.Valid(b) {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(b)}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!binary", Value: base64.StdEncoding.EncodeToString(b)}
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
	return formatFloat(f)
}
