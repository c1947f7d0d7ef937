// Package yamlvalue converts query string values to and from YAML nodes.
// Working on yaml.Node rather than Go maps keeps the entry order intact in
// both directions. JSON documents are valid YAML and decode the same way.
package yamlvalue

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/tomasbasham/qs"
)

// Marshal renders m as a YAML document.
func Marshal(m *qs.Map) ([]byte, error) {
	return yaml.Marshal(Node(m))
}

// Unmarshal decodes a YAML or JSON document whose root is a mapping.
func Unmarshal(data []byte) (*qs.Map, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yamlvalue: %w", err)
	}
	if doc.Kind == 0 {
		return &qs.Map{}, nil
	}

	v, err := FromNode(&doc)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*qs.Map)
	if !ok {
		return nil, fmt.Errorf("yamlvalue: document root must be a mapping")
	}
	return m, nil
}

// Node returns the YAML node tree for v. Index keys are tagged !!int and
// every scalar is tagged !!str, so numbers that arrived as text stay text.
func Node(v qs.Value) *yaml.Node {
	switch v := v.(type) {
	case *qs.Map:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		v.Range(func(k qs.Key, val qs.Value) bool {
			n.Content = append(n.Content, keyNode(k), Node(val))
			return true
		})
		return n
	case qs.List:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range v {
			n.Content = append(n.Content, Node(elem))
		}
		return n
	case qs.Scalar:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(v)}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func keyNode(k qs.Key) *yaml.Node {
	if k.IsIndex() {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: k.String()}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k.String()}
}

// FromNode converts a YAML node tree into a value. Integer mapping keys
// become index keys, null scalars become empty strings and every other
// scalar keeps its source text.
func FromNode(n *yaml.Node) (qs.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return &qs.Map{}, nil
		}
		return FromNode(n.Content[0])
	case yaml.AliasNode:
		return FromNode(n.Alias)
	case yaml.MappingNode:
		m := &qs.Map{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, err := fromKeyNode(n.Content[i])
			if err != nil {
				return nil, err
			}
			v, err := FromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil
	case yaml.SequenceNode:
		l := make(qs.List, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := FromNode(c)
			if err != nil {
				return nil, err
			}
			l = append(l, v)
		}
		return l, nil
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return qs.Scalar(""), nil
		}
		return qs.Scalar(n.Value), nil
	default:
		return nil, fmt.Errorf("yamlvalue: unsupported node kind %d at line %d", n.Kind, n.Line)
	}
}

func fromKeyNode(n *yaml.Node) (qs.Key, error) {
	if n.Kind != yaml.ScalarNode {
		return qs.Key{}, fmt.Errorf("yamlvalue: mapping key at line %d is not a scalar", n.Line)
	}
	if n.ShortTag() == "!!int" {
		if i, err := strconv.ParseInt(n.Value, 0, 0); err == nil {
			return qs.Index(int(i)), nil
		}
	}
	return qs.Name(n.Value), nil
}
