package transform

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agenthands/jsonstudio/internal/core/value"
)

const yamlIndent = 2

// ToYAML renders v as a YAML document with two-space indentation. Key order
// is kept and repeated structures are written out in full.
func ToYAML(v value.Value) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)

	if err := enc.Encode(toNode(v)); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.String(), nil
}

func toNode(v value.Value) *yaml.Node {
	switch x := v.(type) {
	case value.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(bool(x))}
	case value.Number:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: string(x)}
	case value.String:
		return stringNode(string(x))
	case value.Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range x {
			n.Content = append(n.Content, toNode(item))
		}
		return n
	case *value.Object:
		if x == nil {
			break
		}
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		x.Each(func(k string, item value.Value) bool {
			n.Content = append(n.Content, stringNode(k), toNode(item))
			return true
		})
		return n
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

// stringNode tags s as a string so the encoder quotes values such as "true"
// or "123" that would otherwise read back as another type.
func stringNode(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if strings.Contains(s, "\n") {
		n.Style = yaml.LiteralStyle
	}
	return n
}
