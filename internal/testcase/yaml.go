package testcase

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/usestring/schemainfer/pkg/jsonvalue"
)

// parseYAML decodes a single YAML document into a JSON value, keeping mapping
// order and the integer/float distinction of scalars.
func parseYAML(data []byte) (jsonvalue.Value, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return jsonvalue.Value{}, errors.New("empty YAML document")
		}
		return jsonvalue.Value{}, err
	}
	return yamlToValue(&doc)
}

func yamlToValue(n *yaml.Node) (jsonvalue.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return jsonvalue.Null(), nil
		}
		return yamlToValue(n.Content[0])

	case yaml.AliasNode:
		return yamlToValue(n.Alias)

	case yaml.SequenceNode:
		items := make([]jsonvalue.Value, 0, len(n.Content))
		for _, child := range n.Content {
			v, err := yamlToValue(child)
			if err != nil {
				return jsonvalue.Value{}, err
			}
			items = append(items, v)
		}
		return jsonvalue.Array(items...), nil

	case yaml.MappingNode:
		members := make([]jsonvalue.Member, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return jsonvalue.Value{}, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}
			v, err := yamlToValue(val)
			if err != nil {
				return jsonvalue.Value{}, err
			}
			members = append(members, jsonvalue.Member{Key: key.Value, Value: v})
		}
		return jsonvalue.Object(members...), nil

	case yaml.ScalarNode:
		return yamlScalar(n)

	default:
		return jsonvalue.Value{}, fmt.Errorf("line %d: unsupported YAML node", n.Line)
	}
}

func yamlScalar(n *yaml.Node) (jsonvalue.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return jsonvalue.Null(), nil

	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return jsonvalue.Value{}, err
		}
		return jsonvalue.Bool(b), nil

	case "!!int":
		// JSON-compatible literals keep their exact text.
		if v, err := jsonvalue.ParseString(n.Value); err == nil && v.Kind() == jsonvalue.KindInteger {
			return v, nil
		}
		var i int64
		if err := n.Decode(&i); err != nil {
			return jsonvalue.Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return jsonvalue.Int(i), nil

	case "!!float":
		if v, err := jsonvalue.ParseString(n.Value); err == nil && v.Kind().IsNumeric() {
			return v, nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return jsonvalue.Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		v, err := jsonvalue.FromAny(f)
		if err != nil {
			return jsonvalue.Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil

	default:
		return jsonvalue.String(n.Value), nil
	}
}
