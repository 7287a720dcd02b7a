package model

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML document into a Value, keeping mapping order.
// Timestamps become Date when they carry no clock part and DateTime
// otherwise, so YAML is the input format that exercises the temporal kinds.
func ParseYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, fmt.Errorf("model: parse yaml: %w", err)
	}
	if doc.Kind == 0 {
		return Null(), nil
	}
	v, err := yamlNodeValue(&doc)
	if err != nil {
		return Value{}, fmt.Errorf("model: parse yaml: %w", err)
	}
	return v, nil
}

func yamlNodeValue(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return yamlNodeValue(node.Content[0])
	case yaml.AliasNode:
		if node.Alias == nil {
			return Null(), nil
		}
		return yamlNodeValue(node.Alias)
	case yaml.SequenceNode:
		arr := Array()
		for _, child := range node.Content {
			item, err := yamlNodeValue(child)
			if err != nil {
				return Value{}, err
			}
			arr.Append(item)
		}
		return arr, nil
	case yaml.MappingNode:
		obj := Object()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}
			member, err := yamlNodeValue(node.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			obj.Set(key.Value, member)
		}
		return obj, nil
	case yaml.ScalarNode:
		return yamlScalar(node)
	default:
		return Value{}, errors.New("unsupported yaml node")
	}
}

func yamlScalar(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return Value{}, err
		}
		return Int(i), nil
	case "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			var decoded float64
			if err := node.Decode(&decoded); err != nil {
				return Value{}, err
			}
			f = decoded
		}
		return Float(f), nil
	case "!!timestamp":
		var t time.Time
		if err := node.Decode(&t); err != nil {
			return Value{}, err
		}
		if len(node.Value) == len(DateLayout) {
			return Date(t), nil
		}
		return DateTime(t), nil
	default:
		return String(node.Value), nil
	}
}
