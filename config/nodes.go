package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// blockList decodes a mapping of block identifiers in document order.
type blockList []Block

func (l *blockList) UnmarshalYAML(value *yaml.Node) error {
	return eachEntry(value, func(key string, n *yaml.Node) error {
		var body struct {
			Properties  propertyList `yaml:"properties"`
			Behaviors   behaviorList `yaml:"behaviors"`
			Appearances []Appearance `yaml:"appearances"`
		}
		if err := n.Decode(&body); err != nil {
			return fmt.Errorf("block %s: %w", key, err)
		}
		*l = append(*l, Block{
			Key:         key,
			Properties:  body.Properties,
			Behaviors:   body.Behaviors,
			Appearances: body.Appearances,
		})
		return nil
	})
}

// itemList decodes a mapping of item identifiers in document order.
type itemList []Item

func (l *itemList) UnmarshalYAML(value *yaml.Node) error {
	return eachEntry(value, func(key string, n *yaml.Node) error {
		var body struct {
			Behaviors behaviorList `yaml:"behaviors"`
		}
		if err := n.Decode(&body); err != nil {
			return fmt.Errorf("item %s: %w", key, err)
		}
		*l = append(*l, Item{Key: key, Behaviors: body.Behaviors})
		return nil
	})
}

// propertyList decodes a mapping of property names in document order.
type propertyList []Property

func (l *propertyList) UnmarshalYAML(value *yaml.Node) error {
	return eachEntry(value, func(key string, n *yaml.Node) error {
		var p Property
		if err := n.Decode(&p); err != nil {
			return fmt.Errorf("property %s: %w", key, err)
		}
		p.Name = key
		*l = append(*l, p)
		return nil
	})
}

// behaviorList decodes either a single behavior mapping or a list of them.
// A behavior is written either with a "type" key next to its arguments, or as
// a single key naming the type whose value holds the arguments.
type behaviorList []Behavior

func (l *behaviorList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		for _, n := range value.Content {
			b, err := decodeBehavior(n)
			if err != nil {
				return err
			}
			*l = append(*l, b)
		}
		return nil
	case yaml.MappingNode:
		b, err := decodeBehavior(value)
		if err != nil {
			return err
		}
		*l = append(*l, b)
		return nil
	default:
		if isNull(value) {
			return nil
		}
		return fmt.Errorf("line %d: behaviors must be a mapping or a list", value.Line)
	}
}

func decodeBehavior(n *yaml.Node) (Behavior, error) {
	var m map[string]any
	if err := n.Decode(&m); err != nil {
		return Behavior{}, err
	}
	if t, ok := m["type"]; ok {
		s, ok := t.(string)
		if !ok || s == "" {
			return Behavior{}, fmt.Errorf("line %d: behavior type must be a string", n.Line)
		}
		delete(m, "type")
		return Behavior{Type: s, Args: m}, nil
	}
	if len(m) == 1 {
		for t, raw := range m {
			args, ok := raw.(map[string]any)
			if !ok && raw != nil {
				break
			}
			if args == nil {
				args = map[string]any{}
			}
			return Behavior{Type: t, Args: args}, nil
		}
	}
	return Behavior{}, fmt.Errorf("line %d: behavior without a type", n.Line)
}

// eachEntry calls fn for every key of a mapping node in document order.
func eachEntry(value *yaml.Node, fn func(key string, n *yaml.Node) error) error {
	if isNull(value) {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		if err := fn(value.Content[i].Value, value.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}
