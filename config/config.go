// Package config loads custom block and item types from YAML documents.
//
//	blocks:
//	  example:redstone_dial:
//	    properties:
//	      power: {type: int, range: 0~15, default: 0}
//	    behaviors:
//	      - type: adjustable_redstone_block
//	items:
//	  example:redstone_dial:
//	    behaviors:
//	      - type: block_item
//	        block: example:redstone_dial
//
// Property declaration order is preserved and fixes the numeric state ids of
// a block. Behavior types default to the "cblock" namespace, block and item
// identifiers to "minecraft".
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/oriumgames/cblock"
	"gopkg.in/yaml.v3"
)

// File is a parsed configuration document. Its entries are still textual;
// Specs resolves them into registry specs.
type File struct {
	Blocks []Block
	Items  []Item
}

// Block is the configuration of one custom block type.
type Block struct {
	Key         string
	Properties  []Property
	Behaviors   []Behavior
	Appearances []Appearance
}

// Property is the configuration of one block property.
type Property struct {
	Name string `yaml:"-"`
	// Type is one of "int", "bool", "direction" or "enum".
	Type string `yaml:"type"`
	// Range is the "min~max" domain of an int property.
	Range string `yaml:"range"`
	// Values is the domain of a direction or enum property.
	Values []string `yaml:"values"`
	// Default is the default value; empty means the first value of the domain.
	Default string `yaml:"default"`
}

// Behavior is one behavior entry: a type plus its arguments.
type Behavior struct {
	Type string
	Args map[string]any
}

// Appearance assigns a host block to the states matching Match.
type Appearance struct {
	Match      map[string]string `yaml:"match"`
	Block      string            `yaml:"block"`
	Properties map[string]any    `yaml:"properties"`
}

// Item is the configuration of one custom item type.
type Item struct {
	Key       string
	Behaviors []Behavior
}

// LoadFile reads and parses the document at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cblock: read config: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("cblock: %s: %w", path, err)
	}
	return f, nil
}

// Parse parses a YAML document.
func Parse(data []byte) (*File, error) {
	var doc struct {
		Blocks blockList `yaml:"blocks"`
		Items  itemList  `yaml:"items"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &File{Blocks: doc.Blocks, Items: doc.Items}, nil
}

// Specs resolves the document into block and item specs. Entries that fail to
// resolve are skipped and their errors joined into the returned error.
func (f *File) Specs() ([]cblock.BlockSpec, []cblock.ItemSpec, error) {
	var (
		blocks []cblock.BlockSpec
		items  []cblock.ItemSpec
		errs   []error
	)
	for _, b := range f.Blocks {
		spec, err := b.Spec()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		blocks = append(blocks, spec)
	}
	for _, it := range f.Items {
		spec, err := it.Spec()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		items = append(items, spec)
	}
	return blocks, items, errors.Join(errs...)
}

// Apply replaces the types loaded in reg with the ones of the document. Every
// block and item that resolves and builds is published even if others fail.
func (f *File) Apply(reg *cblock.Registry) error {
	blocks, items, err := f.Specs()
	return errors.Join(err, reg.Reload(blocks, items))
}

// Spec resolves the block configuration.
func (b Block) Spec() (cblock.BlockSpec, error) {
	key, err := cblock.ParseKey(b.Key)
	if err != nil {
		return cblock.BlockSpec{}, &cblock.ConfigError{Reason: "invalid block identifier", Err: err}
	}
	spec := cblock.BlockSpec{Key: key}
	for _, p := range b.Properties {
		prop, err := p.build()
		if err != nil {
			var ce *cblock.ConfigError
			if errors.As(err, &ce) {
				c := *ce
				c.Block = key
				return cblock.BlockSpec{}, &c
			}
			return cblock.BlockSpec{}, &cblock.ConfigError{Block: key, Property: p.Name, Reason: "invalid property", Err: err}
		}
		spec.Properties = append(spec.Properties, prop)
	}
	for _, bh := range b.Behaviors {
		typ, err := cblock.ParseKeyDefault(bh.Type, cblock.BehaviorNamespace)
		if err != nil {
			return cblock.BlockSpec{}, &cblock.ConfigError{Block: key, Reason: "invalid behavior type", Err: err}
		}
		spec.Behaviors = append(spec.Behaviors, cblock.BehaviorSpec{Type: typ, Args: cblock.Args(bh.Args)})
	}
	for _, a := range b.Appearances {
		if a.Block == "" {
			return cblock.BlockSpec{}, &cblock.ConfigError{Block: key, Reason: "appearance without a block"}
		}
		spec.Appearances = append(spec.Appearances, cblock.AppearanceRule{
			Match:      a.Match,
			Appearance: cblock.Appearance{Name: a.Block, Properties: a.Properties},
		})
	}
	return spec, nil
}

// Spec resolves the item configuration.
func (it Item) Spec() (cblock.ItemSpec, error) {
	key, err := cblock.ParseKey(it.Key)
	if err != nil {
		return cblock.ItemSpec{}, &cblock.ConfigError{Reason: "invalid item identifier", Err: err}
	}
	spec := cblock.ItemSpec{Key: key}
	for _, bh := range it.Behaviors {
		typ, err := cblock.ParseKeyDefault(bh.Type, cblock.BehaviorNamespace)
		if err != nil {
			return cblock.ItemSpec{}, &cblock.ConfigError{Reason: fmt.Sprintf("item '%s' has an invalid behavior type", key), Err: err}
		}
		switch typ {
		case cblock.BlockItemType:
			raw, _ := bh.Args["block"].(string)
			block, err := cblock.ParseKey(raw)
			if err != nil {
				return cblock.ItemSpec{}, &cblock.ConfigError{Behavior: typ, Reason: fmt.Sprintf("item '%s' has an invalid block", key), Err: err}
			}
			spec.Behaviors = append(spec.Behaviors, cblock.BlockItem{BlockKey: block})
		default:
			return cblock.ItemSpec{}, &cblock.ConfigError{Behavior: typ, Reason: fmt.Sprintf("item '%s' has an unknown behavior type", key)}
		}
	}
	return spec, nil
}
