package cblock

import (
	"errors"
)

// Builder collects factories, blocks and items before a registry is created.
// Use NewBuilder() to create a builder and chain configuration methods.
//
//	reg, err := cblock.NewBuilder().
//	    Factories(behavior.Factories(nil)).
//	    Block(cblock.BlockSpec{...}).
//	    Build()
type Builder struct {
	factories []factoryRegistration
	blocks    []BlockSpec
	items     []ItemSpec
}

type factoryRegistration struct {
	key     Key
	factory Factory
}

// NewBuilder creates a new registry builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Factory adds a behavior factory.
func (b *Builder) Factory(key Key, f Factory) *Builder {
	b.factories = append(b.factories, factoryRegistration{key: key, factory: f})
	return b
}

// Factories adds every factory of m.
func (b *Builder) Factories(m map[Key]Factory) *Builder {
	for k, f := range m {
		b.Factory(k, f)
	}
	return b
}

// Block adds a block type. Blocks are registered in the order added, which
// fixes their numeric state ids.
func (b *Builder) Block(spec BlockSpec) *Builder {
	b.blocks = append(b.blocks, spec)
	return b
}

// Item adds an item type.
func (b *Builder) Item(spec ItemSpec) *Builder {
	b.items = append(b.items, spec)
	return b
}

// Build creates the registry. Factory registration errors are fatal and return
// a nil registry. Block and item errors are returned joined alongside a
// registry holding every type that did build.
func (b *Builder) Build() (*Registry, error) {
	r := NewRegistry()
	var errs []error
	for _, reg := range b.factories {
		if err := r.RegisterFactory(reg.key, reg.factory); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, r.Reload(b.blocks, b.items)
}
