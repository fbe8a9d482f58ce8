package cblock

import (
	"fmt"
	"strings"
)

// CustomBlock is a custom block type. One CustomBlock is shared by every placed
// block of its type; only the State stored at each position differs.
// A CustomBlock is immutable once its Registry has published it.
type CustomBlock struct {
	key       Key
	def       *StateDefinition
	deflt     State
	behaviors []Behavior
	caps      Capabilities

	// base is the numeric id of state index 0, assigned by the registry.
	base     uint32
	registry *Registry

	appearances []Appearance
}

// NewCustomBlock creates a block type over def with no behaviors attached.
// Blocks meant for a world are created through Registry.RegisterBlock.
func NewCustomBlock(key Key, def *StateDefinition) (*CustomBlock, error) {
	if key.IsZero() {
		return nil, &ConfigError{Reason: "block key must not be empty"}
	}
	if def == nil {
		return nil, &ConfigError{Block: key, Reason: "missing state definition"}
	}
	if def.owner != nil {
		return nil, &ConfigError{Block: key, Reason: fmt.Sprintf("state definition already belongs to '%s'", def.owner.key)}
	}
	b := &CustomBlock{key: key, def: def}
	def.owner = b
	b.deflt = def.Default()
	return b, nil
}

// Key returns the block's identifier.
func (b *CustomBlock) Key() Key {
	return b.key
}

// Definition returns the block's state definition.
func (b *CustomBlock) Definition() *StateDefinition {
	return b.def
}

// DefaultState returns the state a freshly created block starts from.
func (b *CustomBlock) DefaultState() State {
	return b.deflt
}

// Property looks a property up by name.
func (b *CustomBlock) Property(name string) (AnyProperty, bool) {
	return b.def.Property(name)
}

// Behaviors returns the attached behaviors in dispatch order.
func (b *CustomBlock) Behaviors() []Behavior {
	out := make([]Behavior, len(b.behaviors))
	copy(out, b.behaviors)
	return out
}

// Capabilities returns the union of the attached behaviors' capabilities.
func (b *CustomBlock) Capabilities() Capabilities {
	return b.caps
}

// Registry returns the registry the block is registered with, nil if none.
func (b *CustomBlock) Registry() *Registry {
	return b.registry
}

// Appearance returns the host block used to display s, if one is configured.
func (b *CustomBlock) Appearance(s State) (Appearance, bool) {
	if s.def != b.def || len(b.appearances) == 0 {
		return Appearance{}, false
	}
	a := b.appearances[s.index]
	return a, a.Name != ""
}

// PlacementState computes the state for placing the block described by ctx,
// folding every Placer behavior over the default state in order.
func (b *CustomBlock) PlacementState(ctx PlaceContext) State {
	s := b.deflt
	if !b.caps.Has(CapPlace) {
		return s
	}
	for _, beh := range b.behaviors {
		if p, ok := beh.(Placer); ok {
			s = p.UpdateStateForPlacement(ctx, s)
			if s.IsEmpty() || s.def != b.def {
				return State{}
			}
		}
	}
	return s
}

// String returns the block key.
func (b *CustomBlock) String() string {
	return b.key.String()
}

func (b *CustomBlock) attach(beh Behavior) {
	b.behaviors = append(b.behaviors, beh)
	b.caps = b.caps.Or(CapabilitiesOf(beh))
}

// PropertyOf resolves the property name on block and asserts its type. Factories
// use it to turn a missing or mistyped property into a load-time ConfigError.
func PropertyOf[P AnyProperty](block *CustomBlock, behavior Key, name string) (P, error) {
	var zero P
	p, ok := block.Property(name)
	if !ok {
		return zero, MissingProperty(block.key, behavior, name)
	}
	typed, ok := p.(P)
	if !ok {
		return zero, &ConfigError{Block: block.key, Behavior: behavior, Property: name, Reason: fmt.Sprintf("expected a %s property for", propertyKind(zero))}
	}
	return typed, nil
}

func propertyKind(p any) string {
	switch p.(type) {
	case *IntProperty:
		return "int"
	case *BoolProperty:
		return "bool"
	case *DirectionProperty:
		return "direction"
	case *EnumProperty:
		return "enum"
	default:
		return strings.TrimPrefix(fmt.Sprintf("%T", p), "*cblock.")
	}
}

// Appearance names the host block used to display a custom state.
type Appearance struct {
	Name       string
	Properties map[string]any
}

// AppearanceRule assigns an Appearance to the states whose textual property
// values include every entry of Match. An empty Match matches every state.
type AppearanceRule struct {
	Match      map[string]string
	Appearance Appearance
}

func (r AppearanceRule) matches(d *StateDefinition, state int) bool {
	for name, want := range r.Match {
		pi, ok := d.byName[name]
		if !ok || d.props[pi].FormatValue(d.valueIndex(state, pi)) != want {
			return false
		}
	}
	return true
}
