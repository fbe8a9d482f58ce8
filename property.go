package cblock

import (
	"strconv"

	"github.com/df-mc/dragonfly/server/block/cube"
)

// AnyProperty is the type-erased view of a Property. State definitions and the
// untyped State accessors work on this view; behaviors normally hold the typed
// Property and use Get and With.
type AnyProperty interface {
	// Name returns the property name, unique within one block type.
	Name() string
	// Size returns the number of values in the domain.
	Size() int
	// DefaultIndex returns the domain index of the default value.
	DefaultIndex() int
	// ValueAt returns the domain value at index i.
	ValueAt(i int) any
	// FormatValue returns the textual form of the domain value at index i.
	FormatValue(i int) string
	// ParseValue returns the domain index of the textual value s.
	ParseValue(s string) (int, bool)

	indexOfAny(v any) (int, bool)
	handle() any
}

// Property is a named attribute with a finite, ordered value domain and a
// default value. Properties are immutable once created.
type Property[T comparable] struct {
	name   string
	values []T
	def    int
	index  map[T]int
	format func(T) string
}

func newProperty[T comparable](name string, values []T, def T, format func(T) string) (*Property[T], error) {
	if name == "" {
		return nil, &ConfigError{Reason: "property name must not be empty"}
	}
	if len(values) == 0 {
		return nil, &ConfigError{Reason: "empty value domain for property", Property: name}
	}
	p := &Property[T]{
		name:   name,
		values: make([]T, len(values)),
		index:  make(map[T]int, len(values)),
		format: format,
	}
	copy(p.values, values)
	for i, v := range p.values {
		if _, dup := p.index[v]; dup {
			return nil, &ConfigError{Reason: "duplicate value " + format(v) + " in domain of property", Property: name}
		}
		p.index[v] = i
	}
	i, ok := p.index[def]
	if !ok {
		return nil, &ConfigError{Reason: "default value " + format(def) + " is outside the domain of property", Property: name}
	}
	p.def = i
	return p, nil
}

// Name returns the property name.
func (p *Property[T]) Name() string { return p.name }

// Size returns the number of values in the domain.
func (p *Property[T]) Size() int { return len(p.values) }

// DefaultIndex returns the index of the default value.
func (p *Property[T]) DefaultIndex() int { return p.def }

// Default returns the default value.
func (p *Property[T]) Default() T { return p.values[p.def] }

// Values returns a copy of the domain in declaration order.
func (p *Property[T]) Values() []T {
	out := make([]T, len(p.values))
	copy(out, p.values)
	return out
}

// Contains reports whether v is in the domain.
func (p *Property[T]) Contains(v T) bool {
	_, ok := p.index[v]
	return ok
}

// IndexOf returns the domain index of v.
func (p *Property[T]) IndexOf(v T) (int, bool) {
	i, ok := p.index[v]
	return i, ok
}

// ValueAt returns the value at index i.
func (p *Property[T]) ValueAt(i int) any { return p.values[i] }

// FormatValue returns the string form of the value at index i.
func (p *Property[T]) FormatValue(i int) string { return p.format(p.values[i]) }

// ParseValue returns the index of the value whose string form is s.
func (p *Property[T]) ParseValue(s string) (int, bool) {
	for i, v := range p.values {
		if p.format(v) == s {
			return i, true
		}
	}
	return 0, false
}

func (p *Property[T]) indexOfAny(v any) (int, bool) {
	t, ok := v.(T)
	if !ok {
		return 0, false
	}
	return p.IndexOf(t)
}

func (p *Property[T]) handle() any { return p }

// String returns the property name.
func (p *Property[T]) String() string { return p.name }

// IntProperty is an integer property with the contiguous domain [Min, Max].
type IntProperty struct {
	*Property[int]
	Min, Max int
}

// NewIntProperty creates an integer property over [min, max].
func NewIntProperty(name string, min, max, def int) (*IntProperty, error) {
	if min > max {
		return nil, &ConfigError{Reason: "empty value domain " + strconv.Itoa(min) + "~" + strconv.Itoa(max) + " for property", Property: name}
	}
	values := make([]int, 0, max-min+1)
	for v := min; v <= max; v++ {
		values = append(values, v)
	}
	p, err := newProperty(name, values, def, strconv.Itoa)
	if err != nil {
		return nil, err
	}
	return &IntProperty{Property: p, Min: min, Max: max}, nil
}

// BoolProperty is a boolean property.
type BoolProperty = Property[bool]

// NewBoolProperty creates a boolean property with the domain [false, true].
func NewBoolProperty(name string, def bool) (*BoolProperty, error) {
	return newProperty(name, []bool{false, true}, def, strconv.FormatBool)
}

// DirectionProperty is a property over block faces.
type DirectionProperty = Property[cube.Face]

// NewDirectionProperty creates a direction property over faces, in the order given.
func NewDirectionProperty(name string, faces []cube.Face, def cube.Face) (*DirectionProperty, error) {
	return newProperty(name, faces, def, FaceName)
}

// EnumProperty is a property over a fixed set of names.
type EnumProperty = Property[string]

// NewEnumProperty creates an enum property over values, in the order given.
func NewEnumProperty(name string, values []string, def string) (*EnumProperty, error) {
	return newProperty(name, values, def, func(s string) string { return s })
}
