package cblock

import (
	"strconv"
	"strings"
)

// StateDefinition is the precomputed table of every property-value combination
// of one block type. It is built once and read-only afterwards, so it may be
// shared freely between goroutines.
//
// States are ordered with the first property varying slowest and the last
// property varying fastest, which keeps state indices stable for a given
// property declaration order.
type StateDefinition struct {
	owner *CustomBlock

	props   []AnyProperty
	byName  map[string]int
	strides []int

	// values holds the value index of every property for every state,
	// row-major: values[state*len(props)+property].
	values []int32

	// neighbors holds the state reached by replacing one property value:
	// neighbors[state*width+offsets[property]+value], width = Σ domain sizes.
	neighbors []int32
	offsets   []int
	width     int

	states []State
}

// NewStateDefinition builds the state table for props. Property names must be unique.
func NewStateDefinition(props ...AnyProperty) (*StateDefinition, error) {
	d := &StateDefinition{
		props:   make([]AnyProperty, len(props)),
		byName:  make(map[string]int, len(props)),
		strides: make([]int, len(props)),
		offsets: make([]int, len(props)),
	}
	copy(d.props, props)

	for i, p := range d.props {
		if p == nil {
			return nil, &ConfigError{Reason: "nil property at position " + strconv.Itoa(i)}
		}
		if _, dup := d.byName[p.Name()]; dup {
			return nil, &ConfigError{Reason: "duplicate property", Property: p.Name()}
		}
		d.byName[p.Name()] = i
		d.offsets[i] = d.width
		d.width += p.Size()
	}

	total := 1
	for i := len(d.props) - 1; i >= 0; i-- {
		d.strides[i] = total
		total *= d.props[i].Size()
	}

	np := len(d.props)
	d.values = make([]int32, total*np)
	d.neighbors = make([]int32, total*d.width)
	d.states = make([]State, total)

	for s := 0; s < total; s++ {
		d.states[s] = State{def: d, index: int32(s)}
		for i, p := range d.props {
			cur := (s / d.strides[i]) % p.Size()
			d.values[s*np+i] = int32(cur)
			base := s - cur*d.strides[i]
			for v := 0; v < p.Size(); v++ {
				d.neighbors[s*d.width+d.offsets[i]+v] = int32(base + v*d.strides[i])
			}
		}
	}
	return d, nil
}

// Block returns the custom block owning this definition, nil before it is attached.
func (d *StateDefinition) Block() *CustomBlock {
	return d.owner
}

// Len returns the number of states.
func (d *StateDefinition) Len() int {
	return len(d.states)
}

// State returns the state at index i.
func (d *StateDefinition) State(i int) State {
	return d.states[i]
}

// States returns all states in index order.
func (d *StateDefinition) States() []State {
	out := make([]State, len(d.states))
	copy(out, d.states)
	return out
}

// Properties returns the properties in declaration order.
func (d *StateDefinition) Properties() []AnyProperty {
	out := make([]AnyProperty, len(d.props))
	copy(out, d.props)
	return out
}

// Property looks a property up by name.
func (d *StateDefinition) Property(name string) (AnyProperty, bool) {
	i, ok := d.byName[name]
	if !ok {
		return nil, false
	}
	return d.props[i], true
}

// Default returns the state holding every property's default value.
func (d *StateDefinition) Default() State {
	idx := 0
	for i, p := range d.props {
		idx += p.DefaultIndex() * d.strides[i]
	}
	return d.states[idx]
}

// Neighbor returns the state equal to s except that p holds value.
func (d *StateDefinition) Neighbor(s State, p AnyProperty, value any) (State, error) {
	if s.def != d {
		return State{}, &UnknownPropertyError{Property: p.Name(), Block: d.key()}
	}
	return s.With(p, value)
}

// Parse resolves textual property values, e.g. from configuration, to a state.
// Properties not mentioned keep their default value.
func (d *StateDefinition) Parse(values map[string]string) (State, error) {
	s := d.Default()
	for name, raw := range values {
		pi, ok := d.byName[name]
		if !ok {
			return State{}, &UnknownPropertyError{Property: name, Block: d.key()}
		}
		vi, ok := d.props[pi].ParseValue(raw)
		if !ok {
			return State{}, &InvalidValueError{Property: name, Value: raw}
		}
		s = d.states[d.neighbor(int(s.index), pi, vi)]
	}
	return s, nil
}

func (d *StateDefinition) lookup(p AnyProperty) (int, bool) {
	if p == nil {
		return 0, false
	}
	i, ok := d.byName[p.Name()]
	if !ok || d.props[i].handle() != p.handle() {
		return 0, false
	}
	return i, true
}

func (d *StateDefinition) valueIndex(state, property int) int {
	return int(d.values[state*len(d.props)+property])
}

func (d *StateDefinition) neighbor(state, property, value int) int {
	return int(d.neighbors[state*d.width+d.offsets[property]+value])
}

func (d *StateDefinition) key() Key {
	if d.owner == nil {
		return Key{}
	}
	return d.owner.key
}

func (d *StateDefinition) format(state int) string {
	var b strings.Builder
	b.WriteString(d.key().String())
	if len(d.props) == 0 {
		return b.String()
	}
	b.WriteByte('[')
	for i, p := range d.props {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Name())
		b.WriteByte('=')
		b.WriteString(p.FormatValue(d.valueIndex(state, i)))
	}
	b.WriteByte(']')
	return b.String()
}
