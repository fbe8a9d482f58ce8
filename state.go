package cblock

// State is one interned combination of property values of a custom block type.
// States are small comparable values: two States are == exactly when they name
// the same entry of the same StateDefinition. Nothing about a State can be
// changed; With resolves to another entry of the table.
//
// The zero State is the sentinel meaning "no custom block here". It reports
// IsEmpty and has no properties.
type State struct {
	def   *StateDefinition
	index int32
}

// IsEmpty reports whether s is the sentinel state.
func (s State) IsEmpty() bool {
	return s.def == nil
}

// Block returns the owning custom block, or nil for the sentinel state.
func (s State) Block() *CustomBlock {
	if s.def == nil {
		return nil
	}
	return s.def.owner
}

// Definition returns the state definition s belongs to, or nil for the sentinel.
func (s State) Definition() *StateDefinition {
	return s.def
}

// Index returns the index of s within its definition, -1 for the sentinel.
func (s State) Index() int {
	if s.def == nil {
		return -1
	}
	return int(s.index)
}

// Value returns the value of p in s.
func (s State) Value(p AnyProperty) (any, error) {
	pi, err := s.locate(p)
	if err != nil {
		return nil, err
	}
	return p.ValueAt(s.def.valueIndex(int(s.index), pi)), nil
}

// With returns the state equal to s except that p holds value.
func (s State) With(p AnyProperty, value any) (State, error) {
	pi, err := s.locate(p)
	if err != nil {
		return State{}, err
	}
	vi, ok := p.indexOfAny(value)
	if !ok {
		return State{}, &InvalidValueError{Property: p.Name(), Value: value}
	}
	return s.def.states[s.def.neighbor(int(s.index), pi, vi)], nil
}

// Values returns the textual value of every property of s, keyed by property
// name. It returns nil for the sentinel.
func (s State) Values() map[string]string {
	if s.def == nil {
		return nil
	}
	m := make(map[string]string, len(s.def.props))
	for i, p := range s.def.props {
		m[p.Name()] = p.FormatValue(s.def.valueIndex(int(s.index), i))
	}
	return m
}

// String returns the block key followed by the property values, e.g.
// "example:breaker[facing=north,triggered=false]". The sentinel prints as "empty".
func (s State) String() string {
	if s.def == nil {
		return "empty"
	}
	return s.def.format(int(s.index))
}

func (s State) locate(p AnyProperty) (int, error) {
	if s.def == nil {
		name := ""
		if p != nil {
			name = p.Name()
		}
		return 0, &UnknownPropertyError{Property: name}
	}
	pi, ok := s.def.lookup(p)
	if !ok {
		name := ""
		if p != nil {
			name = p.Name()
		}
		return 0, &UnknownPropertyError{Property: name, Block: s.def.key()}
	}
	return pi, nil
}

// Get returns the value of p in s.
func Get[T comparable](s State, p *Property[T]) (T, error) {
	var zero T
	if p == nil {
		return zero, &UnknownPropertyError{}
	}
	pi, err := s.locate(p)
	if err != nil {
		return zero, err
	}
	return p.values[s.def.valueIndex(int(s.index), pi)], nil
}

// With returns the state equal to s except that p holds v.
func With[T comparable](s State, p *Property[T], v T) (State, error) {
	if p == nil {
		return State{}, &UnknownPropertyError{}
	}
	pi, err := s.locate(p)
	if err != nil {
		return State{}, err
	}
	vi, ok := p.IndexOf(v)
	if !ok {
		return State{}, &InvalidValueError{Property: p.Name(), Value: v}
	}
	return s.def.states[s.def.neighbor(int(s.index), pi, vi)], nil
}

// MustGet is Get that panics with the returned error. Behavior hooks use it;
// the Engine recovers such panics.
func MustGet[T comparable](s State, p *Property[T]) T {
	v, err := Get(s, p)
	if err != nil {
		panic(err)
	}
	return v
}

// MustWith is With that panics with the returned error.
func MustWith[T comparable](s State, p *Property[T], v T) State {
	next, err := With(s, p, v)
	if err != nil {
		panic(err)
	}
	return next
}
