package cblock

import (
	"math/bits"
	"strings"
)

// Capability names one hook a behavior may implement.
type Capability uint8

const (
	// CapUse is implemented through Interactor.
	CapUse Capability = iota
	// CapUseItem is implemented through ItemInteractor.
	CapUseItem
	// CapNeighbor is implemented through NeighborListener.
	CapNeighbor
	// CapTick is implemented through Ticker.
	CapTick
	// CapSignal is implemented through SignalSource.
	CapSignal
	// CapPlace is implemented through Placer.
	CapPlace

	capabilityCount
)

// String returns the string representation of the capability.
func (c Capability) String() string {
	switch c {
	case CapUse:
		return "use"
	case CapUseItem:
		return "use_item"
	case CapNeighbor:
		return "neighbor"
	case CapTick:
		return "tick"
	case CapSignal:
		return "signal"
	case CapPlace:
		return "place"
	default:
		return "unknown"
	}
}

// Capabilities is a bitmask of Capability values. A CustomBlock keeps the union
// of its behaviors' capabilities so dispatch can skip blocks with nothing to do.
type Capabilities uint8

// Set sets the bit for c.
func (m *Capabilities) Set(c Capability) {
	*m |= 1 << c
}

// Clear clears the bit for c.
func (m *Capabilities) Clear(c Capability) {
	*m &^= 1 << c
}

// Has reports whether the bit for c is set.
func (m Capabilities) Has(c Capability) bool {
	return m&(1<<c) != 0
}

// Or returns the union of m and other.
func (m Capabilities) Or(other Capabilities) Capabilities {
	return m | other
}

// Count returns the number of capabilities set.
func (m Capabilities) Count() int {
	return bits.OnesCount8(uint8(m))
}

// IsZero reports whether no capability is set.
func (m Capabilities) IsZero() bool {
	return m == 0
}

// String lists the set capabilities, e.g. "neighbor|tick".
func (m Capabilities) String() string {
	var parts []string
	for c := Capability(0); c < capabilityCount; c++ {
		if m.Has(c) {
			parts = append(parts, c.String())
		}
	}
	return strings.Join(parts, "|")
}

// CapabilitiesOf returns the capabilities b implements.
func CapabilitiesOf(b Behavior) Capabilities {
	var m Capabilities
	if _, ok := b.(Interactor); ok {
		m.Set(CapUse)
	}
	if _, ok := b.(ItemInteractor); ok {
		m.Set(CapUseItem)
	}
	if _, ok := b.(NeighborListener); ok {
		m.Set(CapNeighbor)
	}
	if _, ok := b.(Ticker); ok {
		m.Set(CapTick)
	}
	if _, ok := b.(SignalSource); ok {
		m.Set(CapSignal)
	}
	if _, ok := b.(Placer); ok {
		m.Set(CapPlace)
	}
	return m
}
