package cblock

import (
	"github.com/df-mc/dragonfly/server/block/cube"
)

// UpdateFlags tell the World how far a state change should propagate.
type UpdateFlags uint8

const (
	// UpdateNeighbors notifies neighbouring blocks of the change.
	UpdateNeighbors UpdateFlags = 1 << iota
	// UpdateClients sends the change to viewers.
	UpdateClients

	// UpdateAll broadcasts the change to neighbours and viewers.
	UpdateAll = UpdateNeighbors | UpdateClients
	// UpdateMinimal only sends the change to viewers.
	UpdateMinimal = UpdateClients
)

// Has reports whether all bits of o are set in f.
func (f UpdateFlags) Has(o UpdateFlags) bool {
	return f&o == o
}

// World is the host collaborator through which the core reads and changes the
// world. Implementations are called from the world's tick goroutine only and
// must not block.
type World interface {
	// StateAt returns the custom block state at pos, or the sentinel State if
	// there is no custom block there.
	StateAt(pos cube.Pos) State
	// SetState places s at pos.
	SetState(pos cube.Pos, s State, flags UpdateFlags)
	// ScheduleTick requests a Tick dispatch for pos after delay ticks.
	ScheduleTick(pos cube.Pos, delay int)
	// HasNeighborSignal reports whether any block adjacent to pos is powered.
	HasNeighborSignal(pos cube.Pos) bool
	// DestroyBlock breaks whatever block is at pos, optionally dropping its items.
	DestroyBlock(pos cube.Pos, drop bool)
	// Container returns the inventory of the block at pos, if it has one.
	Container(pos cube.Pos) (Container, bool)

	// Block returns the host identifier of the block at pos. It returns false
	// for air.
	Block(pos cube.Pos) (Key, bool)
	// BlockForm returns the identifier of the block that item places, if any.
	BlockForm(item Key) (Key, bool)
	// PlaceBlock places the block form of item at pos and reports success.
	PlaceBlock(pos cube.Pos, item Key) bool
}

// Container is an indexable inventory handle.
type Container interface {
	Size() int
	Slot(i int) (Stack, error)
	SetSlot(i int, s Stack) error
}

// Air is the key of the empty block and item.
var Air = Key{Namespace: DefaultNamespace, Path: "air"}

// Stack is a count of one item type held in a container slot.
type Stack struct {
	Item  Key
	Count int
}

// Empty reports whether the stack holds nothing.
func (s Stack) Empty() bool {
	return s.Count <= 0 || s.Item.IsZero() || s.Item == Air
}

// Grow returns s with n more items. A result with zero or fewer items is empty.
func (s Stack) Grow(n int) Stack {
	s.Count += n
	if s.Count <= 0 {
		return Stack{}
	}
	return s
}

// BlockID resolves the identifier a block filter sees at pos: the owning custom
// block when a custom state is present, the host block otherwise. It returns
// false for air.
func BlockID(w World, pos cube.Pos) (Key, bool) {
	if s := w.StateAt(pos); !s.IsEmpty() {
		return s.Block().Key(), true
	}
	return w.Block(pos)
}
