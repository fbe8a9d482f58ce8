package cblock

import (
	"github.com/df-mc/dragonfly/server/block/cube"
)

// Behavior is a unit of block logic attached to a CustomBlock. A behavior holds
// configuration only; everything that varies per placed block lives in the
// State at that position.
//
// A behavior opts into hooks by implementing any of the capability interfaces
// below. The Engine calls each capability on the block's behaviors in the
// order they were declared, skipping behaviors that do not implement it.
type Behavior interface {
	// Owner returns the block the behavior is attached to.
	Owner() *CustomBlock
}

// Interactor is implemented by behaviors reacting to a player using a block
// with an empty hand, or with an item no ItemInteractor handled.
type Interactor interface {
	UseWithoutItem(w World, ctx UseContext, state State) InteractionResult
}

// ItemInteractor is implemented by behaviors reacting to a player using an
// item on a block.
type ItemInteractor interface {
	UseOnBlock(w World, ctx UseContext, state State) InteractionResult
}

// NeighborListener is implemented by behaviors reacting to a change next to
// their block, including redstone signal changes.
type NeighborListener interface {
	NeighborChanged(w World, pos cube.Pos, state State)
}

// Ticker is implemented by behaviors acting on a scheduled tick.
type Ticker interface {
	Tick(w World, pos cube.Pos, state State)
}

// SignalSource is implemented by behaviors emitting a redstone signal.
type SignalSource interface {
	// IsSignalSource reports whether the block can emit a signal at all.
	IsSignalSource(state State) bool
	// Signal returns the weak signal emitted towards face.
	Signal(w World, pos cube.Pos, state State, face cube.Face) int
	// DirectSignal returns the strong signal emitted towards face.
	DirectSignal(w World, pos cube.Pos, state State, face cube.Face) int
}

// Placer is implemented by behaviors that choose the state of a newly placed block.
type Placer interface {
	UpdateStateForPlacement(ctx PlaceContext, state State) State
}

// Args is the already-parsed declarative configuration of one behavior.
type Args map[string]any

// Factory builds a configured behavior for owner. It must resolve every
// property the behavior needs and return a *ConfigError naming the block and
// the missing property if one is absent.
type Factory func(owner *CustomBlock, args Args) (Behavior, error)
