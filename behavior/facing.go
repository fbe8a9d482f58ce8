package behavior

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oriumgames/cblock"
)

// FacingTriggerable is the shared base of blocks that act once, one tick after
// they become powered, on the block in front of them. It needs a direction
// property named "facing" and a bool property named "triggered".
//
// The base handles the rising and falling edge of the redstone signal and the
// facing of a newly placed block. Concrete behaviors embed it and implement
// Tick.
type FacingTriggerable struct {
	owner     *cblock.CustomBlock
	facing    *cblock.DirectionProperty
	triggered *cblock.BoolProperty
	filter    BlockFilter
}

func newFacingTriggerable(owner *cblock.CustomBlock, typ cblock.Key, args cblock.Args) (FacingTriggerable, error) {
	facing, err := cblock.PropertyOf[*cblock.DirectionProperty](owner, typ, "facing")
	if err != nil {
		return FacingTriggerable{}, err
	}
	triggered, err := cblock.PropertyOf[*cblock.BoolProperty](owner, typ, "triggered")
	if err != nil {
		return FacingTriggerable{}, err
	}
	filter, err := ParseFilter(owner, typ, args)
	if err != nil {
		return FacingTriggerable{}, err
	}
	return FacingTriggerable{owner: owner, facing: facing, triggered: triggered, filter: filter}, nil
}

// Owner returns the block the behavior belongs to.
func (b *FacingTriggerable) Owner() *cblock.CustomBlock {
	return b.owner
}

// Facing returns the property holding the direction the block acts towards.
func (b *FacingTriggerable) Facing() *cblock.DirectionProperty {
	return b.facing
}

// Triggered returns the property recording that the block is powered.
func (b *FacingTriggerable) Triggered() *cblock.BoolProperty {
	return b.triggered
}

// Filter returns the filter of blocks the behavior may act on.
func (b *FacingTriggerable) Filter() BlockFilter {
	return b.filter
}

// NeighborChanged sets "triggered" and schedules a tick when the block becomes
// powered, and clears it when the block loses power.
func (b *FacingTriggerable) NeighborChanged(w cblock.World, pos cube.Pos, state cblock.State) {
	if state.IsEmpty() {
		return
	}
	powered := w.HasNeighborSignal(pos)
	triggered := cblock.MustGet(state, b.triggered)
	switch {
	case powered && !triggered:
		w.SetState(pos, cblock.MustWith(state, b.triggered, true), cblock.UpdateMinimal)
		w.ScheduleTick(pos, 1)
	case !powered && triggered:
		w.SetState(pos, cblock.MustWith(state, b.triggered, false), cblock.UpdateMinimal)
	}
}

// UpdateStateForPlacement turns the block to face the placer. It keeps the
// values earlier behaviors chose for state instead of restarting from the
// default state.
func (b *FacingTriggerable) UpdateStateForPlacement(ctx cblock.PlaceContext, state cblock.State) cblock.State {
	if state.IsEmpty() {
		return state
	}
	towards := ctx
	towards.Look = ctx.Look.Mul(-1)
	towards.Face = ctx.Face.Opposite()
	return cblock.MustWith(state, b.facing, towards.NearestLookingFace(b.facing.Values()))
}

// front returns the position the block acts on.
func (b *FacingTriggerable) front(pos cube.Pos, state cblock.State) (cube.Pos, cube.Face) {
	f := cblock.MustGet(state, b.facing)
	return pos.Side(f), f
}
