package behavior

import (
	"fmt"
	"log/slog"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oriumgames/cblock"
)

// PlaceType is the type key of Place.
var PlaceType = cblock.Key{Namespace: cblock.BehaviorNamespace, Path: "place_block"}

// Place takes one block item from the container behind it and places it in
// front of it when powered. Custom block items are tried before the item's
// host block form.
//
//	behaviors:
//	  - type: place_block
//	    whitelist: false
//	    blocks:
//	      - minecraft:tnt
type Place struct {
	FacingTriggerable
	log *slog.Logger
}

// NewPlace builds a Place for owner that logs through slog.Default().
func NewPlace(owner *cblock.CustomBlock, args cblock.Args) (cblock.Behavior, error) {
	return PlaceFactory(nil)(owner, args)
}

// PlaceFactory returns a factory building Place behaviors that log container
// failures to log. A nil logger means slog.Default().
func PlaceFactory(log *slog.Logger) cblock.Factory {
	if log == nil {
		log = slog.Default()
	}
	return func(owner *cblock.CustomBlock, args cblock.Args) (cblock.Behavior, error) {
		base, err := newFacingTriggerable(owner, PlaceType, args)
		if err != nil {
			return nil, err
		}
		return &Place{FacingTriggerable: base, log: log}, nil
	}
}

// Tick places the first placeable item of the container behind the block.
// Container failures are logged and end the tick.
func (b *Place) Tick(w cblock.World, pos cube.Pos, state cblock.State) {
	if state.IsEmpty() {
		return
	}
	target, facing := b.front(pos, state)
	source := pos.Side(facing.Opposite())

	defer func() {
		if r := recover(); r != nil {
			b.log.Warn("cblock: place block tick failed", "block", b.owner.Key().String(), "pos", pos, "err", fmt.Errorf("panic: %v", r))
		}
	}()
	if err := b.placeFromContainer(w, source, target, facing); err != nil {
		b.log.Warn("cblock: place block tick failed", "block", b.owner.Key().String(), "pos", pos, "err", err)
	}
}

func (b *Place) placeFromContainer(w cblock.World, source, target cube.Pos, facing cube.Face) error {
	if _, occupied := cblock.BlockID(w, target); occupied {
		return nil
	}
	c, ok := w.Container(source)
	if !ok {
		return nil
	}
	for slot := 0; slot < c.Size(); slot++ {
		stack, err := c.Slot(slot)
		if err != nil {
			return fmt.Errorf("read slot %d: %w", slot, err)
		}
		if stack.Empty() {
			continue
		}
		if !b.placeCustom(w, target, facing, stack) && !b.placeHost(w, target, stack) {
			continue
		}
		if err := c.SetSlot(slot, stack.Grow(-1)); err != nil {
			return fmt.Errorf("write slot %d: %w", slot, err)
		}
		return nil
	}
	return nil
}

// placeCustom tries the block item behaviors of a custom item.
func (b *Place) placeCustom(w cblock.World, target cube.Pos, facing cube.Face, stack cblock.Stack) bool {
	reg := b.owner.Registry()
	if reg == nil {
		return false
	}
	it, ok := reg.Item(stack.Item)
	if !ok {
		return false
	}
	ctx := cblock.PlaceContext{
		Pos:  target,
		Face: facing.Opposite(),
		Look: cblock.FaceVector(facing),
		Item: stack,
	}
	for _, bi := range it.BlockItems() {
		if !b.filter.Allowed(bi.Block()) {
			continue
		}
		block, ok := reg.Block(bi.Block())
		if !ok {
			continue
		}
		s := block.PlacementState(ctx)
		if s.IsEmpty() {
			continue
		}
		w.SetState(target, s, cblock.UpdateAll)
		return true
	}
	return false
}

// placeHost tries the host block form of the item.
func (b *Place) placeHost(w cblock.World, target cube.Pos, stack cblock.Stack) bool {
	form, ok := w.BlockForm(stack.Item)
	if !ok || !b.filter.Allowed(form) {
		return false
	}
	return w.PlaceBlock(target, stack.Item)
}
