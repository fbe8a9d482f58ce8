package behavior

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oriumgames/cblock"
)

// PickaxeType is the type key of Pickaxe.
var PickaxeType = cblock.Key{Namespace: cblock.BehaviorNamespace, Path: "pickaxe_block"}

// Pickaxe breaks the block in front of it, dropping its items, when powered.
//
//	behaviors:
//	  - type: pickaxe_block
//	    whitelist: false
//	    blocks:
//	      - minecraft:obsidian
type Pickaxe struct {
	FacingTriggerable
}

// NewPickaxe builds a Pickaxe for owner.
func NewPickaxe(owner *cblock.CustomBlock, args cblock.Args) (cblock.Behavior, error) {
	base, err := newFacingTriggerable(owner, PickaxeType, args)
	if err != nil {
		return nil, err
	}
	return &Pickaxe{FacingTriggerable: base}, nil
}

// Tick breaks the block in front if the filter allows it.
func (b *Pickaxe) Tick(w cblock.World, pos cube.Pos, state cblock.State) {
	if state.IsEmpty() {
		return
	}
	target, _ := b.front(pos, state)
	if b.filter.AllowedAt(w, target) {
		w.DestroyBlock(target, true)
	}
}
