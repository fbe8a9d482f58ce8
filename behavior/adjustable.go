package behavior

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oriumgames/cblock"
)

// AdjustableRedstoneType is the type key of AdjustableRedstone.
var AdjustableRedstoneType = cblock.Key{Namespace: cblock.BehaviorNamespace, Path: "adjustable_redstone_block"}

// AdjustableRedstone makes a block emit a redstone signal equal to its "power"
// property. Using the block cycles the power up; using it while sneaking
// cycles it down. Both directions wrap around the property's range.
//
//	behaviors:
//	  - type: adjustable_redstone_block
type AdjustableRedstone struct {
	owner *cblock.CustomBlock
	power *cblock.IntProperty
}

// NewAdjustableRedstone builds the behavior for owner, which must declare an
// int property named "power".
func NewAdjustableRedstone(owner *cblock.CustomBlock, _ cblock.Args) (cblock.Behavior, error) {
	power, err := cblock.PropertyOf[*cblock.IntProperty](owner, AdjustableRedstoneType, "power")
	if err != nil {
		return nil, err
	}
	return &AdjustableRedstone{owner: owner, power: power}, nil
}

// Owner returns the block the behavior belongs to.
func (b *AdjustableRedstone) Owner() *cblock.CustomBlock {
	return b.owner
}

// Power returns the property holding the signal strength.
func (b *AdjustableRedstone) Power() *cblock.IntProperty {
	return b.power
}

// UseWithoutItem steps the power by one and persists the new state.
func (b *AdjustableRedstone) UseWithoutItem(w cblock.World, ctx cblock.UseContext, state cblock.State) cblock.InteractionResult {
	if state.IsEmpty() {
		return cblock.Pass
	}
	power := cblock.MustGet(state, b.power.Property)
	if ctx.Secondary {
		power--
		if power < b.power.Min {
			power = b.power.Max
		}
	} else {
		power++
		if power > b.power.Max {
			power = b.power.Min
		}
	}
	w.SetState(ctx.Pos, cblock.MustWith(state, b.power.Property, power), cblock.UpdateAll)
	return cblock.SuccessAndCancel
}

// IsSignalSource reports true for every state.
func (b *AdjustableRedstone) IsSignalSource(cblock.State) bool {
	return true
}

// Signal returns the power of state towards every face.
func (b *AdjustableRedstone) Signal(_ cblock.World, _ cube.Pos, state cblock.State, _ cube.Face) int {
	return b.level(state)
}

// DirectSignal returns the same level as Signal.
func (b *AdjustableRedstone) DirectSignal(_ cblock.World, _ cube.Pos, state cblock.State, _ cube.Face) int {
	return b.level(state)
}

func (b *AdjustableRedstone) level(state cblock.State) int {
	if state.IsEmpty() {
		return 0
	}
	return cblock.MustGet(state, b.power.Property)
}
