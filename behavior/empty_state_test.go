package behavior_test

import (
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oriumgames/cblock"
	"github.com/oriumgames/cblock/behavior"
	"github.com/oriumgames/cblock/worldtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooksIgnoreEmptyState(t *testing.T) {
	dial, _ := dialSpec(t, "example:dial", 0, 15, 0)
	breaker, _, _ := facingSpec(t, "example:breaker", cblock.AllFaces(), cblock.BehaviorSpec{Type: behavior.PickaxeType})
	placer, _, _ := facingSpec(t, "example:placer", cblock.HorizontalFaces(), cblock.BehaviorSpec{Type: behavior.PlaceType})
	f := newFixture(t, []cblock.BlockSpec{dial, breaker, placer})

	for _, key := range []string{"example:dial", "example:breaker", "example:placer"} {
		b := f.block(t, key)
		require.NotEmpty(t, b.Behaviors())
		for _, bh := range b.Behaviors() {
			t.Run(key, func(t *testing.T) {
				f.world.Reset()
				// Everything a hook could act on is present.
				f.world.SetPowered(origin, true)
				for _, face := range cblock.AllFaces() {
					f.world.PutBlock(origin.Side(face), cblock.MustKey("minecraft:stone"))
				}
				f.world.PutContainer(origin.Side(cube.FaceSouth), worldtest.NewContainer(cblock.Stack{Item: cblock.MustKey("minecraft:stone"), Count: 1}))
				f.world.SetBlockForm(cblock.MustKey("minecraft:stone"), cblock.MustKey("minecraft:stone"))

				empty := cblock.State{}
				if h, ok := bh.(cblock.Interactor); ok {
					assert.NotPanics(t, func() {
						assert.Equal(t, cblock.Pass, h.UseWithoutItem(f.world, cblock.UseContext{Pos: origin}, empty))
					})
				}
				if h, ok := bh.(cblock.NeighborListener); ok {
					assert.NotPanics(t, func() { h.NeighborChanged(f.world, origin, empty) })
				}
				if h, ok := bh.(cblock.Ticker); ok {
					assert.NotPanics(t, func() { h.Tick(f.world, origin, empty) })
				}
				if h, ok := bh.(cblock.Placer); ok {
					assert.NotPanics(t, func() {
						got := h.UpdateStateForPlacement(cblock.PlaceContext{Pos: origin, Face: cube.FaceUp}, empty)
						assert.True(t, got.IsEmpty())
					})
				}
				if h, ok := bh.(cblock.SignalSource); ok {
					assert.NotPanics(t, func() {
						assert.Zero(t, h.Signal(f.world, origin, empty, cube.FaceUp))
						assert.Zero(t, h.DirectSignal(f.world, origin, empty, cube.FaceUp))
					})
				}

				assert.Empty(t, f.world.Sets)
				assert.Empty(t, f.world.Ticks)
				assert.Empty(t, f.world.Destroyed)
				assert.Empty(t, f.world.Placed)
			})
		}
	}
}
