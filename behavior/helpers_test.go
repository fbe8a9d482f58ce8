package behavior_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oriumgames/cblock"
	"github.com/oriumgames/cblock/behavior"
	"github.com/oriumgames/cblock/worldtest"
	"github.com/stretchr/testify/require"
)

var origin = cube.Pos{0, 64, 0}

type facingBlock struct {
	block     *cblock.CustomBlock
	facing    *cblock.DirectionProperty
	triggered *cblock.BoolProperty
}

// state returns the block's default state turned towards f.
func (b facingBlock) state(f cube.Face) cblock.State {
	return cblock.MustWith(b.block.DefaultState(), b.facing, f)
}

func facingSpec(t *testing.T, key string, faces []cube.Face, behaviors ...cblock.BehaviorSpec) (cblock.BlockSpec, *cblock.DirectionProperty, *cblock.BoolProperty) {
	t.Helper()
	facing, err := cblock.NewDirectionProperty("facing", faces, faces[0])
	require.NoError(t, err)
	triggered, err := cblock.NewBoolProperty("triggered", false)
	require.NoError(t, err)
	return cblock.BlockSpec{
		Key:        cblock.MustKey(key),
		Properties: []cblock.AnyProperty{facing, triggered},
		Behaviors:  behaviors,
	}, facing, triggered
}

func dialSpec(t *testing.T, key string, min, max, def int) (cblock.BlockSpec, *cblock.IntProperty) {
	t.Helper()
	power, err := cblock.NewIntProperty("power", min, max, def)
	require.NoError(t, err)
	return cblock.BlockSpec{
		Key:        cblock.MustKey(key),
		Properties: []cblock.AnyProperty{power},
		Behaviors:  []cblock.BehaviorSpec{{Type: behavior.AdjustableRedstoneType}},
	}, power
}

type fixture struct {
	reg    *cblock.Registry
	engine *cblock.Engine
	world  *worldtest.World
	logs   *bytes.Buffer
}

func newFixture(t *testing.T, blocks []cblock.BlockSpec, items ...cblock.ItemSpec) *fixture {
	t.Helper()
	logs := &bytes.Buffer{}
	log := slog.New(slog.NewTextHandler(logs, nil))

	b := cblock.NewBuilder().Factories(behavior.Factories(log))
	for _, spec := range blocks {
		b.Block(spec)
	}
	for _, spec := range items {
		b.Item(spec)
	}
	reg, err := b.Build()
	require.NoError(t, err)

	e := cblock.NewEngine(reg, cblock.WithLogger(log), cblock.WithStrict(true))
	return &fixture{reg: reg, engine: e, world: worldtest.New(e), logs: logs}
}

func (f *fixture) block(t *testing.T, key string) *cblock.CustomBlock {
	t.Helper()
	b, ok := f.reg.Block(cblock.MustKey(key))
	require.True(t, ok, "block %s not registered", key)
	return b
}
