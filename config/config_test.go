package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oriumgames/cblock"
	"github.com/oriumgames/cblock/behavior"
	"github.com/oriumgames/cblock/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = `
blocks:
  example:redstone_dial:
    properties:
      power: {type: int, range: 0~15, default: 0}
    behaviors:
      - type: adjustable_redstone_block
    appearances:
      - match: {power: 0}
        block: minecraft:stone
      - block: minecraft:redstone_block
  example:block_breaker:
    properties:
      facing: {type: direction, values: [north, east, south, west], default: north}
      triggered: {type: bool, default: false}
    behaviors:
      type: pickaxe_block
      whitelist: false
      blocks: [minecraft:obsidian]
  example:block_placer:
    properties:
      facing: {type: direction}
      triggered: {type: bool}
    behaviors:
      - cblock:place_block:
          blocks: minecraft:tnt
items:
  example:block_breaker:
    behaviors:
      - type: block_item
        block: example:block_breaker
`

func newRegistry(t *testing.T) *cblock.Registry {
	t.Helper()
	r := cblock.NewRegistry()
	require.NoError(t, behavior.Register(r, nil))
	return r
}

func TestParsePreservesOrder(t *testing.T) {
	f, err := config.Parse([]byte(document))
	require.NoError(t, err)

	require.Len(t, f.Blocks, 3)
	assert.Equal(t, "example:redstone_dial", f.Blocks[0].Key)
	assert.Equal(t, "example:block_breaker", f.Blocks[1].Key)
	assert.Equal(t, "example:block_placer", f.Blocks[2].Key)

	breaker := f.Blocks[1]
	require.Len(t, breaker.Properties, 2)
	assert.Equal(t, "facing", breaker.Properties[0].Name)
	assert.Equal(t, "triggered", breaker.Properties[1].Name)

	require.Len(t, breaker.Behaviors, 1)
	assert.Equal(t, "pickaxe_block", breaker.Behaviors[0].Type)
	assert.Equal(t, false, breaker.Behaviors[0].Args["whitelist"])
	assert.Equal(t, []any{"minecraft:obsidian"}, breaker.Behaviors[0].Args["blocks"])

	placer := f.Blocks[2]
	require.Len(t, placer.Behaviors, 1)
	assert.Equal(t, "cblock:place_block", placer.Behaviors[0].Type)
	assert.Equal(t, "minecraft:tnt", placer.Behaviors[0].Args["blocks"])
}

func TestApply(t *testing.T) {
	f, err := config.Parse([]byte(document))
	require.NoError(t, err)
	r := newRegistry(t)
	require.NoError(t, f.Apply(r))

	dial, ok := r.Block(cblock.MustKey("example:redstone_dial"))
	require.True(t, ok)
	assert.Equal(t, 16, dial.Definition().Len())
	assert.True(t, dial.Capabilities().Has(cblock.CapSignal))

	a, ok := dial.Appearance(dial.DefaultState())
	require.True(t, ok)
	assert.Equal(t, "minecraft:stone", a.Name)
	p, _ := dial.Property("power")
	lit, err := dial.DefaultState().With(p, 3)
	require.NoError(t, err)
	a, ok = dial.Appearance(lit)
	require.True(t, ok)
	assert.Equal(t, "minecraft:redstone_block", a.Name)

	breaker, ok := r.Block(cblock.MustKey("example:block_breaker"))
	require.True(t, ok)
	assert.Equal(t, 8, breaker.Definition().Len())
	assert.Equal(t, "example:block_breaker[facing=north,triggered=false]", breaker.DefaultState().String())
	pick, ok := breaker.Behaviors()[0].(*behavior.Pickaxe)
	require.True(t, ok)
	assert.True(t, pick.Filter().Contains(cblock.MustKey("minecraft:obsidian")))

	placer, ok := r.Block(cblock.MustKey("example:block_placer"))
	require.True(t, ok)
	assert.Equal(t, 12, placer.Definition().Len())
	facing, err := cblock.PropertyOf[*cblock.DirectionProperty](placer, behavior.PlaceType, "facing")
	require.NoError(t, err)
	assert.Equal(t, cube.FaceDown, facing.Default())

	it, ok := r.Item(cblock.MustKey("example:block_breaker"))
	require.True(t, ok)
	require.Len(t, it.BlockItems(), 1)
	assert.Equal(t, breaker.Key(), it.BlockItems()[0].Block())

	// Ids are assigned in document order.
	assert.Equal(t, 1+16+8+12, r.StateCount())
	id, ok := r.StateID(breaker.DefaultState())
	require.True(t, ok)
	assert.Equal(t, uint32(17), id)
}

func TestApplyKeepsValidBlocks(t *testing.T) {
	f, err := config.Parse([]byte(`
blocks:
  example:broken:
    properties:
      lit: {type: bool}
    behaviors:
      - type: adjustable_redstone_block
  example:fine:
    properties:
      power: {type: int, range: 0~3}
    behaviors:
      - type: adjustable_redstone_block
`))
	require.NoError(t, err)
	r := newRegistry(t)

	err = f.Apply(r)
	var ce *cblock.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, cblock.MustKey("example:broken"), ce.Block)
	assert.Equal(t, behavior.AdjustableRedstoneType, ce.Behavior)
	assert.Equal(t, "power", ce.Property)

	_, ok := r.Block(cblock.MustKey("example:broken"))
	assert.False(t, ok)
	_, ok = r.Block(cblock.MustKey("example:fine"))
	assert.True(t, ok)
}

func TestSpecErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad range", "blocks:\n  example:a:\n    properties:\n      power: {type: int, range: 15}\n"},
		{"empty range", "blocks:\n  example:a:\n    properties:\n      power: {type: int, range: 5~1}\n"},
		{"default outside range", "blocks:\n  example:a:\n    properties:\n      power: {type: int, range: 0~3, default: 9}\n"},
		{"unknown type", "blocks:\n  example:a:\n    properties:\n      power: {type: float}\n"},
		{"unknown direction", "blocks:\n  example:a:\n    properties:\n      facing: {type: direction, values: [up, sideways]}\n"},
		{"bad bool", "blocks:\n  example:a:\n    properties:\n      lit: {type: bool, default: maybe}\n"},
		{"enum without values", "blocks:\n  example:a:\n    properties:\n      color: {type: enum}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := config.Parse([]byte(tt.doc))
			require.NoError(t, err)
			blocks, _, err := f.Specs()
			assert.Empty(t, blocks)
			var ce *cblock.ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, cblock.MustKey("example:a"), ce.Block)
		})
	}
}

func TestUnknownBehaviorType(t *testing.T) {
	f, err := config.Parse([]byte("blocks:\n  example:a:\n    behaviors:\n      - type: teleport_block\n"))
	require.NoError(t, err)
	err = f.Apply(newRegistry(t))
	var ce *cblock.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, cblock.MustKey("cblock:teleport_block"), ce.Behavior)
}

func TestItemErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown behavior", "items:\n  example:a:\n    behaviors:\n      - type: food\n"},
		{"missing block", "items:\n  example:a:\n    behaviors:\n      - type: block_item\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := config.Parse([]byte(tt.doc))
			require.NoError(t, err)
			_, items, err := f.Specs()
			assert.Empty(t, items)
			var ce *cblock.ConfigError
			assert.True(t, errors.As(err, &ce))
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"syntax", "blocks: [\n"},
		{"blocks not a mapping", "blocks: [a, b]\n"},
		{"behavior without type", "blocks:\n  example:a:\n    behaviors:\n      - whitelist: true\n        blocks: []\n"},
		{"behaviors scalar", "blocks:\n  example:a:\n    behaviors: pickaxe\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.yml")
	require.NoError(t, os.WriteFile(path, []byte(document), 0o644))

	f, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, f.Blocks, 3)

	_, err = config.LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
