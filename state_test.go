package cblock_test

import (
	"errors"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oriumgames/cblock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// breaker builds a block with facing (4 values), triggered (2) and power (0~2).
func breaker(t *testing.T) (*cblock.CustomBlock, *cblock.DirectionProperty, *cblock.BoolProperty, *cblock.IntProperty) {
	t.Helper()
	facing, err := cblock.NewDirectionProperty("facing", cblock.HorizontalFaces(), cube.FaceSouth)
	require.NoError(t, err)
	triggered, err := cblock.NewBoolProperty("triggered", false)
	require.NoError(t, err)
	power, err := cblock.NewIntProperty("power", 0, 2, 0)
	require.NoError(t, err)

	reg, err := cblock.NewBuilder().
		Block(cblock.BlockSpec{
			Key:        cblock.MustKey("example:breaker"),
			Properties: []cblock.AnyProperty{facing, triggered, power},
		}).
		Build()
	require.NoError(t, err)
	b, ok := reg.Block(cblock.MustKey("example:breaker"))
	require.True(t, ok)
	return b, facing, triggered, power
}

func TestPropertyConstruction(t *testing.T) {
	_, err := cblock.NewIntProperty("power", 5, 1, 5)
	assert.Error(t, err)
	_, err = cblock.NewIntProperty("power", 0, 15, 16)
	assert.Error(t, err)
	_, err = cblock.NewIntProperty("", 0, 15, 0)
	assert.Error(t, err)
	_, err = cblock.NewEnumProperty("color", nil, "red")
	assert.Error(t, err)
	_, err = cblock.NewEnumProperty("color", []string{"red", "red"}, "red")
	assert.Error(t, err)
	_, err = cblock.NewDirectionProperty("facing", cblock.HorizontalFaces(), cube.FaceUp)
	assert.Error(t, err)

	var ce *cblock.ConfigError
	_, err = cblock.NewIntProperty("power", 0, 15, 99)
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "power", ce.Property)

	p, err := cblock.NewIntProperty("power", 3, 6, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Size())
	assert.Equal(t, 4, p.Default())
	assert.Equal(t, 1, p.DefaultIndex())
	assert.Equal(t, []int{3, 4, 5, 6}, p.Values())
	assert.True(t, p.Contains(6))
	assert.False(t, p.Contains(7))
	i, ok := p.ParseValue("5")
	assert.True(t, ok)
	assert.Equal(t, 2, i)
	_, ok = p.ParseValue("x")
	assert.False(t, ok)
}

func TestDefinitionTable(t *testing.T) {
	b, facing, triggered, power := breaker(t)
	d := b.Definition()

	assert.Equal(t, 4*2*3, d.Len())
	assert.Same(t, b, d.Block())

	// The first property varies slowest.
	assert.Equal(t, "example:breaker[facing=north,triggered=false,power=0]", d.State(0).String())
	assert.Equal(t, "example:breaker[facing=north,triggered=false,power=1]", d.State(1).String())
	assert.Equal(t, "example:breaker[facing=north,triggered=true,power=0]", d.State(3).String())
	assert.Equal(t, "example:breaker[facing=east,triggered=false,power=0]", d.State(6).String())

	def := b.DefaultState()
	assert.Equal(t, cube.FaceSouth, cblock.MustGet(def, facing))
	assert.False(t, cblock.MustGet(def, triggered))
	assert.Equal(t, 0, cblock.MustGet(def, power.Property))

	seen := make(map[cblock.State]bool)
	for i, s := range d.States() {
		assert.Equal(t, i, s.Index())
		assert.False(t, seen[s])
		seen[s] = true
	}
}

func TestWithLaws(t *testing.T) {
	b, facing, triggered, power := breaker(t)

	for _, s := range b.Definition().States() {
		// Setting the current value is the identity.
		assert.Equal(t, s, cblock.MustWith(s, facing, cblock.MustGet(s, facing)))

		for _, f := range facing.Values() {
			next := cblock.MustWith(s, facing, f)
			assert.Equal(t, f, cblock.MustGet(next, facing))
			// Other properties keep their values.
			assert.Equal(t, cblock.MustGet(s, triggered), cblock.MustGet(next, triggered))
			assert.Equal(t, cblock.MustGet(s, power.Property), cblock.MustGet(next, power.Property))
			// Setting back returns the original interned state.
			assert.Equal(t, s, cblock.MustWith(next, facing, cblock.MustGet(s, facing)))
		}
	}
}

func TestStateErrors(t *testing.T) {
	b, facing, _, power := breaker(t)
	s := b.DefaultState()

	_, err := cblock.With(s, facing, cube.FaceUp)
	var ive *cblock.InvalidValueError
	require.True(t, errors.As(err, &ive))
	assert.Equal(t, "facing", ive.Property)

	_, err = s.With(power, "three")
	assert.True(t, errors.As(err, &ive))

	foreign, err := cblock.NewIntProperty("power", 0, 2, 0)
	require.NoError(t, err)
	_, err = s.With(foreign, 1)
	var upe *cblock.UnknownPropertyError
	require.True(t, errors.As(err, &upe))
	assert.Equal(t, b.Key(), upe.Block)

	assert.Panics(t, func() { cblock.MustGet(s, foreign.Property) })
	assert.Panics(t, func() { cblock.MustWith(s, facing, cube.FaceDown) })

	_, err = cblock.Get[bool](s, nil)
	assert.Error(t, err)
}

func TestSentinel(t *testing.T) {
	_, facing, _, _ := breaker(t)
	var s cblock.State

	assert.True(t, s.IsEmpty())
	assert.Nil(t, s.Block())
	assert.Nil(t, s.Definition())
	assert.Equal(t, -1, s.Index())
	assert.Nil(t, s.Values())
	assert.Equal(t, "empty", s.String())

	_, err := cblock.Get(s, facing)
	assert.Error(t, err)
	_, err = s.With(facing, cube.FaceNorth)
	assert.Error(t, err)
}

func TestValuesAndParse(t *testing.T) {
	b, facing, triggered, _ := breaker(t)
	d := b.Definition()

	s, err := d.Parse(map[string]string{"facing": "west", "triggered": "true"})
	require.NoError(t, err)
	assert.Equal(t, cube.FaceWest, cblock.MustGet(s, facing))
	assert.True(t, cblock.MustGet(s, triggered))
	assert.Equal(t, map[string]string{"facing": "west", "triggered": "true", "power": "0"}, s.Values())

	back, err := d.Parse(s.Values())
	require.NoError(t, err)
	assert.Equal(t, s, back)

	_, err = d.Parse(map[string]string{"colour": "red"})
	var upe *cblock.UnknownPropertyError
	assert.True(t, errors.As(err, &upe))
	_, err = d.Parse(map[string]string{"facing": "up"})
	var ive *cblock.InvalidValueError
	assert.True(t, errors.As(err, &ive))
}

func TestDefinitionNeighbor(t *testing.T) {
	b, _, triggered, _ := breaker(t)
	d := b.Definition()

	s, err := d.Neighbor(b.DefaultState(), triggered, true)
	require.NoError(t, err)
	assert.True(t, cblock.MustGet(s, triggered))

	other, _, _, _ := breaker(t)
	_, err = d.Neighbor(other.DefaultState(), triggered, true)
	assert.Error(t, err)
}

func TestDuplicatePropertyNames(t *testing.T) {
	a, err := cblock.NewBoolProperty("lit", false)
	require.NoError(t, err)
	b, err := cblock.NewBoolProperty("lit", true)
	require.NoError(t, err)
	_, err = cblock.NewStateDefinition(a, b)
	var ce *cblock.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "lit", ce.Property)
}

func TestNoProperties(t *testing.T) {
	d, err := cblock.NewStateDefinition()
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())
	assert.Equal(t, d.State(0), d.Default())
}
