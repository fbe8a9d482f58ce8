package cblock_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oriumgames/cblock"
	"github.com/oriumgames/cblock/worldtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var origin = cube.Pos{0, 64, 0}

// trace collects the names of behaviors in the order they were called.
type trace struct{ calls []string }

func (t *trace) add(name string) { t.calls = append(t.calls, name) }

type interactor struct {
	owner  *cblock.CustomBlock
	name   string
	result cblock.InteractionResult
	trace  *trace
}

func (b *interactor) Owner() *cblock.CustomBlock { return b.owner }

func (b *interactor) UseWithoutItem(cblock.World, cblock.UseContext, cblock.State) cblock.InteractionResult {
	b.trace.add(b.name)
	return b.result
}

type itemInteractor struct{ interactor }

func (b *itemInteractor) UseWithoutItem(cblock.World, cblock.UseContext, cblock.State) cblock.InteractionResult {
	return cblock.Pass
}

func (b *itemInteractor) UseOnBlock(cblock.World, cblock.UseContext, cblock.State) cblock.InteractionResult {
	b.trace.add(b.name)
	return b.result
}

// replacer swaps its block for another type and passes.
type replacer struct {
	owner *cblock.CustomBlock
	with  cblock.Key
	trace *trace
}

func (b *replacer) Owner() *cblock.CustomBlock { return b.owner }

func (b *replacer) UseWithoutItem(w cblock.World, ctx cblock.UseContext, _ cblock.State) cblock.InteractionResult {
	b.trace.add("replace")
	other, _ := b.owner.Registry().Block(b.with)
	w.SetState(ctx.Pos, other.DefaultState(), cblock.UpdateMinimal)
	return cblock.Pass
}

type source struct {
	owner *cblock.CustomBlock
	power int
}

func (b *source) Owner() *cblock.CustomBlock { return b.owner }
func (b *source) IsSignalSource(cblock.State) bool { return b.power > 0 }
func (b *source) Signal(_ cblock.World, _ cube.Pos, _ cblock.State, _ cube.Face) int {
	return b.power
}
func (b *source) DirectSignal(_ cblock.World, _ cube.Pos, _ cblock.State, _ cube.Face) int {
	return b.power / 2
}

type ticker struct {
	owner *cblock.CustomBlock
	name  string
	fail  bool
	trace *trace
}

func (b *ticker) Owner() *cblock.CustomBlock { return b.owner }

func (b *ticker) Tick(cblock.World, cube.Pos, cblock.State) {
	if b.fail {
		panic(&cblock.InvalidValueError{Property: "power", Value: 99})
	}
	b.trace.add(b.name)
}

type placer struct {
	owner *cblock.CustomBlock
	power *cblock.IntProperty
	mode  string
}

func (b *placer) Owner() *cblock.CustomBlock { return b.owner }

func (b *placer) UpdateStateForPlacement(ctx cblock.PlaceContext, s cblock.State) cblock.State {
	switch b.mode {
	case "empty":
		return cblock.State{}
	case "panic":
		panic("placement failed")
	}
	return cblock.MustWith(s, b.power.Property, ctx.Item.Count)
}

type counter struct {
	dispatched map[cblock.Capability]int
	faults     int
}

func (c *counter) Dispatched(cp cblock.Capability, _ cblock.Key) { c.dispatched[cp]++ }
func (c *counter) Fault(cblock.Capability, cblock.Key, error) { c.faults++ }

type engineFixture struct {
	reg   *cblock.Registry
	e     *cblock.Engine
	w     *worldtest.World
	trace *trace
	logs  *bytes.Buffer
	obs   *counter
}

var (
	interactType = cblock.MustKey("example:interact")
	useItemType  = cblock.MustKey("example:use_item")
	replaceType  = cblock.MustKey("example:replace")
	sourceType   = cblock.MustKey("example:source")
	tickerType   = cblock.MustKey("example:ticker")
	placerType   = cblock.MustKey("example:placer")
	otherKey     = cblock.MustKey("example:other")
)

func newEngineFixture(t *testing.T, strict bool, behaviors ...cblock.BehaviorSpec) *engineFixture {
	t.Helper()
	f := &engineFixture{trace: &trace{}, logs: &bytes.Buffer{}, obs: &counter{dispatched: make(map[cblock.Capability]int)}}

	name := func(args cblock.Args) string {
		n, _ := args["name"].(string)
		return n
	}
	result := func(args cblock.Args) cblock.InteractionResult {
		r, _ := args["result"].(cblock.InteractionResult)
		return r
	}
	power, err := cblock.NewIntProperty("power", 0, 15, 0)
	require.NoError(t, err)

	reg, err := cblock.NewBuilder().
		Factory(interactType, func(o *cblock.CustomBlock, args cblock.Args) (cblock.Behavior, error) {
			return &interactor{owner: o, name: name(args), result: result(args), trace: f.trace}, nil
		}).
		Factory(useItemType, func(o *cblock.CustomBlock, args cblock.Args) (cblock.Behavior, error) {
			return &itemInteractor{interactor{owner: o, name: name(args), result: result(args), trace: f.trace}}, nil
		}).
		Factory(replaceType, func(o *cblock.CustomBlock, _ cblock.Args) (cblock.Behavior, error) {
			return &replacer{owner: o, with: otherKey, trace: f.trace}, nil
		}).
		Factory(sourceType, func(o *cblock.CustomBlock, args cblock.Args) (cblock.Behavior, error) {
			p, _ := args["power"].(int)
			return &source{owner: o, power: p}, nil
		}).
		Factory(tickerType, func(o *cblock.CustomBlock, args cblock.Args) (cblock.Behavior, error) {
			fail, _ := args["fail"].(bool)
			return &ticker{owner: o, name: name(args), fail: fail, trace: f.trace}, nil
		}).
		Factory(placerType, func(o *cblock.CustomBlock, args cblock.Args) (cblock.Behavior, error) {
			p, err := cblock.PropertyOf[*cblock.IntProperty](o, placerType, "power")
			if err != nil {
				return nil, err
			}
			mode, _ := args["mode"].(string)
			return &placer{owner: o, power: p, mode: mode}, nil
		}).
		Block(cblock.BlockSpec{
			Key:        cblock.MustKey("example:probe"),
			Properties: []cblock.AnyProperty{power},
			Behaviors:  behaviors,
		}).
		Block(cblock.BlockSpec{
			Key:       otherKey,
			Behaviors: []cblock.BehaviorSpec{{Type: interactType, Args: cblock.Args{"name": "other", "result": cblock.Success}}},
		}).
		Build()
	require.NoError(t, err)

	f.reg = reg
	f.e = cblock.NewEngine(reg,
		cblock.WithStrict(strict),
		cblock.WithObserver(f.obs),
		cblock.WithLogger(slog.New(slog.NewTextHandler(f.logs, nil))),
	)
	f.w = worldtest.New(f.e)
	probe, _ := reg.Block(cblock.MustKey("example:probe"))
	f.w.Put(origin, probe.DefaultState())
	return f
}

func use(name string, r cblock.InteractionResult) cblock.BehaviorSpec {
	return cblock.BehaviorSpec{Type: interactType, Args: cblock.Args{"name": name, "result": r}}
}

func useItem(name string, r cblock.InteractionResult) cblock.BehaviorSpec {
	return cblock.BehaviorSpec{Type: useItemType, Args: cblock.Args{"name": name, "result": r}}
}

var stick = cblock.Stack{Item: cblock.MustKey("minecraft:stick"), Count: 1}

func TestUseFirstResultWins(t *testing.T) {
	f := newEngineFixture(t, true, use("a", cblock.Pass), use("b", cblock.Success), use("c", cblock.SuccessAndCancel))

	res := f.e.Use(f.w, cblock.UseContext{Pos: origin})
	assert.Equal(t, cblock.Success, res)
	assert.Equal(t, []string{"a", "b"}, f.trace.calls)
	assert.Equal(t, 2, f.obs.dispatched[cblock.CapUse])
}

func TestUseItemHooksRunFirst(t *testing.T) {
	t.Run("item passes", func(t *testing.T) {
		f := newEngineFixture(t, true, use("hand", cblock.SuccessAndCancel), useItem("item", cblock.Pass))
		res := f.e.Use(f.w, cblock.UseContext{Pos: origin, Item: stick})
		assert.Equal(t, cblock.SuccessAndCancel, res)
		assert.Equal(t, []string{"item", "hand"}, f.trace.calls)
	})
	t.Run("item consumes", func(t *testing.T) {
		f := newEngineFixture(t, true, use("hand", cblock.SuccessAndCancel), useItem("item", cblock.Fail))
		res := f.e.Use(f.w, cblock.UseContext{Pos: origin, Item: stick})
		assert.Equal(t, cblock.Fail, res)
		assert.True(t, res.Cancels())
		assert.Equal(t, []string{"item"}, f.trace.calls)
	})
	t.Run("empty hand", func(t *testing.T) {
		f := newEngineFixture(t, true, use("hand", cblock.Success), useItem("item", cblock.Fail))
		res := f.e.Use(f.w, cblock.UseContext{Pos: origin})
		assert.Equal(t, cblock.Success, res)
		assert.Equal(t, []string{"hand"}, f.trace.calls)
	})
}

func TestUseWithoutCustomBlock(t *testing.T) {
	f := newEngineFixture(t, true, use("a", cblock.Success))
	res := f.e.Use(f.w, cblock.UseContext{Pos: origin.Side(cube.FaceUp)})
	assert.Equal(t, cblock.Pass, res)
	assert.Empty(t, f.trace.calls)
	assert.Zero(t, f.obs.dispatched[cblock.CapUse])
}

func TestDispatchStopsWhenBlockChanges(t *testing.T) {
	f := newEngineFixture(t, true, cblock.BehaviorSpec{Type: replaceType}, use("after", cblock.Success))

	res := f.e.Use(f.w, cblock.UseContext{Pos: origin})
	assert.Equal(t, cblock.Pass, res)
	assert.Equal(t, []string{"replace"}, f.trace.calls)
	assert.Equal(t, otherKey, f.w.StateAt(origin).Block().Key())
}

func TestSignalIsStrongestSource(t *testing.T) {
	f := newEngineFixture(t, true,
		cblock.BehaviorSpec{Type: sourceType, Args: cblock.Args{"power": 3}},
		cblock.BehaviorSpec{Type: sourceType, Args: cblock.Args{"power": 9}},
		cblock.BehaviorSpec{Type: sourceType, Args: cblock.Args{"power": 5}},
	)
	assert.True(t, f.e.IsSignalSource(f.w, origin))
	assert.Equal(t, 9, f.e.Signal(f.w, origin, cube.FaceNorth))
	assert.Equal(t, 4, f.e.DirectSignal(f.w, origin, cube.FaceNorth))

	empty := origin.Side(cube.FaceDown)
	assert.False(t, f.e.IsSignalSource(f.w, empty))
	assert.Zero(t, f.e.Signal(f.w, empty, cube.FaceUp))
}

func TestSignalSourceFlag(t *testing.T) {
	f := newEngineFixture(t, true,
		cblock.BehaviorSpec{Type: sourceType, Args: cblock.Args{"power": 0}},
		cblock.BehaviorSpec{Type: sourceType, Args: cblock.Args{"power": 2}},
	)
	assert.True(t, f.e.IsSignalSource(f.w, origin))
}

func TestFaultIsRecovered(t *testing.T) {
	f := newEngineFixture(t, false,
		cblock.BehaviorSpec{Type: tickerType, Args: cblock.Args{"name": "broken", "fail": true}},
		cblock.BehaviorSpec{Type: tickerType, Args: cblock.Args{"name": "healthy"}},
	)

	assert.NotPanics(t, func() { f.e.Tick(f.w, origin) })
	assert.Equal(t, []string{"healthy"}, f.trace.calls)
	assert.Equal(t, 1, f.obs.faults)
	assert.Equal(t, 2, f.obs.dispatched[cblock.CapTick])

	out := f.logs.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "cblock: behavior hook failed")
	assert.Contains(t, out, "capability=tick")
	assert.Contains(t, out, "block=example:probe")
}

func TestStrictFaultPanics(t *testing.T) {
	f := newEngineFixture(t, true, cblock.BehaviorSpec{Type: tickerType, Args: cblock.Args{"fail": true}})
	assert.Panics(t, func() { f.e.Tick(f.w, origin) })
}

func TestPlace(t *testing.T) {
	key := cblock.MustKey("example:probe")
	at := origin.Side(cube.FaceEast)

	f := newEngineFixture(t, true, cblock.BehaviorSpec{Type: placerType})
	s, ok := f.e.Place(f.w, at, key, cblock.PlaceContext{Item: cblock.Stack{Item: key, Count: 7}})
	require.True(t, ok)
	assert.Equal(t, "example:probe[power=7]", s.String())
	assert.Equal(t, s, f.w.StateAt(at))
	require.Len(t, f.w.Sets, 1)
	assert.Equal(t, worldtest.SetCall{Pos: at, State: s, Flags: cblock.UpdateAll}, f.w.Sets[0])

	_, ok = f.e.Place(f.w, at, cblock.MustKey("example:unknown"), cblock.PlaceContext{})
	assert.False(t, ok)

	f = newEngineFixture(t, true, cblock.BehaviorSpec{Type: placerType, Args: cblock.Args{"mode": "empty"}})
	_, ok = f.e.Place(f.w, at, key, cblock.PlaceContext{})
	assert.False(t, ok)
	assert.Empty(t, f.w.Sets)

	f = newEngineFixture(t, false, cblock.BehaviorSpec{Type: placerType, Args: cblock.Args{"mode": "panic"}})
	_, ok = f.e.Place(f.w, at, key, cblock.PlaceContext{})
	assert.False(t, ok)
	assert.Equal(t, 1, f.obs.faults)
	assert.Contains(t, f.logs.String(), "placement failed")
}

func TestNotifyNeighbors(t *testing.T) {
	f := newEngineFixture(t, true)
	probe, _ := f.reg.Block(cblock.MustKey("example:probe"))
	assert.False(t, probe.Capabilities().Has(cblock.CapNeighbor))
	assert.NotPanics(t, func() { f.e.NotifyNeighbors(f.w, origin.Side(cube.FaceUp)) })
	assert.Same(t, f.reg, f.e.Registry())
}
