package cblock

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/df-mc/dragonfly/server/block/cube"
)

// Engine routes world events to the behaviors of the custom block at the
// affected position.
//
// Concurrency:
// The Engine holds no mutable state. Its methods are meant to be called from
// the world's tick goroutine, with a World bound to that tick.
//
// Faults:
// A panic raised by a behavior hook, typically an *UnknownPropertyError or
// *InvalidValueError from MustGet/MustWith, is recovered, logged and reported
// to the Observer, and the hook is treated as a no-op. With WithStrict(true)
// the panic propagates instead, which is what development builds want.
type Engine struct {
	registry *Registry
	log      *slog.Logger
	observer Observer
	strict   bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for recovered faults.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithObserver sets the observer notified of every dispatch and fault.
func WithObserver(o Observer) EngineOption {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithStrict makes behavior faults panic instead of being recovered.
func WithStrict(strict bool) EngineOption {
	return func(e *Engine) {
		e.strict = strict
	}
}

// NewEngine creates an engine dispatching to the block types of reg.
func NewEngine(reg *Registry, opts ...EngineOption) *Engine {
	e := &Engine{
		registry: reg,
		log:      slog.Default(),
		observer: NopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the engine dispatches for.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Use dispatches a player interaction. When the player holds an item the
// ItemInteractor hooks run first; if all of them pass, the Interactor hooks
// run. The first result other than Pass is returned. Pass is returned when
// there is no custom block at ctx.Pos.
func (e *Engine) Use(w World, ctx UseContext) InteractionResult {
	res := Pass
	if !ctx.Item.Empty() {
		e.each(w, ctx.Pos, CapUseItem, func(beh Behavior, s State) bool {
			res = beh.(ItemInteractor).UseOnBlock(w, ctx, s)
			return res.Consumed()
		})
		if res.Consumed() {
			return res
		}
	}
	e.each(w, ctx.Pos, CapUse, func(beh Behavior, s State) bool {
		res = beh.(Interactor).UseWithoutItem(w, ctx, s)
		return res.Consumed()
	})
	return res
}

// NeighborChanged dispatches a neighbour or redstone change next to pos.
func (e *Engine) NeighborChanged(w World, pos cube.Pos) {
	e.each(w, pos, CapNeighbor, func(beh Behavior, s State) bool {
		beh.(NeighborListener).NeighborChanged(w, pos, s)
		return false
	})
}

// NotifyNeighbors dispatches NeighborChanged to the six blocks adjacent to pos.
func (e *Engine) NotifyNeighbors(w World, pos cube.Pos) {
	for _, f := range AllFaces() {
		e.NeighborChanged(w, pos.Side(f))
	}
}

// Tick dispatches a scheduled tick for pos.
func (e *Engine) Tick(w World, pos cube.Pos) {
	e.each(w, pos, CapTick, func(beh Behavior, s State) bool {
		beh.(Ticker).Tick(w, pos, s)
		return false
	})
}

// IsSignalSource reports whether the custom block at pos can emit a signal.
func (e *Engine) IsSignalSource(w World, pos cube.Pos) bool {
	src := false
	e.each(w, pos, CapSignal, func(beh Behavior, s State) bool {
		src = beh.(SignalSource).IsSignalSource(s)
		return src
	})
	return src
}

// Signal returns the strongest weak signal the custom block at pos emits towards face.
func (e *Engine) Signal(w World, pos cube.Pos, face cube.Face) int {
	power := 0
	e.each(w, pos, CapSignal, func(beh Behavior, s State) bool {
		power = max(power, beh.(SignalSource).Signal(w, pos, s, face))
		return false
	})
	return power
}

// DirectSignal returns the strongest strong signal the custom block at pos emits towards face.
func (e *Engine) DirectSignal(w World, pos cube.Pos, face cube.Face) int {
	power := 0
	e.each(w, pos, CapSignal, func(beh Behavior, s State) bool {
		power = max(power, beh.(SignalSource).DirectSignal(w, pos, s, face))
		return false
	})
	return power
}

// PlacementState computes the state block takes when placed as described by
// ctx. It returns the sentinel state if a Placer faulted.
func (e *Engine) PlacementState(block *CustomBlock, ctx PlaceContext) State {
	var s State
	e.guard(CapPlace, block, ctx.Pos, func() {
		s = block.PlacementState(ctx)
	})
	return s
}

// Place places the custom block registered under key at pos, writing its
// placement state with UpdateAll.
func (e *Engine) Place(w World, pos cube.Pos, key Key, ctx PlaceContext) (State, bool) {
	b, ok := e.registry.Block(key)
	if !ok {
		return State{}, false
	}
	ctx.Pos = pos
	s := e.PlacementState(b, ctx)
	if s.IsEmpty() {
		return State{}, false
	}
	w.SetState(pos, s, UpdateAll)
	return s, true
}

// each calls fn for every behavior of the block at pos implementing c, in
// order, until fn returns true. The state is read from the World before each
// call so later behaviors observe the writes of earlier ones; dispatch stops
// if the block at pos changes type.
func (e *Engine) each(w World, pos cube.Pos, c Capability, fn func(beh Behavior, s State) bool) {
	s := w.StateAt(pos)
	if s.IsEmpty() {
		return
	}
	b := s.Block()
	if b == nil || !b.caps.Has(c) {
		return
	}
	first := true
	for _, beh := range b.behaviors {
		if !CapabilitiesOf(beh).Has(c) {
			continue
		}
		if !first {
			s = w.StateAt(pos)
			if s.Block() != b {
				return
			}
		}
		first = false

		stop := false
		e.guard(c, b, pos, func() {
			stop = fn(beh, s)
		})
		if stop {
			return
		}
	}
}

// guard runs fn, recovering and reporting a panic unless the engine is strict.
func (e *Engine) guard(c Capability, b *CustomBlock, pos cube.Pos, fn func()) (ok bool) {
	e.observer.Dispatched(c, b.key)
	defer func() {
		if r := recover(); r != nil {
			if e.strict {
				panic(r)
			}
			err, isErr := r.(error)
			if !isErr {
				err = fmt.Errorf("cblock: panic: %v", r)
			}
			e.log.Error("cblock: behavior hook failed",
				"capability", c.String(),
				"block", b.key.String(),
				"pos", pos,
				"err", err,
				"stack", string(debug.Stack()))
			e.observer.Fault(c, b.key, err)
			ok = false
		}
	}()
	fn()
	return true
}
