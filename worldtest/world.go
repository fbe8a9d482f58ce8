// Package worldtest provides an in-memory cblock.World that records every side
// effect, for testing behaviors and hosts without a running server.
package worldtest

import (
	"errors"
	"sync"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oriumgames/cblock"
)

// SetCall records a SetState call.
type SetCall struct {
	Pos   cube.Pos
	State cblock.State
	Flags cblock.UpdateFlags
}

// TickCall records a ScheduleTick call.
type TickCall struct {
	Pos   cube.Pos
	Delay int
}

// DestroyCall records a DestroyBlock call.
type DestroyCall struct {
	Pos  cube.Pos
	Drop bool
	// Block is what was at Pos, the custom block key or the host block.
	Block cblock.Key
}

// PlaceCall records a successful PlaceBlock call.
type PlaceCall struct {
	Pos   cube.Pos
	Item  cblock.Key
	Block cblock.Key
}

// World is an in-memory world. The zero value is not usable; use New.
type World struct {
	mu sync.Mutex

	engine *cblock.Engine

	states     map[cube.Pos]cblock.State
	blocks     map[cube.Pos]cblock.Key
	powered    map[cube.Pos]bool
	containers map[cube.Pos]cblock.Container
	forms      map[cblock.Key]cblock.Key

	tick  int64
	queue *cblock.TickQueue

	Sets      []SetCall
	Ticks     []TickCall
	Destroyed []DestroyCall
	Placed    []PlaceCall
}

// New creates an empty world. If e is not nil, SetState with UpdateNeighbors
// notifies neighbouring custom blocks through e, and custom signal sources
// power their neighbours.
func New(e *cblock.Engine) *World {
	return &World{
		engine:     e,
		states:     make(map[cube.Pos]cblock.State),
		blocks:     make(map[cube.Pos]cblock.Key),
		powered:    make(map[cube.Pos]bool),
		containers: make(map[cube.Pos]cblock.Container),
		forms:      make(map[cblock.Key]cblock.Key),
		queue:      cblock.NewTickQueue(),
	}
}

// Put stores s at pos without recording a call or notifying anything.
func (w *World) Put(pos cube.Pos, s cblock.State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s.IsEmpty() {
		delete(w.states, pos)
		return
	}
	w.states[pos] = s
}

// PutBlock stores the host block id at pos. Air clears it.
func (w *World) PutBlock(pos cube.Pos, id cblock.Key) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if id == cblock.Air || id.IsZero() {
		delete(w.blocks, pos)
		return
	}
	w.blocks[pos] = id
}

// PutContainer attaches c to pos.
func (w *World) PutContainer(pos cube.Pos, c cblock.Container) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.containers[pos] = c
}

// SetBlockForm declares that item places the host block id.
func (w *World) SetBlockForm(item, id cblock.Key) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.forms[item] = id
}

// SetPowered marks pos as having a powered neighbour.
func (w *World) SetPowered(pos cube.Pos, powered bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.powered[pos] = powered
}

// Reset forgets every recorded call.
func (w *World) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Sets, w.Ticks, w.Destroyed, w.Placed = nil, nil, nil, nil
}

// StateAt returns the custom state stored at pos.
func (w *World) StateAt(pos cube.Pos) cblock.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.states[pos]
}

// SetState records the call and stores s at pos.
func (w *World) SetState(pos cube.Pos, s cblock.State, flags cblock.UpdateFlags) {
	w.mu.Lock()
	w.Sets = append(w.Sets, SetCall{Pos: pos, State: s, Flags: flags})
	if s.IsEmpty() {
		delete(w.states, pos)
	} else {
		w.states[pos] = s
		delete(w.blocks, pos)
	}
	e := w.engine
	w.mu.Unlock()

	if e != nil && flags.Has(cblock.UpdateNeighbors) {
		e.NotifyNeighbors(w, pos)
	}
}

// ScheduleTick records the call and queues a tick for Advance.
func (w *World) ScheduleTick(pos cube.Pos, delay int) {
	w.mu.Lock()
	w.Ticks = append(w.Ticks, TickCall{Pos: pos, Delay: delay})
	due := w.tick + int64(delay)
	w.mu.Unlock()
	w.queue.Schedule(pos, due)
}

// HasNeighborSignal reports whether pos was marked powered, or, with an
// engine, whether a neighbouring custom block emits a signal towards pos.
func (w *World) HasNeighborSignal(pos cube.Pos) bool {
	w.mu.Lock()
	powered, e := w.powered[pos], w.engine
	w.mu.Unlock()
	if powered || e == nil {
		return powered
	}
	for _, f := range cblock.AllFaces() {
		if e.Signal(w, pos.Side(f), f.Opposite()) > 0 {
			return true
		}
	}
	return false
}

// DestroyBlock records the call and clears pos.
func (w *World) DestroyBlock(pos cube.Pos, drop bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	call := DestroyCall{Pos: pos, Drop: drop}
	if s, ok := w.states[pos]; ok {
		call.Block = s.Block().Key()
		delete(w.states, pos)
	} else if id, ok := w.blocks[pos]; ok {
		call.Block = id
		delete(w.blocks, pos)
	}
	w.Destroyed = append(w.Destroyed, call)
}

// Container returns the container attached with PutContainer.
func (w *World) Container(pos cube.Pos) (cblock.Container, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.containers[pos]
	if !ok {
		return nil, false
	}
	return c, true
}

// Block returns the host block id stored at pos.
func (w *World) Block(pos cube.Pos) (cblock.Key, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id, ok := w.blocks[pos]
	return id, ok
}

// BlockForm returns the host block declared with SetBlockForm.
func (w *World) BlockForm(item cblock.Key) (cblock.Key, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id, ok := w.forms[item]
	return id, ok
}

// PlaceBlock places the block form of item at pos and records the call.
func (w *World) PlaceBlock(pos cube.Pos, item cblock.Key) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	id, ok := w.forms[item]
	if !ok {
		return false
	}
	delete(w.states, pos)
	w.blocks[pos] = id
	w.Placed = append(w.Placed, PlaceCall{Pos: pos, Item: item, Block: id})
	return true
}

// CurrentTick returns the world's tick counter.
func (w *World) CurrentTick() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tick
}

// Advance runs n ticks, dispatching every scheduled tick that becomes due
// through e.
func (w *World) Advance(e *cblock.Engine, n int) {
	for range n {
		w.mu.Lock()
		w.tick++
		now := w.tick
		w.mu.Unlock()
		for _, pos := range w.queue.PopDue(now) {
			e.Tick(w, pos)
		}
	}
}

// ErrSlot is returned by a Container configured to fail.
var ErrSlot = errors.New("worldtest: slot unavailable")

// Container is an in-memory container. ReadErr and WriteErr make slot access fail.
type Container struct {
	mu       sync.Mutex
	Slots    []cblock.Stack
	ReadErr  error
	WriteErr error
}

// NewContainer creates a container holding stacks.
func NewContainer(stacks ...cblock.Stack) *Container {
	return &Container{Slots: stacks}
}

// Size returns the number of slots.
func (c *Container) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Slots)
}

// Slot returns the stack in slot i, or ReadErr if set.
func (c *Container) Slot(i int) (cblock.Stack, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ReadErr != nil {
		return cblock.Stack{}, c.ReadErr
	}
	return c.Slots[i], nil
}

// SetSlot replaces slot i, or returns WriteErr if set.
func (c *Container) SetSlot(i int, s cblock.Stack) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.WriteErr != nil {
		return c.WriteErr
	}
	c.Slots[i] = s
	return nil
}
