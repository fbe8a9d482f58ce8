package dfhost

import (
	"sync"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/google/uuid"
	"github.com/oriumgames/cblock"
)

// overlay records the custom block state at each position of one world. The
// host block at those positions only mirrors the state's appearance.
type overlay struct {
	mu         sync.Mutex
	states     map[cube.Pos]cblock.State
	generation uuid.UUID
}

func newOverlay() *overlay {
	return &overlay{states: make(map[cube.Pos]cblock.State)}
}

// get returns the state at pos, re-resolving every entry first if reg was
// reloaded since the last access.
func (o *overlay) get(reg *cblock.Registry, pos cube.Pos) cblock.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sync(reg)
	return o.states[pos]
}

func (o *overlay) set(reg *cblock.Registry, pos cube.Pos, s cblock.State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sync(reg)
	if s.IsEmpty() {
		delete(o.states, pos)
		return
	}
	o.states[pos] = s
}

// remove deletes the entry at pos and returns what was there.
func (o *overlay) remove(pos cube.Pos) (cblock.State, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.states[pos]
	delete(o.states, pos)
	return s, ok
}

// removeIf deletes the entry at pos if it still holds s.
func (o *overlay) removeIf(pos cube.Pos, s cblock.State) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if cur, ok := o.states[pos]; !ok || cur != s {
		return false
	}
	delete(o.states, pos)
	return true
}

func (o *overlay) len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.states)
}

// sync migrates the entries to the current registry generation. Caller must hold o.mu.
func (o *overlay) sync(reg *cblock.Registry) {
	gen := reg.Generation()
	if gen == o.generation {
		return
	}
	for pos, s := range o.states {
		next, ok := reg.Resolve(s)
		if !ok {
			delete(o.states, pos)
			continue
		}
		o.states[pos] = next
	}
	o.generation = gen
}
