// Package dfhost runs custom blocks inside a Dragonfly server.
//
// A Host keeps, per world, the custom state of every custom block position
// and displays each state through its configured appearance. It drives
// scheduled ticks from its own tick loop and forwards player interactions
// through a Handler:
//
//	host := dfhost.New(engine, dfhost.WithLogger(log))
//	host.Start()
//	defer host.Stop()
//
//	for p := range srv.Accept() {
//		p.Handle(host.Handler())
//	}
package dfhost

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/oriumgames/cblock"
)

// Host binds an Engine to Dragonfly worlds.
type Host struct {
	engine   *cblock.Engine
	log      *slog.Logger
	fallback world.Block

	worlds   map[*world.World]*worldState
	worldsMu sync.Mutex

	lifeMu   sync.Mutex
	running  atomic.Bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	tickRate time.Duration
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger used for tick loop failures.
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.log = l
		}
	}
}

// WithTickRate sets the duration of one tick. The default is 50ms.
func WithTickRate(d time.Duration) Option {
	return func(h *Host) {
		if d > 0 {
			h.tickRate = d
		}
	}
}

// WithFallback sets the block shown for states whose appearance is missing
// or names an unknown block. The default is stone.
func WithFallback(b world.Block) Option {
	return func(h *Host) {
		if b != nil {
			h.fallback = b
		}
	}
}

// New creates a Host for e.
func New(e *cblock.Engine, opts ...Option) *Host {
	h := &Host{
		engine:   e,
		log:      slog.Default(),
		fallback: block.Stone{},
		worlds:   make(map[*world.World]*worldState),
		tickRate: 50 * time.Millisecond, // 20 TPS
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Engine returns the engine the host dispatches through.
func (h *Host) Engine() *cblock.Engine {
	return h.engine
}

// World returns the cblock.World view of tx.
func (h *Host) World(tx *world.Tx) *World {
	return &World{host: h, state: h.stateOf(tx.World()), tx: tx}
}

// Place places the custom block key at pos in tx, as a block would place it.
func (h *Host) Place(tx *world.Tx, pos cube.Pos, key cblock.Key, ctx cblock.PlaceContext) (cblock.State, bool) {
	return h.engine.Place(h.World(tx), pos, key, ctx)
}

// Forget drops all custom state of w. The host blocks are left as they are.
func (h *Host) Forget(w *world.World) {
	h.worldsMu.Lock()
	delete(h.worlds, w)
	h.worldsMu.Unlock()
}

// Start begins the tick loop. A stopped Host may be started again.
func (h *Host) Start() {
	h.lifeMu.Lock()
	defer h.lifeMu.Unlock()
	if h.running.Swap(true) {
		return // Already running
	}
	h.stopCh = make(chan struct{})
	h.doneCh = make(chan struct{})
	go h.tickLoop(h.stopCh, h.doneCh)
}

// Stop stops the tick loop and waits for the current tick to finish.
func (h *Host) Stop() {
	h.lifeMu.Lock()
	defer h.lifeMu.Unlock()
	if !h.running.Swap(false) {
		return // Not running
	}
	close(h.stopCh)
	<-h.doneCh
}

// Running reports whether the tick loop is running.
func (h *Host) Running() bool {
	return h.running.Load()
}

func (h *Host) registry() *cblock.Registry {
	return h.engine.Registry()
}

// appearance returns the host block displaying s.
func (h *Host) appearance(s cblock.State) world.Block {
	a, ok := s.Block().Appearance(s)
	if !ok {
		return h.fallback
	}
	b, ok := world.BlockByName(a.Name, a.Properties)
	if !ok {
		h.log.Warn("cblock: unknown appearance block", "block", s.Block().Key(), "appearance", a.Name)
		return h.fallback
	}
	return b
}

func (h *Host) stateOf(w *world.World) *worldState {
	h.worldsMu.Lock()
	defer h.worldsMu.Unlock()
	st, ok := h.worlds[w]
	if !ok {
		st = newWorldState()
		h.worlds[w] = st
	}
	return st
}

func (h *Host) tickLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(h.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			h.tick()
		}
	}
}

// tick advances every known world by one tick.
func (h *Host) tick() {
	h.worldsMu.Lock()
	worlds := make(map[*world.World]*worldState, len(h.worlds))
	for w, st := range h.worlds {
		worlds[w] = st
	}
	h.worldsMu.Unlock()

	for w, st := range worlds {
		notify, due := st.advance()
		if len(notify) == 0 && len(due) == 0 {
			continue
		}
		<-w.Exec(func(tx *world.Tx) {
			defer func() {
				if r := recover(); r != nil {
					h.log.Error("cblock: world tick failed", "world", w.Name(), "err", fmt.Errorf("%v", r), "stack", string(debug.Stack()))
				}
			}()
			view := &World{host: h, state: st, tx: tx}
			for _, pos := range notify {
				h.engine.NotifyNeighbors(view, pos)
			}
			for _, pos := range due {
				h.engine.Tick(view, pos)
			}
		})
	}
}

// worldState is the custom block bookkeeping of one world.
type worldState struct {
	overlay *overlay

	mu      sync.Mutex
	tick    int64
	queue   *cblock.TickQueue
	changed []cube.Pos
}

func newWorldState() *worldState {
	return &worldState{overlay: newOverlay(), queue: cblock.NewTickQueue()}
}

// schedule queues a tick for pos. Delays below one tick run on the next tick.
func (st *worldState) schedule(pos cube.Pos, delay int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.queue.Schedule(pos, st.tick+int64(max(delay, 1)))
}

// changedAt records a host block change at pos whose neighbours are notified
// on the next tick.
func (st *worldState) changedAt(pos cube.Pos) {
	st.mu.Lock()
	st.changed = append(st.changed, pos)
	st.mu.Unlock()
}

// advance moves to the next tick and returns the changed positions and the
// positions whose ticks are due.
func (st *worldState) advance() (changed, due []cube.Pos) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.tick++
	changed, st.changed = st.changed, nil
	return changed, st.queue.PopDue(st.tick)
}
