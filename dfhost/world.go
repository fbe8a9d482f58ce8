package dfhost

import (
	"fmt"
	"maps"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/entity"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/item/inventory"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/df-mc/dragonfly/server/world/particle"
	"github.com/oriumgames/cblock"
)

// redstoneBlock is the host block treated as a constant signal source.
var redstoneBlock = cblock.MustKey("minecraft:redstone_block")

// World adapts a Dragonfly transaction to cblock.World. A World is only valid
// for the transaction it was created for.
type World struct {
	host  *Host
	state *worldState
	tx    *world.Tx
}

// Compile-time check that World implements cblock.World.
var _ cblock.World = (*World)(nil)

// Tx returns the transaction the World is bound to.
func (w *World) Tx() *world.Tx {
	return w.tx
}

// StateAt returns the custom state at pos. An entry whose appearance was
// replaced by something other than the host, such as an explosion or another
// plugin, is dropped and the empty state is returned.
func (w *World) StateAt(pos cube.Pos) cblock.State {
	s := w.state.overlay.get(w.host.registry(), pos)
	if s.IsEmpty() {
		return s
	}
	if !sameBlock(w.tx.Block(pos), w.host.appearance(s)) {
		w.state.overlay.removeIf(pos, s)
		return cblock.State{}
	}
	return s
}

// SetState records s at pos and shows its appearance. Without UpdateNeighbors
// the host block is replaced without block updates.
func (w *World) SetState(pos cube.Pos, s cblock.State, flags cblock.UpdateFlags) {
	w.state.overlay.set(w.host.registry(), pos, s)

	var opts *world.SetOpts
	if !flags.Has(cblock.UpdateNeighbors) {
		opts = &world.SetOpts{DisableBlockUpdates: true}
	}
	if s.IsEmpty() {
		w.tx.SetBlock(pos, nil, opts)
	} else {
		w.tx.SetBlock(pos, w.host.appearance(s), opts)
	}
	if flags.Has(cblock.UpdateNeighbors) {
		w.host.engine.NotifyNeighbors(w, pos)
	}
}

// ScheduleTick queues a tick for pos on the host's tick loop.
func (w *World) ScheduleTick(pos cube.Pos, delay int) {
	w.state.schedule(pos, delay)
}

// HasNeighborSignal reports whether a neighbouring custom block emits a signal
// towards pos, or a neighbouring host block is a redstone block.
func (w *World) HasNeighborSignal(pos cube.Pos) bool {
	for _, f := range cblock.AllFaces() {
		n := pos.Side(f)
		if s := w.StateAt(n); !s.IsEmpty() {
			if w.host.engine.Signal(w, n, f.Opposite()) > 0 {
				return true
			}
			continue
		}
		if id, ok := blockKey(w.tx.Block(n)); ok && id == redstoneBlock {
			return true
		}
	}
	return false
}

// DestroyBlock breaks the block at pos with break particles. Host blocks drop
// what they drop when broken by hand.
func (w *World) DestroyBlock(pos cube.Pos, drop bool) {
	b := w.tx.Block(pos)
	if _, ok := blockKey(b); !ok {
		return
	}
	if _, custom := w.state.overlay.remove(pos); !custom && drop {
		if breakable, ok := b.(interface{ BreakInfo() block.BreakInfo }); ok {
			if drops := breakable.BreakInfo().Drops; drops != nil {
				for _, d := range drops(item.ToolNone{}, nil) {
					w.tx.AddEntity(entity.NewItem(world.EntitySpawnOpts{Position: pos.Vec3Centre()}, d))
				}
			}
		}
	}
	w.tx.AddParticle(pos.Vec3Centre(), particle.BlockBreak{Block: b})
	w.tx.SetBlock(pos, nil, nil)
	w.host.engine.NotifyNeighbors(w, pos)
}

// inventoryHolder is implemented by host blocks with an inventory, such as
// chests and barrels.
type inventoryHolder interface {
	Inventory(tx *world.Tx, pos cube.Pos) *inventory.Inventory
}

// Container returns the inventory of the host block at pos, if it has one.
func (w *World) Container(pos cube.Pos) (cblock.Container, bool) {
	h, ok := w.tx.Block(pos).(inventoryHolder)
	if !ok {
		return nil, false
	}
	inv := h.Inventory(w.tx, pos)
	if inv == nil {
		return nil, false
	}
	return &container{inv: inv}, true
}

// Block returns the identifier of the host block at pos. It returns false for air.
func (w *World) Block(pos cube.Pos) (cblock.Key, bool) {
	return blockKey(w.tx.Block(pos))
}

// BlockForm returns the identifier of the host block the item it places.
func (w *World) BlockForm(it cblock.Key) (cblock.Key, bool) {
	b, ok := blockForm(it)
	if !ok {
		return cblock.Key{}, false
	}
	return blockKey(b)
}

// PlaceBlock places the host block form of the item it at pos and notifies
// the neighbours.
func (w *World) PlaceBlock(pos cube.Pos, it cblock.Key) bool {
	b, ok := blockForm(it)
	if !ok {
		return false
	}
	w.tx.SetBlock(pos, b, nil)
	w.host.engine.NotifyNeighbors(w, pos)
	return true
}

// blockKey returns the identifier of b. It returns false for air.
func blockKey(b world.Block) (cblock.Key, bool) {
	if b == nil {
		return cblock.Key{}, false
	}
	if _, air := b.(block.Air); air {
		return cblock.Key{}, false
	}
	name, _ := b.EncodeBlock()
	k, err := cblock.ParseKey(name)
	if err != nil || k == cblock.Air {
		return cblock.Key{}, false
	}
	return k, true
}

// sameBlock reports whether a and b encode to the same name and properties.
func sameBlock(a, b world.Block) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	an, ap := a.EncodeBlock()
	bn, bp := b.EncodeBlock()
	return an == bn && maps.Equal(ap, bp)
}

// blockForm returns the block the item it places.
func blockForm(it cblock.Key) (world.Block, bool) {
	i, ok := world.ItemByName(it.String(), 0)
	if !ok {
		return nil, false
	}
	b, ok := i.(world.Block)
	return b, ok
}

// container adapts a host inventory to cblock.Container.
type container struct {
	inv *inventory.Inventory
}

func (c *container) Size() int {
	return c.inv.Size()
}

func (c *container) Slot(i int) (cblock.Stack, error) {
	s, err := c.inv.Item(i)
	if err != nil {
		return cblock.Stack{}, err
	}
	return stackOf(s), nil
}

// SetSlot writes s to slot i. When the slot already holds the same item its
// count is adjusted in place so the stack keeps its other data.
func (c *container) SetSlot(i int, s cblock.Stack) error {
	cur, err := c.inv.Item(i)
	if err != nil {
		return err
	}
	if s.Empty() {
		return c.inv.SetItem(i, item.Stack{})
	}
	if stackOf(cur).Item == s.Item {
		return c.inv.SetItem(i, cur.Grow(s.Count-cur.Count()))
	}
	it, ok := world.ItemByName(s.Item.String(), 0)
	if !ok {
		return fmt.Errorf("cblock: unknown item '%s'", s.Item)
	}
	return c.inv.SetItem(i, item.NewStack(it, s.Count))
}

// stackOf converts a host item stack.
func stackOf(s item.Stack) cblock.Stack {
	if s.Empty() {
		return cblock.Stack{}
	}
	name, _ := s.Item().EncodeItem()
	k, err := cblock.ParseKey(name)
	if err != nil {
		return cblock.Stack{}
	}
	return cblock.Stack{Item: k, Count: s.Count()}
}
