package dfhost

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/cblock"
)

// Handler forwards the block events of a player to the host.
//
// Dragonfly calls handlers from the world's transaction, so a Handler reads
// and changes custom state without extra synchronisation.
type Handler struct {
	player.NopHandler
	host *Host
}

// Handler returns a player.Handler for the host.
func (h *Host) Handler() *Handler {
	return &Handler{host: h}
}

// Compile-time check that Handler implements player.Handler.
var _ player.Handler = (*Handler)(nil)

// HandleItemUseOnBlock dispatches the interaction to a clicked custom block.
// Otherwise, if the held item places a custom block, that block is placed
// against the clicked face.
func (h *Handler) HandleItemUseOnBlock(ctx *player.Context, pos cube.Pos, face cube.Face, clickPos mgl64.Vec3) {
	p := ctx.Val()
	w := h.host.World(p.Tx())
	held, off := p.HeldItems()
	stack := stackOf(held)

	if !w.StateAt(pos).IsEmpty() {
		res := h.host.engine.Use(w, cblock.UseContext{
			Pos:       pos,
			Face:      face,
			ClickPos:  clickPos,
			Secondary: p.Sneaking(),
			Item:      stack,
			Player:    p.UUID(),
		})
		if res.Cancels() {
			ctx.Cancel()
			return
		}
		if res.Consumed() || !p.Sneaking() {
			return
		}
	}

	target, ok := placeableBlock(h.host.registry(), stack)
	if !ok {
		return
	}
	at := pos.Side(face)
	if _, occupied := w.Block(at); occupied {
		return
	}
	ctx.Cancel()
	_, placed := h.host.engine.Place(w, at, target, cblock.PlaceContext{
		Face:      face,
		Look:      p.Rotation().Vec3(),
		Secondary: p.Sneaking(),
		Item:      stack,
		Placer:    p.UUID(),
	})
	if placed && !p.GameMode().CreativeInventory() {
		p.SetHeldItems(held.Grow(-1), off)
	}
}

// HandleBlockBreak removes the custom state of a broken custom block. A
// custom block drops nothing of its appearance.
func (h *Handler) HandleBlockBreak(ctx *player.Context, pos cube.Pos, drops *[]item.Stack, xp *int) {
	st := h.host.stateOf(ctx.Val().Tx().World())
	if _, ok := st.overlay.remove(pos); ok {
		*drops = nil
		*xp = 0
	}
	st.changedAt(pos)
}

// HandleBlockPlace records a host block placed next to custom blocks.
func (h *Handler) HandleBlockPlace(ctx *player.Context, pos cube.Pos, b world.Block) {
	st := h.host.stateOf(ctx.Val().Tx().World())
	st.overlay.remove(pos)
	st.changedAt(pos)
}

// placeableBlock returns the custom block placed by the item of s.
func placeableBlock(reg *cblock.Registry, s cblock.Stack) (cblock.Key, bool) {
	if s.Empty() {
		return cblock.Key{}, false
	}
	it, ok := reg.Item(s.Item)
	if !ok {
		return cblock.Key{}, false
	}
	for _, bi := range it.BlockItems() {
		if _, ok := reg.Block(bi.Block()); ok {
			return bi.Block(), true
		}
	}
	return cblock.Key{}, false
}
