package cblock

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// InteractionResult is the outcome of an interaction hook.
type InteractionResult int

const (
	// Pass means the behavior did not handle the interaction; dispatch continues.
	Pass InteractionResult = iota
	// Success means the interaction was handled.
	Success
	// SuccessAndCancel means the interaction was handled and the host's default
	// handling must be cancelled.
	SuccessAndCancel
	// Fail means the interaction was refused; dispatch stops.
	Fail
)

// Consumed reports whether r stops dispatch.
func (r InteractionResult) Consumed() bool {
	return r != Pass
}

// Cancels reports whether the host's default handling must be cancelled.
func (r InteractionResult) Cancels() bool {
	return r == SuccessAndCancel || r == Fail
}

// String returns the name of the result.
func (r InteractionResult) String() string {
	switch r {
	case Pass:
		return "Pass"
	case Success:
		return "Success"
	case SuccessAndCancel:
		return "SuccessAndCancel"
	case Fail:
		return "Fail"
	default:
		return "Unknown"
	}
}

// UseContext describes a player interacting with a block.
type UseContext struct {
	// Pos is the clicked block.
	Pos cube.Pos
	// Face is the clicked face.
	Face cube.Face
	// ClickPos is the clicked point relative to Pos.
	ClickPos mgl64.Vec3
	// Secondary is set when the secondary-use modifier (sneaking) is active.
	Secondary bool
	// Item is the stack held by the player, empty for a bare hand.
	Item Stack
	// Player identifies the interacting player, uuid.Nil for non-players.
	Player uuid.UUID
}

// PlaceContext describes a block being placed.
type PlaceContext struct {
	// Pos is the position the block is placed at.
	Pos cube.Pos
	// Face is the face of the block that was clicked to place against.
	Face cube.Face
	// Look is the placer's look direction. The nearest looking direction is
	// derived from it.
	Look mgl64.Vec3
	// Secondary is set when the secondary-use modifier is active.
	Secondary bool
	// Item is the stack being placed.
	Item Stack
	// Placer identifies the placing player, uuid.Nil for blocks placing blocks.
	Placer uuid.UUID
}

// NearestLookingFace returns the face among candidates closest to the look
// direction. Without a look vector it falls back to the opposite of the clicked
// face, or the first candidate if that face is not a candidate.
func (ctx PlaceContext) NearestLookingFace(candidates []cube.Face) cube.Face {
	if f, ok := NearestFace(ctx.Look, candidates); ok {
		return f
	}
	fallback := ctx.Face.Opposite()
	for _, f := range candidates {
		if f == fallback {
			return f
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return fallback
}
