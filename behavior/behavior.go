// Package behavior implements the built-in custom block behaviors: an
// adjustable redstone signal source, and the facing, redstone-triggered
// pickaxe and place blocks.
package behavior

import (
	"errors"
	"log/slog"

	"github.com/oriumgames/cblock"
)

// Factories returns the factories of every built-in behavior, keyed by type.
// Behaviors that log use log, or slog.Default() if it is nil.
func Factories(log *slog.Logger) map[cblock.Key]cblock.Factory {
	return map[cblock.Key]cblock.Factory{
		AdjustableRedstoneType: NewAdjustableRedstone,
		PickaxeType:            NewPickaxe,
		PlaceType:              PlaceFactory(log),
	}
}

// Register registers every built-in behavior factory with r.
func Register(r *cblock.Registry, log *slog.Logger) error {
	var errs []error
	for k, f := range Factories(log) {
		if err := r.RegisterFactory(k, f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
