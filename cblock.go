// Package cblock provides data-driven custom blocks for Dragonfly servers.
//
// A custom block type is a set of properties with finite value domains and an
// ordered list of behaviors. Every combination of property values is
// precomputed into a StateDefinition when the type is registered, so changing
// a property at runtime is a table lookup returning another interned State.
//
// # Quick Start
//
// Register the built-in behaviors, load block types and dispatch world events
// through an Engine:
//
//	reg, err := cblock.NewBuilder().
//	    Factories(behavior.Factories(log)).
//	    Block(cblock.BlockSpec{
//	        Key:        cblock.MustKey("example:redstone_dial"),
//	        Properties: []cblock.AnyProperty{power},
//	        Behaviors:  []cblock.BehaviorSpec{{Type: behavior.AdjustableRedstoneType}},
//	    }).
//	    Build()
//
//	engine := cblock.NewEngine(reg, cblock.WithLogger(log))
//	engine.Use(world, cblock.UseContext{Pos: pos})
//
// # Behaviors
//
// Behaviors hold configuration only and opt into hooks by implementing the
// capability interfaces:
//
//	Interactor        use with an empty hand
//	ItemInteractor    use with an item
//	NeighborListener  neighbour and redstone changes
//	Ticker            scheduled ticks
//	SignalSource      redstone output
//	Placer            placement state
//
// A Factory builds a behavior for its owning block and resolves the properties
// it needs with PropertyOf, failing the registration of that block if one is
// missing.
//
// # Hosts
//
// The core reads and changes the world only through the World interface.
// Package dfhost implements it on top of Dragonfly transactions and package
// worldtest provides an in-memory World for tests.
package cblock

// Version is the cblock version.
const Version = "1.0.0"
