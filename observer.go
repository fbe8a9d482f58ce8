package cblock

// Observer receives accounting callbacks from the Engine. Implementations must
// be cheap; they run inline on the world tick.
type Observer interface {
	// Dispatched is called once per behavior hook invocation.
	Dispatched(c Capability, block Key)
	// Fault is called when a behavior hook panicked and was recovered.
	Fault(c Capability, block Key, err error)
}

// NopObserver ignores every callback.
type NopObserver struct{}

// Dispatched does nothing.
func (NopObserver) Dispatched(Capability, Key) {}

// Fault does nothing.
func (NopObserver) Fault(Capability, Key, error) {}
