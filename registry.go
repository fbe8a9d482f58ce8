package cblock

import (
	"errors"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// BlockSpec declares a custom block type.
type BlockSpec struct {
	Key        Key
	Properties []AnyProperty
	// Behaviors are built and attached in order; dispatch follows this order.
	Behaviors   []BehaviorSpec
	Appearances []AppearanceRule
}

// BehaviorSpec names a behavior type and its declarative arguments.
type BehaviorSpec struct {
	Type Key
	Args Args
}

// Registry owns the behavior factories and the loaded block and item types.
//
// Reads never lock: loaded types are published as an immutable snapshot that
// readers load atomically. Registration and reload build a new snapshot under
// a mutex and swap it in.
type Registry struct {
	mu        sync.Mutex
	factories map[Key]Factory

	snap atomic.Pointer[snapshot]
}

// snapshot is one published view of the registry. It is never mutated after
// being stored.
type snapshot struct {
	generation uuid.UUID

	blocks map[Key]*CustomBlock
	order  []*CustomBlock
	items  map[Key]*CustomItem

	// states maps numeric state ids to states; id 0 is the sentinel.
	states []State
}

func newSnapshot() *snapshot {
	return &snapshot{
		generation: uuid.New(),
		blocks:     make(map[Key]*CustomBlock),
		items:      make(map[Key]*CustomItem),
		states:     []State{{}},
	}
}

// clone returns a draft copy of s sharing the same generation.
func (s *snapshot) clone() *snapshot {
	c := &snapshot{
		generation: s.generation,
		blocks:     maps.Clone(s.blocks),
		items:      maps.Clone(s.items),
		order:      make([]*CustomBlock, len(s.order)),
		states:     make([]State, len(s.states)),
	}
	copy(c.order, s.order)
	copy(c.states, s.states)
	return c
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[Key]Factory)}
	r.snap.Store(newSnapshot())
	return r
}

// RegisterFactory registers the factory building behaviors of type key.
func (r *Registry) RegisterFactory(key Key, f Factory) error {
	if f == nil {
		return fmt.Errorf("cblock: nil factory for '%s'", key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[key]; ok {
		return fmt.Errorf("cblock: factory '%s' already registered", key)
	}
	r.factories[key] = f
	return nil
}

// Factory returns the factory registered for key.
func (r *Registry) Factory(key Key) (Factory, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.factories[key]
	return f, ok
}

// RegisterBlock builds and publishes a block type. A failing behavior factory
// aborts the registration of this block only; the registry is left unchanged.
func (r *Registry) RegisterBlock(spec BlockSpec) (*CustomBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	draft := r.snap.Load().clone()
	b, err := r.build(draft, spec)
	if err != nil {
		return nil, err
	}
	r.snap.Store(draft)
	return b, nil
}

// RegisterItem publishes an item type.
func (r *Registry) RegisterItem(spec ItemSpec) (*CustomItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	draft := r.snap.Load().clone()
	it, err := addItem(draft, spec)
	if err != nil {
		return nil, err
	}
	r.snap.Store(draft)
	return it, nil
}

// Reload replaces every loaded block and item type. Blocks and items that fail
// to build are skipped and their errors joined into the returned error; the
// rest are published under a new generation either way.
//
// States obtained before the reload keep working but no longer resolve through
// StateID; hosts should compare Generation and re-resolve cached states.
func (r *Registry) Reload(blocks []BlockSpec, items []ItemSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	draft := newSnapshot()
	var errs []error
	for _, spec := range blocks {
		if _, err := r.build(draft, spec); err != nil {
			errs = append(errs, err)
		}
	}
	for _, spec := range items {
		if _, err := addItem(draft, spec); err != nil {
			errs = append(errs, err)
		}
	}
	r.snap.Store(draft)
	return errors.Join(errs...)
}

// build creates the block described by spec and adds it to draft. Caller must hold r.mu.
func (r *Registry) build(draft *snapshot, spec BlockSpec) (*CustomBlock, error) {
	if _, dup := draft.blocks[spec.Key]; dup {
		return nil, &ConfigError{Block: spec.Key, Reason: "block is already registered"}
	}
	def, err := NewStateDefinition(spec.Properties...)
	if err != nil {
		return nil, withBlock(err, spec.Key)
	}
	b, err := NewCustomBlock(spec.Key, def)
	if err != nil {
		return nil, err
	}

	for _, bs := range spec.Behaviors {
		f, ok := r.factories[bs.Type]
		if !ok {
			return nil, &ConfigError{Block: spec.Key, Behavior: bs.Type, Reason: "unknown behavior type"}
		}
		args := bs.Args
		if args == nil {
			args = Args{}
		}
		beh, err := f(b, args)
		if err != nil {
			var ce *ConfigError
			if errors.As(err, &ce) {
				return nil, err
			}
			return nil, &ConfigError{Block: spec.Key, Behavior: bs.Type, Reason: "behavior could not be built", Err: err}
		}
		if beh == nil {
			return nil, &ConfigError{Block: spec.Key, Behavior: bs.Type, Reason: "factory returned no behavior"}
		}
		b.attach(beh)
	}

	if len(spec.Appearances) > 0 {
		b.appearances = make([]Appearance, def.Len())
		for s := range b.appearances {
			for _, rule := range spec.Appearances {
				if rule.matches(def, s) {
					b.appearances[s] = rule.Appearance
					break
				}
			}
		}
	}

	b.base = uint32(len(draft.states))
	b.registry = r
	draft.states = append(draft.states, def.states...)
	draft.blocks[spec.Key] = b
	draft.order = append(draft.order, b)
	return b, nil
}

func addItem(draft *snapshot, spec ItemSpec) (*CustomItem, error) {
	if spec.Key.IsZero() {
		return nil, &ConfigError{Reason: "item key must not be empty"}
	}
	if _, dup := draft.items[spec.Key]; dup {
		return nil, &ConfigError{Reason: fmt.Sprintf("item '%s' is already registered", spec.Key)}
	}
	it := &CustomItem{key: spec.Key, behaviors: make([]ItemBehavior, len(spec.Behaviors))}
	copy(it.behaviors, spec.Behaviors)
	draft.items[spec.Key] = it
	return it, nil
}

func withBlock(err error, key Key) error {
	var ce *ConfigError
	if errors.As(err, &ce) && ce.Block.IsZero() {
		c := *ce
		c.Block = key
		return &c
	}
	return err
}

// Generation identifies the currently published set of types. It changes on
// every Reload.
func (r *Registry) Generation() uuid.UUID {
	return r.snap.Load().generation
}

// Block returns the block type registered under key.
func (r *Registry) Block(key Key) (*CustomBlock, bool) {
	b, ok := r.snap.Load().blocks[key]
	return b, ok
}

// Blocks returns the registered block types in registration order.
func (r *Registry) Blocks() []*CustomBlock {
	s := r.snap.Load()
	out := make([]*CustomBlock, len(s.order))
	copy(out, s.order)
	return out
}

// Item returns the item type registered under key.
func (r *Registry) Item(key Key) (*CustomItem, bool) {
	it, ok := r.snap.Load().items[key]
	return it, ok
}

// StateCount returns the number of numeric state ids in use, including the sentinel id 0.
func (r *Registry) StateCount() int {
	return len(r.snap.Load().states)
}

// StateByID returns the state with numeric id, or the sentinel if id is unknown.
func (r *Registry) StateByID(id uint32) State {
	s := r.snap.Load()
	if int(id) >= len(s.states) {
		return State{}
	}
	return s.states[id]
}

// StateID returns the numeric id of s. The sentinel maps to 0. It returns false
// for states of block types that are not part of the current generation.
func (r *Registry) StateID(s State) (uint32, bool) {
	if s.IsEmpty() {
		return 0, true
	}
	b := s.Block()
	if b == nil || r.snap.Load().blocks[b.key] != b {
		return 0, false
	}
	return b.base + uint32(s.index), true
}

// Resolve maps s onto the current generation. States of the current
// generation are returned as is. A state of a reloaded block type resolves to
// the state of the new type with the same property values, falling back to its
// default state for values that no longer exist. It returns false if the block
// type is gone.
func (r *Registry) Resolve(s State) (State, bool) {
	if s.IsEmpty() {
		return s, true
	}
	if _, ok := r.StateID(s); ok {
		return s, true
	}
	b, ok := r.Block(s.Block().Key())
	if !ok {
		return State{}, false
	}
	next := b.DefaultState()
	for name, v := range s.Values() {
		p, ok := b.Property(name)
		if !ok {
			continue
		}
		vi, ok := p.ParseValue(v)
		if !ok {
			continue
		}
		if n, err := next.With(p, p.ValueAt(vi)); err == nil {
			next = n
		}
	}
	return next, true
}
