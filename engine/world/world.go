// package world provides the entity/component store animated fields live in.
// Components are stored by pointer so tracks can write through them in place.
// The store guards its own structure with locks, but component values are
// deliberately unguarded: safe concurrent mutation is achieved by handing out
// at most one exclusive Access per entity at a time, which is the invariant
// the frame scheduler's entity-disjoint grouping is built on.
package world

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Entity identifies one entity in a World.
type Entity uint64

// Kind names a component slot on an entity, e.g. "translation" or "tint".
// A track is bound to exactly one Kind.
type Kind string

// Access is an exclusive claim on one entity's components, valid until
// Release is called. Holding an Access guarantees no other holder exists for
// the same entity, so writes through the returned component pointers need no
// further synchronization.
type Access interface {
	// Entity returns the claimed entity.
	Entity() Entity

	// Component returns the stored component pointer for the given kind.
	//
	// Parameters:
	//   - kind: the component slot to look up
	//
	// Returns:
	//   - any: a pointer to the component value, or nil if absent
	//   - bool: true if the entity has a component of this kind
	Component(kind Kind) (any, bool)

	// Release returns the claim so the entity can be acquired again.
	// The Access must not be used after Release.
	Release()
}

// Target is the narrow view of an entity store the frame scheduler consumes.
// Any host store can stand in for the built-in World by implementing it.
type Target interface {
	// Exists reports whether the entity is currently alive.
	//
	// Parameters:
	//   - entity: the entity to check
	//
	// Returns:
	//   - bool: true if the entity exists
	Exists(entity Entity) bool

	// Acquire claims exclusive component access to the entity. Acquiring an
	// entity that is already claimed is an invariant violation and panics;
	// the scheduler's grouping guarantees it never issues overlapping claims.
	//
	// Parameters:
	//   - entity: the entity to claim
	//
	// Returns:
	//   - Access: the exclusive claim, or nil if the entity does not exist
	//   - bool: true if the entity existed and was claimed
	Acquire(entity Entity) (Access, bool)
}

// World is the built-in entity/component store. All methods are safe for
// concurrent use; see Access for the rules on component value mutation.
type World interface {
	Target

	// CreateEntity allocates a new empty entity.
	//
	// Returns:
	//   - Entity: the new entity's identifier
	CreateEntity() Entity

	// DestroyEntity removes the entity and its components. Destroying an
	// unknown entity is a no-op. Animations targeting a destroyed entity
	// complete naturally on the next tick.
	//
	// Parameters:
	//   - entity: the entity to remove
	DestroyEntity(entity Entity)

	// SetComponent stores a component under the given kind. The component
	// must be a pointer; tracks and callers mutate the value through it.
	// Setting a component on an entity that does not exist is a no-op.
	//
	// Parameters:
	//   - entity: the entity to attach the component to
	//   - kind: the component slot
	//   - component: a pointer to the component value
	SetComponent(entity Entity, kind Kind, component any)

	// Component returns the stored component pointer for the entity and kind.
	//
	// Parameters:
	//   - entity: the entity to look up
	//   - kind: the component slot
	//
	// Returns:
	//   - any: a pointer to the component value, or nil if absent
	//   - bool: true if the entity exists and has a component of this kind
	Component(entity Entity, kind Kind) (any, bool)

	// EntityCount returns the number of live entities.
	//
	// Returns:
	//   - int: count of entities
	EntityCount() int
}

// worldImpl implements the World interface.
type worldImpl struct {
	mu       *sync.RWMutex
	entities map[Entity]*entityRecord
	nextID   uint64
}

// entityRecord holds one entity's component slots. The record mutex guards
// the slot map itself; the claimed flag is the exclusive access token.
type entityRecord struct {
	mu         sync.RWMutex
	components map[Kind]any
	claimed    atomic.Bool
}

// accessImpl implements the Access interface.
type accessImpl struct {
	entity Entity
	record *entityRecord
}

// Ensure the implementations satisfy their interfaces.
var _ World = &worldImpl{}
var _ Access = &accessImpl{}

// NewWorld creates an empty World.
//
// Returns:
//   - World: the newly created store
func NewWorld() World {
	return &worldImpl{
		mu:       &sync.RWMutex{},
		entities: make(map[Entity]*entityRecord),
		nextID:   1,
	}
}

func (w *worldImpl) CreateEntity() Entity {
	w.mu.Lock()
	defer w.mu.Unlock()
	entity := Entity(w.nextID)
	w.nextID++
	w.entities[entity] = &entityRecord{
		components: make(map[Kind]any),
	}
	return entity
}

func (w *worldImpl) DestroyEntity(entity Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.entities, entity)
}

func (w *worldImpl) Exists(entity Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.entities[entity]
	return ok
}

func (w *worldImpl) SetComponent(entity Entity, kind Kind, component any) {
	w.mu.RLock()
	record, ok := w.entities[entity]
	w.mu.RUnlock()
	if !ok {
		return
	}

	record.mu.Lock()
	record.components[kind] = component
	record.mu.Unlock()
}

func (w *worldImpl) Component(entity Entity, kind Kind) (any, bool) {
	w.mu.RLock()
	record, ok := w.entities[entity]
	w.mu.RUnlock()
	if !ok {
		return nil, false
	}

	record.mu.RLock()
	defer record.mu.RUnlock()
	component, ok := record.components[kind]
	return component, ok
}

func (w *worldImpl) EntityCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entities)
}

func (w *worldImpl) Acquire(entity Entity) (Access, bool) {
	w.mu.RLock()
	record, ok := w.entities[entity]
	w.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !record.claimed.CompareAndSwap(false, true) {
		panic(fmt.Sprintf("world: entity %d is already exclusively claimed", entity))
	}
	return &accessImpl{entity: entity, record: record}, true
}

func (a *accessImpl) Entity() Entity {
	return a.entity
}

func (a *accessImpl) Component(kind Kind) (any, bool) {
	a.record.mu.RLock()
	defer a.record.mu.RUnlock()
	component, ok := a.record.components[kind]
	return component, ok
}

func (a *accessImpl) Release() {
	a.record.claimed.Store(false)
}

// Set stores value as a component of the given kind, replacing any previous
// component in that slot. The value is copied; the stored pointer refers to
// the copy.
//
// Parameters:
//   - w: the world to store into
//   - entity: the target entity
//   - kind: the component slot
//   - value: the component value
func Set[T any](w World, entity Entity, kind Kind, value T) {
	w.SetComponent(entity, kind, &value)
}

// Get returns a copy of the component value of the given kind.
//
// Parameters:
//   - w: the world to read from
//   - entity: the target entity
//   - kind: the component slot
//
// Returns:
//   - T: the component value, or the zero value if absent or of a different type
//   - bool: true if the component exists and has type T
func Get[T any](w World, entity Entity, kind Kind) (T, bool) {
	var zero T
	component, ok := w.Component(entity, kind)
	if !ok {
		return zero, false
	}
	ptr, ok := component.(*T)
	if !ok {
		return zero, false
	}
	return *ptr, true
}
