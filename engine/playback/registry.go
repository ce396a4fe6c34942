// package playback tracks elapsed local time for every active (clip, entity)
// playback pair. The registry is the live heart of the animation engine: the
// frame scheduler snapshots it once per tick while gameplay code keeps
// calling into it concurrently. Keys hash across a fixed set of shards so
// operations on unrelated keys rarely contend; operations on a single key are
// atomic, but there is no cross-key snapshot isolation.
package playback

import (
	"encoding/binary"
	"hash/fnv"
	"sync"

	"github.com/Marlowe-Hayes/animato-go/engine/asset"
	"github.com/Marlowe-Hayes/animato-go/engine/world"
)

// shardCount fixes the number of lock shards. Keys spread uniformly via FNV,
// so contention stays low even with a few worker threads hammering the map.
const shardCount = 32

// Key identifies one playing (clip, entity) pair.
type Key struct {
	// Clip is the handle of the clip being played.
	Clip asset.Handle

	// Entity is the entity the clip is animating.
	Entity world.Entity
}

// Entry is a point-in-time copy of one live playback record.
type Entry struct {
	// Key identifies the playback pair.
	Key Key

	// Elapsed is the local playback time in seconds.
	Elapsed float32

	// Speed is the per-entry multiplier applied to tick deltas.
	Speed float32

	// Loop is true when the entry wraps at the clip's duration instead of
	// completing.
	Loop bool
}

// PlayOption adjusts a single Play call's entry settings.
type PlayOption func(*entryState)

// WithSpeed sets the entry's tick-delta multiplier. 1 is normal speed, 0
// freezes the entry in place while keeping it alive.
//
// Parameters:
//   - speed: the multiplier applied to tick deltas
//
// Returns:
//   - PlayOption: option function to apply
func WithSpeed(speed float32) PlayOption {
	return func(st *entryState) {
		st.speed = speed
	}
}

// WithLoop makes the entry wrap at the clip's duration instead of completing.
// A looping entry only ends through Stop, asset removal, or entity removal.
//
// Returns:
//   - PlayOption: option function to apply
func WithLoop() PlayOption {
	return func(st *entryState) {
		st.loop = true
	}
}

// Registry is the concurrent store of playback entries. All operations are
// safe to call from any goroutine at any time, including while a tick is in
// flight; effects relative to an in-flight tick are unordered.
type Registry interface {
	// Play inserts the entry, or resets an existing entry's elapsed time to
	// 0. Replaying is a restart, not a queue: speed and loop settings are
	// replaced by the given options as well.
	//
	// Parameters:
	//   - key: the playback pair to start
	//   - options: per-entry settings (speed, looping)
	Play(key Key, options ...PlayOption)

	// Stop removes the entry if present; no-op otherwise.
	//
	// Parameters:
	//   - key: the playback pair to stop
	Stop(key Key)

	// AdvanceBy adds delta to the entry's elapsed time if present; no-op
	// otherwise. The entry's speed multiplier is not applied, so callers
	// stay in direct control of manual advances.
	//
	// Parameters:
	//   - key: the playback pair to advance
	//   - delta: seconds to add to the elapsed time
	AdvanceBy(key Key, delta float32)

	// AdvanceTo overwrites the entry's elapsed time if present; no-op
	// otherwise.
	//
	// Parameters:
	//   - key: the playback pair to reposition
	//   - elapsed: the new elapsed time in seconds
	AdvanceTo(key Key, elapsed float32)

	// Elapsed returns the entry's elapsed time and whether it is playing.
	//
	// Parameters:
	//   - key: the playback pair to query
	//
	// Returns:
	//   - float32: the elapsed time in seconds, or 0 when not playing
	//   - bool: true if the entry exists
	Elapsed(key Key) (float32, bool)

	// Lookup returns a copy of the full entry.
	//
	// Parameters:
	//   - key: the playback pair to query
	//
	// Returns:
	//   - Entry: the entry copy, zero-valued when absent
	//   - bool: true if the entry exists
	Lookup(key Key) (Entry, bool)

	// Snapshot copies every live entry. Shards are copied one at a time, so
	// concurrent mutation during the copy may or may not be reflected; that
	// is the advertised consistency for cross-key reads.
	//
	// Returns:
	//   - []Entry: the copied entries in unspecified order
	Snapshot() []Entry

	// Len returns the number of live entries.
	//
	// Returns:
	//   - int: entry count
	Len() int
}

// entryState is the live per-key record.
type entryState struct {
	elapsed float32
	speed   float32
	loop    bool
}

// registryShard is one lock domain of the registry.
type registryShard struct {
	mu      sync.RWMutex
	entries map[Key]entryState
}

// registryImpl implements the Registry interface.
type registryImpl struct {
	shards [shardCount]registryShard
}

// Ensure registryImpl implements Registry.
var _ Registry = &registryImpl{}

// NewRegistry creates an empty Registry.
//
// Returns:
//   - Registry: the newly created registry
func NewRegistry() Registry {
	r := &registryImpl{}
	for i := range r.shards {
		r.shards[i].entries = make(map[Key]entryState)
	}
	return r
}

// shard maps a key to its lock domain.
func (r *registryImpl) shard(key Key) *registryShard {
	h := fnv.New32a()
	h.Write(key.Clip[:])
	var entity [8]byte
	binary.LittleEndian.PutUint64(entity[:], uint64(key.Entity))
	h.Write(entity[:])
	return &r.shards[h.Sum32()%shardCount]
}

func (r *registryImpl) Play(key Key, options ...PlayOption) {
	st := entryState{speed: 1}
	for _, option := range options {
		option(&st)
	}

	sh := r.shard(key)
	sh.mu.Lock()
	sh.entries[key] = st
	sh.mu.Unlock()
}

func (r *registryImpl) Stop(key Key) {
	sh := r.shard(key)
	sh.mu.Lock()
	delete(sh.entries, key)
	sh.mu.Unlock()
}

func (r *registryImpl) AdvanceBy(key Key, delta float32) {
	sh := r.shard(key)
	sh.mu.Lock()
	if st, ok := sh.entries[key]; ok {
		st.elapsed += delta
		sh.entries[key] = st
	}
	sh.mu.Unlock()
}

func (r *registryImpl) AdvanceTo(key Key, elapsed float32) {
	sh := r.shard(key)
	sh.mu.Lock()
	if st, ok := sh.entries[key]; ok {
		st.elapsed = elapsed
		sh.entries[key] = st
	}
	sh.mu.Unlock()
}

func (r *registryImpl) Elapsed(key Key) (float32, bool) {
	sh := r.shard(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	st, ok := sh.entries[key]
	if !ok {
		return 0, false
	}
	return st.elapsed, true
}

func (r *registryImpl) Lookup(key Key) (Entry, bool) {
	sh := r.shard(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	st, ok := sh.entries[key]
	if !ok {
		return Entry{}, false
	}
	return Entry{Key: key, Elapsed: st.elapsed, Speed: st.speed, Loop: st.loop}, true
}

func (r *registryImpl) Snapshot() []Entry {
	var entries []Entry
	for i := range r.shards {
		sh := &r.shards[i]
		sh.mu.RLock()
		for key, st := range sh.entries {
			entries = append(entries, Entry{Key: key, Elapsed: st.elapsed, Speed: st.speed, Loop: st.loop})
		}
		sh.mu.RUnlock()
	}
	return entries
}

func (r *registryImpl) Len() int {
	count := 0
	for i := range r.shards {
		sh := &r.shards[i]
		sh.mu.RLock()
		count += len(sh.entries)
		sh.mu.RUnlock()
	}
	return count
}
