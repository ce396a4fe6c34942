// package asset stores immutable clips under unique handles and resolves
// handles back to clip data for the engine. It also owns the YAML clip
// definition format and a file watcher that hot-reloads edited definitions.
package asset

import (
	"bytes"
	"sync"

	"github.com/google/uuid"

	"github.com/Marlowe-Hayes/animato-go/engine/clip"
)

// Handle uniquely identifies a clip stored in a Library. Handles are random
// UUIDs, so they never collide across libraries or processes.
type Handle uuid.UUID

// NewHandle returns a new random Handle.
//
// Returns:
//   - Handle: the new handle
func NewHandle() Handle {
	return Handle(uuid.New())
}

// String returns the canonical UUID form of the handle.
func (h Handle) String() string {
	return uuid.UUID(h).String()
}

// IsZero reports whether the handle is the zero value.
func (h Handle) IsZero() bool {
	return h == Handle(uuid.Nil)
}

// Compare orders handles bytewise: negative if h sorts before o, zero if
// equal, positive otherwise. The engine sorts each entity's active clips by
// handle so same-field writes apply in a deterministic order.
//
// Parameters:
//   - o: the handle to compare against
//
// Returns:
//   - int: the bytewise ordering of h relative to o
func (h Handle) Compare(o Handle) int {
	return bytes.Compare(h[:], o[:])
}

// Resolver resolves a handle to clip data. It is the only asset-side surface
// the engine's tick path consumes, so hosts with their own asset pipeline can
// substitute a Library with anything that implements it.
type Resolver interface {
	// Resolve returns the clip stored under the handle.
	//
	// Parameters:
	//   - handle: the clip handle to resolve
	//
	// Returns:
	//   - *clip.Clip: the stored clip, or nil if not present
	//   - bool: true if the handle resolved
	Resolve(handle Handle) (*clip.Clip, bool)
}

// Library is the built-in clip store: clips live under generated handles with
// an optional name index on top. Safe for concurrent use.
type Library interface {
	Resolver

	// Add stores the clip and returns its handle. When name is non-empty and
	// already indexed the stored clip is replaced under the existing handle,
	// so live playback picks up the new data; otherwise a fresh handle is
	// generated. An empty name skips the name index entirely.
	//
	// Parameters:
	//   - name: the name to index the clip under (may be empty)
	//   - c: the clip to store (must not be nil)
	//
	// Returns:
	//   - Handle: the handle the clip is stored under
	Add(name string, c *clip.Clip) Handle

	// Lookup returns the handle indexed under name.
	//
	// Parameters:
	//   - name: the clip name to look up
	//
	// Returns:
	//   - Handle: the indexed handle, or the zero handle
	//   - bool: true if the name is indexed
	Lookup(name string) (Handle, bool)

	// Remove deletes the clip stored under the handle along with its name
	// index entry. Removing an unknown handle is a no-op. Playback entries
	// referencing the handle complete naturally on their next tick.
	//
	// Parameters:
	//   - handle: the handle to remove
	Remove(handle Handle)

	// Handles returns a snapshot of every stored handle.
	//
	// Returns:
	//   - []Handle: the stored handles in unspecified order
	Handles() []Handle

	// Len returns the number of stored clips.
	//
	// Returns:
	//   - int: clip count
	Len() int
}

// libraryImpl implements the Library interface.
type libraryImpl struct {
	mu          *sync.RWMutex
	clips       map[Handle]*clip.Clip
	names       map[string]Handle
	handleNames map[Handle]string
}

// Ensure libraryImpl implements Library.
var _ Library = &libraryImpl{}

// NewLibrary creates an empty Library.
//
// Returns:
//   - Library: the newly created library
func NewLibrary() Library {
	return &libraryImpl{
		mu:          &sync.RWMutex{},
		clips:       make(map[Handle]*clip.Clip),
		names:       make(map[string]Handle),
		handleNames: make(map[Handle]string),
	}
}

func (l *libraryImpl) Resolve(handle Handle) (*clip.Clip, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.clips[handle]
	return c, ok
}

func (l *libraryImpl) Add(name string, c *clip.Clip) Handle {
	if c == nil {
		panic("asset: Add requires a non-nil clip")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if name != "" {
		if existing, ok := l.names[name]; ok {
			l.clips[existing] = c
			return existing
		}
	}

	handle := NewHandle()
	l.clips[handle] = c
	if name != "" {
		l.names[name] = handle
		l.handleNames[handle] = name
	}
	return handle
}

func (l *libraryImpl) Lookup(name string) (Handle, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	handle, ok := l.names[name]
	return handle, ok
}

func (l *libraryImpl) Remove(handle Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.clips, handle)
	if name, ok := l.handleNames[handle]; ok {
		delete(l.names, name)
		delete(l.handleNames, handle)
	}
}

func (l *libraryImpl) Handles() []Handle {
	l.mu.RLock()
	defer l.mu.RUnlock()
	handles := make([]Handle, 0, len(l.clips))
	for handle := range l.clips {
		handles = append(handles, handle)
	}
	return handles
}

func (l *libraryImpl) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.clips)
}
