package asset

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay is how long the watcher waits after the last write event for
// a file before reloading it. Editors typically fire several events per save.
const debounceDelay = 100 * time.Millisecond

// ReloadEvent describes one hot-reload action taken by a Watcher.
type ReloadEvent struct {
	// Path is the clip file that changed on disk.
	Path string

	// Handle is the affected clip handle. Zero when the file never loaded
	// successfully.
	Handle Handle

	// Removed is true when the clip was dropped because its file disappeared.
	Removed bool

	// Err carries the reload failure, if any. The previously loaded clip
	// stays in the library when a reload fails.
	Err error
}

// Watcher hot-reloads clip definition files: edits replace the stored clip
// under its existing handle, deletions remove it so live playback completes
// through the missing-asset path.
type Watcher interface {
	// Watch adds a directory to the watch set. Existing files are not loaded
	// here; call Loader.LoadClipDir first for the initial load.
	//
	// Parameters:
	//   - dir: the directory to watch for clip file changes
	//
	// Returns:
	//   - error: error if the directory cannot be watched
	Watch(dir string) error

	// Events returns the reload notification channel. Notifications are
	// best-effort and dropped when no receiver keeps up; the library update
	// itself always happens.
	//
	// Returns:
	//   - <-chan ReloadEvent: the notification channel
	Events() <-chan ReloadEvent

	// Close stops watching and releases the underlying file watcher.
	// Safe to call multiple times; subsequent calls are no-ops.
	//
	// Returns:
	//   - error: error from closing the file watcher
	Close() error
}

// watcherImpl implements the Watcher interface.
type watcherImpl struct {
	mu          *sync.Mutex
	fsw         *fsnotify.Watcher
	loader      Loader
	handles     map[string]Handle      // path -> handle of the last successful load
	debounce    map[string]*time.Timer // path -> pending reload timer
	events      chan ReloadEvent
	quitChannel chan struct{}
	closeOnce   sync.Once
}

// Ensure watcherImpl implements Watcher.
var _ Watcher = &watcherImpl{}

// NewWatcher creates a Watcher reloading through the given loader.
//
// Parameters:
//   - loader: the loader used to (re)load changed files (must not be nil)
//
// Returns:
//   - Watcher: the newly created watcher
//   - error: error if the underlying file watcher cannot be created
func NewWatcher(loader Loader) (Watcher, error) {
	if loader == nil {
		panic("asset: NewWatcher requires a non-nil Loader")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &watcherImpl{
		mu:          &sync.Mutex{},
		fsw:         fsw,
		loader:      loader,
		handles:     make(map[string]Handle),
		debounce:    make(map[string]*time.Timer),
		events:      make(chan ReloadEvent, 16),
		quitChannel: make(chan struct{}),
	}

	go w.handleEvents()
	return w, nil
}

func (w *watcherImpl) Watch(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return nil
}

func (w *watcherImpl) Events() <-chan ReloadEvent {
	return w.events
}

func (w *watcherImpl) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.quitChannel)
		err = w.fsw.Close()

		w.mu.Lock()
		for path, timer := range w.debounce {
			timer.Stop()
			delete(w.debounce, path)
		}
		w.mu.Unlock()
	})
	return err
}

// handleEvents drains the file watcher until Close. Runs in its own goroutine.
func (w *watcherImpl) handleEvents() {
	for {
		select {
		case <-w.quitChannel:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("[AssetWatcher] watch error: %v", err)
		}
	}
}

// handleEvent routes one raw file event: deletions drop the clip immediately,
// writes and creations arm (or re-arm) the debounce timer for the path.
func (w *watcherImpl) handleEvent(event fsnotify.Event) {
	if !isClipFile(event.Name) {
		return
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.dropClip(event.Name)
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	path := event.Name
	w.mu.Lock()
	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	w.debounce[path] = time.AfterFunc(debounceDelay, func() {
		w.reload(path)
	})
	w.mu.Unlock()
}

// reload loads the settled file back into the library and records its handle
// for later removal handling.
func (w *watcherImpl) reload(path string) {
	w.mu.Lock()
	delete(w.debounce, path)
	w.mu.Unlock()

	handle, err := w.loader.LoadClip(path)
	if err != nil {
		log.Printf("[AssetWatcher] failed to reload %s: %v", path, err)
		w.notify(ReloadEvent{Path: path, Err: err})
		return
	}

	w.mu.Lock()
	w.handles[path] = handle
	w.mu.Unlock()

	log.Printf("[AssetWatcher] reloaded %s as %s", path, handle)
	w.notify(ReloadEvent{Path: path, Handle: handle})
}

// dropClip removes the clip loaded from a deleted or renamed file.
func (w *watcherImpl) dropClip(path string) {
	w.mu.Lock()
	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
		delete(w.debounce, path)
	}
	handle, ok := w.handles[path]
	if ok {
		delete(w.handles, path)
	}
	w.mu.Unlock()

	if !ok {
		return
	}

	w.loader.Library().Remove(handle)
	log.Printf("[AssetWatcher] removed clip %s for deleted file %s", handle, path)
	w.notify(ReloadEvent{Path: path, Handle: handle, Removed: true})
}

// notify sends best-effort: events are dropped rather than blocking reloads.
func (w *watcherImpl) notify(event ReloadEvent) {
	select {
	case w.events <- event:
	default:
	}
}
