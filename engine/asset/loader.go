package asset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Marlowe-Hayes/animato-go/engine/clip"
)

// Loader parses YAML clip definitions and stores the results in a Library.
// Targets must be registered before a definition referencing them can load;
// the loader has no implicit target vocabulary.
type Loader interface {
	// Library returns the backing library the loader stores clips in.
	//
	// Returns:
	//   - Library: the backing library
	Library() Library

	// RegisterTarget binds a target name to a track decoder, replacing any
	// previous registration for that name.
	//
	// Parameters:
	//   - target: the target name used in definition files
	//   - decoder: the decoder building tracks for this target
	RegisterTarget(target string, decoder TrackDecoder)

	// Decode builds a clip from an already-parsed spec without storing it.
	//
	// Parameters:
	//   - spec: the parsed clip definition
	//
	// Returns:
	//   - *clip.Clip: the built clip
	//   - error: error if a track references an unregistered target or fails to decode
	Decode(spec ClipSpec) (*clip.Clip, error)

	// LoadClip reads, parses, and decodes one YAML clip file and stores the
	// result in the library. The library name is the spec's name field,
	// falling back to the file's base name, so re-loading the same file
	// replaces the clip under its existing handle.
	//
	// Parameters:
	//   - path: the clip file to load
	//
	// Returns:
	//   - Handle: the handle the clip is stored under
	//   - error: error if reading, parsing, or decoding fails
	LoadClip(path string) (Handle, error)

	// LoadClipDir loads every .yaml/.yml file in the directory, stopping at
	// the first failure.
	//
	// Parameters:
	//   - dir: the directory to scan
	//
	// Returns:
	//   - []Handle: handles of the clips loaded before any failure
	//   - error: error if the directory cannot be read or a file fails to load
	LoadClipDir(dir string) ([]Handle, error)
}

// loaderImpl implements the Loader interface.
type loaderImpl struct {
	mu       *sync.RWMutex
	library  Library
	decoders map[string]TrackDecoder
}

// Ensure loaderImpl implements Loader.
var _ Loader = &loaderImpl{}

// NewLoader creates a Loader storing into the given library.
//
// Parameters:
//   - library: the library loaded clips are stored in (must not be nil)
//   - options: functional options, e.g. WithTarget registrations
//
// Returns:
//   - Loader: the newly created loader
func NewLoader(library Library, options ...LoaderBuilderOption) Loader {
	if library == nil {
		panic("asset: NewLoader requires a non-nil Library")
	}

	l := &loaderImpl{
		mu:       &sync.RWMutex{},
		library:  library,
		decoders: make(map[string]TrackDecoder),
	}

	for _, option := range options {
		option(l)
	}

	return l
}

func (l *loaderImpl) Library() Library {
	return l.library
}

func (l *loaderImpl) RegisterTarget(target string, decoder TrackDecoder) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.decoders[target] = decoder
}

func (l *loaderImpl) Decode(spec ClipSpec) (*clip.Clip, error) {
	tracks := make([]clip.Track, 0, len(spec.Tracks))
	for _, ts := range spec.Tracks {
		l.mu.RLock()
		decoder, ok := l.decoders[ts.Target]
		l.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("no track decoder registered for target %q", ts.Target)
		}

		tr, err := decoder(ts)
		if err != nil {
			return nil, fmt.Errorf("failed to decode track for target %q: %w", ts.Target, err)
		}
		tracks = append(tracks, tr)
	}
	return clip.NewClip(spec.Duration, tracks...)
}

func (l *loaderImpl) LoadClip(path string) (Handle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Handle{}, fmt.Errorf("failed to load %s: %w", path, err)
	}

	var spec ClipSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return Handle{}, fmt.Errorf("failed to parse clip file %s: %w", path, err)
	}

	c, err := l.Decode(spec)
	if err != nil {
		return Handle{}, fmt.Errorf("failed to build clip from %s: %w", path, err)
	}

	name := spec.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return l.library.Add(name, c), nil
}

func (l *loaderImpl) LoadClipDir(dir string) ([]Handle, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read clip directory %s: %w", dir, err)
	}

	var handles []Handle
	for _, entry := range entries {
		if entry.IsDir() || !isClipFile(entry.Name()) {
			continue
		}
		handle, err := l.LoadClip(filepath.Join(dir, entry.Name()))
		if err != nil {
			return handles, err
		}
		handles = append(handles, handle)
	}
	return handles, nil
}

// isClipFile reports whether the file name carries a clip definition extension.
func isClipFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
