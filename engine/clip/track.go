package clip

import (
	"fmt"
	"sort"

	"github.com/Marlowe-Hayes/animato-go/engine/interp"
	"github.com/Marlowe-Hayes/animato-go/engine/world"
)

// State reports whether a track or clip still has keyframes ahead of the
// sample time.
type State int

const (
	// StatePlaying means the sample time has not yet passed the final keyframe.
	StatePlaying State = iota
	// StateFinished means the final keyframe has been reached, or the track is empty.
	StateFinished
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StatePlaying:
		return "Playing"
	case StateFinished:
		return "Finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Track samples one component of one entity over time. Implementations are
// typed; the heterogeneous track list of a Clip erases the value type behind
// this interface and restores it with a checked assertion at write time.
type Track interface {
	// Kind returns the component kind this track writes to.
	//
	// Returns:
	//   - world.Kind: the bound component slot
	Kind() world.Kind

	// Len returns the number of keyframes in the track.
	//
	// Returns:
	//   - int: keyframe count
	Len() int

	// Sample evaluates the track at the given time and writes the result
	// through target, which must be a pointer to the track's value type.
	// A mismatched target type is a content error and panics. The write is
	// skipped when time lies before the first keyframe (the track has not
	// started contributing) and the last keyframe's value is written exactly
	// once time reaches or passes it.
	//
	// Parameters:
	//   - time: the sample time in seconds from the start of the clip
	//   - target: pointer to the component value to write into
	//
	// Returns:
	//   - State: StatePlaying while keyframes remain ahead of time, StateFinished otherwise
	Sample(time float32, target any) State
}

// track implements Track for one value type with one blend function.
type track[T any] struct {
	kind  world.Kind
	keys  []Keyframe[T]
	blend interp.Func[T]
}

// Ensure track implements Track.
var _ Track = &track[float32]{}

func newTrack[T any](kind world.Kind, keys []Keyframe[T], blend interp.Func[T]) (Track, error) {
	if kind == "" {
		return nil, fmt.Errorf("track requires a component kind")
	}
	if blend == nil {
		return nil, fmt.Errorf("track for kind %q requires a blend function", kind)
	}
	if err := validateKeyframes(keys); err != nil {
		return nil, fmt.Errorf("track for kind %q: %w", kind, err)
	}

	owned := make([]Keyframe[T], len(keys))
	copy(owned, keys)
	return &track[T]{kind: kind, keys: owned, blend: blend}, nil
}

func (tr *track[T]) Kind() world.Kind {
	return tr.kind
}

func (tr *track[T]) Len() int {
	return len(tr.keys)
}

func (tr *track[T]) Sample(time float32, target any) State {
	slot, ok := target.(*T)
	if !ok {
		panic(fmt.Sprintf("clip: track bound to kind %q expects target %T, got %T", tr.kind, (*T)(nil), target))
	}

	if len(tr.keys) == 0 {
		return StateFinished
	}

	// Upper bound: the first keyframe strictly past the sample time. An exact
	// hit on keyframe i therefore samples the segment [i, i+1] at u = 0.
	idx := sort.Search(len(tr.keys), func(i int) bool {
		return tr.keys[i].Time > time
	})

	switch {
	case idx == 0:
		// Pre-roll: the track has not started contributing yet.
		return StatePlaying
	case idx == len(tr.keys):
		*slot = tr.keys[len(tr.keys)-1].Value
		return StateFinished
	default:
		k0 := tr.keys[idx-1]
		k1 := tr.keys[idx]
		u := (time - k0.Time) / (k1.Time - k0.Time)
		*slot = tr.blend(k0.Value, k1.Value, u)
		return StatePlaying
	}
}

// NewLerpTrack builds a track that blends linearly between neighboring
// keyframes.
//
// Parameters:
//   - kind: the component slot the track writes to
//   - keys: the keyframe sequence, strictly increasing in time
//
// Returns:
//   - Track: the new track
//   - error: error if the keyframe sequence is invalid
func NewLerpTrack[T interp.Blendable[T]](kind world.Kind, keys []Keyframe[T]) (Track, error) {
	return newTrack(kind, keys, interp.Lerp[T])
}

// NewSlerpTrack builds a track that blends spherically between neighboring
// keyframes, for rotations and other direction-like values.
//
// Parameters:
//   - kind: the component slot the track writes to
//   - keys: the keyframe sequence, strictly increasing in time
//
// Returns:
//   - Track: the new track
//   - error: error if the keyframe sequence is invalid
func NewSlerpTrack[T interp.Blendable[T]](kind world.Kind, keys []Keyframe[T]) (Track, error) {
	return newTrack(kind, keys, interp.Slerp[T])
}

// NewStepTrack builds a track that holds each keyframe's value until the next
// keyframe is reached, for discrete fields that must never show an
// in-between value.
//
// Parameters:
//   - kind: the component slot the track writes to
//   - keys: the keyframe sequence, strictly increasing in time
//
// Returns:
//   - Track: the new track
//   - error: error if the keyframe sequence is invalid
func NewStepTrack[T any](kind world.Kind, keys []Keyframe[T]) (Track, error) {
	return newTrack(kind, keys, interp.Step[T])
}

// NewBlendTrack builds a track that delegates blending to the value type's
// own Blend method, e.g. common.Transform.
//
// Parameters:
//   - kind: the component slot the track writes to
//   - keys: the keyframe sequence, strictly increasing in time
//
// Returns:
//   - Track: the new track
//   - error: error if the keyframe sequence is invalid
func NewBlendTrack[T interp.Blender[T]](kind world.Kind, keys []Keyframe[T]) (Track, error) {
	return newTrack(kind, keys, interp.Blend[T])
}

// NewFuncTrack builds a track that blends with a caller-supplied function.
//
// Parameters:
//   - kind: the component slot the track writes to
//   - keys: the keyframe sequence, strictly increasing in time
//   - blend: the interpolation function to apply between neighboring keyframes
//
// Returns:
//   - Track: the new track
//   - error: error if the keyframe sequence is invalid or blend is nil
func NewFuncTrack[T any](kind world.Kind, keys []Keyframe[T], blend interp.Func[T]) (Track, error) {
	return newTrack(kind, keys, blend)
}
