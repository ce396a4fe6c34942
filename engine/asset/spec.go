package asset

import (
	"fmt"

	"github.com/Marlowe-Hayes/animato-go/common"
	"github.com/Marlowe-Hayes/animato-go/engine/clip"
	"github.com/Marlowe-Hayes/animato-go/engine/interp"
	"github.com/Marlowe-Hayes/animato-go/engine/world"
)

// Interpolation names accepted in clip definition files.
const (
	// InterpLinear blends neighboring keyframes linearly.
	InterpLinear = "linear"
	// InterpSpherical blends neighboring keyframes along the shorter great-circle arc.
	InterpSpherical = "spherical"
	// InterpStep holds each keyframe's value until the next keyframe.
	InterpStep = "step"
	// InterpCustom delegates blending to the value type, e.g. transforms.
	InterpCustom = "custom"
)

// ClipSpec is the YAML form of a clip definition.
type ClipSpec struct {
	// Name is the library name the clip is indexed under. When empty, the
	// loader falls back to the definition file's base name.
	Name string `yaml:"name"`

	// Duration is the clip length in seconds.
	Duration float32 `yaml:"duration"`

	// Tracks are the clip's track definitions, in application order.
	Tracks []TrackSpec `yaml:"tracks"`
}

// TrackSpec is the YAML form of one track.
type TrackSpec struct {
	// Target selects the registered track decoder, which fixes the value
	// type and the component kind the track writes to.
	Target string `yaml:"target"`

	// Interp names the interpolation to use between keyframes. Each decoder
	// has a natural default when it is empty.
	Interp string `yaml:"interp"`

	// Keys are the keyframes, strictly increasing in time.
	Keys []KeySpec `yaml:"keys"`
}

// KeySpec is the YAML form of one keyframe. Value length must match the
// target's component count, e.g. 3 for a vec3 target.
type KeySpec struct {
	// Time is the sample position in seconds from the start of the clip.
	Time float32 `yaml:"time"`

	// Value holds the keyframe's value components.
	Value []float32 `yaml:"value"`
}

// TrackDecoder builds a typed track from its parsed YAML spec.
type TrackDecoder func(spec TrackSpec) (clip.Track, error)

// decodeKeys converts the spec's raw keyframes to typed keyframes, rejecting
// values whose component count does not match the target's arity.
func decodeKeys[T any](spec TrackSpec, arity int, convert func([]float32) T) ([]clip.Keyframe[T], error) {
	keys := make([]clip.Keyframe[T], 0, len(spec.Keys))
	for i, k := range spec.Keys {
		if len(k.Value) != arity {
			return nil, fmt.Errorf("target %q expects %d value components, got %d at key %d", spec.Target, arity, len(k.Value), i)
		}
		keys = append(keys, clip.Keyframe[T]{Time: k.Time, Value: convert(k.Value)})
	}
	return keys, nil
}

// blendableTrack builds the track for targets supporting the standard
// interpolation set, defaulting to linear.
func blendableTrack[T interp.Blendable[T]](kind world.Kind, spec TrackSpec, keys []clip.Keyframe[T]) (clip.Track, error) {
	switch spec.Interp {
	case "", InterpLinear:
		return clip.NewLerpTrack(kind, keys)
	case InterpSpherical:
		return clip.NewSlerpTrack(kind, keys)
	case InterpStep:
		return clip.NewStepTrack(kind, keys)
	default:
		return nil, fmt.Errorf("target %q does not support interp %q", spec.Target, spec.Interp)
	}
}

// ScalarTrack returns a decoder producing common.Scalar tracks bound to kind.
// Accepts interp linear (default), spherical, and step.
//
// Parameters:
//   - kind: the component slot decoded tracks write to
//
// Returns:
//   - TrackDecoder: the decoder to register under a target name
func ScalarTrack(kind world.Kind) TrackDecoder {
	return func(spec TrackSpec) (clip.Track, error) {
		keys, err := decodeKeys(spec, 1, func(v []float32) common.Scalar {
			return common.Scalar(v[0])
		})
		if err != nil {
			return nil, err
		}
		return blendableTrack(kind, spec, keys)
	}
}

// Vec2Track returns a decoder producing common.Vec2 tracks bound to kind.
// Accepts interp linear (default), spherical, and step.
//
// Parameters:
//   - kind: the component slot decoded tracks write to
//
// Returns:
//   - TrackDecoder: the decoder to register under a target name
func Vec2Track(kind world.Kind) TrackDecoder {
	return func(spec TrackSpec) (clip.Track, error) {
		keys, err := decodeKeys(spec, 2, func(v []float32) common.Vec2 {
			return common.Vec2{v[0], v[1]}
		})
		if err != nil {
			return nil, err
		}
		return blendableTrack(kind, spec, keys)
	}
}

// Vec3Track returns a decoder producing common.Vec3 tracks bound to kind.
// Accepts interp linear (default), spherical, and step.
//
// Parameters:
//   - kind: the component slot decoded tracks write to
//
// Returns:
//   - TrackDecoder: the decoder to register under a target name
func Vec3Track(kind world.Kind) TrackDecoder {
	return func(spec TrackSpec) (clip.Track, error) {
		keys, err := decodeKeys(spec, 3, func(v []float32) common.Vec3 {
			return common.Vec3{v[0], v[1], v[2]}
		})
		if err != nil {
			return nil, err
		}
		return blendableTrack(kind, spec, keys)
	}
}

// Vec4Track returns a decoder producing common.Vec4 tracks bound to kind.
// Accepts interp linear (default), spherical, and step.
//
// Parameters:
//   - kind: the component slot decoded tracks write to
//
// Returns:
//   - TrackDecoder: the decoder to register under a target name
func Vec4Track(kind world.Kind) TrackDecoder {
	return func(spec TrackSpec) (clip.Track, error) {
		keys, err := decodeKeys(spec, 4, func(v []float32) common.Vec4 {
			return common.Vec4{v[0], v[1], v[2], v[3]}
		})
		if err != nil {
			return nil, err
		}
		return blendableTrack(kind, spec, keys)
	}
}

// QuatTrack returns a decoder producing common.Quat tracks bound to kind.
// Rotations default to spherical interpolation; linear and step are accepted
// when named explicitly. Values are [x, y, z, w].
//
// Parameters:
//   - kind: the component slot decoded tracks write to
//
// Returns:
//   - TrackDecoder: the decoder to register under a target name
func QuatTrack(kind world.Kind) TrackDecoder {
	return func(spec TrackSpec) (clip.Track, error) {
		keys, err := decodeKeys(spec, 4, func(v []float32) common.Quat {
			return common.Quat{v[0], v[1], v[2], v[3]}
		})
		if err != nil {
			return nil, err
		}
		if spec.Interp == "" || spec.Interp == InterpSpherical {
			return clip.NewSlerpTrack(kind, keys)
		}
		return blendableTrack(kind, spec, keys)
	}
}

// TransformTrack returns a decoder producing common.Transform tracks bound to
// kind. Values are 10 floats: translation xyz, rotation xyzw, scale xyz.
// Transforms blend through their own Blend method (interp custom, the
// default); step is also accepted.
//
// Parameters:
//   - kind: the component slot decoded tracks write to
//
// Returns:
//   - TrackDecoder: the decoder to register under a target name
func TransformTrack(kind world.Kind) TrackDecoder {
	return func(spec TrackSpec) (clip.Track, error) {
		keys, err := decodeKeys(spec, 10, func(v []float32) common.Transform {
			return common.Transform{
				Translation: common.Vec3{v[0], v[1], v[2]},
				Rotation:    common.Quat{v[3], v[4], v[5], v[6]},
				Scale:       common.Vec3{v[7], v[8], v[9]},
			}
		})
		if err != nil {
			return nil, err
		}
		switch spec.Interp {
		case "", InterpCustom:
			return clip.NewBlendTrack(kind, keys)
		case InterpStep:
			return clip.NewStepTrack(kind, keys)
		default:
			return nil, fmt.Errorf("target %q supports interp %q or %q, got %q", spec.Target, InterpCustom, InterpStep, spec.Interp)
		}
	}
}
