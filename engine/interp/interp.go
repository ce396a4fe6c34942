// package interp provides the pure interpolation strategies used by keyframe
// tracks. Every strategy shares the (a, b, t) -> value contract: blend two
// values at parameter t with no side effects. Any t is accepted, including
// values outside [0, 1]; extrapolation is the caller's business and is not
// special-cased here.
package interp

import (
	"github.com/Marlowe-Hayes/animato-go/common"
)

// Blendable is the capability set a value type needs for the built-in Linear
// and Spherical strategies: component-wise addition, scalar weighting, and a
// dot product for measuring alignment.
type Blendable[T any] interface {
	// Add returns the component-wise sum of the receiver and the argument.
	Add(T) T

	// Scale returns the receiver with every component weighted by the factor.
	Scale(float32) T

	// Dot returns the alignment of the receiver with the argument.
	Dot(T) float32
}

// Blender is implemented by value types that carry their own blend semantics,
// used by the type-provided custom strategy.
type Blender[T any] interface {
	// Blend interpolates from the receiver toward other at parameter t.
	Blend(other T, t float32) T
}

// Func is a caller-supplied interpolation strategy with the standard
// (a, b, t) -> value contract.
type Func[T any] func(a, b T, t float32) T

// Lerp blends a and b linearly: a*(1-t) + b*t.
//
// Parameters:
//   - a: the value at t=0
//   - b: the value at t=1
//   - t: the interpolation parameter
//
// Returns:
//   - T: the blended value
func Lerp[T Blendable[T]](a, b T, t float32) T {
	return a.Scale(1 - t).Add(b.Scale(t))
}

// Slerp blends a and b along the shorter great-circle arc. When the inputs
// point into opposite hemispheres (negative dot) b is negated first so the
// path never takes the long way around. Inputs more aligned than the
// common.SlerpDotThreshold fall back to Lerp, since sin(theta) approaches
// zero there and the spherical weights lose precision.
//
// Parameters:
//   - a: the value at t=0
//   - b: the value at t=1
//   - t: the interpolation parameter
//
// Returns:
//   - T: the blended value
func Slerp[T Blendable[T]](a, b T, t float32) T {
	dot := a.Dot(b)
	if dot < 0 {
		b = b.Scale(-1)
		dot = -dot
	}
	if dot > common.SlerpDotThreshold {
		return Lerp(a, b, t)
	}

	dot = common.Clamp(dot, -1, 1)
	theta := common.Acos(dot)
	sinTheta := common.Sin(theta)
	wa := common.Sin((1-t)*theta) / sinTheta
	wb := common.Sin(t*theta) / sinTheta
	return a.Scale(wa).Add(b.Scale(wb))
}

// Step holds a regardless of b or t, for discrete fields that must never show
// an in-between value.
//
// Parameters:
//   - a: the value held until the next keyframe is reached
//   - b: ignored
//   - t: ignored
//
// Returns:
//   - T: a, unchanged
func Step[T any](a, _ T, _ float32) T {
	return a
}

// Blend delegates to the value type's own Blend method.
//
// Parameters:
//   - a: the value at t=0
//   - b: the value at t=1
//   - t: the interpolation parameter
//
// Returns:
//   - T: the blended value
func Blend[T Blender[T]](a, b T, t float32) T {
	return a.Blend(b, t)
}
