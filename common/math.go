package common

import (
	"math"
)

// SlerpDotThreshold is the alignment above which spherical interpolation falls
// back to linear interpolation. Near-parallel inputs make the spherical
// weights numerically unstable because sin(theta) approaches zero.
const SlerpDotThreshold = 0.9995

// Clamp limits v to the inclusive range [lo, hi].
//
// Parameters:
//   - v: the value to limit
//   - lo: the lower bound
//   - hi: the upper bound
//
// Returns:
//   - float32: v limited to [lo, hi]
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NearlyEqual reports whether a and b differ by no more than epsilon.
// Use this instead of == when comparing interpolated results.
//
// Parameters:
//   - a: first value
//   - b: second value
//   - epsilon: maximum allowed absolute difference
//
// Returns:
//   - bool: true if |a-b| <= epsilon
func NearlyEqual(a, b, epsilon float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= epsilon
}

// Sqrt is a float32 square root.
func Sqrt(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

// Sin is a float32 sine.
func Sin(v float32) float32 {
	return float32(math.Sin(float64(v)))
}

// Acos is a float32 arccosine.
func Acos(v float32) float32 {
	return float32(math.Acos(float64(v)))
}

// SlerpQuat spherically interpolates between two unit quaternions along the
// shorter arc. When the inputs point into opposite hemispheres (negative dot)
// b is negated first, since q and -q encode the same rotation. Inputs closer
// than SlerpDotThreshold fall back to a component-wise linear blend.
//
// Parameters:
//   - a: the starting rotation
//   - b: the ending rotation
//   - t: the interpolation parameter (0 returns a, 1 returns b or its negation)
//
// Returns:
//   - Quat: the interpolated rotation
func SlerpQuat(a, b Quat, t float32) Quat {
	dot := a.Dot(b)
	if dot < 0 {
		b = b.Scale(-1)
		dot = -dot
	}
	if dot > SlerpDotThreshold {
		return a.Scale(1 - t).Add(b.Scale(t))
	}

	dot = Clamp(dot, -1, 1)
	theta := Acos(dot)
	sinTheta := Sin(theta)
	wa := Sin((1-t)*theta) / sinTheta
	wb := Sin(t*theta) / sinTheta
	return a.Scale(wa).Add(b.Scale(wb))
}
