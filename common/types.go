// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain value
// types that express commonly animated data, each carrying the scalar-weighted algebra the interpolation strategies are built on.
package common

// Scalar is a single animatable float value.
type Scalar float32

// Add returns the sum of s and o.
func (s Scalar) Add(o Scalar) Scalar {
	return s + o
}

// Scale returns s scaled by k.
func (s Scalar) Scale(k float32) Scalar {
	return s * Scalar(k)
}

// Dot returns the product of s and o.
func (s Scalar) Dot(o Scalar) float32 {
	return float32(s * o)
}

// Vec2 is a 2-component vector.
type Vec2 [2]float32

// Add returns the component-wise sum of v and o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v[0] + o[0], v[1] + o[1]}
}

// Scale returns v scaled by k.
func (v Vec2) Scale(k float32) Vec2 {
	return Vec2{v[0] * k, v[1] * k}
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float32 {
	return v[0]*o[0] + v[1]*o[1]
}

// Vec3 is a 3-component vector.
type Vec3 [3]float32

// Add returns the component-wise sum of v and o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Scale returns v scaled by k.
func (v Vec3) Scale(k float32) Vec3 {
	return Vec3{v[0] * k, v[1] * k, v[2] * k}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Vec4 is a 4-component vector.
type Vec4 [4]float32

// Add returns the component-wise sum of v and o.
func (v Vec4) Add(o Vec4) Vec4 {
	return Vec4{v[0] + o[0], v[1] + o[1], v[2] + o[2], v[3] + o[3]}
}

// Scale returns v scaled by k.
func (v Vec4) Scale(k float32) Vec4 {
	return Vec4{v[0] * k, v[1] * k, v[2] * k, v[3] * k}
}

// Dot returns the dot product of v and o.
func (v Vec4) Dot(o Vec4) float32 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] + v[3]*o[3]
}

// Quat is a rotation quaternion stored as [x, y, z, w].
// Animation math assumes unit quaternions; callers normalize on input.
type Quat [4]float32

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{0, 0, 0, 1}
}

// Add returns the component-wise sum of q and o.
func (q Quat) Add(o Quat) Quat {
	return Quat{q[0] + o[0], q[1] + o[1], q[2] + o[2], q[3] + o[3]}
}

// Scale returns q scaled by k.
func (q Quat) Scale(k float32) Quat {
	return Quat{q[0] * k, q[1] * k, q[2] * k, q[3] * k}
}

// Dot returns the 4-component dot product of q and o.
func (q Quat) Dot(o Quat) float32 {
	return q[0]*o[0] + q[1]*o[1] + q[2]*o[2] + q[3]*o[3]
}

// Normalize returns q scaled to unit length, or the identity rotation if q has zero length.
func (q Quat) Normalize() Quat {
	lenSq := q.Dot(q)
	if lenSq == 0 {
		return QuatIdentity()
	}
	return q.Scale(1.0 / Sqrt(lenSq))
}

// Rect is an axis-aligned rectangle described by its minimum and maximum corners.
type Rect struct {
	// Min is the corner with the smallest coordinates.
	Min Vec2
	// Max is the corner with the largest coordinates.
	Max Vec2
}

// Add returns the corner-wise sum of r and o.
func (r Rect) Add(o Rect) Rect {
	return Rect{Min: r.Min.Add(o.Min), Max: r.Max.Add(o.Max)}
}

// Scale returns r with both corners scaled by k.
func (r Rect) Scale(k float32) Rect {
	return Rect{Min: r.Min.Scale(k), Max: r.Max.Scale(k)}
}

// Dot returns the sum of the corner-wise dot products of r and o.
func (r Rect) Dot(o Rect) float32 {
	return r.Min.Dot(o.Min) + r.Max.Dot(o.Max)
}

// Transform is a decomposed affine transform. Keeping the three parts separate
// lets translation and scale blend linearly while rotation blends spherically.
type Transform struct {
	// Translation is the position offset.
	Translation Vec3
	// Rotation is the orientation as a unit quaternion.
	Rotation Quat
	// Scale is the per-axis scale factor.
	Scale Vec3
}

// TransformIdentity returns a transform with no translation, no rotation, and unit scale.
func TransformIdentity() Transform {
	return Transform{
		Translation: Vec3{0, 0, 0},
		Rotation:    QuatIdentity(),
		Scale:       Vec3{1, 1, 1},
	}
}

// Blend interpolates between t and other at parameter k: translation and scale
// linearly, rotation along the great circle via SlerpQuat.
//
// Parameters:
//   - other: the transform blended toward
//   - k: the blend parameter (0 returns t, 1 returns other; values outside [0, 1] extrapolate)
//
// Returns:
//   - Transform: the blended transform
func (t Transform) Blend(other Transform, k float32) Transform {
	return Transform{
		Translation: t.Translation.Scale(1 - k).Add(other.Translation.Scale(k)),
		Rotation:    SlerpQuat(t.Rotation, other.Rotation, k),
		Scale:       t.Scale.Scale(1 - k).Add(other.Scale.Scale(k)),
	}
}
