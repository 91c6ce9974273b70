package spatial

import (
	"cogentcore.org/core/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// axisAngleEps is the magnitude below which an axis-angle rotation is
// treated as the identity.
const axisAngleEps = 1e-6

// AxisAngleToQuat converts exponential coordinates (axis direction scaled by
// the angle in radians) to a quaternion. Magnitudes at or below a small
// epsilon map to the identity so the vanishing sine term never divides by
// zero.
func AxisAngleToQuat(vec mgl32.Vec3) Quat {
	angle := vec.Len()
	if angle <= axisAngleEps {
		return QuatIdent()
	}
	s := math32.Sin(angle/2) / angle
	return Quat{
		X: vec.X() * s,
		Y: vec.Y() * s,
		Z: vec.Z() * s,
		W: math32.Cos(angle / 2),
	}
}

// AxisAngle converts q to exponential coordinates. The scalar part is
// clamped into [-1, 1] first; a vanishing denominator denotes the identity
// rotation and yields the zero vector.
func (q Quat) AxisAngle() mgl32.Vec3 {
	w := mgl32.Clamp(q.W, -1, 1)
	den := math32.Sqrt(1 - w*w)
	if den == 0 {
		return mgl32.Vec3{}
	}
	return q.Vec3().Mul(2 * math32.Acos(w) / den)
}
