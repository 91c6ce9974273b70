package spatial

import (
	"cogentcore.org/core/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// matIdentTol is the absolute tolerance of the near-identity shortcut in
// MatToQuat.
const matIdentTol = 1e-6

// Mat3 converts q to a 3x3 rotation matrix using the outer-product form
// scaled by 2/|q|^2, so non-unit inputs still map to proper rotations.
// A vanishing norm yields the identity.
func (q Quat) Mat3() mgl32.Mat3 {
	n := q.Dot(q)
	if n < 1e-12 {
		return mgl32.Ident3()
	}
	s := 2 / n
	xx, yy, zz := s*q.X*q.X, s*q.Y*q.Y, s*q.Z*q.Z
	xy, xz, yz := s*q.X*q.Y, s*q.X*q.Z, s*q.Y*q.Z
	wx, wy, wz := s*q.W*q.X, s*q.W*q.Y, s*q.W*q.Z
	return mgl32.Mat3FromRows(
		mgl32.Vec3{1 - yy - zz, xy - wz, xz + wy},
		mgl32.Vec3{xy + wz, 1 - xx - zz, yz - wx},
		mgl32.Vec3{xz - wy, yz + wx, 1 - xx - yy},
	)
}

// MatToQuat converts a rotation matrix to a unit quaternion using the
// trace-based stable algorithm: a positive trace derives w directly,
// otherwise the branch keyed on the largest diagonal element avoids dividing
// by a near-zero scale. The result is always normalized.
func MatToQuat(m mgl32.Mat3) Quat {
	if m.ApproxEqualThreshold(mgl32.Ident3(), matIdentTol) {
		return QuatIdent()
	}

	m00, m01, m02 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m10, m11, m12 := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	m20, m21, m22 := m.At(2, 0), m.At(2, 1), m.At(2, 2)

	var q Quat
	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := 2 * math32.Sqrt(trace+1)
		q = Quat{X: (m21 - m12) / s, Y: (m02 - m20) / s, Z: (m10 - m01) / s, W: 0.25 * s}
	case m00 > m11 && m00 > m22:
		s := 2 * math32.Sqrt(1 + m00 - m11 - m22)
		q = Quat{X: 0.25 * s, Y: (m01 + m10) / s, Z: (m02 + m20) / s, W: (m21 - m12) / s}
	case m11 > m22:
		s := 2 * math32.Sqrt(1 + m11 - m00 - m22)
		q = Quat{X: (m01 + m10) / s, Y: 0.25 * s, Z: (m12 + m21) / s, W: (m02 - m20) / s}
	default:
		s := 2 * math32.Sqrt(1 + m22 - m00 - m11)
		q = Quat{X: (m02 + m20) / s, Y: (m12 + m21) / s, Z: 0.25 * s, W: (m10 - m01) / s}
	}
	return q.Normalize()
}

// VecToQuat returns the orientation that points the local +x axis along dir
// while keeping the local up axis as close to up as the constraint allows.
// The basis (dir, side, dir x side) with side = up x dir is packed as matrix
// columns and converted.
func VecToQuat(dir, up mgl32.Vec3) Quat {
	vn := Normalize(dir)
	un := Normalize(up)
	s := un.Cross(vn)
	u := vn.Cross(s)
	return MatToQuat(mgl32.Mat3FromCols(vn, s, u))
}

// VecsToQuat returns the normalized half-way quaternion rotating v0 onto v1.
// Exactly antipodal inputs fall back to a 180 degree turn about x.
func VecsToQuat(v0, v1 mgl32.Vec3) Quat {
	vn0 := Normalize(v0)
	vn1 := Normalize(v1)
	cosTheta := vn0.Dot(vn1)
	if cosTheta == -1 {
		return Quat{X: 1}
	}
	c := vn0.Cross(vn1)
	return Quat{X: c.X(), Y: c.Y(), Z: c.Z(), W: 1 + cosTheta}.Normalize()
}

// VecsToAxisAngle returns the axis-angle rotation from v0 to v1: the cross
// product direction scaled by the angle between the normalized inputs.
func VecsToAxisAngle(v0, v1 mgl32.Vec3) mgl32.Vec3 {
	vn0 := Normalize(v0)
	vn1 := Normalize(v1)
	angle := math32.Acos(mgl32.Clamp(vn0.Dot(vn1), -1, 1))
	return vn0.Cross(vn1).Mul(angle)
}

// RotationAbout returns the homogeneous matrix rotating by angle around the
// axis direction through the origin.
func RotationAbout(angle float32, axis mgl32.Vec3) mgl32.Mat4 {
	return rotationMat3(angle, axis).Mat4()
}

// RotationAboutPoint returns the homogeneous matrix rotating by angle around
// the axis direction passing through point.
func RotationAboutPoint(angle float32, axis, point mgl32.Vec3) mgl32.Mat4 {
	r := rotationMat3(angle, axis)
	m := r.Mat4()
	t := point.Sub(r.Mul3x1(point))
	m.Set(0, 3, t.X())
	m.Set(1, 3, t.Y())
	m.Set(2, 3, t.Z())
	return m
}

// rotationMat3 is the Rodrigues form cos*I + (1-cos)*ddT + sin*skew(d).
func rotationMat3(angle float32, axis mgl32.Vec3) mgl32.Mat3 {
	d := Normalize(axis)
	sina := math32.Sin(angle)
	cosa := math32.Cos(angle)
	return mgl32.Ident3().Mul(cosa).
		Add(d.OuterProd3(d).Mul(1 - cosa)).
		Add(Skew(d).Mul(sina))
}

// ZAngleFromQuat returns the heading of q's rotated +x axis in the xy-plane.
func ZAngleFromQuat(q Quat) float32 {
	fwd := q.Rotate(mgl32.Vec3{1, 0, 0})
	return math32.Atan2(fwd.Y(), fwd.X())
}

// ZRotationFromQuat isolates the rotation of q around the world z axis.
func ZRotationFromQuat(q Quat) Quat {
	yaw := q.Euler().Z()
	return Quat{Z: math32.Sin(yaw / 2), W: math32.Cos(yaw / 2)}
}

// XYPlaneAngle returns the heading of q's rotated +x axis projected onto the
// xy-plane, or 0 when the projection is negligibly short.
func XYPlaneAngle(q Quat) float32 {
	fwd := q.Rotate(mgl32.Vec3{1, 0, 0})
	flat := mgl32.Vec3{fwd.X(), fwd.Y(), 0}
	if flat.Len() < 1e-4 {
		return 0
	}
	return math32.Atan2(flat.Y(), flat.X())
}
