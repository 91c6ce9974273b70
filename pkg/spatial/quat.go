// Package spatial implements quaternion, rotation and rigid-transform algebra
// over float32 values. Quaternions use (x, y, z, w) component order
// everywhere; surfaces that speak the w-first convention exist only as the
// explicit conversions WXYZ, QuatFromWXYZ, Mgl and QuatFromMgl. Degenerate
// numeric inputs take epsilon-guarded branches that return well-defined
// limiting values instead of NaN or Inf.
package spatial

import (
	"math/rand"

	"cogentcore.org/core/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// slerpEps guards the equal-endpoint and zero-angle branches of Slerp.
const slerpEps = 1e-15

// DefaultRightAngleTol is the absolute tolerance IsRightAngle callers use
// when they have no better estimate of their orientation noise.
const DefaultRightAngleTol float32 = 5e-2

// Quat is a rotation quaternion with components ordered (x, y, z, w).
// The zero value is not a valid rotation; use QuatIdent.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdent returns the identity rotation.
func QuatIdent() Quat { return Quat{W: 1} }

// Vec3 returns the vector (imaginary) part of q.
func (q Quat) Vec3() mgl32.Vec3 { return mgl32.Vec3{q.X, q.Y, q.Z} }

// Mul returns the Hamilton product q*o: the rotation that applies o first,
// then q. The product is non-commutative.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.X*o.W + q.Y*o.Z - q.Z*o.Y + q.W*o.X,
		Y: -q.X*o.Z + q.Y*o.W + q.Z*o.X + q.W*o.Y,
		Z: q.X*o.Y - q.Y*o.X + q.Z*o.W + q.W*o.Z,
		W: -q.X*o.X - q.Y*o.Y - q.Z*o.Z + q.W*o.W,
	}
}

// Conjugate returns the quaternion with the vector part negated.
func (q Quat) Conjugate() Quat { return Quat{-q.X, -q.Y, -q.Z, q.W} }

// Neg returns -q, which represents the same rotation as q.
func (q Quat) Neg() Quat { return Quat{-q.X, -q.Y, -q.Z, -q.W} }

// Dot returns the 4-component dot product of q and o.
func (q Quat) Dot(o Quat) float32 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// Len returns the L2 norm of q.
func (q Quat) Len() float32 { return math32.Sqrt(q.Dot(q)) }

// Normalize returns q scaled to unit norm. A zero quaternion maps to the
// identity rotation.
func (q Quat) Normalize() Quat {
	n := q.Len()
	if n < normEps {
		return QuatIdent()
	}
	inv := 1 / n
	return Quat{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

// Inverse returns the multiplicative inverse, the conjugate divided by the
// squared norm. For unit quaternions this equals the conjugate.
func (q Quat) Inverse() Quat {
	n := q.Dot(q)
	if n < normEps {
		return QuatIdent()
	}
	inv := 1 / n
	c := q.Conjugate()
	return Quat{c.X * inv, c.Y * inv, c.Z * inv, c.W * inv}
}

// QuatDistance returns q1 * inverse(q0), the rotation carrying q0's frame
// onto q1's.
func QuatDistance(q1, q0 Quat) Quat {
	return q1.Mul(q0.Inverse())
}

// Rotate applies the rotation q to v.
func (q Quat) Rotate(v mgl32.Vec3) mgl32.Vec3 {
	t := mgl32.Vec3{
		2 * (q.Y*v.Z() - q.Z*v.Y()),
		2 * (q.Z*v.X() - q.X*v.Z()),
		2 * (q.X*v.Y() - q.Y*v.X()),
	}
	return v.Add(t.Mul(q.W)).Add(q.Vec3().Cross(t))
}

// SameRotation reports whether q and o represent the same rotation within a
// per-component tolerance, treating q and -q as equivalent.
func (q Quat) SameRotation(o Quat, tol float32) bool {
	return quatWithin(q, o, tol) || quatWithin(q, o.Neg(), tol)
}

func quatWithin(a, b Quat, tol float32) bool {
	return math32.Abs(a.X-b.X) <= tol &&
		math32.Abs(a.Y-b.Y) <= tol &&
		math32.Abs(a.Z-b.Z) <= tol &&
		math32.Abs(a.W-b.W) <= tol
}

// Slerp spherically interpolates from q0 to q1 along the shorter arc.
// frac <= 0 returns q0 and frac >= 1 returns q1; numerically identical
// endpoints short-circuit to q0 before the vanishing sine term can divide by
// zero. When the endpoints' dot product is negative, q1 is negated first so
// the interpolation does not travel the long way around.
func Slerp(q0, q1 Quat, frac float32) Quat {
	q0 = q0.Normalize()
	q1 = q1.Normalize()
	if frac <= 0 {
		return q0
	}
	if frac >= 1 {
		return q1
	}

	d := q0.Dot(q1)
	if d < 0 {
		q1 = q1.Neg()
		d = -d
	}
	angle := math32.Acos(mgl32.Clamp(d, -1, 1))
	if math32.Abs(math32.Abs(d)-1) < slerpEps || math32.Abs(angle) < slerpEps {
		return q0
	}

	isin := 1 / math32.Sin(angle)
	s0 := math32.Sin((1-frac)*angle) * isin
	s1 := math32.Sin(frac*angle) * isin
	return Quat{
		q0.X*s0 + q1.X*s1,
		q0.Y*s0 + q1.Y*s1,
		q0.Z*s0 + q1.Z*s1,
		q0.W*s0 + q1.W*s1,
	}
}

// RandomQuat returns a quaternion drawn uniformly from the unit 3-sphere via
// the two-angle construction from three independent uniforms. A nil r uses
// the shared global source.
func RandomQuat(r *rand.Rand) Quat {
	u0, u1, u2 := randFloat32(r), randFloat32(r), randFloat32(r)
	r1 := math32.Sqrt(1 - u0)
	r2 := math32.Sqrt(u0)
	t1 := 2 * math32.Pi * u1
	t2 := 2 * math32.Pi * u2
	return Quat{
		X: math32.Sin(t1) * r1,
		Y: math32.Cos(t1) * r1,
		Z: math32.Sin(t2) * r2,
		W: math32.Cos(t2) * r2,
	}
}

// RandomAxisAngle samples a uniformly random rotation axis (a normalized
// spherical Gaussian draw) and an angle uniform in [0, limit).
func RandomAxisAngle(limit float32, r *rand.Rand) (mgl32.Vec3, float32) {
	axis := Normalize(mgl32.Vec3{randNorm32(r), randNorm32(r), randNorm32(r)})
	return axis, randFloat32(r) * limit
}

// IsRightAngle reports whether q is, up to sign and axis permutation, a
// multiple-of-90-degree rotation. All such unit quaternions have components
// drawn from {0, ±1/2, ±1/√2, ±1}, so the L1 norm lands on one of exactly
// three values, which is checked against atol.
func (q Quat) IsRightAngle(atol float32) bool {
	l1 := math32.Abs(q.X) + math32.Abs(q.Y) + math32.Abs(q.Z) + math32.Abs(q.W)
	for _, ref := range [3]float32{1.0, 1.414, 2.0} {
		if math32.Abs(l1-ref) < atol {
			return true
		}
	}
	return false
}

// Mgl converts q to mathgl's w-first quaternion type.
func (q Quat) Mgl() mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}
}

// QuatFromMgl converts mathgl's w-first quaternion type to a Quat.
func QuatFromMgl(q mgl32.Quat) Quat {
	return Quat{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
}

// WXYZ returns the components reordered to the (w, x, y, z) convention.
func (q Quat) WXYZ() [4]float32 { return [4]float32{q.W, q.X, q.Y, q.Z} }

// QuatFromWXYZ builds a Quat from components in the (w, x, y, z) convention.
func QuatFromWXYZ(c [4]float32) Quat {
	return Quat{X: c[1], Y: c[2], Z: c[3], W: c[0]}
}

func randFloat32(r *rand.Rand) float32 {
	if r == nil {
		return rand.Float32()
	}
	return r.Float32()
}

func randNorm32(r *rand.Rand) float32 {
	if r == nil {
		return float32(rand.NormFloat64())
	}
	return float32(r.NormFloat64())
}
