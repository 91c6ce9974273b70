package spatial

import (
	"cogentcore.org/core/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Pose is a rigid transform in pair form: a position and an orientation of
// one frame expressed relative to another.
type Pose struct {
	Pos mgl32.Vec3
	Orn Quat
}

// NewPose packs a position and an orientation into a Pose.
func NewPose(pos mgl32.Vec3, orn Quat) Pose {
	return Pose{Pos: pos, Orn: orn}
}

// PoseIdent returns the identity pose.
func PoseIdent() Pose { return Pose{Orn: QuatIdent()} }

// Mat4 packs the pose into a homogeneous matrix: rotation block top-left,
// translation in the last column, bottom row (0,0,0,1).
func (p Pose) Mat4() mgl32.Mat4 {
	return MakePose(p.Pos, p.Orn.Mat3())
}

// PoseFromMat unpacks a homogeneous matrix into pair form.
func PoseFromMat(m mgl32.Mat4) Pose {
	return Pose{Pos: m.Col(3).Vec3(), Orn: MatToQuat(m.Mat3())}
}

// MakePose builds a homogeneous matrix from a translation vector and a 3x3
// rotation matrix.
func MakePose(translation mgl32.Vec3, rotation mgl32.Mat3) mgl32.Mat4 {
	m := rotation.Mat4()
	m.Set(0, 3, translation.X())
	m.Set(1, 3, translation.Y())
	m.Set(2, 3, translation.Z())
	return m
}

// PoseInAToPoseInB converts the pose of some frame C expressed in frame A to
// the pose of C expressed in frame B: poseAInB * poseA. Order matters.
func PoseInAToPoseInB(poseA, poseAInB mgl32.Mat4) mgl32.Mat4 {
	return poseAInB.Mul4(poseA)
}

// PoseInv computes the rigid inverse [R^T, -R^T*t; 0 1] in closed form,
// which is cheaper and better conditioned than a general inversion when the
// rotation block is orthonormal.
func PoseInv(m mgl32.Mat4) mgl32.Mat4 {
	rt := m.Mat3().Transpose()
	t := rt.Mul3x1(m.Col(3).Vec3()).Mul(-1)
	return MakePose(t, rt)
}

// PoseTransform composes pose1 on top of pose0 in pair form: the matrix
// product mat(pose1) * mat(pose0), converted back. Used to map a
// frame-relative delta back into the outer frame.
func PoseTransform(p1, p0 Pose) Pose {
	return PoseFromMat(p1.Mat4().Mul4(p0.Mat4()))
}

// RelativePoseTransform solves pose1 = pose0 * T for T, i.e.
// inv(pose0) * pose1. This is the primitive that turns a world pose into a
// frame-relative one.
func RelativePoseTransform(p1, p0 Pose) Pose {
	return PoseFromMat(PoseInv(p0.Mat4()).Mul4(p1.Mat4()))
}

// InvertPoseTransform returns the rigid inverse of a pair-form pose.
func InvertPoseTransform(p Pose) Pose {
	return PoseFromMat(PoseInv(p.Mat4()))
}

// PoseError returns the 6-dof error from current toward target as separate
// translational and rotational parts. The rotational part is the half-sum of
// the cross products of corresponding rotation columns, a small-angle
// estimate meant for control loops rather than a geodesic distance.
func PoseError(target, current mgl32.Mat4) (mgl32.Vec3, mgl32.Vec3) {
	posErr := target.Col(3).Vec3().Sub(current.Col(3).Vec3())

	r1 := current.Col(0).Vec3()
	r2 := current.Col(1).Vec3()
	r3 := current.Col(2).Vec3()
	r1d := target.Col(0).Vec3()
	r2d := target.Col(1).Vec3()
	r3d := target.Col(2).Vec3()
	rotErr := r1.Cross(r1d).Add(r2.Cross(r2d)).Add(r3.Cross(r3d)).Mul(0.5)

	return posErr, rotErr
}

// OrientationError returns the axis-angle error from current toward desired:
// the vector part of desired * conjugate(current), sign-flipped by its own
// scalar part to pick the shortest-path representative.
func OrientationError(desired, current Quat) mgl32.Vec3 {
	qr := desired.Mul(current.Conjugate())
	switch {
	case qr.W > 0:
		return qr.Vec3()
	case qr.W < 0:
		return qr.Vec3().Mul(-1)
	default:
		return mgl32.Vec3{}
	}
}

// OrientationDiff returns the angle in radians between two orientations,
// measured between their normalized axis-angle forms. Two identity rotations
// have zero difference.
func OrientationDiff(q0, q1 Quat) float32 {
	aa0 := q0.AxisAngle()
	aa1 := q1.AxisAngle()
	if aa0.Len() < normEps && aa1.Len() < normEps {
		return 0
	}
	d := Normalize(aa0).Dot(Normalize(aa1))
	return math32.Acos(mgl32.Clamp(d, -1, 1))
}
