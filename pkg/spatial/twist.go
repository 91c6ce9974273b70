package spatial

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Skew returns the skew-symmetric cross-product matrix of v, so that
// Skew(v).Mul3x1(w) == v x w.
func Skew(v mgl32.Vec3) mgl32.Mat3 {
	return mgl32.Mat3FromRows(
		mgl32.Vec3{0, -v.Z(), v.Y()},
		mgl32.Vec3{v.Z(), 0, -v.X()},
		mgl32.Vec3{-v.Y(), v.X(), 0},
	)
}

// VelInAToVelInB maps a twist measured in frame A into frame B given the
// pose of A in B. The linear part picks up the lever-arm term from the
// angular velocity.
func VelInAToVelInB(velA, angVelA mgl32.Vec3, poseAInB mgl32.Mat4) (mgl32.Vec3, mgl32.Vec3) {
	pos := poseAInB.Col(3).Vec3()
	rot := poseAInB.Mat3()
	angVelB := rot.Mul3x1(angVelA)
	velB := rot.Mul3x1(velA).Add(Skew(pos).Mul3x1(angVelB))
	return velB, angVelB
}

// ForceInAToForceInB maps a wrench measured in frame A into frame B given
// the pose of A in B. This is the dual of VelInAToVelInB; the torque picks
// up the moment of the force about the frame offset.
func ForceInAToForceInB(forceA, torqueA mgl32.Vec3, poseAInB mgl32.Mat4) (mgl32.Vec3, mgl32.Vec3) {
	pos := poseAInB.Col(3).Vec3()
	rotT := poseAInB.Mat3().Transpose()
	forceB := rotT.Mul3x1(forceA)
	torqueB := rotT.Mul3x1(Skew(pos).Mul3x1(forceA)).Mul(-1).Add(rotT.Mul3x1(torqueA))
	return forceB, torqueB
}
