package spatial

import (
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// EulerAxes is the canonical tuple form of an Euler axis-sequence code:
// the first rotation axis, the parity of the axis permutation, whether the
// first axis repeats as the last, and whether the frame is rotating
// (intrinsic) rather than static (extrinsic).
type EulerAxes struct {
	First, Parity, Repetition, Frame int
}

// axesToTuple maps each of the 24 valid axis-sequence codes to its canonical
// tuple. Codes are a static/rotating flag followed by the axis order.
var axesToTuple = map[string]EulerAxes{
	"sxyz": {0, 0, 0, 0}, "sxyx": {0, 0, 1, 0}, "sxzy": {0, 1, 0, 0}, "sxzx": {0, 1, 1, 0},
	"syzx": {1, 0, 0, 0}, "syzy": {1, 0, 1, 0}, "syxz": {1, 1, 0, 0}, "syxy": {1, 1, 1, 0},
	"szxy": {2, 0, 0, 0}, "szxz": {2, 0, 1, 0}, "szyx": {2, 1, 0, 0}, "szyz": {2, 1, 1, 0},
	"rzyx": {0, 0, 0, 1}, "rxyx": {0, 0, 1, 1}, "ryzx": {0, 1, 0, 1}, "rxzx": {0, 1, 1, 1},
	"rxzy": {1, 0, 0, 1}, "ryzy": {1, 0, 1, 1}, "rzxy": {1, 1, 0, 1}, "ryxy": {1, 1, 1, 1},
	"ryxz": {2, 0, 0, 1}, "rzxz": {2, 0, 1, 1}, "rxyz": {2, 1, 0, 1}, "rzyz": {2, 1, 1, 1},
}

var tupleToAxes = make(map[EulerAxes]string, len(axesToTuple))

func init() {
	for code, tuple := range axesToTuple {
		tupleToAxes[tuple] = code
	}
}

// ParseEulerAxes validates an axis-sequence code against the 24 known codes
// and returns its canonical tuple.
func ParseEulerAxes(code string) (EulerAxes, error) {
	tuple, ok := axesToTuple[code]
	if !ok {
		return EulerAxes{}, fmt.Errorf("%q: %w", code, ErrInvalidAxes)
	}
	return tuple, nil
}

// Code returns the axis-sequence code for the tuple, inverting
// ParseEulerAxes.
func (a EulerAxes) Code() (string, error) {
	code, ok := tupleToAxes[a]
	if !ok {
		return "", fmt.Errorf("%+v: %w", a, ErrInvalidAxes)
	}
	return code, nil
}

// EulerToQuat converts (roll, pitch, yaw) angles in radians to a quaternion
// using the intrinsic roll-pitch-yaw convention via half-angle products.
func EulerToQuat(euler mgl32.Vec3) Quat {
	roll, pitch, yaw := euler.Elem()
	cy := math32.Cos(yaw * 0.5)
	sy := math32.Sin(yaw * 0.5)
	cr := math32.Cos(roll * 0.5)
	sr := math32.Sin(roll * 0.5)
	cp := math32.Cos(pitch * 0.5)
	sp := math32.Sin(pitch * 0.5)
	return Quat{
		X: cy*sr*cp - sy*cr*sp,
		Y: cy*cr*sp + sy*sr*cp,
		Z: sy*cr*cp - cy*sr*sp,
		W: cy*cr*cp + sy*sr*sp,
	}
}

// Euler extracts (roll, pitch, yaw) angles from q in the intrinsic
// roll-pitch-yaw convention. Near gimbal lock the asin argument is clamped
// and pitch falls back to a sign-copied half pi. All angles are wrapped into
// [0, 2pi).
func (q Quat) Euler() mgl32.Vec3 {
	sinrCosp := 2 * (q.W*q.X + q.Y*q.Z)
	cosrCosp := q.W*q.W - q.X*q.X - q.Y*q.Y + q.Z*q.Z
	roll := math32.Atan2(sinrCosp, cosrCosp)

	sinp := 2 * (q.W*q.Y - q.Z*q.X)
	var pitch float32
	if math32.Abs(sinp) >= 1 {
		pitch = math32.Copysign(math32.Pi/2, sinp)
	} else {
		pitch = math32.Asin(sinp)
	}

	sinyCosp := 2 * (q.W*q.Z + q.X*q.Y)
	cosyCosp := q.W*q.W + q.X*q.X - q.Y*q.Y - q.Z*q.Z
	yaw := math32.Atan2(sinyCosp, cosyCosp)

	return mgl32.Vec3{wrapTwoPi(roll), wrapTwoPi(pitch), wrapTwoPi(yaw)}
}

// EulerToMat converts (roll, pitch, yaw) angles to a rotation matrix through
// the quaternion form.
func EulerToMat(euler mgl32.Vec3) mgl32.Mat3 {
	return EulerToQuat(euler).Mat3()
}

// MatToEuler extracts (roll, pitch, yaw) angles from a rotation matrix
// through the quaternion form. Angles are wrapped into [0, 2pi).
func MatToEuler(m mgl32.Mat3) mgl32.Vec3 {
	return MatToQuat(m).Euler()
}

// wrapTwoPi maps an angle into [0, 2pi).
func wrapTwoPi(a float32) float32 {
	m := math32.Mod(a, 2*math32.Pi)
	if m < 0 {
		m += 2 * math32.Pi
	}
	return m
}
