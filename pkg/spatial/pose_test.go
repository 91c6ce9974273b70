package spatial

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPose(r *rand.Rand) Pose {
	pos := mgl32.Vec3{
		float32(r.NormFloat64()) * 5,
		float32(r.NormFloat64()) * 5,
		float32(r.NormFloat64()) * 5,
	}
	return NewPose(pos, RandomQuat(r))
}

func assertPoseNear(t *testing.T, want, got Pose, tol float32) {
	t.Helper()
	assertVec3Near(t, want.Pos, got.Pos, tol)
	if !want.Orn.SameRotation(got.Orn, tol) {
		t.Errorf("orientations differ: want %v, got %v", want.Orn, got.Orn)
	}
}

func TestPoseMatRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(20))
	for i := 0; i < 30; i++ {
		p := randomPose(r)
		assertPoseNear(t, p, PoseFromMat(p.Mat4()), 1e-4)
	}
}

func TestPoseMatExactTranslation(t *testing.T) {
	// The translation column carries the position bit-for-bit; an identity
	// orientation packs an exact identity rotation block.
	m := NewPose(mgl32.Vec3{150, 150, 100}, QuatIdent()).Mat4()
	assert.Equal(t, mgl32.Vec3{150, 150, 100}, m.Col(3).Vec3())
	assert.Equal(t, mgl32.Ident3(), m.Mat3())
}

func TestMakePose(t *testing.T) {
	rot := qAbout(mgl32.Vec3{0, 0, 1}, 0.8).Mat3()
	trans := mgl32.Vec3{1, -2, 3}
	m := MakePose(trans, rot)

	assert.True(t, m.Mat3().ApproxEqualThreshold(rot, 1e-6))
	assertVec3Near(t, trans, m.Col(3).Vec3(), 1e-6)

	// Bottom row is (0, 0, 0, 1).
	assert.Equal(t, float32(0), m.At(3, 0))
	assert.Equal(t, float32(0), m.At(3, 1))
	assert.Equal(t, float32(0), m.At(3, 2))
	assert.Equal(t, float32(1), m.At(3, 3))
}

func TestPoseInv(t *testing.T) {
	r := rand.New(rand.NewSource(21))
	for i := 0; i < 20; i++ {
		m := randomPose(r).Mat4()
		assert.True(t, m.Mul4(PoseInv(m)).ApproxEqualThreshold(mgl32.Ident4(), 1e-5))
		assert.True(t, PoseInv(m).Mul4(m).ApproxEqualThreshold(mgl32.Ident4(), 1e-5))
	}
}

func TestInvertPoseTransform(t *testing.T) {
	r := rand.New(rand.NewSource(22))
	p := randomPose(r)

	// Composing a pose with its inverse lands on the identity pose.
	round := PoseTransform(p, InvertPoseTransform(p))
	assertPoseNear(t, PoseIdent(), round, 1e-4)
}

func TestPoseInAToPoseInB(t *testing.T) {
	// A frame one meter into the scene, with the scene shifted ten along x,
	// sits at eleven along x in world coordinates.
	local := MakePose(mgl32.Vec3{1, 1, 1}, mgl32.Ident3())
	scene := MakePose(mgl32.Vec3{10, 0, 0}, mgl32.Ident3())

	world := PoseInAToPoseInB(local, scene)
	assertVec3Near(t, mgl32.Vec3{11, 1, 1}, world.Col(3).Vec3(), 1e-6)

	// A rotated outer frame rotates the inner offset too.
	sceneRot := MakePose(mgl32.Vec3{10, 0, 0}, qAbout(mgl32.Vec3{0, 0, 1}, mgl32.DegToRad(90)).Mat3())
	local = MakePose(mgl32.Vec3{1, 0, 0}, mgl32.Ident3())
	world = PoseInAToPoseInB(local, sceneRot)
	assertVec3Near(t, mgl32.Vec3{10, 1, 0}, world.Col(3).Vec3(), 1e-5)
}

func TestRelativePoseTransform(t *testing.T) {
	r := rand.New(rand.NewSource(23))
	for i := 0; i < 20; i++ {
		p0 := randomPose(r)
		p1 := randomPose(r)

		// The relative transform satisfies pose1 = pose0 * T.
		rel := RelativePoseTransform(p1, p0)
		assertPoseNear(t, p1, PoseTransform(p0, rel), 1e-3)
	}

	// A pose relative to itself is the identity.
	p := randomPose(r)
	assertPoseNear(t, PoseIdent(), RelativePoseTransform(p, p), 1e-4)
}

func TestPoseTransformOrder(t *testing.T) {
	// Translate then rotate differs from rotate then translate.
	shift := NewPose(mgl32.Vec3{1, 0, 0}, QuatIdent())
	turn := NewPose(mgl32.Vec3{}, qAbout(mgl32.Vec3{0, 0, 1}, mgl32.DegToRad(90)))

	rotatedShift := PoseTransform(turn, shift)
	assertVec3Near(t, mgl32.Vec3{0, 1, 0}, rotatedShift.Pos, 1e-5)

	shiftedTurn := PoseTransform(shift, turn)
	assertVec3Near(t, mgl32.Vec3{1, 0, 0}, shiftedTurn.Pos, 1e-5)
}

func TestPoseErrorZero(t *testing.T) {
	p := MakePose(mgl32.Vec3{1, 2, 3}, qAbout(mgl32.Vec3{1, 1, 0}, 0.5).Mat3())
	posErr, rotErr := PoseError(p, p)
	assertVec3Near(t, mgl32.Vec3{}, posErr, 1e-6)
	assertVec3Near(t, mgl32.Vec3{}, rotErr, 1e-6)
}

func TestPoseErrorTranslation(t *testing.T) {
	current := MakePose(mgl32.Vec3{}, mgl32.Ident3())
	target := MakePose(mgl32.Vec3{1, 2, 3}, mgl32.Ident3())

	posErr, rotErr := PoseError(target, current)
	assertVec3Near(t, mgl32.Vec3{1, 2, 3}, posErr, 1e-6)
	assertVec3Near(t, mgl32.Vec3{}, rotErr, 1e-6)
}

func TestPoseErrorSmallRotation(t *testing.T) {
	current := MakePose(mgl32.Vec3{}, mgl32.Ident3())
	target := MakePose(mgl32.Vec3{}, qAbout(mgl32.Vec3{0, 0, 1}, 0.01).Mat3())

	// For small angles the rotational error approximates angle times axis.
	posErr, rotErr := PoseError(target, current)
	assertVec3Near(t, mgl32.Vec3{}, posErr, 1e-6)
	assertVec3Near(t, mgl32.Vec3{0, 0, 0.01}, rotErr, 1e-5)
}

func TestOrientationError(t *testing.T) {
	qz90 := qAbout(mgl32.Vec3{0, 0, 1}, mgl32.DegToRad(90))

	// No error between identical orientations.
	assertVec3Near(t, mgl32.Vec3{}, OrientationError(qz90, qz90), 1e-6)

	// Error toward a quarter turn is its sine-weighted axis.
	e := OrientationError(qz90, QuatIdent())
	assertVec3Near(t, mgl32.Vec3{0, 0, 0.70710678}, e, 1e-5)

	// The negated desired quaternion is the same rotation and must give
	// the same error through the sign flip branch.
	e = OrientationError(qz90.Neg(), QuatIdent())
	assertVec3Near(t, mgl32.Vec3{0, 0, 0.70710678}, e, 1e-5)
}

func TestOrientationErrorHalfTurn(t *testing.T) {
	// A half turn has a vanishing scalar part; the error is defined as zero.
	halfTurn := Quat{Z: 1}
	assertVec3Near(t, mgl32.Vec3{}, OrientationError(halfTurn, QuatIdent()), 1e-6)
}

func TestOrientationDiff(t *testing.T) {
	qx := qAbout(mgl32.Vec3{1, 0, 0}, mgl32.DegToRad(90))
	qz := qAbout(mgl32.Vec3{0, 0, 1}, mgl32.DegToRad(90))

	require.InDelta(t, mgl32.DegToRad(90), float64(OrientationDiff(qx, qz)), 1e-4)
	assert.InDelta(t, 0, float64(OrientationDiff(qx, qx)), 1e-3)
	assert.InDelta(t, 0, float64(OrientationDiff(QuatIdent(), QuatIdent())), 1e-6)
}
