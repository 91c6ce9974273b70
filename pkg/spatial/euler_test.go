package spatial

import (
	"math/rand"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEulerAxes(t *testing.T) {
	a, err := ParseEulerAxes("sxyz")
	require.NoError(t, err)
	assert.Equal(t, EulerAxes{0, 0, 0, 0}, a)

	a, err = ParseEulerAxes("rzyz")
	require.NoError(t, err)
	assert.Equal(t, EulerAxes{2, 1, 1, 1}, a)

	_, err = ParseEulerAxes("sxyw")
	assert.ErrorIs(t, err, ErrInvalidAxes)
}

func TestEulerAxesCodeRoundTrip(t *testing.T) {
	for code := range axesToTuple {
		a, err := ParseEulerAxes(code)
		require.NoError(t, err)
		back, err := a.Code()
		require.NoError(t, err)
		assert.Equal(t, code, back)
	}

	_, err := EulerAxes{5, 0, 0, 0}.Code()
	assert.ErrorIs(t, err, ErrInvalidAxes)
}

func TestEulerToQuatKnown(t *testing.T) {
	assertQuatNear(t, QuatIdent(), EulerToQuat(mgl32.Vec3{}), 1e-6)

	half := math32.Pi / 2
	s, c := math32.Sin(half/2), math32.Cos(half/2)

	assertQuatNear(t, Quat{X: s, W: c}, EulerToQuat(mgl32.Vec3{half, 0, 0}), 1e-6)
	assertQuatNear(t, Quat{Y: s, W: c}, EulerToQuat(mgl32.Vec3{0, half, 0}), 1e-6)
	assertQuatNear(t, Quat{Z: s, W: c}, EulerToQuat(mgl32.Vec3{0, 0, half}), 1e-6)
}

func TestEulerRoundTrip(t *testing.T) {
	// Angles stay away from the pitch singularity; negatives come back
	// wrapped into [0, 2pi).
	e := mgl32.Vec3{0.1, -0.2, 0.3}
	got := EulerToQuat(e).Euler()
	assert.InDelta(t, 0.1, float64(got.X()), 1e-5)
	assert.InDelta(t, 2*math32.Pi-0.2, float64(got.Y()), 1e-5)
	assert.InDelta(t, 0.3, float64(got.Z()), 1e-5)
}

func TestQuatEulerQuatRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 30; i++ {
		q := RandomQuat(r)
		back := EulerToQuat(q.Euler())
		assert.True(t, back.SameRotation(q, 1e-3), "round trip diverged for %v", q)
	}
}

func TestEulerGimbal(t *testing.T) {
	// Straight-up pitch sits on the asin boundary.
	q := EulerToQuat(mgl32.Vec3{0, math32.Pi / 2, 0})
	e := q.Euler()
	assert.InDelta(t, math32.Pi/2, float64(e.Y()), 1e-3)

	// The recovered angles still reproduce the rotation.
	assert.True(t, EulerToQuat(e).SameRotation(q, 1e-3))
}

func TestEulerMatForms(t *testing.T) {
	e := mgl32.Vec3{0.4, 0.5, -1.2}
	m := EulerToMat(e)
	assert.True(t, m.ApproxEqualThreshold(EulerToQuat(e).Mat3(), 1e-6))

	back := MatToEuler(m)
	assert.True(t, EulerToQuat(back).SameRotation(EulerToQuat(e), 1e-4))
}

func TestWrapTwoPi(t *testing.T) {
	assert.InDelta(t, 0, float64(wrapTwoPi(0)), 1e-7)
	assert.InDelta(t, 1.5, float64(wrapTwoPi(1.5)), 1e-6)
	assert.InDelta(t, 2*math32.Pi-0.5, float64(wrapTwoPi(-0.5)), 1e-6)
	assert.InDelta(t, 0.5, float64(wrapTwoPi(2*math32.Pi+0.5)), 1e-5)
}
