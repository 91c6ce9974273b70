package spatial

import (
	"math"

	"cogentcore.org/core/math32"
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/floats"
)

// ClipTranslation limits a translation delta to the given magnitude,
// preserving direction. The second return reports whether clipping occurred.
func ClipTranslation(dpos mgl32.Vec3, limit float32) (mgl32.Vec3, bool) {
	norm := dpos.Len()
	if norm > limit {
		return dpos.Mul(limit / norm), true
	}
	return dpos, false
}

// ClipRotation limits a rotation delta to the given angle in radians,
// preserving the rotation axis. The second return reports whether clipping
// occurred. The input is normalized first so the angle read off the scalar
// part is meaningful.
func ClipRotation(q Quat, limit float32) (Quat, bool) {
	q = q.Normalize()
	den := math32.Sqrt(math32.Max(1-q.W*q.W, 0))
	if den == 0 {
		// Zero rotation, nothing to clip.
		return q, false
	}
	x := q.X / den
	y := q.Y / den
	z := q.Z / den
	a := 2 * math32.Acos(mgl32.Clamp(q.W, -1, 1))

	if math32.Abs(a) > limit {
		a = math32.Copysign(limit, a) / 2
		sa := math32.Sin(a)
		ca := math32.Cos(a)
		return Quat{X: x * sa, Y: y * sa, Z: z * sa, W: ca}, true
	}
	return q, false
}

// EWMA computes an exponentially weighted moving average of data with the
// given smoothing factor, seeded from the first sample.
func EWMA(data []float32, alpha float32) []float32 {
	if len(data) == 0 {
		return nil
	}
	return EWMAFrom(data, alpha, data[0])
}

// EWMAFrom computes an exponentially weighted moving average seeded from an
// explicit offset, so successive windows can continue a running average.
// The recurrence is evaluated through a cumulative sum in float64 to keep
// the scaling factors from underflowing before the result is narrowed back.
func EWMAFrom(data []float32, alpha, offset float32) []float32 {
	n := len(data)
	if n == 0 {
		return nil
	}
	a := float64(alpha)

	// scalingFactors[i] = (1-alpha)^i
	scalingFactors := make([]float64, n+1)
	scalingFactors[0] = 1
	for i := 1; i <= n; i++ {
		scalingFactors[i] = scalingFactors[i-1] * (1 - a)
	}

	out := make([]float64, n)
	for i, d := range data {
		out[i] = float64(d) * a * scalingFactors[n-1] / scalingFactors[i]
	}
	floats.CumSum(out, out)

	off := float64(offset)
	res := make([]float32, n)
	for i := range out {
		res[i] = float32(out[i]/scalingFactors[n-1-i] + off*scalingFactors[i+1])
	}
	return res
}

// SpiralCoordinates maps a non-negative index to 2D integer coordinates on
// a square spiral around the origin, so that consecutive indices are
// adjacent cells and the first (2m+1)^2 indices tile the square [-m, m]^2.
func SpiralCoordinates(n int) (int, int) {
	fn := float64(n)
	m := int(math.Floor(math.Sqrt(fn)))
	sign := 1
	if m%2 != 0 {
		sign = -1
	}
	par := int(math.Floor(2*math.Sqrt(fn))) % 2
	ceilHalf := (m + 1) / 2
	k := n - m*(m+1)
	x := sign * (k*par - ceilHalf)
	y := sign * (k*(1-par) + ceilHalf)
	return x, y
}

// CartesianToPolar converts planar cartesian coordinates to (radius, angle).
func CartesianToPolar(x, y float32) (float32, float32) {
	return math32.Sqrt(x*x + y*y), math32.Atan2(y, x)
}
