package spatial

import (
	"github.com/go-gl/mathgl/mgl32"
)

// normEps floors vector norms during normalization so degenerate inputs map
// to the zero vector instead of NaN.
const normEps = 1e-10

// Normalize returns v scaled to unit length. The norm is floored at a small
// epsilon, so a zero-length input yields the zero vector.
func Normalize(v mgl32.Vec3) mgl32.Vec3 {
	n := v.Len()
	if n < normEps {
		n = normEps
	}
	return v.Mul(1 / n)
}

// L2Distance returns the Euclidean distance between a and b.
func L2Distance(a, b mgl32.Vec3) float32 {
	return a.Sub(b).Len()
}
