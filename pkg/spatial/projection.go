package spatial

import (
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Frustum returns a row-vector perspective projection matrix for the given
// clipping planes. Coincident plane pairs are rejected rather than producing
// a division by zero.
func Frustum(left, right, bottom, top, znear, zfar float32) (mgl32.Mat4, error) {
	if right == left {
		return mgl32.Mat4{}, fmt.Errorf("%w: left plane %v equals right plane", ErrDegenerateFrustum, left)
	}
	if bottom == top {
		return mgl32.Mat4{}, fmt.Errorf("%w: bottom plane %v equals top plane", ErrDegenerateFrustum, bottom)
	}
	if znear == zfar {
		return mgl32.Mat4{}, fmt.Errorf("%w: near plane %v equals far plane", ErrDegenerateFrustum, znear)
	}

	var m mgl32.Mat4
	m.Set(0, 0, 2*znear/(right-left))
	m.Set(2, 0, (right+left)/(right-left))
	m.Set(1, 1, 2*znear/(top-bottom))
	m.Set(2, 1, (top+bottom)/(top-bottom))
	m.Set(2, 2, -(zfar+znear)/(zfar-znear))
	m.Set(3, 2, -2*znear*zfar/(zfar-znear))
	m.Set(2, 3, -1)
	return m, nil
}

// Ortho returns a row-vector orthographic projection matrix for the given
// clipping planes.
func Ortho(left, right, bottom, top, znear, zfar float32) (mgl32.Mat4, error) {
	if right == left {
		return mgl32.Mat4{}, fmt.Errorf("%w: left plane %v equals right plane", ErrDegenerateFrustum, left)
	}
	if bottom == top {
		return mgl32.Mat4{}, fmt.Errorf("%w: bottom plane %v equals top plane", ErrDegenerateFrustum, bottom)
	}
	if znear == zfar {
		return mgl32.Mat4{}, fmt.Errorf("%w: near plane %v equals far plane", ErrDegenerateFrustum, znear)
	}

	var m mgl32.Mat4
	m.Set(0, 0, 2/(right-left))
	m.Set(3, 0, -(right+left)/(right-left))
	m.Set(1, 1, 2/(top-bottom))
	m.Set(3, 1, -(top+bottom)/(top-bottom))
	m.Set(2, 2, -2/(zfar-znear))
	m.Set(3, 2, -(zfar+znear)/(zfar-znear))
	m.Set(3, 3, 1)
	return m, nil
}

// Perspective returns a row-vector perspective projection from a vertical
// field of view in degrees and an aspect ratio, by deriving the near-plane
// extents and delegating to Frustum.
func Perspective(fovy, aspect, znear, zfar float32) (mgl32.Mat4, error) {
	h := math32.Tan(fovy/360*math32.Pi) * znear
	w := h * aspect
	return Frustum(-w, w, -h, h, znear, zfar)
}
