package sim

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/framesync/framesync/internal/core/frames"
	"github.com/framesync/framesync/pkg/spatial"
)

// Camera is a pinhole camera mounted on a frame. FovY is in degrees, the
// world pose follows the mount frame through whatever chain it hangs on.
type Camera struct {
	FovY   float32
	Width  int
	Height int
	Near   float32
	Far    float32
	Mount  string
}

// NewCamera builds a camera from its configuration.
func NewCamera(cfg CameraConfig) Camera {
	return Camera{
		FovY:   cfg.FovY,
		Width:  cfg.Width,
		Height: cfg.Height,
		Near:   cfg.Near,
		Far:    cfg.Far,
		Mount:  cfg.Mount,
	}
}

// Aspect returns width over height.
func (c Camera) Aspect() float32 {
	return float32(c.Width) / float32(c.Height)
}

// ProjectionMatrix returns the perspective projection of the camera.
func (c Camera) ProjectionMatrix() (mgl32.Mat4, error) {
	return spatial.Perspective(c.FovY, c.Aspect(), c.Near, c.Far)
}

// OrthoMatrix returns an orthographic projection whose vertical extent is
// scale world units, widened by the aspect ratio.
func (c Camera) OrthoMatrix(scale float32) (mgl32.Mat4, error) {
	hh := scale / 2
	hw := hh * c.Aspect()
	return spatial.Ortho(-hw, hw, -hh, hh, c.Near, c.Far)
}

// WorldPose returns the camera pose in world coordinates by resolving the
// mount frame through h.
func (c Camera) WorldPose(h *frames.Hierarchy) (spatial.Pose, error) {
	return h.PoseOf(c.Mount, frames.World)
}

// ScenePose returns the camera pose relative to the scene origin of h.
func (c Camera) ScenePose(h *frames.Hierarchy) (spatial.Pose, error) {
	return h.PoseOf(c.Mount, frames.Scene)
}
