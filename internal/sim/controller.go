package sim

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/framesync/framesync/pkg/spatial"
)

// WaypointController drives a frame toward target poses in bounded steps.
// Translation commands are clipped to MaxStepPos world units, rotation
// commands to MaxStepRot radians. With 0 < SmoothAlpha < 1 the translation
// command is exponentially smoothed across steps, alpha weighting the newest
// command.
type WaypointController struct {
	MaxStepPos  float32
	MaxStepRot  float32
	SmoothAlpha float32

	primed bool
	prev   mgl32.Vec3
}

// StepResult is one controller tick toward a waypoint.
type StepResult struct {
	// DPos is the translation command, clipped and smoothed.
	DPos mgl32.Vec3
	// DOrn is the rotation command, left-applied to the current orientation.
	DOrn spatial.Quat
	// PosErr and RotErr are the pose error pair between target and current.
	PosErr mgl32.Vec3
	RotErr mgl32.Vec3
	// ClippedPos and ClippedRot report whether the limits cut the raw commands.
	ClippedPos bool
	ClippedRot bool
}

// NewWaypointController builds a controller from its configuration.
func NewWaypointController(cfg ControllerConfig) *WaypointController {
	return &WaypointController{
		MaxStepPos:  cfg.MaxStepPos,
		MaxStepRot:  cfg.MaxStepRot,
		SmoothAlpha: cfg.SmoothAlpha,
	}
}

// Step computes the next bounded command pair taking current toward target.
func (w *WaypointController) Step(current, target spatial.Pose) StepResult {
	posErr, rotErr := spatial.PoseError(target.Mat4(), current.Mat4())

	dpos, clippedPos := spatial.ClipTranslation(target.Pos.Sub(current.Pos), w.MaxStepPos)
	dorn, clippedRot := spatial.ClipRotation(spatial.QuatDistance(target.Orn, current.Orn), w.MaxStepRot)

	return StepResult{
		DPos:       w.smooth(dpos),
		DOrn:       dorn,
		PosErr:     posErr,
		RotErr:     rotErr,
		ClippedPos: clippedPos,
		ClippedRot: clippedRot,
	}
}

// Reset clears the smoothing state for a new waypoint episode.
func (w *WaypointController) Reset() {
	w.primed = false
	w.prev = mgl32.Vec3{}
}

// smooth folds the newest translation command into the running exponential
// average. The first command of an episode passes through unchanged.
func (w *WaypointController) smooth(cmd mgl32.Vec3) mgl32.Vec3 {
	if w.SmoothAlpha <= 0 || w.SmoothAlpha >= 1 {
		return cmd
	}
	if !w.primed {
		w.primed = true
		w.prev = cmd
		return cmd
	}
	out := mgl32.Vec3{
		spatial.EWMAFrom([]float32{cmd.X()}, w.SmoothAlpha, w.prev.X())[0],
		spatial.EWMAFrom([]float32{cmd.Y()}, w.SmoothAlpha, w.prev.Y())[0],
		spatial.EWMAFrom([]float32{cmd.Z()}, w.SmoothAlpha, w.prev.Z())[0],
	}
	w.prev = out
	return out
}

// Advance applies the commands in res to p and returns the next pose.
func Advance(p spatial.Pose, res StepResult) spatial.Pose {
	return spatial.Pose{
		Pos: p.Pos.Add(res.DPos),
		Orn: res.DOrn.Mul(p.Orn).Normalize(),
	}
}
