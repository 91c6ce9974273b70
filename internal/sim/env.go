// Package sim assembles frame hierarchies, cameras and waypoint controllers
// into a vectorized multi-instance simulation. Instances share one world but
// never reference each other's frames; everything inside an instance is
// expressed against its own scene origin.
package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/framesync/framesync/internal/core/frames"
	"github.com/framesync/framesync/internal/core/observability/log"
	"github.com/framesync/framesync/internal/core/state"
	"github.com/framesync/framesync/pkg/batch"
	"github.com/framesync/framesync/pkg/spatial"
)

// ErrSnapshotCount is returned by LoadAll when the number of snapshots does
// not match the number of instances.
var ErrSnapshotCount = errors.New("sim: snapshot count does not match instance count")

// VectorEnv holds N structurally identical scene instances. Instance i's
// origin sits at spacing times the i-th spiral cell, so any count of
// instances tiles the plane without overlap.
type VectorEnv struct {
	cfg       Config
	log       log.Log
	instances []*frames.Hierarchy
}

// NewVectorEnv validates cfg, lays out the scene origins and populates every
// instance with the configured objects. A nil logger falls back to the
// process logger.
func NewVectorEnv(cfg Config, lg log.Log) (*VectorEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if lg == nil {
		lg = log.Provide()
	}

	instances := make([]*frames.Hierarchy, cfg.Instances)
	for i := range instances {
		x, y := spatial.SpiralCoordinates(i)
		origin := spatial.NewPose(
			mgl32.Vec3{float32(x) * cfg.Spacing, float32(y) * cfg.Spacing, 0},
			spatial.QuatIdent(),
		)
		h := frames.NewAt(origin)
		for _, obj := range cfg.Objects {
			rel := spatial.NewPose(mgl32.Vec3(obj.Position), eulerDegToQuat(obj.EulerDeg))
			if _, err := h.Add(obj.Name, obj.Parent, rel); err != nil {
				return nil, fmt.Errorf("sim: instance %d: %w", i, err)
			}
		}
		instances[i] = h
	}

	lg.Info("vector env ready",
		log.Int("instances", cfg.Instances),
		log.Float32("spacing", cfg.Spacing),
		log.Int("objects", len(cfg.Objects)),
	)
	return &VectorEnv{cfg: cfg, log: lg, instances: instances}, nil
}

// Len returns the instance count.
func (v *VectorEnv) Len() int { return len(v.instances) }

// Config returns the configuration the env was built from.
func (v *VectorEnv) Config() Config { return v.cfg }

// Instance returns the hierarchy of instance i.
func (v *VectorEnv) Instance(i int) *frames.Hierarchy { return v.instances[i] }

// Origin returns the world pose of instance i's scene origin.
func (v *VectorEnv) Origin(i int) spatial.Pose { return v.instances[i].SceneOrigin() }

// Each runs fn once per instance on the configured worker pool. The first
// error cancels the remaining instances.
func (v *VectorEnv) Each(ctx context.Context, fn func(ctx context.Context, i int, h *frames.Hierarchy) error) error {
	idx := make([]int, len(v.instances))
	for i := range idx {
		idx[i] = i
	}
	return batch.ForEach(ctx, v.cfg.Workers, idx, func(ctx context.Context, i int) error {
		return fn(ctx, i, v.instances[i])
	})
}

// DumpAll snapshots every instance, index-aligned with the env.
func (v *VectorEnv) DumpAll() []*state.Snapshot {
	snaps := make([]*state.Snapshot, len(v.instances))
	for i, h := range v.instances {
		snaps[i] = state.Dump(h)
	}
	return snaps
}

// LoadAll applies snaps[i] to instance i. Poses are stored scene-relative, so
// the snapshots may come from instances laid out anywhere.
func (v *VectorEnv) LoadAll(ctx context.Context, snaps []*state.Snapshot) error {
	if len(snaps) != len(v.instances) {
		return fmt.Errorf("%w: %d snapshots for %d instances", ErrSnapshotCount, len(snaps), len(v.instances))
	}
	return v.Each(ctx, func(_ context.Context, i int, h *frames.Hierarchy) error {
		if err := snaps[i].Apply(h); err != nil {
			return fmt.Errorf("instance %d: %w", i, err)
		}
		return nil
	})
}

func eulerDegToQuat(deg [3]float32) spatial.Quat {
	return spatial.EulerToQuat(mgl32.Vec3{
		mgl32.DegToRad(deg[0]),
		mgl32.DegToRad(deg[1]),
		mgl32.DegToRad(deg[2]),
	})
}
