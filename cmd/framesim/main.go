package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/framesync/framesync/internal/core/frames"
	"github.com/framesync/framesync/internal/core/observability/log"
	"github.com/framesync/framesync/internal/core/state"
	"github.com/framesync/framesync/internal/sim"
	"github.com/framesync/framesync/pkg/spatial"
)

func main() {
	var (
		configPath string
		steps      int
		level      string
	)
	flag.StringVar(&configPath, "config", "", "Path to a YAML config. Empty uses the built-in defaults.")
	flag.IntVar(&steps, "steps", 40, "Controller steps to run per instance.")
	flag.StringVar(&level, "log-level", "info", "Log level: debug, info, warn or error.")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, configPath, steps, level); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, steps int, level string) error {
	lg := log.New(parseLevel(level))

	cfg := sim.DefaultConfig()
	if configPath != "" {
		f, err := os.Open(configPath)
		if err != nil {
			return fmt.Errorf("open config: %w", err)
		}
		loaded, err := sim.LoadYAML(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
		cfg = *loaded
	}

	env, err := sim.NewVectorEnv(cfg, lg)
	if err != nil {
		return err
	}

	if cfg.Camera != nil {
		if err := reportCamera(env, cfg, lg); err != nil {
			return err
		}
	}
	if len(cfg.Objects) == 0 {
		lg.Warn("no objects configured, nothing to drive")
		return nil
	}

	subject := cfg.Objects[0].Name
	if err := driveInstances(ctx, env, cfg, subject, steps, lg); err != nil {
		return err
	}
	return verifyRestore(env, subject, lg)
}

// reportCamera resolves the mounted camera in instance 0 and logs its world
// pose and projection.
func reportCamera(env *sim.VectorEnv, cfg sim.Config, lg log.Log) error {
	cam := sim.NewCamera(*cfg.Camera)
	proj, err := cam.ProjectionMatrix()
	if err != nil {
		return fmt.Errorf("camera projection: %w", err)
	}
	pose, err := cam.WorldPose(env.Instance(0))
	if err != nil {
		return fmt.Errorf("camera pose: %w", err)
	}
	lg.Info("camera ready",
		log.String("mount", cam.Mount),
		log.Vec3("world_pos", pose.Pos),
		log.Quat("world_orn", pose.Orn),
		log.Float32("focal_x", proj.At(0, 0)),
		log.Float32("focal_y", proj.At(1, 1)),
	)
	return nil
}

// driveInstances steps every instance's controller toward a seeded waypoint
// on the batch pool.
func driveInstances(ctx context.Context, env *sim.VectorEnv, cfg sim.Config, subject string, steps int, lg log.Log) error {
	return env.Each(ctx, func(ctx context.Context, i int, h *frames.Hierarchy) error {
		rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
		target := spatial.NewPose(
			mgl32.Vec3{rng.Float32()*4 - 2, rng.Float32()*4 - 2, 0},
			spatial.EulerToQuat(mgl32.Vec3{0, 0, rng.Float32() * mgl32.DegToRad(180)}),
		)

		ctl := sim.NewWaypointController(cfg.Controller)
		current, err := h.PoseOf(subject, frames.Scene)
		if err != nil {
			return err
		}
		var last sim.StepResult
		for s := 0; s < steps; s++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			last = ctl.Step(current, target)
			current = sim.Advance(current, last)
			if err := h.SetPoseOf(subject, current, frames.Scene); err != nil {
				return err
			}
		}
		lg.Debug("instance driven",
			log.Int("instance", i),
			log.Vec3("pos_err", last.PosErr),
			log.Float32("dist", spatial.L2Distance(current.Pos, target.Pos)),
		)
		return nil
	})
}

// verifyRestore dumps the first instance, pushes the snapshot through the
// serialized form and applies it to the last instance, then checks that the
// scene-relative pose survived while the world pose re-attached to the
// displaced origin.
func verifyRestore(env *sim.VectorEnv, subject string, lg log.Log) error {
	first, last := 0, env.Len()-1

	snap := state.Dump(env.Instance(first))
	data, err := snap.Serialize()
	if err != nil {
		return fmt.Errorf("serialize snapshot: %w", err)
	}
	var restored state.Snapshot
	if err := restored.Deserialize(data); err != nil {
		return fmt.Errorf("deserialize snapshot: %w", err)
	}
	if err := restored.Apply(env.Instance(last)); err != nil {
		return fmt.Errorf("apply snapshot: %w", err)
	}

	want, err := env.Instance(first).PoseOf(subject, frames.Scene)
	if err != nil {
		return err
	}
	got, err := env.Instance(last).PoseOf(subject, frames.Scene)
	if err != nil {
		return err
	}
	if d := spatial.L2Distance(want.Pos, got.Pos); d > 1e-4 {
		return fmt.Errorf("restore drifted: scene positions differ by %v", d)
	}

	world, err := env.Instance(last).PoseOf(subject, frames.World)
	if err != nil {
		return err
	}
	lg.Info("state restore verified",
		log.Int("snapshot_frames", len(restored.Entries)),
		log.Int("encoded_bytes", len(data)),
		log.Vec3("scene_pos", got.Pos),
		log.Vec3("world_pos", world.Pos),
		log.Vec3("target_origin", env.Origin(last).Pos),
	)
	return nil
}

func parseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}
