package sim

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Config describes one vectorized simulation: how many scene instances to
// lay out, how far apart their origins sit, and what every instance contains.
type Config struct {
	Instances  int              `json:"instances" yaml:"instances"`
	Spacing    float32          `json:"spacing" yaml:"spacing"`
	Workers    int              `json:"workers,omitempty" yaml:"workers,omitempty"`
	Seed       int64            `json:"seed,omitempty" yaml:"seed,omitempty"`
	Objects    []ObjectConfig   `json:"objects,omitempty" yaml:"objects,omitempty"`
	Camera     *CameraConfig    `json:"camera,omitempty" yaml:"camera,omitempty"`
	Controller ControllerConfig `json:"controller" yaml:"controller"`
}

// ObjectConfig places one named frame inside every instance. Parent must be
// empty (scene root) or the name of an object declared earlier in the list.
type ObjectConfig struct {
	Name     string     `json:"name" yaml:"name"`
	Parent   string     `json:"parent,omitempty" yaml:"parent,omitempty"`
	Position [3]float32 `json:"position" yaml:"position"`
	EulerDeg [3]float32 `json:"euler_deg,omitempty" yaml:"euler_deg,omitempty"`
}

// CameraConfig describes the mounted camera. FovY is in degrees.
type CameraConfig struct {
	FovY   float32 `json:"fov_y" yaml:"fov_y"`
	Width  int     `json:"width" yaml:"width"`
	Height int     `json:"height" yaml:"height"`
	Near   float32 `json:"near" yaml:"near"`
	Far    float32 `json:"far" yaml:"far"`
	Mount  string  `json:"mount" yaml:"mount"`
}

// ControllerConfig bounds the per-step commands of waypoint controllers.
// MaxStepRot is in radians.
type ControllerConfig struct {
	MaxStepPos  float32 `json:"max_step_pos" yaml:"max_step_pos"`
	MaxStepRot  float32 `json:"max_step_rot" yaml:"max_step_rot"`
	SmoothAlpha float32 `json:"smooth_alpha,omitempty" yaml:"smooth_alpha,omitempty"`
}

// DefaultConfig returns a small working configuration.
func DefaultConfig() Config {
	return Config{
		Instances: 4,
		Spacing:   25,
		Objects: []ObjectConfig{
			{Name: "robot"},
			{Name: "camera_mount", Parent: "robot", Position: [3]float32{0.25, 0, 1.5}},
		},
		Camera: &CameraConfig{
			FovY:   60,
			Width:  640,
			Height: 480,
			Near:   0.01,
			Far:    100,
			Mount:  "camera_mount",
		},
		Controller: ControllerConfig{
			MaxStepPos:  0.05,
			MaxStepRot:  0.1,
			SmoothAlpha: 0.9,
		},
	}
}

// Validate validates the simulation configuration.
func (c *Config) Validate() error {
	if c.Instances < 1 {
		return fmt.Errorf("instances must be at least 1, got %d", c.Instances)
	}
	if c.Spacing <= 0 {
		return fmt.Errorf("spacing must be positive, got %v", c.Spacing)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}

	seen := make(map[string]bool, len(c.Objects))
	for i, obj := range c.Objects {
		if err := obj.validate(seen); err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
		seen[obj.Name] = true
	}

	if c.Camera != nil {
		if err := c.Camera.Validate(); err != nil {
			return fmt.Errorf("camera: %w", err)
		}
		if !seen[c.Camera.Mount] {
			return fmt.Errorf("camera: mount %q is not a configured object", c.Camera.Mount)
		}
	}

	if err := c.Controller.Validate(); err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	return nil
}

func (o *ObjectConfig) validate(seen map[string]bool) error {
	if o.Name == "" {
		return fmt.Errorf("name is required")
	}
	if seen[o.Name] {
		return fmt.Errorf("name %q is already in use", o.Name)
	}
	if o.Parent != "" && !seen[o.Parent] {
		return fmt.Errorf("parent %q must be declared earlier", o.Parent)
	}
	return nil
}

// Validate validates the camera configuration.
func (cc *CameraConfig) Validate() error {
	if cc.FovY <= 0 || cc.FovY >= 180 {
		return fmt.Errorf("fov_y must be inside (0, 180), got %v", cc.FovY)
	}
	if cc.Width < 1 || cc.Height < 1 {
		return fmt.Errorf("width and height must be positive, got %dx%d", cc.Width, cc.Height)
	}
	if cc.Near <= 0 {
		return fmt.Errorf("near must be positive, got %v", cc.Near)
	}
	if cc.Far <= cc.Near {
		return fmt.Errorf("far must exceed near, got near=%v far=%v", cc.Near, cc.Far)
	}
	if cc.Mount == "" {
		return fmt.Errorf("mount is required")
	}
	return nil
}

// Validate validates the controller configuration.
func (kc *ControllerConfig) Validate() error {
	if kc.MaxStepPos <= 0 {
		return fmt.Errorf("max_step_pos must be positive, got %v", kc.MaxStepPos)
	}
	if kc.MaxStepRot <= 0 {
		return fmt.Errorf("max_step_rot must be positive, got %v", kc.MaxStepRot)
	}
	if kc.SmoothAlpha < 0 || kc.SmoothAlpha > 1 {
		return fmt.Errorf("smooth_alpha must be between 0 and 1, got %v", kc.SmoothAlpha)
	}
	return nil
}

// LoadJSON loads config from JSON reader.
func LoadJSON(r io.Reader) (*Config, error) {
	var c Config
	dec := json.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadYAML loads config from YAML reader.
func LoadYAML(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
