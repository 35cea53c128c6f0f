// Package config handles render configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/taigrr/shenandoah/pkg/math3d"
)

// Config holds everything needed to render a scene.
type Config struct {
	Render    RenderConfig    `yaml:"render"`
	Camera    CameraConfig    `yaml:"camera"`
	Objects   []ObjectConfig  `yaml:"objects"`
	Output    OutputConfig    `yaml:"output"`
	Animation AnimationConfig `yaml:"animation"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// RenderConfig selects the device and how hits are colored.
type RenderConfig struct {
	Device      string `yaml:"device"`       // "auto" or a device name
	Threads     int    `yaml:"threads"`      // Upper bound, clamped to the CPU count
	Shading     string `yaml:"shading"`      // barycentric, lattice or texture
	LatticeSize int    `yaml:"lattice_size"` // Lattice cells per UV unit
	Strict      bool   `yaml:"strict"`       // Reject hits behind the ray origin
	Texture     string `yaml:"texture"`      // Shared texture image for texture shading
	Filter      string `yaml:"filter"`       // nearest or bilinear
}

// CameraConfig describes the pinhole camera.
type CameraConfig struct {
	Origin      Vec3    `yaml:"origin"`
	Up          Vec3    `yaml:"up"`
	Right       Vec3    `yaml:"right"`
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	FOV         float64 `yaml:"fov"` // Degrees
	FocalLength float64 `yaml:"focal_length"`
	Aspect      string  `yaml:"aspect"` // exact or truncate
}

// ObjectConfig is one scene object, either inline geometry or a glTF model.
type ObjectConfig struct {
	Name        string            `yaml:"name"`
	Model       string            `yaml:"model,omitempty"`
	Vertices    []Vec3            `yaml:"vertices,omitempty"`
	Triangles   [][3]int          `yaml:"triangles,omitempty"`
	UVs         [][2]float64      `yaml:"uvs,omitempty"`
	TriangleUVs [][3]int          `yaml:"triangle_uvs,omitempty"`
	Transform   TransformConfig   `yaml:"transform"`
	Copies      []TransformConfig `yaml:"copies,omitempty"` // Extra instances sharing the geometry
}

// TransformConfig places an object. A zero scale means unit scale.
type TransformConfig struct {
	Origin Vec3 `yaml:"origin"`
	Angles Vec3 `yaml:"angles"` // Degrees
	Scale  Vec3 `yaml:"scale,omitempty"`
}

// OutputConfig controls where frames go.
type OutputConfig struct {
	Path    string `yaml:"path"`
	Format  string `yaml:"format"` // png or text
	Preview bool   `yaml:"preview"`
}

// AnimationConfig describes a turntable animation. One frame renders a
// still image.
type AnimationConfig struct {
	Frames int     `yaml:"frames"`
	Spin   Vec3    `yaml:"spin"` // Target degrees per frame around each axis
	FPS    float64 `yaml:"fps"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Vec3 is a YAML friendly [x, y, z] triple.
type Vec3 [3]float64

// V3 converts to a math3d vector.
func (v Vec3) V3() math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}

// IsZero reports whether every component is zero.
func (v Vec3) IsZero() bool {
	return v == Vec3{}
}

// Default returns the demo scene: a two-triangle quad two units in front of
// the camera, rendered at 500x500 into test.txt.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Device:      "auto",
			Threads:     12,
			Shading:     "barycentric",
			LatticeSize: 256,
			Filter:      "nearest",
		},
		Camera: CameraConfig{
			Up:          Vec3{0, 0, 1},
			Right:       Vec3{1, 0, 0},
			Width:       500,
			Height:      500,
			FOV:         90,
			FocalLength: 1,
			Aspect:      "exact",
		},
		Objects: []ObjectConfig{{
			Name: "test",
			Vertices: []Vec3{
				{-1.3, -2, 0},
				{0, -2, 1},
				{2, -2, 0},
				{0, -2, -1},
			},
			Triangles: [][3]int{{0, 1, 2}, {3, 0, 2}},
		}},
		Output: OutputConfig{
			Path:   "test.txt",
			Format: "text",
		},
		Animation: AnimationConfig{
			Frames: 1,
			FPS:    30,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports the first setting that cannot be rendered. Out-of-range
// resolutions and thread counts are clamped later and are not errors.
func (c *Config) Validate() error {
	switch c.Render.Shading {
	case "barycentric", "lattice", "texture", "":
	default:
		return fmt.Errorf("render.shading: unknown shading %q", c.Render.Shading)
	}
	if c.Render.Shading == "lattice" && c.Render.LatticeSize <= 0 {
		return errors.New("render.lattice_size must be positive")
	}
	switch c.Render.Filter {
	case "nearest", "bilinear", "":
	default:
		return fmt.Errorf("render.filter: unknown filter %q", c.Render.Filter)
	}
	switch c.Camera.Aspect {
	case "exact", "truncate", "":
	default:
		return fmt.Errorf("camera.aspect: unknown mode %q", c.Camera.Aspect)
	}
	switch c.Output.Format {
	case "png", "text":
	default:
		return fmt.Errorf("output.format: unknown format %q", c.Output.Format)
	}
	if c.Output.Path == "" && !c.Output.Preview {
		return errors.New("output.path is required unless preview is enabled")
	}
	if c.Animation.Frames > 1 && c.Animation.FPS <= 0 {
		return errors.New("animation.fps must be positive for multi-frame renders")
	}
	for i, obj := range c.Objects {
		if err := obj.validate(); err != nil {
			return fmt.Errorf("objects[%d] %q: %w", i, obj.Name, err)
		}
	}
	return nil
}

func (o ObjectConfig) validate() error {
	if o.Model != "" {
		if len(o.Vertices) > 0 {
			return errors.New("model and inline vertices are mutually exclusive")
		}
		return nil
	}
	if len(o.TriangleUVs) > 0 && len(o.TriangleUVs) != len(o.Triangles) {
		return fmt.Errorf("%d triangle_uvs for %d triangles", len(o.TriangleUVs), len(o.Triangles))
	}
	if len(o.UVs) > 0 && len(o.TriangleUVs) == 0 && len(o.UVs) != len(o.Vertices) {
		return fmt.Errorf("%d uvs for %d vertices without triangle_uvs", len(o.UVs), len(o.Vertices))
	}
	return nil
}
