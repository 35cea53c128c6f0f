// Package animate spins scene objects across the frames of a turntable
// render.
package animate

import (
	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/shenandoah/pkg/math3d"
	"github.com/taigrr/shenandoah/pkg/models"
)

// Axis tracks the angle of one rotation axis. Its per-frame velocity eases
// toward Target with a critically damped spring, so a turntable starts at
// rest and spins up smoothly.
type Axis struct {
	Angle    float64 // Degrees turned so far
	Velocity float64 // Degrees per frame
	Target   float64

	spring harmonica.Spring
	accel  float64 // spring velocity of Velocity
}

// NewAxis creates an axis at rest that spins up to target degrees per frame.
func NewAxis(fps int, target float64) Axis {
	return Axis{
		Target: target,
		// Frequency 4.0, damping 1.0: no overshoot past the target speed
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update advances one frame and returns the degrees turned during it.
func (a *Axis) Update() float64 {
	delta := a.Velocity
	a.Angle += delta
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, a.Target)
	return delta
}

// Turntable spins objects about their own X, Y and Z axes.
type Turntable struct {
	X, Y, Z Axis
}

// NewTurntable creates a turntable spinning up to spin degrees per frame on
// each axis. fps below 1 is treated as 1.
func NewTurntable(fps int, spin math3d.Vec3) *Turntable {
	fps = max(fps, 1)
	return &Turntable{
		X: NewAxis(fps, spin.X),
		Y: NewAxis(fps, spin.Y),
		Z: NewAxis(fps, spin.Z),
	}
}

// Step advances one frame and returns the per-axis rotation for it. The
// first step of a fresh turntable returns zero.
func (t *Turntable) Step() math3d.Vec3 {
	return math3d.V3(t.X.Update(), t.Y.Update(), t.Z.Update())
}

// Angles returns the total rotation so far.
func (t *Turntable) Angles() math3d.Vec3 {
	return math3d.V3(t.X.Angle, t.Y.Angle, t.Z.Angle)
}

// Apply advances one frame and rotates every mesh by that frame's step.
func (t *Turntable) Apply(meshes []*models.Mesh) math3d.Vec3 {
	d := t.Step()
	if d == (math3d.Vec3{}) {
		return d
	}
	for _, m := range meshes {
		m.Transform.OffsetAngles(d)
	}
	return d
}
