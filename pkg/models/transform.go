package models

import "github.com/taigrr/shenandoah/pkg/math3d"

// Transform places an object in the world. Angles are Euler angles in
// degrees applied X, then Y, then Z.
//
// The composite applies rotation, then scale, then translation, so objects
// rotate about their own origin instead of the world's.
type Transform struct {
	origin    math3d.Vec3
	angles    math3d.Vec3
	scale     math3d.Vec3
	composite math3d.Mat4
}

// NewTransform creates an identity transform.
func NewTransform() Transform {
	return NewTransformFrom(math3d.Zero3(), math3d.Zero3(), math3d.V3(1, 1, 1))
}

// NewTransformFrom creates a transform from origin, angles and scale.
func NewTransformFrom(origin, angles, scale math3d.Vec3) Transform {
	t := Transform{origin: origin, angles: angles, scale: scale}
	t.rebuild()
	return t
}

// The getters never modify the transform, so a mesh can be read from several
// goroutines while its transform is still the zero value.

// Origin returns the translation.
func (t *Transform) Origin() math3d.Vec3 { return t.resolved().origin }

// Angles returns the Euler angles in degrees.
func (t *Transform) Angles() math3d.Vec3 { return t.resolved().angles }

// Scale returns the per-axis scale.
func (t *Transform) Scale() math3d.Vec3 { return t.resolved().scale }

// Composite returns the combined matrix.
func (t *Transform) Composite() math3d.Mat4 { return t.resolved().composite }

// SetOrigin sets the translation.
func (t *Transform) SetOrigin(v math3d.Vec3) {
	t.ensure()
	t.origin = v
	t.rebuild()
}

// OffsetOrigin moves the translation by v.
func (t *Transform) OffsetOrigin(v math3d.Vec3) {
	t.ensure()
	t.origin = t.origin.Add(v)
	t.rebuild()
}

// SetAngles sets the Euler angles (degrees).
func (t *Transform) SetAngles(v math3d.Vec3) {
	t.ensure()
	t.angles = v
	t.rebuild()
}

// OffsetAngles adds v (degrees) to the Euler angles.
func (t *Transform) OffsetAngles(v math3d.Vec3) {
	t.ensure()
	t.angles = t.angles.Add(v)
	t.rebuild()
}

// SetScale sets the per-axis scale.
func (t *Transform) SetScale(v math3d.Vec3) {
	t.ensure()
	t.scale = v
	t.rebuild()
}

// OffsetScale adds v to the per-axis scale.
func (t *Transform) OffsetScale(v math3d.Vec3) {
	t.ensure()
	t.scale = t.scale.Add(v)
	t.rebuild()
}

// Apply transforms a homogeneous point or direction.
func (t *Transform) Apply(v math3d.Vec4) math3d.Vec4 {
	return t.Composite().MulVec4(v)
}

// isZero reports whether t is the zero value, which stands for identity.
func (t *Transform) isZero() bool {
	return t.composite == (math3d.Mat4{})
}

// resolved returns t, or a fresh identity transform when t is the zero value.
func (t *Transform) resolved() Transform {
	if t.isZero() {
		return NewTransform()
	}
	return *t
}

// ensure turns the zero value into the identity transform. Only setters call
// it.
func (t *Transform) ensure() {
	if t.isZero() {
		*t = NewTransform()
	}
}

func (t *Transform) rebuild() {
	rot := math3d.RotateEuler(math3d.V3(
		math3d.Radians(t.angles.X),
		math3d.Radians(t.angles.Y),
		math3d.Radians(t.angles.Z),
	))
	t.composite = math3d.Translate(t.origin).Mul(math3d.Scale(t.scale)).Mul(rot)
}
