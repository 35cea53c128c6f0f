package render

import (
	"math"

	"github.com/taigrr/shenandoah/pkg/math3d"
)

// Epsilon is the determinant threshold below which a ray counts as parallel
// to a triangle's plane.
const Epsilon = 1e-6

// Hit is the outcome of an intersection test. OK is false for a miss, in
// which case the other fields are meaningless.
type Hit struct {
	OK bool

	T    float64 // Distance along the (unit) ray direction
	U, V float64 // Barycentric weights of the second and third vertex

	Triangle int // Triangle index within its object
	Object   int // Handle into the snapshot's object table
}

// NoHit is the miss result.
var NoHit = Hit{Object: -1, Triangle: -1}

// Beats reports whether h should replace best as the nearest hit. A hit
// beats a miss; between hits only a strictly smaller T wins, so the first
// of two equal hits is kept.
func (h Hit) Beats(best Hit) bool {
	if !h.OK {
		return false
	}
	return !best.OK || h.T < best.T
}

// Intersector runs the Möller–Trumbore ray-triangle test.
//
// By default hits behind the ray origin (negative T) are reported like any
// other. Strict rejects them.
type Intersector struct {
	Strict bool
}

// Intersect tests a ray against the triangle (v0, v1, v2) with the default,
// non-strict Intersector.
func Intersect(origin, dir, v0, v1, v2 math3d.Vec3) Hit {
	return Intersector{}.Intersect(origin, dir, v0, v1, v2)
}

// Intersect tests a ray against the triangle (v0, v1, v2). The returned Hit
// has Triangle and Object unset.
func (in Intersector) Intersect(origin, dir, v0, v1, v2 math3d.Vec3) Hit {
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)

	pvec := dir.Cross(edge2)
	det := edge1.Dot(pvec)

	// Parallel to the plane, or a zero-area triangle.
	if math.Abs(det) < Epsilon {
		return NoHit
	}

	invDet := 1 / det
	tvec := origin.Sub(v0)

	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return NoHit
	}

	qvec := tvec.Cross(edge1)
	v := dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return NoHit
	}

	t := edge2.Dot(qvec) * invDet
	if in.Strict && t < 0 {
		return NoHit
	}

	return Hit{OK: true, T: t, U: u, V: v, Triangle: -1, Object: -1}
}
