package render

import (
	"math"

	"github.com/taigrr/shenandoah/pkg/math3d"
)

// AspectMode selects how the aspect ratio is derived from the resolution.
type AspectMode int

const (
	// AspectExact divides the resolutions as floating point numbers.
	AspectExact AspectMode = iota
	// AspectTruncate divides the resolutions as integers first, so 640x480
	// yields 1 instead of 1.333.
	AspectTruncate
)

// Camera is a pinhole camera. Every pixel's ray starts at the origin and
// passes through the center of that pixel on a view plane FocalLength units
// along Forward.
//
// Pixel (0, 0) is the bottom-left corner of the view plane.
type Camera struct {
	origin  math3d.Vec3
	up      math3d.Vec3
	right   math3d.Vec3
	forward math3d.Vec3

	fov        float64 // Vertical field of view in degrees
	focal      float64
	resX, resY int
	aspectMode AspectMode

	// Derived from the fields above (see update)
	aspect        float64
	height, width float64
	top, bottom   float64
	left, rightB  float64
}

// RayScratch is caller-owned storage for the two intermediate terms of a ray
// direction, so PixelRayDirectionTo never allocates.
type RayScratch [2]math3d.Vec3

// NewCamera creates a camera at the origin looking down -Y with Z up, a
// 90 degree field of view, focal length 1 and a 1x1 resolution.
func NewCamera() *Camera {
	c := &Camera{
		origin: math3d.Zero3(),
		up:     math3d.Up(),
		right:  math3d.Right(),
		fov:    90,
		focal:  1,
		resX:   1,
		resY:   1,
	}
	c.forward = c.right.Cross(c.up).Normalize()
	c.update()
	return c
}

// NewCameraWith creates a camera from a full description. up and right are
// normalized; fov is the vertical field of view in degrees.
func NewCameraWith(origin, up, right math3d.Vec3, resX, resY int, fov, focal float64) *Camera {
	c := &Camera{
		origin: origin,
		up:     up.Normalize(),
		right:  right.Normalize(),
		fov:    fov,
		focal:  focal,
		resX:   max(resX, 1),
		resY:   max(resY, 1),
	}
	c.forward = c.right.Cross(c.up).Normalize()
	c.update()
	return c
}

// Origin returns the shared ray origin.
func (c *Camera) Origin() math3d.Vec3 { return c.origin }

// Up returns the unit up vector.
func (c *Camera) Up() math3d.Vec3 { return c.up }

// Right returns the unit right vector.
func (c *Camera) Right() math3d.Vec3 { return c.right }

// Forward returns the unit viewing direction, Right x Up.
func (c *Camera) Forward() math3d.Vec3 { return c.forward }

// Resolution returns the horizontal and vertical pixel counts.
func (c *Camera) Resolution() (x, y int) { return c.resX, c.resY }

// PixelCount returns the number of pixels in a frame.
func (c *Camera) PixelCount() int { return c.resX * c.resY }

// FOV returns the vertical field of view in degrees.
func (c *Camera) FOV() float64 { return c.fov }

// FocalLength returns the distance from the origin to the view plane.
func (c *Camera) FocalLength() float64 { return c.focal }

// AspectRatio returns the derived aspect ratio.
func (c *Camera) AspectRatio() float64 { return c.aspect }

// FrameBounds returns the view plane extents along Right and Up.
func (c *Camera) FrameBounds() (left, right, bottom, top float64) {
	return c.left, c.rightB, c.bottom, c.top
}

// SetOrigin moves the camera.
func (c *Camera) SetOrigin(v math3d.Vec3) {
	c.origin = v
}

// SetUp sets the up vector and recomputes Forward. A zero vector, or one
// parallel to Right, leaves the basis unchanged.
func (c *Camera) SetUp(v math3d.Vec3) {
	up := v.Normalize()
	forward := c.right.Cross(up)
	if forward.LenSq() < Epsilon*Epsilon {
		return
	}
	c.up = up
	c.forward = forward.Normalize()
}

// SetRight sets the right vector and recomputes Forward. A zero vector, or
// one parallel to Up, leaves the basis unchanged.
func (c *Camera) SetRight(v math3d.Vec3) {
	right := v.Normalize()
	forward := right.Cross(c.up)
	if forward.LenSq() < Epsilon*Epsilon {
		return
	}
	c.right = right
	c.forward = forward.Normalize()
}

// SetResolution sets the pixel counts. Values below 1 are clamped to 1.
func (c *Camera) SetResolution(x, y int) {
	c.resX = max(x, 1)
	c.resY = max(y, 1)
	c.update()
}

// SetFOV sets the vertical field of view (in degrees).
func (c *Camera) SetFOV(fov float64) {
	c.fov = fov
	c.update()
}

// SetFocalLength sets the view plane distance.
func (c *Camera) SetFocalLength(focal float64) {
	c.focal = focal
	c.update()
}

// SetAspectMode selects exact or truncating aspect ratio division.
func (c *Camera) SetAspectMode(mode AspectMode) {
	c.aspectMode = mode
	c.update()
}

// update recomputes the aspect ratio and view plane bounds.
func (c *Camera) update() {
	if c.aspectMode == AspectTruncate {
		c.aspect = float64(c.resX / c.resY)
	} else {
		c.aspect = float64(c.resX) / float64(c.resY)
	}

	c.height = math.Tan(math3d.Radians(c.fov)/2) * c.focal
	c.width = c.height * c.aspect

	c.top = c.height / 2
	c.bottom = -c.top
	c.rightB = c.width / 2
	c.left = -c.rightB
}

// planeCoords returns the view plane coordinates of the center of pixel (i, j).
func (c *Camera) planeCoords(i, j int) (u, v float64) {
	u = c.left + (c.rightB-c.left)*(float64(i)+0.5)/float64(c.resX)
	v = c.bottom + (c.top-c.bottom)*(float64(j)+0.5)/float64(c.resY)
	return u, v
}

// PixelRayDirection returns the unit direction of the ray through the center
// of pixel (i, j). Pixels outside the resolution give rays outside the frame.
func (c *Camera) PixelRayDirection(i, j int) math3d.Vec3 {
	u, v := c.planeCoords(i, j)
	return c.forward.Scale(c.focal).
		Add(c.right.Scale(u)).
		Add(c.up.Scale(v)).
		Normalize()
}

// PixelRayDirectionTo writes the direction of pixel (i, j) into dst, using
// scratch for the intermediate terms.
func (c *Camera) PixelRayDirectionTo(i, j int, dst *math3d.Vec3, scratch *RayScratch) {
	u, v := c.planeCoords(i, j)

	scratch[0] = c.right.Scale(u)
	scratch[1] = c.up.Scale(v)

	*dst = c.forward.Scale(c.focal)
	for k := range scratch {
		dst.X += scratch[k].X
		dst.Y += scratch[k].Y
		dst.Z += scratch[k].Z
	}
	*dst = dst.Normalize()
}
