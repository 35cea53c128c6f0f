package render

import (
	"testing"

	"github.com/taigrr/shenandoah/pkg/math3d"
)

func BenchmarkIntersect(b *testing.B) {
	origin := math3d.Zero3()
	dir := math3d.V3(0.1, -1, 0.2).Normalize()
	v0 := math3d.V3(-5, -2, -5)
	v1 := math3d.V3(5, -2, -5)
	v2 := math3d.V3(0, -2, 5)

	for b.Loop() {
		_ = Intersect(origin, dir, v0, v1, v2)
	}
}

func BenchmarkPixelRayDirectionTo(b *testing.B) {
	cam := NewCamera()
	cam.SetResolution(640, 480)
	var dir math3d.Vec3
	var scratch RayScratch

	for b.Loop() {
		cam.PixelRayDirectionTo(320, 240, &dir, &scratch)
	}
}

func benchmarkRender(b *testing.B, threads int) {
	d := NewCPUDevice()
	if err := d.UploadGeometry([]Geometry{wallQuad(-2), wallQuad(-4)}); err != nil {
		b.Fatal(err)
	}
	cam := NewCamera()
	cam.SetResolution(200, 200)
	frame := NewFrameFor(cam)

	for b.Loop() {
		if _, err := d.Render(cam, threads, frame.Pix); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRender1Thread(b *testing.B) { benchmarkRender(b, 1) }
func BenchmarkRender4Threads(b *testing.B) { benchmarkRender(b, 4) }
