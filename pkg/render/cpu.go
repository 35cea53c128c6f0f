package render

import (
	"fmt"
	"image"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/shenandoah/pkg/math3d"
)

// CPUDevice renders by brute force on the host CPU: every ray is tested
// against every triangle of every object.
type CPUDevice struct {
	// Intersector controls behind-origin hit handling.
	Intersector Intersector
	// Shader colors hits. Defaults to BarycentricShader.
	Shader Shader
	// Logger receives per-render debug output. Defaults to a no-op logger.
	Logger *zap.Logger

	objects  []Geometry
	textures map[image.Image]*Texture
	ready    atomic.Bool
	finished atomic.Bool
}

// NewCPUDevice creates a CPU device with the barycentric shader.
func NewCPUDevice() *CPUDevice {
	return &CPUDevice{
		Shader:   BarycentricShader{},
		Logger:   zap.NewNop(),
		textures: make(map[image.Image]*Texture),
	}
}

// Name implements Device.
func (d *CPUDevice) Name() string { return "cpu" }

// IsCompatible implements Device. A CPU device can always run.
func (d *CPUDevice) IsCompatible() bool { return true }

// Ready reports whether geometry has been uploaded.
func (d *CPUDevice) Ready() bool { return d.ready.Load() }

// Finished reports whether the most recent render has completed.
func (d *CPUDevice) Finished() bool { return d.finished.Load() }

// UploadGeometry implements Device. The device keeps the objects and
// snapshots them at the start of every render, so transform changes between
// renders are picked up. Converted textures live until the next upload.
func (d *CPUDevice) UploadGeometry(objects []Geometry) error {
	d.objects = append([]Geometry(nil), objects...)
	d.textures = make(map[image.Image]*Texture)
	d.ready.Store(true)
	return nil
}

// Threads clamps a requested worker count to [1, runtime.NumCPU()].
func Threads(requested int) int {
	return max(min(requested, runtime.NumCPU()), 1)
}

// Render implements Device.
func (d *CPUDevice) Render(cam *Camera, maxThreads int, out []int) (RenderStats, error) {
	return d.render(cam, Threads(maxThreads), out)
}

// render splits the frame across at most workers goroutines without
// consulting the CPU count.
func (d *CPUDevice) render(cam *Camera, workers int, out []int) (RenderStats, error) {
	start := time.Now()
	w, h := cam.Resolution()
	n := w * h
	if len(out) != n*3 {
		return RenderStats{}, fmt.Errorf("render %dx%d into %d channels: %w", w, h, len(out), ErrBufferSize)
	}

	d.finished.Store(false)
	defer d.finished.Store(true)

	snap, err := BuildSnapshot(d.objects, d.textures)
	if err != nil {
		return RenderStats{}, fmt.Errorf("snapshot geometry: %w", err)
	}

	// Every direction is computed before any worker starts.
	rays := make([]math3d.Vec3, n)
	var scratch RayScratch
	for j := range h {
		for i := range w {
			cam.PixelRayDirectionTo(i, j, &rays[j*w+i], &scratch)
		}
	}

	spans := Partition(n, workers)
	stats := RenderStats{
		Threads:  len(spans),
		Pixels:   n,
		Sections: make([]SectionStats, len(spans)),
		Setup:    time.Since(start),
	}

	shader := d.Shader
	if shader == nil {
		shader = BarycentricShader{}
	}
	origin := cam.Origin()

	var g errgroup.Group
	for p, span := range spans {
		g.Go(func() error {
			stats.Sections[p] = d.renderSection(snap, shader, origin,
				rays[span.Start:span.End], out[span.Start*3:span.End*3])
			stats.Sections[p].Span = span
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RenderStats{}, fmt.Errorf("wait for render sections: %w", err)
	}

	for _, sec := range stats.Sections {
		stats.Hits += sec.Hits
		stats.Tests += sec.Tests
	}
	stats.Duration = time.Since(start)

	d.logger().Debug("frame rendered",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("threads", stats.Threads),
		zap.Int("triangles", snap.TriangleCount()),
		zap.Int("hits", stats.Hits),
		zap.Duration("setup", stats.Setup),
		zap.Duration("elapsed", stats.Duration),
	)

	return stats, nil
}

// renderSection resolves and shades one contiguous run of pixels. rays and
// out cover the same pixels; out holds three channels per ray.
func (d *CPUDevice) renderSection(snap *Snapshot, shader Shader, origin math3d.Vec3, rays []math3d.Vec3, out []int) SectionStats {
	var sec SectionStats
	for i, dir := range rays {
		hit := snap.Nearest(d.Intersector, origin, dir, &sec.Tests)

		c := Background
		if hit.OK {
			c = shader.Shade(snap, hit)
			sec.Hits++
		}
		out[i*3] = c[0]
		out[i*3+1] = c[1]
		out[i*3+2] = c[2]
	}
	return sec
}

func (d *CPUDevice) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
