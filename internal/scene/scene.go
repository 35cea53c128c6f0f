// Package scene turns a loaded configuration into a camera, a set of meshes
// and a render device ready to draw them.
package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/taigrr/shenandoah/internal/config"
	"github.com/taigrr/shenandoah/pkg/math3d"
	"github.com/taigrr/shenandoah/pkg/models"
	"github.com/taigrr/shenandoah/pkg/render"
)

// ErrDegenerateBasis is returned when the camera's up and right vectors are
// zero or parallel.
var ErrDegenerateBasis = errors.New("camera up and right must be non-zero and not parallel")

// Scene is everything needed to render frames.
type Scene struct {
	Camera  *render.Camera
	Meshes  []*models.Mesh
	Device  render.Device
	Threads int
}

// Build assembles a scene and uploads its geometry to the selected device.
func Build(cfg *config.Config, log *zap.Logger) (*Scene, error) {
	if log == nil {
		log = zap.NewNop()
	}

	cam, err := BuildCamera(cfg.Camera)
	if err != nil {
		return nil, err
	}

	meshes, err := BuildMeshes(cfg.Objects)
	if err != nil {
		return nil, err
	}

	shader, err := BuildShader(cfg.Render)
	if err != nil {
		return nil, err
	}

	cpu := render.NewCPUDevice()
	cpu.Shader = shader
	cpu.Intersector = render.Intersector{Strict: cfg.Render.Strict}
	cpu.Logger = log.Named("cpu")

	device, err := render.SelectDevice(cfg.Render.Device, cpu)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Camera:  cam,
		Meshes:  meshes,
		Device:  device,
		Threads: cfg.Render.Threads,
	}
	if err := device.UploadGeometry(s.Geometry()); err != nil {
		return nil, fmt.Errorf("upload geometry: %w", err)
	}

	var triangles int
	for _, m := range meshes {
		triangles += m.TriangleCount()
	}
	w, h := cam.Resolution()
	log.Info("scene ready",
		zap.String("device", device.Name()),
		zap.Int("objects", len(meshes)),
		zap.Int("triangles", triangles),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("threads", render.Threads(s.Threads)),
		zap.String("shading", cfg.Render.Shading),
		zap.Bool("strict", cfg.Render.Strict),
	)
	return s, nil
}

// Geometry returns the meshes as render geometry.
func (s *Scene) Geometry() []render.Geometry {
	geo := make([]render.Geometry, len(s.Meshes))
	for i, m := range s.Meshes {
		geo[i] = m
	}
	return geo
}

// Render draws one frame into f.
func (s *Scene) Render(f *render.Frame) (render.RenderStats, error) {
	return s.Device.Render(s.Camera, s.Threads, f.Pix)
}

// BuildCamera creates the camera described by c.
func BuildCamera(c config.CameraConfig) (*render.Camera, error) {
	up, right := c.Up.V3(), c.Right.V3()
	if up.Cross(right).LenSq() == 0 {
		return nil, ErrDegenerateBasis
	}

	cam := render.NewCameraWith(c.Origin.V3(), up, right, c.Width, c.Height, c.FOV, c.FocalLength)
	if c.Aspect == "truncate" {
		cam.SetAspectMode(render.AspectTruncate)
	}
	return cam, nil
}

// BuildMeshes loads or constructs every configured object, followed by its
// copies.
func BuildMeshes(objects []config.ObjectConfig) ([]*models.Mesh, error) {
	var meshes []*models.Mesh
	for i, obj := range objects {
		m, err := buildMesh(obj)
		if err != nil {
			return nil, fmt.Errorf("object %d %q: %w", i, obj.Name, err)
		}
		meshes = append(meshes, m)

		for _, tc := range obj.Copies {
			dup := m.Duplicate()
			dup.Transform = transform(tc)
			meshes = append(meshes, dup)
		}
	}
	return meshes, nil
}

func buildMesh(obj config.ObjectConfig) (*models.Mesh, error) {
	var m *models.Mesh
	if obj.Model != "" {
		loaded, err := models.LoadGLB(obj.Model)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		m = loaded
		if obj.Name != "" {
			m.Name = obj.Name
		}
	} else {
		verts := make([]math3d.Vec3, len(obj.Vertices))
		for i, v := range obj.Vertices {
			verts[i] = v.V3()
		}
		m = models.NewMeshFromArrays(obj.Name, verts, obj.Triangles)

		for _, uv := range obj.UVs {
			m.UVs = append(m.UVs, math3d.V2(uv[0], uv[1]))
		}
		for i, tri := range obj.TriangleUVs {
			if i < len(m.Faces) {
				m.Faces[i].UV = tri
			}
		}
	}

	m.Transform = transform(obj.Transform)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func transform(tc config.TransformConfig) models.Transform {
	scale := math3d.V3(1, 1, 1)
	if !tc.Scale.IsZero() {
		scale = tc.Scale.V3()
	}
	return models.NewTransformFrom(tc.Origin.V3(), tc.Angles.V3(), scale)
}

// BuildShader creates the configured shader, loading the shared texture
// when one is set.
func BuildShader(r config.RenderConfig) (render.Shader, error) {
	var tex *render.Texture
	if r.Texture != "" {
		filter, err := render.ParseFilterMode(r.Filter)
		if err != nil {
			return nil, err
		}
		tex, err = render.LoadTexture(r.Texture)
		if err != nil {
			return nil, err
		}
		tex.FilterMode = filter
	}
	return render.NewShader(r.Shading, r.LatticeSize, tex)
}
