package render

import (
	"image"
	"image/color"

	"github.com/taigrr/shenandoah/pkg/math3d"
)

// mockMesh implements Geometry for testing. Vertices are already in world
// space.
type mockMesh struct {
	vertices []math3d.Vec3
	faces    [][3]int
}

func (m *mockMesh) VertexCount() int { return len(m.vertices) }
func (m *mockMesh) TriangleCount() int { return len(m.faces) }
func (m *mockMesh) CopyWorldVertices(dst []math3d.Vec4) int {
	for i, v := range m.vertices {
		dst[i] = math3d.V4FromV3(v, 1)
	}
	return len(m.vertices)
}
func (m *mockMesh) CopyTriangles(dst [][3]int) int { return copy(dst, m.faces) }

// mockUVMesh adds texture coordinates and an optional texture.
type mockUVMesh struct {
	mockMesh
	uvs     []math3d.Vec2
	uvFaces [][3]int
	texture image.Image
}

func (m *mockUVMesh) UVCount() int { return len(m.uvs) }
func (m *mockUVMesh) CopyUVs(dst []math3d.Vec2) int { return copy(dst, m.uvs) }
func (m *mockUVMesh) CopyTriangleUVs(dst [][3]int) int { return copy(dst, m.uvFaces) }
func (m *mockUVMesh) BaseTexture() image.Image { return m.texture }

// wallQuad returns a quad in the plane y=dist, wide enough to cover a 90
// degree view from the origin. Its extents are uneven so no pixel center
// falls exactly on the shared diagonal.
func wallQuad(dist float64) *mockUVMesh {
	return &mockUVMesh{
		mockMesh: mockMesh{
			vertices: []math3d.Vec3{
				math3d.V3(-5, dist, -4.9),
				math3d.V3(6.37, dist, -4.9),
				math3d.V3(6.37, dist, 5.3),
				math3d.V3(-5, dist, 5.3),
			},
			faces: [][3]int{{0, 1, 2}, {0, 2, 3}},
		},
		uvs:     []math3d.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		uvFaces: [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
}

// constShader colors every hit white.
type constShader struct{}

func (constShader) Shade(_ *Snapshot, _ Hit) [3]int { return [3]int{255, 255, 255} }

// sliceImage is an image.Image value backed by a slice, so it cannot be used
// as a map key.
type sliceImage struct {
	w, h int
	pix  []color.RGBA
}

func (s sliceImage) ColorModel() color.Model { return color.RGBAModel }
func (s sliceImage) Bounds() image.Rectangle { return image.Rect(0, 0, s.w, s.h) }
func (s sliceImage) At(x, y int) color.Color {
	if !image.Pt(x, y).In(s.Bounds()) {
		return color.RGBA{}
	}
	return s.pix[y*s.w+x]
}
