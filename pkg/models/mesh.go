// Package models holds the scene geometry the ray caster renders: meshes,
// their transforms and the glTF loader that produces them.
package models

import (
	"errors"
	"fmt"
	"image"

	"github.com/taigrr/shenandoah/pkg/math3d"
)

// ErrIndexOutOfRange is returned when a face references a vertex or UV that
// does not exist.
var ErrIndexOutOfRange = errors.New("index out of range")

// Mesh is a triangle mesh in object space plus the transform that places it
// in the world.
//
// A Mesh must not be mutated while a render that uses it is in progress.
type Mesh struct {
	Name      string
	Vertices  []math3d.Vec3 // Object-space positions
	UVs       []math3d.Vec2 // Texture coordinates, indexed by Face.UV
	Faces     []Face
	Transform Transform

	// Texture is an optional base color image, usually embedded in a GLB.
	Texture image.Image

	// Bounding box in object space (see CalculateBounds)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face is a triangle with vertex indices and, when the mesh has UVs, UV
// indices.
type Face struct {
	V  [3]int // Indices into Mesh.Vertices
	UV [3]int // Indices into Mesh.UVs
}

// NewMesh creates an empty mesh with an identity transform.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Vertices:  make([]math3d.Vec3, 0),
		Faces:     make([]Face, 0),
		Transform: NewTransform(),
	}
}

// NewMeshFromArrays builds a mesh from flat positions and triangle indices.
// UV indices default to the vertex indices.
func NewMeshFromArrays(name string, positions []math3d.Vec3, triangles [][3]int) *Mesh {
	m := NewMesh(name)
	m.Vertices = append(m.Vertices, positions...)
	for _, tri := range triangles {
		m.Faces = append(m.Faces, Face{V: tri, UV: tri})
	}
	m.CalculateBounds()
	return m
}

// CalculateBounds computes the object-space axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// WorldBounds returns the bounding box of the transformed vertices.
func (m *Mesh) WorldBounds() (min, max math3d.Vec3) {
	if len(m.Vertices) == 0 {
		return math3d.Zero3(), math3d.Zero3()
	}
	world := make([]math3d.Vec4, len(m.Vertices))
	m.CopyWorldVertices(world)
	min, max = world[0].Vec3(), world[0].Vec3()
	for _, v := range world[1:] {
		min = min.Min(v.Vec3())
		max = max.Max(v.Vec3())
	}
	return min, max
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// UVCount returns the number of texture coordinates.
func (m *Mesh) UVCount() int {
	return len(m.UVs)
}

// CopyRawVertices writes the object-space vertices (W=1) into dst and returns
// the number written.
func (m *Mesh) CopyRawVertices(dst []math3d.Vec4) int {
	n := min(len(dst), len(m.Vertices))
	for i := range n {
		dst[i] = math3d.V4FromV3(m.Vertices[i], 1)
	}
	return n
}

// CopyWorldVertices writes the vertices with the composite transform applied
// into dst and returns the number written.
func (m *Mesh) CopyWorldVertices(dst []math3d.Vec4) int {
	composite := m.Transform.Composite()
	n := min(len(dst), len(m.Vertices))
	for i := range n {
		dst[i] = composite.MulVec4(math3d.V4FromV3(m.Vertices[i], 1))
	}
	return n
}

// CopyTriangles writes the vertex index triples into dst and returns the
// number written.
func (m *Mesh) CopyTriangles(dst [][3]int) int {
	n := min(len(dst), len(m.Faces))
	for i := range n {
		dst[i] = m.Faces[i].V
	}
	return n
}

// CopyUVs writes the texture coordinates into dst and returns the number
// written.
func (m *Mesh) CopyUVs(dst []math3d.Vec2) int {
	return copy(dst, m.UVs)
}

// CopyTriangleUVs writes the UV index triples into dst and returns the number
// written.
func (m *Mesh) CopyTriangleUVs(dst [][3]int) int {
	n := min(len(dst), len(m.Faces))
	for i := range n {
		dst[i] = m.Faces[i].UV
	}
	return n
}

// BaseTexture returns the embedded texture, or nil.
func (m *Mesh) BaseTexture() image.Image {
	return m.Texture
}

// Validate checks every face index against the vertex and UV arrays.
// UV indices are only checked when the mesh has UVs.
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		for _, idx := range f.V {
			if idx < 0 || idx >= len(m.Vertices) {
				return fmt.Errorf("mesh %q face %d vertex %d: %w", m.Name, i, idx, ErrIndexOutOfRange)
			}
		}
		if len(m.UVs) == 0 {
			continue
		}
		for _, idx := range f.UV {
			if idx < 0 || idx >= len(m.UVs) {
				return fmt.Errorf("mesh %q face %d uv %d: %w", m.Name, i, idx, ErrIndexOutOfRange)
			}
		}
	}
	return nil
}

// Clone creates a deep copy of the mesh under the same name.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]math3d.Vec3, len(m.Vertices)),
		UVs:       make([]math3d.Vec2, len(m.UVs)),
		Faces:     make([]Face, len(m.Faces)),
		Transform: m.Transform,
		Texture:   m.Texture,
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.UVs, m.UVs)
	copy(clone.Faces, m.Faces)
	return clone
}

// Duplicate returns an independent copy named "<name>_Copy".
func (m *Mesh) Duplicate() *Mesh {
	clone := m.Clone()
	clone.Name = m.Name + "_Copy"
	return clone
}
