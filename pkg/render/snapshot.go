package render

import (
	"errors"
	"fmt"
	"image"
	"reflect"

	"github.com/taigrr/shenandoah/pkg/math3d"
)

// Geometry is the read-only view of an object the renderer needs.
// Implementations must not change while a render is in progress.
type Geometry interface {
	VertexCount() int
	TriangleCount() int
	// CopyWorldVertices writes the transformed vertices into dst.
	CopyWorldVertices(dst []math3d.Vec4) int
	CopyTriangles(dst [][3]int) int
}

// UVGeometry is implemented by geometry that carries texture coordinates.
type UVGeometry interface {
	Geometry
	UVCount() int
	CopyUVs(dst []math3d.Vec2) int
	CopyTriangleUVs(dst [][3]int) int
}

// TexturedGeometry is implemented by geometry with its own base texture.
type TexturedGeometry interface {
	BaseTexture() image.Image
}

// ErrIndexOutOfRange is returned by BuildSnapshot when a triangle references
// a vertex or UV its object does not have.
var ErrIndexOutOfRange = errors.New("index out of range")

// ObjectRange locates one object's data inside the snapshot arenas.
type ObjectRange struct {
	FirstTriangle int
	Triangles     int
	FirstVertex   int
	Vertices      int
	HasUVs        bool
	Texture       *Texture // nil unless the object has its own texture
}

// Snapshot is the world-space copy of every object taken once per render.
// Triangle and UV indices are rebased to address the shared arenas, and the
// object handle in a Hit indexes Objects.
type Snapshot struct {
	Vertices    []math3d.Vec3
	Triangles   [][3]int
	UVs         []math3d.Vec2
	TriangleUVs [][3]int // Parallel to Triangles; zero for objects without UVs
	Objects     []ObjectRange
}

// BuildSnapshot copies every object's world-space geometry. textures caches
// converted object textures across calls and may be nil.
func BuildSnapshot(objects []Geometry, textures map[image.Image]*Texture) (*Snapshot, error) {
	var nVerts, nTris, nUVs int
	for _, obj := range objects {
		nVerts += obj.VertexCount()
		nTris += obj.TriangleCount()
		if uvg, ok := obj.(UVGeometry); ok {
			nUVs += uvg.UVCount()
		}
	}

	s := &Snapshot{
		Vertices:    make([]math3d.Vec3, 0, nVerts),
		Triangles:   make([][3]int, 0, nTris),
		UVs:         make([]math3d.Vec2, 0, nUVs),
		TriangleUVs: make([][3]int, 0, nTris),
		Objects:     make([]ObjectRange, 0, len(objects)),
	}

	var homog []math3d.Vec4
	for handle, obj := range objects {
		r := ObjectRange{
			FirstTriangle: len(s.Triangles),
			Triangles:     obj.TriangleCount(),
			FirstVertex:   len(s.Vertices),
			Vertices:      obj.VertexCount(),
		}

		if cap(homog) < r.Vertices {
			homog = make([]math3d.Vec4, r.Vertices)
		}
		homog = homog[:r.Vertices]
		obj.CopyWorldVertices(homog)
		for _, v := range homog {
			s.Vertices = append(s.Vertices, v.Vec3())
		}

		tris := make([][3]int, r.Triangles)
		obj.CopyTriangles(tris)
		for i, tri := range tris {
			for _, idx := range tri {
				if idx < 0 || idx >= r.Vertices {
					return nil, fmt.Errorf("object %d triangle %d vertex %d: %w", handle, i, idx, ErrIndexOutOfRange)
				}
			}
			s.Triangles = append(s.Triangles, [3]int{
				tri[0] + r.FirstVertex,
				tri[1] + r.FirstVertex,
				tri[2] + r.FirstVertex,
			})
		}

		if err := s.appendUVs(obj, &r, handle); err != nil {
			return nil, err
		}

		if tg, ok := obj.(TexturedGeometry); ok {
			if img := tg.BaseTexture(); img != nil {
				r.Texture = cachedTexture(textures, img)
			}
		}

		s.Objects = append(s.Objects, r)
	}

	return s, nil
}

// appendUVs copies an object's UVs and triangle UV indices, or zero triples
// when it has none so TriangleUVs stays parallel to Triangles.
func (s *Snapshot) appendUVs(obj Geometry, r *ObjectRange, handle int) error {
	uvg, ok := obj.(UVGeometry)
	if !ok || uvg.UVCount() == 0 {
		for range r.Triangles {
			s.TriangleUVs = append(s.TriangleUVs, [3]int{})
		}
		return nil
	}

	firstUV := len(s.UVs)
	nUVs := uvg.UVCount()
	uvs := make([]math3d.Vec2, nUVs)
	uvg.CopyUVs(uvs)
	s.UVs = append(s.UVs, uvs...)

	triUVs := make([][3]int, r.Triangles)
	uvg.CopyTriangleUVs(triUVs)
	for i, tri := range triUVs {
		for _, idx := range tri {
			if idx < 0 || idx >= nUVs {
				return fmt.Errorf("object %d triangle %d uv %d: %w", handle, i, idx, ErrIndexOutOfRange)
			}
		}
		s.TriangleUVs = append(s.TriangleUVs, [3]int{
			tri[0] + firstUV,
			tri[1] + firstUV,
			tri[2] + firstUV,
		})
	}
	r.HasUVs = true
	return nil
}

// cachedTexture converts img once per cache. Images whose dynamic type cannot
// be a map key are converted on every call.
func cachedTexture(cache map[image.Image]*Texture, img image.Image) *Texture {
	if cache == nil || !reflect.TypeOf(img).Comparable() {
		return TextureFromImage(img)
	}
	if tex, ok := cache[img]; ok {
		return tex
	}
	tex := TextureFromImage(img)
	cache[img] = tex
	return tex
}

// TriangleCount returns the total number of triangles.
func (s *Snapshot) TriangleCount() int {
	return len(s.Triangles)
}

// Nearest tests the ray against every triangle of every object and returns
// the nearest hit, or a miss. tests is incremented once per triangle tested.
func (s *Snapshot) Nearest(in Intersector, origin, dir math3d.Vec3, tests *int) Hit {
	best := NoHit
	for handle, obj := range s.Objects {
		tris := s.Triangles[obj.FirstTriangle : obj.FirstTriangle+obj.Triangles]
		for i, tri := range tris {
			h := in.Intersect(origin, dir, s.Vertices[tri[0]], s.Vertices[tri[1]], s.Vertices[tri[2]])
			if h.Beats(best) {
				h.Triangle = i
				h.Object = handle
				best = h
			}
		}
		*tests += len(tris)
	}
	return best
}

// HitUV interpolates the texture coordinate of a hit. ok is false when the
// hit object has no UVs.
func (s *Snapshot) HitUV(h Hit) (uv math3d.Vec2, ok bool) {
	obj := s.Objects[h.Object]
	if !obj.HasUVs {
		return math3d.Vec2{}, false
	}
	tri := s.TriangleUVs[obj.FirstTriangle+h.Triangle]
	return math3d.Barycentric(s.UVs[tri[0]], s.UVs[tri[1]], s.UVs[tri[2]], h.U, h.V), true
}
