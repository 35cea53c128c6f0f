package models

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/shenandoah/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// FlipV converts glTF's top-left texture origin to bottom-left.
	FlipV bool
	// Textures decodes the first embedded or referenced image into
	// Mesh.Texture.
	Textures bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		FlipV:    true,
		Textures: true,
	}
}

// LoadGLB loads a binary GLTF (.glb) file.
func LoadGLB(path string) (*Mesh, error) {
	loader := NewGLTFLoader()
	return loader.Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := l.LoadDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, err
	}

	if l.Textures {
		mesh.Texture = firstImage(doc, filepath.Dir(path))
	}

	return mesh, nil
}

// LoadDocument converts every triangle primitive of an already decoded
// document into a single mesh.
func (l *GLTFLoader) LoadDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("validate mesh: %w", err)
	}
	mesh.CalculateBounds()

	return mesh, nil
}

// processMesh extracts geometry from a GLTF mesh. Vertices and UVs share
// indices, so each face uses the same triple for both.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var uvs []math3d.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readVec2Accessor(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		// UVs stay aligned with vertices, so primitives without TEXCOORD_0
		// get zero coordinates when another primitive has them.
		baseVertex := len(mesh.Vertices)
		if len(uvs) > 0 && len(mesh.UVs) < baseVertex {
			mesh.UVs = append(mesh.UVs, make([]math3d.Vec2, baseVertex-len(mesh.UVs))...)
		}

		mesh.Vertices = append(mesh.Vertices, positions...)
		if len(uvs) > 0 || len(mesh.UVs) > 0 {
			for i := range positions {
				var uv math3d.Vec2
				if i < len(uvs) {
					uv = uvs[i]
					if l.FlipV {
						uv.Y = 1.0 - uv.Y
					}
				}
				mesh.UVs = append(mesh.UVs, uv)
			}
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			tri := [3]int{
				baseVertex + indices[i],
				baseVertex + indices[i+1],
				baseVertex + indices[i+2],
			}
			mesh.Faces = append(mesh.Faces, Face{V: tri, UV: tri})
		}
	}

	return nil
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC3")
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}

	return result, nil
}

// readVec2Accessor reads Vec2 data from a GLTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][2]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC2")
	}

	result := make([]math3d.Vec2, len(floats))
	for i, f := range floats {
		result[i] = math3d.V2(float64(f[0]), float64(f[1]))
	}

	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []uint8:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	case []uint16:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	case []uint32:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unexpected index type: %T", data)
	}
}

// readAccessorData decodes an accessor into [][3]float32, [][2]float32 or an
// unsigned integer slice, depending on its type.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	// gltf.Open resolves embedded and external buffers into Data.
	bufData := doc.Buffers[bufferView.Buffer].Data
	if bufData == nil {
		return nil, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count

	elemSize := 0
	switch accessor.Type {
	case gltf.AccessorVec3:
		elemSize = 12
	case gltf.AccessorVec2:
		elemSize = 8
	case gltf.AccessorScalar:
		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			elemSize = 1
		case gltf.ComponentUshort:
			elemSize = 2
		case gltf.ComponentUint:
			elemSize = 4
		}
	}
	if elemSize == 0 {
		return nil, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
	}
	if stride == 0 {
		stride = elemSize
	}
	if count > 0 && start+(count-1)*stride+elemSize > len(bufData) {
		return nil, fmt.Errorf("accessor reads past end of buffer (%d bytes)", len(bufData))
	}

	switch accessor.Type {
	case gltf.AccessorVec3:
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorVec2:
		result := make([][2]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 2 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil
	}

	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		result := make([]uint8, count)
		for i := range count {
			result[i] = bufData[start+i*stride]
		}
		return result, nil
	case gltf.ComponentUshort:
		result := make([]uint16, count)
		for i := range count {
			result[i] = binary.LittleEndian.Uint16(bufData[start+i*stride:])
		}
		return result, nil
	default:
		result := make([]uint32, count)
		for i := range count {
			result[i] = binary.LittleEndian.Uint32(bufData[start+i*stride:])
		}
		return result, nil
	}
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// firstImage decodes the first image of the document that can be read,
// embedded or next to the document on disk. It returns nil when there is none.
func firstImage(doc *gltf.Document, dir string) image.Image {
	for _, img := range doc.Images {
		var data []byte
		if img.BufferView != nil {
			bv := doc.BufferViews[*img.BufferView]
			buf := doc.Buffers[bv.Buffer]
			if buf.Data != nil {
				start := bv.ByteOffset
				data = buf.Data[start : start+bv.ByteLength]
			}
		} else if img.URI != "" {
			raw, err := os.ReadFile(filepath.Join(dir, img.URI))
			if err != nil {
				continue
			}
			data = raw
		}
		if len(data) == 0 {
			continue
		}
		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err == nil {
			return decoded
		}
	}
	return nil
}
