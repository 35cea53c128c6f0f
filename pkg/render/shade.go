package render

import (
	"fmt"
	"math"
)

// Background is the color written for rays that hit nothing.
var Background = [3]int{0, 0, 0}

// Shader derives a pixel color from the nearest hit. Shaders are called
// concurrently and must not mutate shared state.
type Shader interface {
	Shade(s *Snapshot, h Hit) [3]int
}

// Shading names accepted by NewShader.
const (
	ShadingBarycentric = "barycentric"
	ShadingLattice     = "lattice"
	ShadingTexture     = "texture"
)

// NewShader returns the shader for a shading name. tex is only used by the
// texture shader and may be nil there, in which case objects without their
// own texture fall back to the barycentric color.
func NewShader(name string, latticeSize int, tex *Texture) (Shader, error) {
	switch name {
	case ShadingBarycentric, "":
		return BarycentricShader{}, nil
	case ShadingLattice:
		if latticeSize <= 0 {
			return nil, fmt.Errorf("lattice size must be positive, got %d", latticeSize)
		}
		return LatticeShader{Size: latticeSize}, nil
	case ShadingTexture:
		return TextureShader{Texture: tex}, nil
	default:
		return nil, fmt.Errorf("unknown shading %q", name)
	}
}

// BarycentricShader maps the hit's barycentric weights to red and green:
// (u*255, v*255, 0).
type BarycentricShader struct{}

// Shade implements Shader.
func (BarycentricShader) Shade(_ *Snapshot, h Hit) [3]int {
	return [3]int{int(h.U * 255), int(h.V * 255), 0}
}

// LatticeShader interpolates the hit's texture coordinate and maps each axis
// onto an integer lattice of Size cells per UV unit, wrapping at Size. With
// Size 256 one UV unit spans the full channel range.
type LatticeShader struct {
	Size int
}

// Shade implements Shader. Objects without UVs get the barycentric color.
func (l LatticeShader) Shade(s *Snapshot, h Hit) [3]int {
	uv, ok := s.HitUV(h)
	if !ok {
		return BarycentricShader{}.Shade(s, h)
	}
	return [3]int{
		latticeIndex(uv.X, l.Size),
		latticeIndex(uv.Y, l.Size),
		0,
	}
}

// latticeIndex returns floor(x*size) modulo size, always non-negative.
func latticeIndex(x float64, size int) int {
	i := int(math.Floor(x*float64(size))) % size
	if i < 0 {
		i += size
	}
	return i
}

// TextureShader samples a texture at the hit's texture coordinate. An
// object's own texture takes precedence over Texture.
type TextureShader struct {
	Texture *Texture
}

// Shade implements Shader. Hits without UVs or without any texture get the
// barycentric color.
func (ts TextureShader) Shade(s *Snapshot, h Hit) [3]int {
	tex := s.Objects[h.Object].Texture
	if tex == nil {
		tex = ts.Texture
	}
	uv, ok := s.HitUV(h)
	if tex == nil || !ok {
		return BarycentricShader{}.Shade(s, h)
	}
	c := tex.Sample(uv.X, uv.Y)
	return [3]int{int(c.R), int(c.G), int(c.B)}
}
