package render

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

var (
	red  = Color{R: 255, G: 0, B: 0, A: 255}
	blue = Color{R: 0, G: 0, B: 255, A: 255}
)

func TestCheckerTexture(t *testing.T) {
	tex := NewCheckerTexture(4, 4, 2, ColorWhite, ColorBlack)

	tests := []struct {
		x, y int
		want Color
	}{
		{0, 0, ColorWhite},
		{1, 1, ColorWhite},
		{2, 0, ColorBlack},
		{0, 2, ColorBlack},
		{3, 3, ColorWhite},
		{-1, 0, Color{}},
		{4, 0, Color{}},
	}
	for _, tc := range tests {
		if got := tex.GetPixel(tc.x, tc.y); got != tc.want {
			t.Errorf("GetPixel(%d, %d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

// twoRowTexture is red on the top image row and blue on the bottom one.
func twoRowTexture() *Texture {
	tex := NewTexture(1, 2)
	tex.Pixels[0] = red
	tex.Pixels[1] = blue
	return tex
}

func TestTextureSample(t *testing.T) {
	tests := []struct {
		name string
		wrap WrapMode
		u, v float64
		want Color
	}{
		{"bottom", WrapRepeat, 0.5, 0.25, blue},
		{"top", WrapRepeat, 0.5, 0.75, red},
		{"repeat above", WrapRepeat, 0.5, 1.25, blue},
		{"repeat below", WrapRepeat, 0.5, -0.25, red},
		{"clamp above", WrapClamp, 0.5, 3, red},
		{"clamp below", WrapClamp, 0.5, -3, blue},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tex := twoRowTexture()
			tex.WrapU, tex.WrapV = tc.wrap, tc.wrap
			if got := tex.Sample(tc.u, tc.v); got != tc.want {
				t.Errorf("Sample(%v, %v) = %v, want %v", tc.u, tc.v, got, tc.want)
			}
		})
	}
}

func TestTextureSampleBilinear(t *testing.T) {
	tex := NewTexture(2, 1)
	tex.Pixels[0] = ColorBlack
	tex.Pixels[1] = ColorWhite
	tex.WrapU, tex.WrapV = WrapClamp, WrapClamp
	tex.FilterMode = FilterBilinear

	got := tex.Sample(0.5, 0.5)
	if got.R != 127 || got.G != 127 || got.B != 127 {
		t.Errorf("Sample midpoint = %v, want gray 127", got)
	}
	if got := tex.Sample(0, 0.5); got != ColorBlack {
		t.Errorf("Sample left edge = %v, want black", got)
	}
}

func TestEmptyTextureSample(t *testing.T) {
	var tex Texture
	if got := tex.Sample(0.5, 0.5); got != (Color{}) {
		t.Errorf("Sample on empty texture = %v, want zero", got)
	}
}

func TestParseFilterMode(t *testing.T) {
	for name, want := range map[string]FilterMode{"": FilterNearest, "nearest": FilterNearest, "bilinear": FilterBilinear} {
		got, err := ParseFilterMode(name)
		if err != nil || got != want {
			t.Errorf("ParseFilterMode(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseFilterMode("trilinear"); err == nil {
		t.Error("ParseFilterMode(trilinear) succeeded, want error")
	}
}

func TestLoadTexture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	img.SetRGBA(0, 0, red)
	img.SetRGBA(0, 1, blue)

	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	tex, err := LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if tex.Width != 1 || tex.Height != 2 {
		t.Fatalf("size = %dx%d, want 1x2", tex.Width, tex.Height)
	}
	if tex.GetPixel(0, 0) != red || tex.GetPixel(0, 1) != blue {
		t.Errorf("pixels = %v, want [red blue]", tex.Pixels)
	}

	if _, err := LoadTexture(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("LoadTexture on a missing file succeeded")
	}
}
