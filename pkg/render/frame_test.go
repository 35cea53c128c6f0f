package render

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/google/go-cmp/cmp"
)

// stripeFrame is 1x2: red at the bottom (row 0), out-of-range blue on top.
func stripeFrame() *Frame {
	f := NewFrame(1, 2)
	copy(f.Pix, []int{255, 0, 0, -20, 0, 300})
	return f
}

func TestNewFrameClamps(t *testing.T) {
	f := NewFrame(0, -3)
	if f.Width != 1 || f.Height != 1 || len(f.Pix) != 3 {
		t.Errorf("NewFrame(0, -3) = %dx%d with %d channels", f.Width, f.Height, len(f.Pix))
	}

	cam := NewCamera()
	cam.SetResolution(4, 3)
	if f := NewFrameFor(cam); len(f.Pix) != 36 {
		t.Errorf("NewFrameFor 4x3 has %d channels, want 36", len(f.Pix))
	}
}

func TestFrameAt(t *testing.T) {
	f := stripeFrame()
	if got := f.At(0, 1); got != [3]int{-20, 0, 300} {
		t.Errorf("At(0, 1) = %v, channels should be unclamped", got)
	}
	if got := f.At(1, 0); got != [3]int{} {
		t.Errorf("At out of bounds = %v, want zero", got)
	}
	if got := f.RGBA(0, 1); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("RGBA(0, 1) = %v, want clamped blue", got)
	}

	f.Clear()
	if diff := cmp.Diff(make([]int, 6), f.Pix); diff != "" {
		t.Errorf("Clear left channels set (-want +got):\n%s", diff)
	}
}

func TestFrameWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := stripeFrame().WriteText(&buf); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	want := "(255,0,0)\n(-20,0,300)\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteText = %q, want %q", got, want)
	}
}

func TestFrameSaveText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.txt")
	if err := stripeFrame().SaveText(path); err != nil {
		t.Fatalf("SaveText: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "(255,0,0)\n(-20,0,300)\n" {
		t.Errorf("file contents = %q", data)
	}
}

func TestFrameToImageFlipsRows(t *testing.T) {
	img := stripeFrame().ToImage()

	if got := img.RGBAAt(0, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("image top = %v, want blue", got)
	}
	if got := img.RGBAAt(0, 1); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("image bottom = %v, want red", got)
	}
}

func TestFrameSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := stripeFrame().SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1 || b.Dy() != 2 {
		t.Fatalf("bounds = %v, want 1x2", b)
	}
	r, g, b, _ := img.At(0, 1).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("bottom pixel = (%d,%d,%d), want red", r>>8, g>>8, b>>8)
	}

	if err := stripeFrame().SavePNG(filepath.Join(t.TempDir(), "missing", "frame.png")); err == nil {
		t.Error("SavePNG into a missing directory succeeded")
	}
}

func TestFrameDraw(t *testing.T) {
	f := NewFrame(2, 2)
	// bottom row: red, green. top row: blue, white.
	copy(f.Pix, []int{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 255,
	})

	scr := uv.NewScreenBuffer(2, 1)
	f.Draw(scr, uv.Rect(0, 0, 2, 1))

	tests := []struct {
		x      int
		fg, bg color.Color
	}{
		{0, color.RGBA{0, 0, 255, 255}, color.RGBA{255, 0, 0, 255}},
		{1, color.RGBA{255, 255, 255, 255}, color.RGBA{0, 255, 0, 255}},
	}
	for _, tc := range tests {
		cell := scr.CellAt(tc.x, 0)
		if cell == nil {
			t.Fatalf("no cell at %d", tc.x)
		}
		if cell.Content != "▀" {
			t.Errorf("cell %d content = %q, want half block", tc.x, cell.Content)
		}
		if cell.Style.Fg != tc.fg || cell.Style.Bg != tc.bg {
			t.Errorf("cell %d = fg %v bg %v, want fg %v bg %v", tc.x, cell.Style.Fg, cell.Style.Bg, tc.fg, tc.bg)
		}
	}

	// An empty area draws nothing.
	f.Draw(scr, uv.Rect(0, 0, 0, 0))
}
