// Package render casts rays from a pinhole camera through a triangle scene
// and writes the resulting colors into a frame.
package render

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
)

// Frame is the output of a render: Width*Height pixels of three int
// channels (R, G, B), row-major, row 0 at the bottom of the view.
//
// Channels are not clamped. Values outside [0, 255] are kept as written and
// only clamped when the frame is encoded as an image.
type Frame struct {
	Width  int
	Height int
	Pix    []int
}

// NewFrame creates a black frame. Dimensions below 1 are clamped to 1 to
// match the camera.
func NewFrame(width, height int) *Frame {
	width, height = max(width, 1), max(height, 1)
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]int, width*height*3),
	}
}

// NewFrameFor creates a frame sized for the camera's resolution.
func NewFrameFor(cam *Camera) *Frame {
	w, h := cam.Resolution()
	return NewFrame(w, h)
}

// Clear resets every channel to zero.
func (f *Frame) Clear() {
	clear(f.Pix)
}

// At returns the channels of pixel (i, j), or zeros out of bounds.
func (f *Frame) At(i, j int) [3]int {
	if i < 0 || i >= f.Width || j < 0 || j >= f.Height {
		return [3]int{}
	}
	o := (j*f.Width + i) * 3
	return [3]int{f.Pix[o], f.Pix[o+1], f.Pix[o+2]}
}

// RGBA returns pixel (i, j) clamped to an opaque color.
func (f *Frame) RGBA(i, j int) color.RGBA {
	c := f.At(i, j)
	return color.RGBA{clampChannel(c[0]), clampChannel(c[1]), clampChannel(c[2]), 255}
}

func clampChannel(v int) uint8 {
	return uint8(max(0, min(v, 255)))
}

// ToImage converts the frame to a standard Go image.RGBA. Frame row 0 is the
// bottom of the view, so it becomes the last image row.
func (f *Frame) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for j := 0; j < f.Height; j++ {
		y := f.Height - 1 - j
		for i := 0; i < f.Width; i++ {
			img.SetRGBA(i, y, f.RGBA(i, j))
		}
	}
	return img
}

// SavePNG saves the frame as a PNG file.
func (f *Frame) SavePNG(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, f.ToImage()); err != nil {
		file.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return file.Close()
}

// WriteText writes one "(r,g,b)" line per pixel in buffer order.
func (f *Frame) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for o := 0; o+2 < len(f.Pix); o += 3 {
		if _, err := fmt.Fprintf(bw, "(%d,%d,%d)\n", f.Pix[o], f.Pix[o+1], f.Pix[o+2]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SaveText writes the frame in text form to path, truncating it.
func (f *Frame) SaveText(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.WriteText(file); err != nil {
		file.Close()
		return fmt.Errorf("write text: %w", err)
	}
	return file.Close()
}
