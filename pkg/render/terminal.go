package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw scales the frame to fit area and draws it as half-block cells, two
// frame rows per terminal row, with nearest-neighbor sampling.
func (f *Frame) Draw(scr uv.Screen, area uv.Rectangle) {
	cols, rows := area.Dx(), area.Dy()
	if cols <= 0 || rows <= 0 {
		return
	}
	subRows := rows * 2

	// Each terminal row represents 2 frame rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color
	for row := range rows {
		for col := range cols {
			i := col * f.Width / cols
			top := f.sampleTopDown(i, (row*2)*f.Height/subRows)
			bot := f.sampleTopDown(i, (row*2+1)*f.Height/subRows)

			scr.SetCell(area.Min.X+col, area.Min.Y+row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: top,
					Bg: bot,
				},
			})
		}
	}
}

// sampleTopDown returns the pixel at column i and row y counted from the top
// of the view.
func (f *Frame) sampleTopDown(i, y int) color.Color {
	return f.RGBA(i, f.Height-1-y)
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
)
