// Package raster holds the drawing primitives the chart renderer issues and the
// in-memory surfaces that execute them.
package raster

import (
	"image"
	"image/color"
)

// Canvas is a fixed-size pixel surface. Coordinates are fully resolved pixels with the
// origin at the top-left; anything outside Bounds is clipped. A Canvas is never read back
// by the renderer.
type Canvas interface {
	Bounds() image.Rectangle
	Clear(c color.Color)
	DrawPixel(x, y int, c color.Color)
	DrawLine(x0, y0, x1, y1 int, c color.Color)
	// DrawRect outlines a w×h rectangle whose top-left corner is (x, y).
	DrawRect(x, y, w, h int, c color.Color)
	FillRect(x, y, w, h int, c color.Color)
	// DrawDashedHLine draws a broken line of segments dashes on row y from x0 up to
	// (not including) x1. See Dashes.
	DrawDashedHLine(x0, x1, y, segments int, c color.Color)
	// DrawText draws text with its top-left corner at (x, y), scaled by size.
	DrawText(x, y int, text string, c color.Color, size int)
}

// Presenter pushes a finished frame to a physical or simulated display.
type Presenter interface {
	Present(img image.Image) error
	Close() error
}

// Dashes returns the [start, end) spans lit by DrawDashedHLine. For w = x1-x0, dash j of
// n starts at x0 + j*w/n and is max(1, w/(2n)) pixels long, so the count does not depend
// on the width. A span narrower than n pixels gets w/2 one-pixel dashes instead.
// segments < 1 draws a solid line.
func Dashes(x0, x1, segments int) [][2]int {
	w := x1 - x0
	if w <= 0 {
		return nil
	}
	if segments < 1 {
		return [][2]int{{x0, x1}}
	}
	if segments > w {
		segments = max(1, w/2)
	}
	length := max(1, w/(2*segments))
	out := make([][2]int, 0, segments)
	for j := 0; j < segments; j++ {
		start := x0 + j*w/segments
		out = append(out, [2]int{start, min(start+length, x1)})
	}
	return out
}
