package raster

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	xdraw "golang.org/x/image/draw"
)

// GlyphAdvance is the horizontal advance of the built-in font at size 1.
const GlyphAdvance = 7

var face = basicfont.Face7x13

// Framebuffer is a Canvas backed by an RGBA image.
type Framebuffer struct {
	img *image.RGBA
}

func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Image returns the live backing image. Callers must not keep it across frames.
func (f *Framebuffer) Image() *image.RGBA { return f.img }

func (f *Framebuffer) Bounds() image.Rectangle { return f.img.Bounds() }

func (f *Framebuffer) Clear(c color.Color) {
	draw.Draw(f.img, f.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func (f *Framebuffer) DrawPixel(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(f.img.Bounds()) {
		return
	}
	f.img.Set(x, y, c)
}

// DrawLine uses Bresenham's algorithm; both end points are lit.
func (f *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		f.DrawPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (f *Framebuffer) DrawRect(x, y, w, h int, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	x1, y1 := x+w-1, y+h-1
	f.DrawLine(x, y, x1, y, c)
	f.DrawLine(x, y1, x1, y1, c)
	f.DrawLine(x, y, x, y1, c)
	f.DrawLine(x1, y, x1, y1, c)
}

func (f *Framebuffer) FillRect(x, y, w, h int, c color.Color) {
	r := image.Rect(x, y, x+w, y+h).Intersect(f.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(f.img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func (f *Framebuffer) DrawDashedHLine(x0, x1, y, segments int, c color.Color) {
	for _, d := range Dashes(x0, x1, segments) {
		f.DrawLine(d[0], y, d[1]-1, y, c)
	}
}

func (f *Framebuffer) DrawText(x, y int, text string, c color.Color, size int) {
	if text == "" {
		return
	}
	if size < 1 {
		size = 1
	}
	m := face.Metrics()
	w := font.MeasureString(face, text).Ceil()
	h := m.Height.Ceil()
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, m.Ascent.Ceil()),
	}
	d.DrawString(text)

	if size > 1 {
		scaled := image.NewAlpha(image.Rect(0, 0, w*size, h*size))
		xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), mask, mask.Bounds(), xdraw.Src, nil)
		mask = scaled
	}
	dst := mask.Bounds().Add(image.Pt(x, y))
	draw.DrawMask(f.img, dst, image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
