package raster

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"
)

// DisplayerPresenter copies frames into a TinyGo display driver. The frame is clipped to
// the driver's reported size.
type DisplayerPresenter struct {
	dev drivers.Displayer
}

func NewDisplayerPresenter(dev drivers.Displayer) *DisplayerPresenter {
	return &DisplayerPresenter{dev: dev}
}

func (p *DisplayerPresenter) Present(img image.Image) error {
	w, h := p.dev.Size()
	b := img.Bounds().Intersect(image.Rect(0, 0, int(w), int(h)))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			p.dev.SetPixel(int16(x), int16(y), c)
		}
	}
	return p.dev.Display()
}

func (p *DisplayerPresenter) Close() error { return nil }
