package raster

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette used when a layout does not name colours.
var (
	Black  = color.RGBA{A: 0xff}
	White  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	Red    = color.RGBA{R: 0xff, G: 0x40, B: 0x30, A: 0xff}
	Cyan   = color.RGBA{G: 0xc8, B: 0xff, A: 0xff}
	Yellow = color.RGBA{R: 0xff, G: 0xd7, A: 0xff}
	Gray   = color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xff}
)

// ParseColor accepts "#rgb" or "#rrggbb" (the leading '#' is optional).
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 3 && len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q (want #rgb or #rrggbb)", s)
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return color.RGBA{}, fmt.Errorf("invalid color %q: bad hex digit %q", s, r)
		}
	}
	c := drawing.ColorFromHex(hex)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}
