package graph

import (
	"math"
	"strconv"
	"unicode/utf8"

	"cloudpico-panel/internal/raster"
)

func (r *Renderer) drawGrid(c raster.Canvas, req Request, upper float64) {
	s := r.style
	for k := 0; k <= s.Ticks; k++ {
		gy := req.Y + req.Height*k/s.Ticks
		if k < s.Ticks {
			c.DrawDashedHLine(req.X+1, req.X+req.Width+1, gy, s.DashSegments, s.GridColor)
		}
		label := FormatLabel(upper - upper/float64(s.Ticks)*float64(k))
		lx := req.X - utf8.RuneCountInString(label)*s.GlyphWidth*s.LabelSize - s.LabelGap
		c.DrawText(lx, gy, label, s.LabelColor, s.LabelSize)
	}
}

// FormatLabel prints whole values without decimals and everything else with one.
func FormatLabel(v float64) string {
	v = math.Round(v*10) / 10
	if v == 0 {
		v = 0 // drop negative zero
	}
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
