// Package graph renders a rolling sample history as a framed, gridded chart on a
// raster.Canvas.
//
// Autoscale only ever tightens the Y axis: the computed bound replaces the caller's hint
// when it is strictly smaller, and samples above the hint saturate at the top edge
// instead of growing the axis.
package graph

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"unicode/utf8"

	"cloudpico-panel/internal/raster"
	"cloudpico-panel/internal/series"
)

var ErrInvalidConfig = series.ErrInvalidConfig

type Mode int

const (
	ModeLine Mode = iota
	ModeBar
)

func (m Mode) String() string {
	switch m {
	case ModeLine:
		return "line"
	case ModeBar:
		return "bar"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "line":
		return ModeLine, nil
	case "bar":
		return ModeBar, nil
	default:
		return ModeLine, fmt.Errorf("invalid mode %q (allowed: line, bar)", s)
	}
}

// Request describes one chart. Samples is read only; every slot is plotted,
// including slots a series has not filled yet.
type Request struct {
	X, Y          int
	Width, Height int
	YMaxHint      float64
	Title         string
	Samples       []float64
	Autoscale     bool
	Mode          Mode
	Color         color.Color
}

type Style struct {
	FrameColor color.Color
	LabelColor color.Color
	GridColor  color.Color

	TickIncrement float64
	Ticks         int
	DashSegments  int

	// GlyphWidth and GlyphHeight are the assumed font cell at size 1, used for
	// centring the title and right-aligning labels.
	GlyphWidth  int
	GlyphHeight int
	TitleSize   int
	LabelSize   int
	LabelGap    int
}

func DefaultStyle() Style {
	return Style{
		FrameColor:    raster.White,
		LabelColor:    raster.Yellow,
		GridColor:     raster.Gray,
		TickIncrement: 5,
		Ticks:         5,
		DashSegments:  40,
		GlyphWidth:    6,
		GlyphHeight:   13,
		TitleSize:     2,
		LabelSize:     1,
		LabelGap:      4,
	}
}

// Renderer is stateless between calls; rendering the same request twice issues the
// same sequence of canvas calls.
type Renderer struct {
	style Style
}

func NewRenderer(style Style) (*Renderer, error) {
	if style.TickIncrement <= 0 {
		return nil, fmt.Errorf("tick increment must be positive, got %v: %w", style.TickIncrement, ErrInvalidConfig)
	}
	if style.Ticks <= 0 {
		return nil, fmt.Errorf("ticks must be positive, got %d: %w", style.Ticks, ErrInvalidConfig)
	}
	if style.DashSegments <= 0 {
		style.DashSegments = 40
	}
	if style.TitleSize < 1 {
		style.TitleSize = 1
	}
	if style.LabelSize < 1 {
		style.LabelSize = 1
	}
	return &Renderer{style: style}, nil
}

func (r *Renderer) Style() Style { return r.style }

// EffectiveUpperBound resolves the Y-axis maximum for one render.
//
// With autoscale, candidate = ceil((max+tick+2)/tick)*tick over all samples; it is used
// only when it is below hint. A bound that resolves to zero or below, whether from the
// hint or from samples that all sit well under zero, is ErrInvalidConfig.
func EffectiveUpperBound(samples []float64, hint float64, autoscale bool, tick float64) (float64, error) {
	upper := hint
	if autoscale && len(samples) > 0 && tick > 0 {
		max := samples[0]
		for _, v := range samples[1:] {
			if v > max {
				max = v
			}
		}
		candidate := math.Ceil((max+tick+2)/tick) * tick
		if candidate < hint {
			upper = candidate
		}
	}
	if !(upper > 0) || math.IsInf(upper, 0) {
		return 0, fmt.Errorf("effective upper bound must be positive and finite, got %v: %w", upper, ErrInvalidConfig)
	}
	return upper, nil
}

func (r *Renderer) Render(c raster.Canvas, req Request) error {
	if req.Width <= 0 || req.Height <= 0 {
		return fmt.Errorf("plot size %dx%d must be positive: %w", req.Width, req.Height, ErrInvalidConfig)
	}
	if len(req.Samples) == 0 {
		return fmt.Errorf("no sample slots to plot: %w", ErrInvalidConfig)
	}
	upper, err := EffectiveUpperBound(req.Samples, req.YMaxHint, req.Autoscale, r.style.TickIncrement)
	if err != nil {
		return fmt.Errorf("render %q: %w", req.Title, err)
	}

	r.drawFrame(c, req)
	r.drawSeries(c, req, upper)
	r.drawGrid(c, req, upper)
	return nil
}

func (r *Renderer) drawFrame(c raster.Canvas, req Request) {
	s := r.style
	c.DrawRect(req.X, req.Y, req.Width+2, req.Height+3, s.FrameColor)
	if req.Title == "" {
		return
	}
	tx := req.X + req.Width/2 - utf8.RuneCountInString(req.Title)*s.GlyphWidth*s.TitleSize/2
	ty := req.Y - s.GlyphHeight*s.TitleSize - 1
	c.DrawText(tx, ty, req.Title, req.Color, s.TitleSize)
}

// PlotY maps a sample to its row. Values are clamped to [0, upper], so the result lies in
// [y+1, y+height+1], inside the frame.
func PlotY(v float64, y, height int, upper float64) int {
	v = math.Max(0, math.Min(v, upper))
	return int(float64(y+height+1) - v*float64(height)/upper)
}

// PlotX maps the 1-based slot i of capacity slots to its column.
func PlotX(i, x, width, capacity int) int {
	return x + i*width/capacity
}

func (r *Renderer) drawSeries(c raster.Canvas, req Request, upper float64) {
	capacity := len(req.Samples)
	base := req.Y + req.Height
	for i := 1; i <= capacity; i++ {
		px := PlotX(i, req.X, req.Width, capacity)
		py := PlotY(req.Samples[i-1], req.Y, req.Height, upper)
		switch req.Mode {
		case ModeBar:
			c.DrawLine(px, base, px, py, req.Color)
		default:
			c.DrawPixel(px, py, req.Color)
			c.DrawPixel(px, py-1, req.Color)
		}
	}
}
