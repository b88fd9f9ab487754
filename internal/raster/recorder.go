package raster

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// Op is one recorded Canvas call.
type Op struct {
	Name  string
	Args  []int
	Text  string
	Color color.RGBA
}

func (o Op) String() string {
	var b strings.Builder
	b.WriteString(o.Name)
	b.WriteString(fmt.Sprint(o.Args))
	if o.Text != "" {
		fmt.Fprintf(&b, " %q", o.Text)
	}
	fmt.Fprintf(&b, " #%02x%02x%02x", o.Color.R, o.Color.G, o.Color.B)
	return b.String()
}

// Recorder is a Canvas that only records calls.
type Recorder struct {
	bounds image.Rectangle
	Ops    []Op
}

func NewRecorder(bounds image.Rectangle) *Recorder {
	return &Recorder{bounds: bounds}
}

func (r *Recorder) record(name string, text string, c color.Color, args ...int) {
	r.Ops = append(r.Ops, Op{
		Name:  name,
		Args:  args,
		Text:  text,
		Color: color.RGBAModel.Convert(c).(color.RGBA),
	})
}

// Named returns the recorded ops called name, in order.
func (r *Recorder) Named(name string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Name == name {
			out = append(out, op)
		}
	}
	return out
}

func (r *Recorder) Reset() { r.Ops = nil }

func (r *Recorder) Bounds() image.Rectangle { return r.bounds }

func (r *Recorder) Clear(c color.Color) { r.record("Clear", "", c) }

func (r *Recorder) DrawPixel(x, y int, c color.Color) { r.record("DrawPixel", "", c, x, y) }

func (r *Recorder) DrawLine(x0, y0, x1, y1 int, c color.Color) {
	r.record("DrawLine", "", c, x0, y0, x1, y1)
}

func (r *Recorder) DrawRect(x, y, w, h int, c color.Color) { r.record("DrawRect", "", c, x, y, w, h) }

func (r *Recorder) FillRect(x, y, w, h int, c color.Color) { r.record("FillRect", "", c, x, y, w, h) }

func (r *Recorder) DrawDashedHLine(x0, x1, y, segments int, c color.Color) {
	r.record("DrawDashedHLine", "", c, x0, x1, y, segments)
}

func (r *Recorder) DrawText(x, y int, text string, c color.Color, size int) {
	r.record("DrawText", text, c, x, y, size)
}
