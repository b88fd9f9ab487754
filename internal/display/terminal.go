package display

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/nsf/termbox-go"

	"cloudpico-panel/internal/raster"
)

const upperHalfBlock = '▀'

// screen is the slice of termbox the terminal display uses.
type screen interface {
	Size() (int, int)
	SetCell(x, y int, ch rune, fg, bg termbox.Attribute)
	Flush() error
}

type termboxScreen struct{}

func (termboxScreen) Size() (int, int) { return termbox.Size() }
func (termboxScreen) SetCell(x, y int, ch rune, fg, bg termbox.Attribute) {
	termbox.SetCell(x, y, ch, fg, bg)
}
func (termboxScreen) Flush() error { return termbox.Flush() }

// Terminal simulates a small colour panel in a text terminal. Every character cell shows
// two vertical pixels using an upper half block, so a w×h terminal is a w×2h display.
// It satisfies tinygo.org/x/drivers.Displayer.
type Terminal struct {
	scr   screen
	cols  int
	rows  int
	cells []termbox.Attribute // two per cell: top, bottom

	stop func()
	done chan struct{}
}

// NewTerminal takes over the terminal. Ctrl-C, Esc and q call onQuit.
func NewTerminal(onQuit func()) (*Terminal, error) {
	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("termbox init: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)
	termbox.SetOutputMode(termbox.OutputNormal)

	t := newTerminal(termboxScreen{})
	t.done = make(chan struct{})
	t.stop = func() {
		termbox.Interrupt()
		<-t.done
		termbox.Close()
	}
	go t.pollEvents(onQuit)
	return t, nil
}

func newTerminal(scr screen) *Terminal {
	t := &Terminal{scr: scr}
	t.resize()
	return t
}

func (t *Terminal) pollEvents(onQuit func()) {
	defer close(t.done)
	for {
		ev := termbox.PollEvent()
		switch ev.Type {
		case termbox.EventInterrupt, termbox.EventError:
			return
		case termbox.EventKey:
			if ev.Key == termbox.KeyCtrlC || ev.Key == termbox.KeyEsc || ev.Ch == 'q' {
				if onQuit != nil {
					onQuit()
				}
			}
		}
	}
}

func (t *Terminal) resize() {
	cols, rows := t.scr.Size()
	if cols == t.cols && rows == t.rows && t.cells != nil {
		return
	}
	t.cols, t.rows = cols, rows
	t.cells = make([]termbox.Attribute, cols*rows*2)
}

// Size reports the pixel size: one column per cell and two rows per cell.
func (t *Terminal) Size() (x, y int16) {
	t.resize()
	return int16(t.cols), int16(t.rows * 2)
}

func (t *Terminal) SetPixel(x, y int16, c color.RGBA) {
	cx, cy := int(x), int(y)/2
	if x < 0 || y < 0 || cx >= t.cols || cy >= t.rows {
		return
	}
	t.cells[(cy*t.cols+cx)*2+int(y)%2] = TermColor(c)
}

func (t *Terminal) Display() error {
	for cy := 0; cy < t.rows; cy++ {
		for cx := 0; cx < t.cols; cx++ {
			i := (cy*t.cols + cx) * 2
			t.scr.SetCell(cx, cy, upperHalfBlock, t.cells[i], t.cells[i+1])
		}
	}
	return t.scr.Flush()
}

func (t *Terminal) Close() error {
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
	return nil
}

var termPalette = []struct {
	attr termbox.Attribute
	c    color.RGBA
}{
	{termbox.ColorBlack, color.RGBA{0, 0, 0, 0xff}},
	{termbox.ColorRed, color.RGBA{0xff, 0, 0, 0xff}},
	{termbox.ColorGreen, color.RGBA{0, 0xff, 0, 0xff}},
	{termbox.ColorYellow, color.RGBA{0xff, 0xff, 0, 0xff}},
	{termbox.ColorBlue, color.RGBA{0, 0, 0xff, 0xff}},
	{termbox.ColorMagenta, color.RGBA{0xff, 0, 0xff, 0xff}},
	{termbox.ColorCyan, color.RGBA{0, 0xff, 0xff, 0xff}},
	{termbox.ColorWhite, color.RGBA{0xff, 0xff, 0xff, 0xff}},
}

// TermColor maps c to the nearest of the eight basic terminal colours.
func TermColor(c color.RGBA) termbox.Attribute {
	best, bestD := termPalette[0].attr, -1
	for _, p := range termPalette {
		dr := int(c.R) - int(p.c.R)
		dg := int(c.G) - int(p.c.G)
		db := int(c.B) - int(p.c.B)
		if d := dr*dr + dg*dg + db*db; bestD < 0 || d < bestD {
			best, bestD = p.attr, d
		}
	}
	return best
}

// TerminalPresenter shrinks each frame to fit the terminal, then hands it to the
// terminal through the generic displayer path.
type TerminalPresenter struct {
	term *Terminal
	out  *raster.DisplayerPresenter
	mu   sync.Mutex
}

func NewTerminalPresenter(term *Terminal) *TerminalPresenter {
	return &TerminalPresenter{term: term, out: raster.NewDisplayerPresenter(term)}
}

func (p *TerminalPresenter) Present(img image.Image) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, h := p.term.Size()
	return p.out.Present(Shrink(img, int(w), int(h)))
}

func (p *TerminalPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.term.Close()
}

// Shrink scales img down by a whole factor so it fits w×h. Each output pixel takes the
// brightest source pixel of its block, so one pixel wide lines survive.
func Shrink(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	s := max(ceilDiv(b.Dx(), w), ceilDiv(b.Dy(), h), 1)
	if s == 1 {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, ceilDiv(b.Dx(), s), ceilDiv(b.Dy(), s)))
	for oy := 0; oy < out.Bounds().Dy(); oy++ {
		for ox := 0; ox < out.Bounds().Dx(); ox++ {
			var best color.RGBA
			bestL := -1
			for y := b.Min.Y + oy*s; y < min(b.Min.Y+(oy+1)*s, b.Max.Y); y++ {
				for x := b.Min.X + ox*s; x < min(b.Min.X+(ox+1)*s, b.Max.X); x++ {
					c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
					if l := int(c.R) + int(c.G) + int(c.B); l > bestL {
						best, bestL = c, l
					}
				}
			}
			out.SetRGBA(ox, oy, best)
		}
	}
	return out
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
