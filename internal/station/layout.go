package station

import (
	"fmt"
	"image/color"

	"cloudpico-panel/internal/config"
	"cloudpico-panel/internal/graph"
	"cloudpico-panel/internal/raster"
)

// Panel places the chart of one quantity.
type Panel struct {
	X, Y          int
	Width, Height int
	YMaxHint      float64
	Title         string
	Autoscale     bool
	Mode          graph.Mode
	Color         color.Color
	// ShowReadout prints "now/min/max" under the frame.
	ShowReadout bool
}

func (p Panel) validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("plot size %dx%d must be positive: %w", p.Width, p.Height, graph.ErrInvalidConfig)
	}
	if !(p.YMaxHint > 0) {
		return fmt.Errorf("y max hint must be positive, got %v: %w", p.YMaxHint, graph.ErrInvalidConfig)
	}
	return nil
}

// Layout is everything the station needs to draw a frame.
type Layout struct {
	Background  color.Color
	Style       graph.Style
	Temperature Panel
	Humidity    Panel
}

// FromConfig resolves the colours and modes of a config layout.
func FromConfig(l config.Layout) (Layout, error) {
	bg, err := raster.ParseColor(l.Style.Background)
	if err != nil {
		return Layout{}, fmt.Errorf("style background: %w", err)
	}
	style := graph.DefaultStyle()
	for _, c := range []struct {
		name string
		in   string
		out  *color.Color
	}{
		{"frame_color", l.Style.FrameColor, &style.FrameColor},
		{"label_color", l.Style.LabelColor, &style.LabelColor},
		{"grid_color", l.Style.GridColor, &style.GridColor},
	} {
		parsed, err := raster.ParseColor(c.in)
		if err != nil {
			return Layout{}, fmt.Errorf("style %s: %w", c.name, err)
		}
		*c.out = parsed
	}
	style.TitleSize = l.Style.TitleSize
	style.TickIncrement = l.Style.TickIncrement
	style.Ticks = l.Style.Ticks
	style.DashSegments = l.Style.DashSegments

	temp, err := panelFromConfig(l.Temperature)
	if err != nil {
		return Layout{}, fmt.Errorf("temperature panel: %w", err)
	}
	hum, err := panelFromConfig(l.Humidity)
	if err != nil {
		return Layout{}, fmt.Errorf("humidity panel: %w", err)
	}
	return Layout{Background: bg, Style: style, Temperature: temp, Humidity: hum}, nil
}

func panelFromConfig(p config.PanelConfig) (Panel, error) {
	mode, err := graph.ParseMode(p.Mode)
	if err != nil {
		return Panel{}, err
	}
	c, err := raster.ParseColor(p.Color)
	if err != nil {
		return Panel{}, fmt.Errorf("color: %w", err)
	}
	return Panel{
		X:           p.X,
		Y:           p.Y,
		Width:       p.Width,
		Height:      p.Height,
		YMaxHint:    p.YMaxHint,
		Title:       p.Title,
		Autoscale:   p.Autoscale,
		Mode:        mode,
		Color:       c,
		ShowReadout: p.Readout,
	}, nil
}
