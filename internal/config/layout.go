package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Layout places the two charts on the display. Colours are "#rrggbb" strings and are
// parsed by the station.
type Layout struct {
	Style       StyleConfig `yaml:"style"`
	Temperature PanelConfig `yaml:"temperature"`
	Humidity    PanelConfig `yaml:"humidity"`
}

type StyleConfig struct {
	Background    string  `yaml:"background"`
	FrameColor    string  `yaml:"frame_color"`
	LabelColor    string  `yaml:"label_color"`
	GridColor     string  `yaml:"grid_color"`
	TitleSize     int     `yaml:"title_size"`
	TickIncrement float64 `yaml:"tick_increment"`
	Ticks         int     `yaml:"ticks"`
	DashSegments  int     `yaml:"dash_segments"`
}

type PanelConfig struct {
	Title     string  `yaml:"title"`
	X         int     `yaml:"x"`
	Y         int     `yaml:"y"`
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	YMaxHint  float64 `yaml:"y_max_hint"`
	Autoscale bool    `yaml:"autoscale"`
	Mode      string  `yaml:"mode"`
	Color     string  `yaml:"color"`
	Readout   bool    `yaml:"readout"`
}

const (
	glyphHeight  = 13
	defaultTicks = 5
	// room left of the plot for four label characters plus a gap
	labelMarginWide   = 32
	labelMarginNarrow = 22
)

// DefaultLayout stacks temperature above humidity, each in half of a w×h display.
// Small displays get size 1 titles and no readout line.
func DefaultLayout(w, h int) Layout {
	titleSize, readoutH, margin := 2, glyphHeight+1, labelMarginWide
	if h < 160 {
		titleSize, readoutH = 1, 0
	}
	if w < 200 {
		margin = labelMarginNarrow
	}
	half := h / 2
	titleH := glyphHeight*titleSize + 1
	plotH := half - titleH - 3 - readoutH
	plotW := w - margin - 4
	// one label per band edge; bands shorter than a glyph would stack labels
	ticks := min(defaultTicks, max(1, plotH/glyphHeight))

	panel := func(i int, title string, hint float64, mode, color string) PanelConfig {
		return PanelConfig{
			Title:     title,
			X:         margin,
			Y:         i*half + titleH,
			Width:     plotW,
			Height:    plotH,
			YMaxHint:  hint,
			Autoscale: true,
			Mode:      mode,
			Color:     color,
			Readout:   readoutH > 0,
		}
	}
	return Layout{
		Style: StyleConfig{
			Background:    "#000000",
			FrameColor:    "#ffffff",
			LabelColor:    "#ffd700",
			GridColor:     "#606060",
			TitleSize:     titleSize,
			TickIncrement: 5,
			Ticks:         ticks,
			DashSegments:  40,
		},
		Temperature: panel(0, "Temp C", 50, "line", "#ff4030"),
		Humidity:    panel(1, "Humidity %", 100, "bar", "#00c8ff"),
	}
}

// LoadLayout returns DefaultLayout(w, h) overlaid with the YAML file at path, if any.
func LoadLayout(path string, w, h int) (Layout, error) {
	l := DefaultLayout(w, h)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Layout{}, fmt.Errorf("read layout: %w", err)
		}
		if err := yaml.Unmarshal(data, &l); err != nil {
			return Layout{}, fmt.Errorf("parse layout %s: %w", path, err)
		}
	}
	if err := l.Validate(w, h); err != nil {
		return Layout{}, err
	}
	return l, nil
}

func (l Layout) Validate(w, h int) error {
	if l.Style.TickIncrement <= 0 {
		return fmt.Errorf("style: tick_increment must be positive, got %v", l.Style.TickIncrement)
	}
	if l.Style.Ticks <= 0 {
		return fmt.Errorf("style: ticks must be positive, got %d", l.Style.Ticks)
	}
	if l.Style.TitleSize < 1 {
		return fmt.Errorf("style: title_size must be >= 1, got %d", l.Style.TitleSize)
	}
	for _, p := range []struct {
		name  string
		panel PanelConfig
	}{{"temperature", l.Temperature}, {"humidity", l.Humidity}} {
		if err := p.panel.validate(w, h); err != nil {
			return fmt.Errorf("panel %s: %w", p.name, err)
		}
	}
	return nil
}

func (p PanelConfig) validate(w, h int) error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("plot size %dx%d must be positive", p.Width, p.Height)
	}
	if p.YMaxHint <= 0 {
		return fmt.Errorf("y_max_hint must be positive, got %v", p.YMaxHint)
	}
	if p.X < 0 || p.Y < 0 || p.X+p.Width+2 > w || p.Y+p.Height+3 > h {
		return fmt.Errorf("frame at (%d,%d) size %dx%d does not fit a %dx%d display",
			p.X, p.Y, p.Width+2, p.Height+3, w, h)
	}
	switch p.Mode {
	case "", "line", "bar":
	default:
		return fmt.Errorf("invalid mode %q (allowed: line, bar)", p.Mode)
	}
	return nil
}
