// Package display holds the presenters a finished frame can be pushed to.
package display

import (
	"fmt"
	"image"

	"cloudpico-panel/internal/config"
	"cloudpico-panel/internal/raster"
)

// Open returns the presenter selected by DISPLAY_DRIVER. onQuit is called when the user
// asks an interactive display to stop; it may be nil.
func Open(cfg config.Config, onQuit func()) (raster.Presenter, error) {
	switch cfg.DisplayDriver {
	case "ssd1306":
		return OpenSSD1306(cfg.I2CBus, cfg.DisplayWidth, cfg.DisplayHeight)
	case "terminal":
		term, err := NewTerminal(onQuit)
		if err != nil {
			return nil, err
		}
		return NewTerminalPresenter(term), nil
	case "png":
		return NewPNG(cfg.PNGPath), nil
	case "none":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown display driver %q", cfg.DisplayDriver)
	}
}

// Nop drops frames. Used for headless runs.
type Nop struct{}

func (Nop) Present(image.Image) error { return nil }
func (Nop) Close() error              { return nil }
