package display

import (
	"fmt"
	"image"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"
)

// SSD1306 drives a monochrome OLED over I2C. Frames are thresholded to 1 bit by the driver.
type SSD1306 struct {
	bus i2c.BusCloser
	dev *ssd1306.Dev
}

// OpenSSD1306 opens the I2C bus by name ("" picks the first one) and a w×h panel on it.
func OpenSSD1306(busName string, w, h int) (*SSD1306, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	opts := ssd1306.DefaultOpts
	opts.W, opts.H = w, h
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("ssd1306 init: %w", err)
	}
	return &SSD1306{bus: bus, dev: dev}, nil
}

func (d *SSD1306) Present(img image.Image) error {
	if err := d.dev.Draw(d.dev.Bounds(), img, image.Point{}); err != nil {
		return fmt.Errorf("ssd1306 draw: %w", err)
	}
	return nil
}

func (d *SSD1306) Close() error {
	haltErr := d.dev.Halt()
	if err := d.bus.Close(); err != nil {
		return fmt.Errorf("close i2c bus: %w", err)
	}
	if haltErr != nil {
		return fmt.Errorf("ssd1306 halt: %w", haltErr)
	}
	return nil
}
