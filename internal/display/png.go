package display

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// PNG keeps the latest frame as an image file. Writes go through a temp file and a rename
// so readers never see a partial image.
type PNG struct {
	path string
}

func NewPNG(path string) *PNG {
	return &PNG{path: path}
}

func (p *PNG) Present(img image.Image) error {
	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, ".frame-*.png")
	if err != nil {
		return fmt.Errorf("create frame: %w", err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode frame: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close frame: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("publish frame: %w", err)
	}
	return nil
}

func (p *PNG) Close() error { return nil }
