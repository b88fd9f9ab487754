package sensor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"cloudpico-panel/internal/config"
)

// ErrRead marks a failed or unusable reading. The station skips the tick.
var ErrRead = errors.New("sensor read failed")

// Reading is one temperature (°C) / relative humidity (%) pair.
type Reading struct {
	Temperature float64
	Humidity    float64
}

type Reader interface {
	Read(ctx context.Context) (Reading, error)
	Close() error
}

// Validate rejects non-finite values; a NaN reading counts as a failed read.
func Validate(r Reading) error {
	if math.IsNaN(r.Temperature) || math.IsInf(r.Temperature, 0) {
		return fmt.Errorf("temperature %v: %w", r.Temperature, ErrRead)
	}
	if math.IsNaN(r.Humidity) || math.IsInf(r.Humidity, 0) {
		return fmt.Errorf("humidity %v: %w", r.Humidity, ErrRead)
	}
	return nil
}

func Open(cfg config.Config) (Reader, error) {
	switch strings.ToLower(cfg.SensorDriver) {
	case "bme280":
		return OpenBME280(cfg.I2CBus, cfg.BME280Address)
	case "sim":
		return NewSimulated(cfg.SimSeed, cfg.SimFailEvery), nil
	default:
		return nil, fmt.Errorf("unknown SENSOR_DRIVER %q", cfg.SensorDriver)
	}
}
