// Package station drives the sampling cycle: read the sensor, update both rolling
// series, redraw both charts and push the frame to the display.
package station

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"cloudpico-panel/internal/diag"
	"cloudpico-panel/internal/graph"
	"cloudpico-panel/internal/raster"
	"cloudpico-panel/internal/sensor"
	"cloudpico-panel/internal/series"
)

// Frame is a canvas whose pixels can be handed to a presenter.
type Frame interface {
	raster.Canvas
	Image() *image.RGBA
}

type Options struct {
	Capacity int
	Layout   Layout

	Sensor sensor.Reader
	// Canvas receives the drawing calls. When Presenter is set it must be a Frame.
	Canvas    raster.Canvas
	Presenter raster.Presenter
	Sink      diag.Sink
	Logger    *slog.Logger
	// Clock stamps successful samples; defaults to the real clock.
	Clock clockwork.Clock
}

type Stats struct {
	Ticks       int
	Samples     int
	Failures    int
	LastSuccess time.Time
}

// Station owns every piece of sampling state. Tick and Run must be called from one
// goroutine; Stats is safe to call from any.
type Station struct {
	temperature *series.Series
	humidity    *series.Series
	renderer    *graph.Renderer
	layout      Layout

	sensor    sensor.Reader
	canvas    raster.Canvas
	frame     Frame
	presenter raster.Presenter
	sink      diag.Sink
	logger    *slog.Logger
	clock     clockwork.Clock

	mu    sync.Mutex
	stats Stats
}

func New(opts Options) (*Station, error) {
	if opts.Sensor == nil || opts.Canvas == nil {
		return nil, fmt.Errorf("station needs a sensor and a canvas: %w", graph.ErrInvalidConfig)
	}
	temperature, err := series.New(opts.Capacity)
	if err != nil {
		return nil, fmt.Errorf("temperature series: %w", err)
	}
	humidity, err := series.New(opts.Capacity)
	if err != nil {
		return nil, fmt.Errorf("humidity series: %w", err)
	}
	renderer, err := graph.NewRenderer(opts.Layout.Style)
	if err != nil {
		return nil, err
	}
	if err := opts.Layout.Temperature.validate(); err != nil {
		return nil, fmt.Errorf("temperature panel: %w", err)
	}
	if err := opts.Layout.Humidity.validate(); err != nil {
		return nil, fmt.Errorf("humidity panel: %w", err)
	}

	s := &Station{
		temperature: temperature,
		humidity:    humidity,
		renderer:    renderer,
		layout:      opts.Layout,
		sensor:      opts.Sensor,
		canvas:      opts.Canvas,
		presenter:   opts.Presenter,
		sink:        opts.Sink,
		logger:      opts.Logger,
		clock:       opts.Clock,
	}
	if s.presenter != nil {
		frame, ok := opts.Canvas.(Frame)
		if !ok {
			return nil, fmt.Errorf("canvas %T cannot be presented: %w", opts.Canvas, graph.ErrInvalidConfig)
		}
		s.frame = frame
	}
	if s.layout.Background == nil {
		s.layout.Background = raster.Black
	}
	if s.sink == nil {
		s.sink = diag.Discard{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	return s, nil
}

// Tick runs one sampling cycle. A failed read is recorded in the sink and skipped: the
// series and the display keep their previous content and Tick returns nil. Render and
// present errors are returned.
func (s *Station) Tick(ctx context.Context) error {
	s.mu.Lock()
	s.stats.Ticks++
	s.mu.Unlock()

	r, err := s.sensor.Read(ctx)
	if err == nil {
		err = sensor.Validate(r)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return ctxErr
		}
		s.mu.Lock()
		s.stats.Failures++
		failures := s.stats.Failures
		s.mu.Unlock()
		s.sink.Record(ctx, fmt.Sprintf("Failed to read from sensor: %v", err))
		s.logger.Debug("tick skipped", "err", err, "failures", failures)
		return nil
	}

	s.temperature.Append(r.Temperature)
	s.humidity.Append(r.Humidity)
	s.mu.Lock()
	s.stats.Samples++
	s.stats.LastSuccess = s.clock.Now()
	s.mu.Unlock()

	if err := s.draw(); err != nil {
		return err
	}
	s.logger.Debug("sampled", "temperature", r.Temperature, "humidity", r.Humidity)
	return nil
}

// Run ticks once immediately, then every interval until ctx is done.
func (s *Station) Run(ctx context.Context, clock clockwork.Clock, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("sample interval must be positive, got %v: %w", interval, graph.ErrInvalidConfig)
	}
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	if err := s.Tick(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			if err := s.Tick(ctx); err != nil {
				return err
			}
		}
	}
}

func (s *Station) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Temperature and Humidity expose the series for inspection.
func (s *Station) Temperature() *series.Series { return s.temperature }
func (s *Station) Humidity() *series.Series    { return s.humidity }
