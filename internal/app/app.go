package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"cloudpico-panel/internal/config"
	"cloudpico-panel/internal/diag"
	"cloudpico-panel/internal/display"
	"cloudpico-panel/internal/raster"
	"cloudpico-panel/internal/sensor"
	"cloudpico-panel/internal/station"
)

func Run(ctx context.Context, cfg config.Config) error {
	return run(ctx, cfg, clockwork.NewRealClock(), display.Open)
}

type openDisplay func(cfg config.Config, onQuit func()) (raster.Presenter, error)

func run(ctx context.Context, cfg config.Config, clock clockwork.Clock, open openDisplay) error {
	slog.Info("initializing panel",
		"sensor", cfg.SensorDriver,
		"display", cfg.DisplayDriver,
		"size", fmt.Sprintf("%dx%d", cfg.DisplayWidth, cfg.DisplayHeight),
		"capacity", cfg.SampleCapacity,
		"interval", cfg.SampleInterval.String(),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cl, err := config.LoadLayout(cfg.PanelLayoutFile, cfg.DisplayWidth, cfg.DisplayHeight)
	if err != nil {
		return fmt.Errorf("panel layout: %w", err)
	}
	layout, err := station.FromConfig(cl)
	if err != nil {
		return fmt.Errorf("panel layout: %w", err)
	}

	sinks := diag.Multi{diag.LogSink{Logger: slog.Default()}}
	if cfg.DiagSQLitePath != "" {
		journal, err := diag.OpenJournal(ctx, cfg.DiagSQLitePath, slog.Default())
		if err != nil {
			return err
		}
		defer closeLogged("diagnostic journal", journal.Close)
		sinks = append(sinks, journal)
		slog.Info("diagnostic journal enabled", "path", cfg.DiagSQLitePath)
	}

	reader, err := sensor.Open(cfg)
	if err != nil {
		return err
	}
	defer closeLogged("sensor", reader.Close)

	presenter, err := open(cfg, cancel)
	if err != nil {
		return fmt.Errorf("open display: %w", err)
	}
	defer closeLogged("display", presenter.Close)

	st, err := station.New(station.Options{
		Capacity:  cfg.SampleCapacity,
		Layout:    layout,
		Sensor:    reader,
		Canvas:    raster.NewFramebuffer(cfg.DisplayWidth, cfg.DisplayHeight),
		Presenter: presenter,
		Sink:      sinks,
		Logger:    slog.Default(),
		Clock:     clock,
	})
	if err != nil {
		return err
	}

	err = st.Run(ctx, clock, cfg.SampleInterval)
	stats := st.Stats()
	slog.Info("panel shutting down",
		"ticks", stats.Ticks,
		"samples", stats.Samples,
		"failures", stats.Failures,
	)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func closeLogged(what string, closeFn func() error) {
	if err := closeFn(); err != nil {
		slog.Warn("close failed", "what", what, "err", err)
	}
}
