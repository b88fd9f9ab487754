package station

import (
	"fmt"

	"cloudpico-panel/internal/graph"
	"cloudpico-panel/internal/series"
)

// readoutGap is the space between the bottom of a frame and its readout line.
const readoutGap = 1

func (s *Station) draw() error {
	s.canvas.Clear(s.layout.Background)

	for _, q := range []struct {
		name   string
		panel  Panel
		series *series.Series
	}{
		{"temperature", s.layout.Temperature, s.temperature},
		{"humidity", s.layout.Humidity, s.humidity},
	} {
		p := q.panel
		if err := s.renderer.Render(s.canvas, graph.Request{
			X:         p.X,
			Y:         p.Y,
			Width:     p.Width,
			Height:    p.Height,
			YMaxHint:  p.YMaxHint,
			Title:     p.Title,
			Samples:   q.series.Snapshot(),
			Autoscale: p.Autoscale,
			Mode:      p.Mode,
			Color:     p.Color,
		}); err != nil {
			return fmt.Errorf("render %s: %w", q.name, err)
		}
		if p.ShowReadout {
			s.drawReadout(p, q.series)
		}
	}

	if s.presenter == nil {
		return nil
	}
	if err := s.presenter.Present(s.frame.Image()); err != nil {
		return fmt.Errorf("present frame: %w", err)
	}
	return nil
}

// Readout returns the "now/min/max" line shown under a chart.
func Readout(ser *series.Series) string {
	last, ok := ser.Last()
	if !ok {
		return ""
	}
	lo, hi := ser.Extrema()
	return fmt.Sprintf("now %s min %s max %s",
		graph.FormatLabel(last), graph.FormatLabel(lo), graph.FormatLabel(hi))
}

func (s *Station) drawReadout(p Panel, ser *series.Series) {
	text := Readout(ser)
	if text == "" {
		return
	}
	y := p.Y + p.Height + 3 + readoutGap
	s.canvas.DrawText(p.X, y, text, s.renderer.Style().LabelColor, 1)
}
