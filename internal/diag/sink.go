// Package diag receives the diagnostic lines the station emits when a sensor read fails.
package diag

import (
	"context"
	"log/slog"
)

type Sink interface {
	Record(ctx context.Context, line string)
}

// LogSink writes each line to the logger at warn level.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Record(ctx context.Context, line string) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.WarnContext(ctx, "diagnostic", "line", line)
}

// Multi fans a line out to every sink in order. Nil entries are skipped.
type Multi []Sink

func (m Multi) Record(ctx context.Context, line string) {
	for _, s := range m {
		if s != nil {
			s.Record(ctx, line)
		}
	}
}

// Discard drops every line.
type Discard struct{}

func (Discard) Record(context.Context, string) {}
