package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"cloudpico-panel/internal/config"
)

// New builds the process logger. Dev builds log coloured text; release builds log JSON.
// When LOG_FILE is set, output also goes to a size-rotated file.
func New(cfg config.Config, version string, appName string) *slog.Logger {
	return newLogger(cfg, version, appName, Writer(cfg, os.Stdout))
}

// Writer returns stdout, or stdout plus a rotating file when cfg.LogFile is set. The
// terminal display draws on stdout, so with it only the file is written.
func Writer(cfg config.Config, stdout io.Writer) io.Writer {
	if cfg.LogFile == "" {
		return stdout
	}
	file := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: 3,
		Compress:   true,
	}
	if cfg.DisplayDriver == "terminal" {
		return file
	}
	return io.MultiWriter(stdout, file)
}

func newLogger(cfg config.Config, version, appName string, w io.Writer) *slog.Logger {
	if version == "dev" {
		h := tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			AddSource:  true,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.LogFile != "",
		})
		return slog.New(h).With("app", appName)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	return slog.New(h).With(
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
	)
}
