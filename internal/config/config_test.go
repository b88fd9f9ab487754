package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"APP_ENV", "LOG_LEVEL", "LOG_FILE", "LOG_MAX_SIZE_MB",
	"SAMPLE_CAPACITY", "SAMPLE_INTERVAL",
	"SENSOR_DRIVER", "I2C_BUS", "BME280_ADDRESS", "SIM_SEED", "SIM_FAIL_EVERY",
	"DISPLAY_DRIVER", "DISPLAY_WIDTH", "DISPLAY_HEIGHT", "PNG_PATH",
	"DIAG_SQLITE_PATH", "PANEL_LAYOUT_FILE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}

	if got.AppEnv != "dev" {
		t.Errorf("AppEnv = %q, want %q", got.AppEnv, "dev")
	}
	if got.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want %v", got.LogLevel, slog.LevelInfo)
	}
	if got.SampleCapacity != 200 {
		t.Errorf("SampleCapacity = %d, want 200", got.SampleCapacity)
	}
	if got.SampleInterval != 2*time.Second {
		t.Errorf("SampleInterval = %v, want 2s", got.SampleInterval)
	}
	if got.SensorDriver != "sim" || got.DisplayDriver != "terminal" {
		t.Errorf("drivers = %q/%q, want sim/terminal", got.SensorDriver, got.DisplayDriver)
	}
	if got.DisplayWidth != 320 || got.DisplayHeight != 240 {
		t.Errorf("display = %dx%d, want 320x240", got.DisplayWidth, got.DisplayHeight)
	}
	if got.BME280Address != 0x76 {
		t.Errorf("BME280Address = %#x, want 0x76", got.BME280Address)
	}
	if got.DiagSQLitePath != "" {
		t.Errorf("DiagSQLitePath = %q, want disabled", got.DiagSQLitePath)
	}
	if got.LogFile != "panel.log" {
		t.Errorf("LogFile = %q, want panel.log while the terminal display owns stdout", got.LogFile)
	}
}

func TestLoadFromEnv_SSD1306DefaultSize(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISPLAY_DRIVER", " SSD1306 ")

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}
	if got.DisplayWidth != 128 || got.DisplayHeight != 64 {
		t.Errorf("display = %dx%d, want 128x64", got.DisplayWidth, got.DisplayHeight)
	}
	if got.LogFile != "" {
		t.Errorf("LogFile = %q, want stdout only", got.LogFile)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SAMPLE_CAPACITY", " 120 ")
	t.Setenv("SAMPLE_INTERVAL", "500ms")
	t.Setenv("SENSOR_DRIVER", "bme280")
	t.Setenv("BME280_ADDRESS", "0x77")
	t.Setenv("I2C_BUS", "/dev/i2c-3")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DIAG_SQLITE_PATH", "/var/lib/panel/diag.db")

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}
	if got.SampleCapacity != 120 || got.SampleInterval != 500*time.Millisecond {
		t.Errorf("capacity/interval = %d/%v, want 120/500ms", got.SampleCapacity, got.SampleInterval)
	}
	if got.SensorDriver != "bme280" || got.BME280Address != 0x77 || got.I2CBus != "/dev/i2c-3" {
		t.Errorf("sensor = %q %#x %q", got.SensorDriver, got.BME280Address, got.I2CBus)
	}
	if got.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", got.LogLevel)
	}
	if got.DiagSQLitePath != "/var/lib/panel/diag.db" {
		t.Errorf("DiagSQLitePath = %q", got.DiagSQLitePath)
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "app env", key: "APP_ENV", value: "staging"},
		{name: "log level", key: "LOG_LEVEL", value: "verbose"},
		{name: "zero capacity", key: "SAMPLE_CAPACITY", value: "0"},
		{name: "negative capacity", key: "SAMPLE_CAPACITY", value: "-5"},
		{name: "capacity not a number", key: "SAMPLE_CAPACITY", value: "lots"},
		{name: "interval", key: "SAMPLE_INTERVAL", value: "soon"},
		{name: "negative interval", key: "SAMPLE_INTERVAL", value: "-1s"},
		{name: "sensor", key: "SENSOR_DRIVER", value: "dht22"},
		{name: "address", key: "BME280_ADDRESS", value: "0xZZ"},
		{name: "display", key: "DISPLAY_DRIVER", value: "hdmi"},
		{name: "width", key: "DISPLAY_WIDTH", value: "0"},
		{name: "fail every", key: "SIM_FAIL_EVERY", value: "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadFromEnv()
			if err == nil {
				t.Fatalf("LoadFromEnv() error = nil, want non-nil")
			}
		})
	}
}

func TestParseLogLevel_Valid(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: " warning ", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
	}
	for _, tt := range tests {
		got, err := parseLogLevel(tt.in)
		if err != nil {
			t.Fatalf("parseLogLevel(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultLayout_fitsDisplay(t *testing.T) {
	sizes := [][2]int{{320, 240}, {128, 64}, {240, 135}, {480, 320}}
	for _, s := range sizes {
		l := DefaultLayout(s[0], s[1])
		if err := l.Validate(s[0], s[1]); err != nil {
			t.Errorf("DefaultLayout(%d, %d).Validate() = %v", s[0], s[1], err)
		}
	}

	l := DefaultLayout(320, 240)
	if l.Style.TitleSize != 2 || !l.Temperature.Readout {
		t.Errorf("320x240 title size/readout = %d/%v, want 2/true", l.Style.TitleSize, l.Temperature.Readout)
	}
	if l.Humidity.Y <= l.Temperature.Y+l.Temperature.Height+3 {
		t.Errorf("humidity panel at y=%d overlaps temperature frame", l.Humidity.Y)
	}
	small := DefaultLayout(128, 64)
	if small.Style.TitleSize != 1 || small.Humidity.Readout {
		t.Errorf("128x64 title size/readout = %d/%v, want 1/false", small.Style.TitleSize, small.Humidity.Readout)
	}
}

func TestDefaultLayout_labelsDoNotOverlap(t *testing.T) {
	tests := []struct {
		w, h      int
		wantTicks int
	}{
		{w: 320, h: 240, wantTicks: 5},
		{w: 480, h: 320, wantTicks: 5},
		{w: 240, h: 135, wantTicks: 3},
		{w: 128, h: 64, wantTicks: 1},
	}
	for _, tt := range tests {
		l := DefaultLayout(tt.w, tt.h)
		if l.Style.Ticks != tt.wantTicks {
			t.Errorf("DefaultLayout(%d, %d) ticks = %d, want %d", tt.w, tt.h, l.Style.Ticks, tt.wantTicks)
		}
		for _, p := range []PanelConfig{l.Temperature, l.Humidity} {
			if band := p.Height / l.Style.Ticks; band < glyphHeight {
				t.Errorf("DefaultLayout(%d, %d) %q: %d px per band, labels are %d px tall",
					tt.w, tt.h, p.Title, band, glyphHeight)
			}
		}
	}
}

func writeLayout(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "layout.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write layout: %v", err)
	}
	return p
}

func TestLoadLayout_overlaysDefaults(t *testing.T) {
	p := writeLayout(t, `
style:
  ticks: 4
temperature:
  title: Outdoor
  y_max_hint: 40
  autoscale: false
humidity:
  mode: line
`)
	l, err := LoadLayout(p, 320, 240)
	if err != nil {
		t.Fatalf("LoadLayout() error = %v", err)
	}
	def := DefaultLayout(320, 240)
	if l.Style.Ticks != 4 || l.Style.TickIncrement != def.Style.TickIncrement {
		t.Errorf("style = %+v", l.Style)
	}
	if l.Temperature.Title != "Outdoor" || l.Temperature.YMaxHint != 40 || l.Temperature.Autoscale {
		t.Errorf("temperature = %+v", l.Temperature)
	}
	if l.Temperature.Width != def.Temperature.Width {
		t.Errorf("temperature width = %d, want default %d", l.Temperature.Width, def.Temperature.Width)
	}
	if l.Humidity.Mode != "line" || l.Humidity.Color != def.Humidity.Color {
		t.Errorf("humidity = %+v", l.Humidity)
	}
}

func TestLoadLayout_invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "zero hint", body: "temperature:\n  y_max_hint: 0\n", want: "y_max_hint"},
		{name: "off screen", body: "humidity:\n  x: 300\n", want: "does not fit"},
		{name: "bad mode", body: "humidity:\n  mode: pie\n", want: "invalid mode"},
		{name: "zero ticks", body: "style:\n  ticks: 0\n", want: "ticks"},
		{name: "bad yaml", body: "temperature: [", want: "parse layout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadLayout(writeLayout(t, tt.body), 320, 240)
			if err == nil {
				t.Fatal("LoadLayout() error = nil, want non-nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadLayout() error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadLayout_missingFile(t *testing.T) {
	if _, err := LoadLayout(filepath.Join(t.TempDir(), "nope.yaml"), 320, 240); err == nil {
		t.Error("LoadLayout(missing) error = nil, want non-nil")
	}
}
