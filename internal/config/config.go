package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv       string
	LogLevel     slog.Level
	LogFile      string
	LogMaxSizeMB int

	SampleCapacity int
	SampleInterval time.Duration

	SensorDriver  string
	I2CBus        string
	BME280Address uint16
	SimSeed       int64
	SimFailEvery  int

	DisplayDriver string
	DisplayWidth  int
	DisplayHeight int
	PNGPath       string

	// DiagSQLitePath enables the read-failure journal when set.
	DiagSQLitePath string

	PanelLayoutFile string
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	logMaxSize, err := positiveInt("LOG_MAX_SIZE_MB", "10")
	if err != nil {
		return Config{}, err
	}

	capacity, err := positiveInt("SAMPLE_CAPACITY", "200")
	if err != nil {
		return Config{}, err
	}

	intervalStr := strings.TrimSpace(os.Getenv("SAMPLE_INTERVAL"))
	if intervalStr == "" {
		intervalStr = "2s"
	}
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid SAMPLE_INTERVAL %q: %w", intervalStr, err)
	}
	if interval <= 0 {
		return Config{}, fmt.Errorf("SAMPLE_INTERVAL must be positive, got %v", interval)
	}

	sensorDriver := strings.ToLower(strings.TrimSpace(os.Getenv("SENSOR_DRIVER")))
	if sensorDriver == "" {
		sensorDriver = "sim"
	}
	switch sensorDriver {
	case "sim", "bme280":
	default:
		return Config{}, fmt.Errorf("invalid SENSOR_DRIVER %q (allowed: sim, bme280)", sensorDriver)
	}

	bme280AddressStr := strings.TrimSpace(os.Getenv("BME280_ADDRESS"))
	if bme280AddressStr == "" {
		bme280AddressStr = "0x76"
	}
	bme280Address, err := strconv.ParseUint(bme280AddressStr, 0, 16)
	if err != nil {
		return Config{}, fmt.Errorf("invalid BME280_ADDRESS %q: %w", bme280AddressStr, err)
	}

	simSeedStr := strings.TrimSpace(os.Getenv("SIM_SEED"))
	if simSeedStr == "" {
		simSeedStr = "1"
	}
	simSeed, err := strconv.ParseInt(simSeedStr, 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("invalid SIM_SEED %q: %w", simSeedStr, err)
	}

	simFailEveryStr := strings.TrimSpace(os.Getenv("SIM_FAIL_EVERY"))
	if simFailEveryStr == "" {
		simFailEveryStr = "0"
	}
	simFailEvery, err := strconv.Atoi(simFailEveryStr)
	if err != nil || simFailEvery < 0 {
		return Config{}, fmt.Errorf("invalid SIM_FAIL_EVERY %q (want integer >= 0)", simFailEveryStr)
	}

	displayDriver := strings.ToLower(strings.TrimSpace(os.Getenv("DISPLAY_DRIVER")))
	if displayDriver == "" {
		displayDriver = "terminal"
	}
	switch displayDriver {
	case "terminal", "ssd1306", "png", "none":
	default:
		return Config{}, fmt.Errorf("invalid DISPLAY_DRIVER %q (allowed: terminal, ssd1306, png, none)", displayDriver)
	}

	defaultW, defaultH := "320", "240"
	if displayDriver == "ssd1306" {
		defaultW, defaultH = "128", "64"
	}
	width, err := positiveInt("DISPLAY_WIDTH", defaultW)
	if err != nil {
		return Config{}, err
	}
	height, err := positiveInt("DISPLAY_HEIGHT", defaultH)
	if err != nil {
		return Config{}, err
	}

	// the terminal simulator owns stdout, so logs need a file
	logFile := strings.TrimSpace(os.Getenv("LOG_FILE"))
	if logFile == "" && displayDriver == "terminal" {
		logFile = "panel.log"
	}

	pngPath := strings.TrimSpace(os.Getenv("PNG_PATH"))
	if pngPath == "" {
		pngPath = "panel.png"
	}

	return Config{
		AppEnv:          appEnv,
		LogLevel:        level,
		LogFile:         logFile,
		LogMaxSizeMB:    logMaxSize,
		SampleCapacity:  capacity,
		SampleInterval:  interval,
		SensorDriver:    sensorDriver,
		I2CBus:          strings.TrimSpace(os.Getenv("I2C_BUS")),
		BME280Address:   uint16(bme280Address),
		SimSeed:         simSeed,
		SimFailEvery:    simFailEvery,
		DisplayDriver:   displayDriver,
		DisplayWidth:    width,
		DisplayHeight:   height,
		PNGPath:         pngPath,
		DiagSQLitePath:  strings.TrimSpace(os.Getenv("DIAG_SQLITE_PATH")),
		PanelLayoutFile: strings.TrimSpace(os.Getenv("PANEL_LAYOUT_FILE")),
	}, nil
}

func positiveInt(key, def string) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		s = def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
