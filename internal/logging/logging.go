// Package logging builds the zap loggers used by the tnetstring command.
// The library itself never logs.
package logging

import (
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	EnvLogLevel     = "TNETSTRING_LOG_LEVEL"
	EnvLogFormat    = "TNETSTRING_LOG_FORMAT"
	EnvLogTimestamp = "TNETSTRING_LOG_TIMESTAMP"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Config selects level, encoding and whether entries carry a timestamp.
// Disabled suppresses all output.
type Config struct {
	Level     zapcore.Level
	Format    string // "console" or "json"
	Timestamp bool
	Disabled  bool
}

func DefaultConfig(profile Profile) Config {
	switch profile {
	case ProfileTest:
		return Config{Level: zapcore.DebugLevel, Format: "console", Timestamp: false}
	default:
		return Config{Level: zapcore.WarnLevel, Format: "console", Timestamp: true}
	}
}

// ApplyEnv overrides cfg from environment variables read through getenv.
// Unparseable values are ignored.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if raw := getenv(EnvLogLevel); raw != "" {
		if lvl, disabled, ok := ParseLevel(raw); ok {
			cfg.Level = lvl
			cfg.Disabled = disabled
		}
	}
	if f, ok := parseFormat(getenv(EnvLogFormat)); ok {
		cfg.Format = f
	}
	if v, ok := parseBool(getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
}

// ParseLevel maps a level name to a zap level.  disabled is true for the
// "off" family of names.
func ParseLevel(raw string) (lvl zapcore.Level, disabled bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug", "trace":
		return zapcore.DebugLevel, false, true
	case "info":
		return zapcore.InfoLevel, false, true
	case "warn", "warning":
		return zapcore.WarnLevel, false, true
	case "error":
		return zapcore.ErrorLevel, false, true
	case "disabled", "disable", "off", "none":
		return zapcore.InfoLevel, true, true
	default:
		return zapcore.InfoLevel, false, false
	}
}

func parseFormat(raw string) (string, bool) {
	switch f := strings.ToLower(strings.TrimSpace(raw)); f {
	case "console", "json":
		return f, true
	}
	return "", false
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// New builds a logger writing to w.
func New(cfg Config, w io.Writer) *zap.Logger {
	if cfg.Disabled {
		return zap.NewNop()
	}

	var encCfg zapcore.EncoderConfig
	if cfg.Format == "json" {
		encCfg = zap.NewProductionEncoderConfig()
	} else {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	if cfg.Timestamp {
		encCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	} else {
		encCfg.TimeKey = ""
	}

	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(cfg.Level))
	return zap.New(core)
}
