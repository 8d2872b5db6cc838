package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nmandery/tnetstring"
	"github.com/nmandery/tnetstring/internal/logging"
)

// config.toml key mapping to command settings.
type fileConfig struct {
	InputFormat  string `toml:"input_format"`
	OutputFormat string `toml:"output_format"`
	MaxDepth     int    `toml:"max_depth"`
	LenientNull  bool   `toml:"lenient_null"`
	LogLevel     string `toml:"log_level"`
	LogFormat    string `toml:"log_format"`
}

type config struct {
	InputFormat  string
	OutputFormat string
	MaxDepth     int
	LenientNull  bool
	Log          logging.Config
}

func defaultConfig() config {
	return config{
		InputFormat:  "json",
		OutputFormat: "json",
		MaxDepth:     tnetstring.DefaultMaxDepth,
		Log:          logging.DefaultConfig(logging.ProfileRuntime),
	}
}

func (c config) decoder() tnetstring.Decoder {
	return tnetstring.Decoder{MaxDepth: c.MaxDepth, LenientNull: c.LenientNull}
}

func (c config) encoder() tnetstring.Encoder {
	return tnetstring.Encoder{MaxDepth: c.MaxDepth}
}

// loadConfig overlays the TOML file at path onto the defaults.  An empty
// path yields the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("input_format") {
		cfg.InputFormat = strings.ToLower(strings.TrimSpace(raw.InputFormat))
	}
	if meta.IsDefined("output_format") {
		cfg.OutputFormat = strings.ToLower(strings.TrimSpace(raw.OutputFormat))
	}
	if meta.IsDefined("max_depth") {
		cfg.MaxDepth = raw.MaxDepth
	}
	if meta.IsDefined("lenient_null") {
		cfg.LenientNull = raw.LenientNull
	}
	if meta.IsDefined("log_level") {
		lvl, disabled, ok := logging.ParseLevel(raw.LogLevel)
		if !ok {
			return config{}, fmt.Errorf("load config: unsupported log_level %q", raw.LogLevel)
		}
		cfg.Log.Level = lvl
		cfg.Log.Disabled = disabled
	}
	if meta.IsDefined("log_format") {
		cfg.Log.Format = strings.ToLower(strings.TrimSpace(raw.LogFormat))
	}

	if err := cfg.validate(); err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c config) validate() error {
	if !isDocFormat(c.InputFormat) {
		return fmt.Errorf("unsupported input_format %q (expected json or yaml)", c.InputFormat)
	}
	if !isDocFormat(c.OutputFormat) {
		return fmt.Errorf("unsupported output_format %q (expected json or yaml)", c.OutputFormat)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("unsupported log_format %q (expected console or json)", c.Log.Format)
	}
	return nil
}

func isDocFormat(f string) bool {
	return f == "json" || f == "yaml"
}

// logLevelName is used in the startup log line.
func logLevelName(c config) string {
	if c.Log.Disabled {
		return "off"
	}
	return c.Log.Level.String()
}
