package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nmandery/tnetstring"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.InputFormat != "json" || cfg.OutputFormat != "json" {
		t.Fatalf("unexpected default formats: %q/%q", cfg.InputFormat, cfg.OutputFormat)
	}
	if cfg.MaxDepth != tnetstring.DefaultMaxDepth {
		t.Fatalf("unexpected default max depth: %d", cfg.MaxDepth)
	}
	if cfg.LenientNull {
		t.Fatalf("expected strict null by default")
	}
}

func TestLoadConfigDefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
input_format = "YAML"
max_depth = 16
lenient_null = true
log_level = "debug"
log_format = "json"
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.InputFormat != "yaml" {
		t.Fatalf("unexpected input format: %q", cfg.InputFormat)
	}
	if cfg.OutputFormat != "json" {
		t.Fatalf("output format should keep its default, got %q", cfg.OutputFormat)
	}
	if cfg.MaxDepth != 16 || !cfg.LenientNull {
		t.Fatalf("unexpected decoder settings: %+v", cfg)
	}
	if cfg.Log.Level != zapcore.DebugLevel || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log settings: %+v", cfg.Log)
	}
	d := cfg.decoder()
	if d.MaxDepth != 16 || !d.LenientNull {
		t.Fatalf("decoder not configured: %+v", d)
	}
	if cfg.encoder().MaxDepth != 16 {
		t.Fatalf("encoder not configured")
	}
}

func TestLoadConfigLogOff(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, `log_level = "off"`))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.Log.Disabled || logLevelName(cfg) != "off" {
		t.Fatalf("expected logging disabled: %+v", cfg.Log)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"format":      `input_format = "xml"`,
		"depth":       `max_depth = 0`,
		"log_level":   `log_level = "loud"`,
		"log_format":  `log_format = "logfmt"`,
		"unknown_key": `colour = "blue"`,
		"syntax":      `input_format = `,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := loadConfig(writeConfig(t, content)); err == nil {
				t.Fatalf("expected error for %s", content)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
