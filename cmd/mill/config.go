package main

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/ib-77/mill/pkg/mill"
	"github.com/ib-77/mill/pkg/mill/plain"
)

// Config declares a pipeline: which stock plugins to register and how to
// tune the plain family's compiler.
type Config struct {
	Plugins       []string       `yaml:"plugins"`
	Settings      map[string]any `yaml:"settings"`
	EOFNewline    bool           `yaml:"eof_newline"`
	LongLineLimit int            `yaml:"long_line_limit"`
}

// loadConfig reads a YAML pipeline config. A missing path yields an empty
// config.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}

// resolveConfig merges flag-supplied values over the file config.
func resolveConfig(path string, flags *Config) (*Config, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := mergo.Merge(cfg, flags, mergo.WithOverride); err != nil {
		return nil, err
	}
	return cfg, nil
}

// stockTransforms maps plugin names accepted in configs and requests to the
// plain family's stock transforms.
var stockTransforms = map[string]mill.Transform{
	"trim":    plain.TrimTrailingSpace,
	"squeeze": plain.SqueezeBlankLines,
	"upper":   plain.Uppercase,
}

// buildProcessor derives a fresh plain-family processor configured by cfg.
func buildProcessor(cfg *Config) (*mill.Processor, error) {
	proc := plain.New().NewProcessor()
	for _, name := range cfg.Plugins {
		t, ok := stockTransforms[name]
		if !ok {
			return nil, fmt.Errorf("unknown plugin %q", name)
		}
		proc.Use(t)
	}
	if cfg.LongLineLimit > 0 {
		proc.Use(plain.WarnLongLines(cfg.LongLineLimit))
	}
	if cfg.EOFNewline {
		proc.Compiler.Table["eofNewline"] = true
	}
	return proc, nil
}
