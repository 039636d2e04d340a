// Package config holds rmviz runtime settings: defaults, an optional YAML file and RMVIZ_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"

	"github.com/iafilius/ResourceMonitorViz/src/analysis"
	"github.com/iafilius/ResourceMonitorViz/src/charts"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "RMVIZ_"

type Config struct {
	OutputDir string `yaml:"output_dir" env:"OUTPUT_DIR"`
	// DataDir is where batch mode looks for experiment exports.
	DataDir       string      `yaml:"data_dir" env:"DATA_DIR"`
	LogLevel      string      `yaml:"log_level" env:"LOG_LEVEL"`
	LogFile       string      `yaml:"log_file" env:"LOG_FILE"`
	MemoryLimitMB float64     `yaml:"memory_limit_mb" env:"MEMORY_LIMIT_MB"`
	MetricsFile   string      `yaml:"metrics_file" env:"METRICS_FILE"`
	Chart         ChartConfig `yaml:"chart" envPrefix:"CHART_"`
}

type ChartConfig struct {
	Width   int  `yaml:"width" env:"WIDTH"`
	Height  int  `yaml:"height" env:"HEIGHT"`
	NoHints bool `yaml:"no_hints" env:"NO_HINTS"`
}

// Load reads the YAML file at path (skipped when empty), overlays RMVIZ_* variables from
// environ (the process environment when nil), then fills defaults and validates.
func Load(path string, environ map[string]string) (*Config, error) {
	var cfg Config
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.Parse(&cfg, opts); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = "output/graphs"
	}
	if c.DataDir == "" {
		c.DataDir = "output"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.MemoryLimitMB == 0 {
		c.MemoryLimitMB = analysis.DefaultMemoryLimitMB
	}
	if c.Chart.Width == 0 {
		c.Chart.Width = charts.DefaultWidth
	}
	if c.Chart.Height == 0 {
		c.Chart.Height = charts.DefaultHeight
	}
}

// Validate rejects settings no run could use. Callers that change fields after Load
// (command-line flags) should validate again.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level %q: want debug, info, warn or error", c.LogLevel)
	}
	if c.MemoryLimitMB < 0 {
		return fmt.Errorf("memory_limit_mb must be positive, got %v", c.MemoryLimitMB)
	}
	if c.Chart.Width < 200 || c.Chart.Height < 150 {
		return fmt.Errorf("chart size %dx%d is too small (min 200x150)", c.Chart.Width, c.Chart.Height)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	return nil
}
