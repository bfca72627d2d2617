// Package config defines process configuration and how it is loaded.
package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"
)

// Output formats understood by the renderer.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const maxPrecision = 10

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Output selects how results are printed: text, json or yaml.
	Output string `koanf:"output"`

	// Precision is the number of decimals shown for endpoint values in text output.
	Precision int `koanf:"precision"`

	// Color controls category colouring: auto, always or never.
	Color string `koanf:"color"`

	// Seed is the self-check run seed. Zero picks one from the clock.
	Seed int64 `koanf:"seed"`

	// Cases is the number of generated self-check cases per score.
	Cases int `koanf:"cases"`

	// Workers sets the number of self-check workers.
	Workers int `koanf:"workers"`

	// QueueSize bounds the self-check case queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize bounds the duplicate-case tracker.
	DedupeSize int `koanf:"dedupe_size"`

	// CheckOutput is the replay file written by a self-check run; empty disables it.
	CheckOutput string `koanf:"check_output"`

	// MetricsFile receives the Prometheus text exposition on exit; empty disables it.
	MetricsFile string `koanf:"metrics_file"`
}

// New returns a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:   "info",
		LogFormat:  OutputText,
		Output:     OutputText,
		Precision:  2,
		Color:      ColorAuto,
		Cases:      100,
		Workers:    runtime.NumCPU(),
		QueueSize:  1024,
		DedupeSize: 50_000,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	switch strings.ToLower(c.Output) {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("%w: output %q", ErrInvalidConfig, c.Output)
	}
	switch strings.ToLower(c.Color) {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: color %q", ErrInvalidConfig, c.Color)
	}
	if c.Precision < 0 || c.Precision > maxPrecision {
		return fmt.Errorf("%w: precision %d outside [0, %d]", ErrInvalidConfig, c.Precision, maxPrecision)
	}
	if c.Cases < 0 {
		return fmt.Errorf("%w: cases must not be negative", ErrInvalidConfig)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	return nil
}
