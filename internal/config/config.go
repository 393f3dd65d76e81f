// Package config loads codefold settings.
//
// Settings come from three layers, highest priority first:
//
//  1. Environment variables (CODEFOLD_*, nested keys joined by "_")
//  2. Project config (.codefold/config.yml in the project root)
//  3. User config (~/.codefold/config.yml)
//
// Anything left unset falls back to Default().
package config

import (
	"time"

	"github.com/mvp-joe/codefold/internal/tokens"
)

// DirName is the per-project and per-user settings directory.
const DirName = ".codefold"

// Backend kinds accepted in backend.kind.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Config represents the complete codefold configuration.
type Config struct {
	Render  RenderConfig  `yaml:"render" mapstructure:"render"`
	Backend BackendConfig `yaml:"backend" mapstructure:"backend"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Jobs    int           `yaml:"jobs" mapstructure:"jobs"` // files analyzed in parallel
}

// RenderConfig controls token line rendering.
type RenderConfig struct {
	TabWidth int `yaml:"tab_width" mapstructure:"tab_width"` // spaces per leading tab
}

// BackendConfig selects the parse backend.
type BackendConfig struct {
	Kind     string        `yaml:"kind" mapstructure:"kind"`         // "local" or "remote"
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint"` // remote tree service base URL
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`   // per-file deadline
}

// CacheConfig sizes the in-memory analysis cache.
type CacheConfig struct {
	MaxEntries int           `yaml:"max_entries" mapstructure:"max_entries"`
	TTL        time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// PathsConfig picks files when a directory is analyzed.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns; empty means every supported file
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"` // quiet period before re-analysis
}

// LogConfig configures the default logger.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			TabWidth: tokens.DefaultTabWidth,
		},
		Backend: BackendConfig{
			Kind:    BackendLocal,
			Timeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			MaxEntries: 256,
			TTL:        30 * time.Minute,
		},
		Paths: PathsConfig{
			Include: []string{},
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				"dist/**",
				"build/**",
				"target/**",
				"__pycache__/**",
				"**/*.min.js",
			},
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
		Jobs: 4,
	}
}
