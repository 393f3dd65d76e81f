package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from files and environment variables.
	// Priority: defaults → user file → project file → environment (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
	homeDir string
	file    string
}

// LoaderOption customizes a Loader.
type LoaderOption func(*loader)

// WithFile reads exactly the given file instead of searching the user and
// project directories. The file must exist.
func WithFile(path string) LoaderOption {
	return func(l *loader) { l.file = path }
}

// WithHomeDir overrides where the user config is looked up.
func WithHomeDir(dir string) LoaderOption {
	return func(l *loader) { l.homeDir = dir }
}

// NewLoader creates a new configuration loader for the given project root.
func NewLoader(rootDir string, opts ...LoaderOption) Loader {
	l := &loader{rootDir: rootDir}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (CODEFOLD_*)
// 2. Project config (.codefold/config.yml or .codefold/config.yaml)
// 3. User config (~/.codefold/config.yml)
// 4. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// CODEFOLD_BACKEND_KIND -> backend.kind
	v.SetEnvPrefix("CODEFOLD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnvVars(v)

	setDefaults(v)

	if l.file != "" {
		v.SetConfigFile(l.file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		home := l.homeDir
		if home == "" {
			// No home directory just means no user layer.
			home, _ = os.UserHomeDir()
		}
		if home != "" {
			if err := mergeDir(v, filepath.Join(home, DirName)); err != nil {
				return nil, err
			}
		}
		if err := mergeDir(v, filepath.Join(l.rootDir, DirName)); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// mergeDir layers dir/config.yml (or config.yaml) over what v already holds.
// A directory without a config file is not an error.
func mergeDir(v *viper.Viper, dir string) error {
	for _, name := range []string{"config.yml", "config.yaml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to stat config file: %w", err)
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}
	return nil
}

// bindEnvVars binds all environment variables to config keys.
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("render.tab_width")

	v.BindEnv("backend.kind")
	v.BindEnv("backend.endpoint")
	v.BindEnv("backend.timeout")

	v.BindEnv("cache.max_entries")
	v.BindEnv("cache.ttl")

	v.BindEnv("paths.include")
	v.BindEnv("paths.ignore")

	v.BindEnv("watch.debounce")

	v.BindEnv("log.level")
	v.BindEnv("jobs")
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("render.tab_width", defaults.Render.TabWidth)

	v.SetDefault("backend.kind", defaults.Backend.Kind)
	v.SetDefault("backend.endpoint", defaults.Backend.Endpoint)
	v.SetDefault("backend.timeout", defaults.Backend.Timeout)

	v.SetDefault("cache.max_entries", defaults.Cache.MaxEntries)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)

	v.SetDefault("paths.include", defaults.Paths.Include)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	v.SetDefault("watch.debounce", defaults.Watch.Debounce)

	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("jobs", defaults.Jobs)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
