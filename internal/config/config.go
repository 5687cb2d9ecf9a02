// Package config reads sprint.yaml, the per-project settings file.
// A missing file is not an error: every setting has a default.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file looked up in the working directory.
	FileName = "sprint.yaml"

	// StoreEnv overrides the store location from the file.
	StoreEnv = "SPRINT_STORE"

	defaultStore = ".sprint"
	defaultTheme = "classic"
	defaultLevel = "info"
)

const defaultConfigYAML = `# sprint configuration
version: 1

# Where people, work items and the sprint length are kept.
# A directory, or an afs URL such as file:///path or mem://localhost/sprint.
store: .sprint

# classic | neon | mono
theme: classic

log:
  # Empty disables logging.
  path: .sprint/sprint.log
  # debug | info | warn | error
  level: info
`

// Themes lists the accepted theme names.
var Themes = []string{"classic", "neon", "mono"}

var levels = []string{"debug", "info", "warn", "error"}

// ThemeName normalizes a theme name and reports whether it is one of Themes.
func ThemeName(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	return name, contains(Themes, name)
}

// LogConfig controls the log file.
type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// Config models sprint.yaml.
type Config struct {
	Version int       `yaml:"version"`
	Store   string    `yaml:"store"`
	Theme   string    `yaml:"theme"`
	Log     LogConfig `yaml:"log"`
}

// Default returns the settings used when there is no file, with paths
// resolved against base.
func Default(base string) Config {
	c := Config{
		Version: 1,
		Store:   defaultStore,
		Theme:   defaultTheme,
		Log: LogConfig{
			Path:  filepath.Join(defaultStore, "sprint.log"),
			Level: defaultLevel,
		},
	}
	c.normalize(base)
	return c
}

// Load reads the file at path. Relative paths inside it are resolved
// against the file's directory, and StoreEnv wins over the store setting.
func Load(path string) (Config, error) {
	base := filepath.Dir(path)
	cfg := Default(base)

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	default:
		var parsed Config
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		parsed.applyDefaults()
		parsed.normalize(base)
		cfg = parsed
	}

	if env := strings.TrimSpace(os.Getenv(StoreEnv)); env != "" {
		cfg.Store = resolveStore(base, env)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Ensure writes a commented default file at path unless one exists.
// created reports whether a file was written.
func Ensure(path string) (created bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0644); err != nil {
		return false, fmt.Errorf("config: write %s: %w", path, err)
	}
	return true, nil
}

func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if strings.TrimSpace(c.Store) == "" {
		c.Store = defaultStore
	}
	if strings.TrimSpace(c.Theme) == "" {
		c.Theme = defaultTheme
	}
	if strings.TrimSpace(c.Log.Level) == "" {
		c.Log.Level = defaultLevel
	}
}

func (c *Config) normalize(base string) {
	c.Store = resolveStore(base, c.Store)
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Path = resolvePath(base, c.Log.Path)
}

func (c Config) validate() error {
	if c.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if c.Store == "" {
		return fmt.Errorf("store is required")
	}
	if !contains(Themes, c.Theme) {
		return fmt.Errorf("theme must be one of %s", strings.Join(Themes, ", "))
	}
	if !contains(levels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of %s", strings.Join(levels, ", "))
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// resolveStore leaves URLs alone and treats everything else as a path.
func resolveStore(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if strings.Contains(trimmed, "://") {
		return trimmed
	}
	return resolvePath(base, trimmed)
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}
