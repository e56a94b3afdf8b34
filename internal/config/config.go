// Package config loads vscroll settings from YAML files and the environment.
//
// Precedence, lowest to highest: built-in defaults, the global file
// (~/.vscroll/config.yaml or --config), a project overlay (.vscroll.yaml in the
// working directory or its nearest ancestor, merged per top-level section),
// VSCROLL_* environment variables, then CLI flags applied by the caller. Invalid values are clamped by
// Normalize rather than rejected.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/vscroll/internal/activity"
	"github.com/rshade/vscroll/internal/virtualizer"
	"github.com/rshade/vscroll/internal/window"
)

// Environment variables that override file settings.
const (
	EnvConfigPath     = "VSCROLL_CONFIG"
	EnvItemHeight     = "VSCROLL_ITEM_HEIGHT"
	EnvOverscan       = "VSCROLL_OVERSCAN"
	EnvScrollDebounce = "VSCROLL_SCROLL_DEBOUNCE"
	EnvLogLevel       = "VSCROLL_LOG_LEVEL"
	EnvLogFormat      = "VSCROLL_LOG_FORMAT"
)

// ProjectFileName is the overlay file looked up in the working directory.
const ProjectFileName = ".vscroll.yaml"

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config is the full vscroll configuration.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds the windowing defaults.
type WindowConfig struct {
	// ItemHeight is the default item height.
	ItemHeight float64 `yaml:"item_height"`

	// Overscan is the number of extra items rendered above and below the viewport.
	Overscan int `yaml:"overscan"`

	// ScrollDebounce is the quiet period before scrolling is considered finished.
	ScrollDebounce time.Duration `yaml:"scroll_debounce"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Window: WindowConfig{
			ItemHeight:     window.DefaultItemHeight,
			Overscan:       virtualizer.DefaultOverscan,
			ScrollDebounce: activity.DefaultQuietPeriod,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: FormatConsole,
		},
	}
}

// DefaultPath returns ~/.vscroll/config.yaml, or "" if the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vscroll", "config.yaml")
}

// Load reads the configuration at path on top of the defaults.
//
// An empty path means DefaultPath; a missing default file is not an error but
// a missing explicit file is.
func Load(path string) (*Config, error) {
	cfg := New()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadWithProject loads the global config and merges dir/.vscroll.yaml on top
// when it exists.
func LoadWithProject(path, dir string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return cfg, nil
	}

	overlay := filepath.Join(dir, ProjectFileName)
	if _, statErr := os.Stat(overlay); statErr != nil {
		return cfg, nil
	}
	if err = ShallowMergeYAML(cfg, overlay); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables. Unparseable values
// are skipped and reported in the returned list.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) []string {
	var skipped []string

	if v, ok := lookupEnv(EnvItemHeight); ok && v != "" {
		if h, err := strconv.ParseFloat(v, 64); err == nil {
			c.Window.ItemHeight = h
		} else {
			skipped = append(skipped, EnvItemHeight)
		}
	}
	if v, ok := lookupEnv(EnvOverscan); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Window.Overscan = n
		} else {
			skipped = append(skipped, EnvOverscan)
		}
	}
	if v, ok := lookupEnv(EnvScrollDebounce); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Window.ScrollDebounce = d
		} else {
			skipped = append(skipped, EnvScrollDebounce)
		}
	}
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}

	return skipped
}

// Normalize clamps invalid settings to safe values and describes each change.
func (c *Config) Normalize() []string {
	var notes []string

	if c.Window.ItemHeight <= 0 {
		notes = append(notes, fmt.Sprintf("item_height %v replaced with %d", c.Window.ItemHeight, window.DefaultItemHeight))
		c.Window.ItemHeight = window.DefaultItemHeight
	}
	if c.Window.Overscan < 0 {
		notes = append(notes, fmt.Sprintf("overscan %d clamped to 0", c.Window.Overscan))
		c.Window.Overscan = 0
	}
	if c.Window.ScrollDebounce <= 0 {
		notes = append(notes, fmt.Sprintf("scroll_debounce %s replaced with %s", c.Window.ScrollDebounce, activity.DefaultQuietPeriod))
		c.Window.ScrollDebounce = activity.DefaultQuietPeriod
	}
	if c.Logging.Format != FormatConsole && c.Logging.Format != FormatJSON {
		notes = append(notes, fmt.Sprintf("log format %q replaced with %q", c.Logging.Format, FormatConsole))
		c.Logging.Format = FormatConsole
	}

	return notes
}

// VirtualizerOptions converts the window settings into virtualizer options.
func (c *Config) VirtualizerOptions() virtualizer.Options {
	return virtualizer.Options{
		DefaultHeight:  c.Window.ItemHeight,
		Overscan:       c.Window.Overscan,
		ScrollDebounce: c.Window.ScrollDebounce,
	}
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
