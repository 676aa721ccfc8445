// Package config reads the optional config.toml next to the store.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/julianstephens/recall/internal/calendar"
	"github.com/julianstephens/recall/internal/constants"
	"github.com/julianstephens/recall/internal/utils"
)

// Config represents the application configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
	Export  ExportConfig  `toml:"export"`
	TUI     TUIConfig     `toml:"tui"`
	Notify  NotifyConfig  `toml:"notify"`
}

// StorageConfig selects the store. Path is a SQLite file (default), a .json
// file, or a PostgreSQL URL without credentials.
type StorageConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Debug bool   `toml:"debug"`
	Level string `toml:"level"` // debug, info, warn, error
	JSON  bool   `toml:"json"`
}

type ExportConfig struct {
	DayStart        string `toml:"day_start"` // HH:MM
	IncludeBreak    bool   `toml:"include_break"`
	BreakMinutes    int    `toml:"break_minutes"`
	ReminderMinutes int    `toml:"reminder_minutes"`
}

type TUIConfig struct {
	Watch        bool   `toml:"watch"`    // reload when the store file changes
	Debounce     string `toml:"debounce"` // e.g. "150ms"
	UpcomingDays int    `toml:"upcoming_days"`
}

// NotifyConfig controls the due-review reminder sent to recall-tray.
type NotifyConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path: constants.DefaultConfigPath,
		},
		Log: LogConfig{
			Level: "info",
		},
		Export: ExportConfig{
			DayStart:        constants.DefaultExportDayStart,
			IncludeBreak:    true,
			BreakMinutes:    constants.DefaultExportBreakMin,
			ReminderMinutes: constants.DefaultReminderLeadMin,
		},
		TUI: TUIConfig{
			Watch:        true,
			Debounce:     "150ms",
			UpcomingDays: 7,
		},
		Notify: NotifyConfig{
			Enabled: true,
		},
	}
}

// DefaultPath returns ~/.config/recall/config.toml, expanded.
func DefaultPath() (string, error) {
	dir, err := utils.ExpandPath(constants.DefaultAppConfigDir)
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(dir, constants.AppConfigFileName), nil
}

// Load reads the configuration from path. A missing file yields the
// defaults; keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return fmt.Errorf("storage path cannot be empty")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if !utils.ValidateTimeFormat(c.Export.DayStart) {
		return fmt.Errorf("invalid export day_start %q (expected HH:MM)", c.Export.DayStart)
	}
	if c.Export.BreakMinutes < 0 {
		return fmt.Errorf("break minutes cannot be negative: %d", c.Export.BreakMinutes)
	}
	if c.Export.ReminderMinutes < 0 {
		return fmt.Errorf("reminder minutes cannot be negative: %d", c.Export.ReminderMinutes)
	}
	if _, err := time.ParseDuration(c.TUI.Debounce); err != nil {
		return fmt.Errorf("invalid tui debounce %q: %w", c.TUI.Debounce, err)
	}
	if c.TUI.UpcomingDays < 1 {
		return fmt.Errorf("upcoming days must be at least 1: %d", c.TUI.UpcomingDays)
	}
	return nil
}

// GetDebounce returns the TUI reload debounce as a duration.
func (c *Config) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.TUI.Debounce)
	if err != nil {
		return 150 * time.Millisecond
	}
	return d
}

// ExportOptions seeds calendar options from the [export] table.
func (c *Config) ExportOptions() calendar.Options {
	return calendar.Options{
		DayStart:        c.Export.DayStart,
		IncludeBreak:    c.Export.IncludeBreak,
		BreakMinutes:    c.Export.BreakMinutes,
		ReminderMinutes: c.Export.ReminderMinutes,
	}
}
