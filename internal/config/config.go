package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for hcal, stored in ~/.hcal/config.yaml.
// Every key can be overridden with an HCAL_ environment variable, e.g.
// HCAL_BACKEND=remote or HCAL_REMOTE_URL=https://...
type Config struct {
	// Backend selects where entries live: "local" (SQLite) or "remote".
	Backend string `mapstructure:"backend"`
	// DataDir holds the database and the session file.
	DataDir string `mapstructure:"data_dir"`
	// Timezone is the IANA zone days are counted in. Empty = system zone.
	Timezone string `mapstructure:"timezone"`
	// Theme is "light", "dark" or "system".
	Theme    string `mapstructure:"theme"`
	LogLevel string `mapstructure:"log_level"`

	Notifications NotificationsConfig `mapstructure:"notifications"`
	Remote        RemoteConfig        `mapstructure:"remote"`
	Reminder      ReminderConfig      `mapstructure:"reminder"`

	path string
}

// NotificationsConfig controls desktop notifications.
type NotificationsConfig struct {
	Desktop bool `mapstructure:"desktop"`
}

// RemoteConfig locates the hosted backend.
type RemoteConfig struct {
	URL      string        `mapstructure:"url"`
	APIKey   string        `mapstructure:"api_key"`
	ClientID string        `mapstructure:"client_id"`
	TokenURL string        `mapstructure:"token_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ReminderConfig drives `hcal remind`.
type ReminderConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Schedule is a five-field cron expression.
	Schedule string `mapstructure:"schedule"`
	TimeZone string `mapstructure:"time_zone"`
}

const (
	BackendLocal  = "local"
	BackendRemote = "remote"

	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"

	DefaultSchedule = "0 18 * * 1-5"
	DefaultTimeout  = 15 * time.Second
)

// Default returns a Config pre-filled with defaults. DataDir is left empty
// and resolved by Normalize.
func Default() Config {
	return Config{
		Backend:  BackendLocal,
		Theme:    ThemeSystem,
		LogLevel: "warn",
		Remote:   RemoteConfig{Timeout: DefaultTimeout},
		Reminder: ReminderConfig{Enabled: true, Schedule: DefaultSchedule},
	}
}

// configTemplate is the annotated config written on first run.
const configTemplate = `# hcal configuration
#
# All settings are optional; the defaults below work out of the box with a
# local database. Any key can be overridden with an HCAL_ environment
# variable, e.g. HCAL_BACKEND=remote or HCAL_REMOTE_API_KEY=...

# Where entries are stored: "local" (SQLite in data_dir) or "remote".
backend: local

# Directory for the database and the session file. Empty = ~/.hcal
data_dir: ""

# IANA timezone days are counted in, e.g. "Europe/Berlin". Empty = system zone.
timezone: ""

# Calendar colours: "light", "dark" or "system" (detect from the terminal).
theme: system

# debug, info, warn or error. --verbose forces debug.
log_level: warn

notifications:
  # Also show failures and reminders as desktop notifications.
  desktop: false

# Hosted backend, used when backend is "remote".
remote:
  url: ""
  api_key: ""
  client_id: ""
  # Token endpoint. Empty = <url>/auth/v1/token
  token_url: ""
  timeout: 15s

# hcal remind: notify when today has no entry yet.
reminder:
  enabled: true
  # Cron expression (minute hour day-of-month month day-of-week).
  schedule: "0 18 * * 1-5"
  # Zone the schedule runs in. Empty = timezone above.
  time_zone: ""
`

// BaseDir returns the default data directory (~/.hcal).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".hcal"), nil
}

// DefaultPath returns ~/.hcal/config.yaml, or $HCAL_CONFIG when set.
func DefaultPath() (string, error) {
	if p := os.Getenv("HCAL_CONFIG"); p != "" {
		return p, nil
	}
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the config at path (DefaultPath when empty), creating it with
// annotated defaults on first run, applies HCAL_ overrides and normalises
// the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	cfg.path = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvPrefix("HCAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("backend", cfg.Backend)
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("timezone", cfg.Timezone)
	v.SetDefault("theme", cfg.Theme)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("notifications.desktop", cfg.Notifications.Desktop)
	v.SetDefault("remote.url", cfg.Remote.URL)
	v.SetDefault("remote.api_key", cfg.Remote.APIKey)
	v.SetDefault("remote.client_id", cfg.Remote.ClientID)
	v.SetDefault("remote.token_url", cfg.Remote.TokenURL)
	v.SetDefault("remote.timeout", cfg.Remote.Timeout)
	v.SetDefault("reminder.enabled", cfg.Reminder.Enabled)
	v.SetDefault("reminder.schedule", cfg.Reminder.Schedule)
	v.SetDefault("reminder.time_zone", cfg.Reminder.TimeZone)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config unmarshal: %w", err)
	}
	if err := cfg.Normalize(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the file the config was loaded from.
func (c Config) Path() string { return c.path }

// Normalize trims and lower-cases enumerations, fills empty fields with
// defaults and rejects values nothing can be done with.
func (c *Config) Normalize() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = BackendLocal
	}
	if c.Backend != BackendLocal && c.Backend != BackendRemote {
		return fmt.Errorf("backend must be %q or %q, got %q", BackendLocal, BackendRemote, c.Backend)
	}

	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	switch c.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		c.Theme = ThemeSystem
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}

	c.DataDir = strings.TrimSpace(c.DataDir)
	if c.DataDir == "" {
		base, err := BaseDir()
		if err != nil {
			return err
		}
		c.DataDir = base
	} else if strings.HasPrefix(c.DataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		c.DataDir = filepath.Join(home, c.DataDir[2:])
	}

	c.Remote.URL = strings.TrimRight(strings.TrimSpace(c.Remote.URL), "/")
	if c.Remote.Timeout <= 0 {
		c.Remote.Timeout = DefaultTimeout
	}
	if c.Backend == BackendRemote && c.Remote.URL == "" {
		return errors.New("remote.url is required when backend is remote")
	}

	c.Reminder.Schedule = strings.TrimSpace(c.Reminder.Schedule)
	if c.Reminder.Schedule == "" {
		c.Reminder.Schedule = DefaultSchedule
	}
	return nil
}

// Location resolves Timezone, falling back to the system zone.
func (c Config) Location() *time.Location {
	return location(c.Timezone, time.Local)
}

// ReminderLocation resolves the reminder zone, falling back to Location.
func (c Config) ReminderLocation() *time.Location {
	return location(c.Reminder.TimeZone, c.Location())
}

func location(tz string, fallback *time.Location) *time.Location {
	if tz = strings.TrimSpace(tz); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return fallback
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
