// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/courtsched/internal/training"
)

// EnvPrefix prefixes every environment override, e.g. COURTSCHED_STORAGE_DB_PATH.
const EnvPrefix = "COURTSCHED"

// Bounds for schedule.slot_minutes and the grid --slot flag.
const (
	MinSlotMinutes = 5
	MaxSlotMinutes = 240
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule" envconfig:"schedule"`
	Storage  StorageConfig  `toml:"storage" envconfig:"storage"`
	Cache    CacheConfig    `toml:"cache" envconfig:"cache"`
	Log      LogConfig      `toml:"log" envconfig:"log"`
}

// ScheduleConfig holds grid and recurrence settings.
type ScheduleConfig struct {
	DefaultOpen  string `toml:"default_open" envconfig:"default_open"`   // grid start when no court day is open
	DefaultClose string `toml:"default_close" envconfig:"default_close"` // grid end when no court day is open
	SlotMinutes  int    `toml:"slot_minutes" envconfig:"slot_minutes"`   // grid row height
	MaxWeeks     int    `toml:"max_weeks" envconfig:"max_weeks"`         // upper bound for repeat --weeks
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path" envconfig:"db_path"`
}

// CacheConfig holds Redis settings. An empty address disables the cache.
type CacheConfig struct {
	RedisAddr     string `toml:"redis_addr" envconfig:"redis_addr"`
	RedisPassword string `toml:"redis_password" envconfig:"redis_password"`
	RedisDB       int    `toml:"redis_db" envconfig:"redis_db"`
	TTL           string `toml:"ttl" envconfig:"ttl"` // e.g. "10m"
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level" envconfig:"level"`   // debug, info, warn, error
	Format string `toml:"format" envconfig:"format"` // console or json
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			DefaultOpen:  training.FormatTime(training.DefaultWindow.Start),
			DefaultClose: training.FormatTime(training.DefaultWindow.End),
			SlotMinutes:  30,
			MaxWeeks:     52,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		Cache: CacheConfig{
			TTL: "10m",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "courtsched.db"
	}
	return filepath.Join(home, ".local", "share", "courtsched", "courtsched.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "courtsched", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies COURTSCHED_* environment variables on top of cfg.
// Unset variables leave the current value alone.
func applyEnvOverrides(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	open, err := training.ParseTime(c.Schedule.DefaultOpen)
	if err != nil {
		return fmt.Errorf("default_open: %w", err)
	}
	closing, err := parseClosing(c.Schedule.DefaultClose)
	if err != nil {
		return fmt.Errorf("default_close: %w", err)
	}
	if open >= closing {
		return errors.New("default_open must be before default_close")
	}
	if c.Schedule.SlotMinutes < MinSlotMinutes || c.Schedule.SlotMinutes > MaxSlotMinutes {
		return fmt.Errorf("slot_minutes must be between %d and %d, got %d",
			MinSlotMinutes, MaxSlotMinutes, c.Schedule.SlotMinutes)
	}
	if c.Schedule.MaxWeeks < 1 {
		return fmt.Errorf("max_weeks must be positive, got %d", c.Schedule.MaxWeeks)
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if c.Cache.RedisDB < 0 {
		return fmt.Errorf("redis_db must not be negative, got %d", c.Cache.RedisDB)
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if f := strings.ToLower(c.Log.Format); f != "console" && f != "json" {
		return fmt.Errorf("log format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// parseClosing accepts HH:MM and "24:00".
func parseClosing(s string) (int, error) {
	if s == "24:00" {
		return training.MinutesPerDay, nil
	}
	return training.ParseTime(s)
}

// DefaultWindow returns the configured fallback operating window.
// It assumes the config has been validated.
func (c *Config) DefaultWindow() training.Window {
	open, err := training.ParseTime(c.Schedule.DefaultOpen)
	if err != nil {
		return training.DefaultWindow
	}
	closing, err := parseClosing(c.Schedule.DefaultClose)
	if err != nil || closing <= open {
		return training.DefaultWindow
	}
	return training.Window{Start: open, End: closing}
}

// CacheEnabled reports whether a Redis address is configured.
func (c *Config) CacheEnabled() bool {
	return c.Cache.RedisAddr != ""
}

// CacheTTL parses the cache TTL.
func (c *Config) CacheTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, fmt.Errorf("cache ttl: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("cache ttl must be positive, got %s", c.Cache.TTL)
	}
	return d, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// The file may hold a Redis password.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
