// Package config loads gymbot settings from environment variables and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adhocore/gronx"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/jdelaire/gymbot/internal/keychain"
)

const (
	maxConfigFileSize = 1024 * 1024

	// Fixed offsets in use range from UTC-12:00 to UTC+14:00.
	minOffsetMinutes = -12 * 60
	maxOffsetMinutes = 14 * 60
)

// Allow-list sources, reported for logging.
const (
	SourceConfig   = "config"
	SourceKeychain = "keychain"
	SourceNone     = "none"
)

// Config holds every runtime setting. Keys match the environment variable
// names lowercased; the YAML file uses the same keys.
type Config struct {
	AllowedNumbers     string `koanf:"allowed_numbers"`
	AllowlistFile      string `koanf:"allowlist_file"`
	CommandPrefix      string `koanf:"command_prefix"`
	TimezoneOffset     int    `koanf:"user_timezone_offset"`
	WorkoutListLimit   int    `koanf:"workout_list_limit"`
	FeatureWorkout     bool   `koanf:"feature_workout"`
	FeatureTodo        bool   `koanf:"feature_todo"`
	FeatureReminder    bool   `koanf:"feature_reminder"`
	FeatureSystem      bool   `koanf:"feature_system"`
	ReminderSchedule   string `koanf:"reminder_schedule"`
	DataDir            string `koanf:"data_dir"`
	RailwayVolume      string `koanf:"railway_volume_mount_path"`
	RateLimitPerMinute int    `koanf:"rate_limit_per_minute"`
	MetricsAddr        string `koanf:"metrics_addr"`
	Debug              bool   `koanf:"debug"`
	LogFormat          string `koanf:"log_format"`

	// AllowlistSource records where AllowedNumbers came from.
	AllowlistSource string `koanf:"-"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		CommandPrefix:    "#",
		TimezoneOffset:   420,
		WorkoutListLimit: 10,
		FeatureWorkout:   true,
		FeatureSystem:    true,
		ReminderSchedule: "0 6 * * *",
		LogFormat:        "console",
	}
}

// SecretLookup fetches a stored secret by account name.
type SecretLookup func(account string) (string, error)

type options struct {
	secrets SecretLookup
}

// Option customizes Load.
type Option func(*options)

// WithSecretLookup replaces the system keychain (for testing).
func WithSecretLookup(fn SecretLookup) Option {
	return func(o *options) { o.secrets = fn }
}

// Load reads configuration. Precedence, highest first: environment, the YAML
// file at configPath (or CONFIG_FILE), the keychain for the allow-list, then
// defaults.
func Load(configPath string, opts ...Option) (*Config, error) {
	o := options{secrets: keychain.Lookup}
	for _, opt := range opts {
		opt(&o)
	}

	k := koanf.New(".")

	if configPath == "" {
		configPath = os.Getenv("CONFIG_FILE")
	}
	if configPath != "" {
		content, err := readConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.CommandPrefix = strings.TrimSpace(cfg.CommandPrefix)
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.resolveAllowlist(o.secrets)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// envKey maps ALLOWED_NUMBERS to allowed_numbers. Variables that are set
// but blank are skipped so they keep their defaults.
func envKey(key, value string) (string, any) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return strings.ToLower(key), value
}

func (c *Config) resolveAllowlist(secrets SecretLookup) {
	if strings.TrimSpace(c.AllowedNumbers) != "" {
		c.AllowlistSource = SourceConfig
		return
	}
	c.AllowlistSource = SourceNone
	if secrets == nil {
		return
	}
	if stored, err := secrets(keychain.AllowlistAccount); err == nil && strings.TrimSpace(stored) != "" {
		c.AllowedNumbers = stored
		c.AllowlistSource = SourceKeychain
	}
}

// Validate rejects settings the bot cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.CommandPrefix == "" {
		errs = append(errs, errors.New("command_prefix must not be empty"))
	}
	if c.TimezoneOffset < minOffsetMinutes || c.TimezoneOffset > maxOffsetMinutes {
		errs = append(errs, fmt.Errorf("user_timezone_offset %d out of range", c.TimezoneOffset))
	}
	if c.WorkoutListLimit <= 0 {
		errs = append(errs, fmt.Errorf("workout_list_limit must be positive, got %d", c.WorkoutListLimit))
	}
	if c.RateLimitPerMinute < 0 {
		errs = append(errs, fmt.Errorf("rate_limit_per_minute must not be negative, got %d", c.RateLimitPerMinute))
	}
	if c.FeatureReminder && !gronx.New().IsValid(c.ReminderSchedule) {
		errs = append(errs, fmt.Errorf("reminder_schedule %q is not a valid cron expression", c.ReminderSchedule))
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format must be console or json, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// DataPath returns the storage directory.
func (c *Config) DataPath() string {
	switch {
	case c.DataDir != "":
		return c.DataDir
	case c.RailwayVolume != "":
		return c.RailwayVolume
	default:
		return "data"
	}
}

// DatabasePath is the bot's own SQLite database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataPath(), "bot.db")
}

// SessionPath is the WhatsApp device session database.
func (c *Config) SessionPath() string {
	return filepath.Join(c.DataPath(), "session.db")
}

// ReminderEnabled reports whether the daily todo reminder should run.
func (c *Config) ReminderEnabled() bool {
	return c.FeatureTodo && c.FeatureReminder
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return content, nil
}
