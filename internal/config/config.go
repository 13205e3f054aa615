package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the complete launcher-kit configuration
type Config struct {
	Env         string         `yaml:"env" env:"LAUNCHERKIT_ENV" env-default:"local"`
	Log         LogConfig      `yaml:"log"`
	StoragePath string         `yaml:"storage_path" env:"LAUNCHERKIT_STORAGE_PATH" env-default:"./storage/launcher-kit.db"`
	CacheDir    string         `yaml:"cache_dir" env:"LAUNCHERKIT_CACHE_DIR" env-default:"./storage/cache"`
	Device      DeviceConfig   `yaml:"device"`
	Platform    PlatformConfig `yaml:"platform"`
	Watcher     WatcherConfig  `yaml:"watcher"`
	Server      ServerConfig   `yaml:"server"`
	Journal     JournalConfig  `yaml:"journal"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LAUNCHERKIT_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LAUNCHERKIT_LOG_FORMAT" env-default:"console"`
}

type DeviceConfig struct {
	ID   string `yaml:"id" env:"LAUNCHERKIT_DEVICE_ID"`
	Name string `yaml:"name" env:"LAUNCHERKIT_DEVICE_NAME"`
}

type PlatformConfig struct {
	Kind  string      `yaml:"kind" env:"LAUNCHERKIT_PLATFORM" env-default:"auto"`
	ADB   ADBConfig   `yaml:"adb"`
	Linux LinuxConfig `yaml:"linux"`
}

type ADBConfig struct {
	Path           string        `yaml:"path" env:"LAUNCHERKIT_ADB_PATH" env-default:"adb"`
	Serial         string        `yaml:"serial" env:"LAUNCHERKIT_ADB_SERIAL"`
	AAPTPath       string        `yaml:"aapt_path" env:"LAUNCHERKIT_AAPT_PATH"`
	CommandTimeout time.Duration `yaml:"command_timeout" env:"LAUNCHERKIT_ADB_TIMEOUT" env-default:"15s"`
}

type LinuxConfig struct {
	// DataDirs overrides XDG_DATA_HOME + XDG_DATA_DIRS when set
	DataDirs           []string `yaml:"data_dirs" env:"LAUNCHERKIT_XDG_DATA_DIRS" env-separator:":"`
	SettingsCommand    []string `yaml:"settings_command" env:"LAUNCHERKIT_SETTINGS_COMMAND" env-separator:" "`
	DefaultAppsCommand []string `yaml:"default_apps_command" env:"LAUNCHERKIT_DEFAULT_APPS_COMMAND" env-separator:" "`
	AlarmApp           string   `yaml:"alarm_app" env:"LAUNCHERKIT_ALARM_APP"`
}

type WatcherConfig struct {
	PollInterval time.Duration `yaml:"poll_interval" env:"LAUNCHERKIT_POLL_INTERVAL" env-default:"2s"`
	Workers      int           `yaml:"workers" env:"LAUNCHERKIT_WORKERS" env-default:"2"`
}

type ServerConfig struct {
	Enabled        bool     `yaml:"enabled" env:"LAUNCHERKIT_SERVER_ENABLED" env-default:"true"`
	Host           string   `yaml:"host" env:"LAUNCHERKIT_SERVER_HOST" env-default:"localhost"`
	Port           int      `yaml:"port" env:"LAUNCHERKIT_SERVER_PORT" env-default:"8765"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps" env:"LAUNCHERKIT_RATE_LIMIT_RPS" env-default:"20"`
	RateLimitBurst int      `yaml:"rate_limit_burst" env:"LAUNCHERKIT_RATE_LIMIT_BURST" env-default:"40"`
	AllowOrigins   []string `yaml:"allow_origins" env:"LAUNCHERKIT_ALLOW_ORIGINS" env-separator:","`
}

type JournalConfig struct {
	Enabled       bool          `yaml:"enabled" env:"LAUNCHERKIT_JOURNAL_ENABLED" env-default:"true"`
	BatchSize     int           `yaml:"batch_size" env:"LAUNCHERKIT_JOURNAL_BATCH_SIZE" env-default:"20"`
	FlushInterval time.Duration `yaml:"flush_interval" env:"LAUNCHERKIT_JOURNAL_FLUSH_INTERVAL" env-default:"5s"`
	Retention     time.Duration `yaml:"retention" env:"LAUNCHERKIT_JOURNAL_RETENTION" env-default:"168h"`
}

// Addr returns the listen address of the bridge server
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads the YAML file at path, overlaid with environment
// variables. A missing file falls back to environment and defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
			return &cfg, cfg.validate()
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	switch c.Platform.Kind {
	case "auto", "android", "linux":
	default:
		return fmt.Errorf("invalid platform kind %q", c.Platform.Kind)
	}
	if c.Watcher.Workers <= 0 {
		return fmt.Errorf("watcher.workers must be positive, got %d", c.Watcher.Workers)
	}
	if c.Journal.BatchSize <= 0 {
		return fmt.Errorf("journal.batch_size must be positive, got %d", c.Journal.BatchSize)
	}
	return nil
}
