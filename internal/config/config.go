package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// BackupConfig controls periodic database backups.
type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"` // cron spec, e.g. "0 3 * * *" or "@daily"
	StoragePath   string `yaml:"storage_path"`
	RetentionDays int    `yaml:"retention_days"`
}

type Config struct {
	Server struct {
		Address            string `yaml:"address"`
		RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
		APIKey             string `yaml:"api_key"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Backup BackupConfig `yaml:"backup"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Reservations struct {
		Enabled         bool   `yaml:"enabled"`
		BaseURL         string `yaml:"base_url"`
		APIKey          string `yaml:"api_key"`
		TimeoutSeconds  int    `yaml:"timeout_seconds"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"reservations"`

	Autosave struct {
		DebounceMs int `yaml:"debounce_ms"`
	} `yaml:"autosave"`

	Telegram struct {
		BotToken          string `yaml:"bot_token"`
		ChatID            int64  `yaml:"chat_id"`
		Debug             bool   `yaml:"debug"`
		MessagesPerMinute int    `yaml:"messages_per_minute"`
	} `yaml:"telegram"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	VenuesConfigPath string `yaml:"venues_config_path"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/horario.db"
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field settings.
func (c *Config) Validate() error {
	if c.Backup.Enabled {
		if _, err := cron.ParseStandard(c.BackupSchedule()); err != nil {
			return fmt.Errorf("backup.schedule: invalid cron spec %q: %w", c.Backup.Schedule, err)
		}
	}
	if c.Reservations.Enabled && c.Reservations.BaseURL == "" {
		return fmt.Errorf("reservations.base_url is required when reservations are enabled")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	if c.Autosave.DebounceMs < 0 {
		return fmt.Errorf("autosave.debounce_ms cannot be negative")
	}
	return nil
}

func (c *Config) ServerAddress() string {
	if c.Server.Address == "" {
		return ":8080"
	}
	return c.Server.Address
}

func (c *Config) RateLimitPerMinute() int {
	if c.Server.RateLimitPerMinute <= 0 {
		return 120
	}
	return c.Server.RateLimitPerMinute
}

func (c *Config) AutosaveDelay() time.Duration {
	if c.Autosave.DebounceMs <= 0 {
		return 800 * time.Millisecond
	}
	return time.Duration(c.Autosave.DebounceMs) * time.Millisecond
}

func (c *Config) BackupSchedule() string {
	if c.Backup.Schedule == "" {
		return "@daily"
	}
	return c.Backup.Schedule
}

func (c *Config) BackupStoragePath() string {
	if c.Backup.StoragePath == "" {
		return filepath.Join(filepath.Dir(c.Database.Path), "backups")
	}
	return c.Backup.StoragePath
}

func (c *Config) ReservationsTimeout() time.Duration {
	if c.Reservations.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Reservations.TimeoutSeconds) * time.Second
}

func (c *Config) ReservationsCacheTTL() time.Duration {
	if c.Reservations.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Reservations.CacheTTLSeconds) * time.Second
}

func (c *Config) TelegramMessagesPerMinute() int {
	if c.Telegram.MessagesPerMinute <= 0 {
		return 20
	}
	return c.Telegram.MessagesPerMinute
}

func (c *Config) HealthCheckPort() int {
	if c.Monitoring.HealthCheckPort == 0 {
		return 8090
	}
	return c.Monitoring.HealthCheckPort
}

func (c *Config) PrometheusPort() int {
	if c.Monitoring.PrometheusPort == 0 {
		return 9090
	}
	return c.Monitoring.PrometheusPort
}

func (c *Config) VenuesPath() string {
	if c.VenuesConfigPath == "" {
		return "configs/venues.yaml"
	}
	return c.VenuesConfigPath
}
