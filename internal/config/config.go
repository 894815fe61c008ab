package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken string `toml:"telegram_token"`
	DatabaseURL   string `toml:"database_url"`
	AdminID       int64  `toml:"admin_id"`
	WebhookSecret string `toml:"webhook_secret"`
	WebhookURL    string `toml:"webhook_url"`
	ListenAddr    string `toml:"listen_addr"`
	StartTrigger  string `toml:"start_trigger"`
	LogLevel      string `toml:"log_level"`

	// ProbeInterval is how often the store connection is checked; 0 disables it.
	ProbeInterval time.Duration `toml:"-"`
	ProbeRaw      string        `toml:"store_probe_interval"`
}

// Load reads the optional TOML file at path, then applies environment
// variables on top of it and fills in defaults.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "codebot.db"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.StartTrigger == "" {
		cfg.StartTrigger = "/start"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	interval, err := parseInterval(cfg.ProbeRaw)
	if err != nil {
		return cfg, fmt.Errorf("store_probe_interval: %w", err)
	}
	cfg.ProbeInterval = interval

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.TelegramToken, "TELEGRAM_BOT_TOKEN")
	setString(&c.TelegramToken, "TELEGRAM_TOKEN")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.WebhookSecret, "WEBHOOK_SECRET")
	setString(&c.WebhookURL, "WEBHOOK_URL")
	setString(&c.StartTrigger, "START_TRIGGER")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.ProbeRaw, "STORE_PROBE_INTERVAL")

	if port := env("PORT"); port != "" {
		c.ListenAddr = ":" + port
	}
	setString(&c.ListenAddr, "LISTEN_ADDR")

	if raw := env("ADMIN_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("ADMIN_ID: %w", err)
		}
		c.AdminID = id
	}
	return nil
}

// parseInterval accepts Go durations ("30s", "2m"). Empty means the default
// of one minute, "0" disables probing.
func parseInterval(raw string) (time.Duration, error) {
	if raw == "" {
		return time.Minute, nil
	}
	if raw == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative interval %q", raw)
	}
	return d, nil
}

func setString(dst *string, key string) {
	if v := env(key); v != "" {
		*dst = v
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
