// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	//Search criteria
	Keywords  []string `yaml:"keywords"`
	Locations []string `yaml:"locations"`
	Sites     []string `yaml:"sites"` // empty = all sites

	//Scrape behaviour
	NavTimeoutSeconds int  `yaml:"nav_timeout_seconds"`
	SiteDelaySeconds  int  `yaml:"site_delay_seconds"`
	BatchSize         int  `yaml:"batch_size"`
	Headless          bool `yaml:"headless"`

	//Retention & scheduling
	RetentionDays int    `yaml:"retention_days"`
	ScrapeCron    string `yaml:"scrape_cron"`
	RetentionCron string `yaml:"retention_cron"`

	//Paths
	CookiesPath   string `yaml:"cookies_path"`
	CachePath     string `yaml:"cache_path"`
	ScreenshotDir string `yaml:"screenshot_dir"`

	//Infrastructure (env only)
	DatabaseURL    string `env:"DATABASE_URL"`
	Port           string `env:"PORT"`
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{Headless: true}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.Port = os.Getenv("PORT")

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	//Set default values if not set
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = []string{"developer"}
	}
	if len(cfg.Locations) == 0 {
		cfg.Locations = []string{"lagos"}
	}
	if cfg.NavTimeoutSeconds <= 0 {
		cfg.NavTimeoutSeconds = 60
	}
	if cfg.SiteDelaySeconds <= 0 {
		cfg.SiteDelaySeconds = 2
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 7
	}
	if cfg.ScrapeCron == "" {
		cfg.ScrapeCron = "@daily"
	}
	if cfg.RetentionCron == "" {
		cfg.RetentionCron = "@weekly"
	}
	if cfg.CookiesPath == "" {
		cfg.CookiesPath = ".cookies"
	}
	if cfg.CachePath == "" {
		cfg.CachePath = ".cache"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	//Validate required fields
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	return cfg
}

func (c *Config) NavTimeout() time.Duration {
	return time.Duration(c.NavTimeoutSeconds) * time.Second
}

func (c *Config) SiteDelay() time.Duration {
	return time.Duration(c.SiteDelaySeconds) * time.Second
}

func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}
