package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"LeverageScope/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Plot struct {
		InitialLR0 float64 `yaml:"initial_lr0"`
		MinLR0     float64 `yaml:"min_lr0"`
		MaxLR0     float64 `yaml:"max_lr0"`
		Samples    int     `yaml:"samples"`
		Epsilon    float64 `yaml:"epsilon"`
		YLimit     string  `yaml:"y_limit"`
		Width      int     `yaml:"width"`
		Height     int     `yaml:"height"`
	} `yaml:"plot"`
	Server struct {
		ListenAddr    string  `yaml:"listen_addr"`
		UpdatesPerSec float64 `yaml:"updates_per_sec"`
		Burst         int     `yaml:"burst"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		SnapshotCron string `yaml:"snapshot_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Session struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"session"`
	LogLevel string `yaml:"log_level"`
}

// Load reads .env and the YAML file at path, then applies environment
// variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("INITIAL_LR0"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse INITIAL_LR0: %w", err)
		}
		cfg.Plot.InitialLR0 = f
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SNAPSHOT_CRON"); v != "" {
		cfg.Schedule.SnapshotCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SESSION_STATE_FILE"); v != "" {
		cfg.Session.StateFile = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := model.DefaultParams()
	if c.Plot.InitialLR0 == 0 {
		c.Plot.InitialLR0 = d.InitialLR0
	}
	if c.Plot.MinLR0 == 0 {
		c.Plot.MinLR0 = d.MinLR0
	}
	if c.Plot.MaxLR0 == 0 {
		c.Plot.MaxLR0 = d.MaxLR0
	}
	if c.Plot.Samples == 0 {
		c.Plot.Samples = d.Samples
	}
	if c.Plot.Epsilon == 0 {
		c.Plot.Epsilon = d.Epsilon
	}
	if c.Plot.YLimit == "" {
		c.Plot.YLimit = string(d.YLimit)
	}
	if c.Plot.Width == 0 {
		c.Plot.Width = 1200
	}
	if c.Plot.Height == 0 {
		c.Plot.Height = 800
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.Server.UpdatesPerSec == 0 {
		c.Server.UpdatesPerSec = 20
	}
	if c.Server.Burst == 0 {
		c.Server.Burst = 10
	}
	if c.Schedule.SnapshotCron == "" {
		c.Schedule.SnapshotCron = "0 0 * * * *"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks that the plot parameters describe a drawable domain.
func (c *Config) Validate() error {
	p := c.Plot
	if p.MinLR0 <= 0 {
		return fmt.Errorf("plot.min_lr0 must be positive")
	}
	if p.MaxLR0 < p.MinLR0 {
		return fmt.Errorf("plot.max_lr0 must be >= plot.min_lr0")
	}
	if p.InitialLR0 < p.MinLR0 || p.InitialLR0 > p.MaxLR0 {
		return fmt.Errorf("plot.initial_lr0 %.2f outside [%.2f, %.2f]", p.InitialLR0, p.MinLR0, p.MaxLR0)
	}
	if p.Samples < 2 {
		return fmt.Errorf("plot.samples must be at least 2")
	}
	if p.Epsilon <= 0 {
		return fmt.Errorf("plot.epsilon must be positive")
	}
	if 1/p.MaxLR0-p.Epsilon <= 0 {
		return fmt.Errorf("plot.epsilon %.4f leaves no t domain at lr0 %.2f", p.Epsilon, p.MaxLR0)
	}
	switch model.YLimitMode(p.YLimit) {
	case model.YLimitAdaptive, model.YLimitLinear:
	default:
		return fmt.Errorf("plot.y_limit must be %q or %q", model.YLimitAdaptive, model.YLimitLinear)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("plot.width and plot.height must be positive")
	}
	if c.Server.UpdatesPerSec <= 0 {
		return fmt.Errorf("server.updates_per_sec must be positive")
	}
	if c.Server.Burst < 1 {
		return fmt.Errorf("server.burst must be at least 1")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Telegram.ChatID != "" {
		if _, err := strconv.ParseInt(c.Telegram.ChatID, 10, 64); err != nil {
			return fmt.Errorf("telegram.chat_id must be numeric: %w", err)
		}
	}
	return nil
}

// Params returns the plot parameters.
func (c *Config) Params() model.Params {
	return model.Params{
		InitialLR0: c.Plot.InitialLR0,
		MinLR0:     c.Plot.MinLR0,
		MaxLR0:     c.Plot.MaxLR0,
		Samples:    c.Plot.Samples,
		Epsilon:    c.Plot.Epsilon,
		YLimit:     model.YLimitMode(c.Plot.YLimit),
	}
}

// TelegramEnabled reports whether the chat surface is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != ""
}

// ChatID returns the numeric Telegram chat id. Call after Validate.
func (c *Config) ChatID() int64 {
	id, _ := strconv.ParseInt(c.Telegram.ChatID, 10, 64)
	return id
}
