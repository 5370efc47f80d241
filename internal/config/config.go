package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Token         string `env:"DISCORD_TOKEN,required,notEmpty"`
	ApplicationID string `env:"APPLICATION_ID"`
	GuildID       string `env:"GUILD_ID"`
	LogChannelID  string `env:"LOG_CHANNEL_ID"`
	Environment   string `env:"APP_ENV" envDefault:"development"`
	Prefix        string `env:"COMMAND_PREFIX" envDefault:"!"`

	StatsPath        string `env:"STATS_PATH" envDefault:"data/playerStats.json"`
	StatsBackupCount int    `env:"STATS_BACKUP_COUNT" envDefault:"3"`

	APIAddr    string `env:"API_ADDR" envDefault:":3000"`
	APIEnabled bool   `env:"API_ENABLED" envDefault:"true"`

	RegisterOnStart bool   `env:"REGISTER_ON_START" envDefault:"true"`
	Duplicates      string `env:"COMMAND_DUPLICATES" envDefault:"reject"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}
	return Parse()
}

// Parse reads the Config from the current environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.StatsBackupCount < 0 {
		return nil, fmt.Errorf("config: STATS_BACKUP_COUNT must not be negative")
	}
	return &cfg, nil
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// RequireApplicationID fails when APPLICATION_ID is unset.
func (c *Config) RequireApplicationID() error {
	if c.ApplicationID == "" {
		return fmt.Errorf("config: APPLICATION_ID is not set")
	}
	return nil
}
