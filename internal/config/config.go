// Package config loads the bot configuration from the environment, with an
// optional .env file for local runs.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the bot.
type Config struct {
	DiscordToken    string          `env:"DISCORD_TOKEN"`
	ClientID        string          `env:"DISCORD_CLIENT_ID"`
	CommandGuildID  string          `env:"COMMAND_GUILD_ID"`
	DisabledCmds    map[string]bool `env:"DISABLED_COMMANDS"`
	SkipRegister    bool            `env:"SKIP_REGISTER"`
	SkipEmojis      bool            `env:"SKIP_EMOJIS"`
	StatusText      string          `env:"STATUS_TEXT" envDefault:"CC#13"`
	APIURL          string          `env:"API_URL" envDefault:"https://awedtan.ca/api"`
	AssetURL        string          `env:"ASSET_URL" envDefault:"https://raw.githubusercontent.com/Awedtan/HellaAssets/main"`
	APITimeout      time.Duration   `env:"API_TIMEOUT" envDefault:"0s"`
	EmojiResyncCron string          `env:"EMOJI_RESYNC_CRON"`
	SeasonsFile     string          `env:"SEASONS_FILE"`
	DataPath        string          `env:"DATA_PATH" envDefault:"data"`
	LogLevel        string          `env:"LOG_LEVEL" envDefault:"info"`
	LogFile         string          `env:"LOG_FILE"`
	LogPretty       bool            `env:"LOG_PRETTY" envDefault:"true"`
}

// ErrMissingToken is returned when DISCORD_TOKEN is not set.
var ErrMissingToken = errors.New("DISCORD_TOKEN is not set")

// Load reads the optional .env file and parses the environment. It reports
// whether a .env file was found so the caller can log it.
func Load() (*Config, bool, error) {
	dotenv := godotenv.Load() == nil

	cfg, err := Parse()
	return cfg, dotenv, err
}

// Parse parses the process environment into a Config and validates it.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.normalize()
	return &cfg, nil
}

// Validate checks the settings the bot cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DiscordToken) == "" {
		return ErrMissingToken
	}
	if c.APITimeout < 0 {
		return fmt.Errorf("API_TIMEOUT must not be negative, got %s", c.APITimeout)
	}
	return nil
}

func (c *Config) normalize() {
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	c.AssetURL = strings.TrimRight(c.AssetURL, "/")

	disabled := make(map[string]bool, len(c.DisabledCmds))
	for name, off := range c.DisabledCmds {
		disabled[strings.ToLower(strings.TrimSpace(name))] = off
	}
	c.DisabledCmds = disabled
}
