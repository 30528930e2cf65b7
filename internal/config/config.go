// Package config reads server settings from the environment (and an optional .env file).
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root configuration.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Auth       AuthConfig
	Game       GameConfig
	Dictionary DictionaryConfig
	Database   DatabaseConfig
}

type ServerConfig struct {
	Port          string `env:"PORT"           env-default:"5175"`
	ClientOrigin  string `env:"CLIENT_ORIGIN"  env-default:"http://localhost:5173"`
	SecureCookies bool   `env:"SECURE_COOKIES" env-default:"false"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  env-default:"info"`
	Pretty bool   `env:"LOG_PRETTY" env-default:"false"`
}

type AuthConfig struct {
	JWTSecret  string   `env:"JWT_SECRET"       env-default:"dev_secret_change_me"`
	ExpireDays int      `env:"JWT_EXPIRES_DAYS" env-default:"14"`
	CookieName string   `env:"COOKIE_NAME"      env-default:"snoowords_token"`
	Admins     []string `env:"ADMIN_USERNAMES"  env-separator:","`
}

type GameConfig struct {
	WordsFile    string        `env:"WORDS_FILE"`
	LetterCount  int           `env:"LETTER_COUNT"  env-default:"12"`
	MinVowels    int           `env:"MIN_VOWELS"    env-default:"3"`
	RoundSeconds int           `env:"ROUND_SECONDS" env-default:"120"`
	DailySalt    string        `env:"DAILY_SALT"    env-default:"local_dev_salt"`
	RoundTTL     time.Duration `env:"ROUND_TTL"     env-default:"2h"`
}

type DictionaryConfig struct {
	Enabled   bool          `env:"DICTIONARY_ENABLED"    env-default:"false"`
	URL       string        `env:"DICTIONARY_URL"        env-default:"https://api.dictionaryapi.dev/api/v2/entries/en"`
	Timeout   time.Duration `env:"DICTIONARY_TIMEOUT"    env-default:"5s"`
	CacheSize int           `env:"DICTIONARY_CACHE_SIZE" env-default:"4096"`
}

type DatabaseConfig struct {
	Path string `env:"DATABASE_PATH" env-default:"./data/snoowords.db"`
}

// RoundDuration is the configured time limit per round.
func (g GameConfig) RoundDuration() time.Duration {
	return time.Duration(g.RoundSeconds) * time.Second
}

// Load reads .env (when present) and the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Game.LetterCount < 3 || c.Game.LetterCount > 32 {
		errs = append(errs, fmt.Errorf("LETTER_COUNT must be 3..32, got %d", c.Game.LetterCount))
	}
	if c.Game.MinVowels < 0 || c.Game.MinVowels > c.Game.LetterCount {
		errs = append(errs, fmt.Errorf("MIN_VOWELS must be 0..LETTER_COUNT, got %d", c.Game.MinVowels))
	}
	if c.Game.RoundSeconds < 0 {
		errs = append(errs, errors.New("ROUND_SECONDS must not be negative"))
	}
	if c.Game.RoundTTL <= 0 {
		errs = append(errs, errors.New("ROUND_TTL must be positive"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.ExpireDays <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_DAYS must be positive"))
	}
	if c.Dictionary.Enabled && c.Dictionary.URL == "" {
		errs = append(errs, errors.New("DICTIONARY_URL is required when the dictionary is enabled"))
	}
	return errors.Join(errs...)
}
