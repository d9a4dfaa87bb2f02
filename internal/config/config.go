package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-secret-change-in-production"

var (
	ErrInvalidAPIURL    = errors.New("MISEVENTOS_API_URL must be an absolute http(s) URL")
	ErrInvalidPageSize  = errors.New("MISEVENTOS_PAGE_SIZE must be positive")
	ErrUnknownStorage   = errors.New("MISEVENTOS_STORAGE must be one of file, memory, redis")
	ErrInvalidLogFormat = errors.New("MISEVENTOS_LOG_FORMAT must be text or json")
	ErrDevSecret        = errors.New("FAKEAPI_JWT_SECRET must be set in production environment")
)

// Config configures the client.
type Config struct {
	Env            string        `env:"MISEVENTOS_ENV" envDefault:"development"`
	APIURL         string        `env:"MISEVENTOS_API_URL" envDefault:"http://localhost:8000"`
	HTTPTimeout    time.Duration `env:"MISEVENTOS_HTTP_TIMEOUT" envDefault:"15s"`
	PageSize       int           `env:"MISEVENTOS_PAGE_SIZE" envDefault:"10"`
	RateLimit      float64       `env:"MISEVENTOS_RATE_LIMIT" envDefault:"0"`
	RateBurst      int           `env:"MISEVENTOS_RATE_BURST" envDefault:"5"`
	Storage        string        `env:"MISEVENTOS_STORAGE" envDefault:"file"`
	StatePath      string        `env:"MISEVENTOS_STATE_PATH"`
	RedisURL       string        `env:"MISEVENTOS_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	Locale         string        `env:"MISEVENTOS_LOCALE" envDefault:"es"`
	ToastDuration  time.Duration `env:"MISEVENTOS_TOAST_DURATION" envDefault:"5s"`
	SearchDebounce time.Duration `env:"MISEVENTOS_SEARCH_DEBOUNCE" envDefault:"500ms"`
	StrictOrdering bool          `env:"MISEVENTOS_STRICT_ORDERING" envDefault:"false"`
	LogLevel       string        `env:"MISEVENTOS_LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"MISEVENTOS_LOG_FORMAT" envDefault:"text"`
}

// FakeAPIConfig configures the reference backend.
type FakeAPIConfig struct {
	Env       string        `env:"MISEVENTOS_ENV" envDefault:"development"`
	Port      string        `env:"FAKEAPI_PORT" envDefault:"8000"`
	JWTSecret string        `env:"FAKEAPI_JWT_SECRET" envDefault:"dev-secret-change-in-production"`
	JWTExpiry time.Duration `env:"FAKEAPI_JWT_EXPIRY" envDefault:"24h"`
	LogLevel  string        `env:"MISEVENTOS_LOG_LEVEL" envDefault:"info"`
	LogFormat string        `env:"MISEVENTOS_LOG_FORMAT" envDefault:"text"`
}

// LoadDotEnv loads a .env file from the working directory when there is one.
// Variables already set in the environment win.
func LoadDotEnv() error {
	err := godotenv.Load()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Load reads the client configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.StatePath == "" {
		cfg.StatePath = defaultStatePath()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be expressed as defaults.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidAPIURL, c.APIURL)
	}
	if c.PageSize <= 0 {
		return ErrInvalidPageSize
	}
	switch c.Storage {
	case "file", "memory", "redis":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, c.Storage)
	}
	return validLogFormat(c.LogFormat)
}

// LoadFakeAPI reads the reference backend configuration from the environment.
func LoadFakeAPI() (FakeAPIConfig, error) {
	var cfg FakeAPIConfig
	if err := env.Parse(&cfg); err != nil {
		return FakeAPIConfig{}, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.Env == "production" && cfg.JWTSecret == devJWTSecret {
		return FakeAPIConfig{}, ErrDevSecret
	}
	if err := validLogFormat(cfg.LogFormat); err != nil {
		return FakeAPIConfig{}, err
	}
	return cfg, nil
}

func validLogFormat(f string) error {
	if f != "text" && f != "json" {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, f)
	}
	return nil
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".miseventos", "state.json")
	}
	return filepath.Join(home, ".miseventos", "state.json")
}
