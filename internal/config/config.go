package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const minJWTSecretLength = 32

// Config contains server configuration parameters.
type Config struct {
	Port         string        `env:"PORT" envDefault:"8080"`
	DatabasePath string        `env:"DATABASE_PATH"` // Empty selects the in-memory backend.
	JWTSecret    string        `env:"JWT_SECRET"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"true"`
	BcryptCost   int           `env:"BCRYPT_COST" envDefault:"12"`
	LogLevel     int           `env:"LOG_LEVEL" envDefault:"0"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	SeedDemo     bool          `env:"SEED_DEMO" envDefault:"false"`
	Login        Login         `envPrefix:"LOGIN_"`
}

// Login contains the login rate limit.
type Login struct {
	Rate  float64 `env:"RATE" envDefault:"0.2"` // Attempts refilled per second.
	Burst float64 `env:"BURST" envDefault:"5"`
}

// Load reads an optional .env file, then parses and validates the
// environment. Variables already set take precedence over .env entries.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	return NewConfig()
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if len(c.JWTSecret) < minJWTSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.Login.Rate < 0 || c.Login.Burst < 1 {
		errs = append(errs, errors.New("LOGIN_RATE must be >= 0 and LOGIN_BURST >= 1"))
	}
	return errors.Join(errs...)
}

// SlogLevel maps LogLevel onto slog levels.
func (c *Config) SlogLevel() slog.Level {
	return slog.Level(c.LogLevel)
}
