package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
)

// minKeyLength is the HS256 key size in bytes
const minKeyLength = 32

// Config holds application configuration
type Config struct {
	Port        string        `env:"PORT,default=8080"`
	DBDriver    string        `env:"DB_DRIVER,default=postgres"`
	DBConn      string        `env:"DB_CONN,default=host=localhost port=5432 user=places password=places dbname=places sslmode=disable"`
	LogLevel    string        `env:"LOG_LEVEL,default=info"`
	JWTKey      string        `env:"JWT_KEY"`
	JWTIssuer   string        `env:"JWT_ISSUER,default=places-api"`
	JWTAudience string        `env:"JWT_AUDIENCE,default=places-clients"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,default=2h"`
	CORSOrigins string        `env:"CORS_ORIGINS,default=*"`
	AutoMigrate bool          `env:"AUTO_MIGRATE,default=true"`
	BcryptCost  int           `env:"BCRYPT_COST,default=0"`
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.validateAuth(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load decodes the environment and checks only the database settings. It is
// enough for commands that never issue tokens.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}
	if err := cfg.validateDatabase(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validateDatabase() error {
	if c.DBConn == "" {
		return fmt.Errorf("DB_CONN is required")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	return nil
}

func (c *Config) validateAuth() error {
	if c.JWTKey == "" {
		return fmt.Errorf("JWT_KEY is required")
	}
	if len(c.JWTKey) < minKeyLength {
		return fmt.Errorf("JWT_KEY must be at least %d bytes", minKeyLength)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}

// AllowedOrigins splits CORS_ORIGINS on commas
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
