package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
)

const PROD_STRING = "prod"

// Config holds the server configuration loaded from environment.
type Config struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	ProdOrigins string `envconfig:"PROD_ORIGINS"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":9090"`

	DBDSN         string `envconfig:"DB_DSN" required:"true"`
	DBMaxConns    int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	RunMigrations bool   `envconfig:"RUN_MIGRATIONS" default:"true"`

	// OwnerWithoutItems is either "empty" or "error".
	OwnerWithoutItems booking.OwnerWithoutItems `envconfig:"OWNER_WITHOUT_ITEMS" default:"empty"`

	// An empty secret disables gateway token verification.
	InternalTokenSecret string        `envconfig:"INTERNAL_TOKEN_SECRET"`
	InternalTokenTTL    time.Duration `envconfig:"INTERNAL_TOKEN_TTL" default:"30s"`

	// No brokers means booking events are dropped.
	KafkaBrokers      []string `envconfig:"KAFKA_BROKERS"`
	KafkaBookingTopic string   `envconfig:"KAFKA_BOOKING_TOPIC" default:"booking-events"`
}

// IsProduction reports whether APP_ENV selects the production profile.
func (c *Config) IsProduction() bool {
	return c.AppEnv == PROD_STRING
}

// GatewayConfig holds the gateway configuration loaded from environment.
type GatewayConfig struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	GatewayAddr string `envconfig:"GATEWAY_ADDR" default:":8080"`
	ServerURL   string `envconfig:"SERVER_URL" default:"http://localhost:9090"`

	InternalTokenSecret string        `envconfig:"INTERNAL_TOKEN_SECRET"`
	InternalTokenTTL    time.Duration `envconfig:"INTERNAL_TOKEN_TTL" default:"30s"`
}

// IsProduction reports whether APP_ENV selects the production profile.
func (c *GatewayConfig) IsProduction() bool {
	return c.AppEnv == PROD_STRING
}

// Load loads the server configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process server config: %w", err)
	}

	// envconfig accepts a present-but-empty variable as set.
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	if cfg.InternalTokenSecret != "" && cfg.InternalTokenTTL <= 0 {
		return nil, fmt.Errorf("INTERNAL_TOKEN_TTL must be positive")
	}

	return cfg, nil
}

// LoadGateway loads the gateway configuration from .env (optional) and environment variables.
func LoadGateway() (*GatewayConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &GatewayConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process gateway config: %w", err)
	}

	if cfg.InternalTokenSecret != "" && cfg.InternalTokenTTL <= 0 {
		return nil, fmt.Errorf("INTERNAL_TOKEN_TTL must be positive")
	}

	return cfg, nil
}

// loadDotEnv loads .env if present. A missing file is not an error.
func loadDotEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}
