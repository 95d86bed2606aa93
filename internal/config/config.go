package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/Maverickd18/Frontend-Perfume-sub000/pkg/config"
)

// Session store backends.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config holds all configuration for the seller console service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort    int      `env:"CONSOLE_HTTP_PORT" envDefault:"8090"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	SellerRoles []string `env:"SELLER_ROLES" envDefault:"SELLER,ADMIN" envSeparator:","`

	// Catalog service
	CatalogBaseURL        string        `env:"CATALOG_BASE_URL" envDefault:"http://localhost:8080"`
	CatalogPublicFileHost string        `env:"CATALOG_PUBLIC_FILE_HOST" envDefault:"http://localhost:8080"`
	CatalogTimeout        time.Duration `env:"CATALOG_TIMEOUT" envDefault:"10s"`
	CatalogMaxRetries     int           `env:"CATALOG_MAX_RETRIES" envDefault:"2"`

	// Seller sessions
	SessionStore  string        `env:"SESSION_STORE" envDefault:"memory"`
	SessionMaxTTL time.Duration `env:"SESSION_MAX_TTL" envDefault:"12h"`
	SessionLeeway time.Duration `env:"SESSION_LEEWAY" envDefault:"30s"`

	// Redis
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	EventsEnabled bool     `env:"EVENTS_ENABLED" envDefault:"true"`
	KafkaBrokers  []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Save rate limit per seller
	SavesPerMinute float64 `env:"SAVES_PER_MINUTE" envDefault:"10"`
	SaveBurst      int     `env:"SAVE_BURST" envDefault:"3"`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load console config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if err := checkURL("CATALOG_BASE_URL", c.CatalogBaseURL); err != nil {
		return err
	}
	if c.CatalogPublicFileHost != "" {
		if err := checkURL("CATALOG_PUBLIC_FILE_HOST", c.CatalogPublicFileHost); err != nil {
			return err
		}
	}
	switch c.SessionStore {
	case SessionStoreMemory:
		if c.Environment == "production" {
			return fmt.Errorf("SESSION_STORE=%s is not allowed in production", c.SessionStore)
		}
	case SessionStoreRedis:
	default:
		return fmt.Errorf("SESSION_STORE must be %q or %q, got %q", SessionStoreMemory, SessionStoreRedis, c.SessionStore)
	}
	if c.SavesPerMinute <= 0 || c.SaveBurst < 1 {
		return fmt.Errorf("SAVES_PER_MINUTE must be positive and SAVE_BURST at least 1")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0 and 1, got %v", c.OTELSampleRate)
	}
	if c.EventsEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when EVENTS_ENABLED is set")
	}
	return nil
}

// CLI holds perfumectl configuration, read from PERFUMECTL_-prefixed variables.
type CLI struct {
	CatalogBaseURL        string        `env:"CATALOG_BASE_URL" envDefault:"http://localhost:8080"`
	CatalogPublicFileHost string        `env:"CATALOG_PUBLIC_FILE_HOST" envDefault:"http://localhost:8080"`
	CatalogTimeout        time.Duration `env:"CATALOG_TIMEOUT" envDefault:"30s"`
	Token                 string        `env:"TOKEN"`
	LogLevel              string        `env:"LOG_LEVEL" envDefault:"warn"`
}

// CLIPrefix namespaces the CLI's environment variables.
const CLIPrefix = "PERFUMECTL_"

// LoadCLI reads perfumectl configuration from the environment.
func LoadCLI() (*CLI, error) {
	cfg := &CLI{}
	if err := pkgconfig.LoadWithPrefix(cfg, CLIPrefix); err != nil {
		return nil, fmt.Errorf("load perfumectl config: %w", err)
	}
	if err := checkURL(CLIPrefix+"CATALOG_BASE_URL", cfg.CatalogBaseURL); err != nil {
		return nil, err
	}
	return cfg, nil
}

func checkURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
	}
	return nil
}
