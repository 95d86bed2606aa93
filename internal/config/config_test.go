package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.HTTPPort)
	assert.Equal(t, SessionStoreMemory, cfg.SessionStore)
	assert.Equal(t, []string{"SELLER", "ADMIN"}, cfg.SellerRoles)
	assert.Equal(t, 12*time.Hour, cfg.SessionMaxTTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.InDelta(t, 10.0, cfg.SavesPerMinute, 0.001)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("CONSOLE_HTTP_PORT", "9000")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("CATALOG_BASE_URL", "https://catalog.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, SessionStoreRedis, cfg.SessionStore)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "https://catalog.example.com", cfg.CatalogBaseURL)
}

func validConfig() *Config {
	return &Config{
		Environment:           "development",
		HTTPPort:              8090,
		CatalogBaseURL:        "http://catalog:8080",
		CatalogPublicFileHost: "http://cdn:8080",
		SessionStore:          SessionStoreMemory,
		SavesPerMinute:        10,
		SaveBurst:             3,
		OTELSampleRate:        1,
		EventsEnabled:         true,
		KafkaBrokers:          []string{"kafka:9092"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.HTTPPort = 0 }, "invalid HTTP port"},
		{"relative catalog url", func(c *Config) { c.CatalogBaseURL = "catalog:8080/api" }, "CATALOG_BASE_URL"},
		{"empty file host allowed", func(c *Config) { c.CatalogPublicFileHost = "" }, ""},
		{"unknown session store", func(c *Config) { c.SessionStore = "etcd" }, "SESSION_STORE must be"},
		{"memory store in production", func(c *Config) { c.Environment = "production" }, "not allowed in production"},
		{"redis store in production", func(c *Config) { c.Environment = "production"; c.SessionStore = SessionStoreRedis }, ""},
		{"zero burst", func(c *Config) { c.SaveBurst = 0 }, "SAVE_BURST"},
		{"sample rate", func(c *Config) { c.OTELSampleRate = 1.5 }, "OTEL_SAMPLE_RATE"},
		{"events without brokers", func(c *Config) { c.KafkaBrokers = nil }, "KAFKA_BROKERS"},
		{"events disabled without brokers", func(c *Config) { c.KafkaBrokers = nil; c.EventsEnabled = false }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadCLI_UsesPrefix(t *testing.T) {
	t.Setenv("PERFUMECTL_CATALOG_BASE_URL", "https://catalog.example.com")
	t.Setenv("PERFUMECTL_TOKEN", "abc")
	t.Setenv("CATALOG_BASE_URL", "http://ignored:1")

	cfg, err := LoadCLI()
	require.NoError(t, err)

	assert.Equal(t, "https://catalog.example.com", cfg.CatalogBaseURL)
	assert.Equal(t, "abc", cfg.Token)
	assert.Equal(t, 30*time.Second, cfg.CatalogTimeout)
}

func TestLoadCLI_RejectsBadURL(t *testing.T) {
	t.Setenv("PERFUMECTL_CATALOG_BASE_URL", "not a url")

	_, err := LoadCLI()
	assert.Error(t, err)
}
