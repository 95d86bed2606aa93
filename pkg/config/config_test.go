package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port           int           `env:"TEST_CFG_PORT" envDefault:"8080"`
	CatalogURL     string        `env:"TEST_CFG_CATALOG_URL" envDefault:"http://localhost:8080"`
	LogLevel       string        `env:"TEST_CFG_LOG_LEVEL" envDefault:"info"`
	RequestTimeout time.Duration `env:"TEST_CFG_TIMEOUT" envDefault:"10s"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.CatalogURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_CATALOG_URL", "https://catalog.example.com")
	t.Setenv("TEST_CFG_TIMEOUT", "2s")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "https://catalog.example.com", cfg.CatalogURL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
}

type requiredConfig struct {
	Token string `env:"TEST_CFG_TOKEN,required"`
}

func TestLoad_RequiredFieldMissing(t *testing.T) {
	var cfg requiredConfig
	err := Load(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "not-a-number")

	var cfg testConfig
	require.Error(t, Load(&cfg))
}

func TestLoadWithPrefix(t *testing.T) {
	t.Setenv("CLI_TEST_CFG_PORT", "7070")
	t.Setenv("TEST_CFG_PORT", "9090")

	var cfg testConfig
	require.NoError(t, LoadWithPrefix(&cfg, "CLI_"))

	assert.Equal(t, 7070, cfg.Port)
}
