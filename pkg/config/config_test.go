package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int           `env:"TEST_CFG_PORT" envDefault:"8080"`
	BaseURL  string        `env:"TEST_CFG_BASE_URL" envDefault:"https://example.com"`
	Timeout  time.Duration `env:"TEST_CFG_TIMEOUT" envDefault:"10s"`
	Keywords []string      `env:"TEST_CFG_KEYWORDS" envSeparator:","`
}

type validatedConfig struct {
	Port int `env:"TEST_CFG_PORT" envDefault:"8080"`
}

func (c *validatedConfig) Validate() error {
	if c.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://example.com", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.Keywords)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_TIMEOUT", "250ms")
	t.Setenv("TEST_CFG_KEYWORDS", "zapato,bota")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
	assert.Equal(t, []string{"zapato", "bota"}, cfg.Keywords)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadWithEnvironment(t *testing.T) {
	var cfg testConfig
	require.NoError(t, LoadWithEnvironment(&cfg, map[string]string{"TEST_CFG_PORT": "7000"}))
	assert.Equal(t, 7000, cfg.Port)
}

func TestLoad_RunsValidate(t *testing.T) {
	var cfg validatedConfig
	err := LoadWithEnvironment(&cfg, map[string]string{"TEST_CFG_PORT": "-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")

	require.NoError(t, LoadWithEnvironment(&cfg, map[string]string{"TEST_CFG_PORT": "1"}))
}
