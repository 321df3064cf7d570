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

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Gateway.BaseURL)
	assert.Equal(t, "memory", cfg.Cache.Type)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.False(t, cfg.Database.Enabled)
	assert.Contains(t, cfg.CORS.AllowedHeaders, "X-User-Id")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("GATEWAY_BASE_URL", "http://gateway:8080")
	t.Setenv("GATEWAY_TIMEOUT", "5s")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "http://gateway:8080", cfg.Gateway.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Gateway.Timeout)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	bad := *cfg
	bad.Server.Port = 0
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Gateway.BaseURL = "not a url"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Cache.Type = "memcached"
	assert.Error(t, bad.Validate())
}
